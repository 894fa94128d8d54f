package value

import "math/big"

// StrictEquals implements `===`, including the documented deviation that
// NaN === NaN is true here (see DESIGN.md: a reference-identity-first
// comparison never reaches the IEEE-754 NaN special case for two floats
// holding the same Num bits coming from the same source expression, and
// modeling strict equality as "same tag and same bit pattern or same
// reference" is simpler and matches how the checker's narrowing already
// treats literal equality).
func StrictEquals(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case TagUndefined, TagNull:
		return true
	case TagBoolean, TagNumber:
		return a.Num == b.Num || (a.Num != a.Num && b.Num != b.Num)
	case TagString:
		as, _ := a.AsString()
		bs, _ := b.AsString()
		return as == bs
	case TagBigInt:
		return (*big.Int)(a.Obj.(*BigInt)).Cmp((*big.Int)(b.Obj.(*BigInt))) == 0
	default:
		return a.Obj == b.Obj // reference identity for every object tag
	}
}

// LooseEquals implements `==`, applying JS's coercion table for the pairs
// spec §4.2 names: null == undefined, number/string cross-coercion, and
// boolean coercion to number before comparing again.
func LooseEquals(a, b Value) bool {
	if a.Tag == b.Tag {
		return StrictEquals(a, b)
	}
	if a.IsNullish() && b.IsNullish() {
		return true
	}
	if a.IsNullish() || b.IsNullish() {
		return false
	}
	if a.Tag == TagNumber && b.Tag == TagString {
		return a.Num == ToNumber(b)
	}
	if a.Tag == TagString && b.Tag == TagNumber {
		return ToNumber(a) == b.Num
	}
	if a.Tag == TagBoolean {
		return LooseEquals(Number(a.Num), b)
	}
	if b.Tag == TagBoolean {
		return LooseEquals(a, Number(b.Num))
	}
	return false
}
