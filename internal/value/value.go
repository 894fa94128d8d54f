// Package value implements the runtime Value Model shared by type-checked
// and dynamically-interpreted code, per spec §3/§4.2. Grounded on funxy's
// internal/vm/value.go: a single tagged struct (Type ValueType, Data
// uint64, Obj evaluator.Object) rather than an interface-per-tag, so every
// call site is forced through an exhaustive switch on Type instead of a
// type assertion that could silently fall through. Generalized here from
// funxy's five tags to spec §3's full value-tag list.
package value

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

type Tag uint8

const (
	TagUndefined Tag = iota
	TagNull
	TagBoolean
	TagNumber
	TagString
	TagBigInt
	TagSymbol
	TagArray
	TagObject
	TagFunction
	TagClass
	TagInstance
	TagRegExp
	TagDate
	TagMap
	TagSet
	TagWeakMap
	TagWeakSet
	TagPromise
	TagBuffer
)

func (t Tag) String() string {
	switch t {
	case TagUndefined:
		return "undefined"
	case TagNull:
		return "null"
	case TagBoolean:
		return "boolean"
	case TagNumber:
		return "number"
	case TagString:
		return "string"
	case TagBigInt:
		return "bigint"
	case TagSymbol:
		return "symbol"
	case TagArray:
		return "array"
	case TagObject:
		return "object"
	case TagFunction:
		return "function"
	case TagClass:
		return "class"
	case TagInstance:
		return "instance"
	case TagRegExp:
		return "regexp"
	case TagDate:
		return "date"
	case TagMap:
		return "map"
	case TagSet:
		return "set"
	case TagWeakMap:
		return "weakmap"
	case TagWeakSet:
		return "weakset"
	case TagPromise:
		return "promise"
	case TagBuffer:
		return "buffer"
	default:
		return "unknown"
	}
}

// Value is the tagged union: Num holds a float64 payload (boolean and
// number both fit inline, the way funxy packs Int/Float/Bool into Data),
// and Obj holds every reference-typed payload. Exactly one of Num/Obj is
// meaningful for a given Tag.
type Value struct {
	Tag Tag
	Num float64
	Obj Object
}

// Object is implemented by every reference-typed payload defined in this
// package: *Array, *Record, *Function, *Class, *Instance, *OrderedMap,
// *OrderedSet, *BigInt (a boxed big.Int), jsString and the getter/setter
// accessor. TagSymbol, TagRegExp, TagDate, TagWeakMap, TagWeakSet,
// TagPromise and TagBuffer have no payload type here.
type Object interface {
	isObject()
}

var (
	Undefined = Value{Tag: TagUndefined}
	Null      = Value{Tag: TagNull}
	True      = Value{Tag: TagBoolean, Num: 1}
	False     = Value{Tag: TagBoolean, Num: 0}
)

func Number(n float64) Value { return Value{Tag: TagNumber, Num: n} }
func Boolean(b bool) Value {
	if b {
		return True
	}
	return False
}

func String(s string) Value { return Value{Tag: TagString, Obj: jsString(s)} }

func BigIntVal(i *big.Int) Value { return Value{Tag: TagBigInt, Obj: (*BigInt)(i)} }

type jsString string

func (jsString) isObject() {}

type BigInt big.Int

func (*BigInt) isObject() {}

func (v Value) AsString() (string, bool) {
	if v.Tag != TagString {
		return "", false
	}
	s, ok := v.Obj.(jsString)
	return string(s), ok
}

func (v Value) AsBool() bool { return v.Tag == TagBoolean && v.Num != 0 }

func (v Value) IsNullish() bool { return v.Tag == TagUndefined || v.Tag == TagNull }

// ToBoolean applies JS truthiness, per spec §3/§4.2.
func ToBoolean(v Value) bool {
	switch v.Tag {
	case TagUndefined, TagNull:
		return false
	case TagBoolean:
		return v.Num != 0
	case TagNumber:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case TagString:
		s, _ := v.AsString()
		return s != ""
	case TagBigInt:
		bi := (*big.Int)(v.Obj.(*BigInt))
		return bi.Sign() != 0
	default:
		return true // every object, array, function, etc. is truthy
	}
}

// ToNumber applies JS's ToNumber abstract operation for the tags this
// model supports.
func ToNumber(v Value) float64 {
	switch v.Tag {
	case TagUndefined:
		return math.NaN()
	case TagNull:
		return 0
	case TagBoolean:
		return v.Num
	case TagNumber:
		return v.Num
	case TagString:
		s := strings.TrimSpace(stringOf(v))
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func stringOf(v Value) string {
	s, _ := v.AsString()
	return s
}
