package checker

import "github.com/ts-forge/tsforge/internal/types"

// IsCompatible reports whether a value of type actual may be used where
// expected is required, per spec §4.3's structural compatibility rules.
// Grounded conceptually on escalier's type_system.Equals traversal shape
// (recursive structural comparison with cmp.Equal), generalized here from
// equality to one-directional subtyping since TypeScript assignability is
// not symmetric.
func IsCompatible(expected, actual types.Type) bool {
	return isCompatible(expected, actual, map[pairKey]bool{})
}

type pairKey struct{ a, b types.Type }

func isCompatible(expected, actual types.Type, seen map[pairKey]bool) bool {
	if _, ok := expected.(*types.AnyType); ok {
		return true
	}
	if _, ok := actual.(*types.AnyType); ok {
		return true
	}
	if _, ok := expected.(*types.UnknownType); ok {
		return true
	}
	if _, ok := actual.(*types.NeverType); ok {
		return true
	}
	if types.Equals(expected, actual) {
		return true
	}

	key := pairKey{expected, actual}
	if seen[key] {
		return true // co-inductive: assume compatible to break recursive class cycles
	}
	seen[key] = true

	if union, ok := actual.(*types.UnionType); ok {
		for _, m := range union.Members {
			if !isCompatible(expected, m, seen) {
				return false
			}
		}
		return true
	}
	if union, ok := expected.(*types.UnionType); ok {
		for _, m := range union.Members {
			if isCompatible(m, actual, seen) {
				return true
			}
		}
		return false
	}

	if inter, ok := expected.(*types.IntersectionType); ok {
		for _, m := range inter.Members {
			if !isCompatible(m, actual, seen) {
				return false
			}
		}
		return true
	}
	if inter, ok := actual.(*types.IntersectionType); ok {
		for _, m := range inter.Members {
			if isCompatible(expected, m, seen) {
				return true
			}
		}
		return false
	}

	switch expected := expected.(type) {
	case *types.StringType:
		_, isLit := actual.(*types.StringLitType)
		return isLit
	case *types.NumberType:
		_, isLit := actual.(*types.NumberLitType)
		return isLit
	case *types.BooleanType:
		_, isLit := actual.(*types.BooleanLitType)
		return isLit
	case *types.VoidType:
		_, isUndef := actual.(*types.UndefinedType)
		return isUndef
	case *types.ArrayType:
		a, ok := actual.(*types.ArrayType)
		if !ok {
			return false
		}
		return isCompatible(expected.Elem, a.Elem, seen)
	case *types.TupleType:
		return tupleCompatible(expected, actual, seen)
	case *types.RecordType:
		return recordCompatible(expected, actual, seen)
	case *types.InstanceType:
		return instanceCompatible(expected, actual, seen)
	case *types.FunctionType:
		return functionCompatible(expected, actual, seen)
	case *types.EnumType:
		return enumCompatible(expected, actual)
	}
	return false
}

func tupleCompatible(expected *types.TupleType, actual types.Type, seen map[pairKey]bool) bool {
	a, ok := actual.(*types.TupleType)
	if !ok {
		return false
	}
	if len(expected.Elems) != len(a.Elems) {
		return false
	}
	for i := range expected.Elems {
		if !isCompatible(expected.Elems[i], a.Elems[i], seen) {
			return false
		}
	}
	return true
}

// recordCompatible implements width-and-depth structural subtyping: actual
// must supply every required field of expected, with a compatible type.
// Extra properties on actual are always accepted; there is no
// excess-property check, for record literals or otherwise.
func recordCompatible(expected *types.RecordType, actual types.Type, seen map[pairKey]bool) bool {
	var actualFields *types.RecordType
	switch a := actual.(type) {
	case *types.RecordType:
		actualFields = a
	case *types.InstanceType:
		actualFields = a.Class.Members
	default:
		return false
	}
	for _, ef := range expected.Fields {
		af, ok := actualFields.FieldByName(ef.Name)
		if !ok {
			if ef.Optional {
				continue
			}
			return false
		}
		if !isCompatible(ef.Type, af.Type, seen) {
			return false
		}
	}
	return true
}

func instanceCompatible(expected *types.InstanceType, actual types.Type, seen map[pairKey]bool) bool {
	a, ok := actual.(*types.InstanceType)
	if ok {
		if a.Class.IsSubclassOf(expected.Class) {
			return true
		}
		// Not a nominal subtype, but two classes with identical public
		// shape are still structurally compatible (TypeScript's duck
		// typing applies to classes too).
		return recordCompatible(expected.Class.Members, a.Class.Members, seen)
	}
	if r, ok := actual.(*types.RecordType); ok {
		return recordCompatible(expected.Class.Members, r, seen)
	}
	return false
}

// functionCompatible checks parameters contravariantly and the return type
// covariantly, the standard function-subtyping rule.
func functionCompatible(expected *types.FunctionType, actual types.Type, seen map[pairKey]bool) bool {
	a, ok := actual.(*types.FunctionType)
	if !ok {
		if gf, ok := actual.(*types.GenericFunctionType); ok {
			a = gf.Inner
		} else {
			return false
		}
	}
	if a.MinArity > len(expected.Params) && !expected.HasRest {
		return false
	}
	for i, ap := range a.Params {
		if ap.Rest {
			break
		}
		if i >= len(expected.Params) {
			if !expected.HasRest {
				return false
			}
			continue
		}
		if !isCompatible(ap.Type, expected.Params[i].Type, seen) {
			return false
		}
	}
	if a.Return == nil || expected.Return == nil {
		return true
	}
	return isCompatible(expected.Return, a.Return, seen)
}

func enumCompatible(expected *types.EnumType, actual types.Type) bool {
	if a, ok := actual.(*types.EnumType); ok {
		return a.Name == expected.Name
	}
	switch actual.(type) {
	case *types.StringLitType, *types.NumberLitType:
		for _, m := range expected.Members {
			if types.Equals(m.Value, actual) {
				return true
			}
		}
	}
	return false
}
