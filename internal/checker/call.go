package checker

import (
	"github.com/ts-forge/tsforge/internal/ast"
	"github.com/ts-forge/tsforge/internal/types"
)

// ResolveCall picks the signature that applies to a call site, handling
// plain functions, overload sets (by specificity scoring, never picking
// the implementation signature), and generic functions (by unification-
// based inference), per spec §4.3.
func ResolveCall(span ast.Span, callee types.Type, argTypes []types.Type) (*types.FunctionType, []*Diagnostic) {
	switch callee := callee.(type) {
	case *types.FunctionType:
		if !arityMatches(callee, len(argTypes)) {
			return nil, []*Diagnostic{noMatchingOverload(span, argTypes)}
		}
		for i, arg := range argTypes {
			idx := i
			if idx >= len(callee.Params) {
				idx = len(callee.Params) - 1
			}
			if idx < 0 {
				break
			}
			p := callee.Params[idx]
			pt := p.Type
			if arr, ok := pt.(*types.ArrayType); ok && p.Rest {
				pt = arr.Elem
			}
			if !IsCompatible(pt, arg) {
				return nil, []*Diagnostic{noMatchingOverload(span, argTypes)}
			}
		}
		return callee, nil
	case *types.OverloadedFunctionType:
		return resolveOverload(span, callee, argTypes)
	case *types.GenericFunctionType:
		return resolveGeneric(span, callee, argTypes)
	default:
		return nil, []*Diagnostic{noMatchingOverload(span, argTypes)}
	}
}

func arityMatches(fn *types.FunctionType, n int) bool {
	if n < fn.MinArity {
		return false
	}
	if !fn.HasRest && n > len(fn.Params) {
		return false
	}
	return true
}

// resolveOverload scores every candidate signature by specificity: an exact
// literal-type match scores higher than a widened-primitive match, which
// scores higher than an `any` match. The Implementation signature is never
// itself a candidate (spec §3's OverloadedFunctionType invariant).
func resolveOverload(span ast.Span, ov *types.OverloadedFunctionType, argTypes []types.Type) (*types.FunctionType, []*Diagnostic) {
	var best *types.FunctionType
	bestScore := -1
	for _, sig := range ov.Signatures {
		if !arityMatches(sig, len(argTypes)) {
			continue
		}
		score, ok := scoreSignature(sig, argTypes)
		if !ok {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = sig
		}
	}
	if best == nil {
		return nil, []*Diagnostic{noMatchingOverload(span, argTypes)}
	}
	return best, nil
}

func scoreSignature(sig *types.FunctionType, argTypes []types.Type) (int, bool) {
	score := 0
	for i, arg := range argTypes {
		if i >= len(sig.Params) {
			if !sig.HasRest {
				return 0, false
			}
			continue
		}
		param := sig.Params[i].Type
		if !IsCompatible(param, arg) {
			return 0, false
		}
		score += specificity(param, arg)
	}
	return score, true
}

// specificity ranks how exact a match is: identical type > literal
// absorbed into its primitive widening > compatible via any.
func specificity(param, arg types.Type) int {
	if types.Equals(param, arg) {
		return 3
	}
	if _, isAny := param.(*types.AnyType); isAny {
		return 0
	}
	if _, isUnknown := param.(*types.UnknownType); isUnknown {
		return 0
	}
	return 1
}

// resolveGeneric infers type arguments from argTypes by unifying each
// parameter's declared type against the corresponding argument's type,
// then substitutes the solved bindings into the signature. Any type
// parameter left unsolved defaults to Any (the standard widening rule)
// rather than failing the call outright.
func resolveGeneric(span ast.Span, gf *types.GenericFunctionType, argTypes []types.Type) (*types.FunctionType, []*Diagnostic) {
	if !arityMatches(gf.Inner, len(argTypes)) {
		return nil, []*Diagnostic{noMatchingOverload(span, argTypes)}
	}
	subst := map[string]types.Type{}
	typeParamSet := map[string]bool{}
	for _, tp := range gf.TypeParams {
		typeParamSet[tp] = true
	}
	for i, arg := range argTypes {
		if i >= len(gf.Inner.Params) {
			break
		}
		unify(gf.Inner.Params[i].Type, arg, typeParamSet, subst)
	}
	var diags []*Diagnostic
	for _, tp := range gf.TypeParams {
		if _, ok := subst[tp]; !ok {
			subst[tp] = types.Any
		}
	}
	return substituteFunction(gf.Inner, subst), diags
}

// unify walks param and arg in lockstep; whenever param is a bare type
// parameter, it records its first-seen solution in subst. A later argument
// of the same call that binds the same type parameter to something else
// doesn't union the two
// candidates — it widens the whole binding to Any, per spec §4.3's
// first-binding-wins inference rule.
func unify(param, arg types.Type, typeParams map[string]bool, subst map[string]types.Type) {
	if tv, ok := param.(*types.TypeVar); ok && typeParams[tv.Name] {
		if existing, ok := subst[tv.Name]; ok {
			if !types.Equals(existing, arg) {
				subst[tv.Name] = types.Any
			}
		} else {
			subst[tv.Name] = arg
		}
		return
	}
	switch param := param.(type) {
	case *types.ArrayType:
		if a, ok := arg.(*types.ArrayType); ok {
			unify(param.Elem, a.Elem, typeParams, subst)
		}
	case *types.TupleType:
		if a, ok := arg.(*types.TupleType); ok {
			for i := range param.Elems {
				if i < len(a.Elems) {
					unify(param.Elems[i], a.Elems[i], typeParams, subst)
				}
			}
		}
	case *types.RecordType:
		var af *types.RecordType
		switch a := arg.(type) {
		case *types.RecordType:
			af = a
		case *types.InstanceType:
			af = a.Class.Members
		}
		if af != nil {
			for _, pf := range param.Fields {
				if field, ok := af.FieldByName(pf.Name); ok {
					unify(pf.Type, field.Type, typeParams, subst)
				}
			}
		}
	case *types.FunctionType:
		if a, ok := arg.(*types.FunctionType); ok {
			for i := range param.Params {
				if i < len(a.Params) {
					unify(param.Params[i].Type, a.Params[i].Type, typeParams, subst)
				}
			}
			if param.Return != nil && a.Return != nil {
				unify(param.Return, a.Return, typeParams, subst)
			}
		}
	}
}

func substituteFunction(fn *types.FunctionType, subst map[string]types.Type) *types.FunctionType {
	params := make([]types.Param, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = types.Param{Name: p.Name, Type: substitute(p.Type, subst), Optional: p.Optional, Rest: p.Rest}
	}
	var ret types.Type
	if fn.Return != nil {
		ret = substitute(fn.Return, subst)
	}
	return &types.FunctionType{Params: params, MinArity: fn.MinArity, HasRest: fn.HasRest, Return: ret}
}

func substitute(t types.Type, subst map[string]types.Type) types.Type {
	switch t := t.(type) {
	case *types.TypeVar:
		if replacement, ok := subst[t.Name]; ok {
			return replacement
		}
		return t
	case *types.ArrayType:
		return &types.ArrayType{Elem: substitute(t.Elem, subst)}
	case *types.TupleType:
		elems := make([]types.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = substitute(e, subst)
		}
		return &types.TupleType{Elems: elems, RestIndex: t.RestIndex}
	case *types.RecordType:
		fields := make([]types.Field, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = types.Field{Name: f.Name, Type: substitute(f.Type, subst), Optional: f.Optional, Readonly: f.Readonly}
		}
		return &types.RecordType{Fields: fields}
	case *types.UnionType:
		members := make([]types.Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = substitute(m, subst)
		}
		return types.NewUnion(members...)
	case *types.FunctionType:
		return substituteFunction(t, subst)
	default:
		return t
	}
}
