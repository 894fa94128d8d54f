package checker

import (
	"github.com/ts-forge/tsforge/internal/ast"
	"github.com/ts-forge/tsforge/internal/types"
)

// TypeEnv holds named type bindings (type aliases, classes, enums, and the
// type parameters currently in scope) consulted while resolving a TypeAnn.
type TypeEnv struct {
	Parent *TypeEnv
	Named  map[string]types.Type
}

func NewTypeEnv() *TypeEnv { return &TypeEnv{Named: map[string]types.Type{}} }

func (e *TypeEnv) WithNewScope() *TypeEnv { return &TypeEnv{Parent: e, Named: map[string]types.Type{}} }

func (e *TypeEnv) Lookup(name string) (types.Type, bool) {
	for env := e; env != nil; env = env.Parent {
		if t, ok := env.Named[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (e *TypeEnv) Declare(name string, t types.Type) { e.Named[name] = t }

// ResolveTypeAnn converts a source-level TypeAnn into a types.Type,
// following spec §3's variant list. Unresolvable names are reported as
// diagnostics and resolved to Any so the checker can keep going (the same
// error-recovery shape escalier's checker uses: collect diagnostics, never
// abort the pass).
func ResolveTypeAnn(env *TypeEnv, ann ast.TypeAnn) (types.Type, []*Diagnostic) {
	if ann == nil {
		return types.Any, nil
	}
	switch ann := ann.(type) {
	case *ast.NameTypeAnn:
		return resolveNameTypeAnn(env, ann)
	case *ast.LitTypeAnn:
		return resolveLitTypeAnn(ann), nil
	case *ast.ArrayTypeAnn:
		elem, diags := ResolveTypeAnn(env, ann.Elt)
		return &types.ArrayType{Elem: elem}, diags
	case *ast.TupleTypeAnn:
		return resolveTupleTypeAnn(env, ann)
	case *ast.ObjectTypeAnn:
		return resolveObjectTypeAnn(env, ann)
	case *ast.UnionTypeAnn:
		return resolveUnionTypeAnn(env, ann)
	case *ast.IntersectTypeAnn:
		return resolveIntersectTypeAnn(env, ann)
	case *ast.FuncTypeAnn:
		return resolveFuncTypeAnn(env, ann)
	case *ast.RestTypeAnn:
		elem, diags := ResolveTypeAnn(env, ann.Elt)
		return &types.ArrayType{Elem: elem}, diags
	default:
		return types.Any, nil
	}
}

func resolveNameTypeAnn(env *TypeEnv, ann *ast.NameTypeAnn) (types.Type, []*Diagnostic) {
	switch ann.Name {
	case "string":
		return types.String, nil
	case "number":
		return types.Number, nil
	case "boolean":
		return types.Boolean, nil
	case "bigint":
		return types.BigInt, nil
	case "symbol":
		return types.Symbol, nil
	case "null":
		return types.Null, nil
	case "undefined":
		return types.Undefined, nil
	case "void":
		return types.Void, nil
	case "never":
		return types.Never, nil
	case "any":
		return types.Any, nil
	case "unknown":
		return types.Unknown, nil
	case "Array":
		if len(ann.TypeArgs) == 1 {
			elem, diags := ResolveTypeAnn(env, ann.TypeArgs[0])
			return &types.ArrayType{Elem: elem}, diags
		}
		return &types.ArrayType{Elem: types.Any}, nil
	}
	if t, ok := env.Lookup(ann.Name); ok {
		return t, nil
	}
	return types.Any, []*Diagnostic{unresolvedTypeName(ann.Span(), ann.Name)}
}

func resolveLitTypeAnn(ann *ast.LitTypeAnn) types.Type {
	switch ann.Lit.Kind {
	case ast.LitString:
		return &types.StringLitType{Value: ann.Lit.Str}
	case ast.LitNumber:
		return &types.NumberLitType{Value: ann.Lit.Num}
	case ast.LitBoolean:
		return &types.BooleanLitType{Value: ann.Lit.Bool}
	default:
		return types.Any
	}
}

func resolveTupleTypeAnn(env *TypeEnv, ann *ast.TupleTypeAnn) (types.Type, []*Diagnostic) {
	elems := make([]types.Type, len(ann.Elems))
	var diags []*Diagnostic
	for i, e := range ann.Elems {
		t, d := ResolveTypeAnn(env, e)
		elems[i] = t
		diags = append(diags, d...)
	}
	return &types.TupleType{Elems: elems, RestIndex: ann.RestIndex}, diags
}

func resolveObjectTypeAnn(env *TypeEnv, ann *ast.ObjectTypeAnn) (types.Type, []*Diagnostic) {
	fields := make([]types.Field, len(ann.Props))
	var diags []*Diagnostic
	for i, p := range ann.Props {
		t, d := ResolveTypeAnn(env, p.Value)
		diags = append(diags, d...)
		fields[i] = types.Field{Name: p.Name, Type: t, Optional: p.Optional, Readonly: p.Readonly}
	}
	return &types.RecordType{Fields: fields}, diags
}

func resolveUnionTypeAnn(env *TypeEnv, ann *ast.UnionTypeAnn) (types.Type, []*Diagnostic) {
	members := make([]types.Type, len(ann.Members))
	var diags []*Diagnostic
	for i, m := range ann.Members {
		t, d := ResolveTypeAnn(env, m)
		members[i] = t
		diags = append(diags, d...)
	}
	return types.NewUnion(members...), diags
}

func resolveIntersectTypeAnn(env *TypeEnv, ann *ast.IntersectTypeAnn) (types.Type, []*Diagnostic) {
	members := make([]types.Type, len(ann.Members))
	var diags []*Diagnostic
	for i, m := range ann.Members {
		t, d := ResolveTypeAnn(env, m)
		members[i] = t
		diags = append(diags, d...)
	}
	return types.NewIntersection(members...), diags
}

func resolveFuncTypeAnn(env *TypeEnv, ann *ast.FuncTypeAnn) (types.Type, []*Diagnostic) {
	inner := env
	typeParams := make([]string, len(ann.TypeParams))
	if len(ann.TypeParams) > 0 {
		inner = env.WithNewScope()
	}
	var diags []*Diagnostic
	for i, tp := range ann.TypeParams {
		typeParams[i] = tp.Name
		var bound types.Type
		if tp.Constraint != nil {
			var d []*Diagnostic
			bound, d = ResolveTypeAnn(inner, tp.Constraint)
			diags = append(diags, d...)
		}
		inner.Declare(tp.Name, &types.TypeVar{Name: tp.Name, Bound: bound})
	}
	params := make([]types.Param, len(ann.Params))
	minArity := 0
	hasRest := false
	for i, p := range ann.Params {
		t, d := ResolveTypeAnn(inner, p.TypeAnn)
		diags = append(diags, d...)
		params[i] = types.Param{Name: paramName(p), Type: t, Optional: p.Optional, Rest: p.Rest}
		if p.Rest {
			hasRest = true
		} else if !p.Optional {
			minArity++
		}
	}
	ret, d := ResolveTypeAnn(inner, ann.Return)
	diags = append(diags, d...)
	fn := &types.FunctionType{Params: params, MinArity: minArity, HasRest: hasRest, Return: ret}
	if len(typeParams) > 0 {
		var constraint types.Type
		if tv, ok := inner.Named[typeParams[0]].(*types.TypeVar); ok {
			constraint = tv.Bound
		}
		return &types.GenericFunctionType{TypeParams: typeParams, Constraint: constraint, Inner: fn}, diags
	}
	return fn, diags
}

func paramName(p ast.FuncParamAnn) string {
	if ip, ok := p.Pattern.(*ast.IdentPat); ok {
		return ip.Name
	}
	return "_"
}
