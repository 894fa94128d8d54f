package checker

import (
	"github.com/ts-forge/tsforge/internal/ast"
	"github.com/ts-forge/tsforge/internal/set"
	"github.com/ts-forge/tsforge/internal/types"
)

// Context is a narrowing lattice: the refined type for each binding name
// reachable at a program point, per spec §4.3. A binding absent from a
// Context carries no refinement (use its declared type).
type Context map[string]types.Type

// Clone produces an independent copy so joins never mutate a predecessor's
// context in place.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Join merges two contexts reached along different paths: a binding
// refined along only one path widens back to the union of both paths'
// types (flattened, per types.NewUnion), and a binding absent from either
// side drops out of the result (no refinement survives a path where it
// wasn't established).
func Join(a, b Context) Context {
	out := Context{}
	for k, at := range a {
		if bt, ok := b[k]; ok {
			out[k] = types.NewUnion(at, bt)
		}
	}
	return out
}

// NarrowResult maps each block ID to the context in effect on entry to and
// exit from that block.
type NarrowResult struct {
	Entry map[int]Context
	Exit  map[int]Context
}

// NarrowedNames collects every binding name that carries a refinement in at
// least one block's entry or exit context, deduplicated. Used for trace
// output (--trace-narrowing) and as the natural input to an "unused
// narrowing" style lint, since a name that's never refined anywhere never
// needs a Context lookup in CheckExpr.
func (r *NarrowResult) NarrowedNames() set.Set[string] {
	names := set.NewSet[string]()
	for _, ctx := range r.Entry {
		for k := range ctx {
			names.Add(k)
		}
	}
	for _, ctx := range r.Exit {
		for k := range ctx {
			names.Add(k)
		}
	}
	return names
}

// Narrow runs the flow-sensitive narrowing fixed-point analysis over g,
// starting from initial bindings at the entry block. It iterates until no
// block's entry context changes, the standard worklist dataflow algorithm.
func Narrow(g *Graph, initial Context) *NarrowResult {
	result := &NarrowResult{Entry: map[int]Context{}, Exit: map[int]Context{}}
	for _, b := range g.Blocks {
		result.Entry[b.ID] = Context{}
		result.Exit[b.ID] = Context{}
	}
	result.Entry[g.Entry] = initial.Clone()

	changed := true
	for changed {
		changed = false
		for _, b := range g.Blocks {
			entry := mergePredecessors(g, b, result)
			if !contextEquals(entry, result.Entry[b.ID]) {
				result.Entry[b.ID] = entry
				changed = true
			}
			exit := applyTransfer(b, entry)
			if !contextEquals(exit, result.Exit[b.ID]) {
				result.Exit[b.ID] = exit
				changed = true
			}
		}
	}
	return result
}

func mergePredecessors(g *Graph, b *Block, result *NarrowResult) Context {
	if len(b.Preds) == 0 {
		return result.Entry[b.ID]
	}
	var merged Context
	for _, predID := range b.Preds {
		pred := g.Blocks[predID]
		var edgeKind EdgeKind
		for _, e := range pred.Succs {
			if e.To == b.ID {
				edgeKind = e.Kind
				break
			}
		}
		ctx := narrowAlongEdge(pred, result.Exit[predID], edgeKind)
		if merged == nil {
			merged = ctx
		} else {
			merged = Join(merged, ctx)
		}
	}
	if merged == nil {
		merged = Context{}
	}
	return merged
}

// narrowAlongEdge applies the branch condition's refinement for the
// direction this specific edge represents.
func narrowAlongEdge(pred *Block, exitCtx Context, kind EdgeKind) Context {
	if pred.Condition == nil {
		return exitCtx
	}
	switch kind {
	case EdgeConditionalTrue:
		return applyCondition(pred.Condition, exitCtx, true)
	case EdgeConditionalFalse:
		return applyCondition(pred.Condition, exitCtx, false)
	default:
		return exitCtx
	}
}

func applyTransfer(b *Block, entry Context) Context {
	return entry.Clone()
}

func contextEquals(a, b Context) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		bv, ok := b[k]
		if !ok || !types.Equals(v, bv) {
			return false
		}
	}
	return true
}

// applyCondition computes the refinement a condition expression produces
// for the given truth value, per spec §4.3's narrowing-producing
// expression list: typeof checks, null/undefined checks, instanceof, the
// `in` operator, truthy/falsy narrowing of a bare variable, and
// `Array.isArray(x)` calls, plus
// `&&`/`||` short-circuit composition and `!` negation.
func applyCondition(cond ast.Expr, ctx Context, truthy bool) Context {
	switch cond := cond.(type) {
	case *ast.UnaryExpr:
		if cond.Op == ast.UnaryNot {
			return applyCondition(cond.Arg, ctx, !truthy)
		}
	case *ast.LogicalExpr:
		if cond.Op == ast.LogicalAnd {
			if truthy {
				left := applyCondition(cond.Left, ctx, true)
				return applyCondition(cond.Right, left, true)
			}
			return ctx // `!(a && b)` narrows neither operand precisely without full path splitting
		}
		if cond.Op == ast.LogicalOr {
			if !truthy {
				left := applyCondition(cond.Left, ctx, false)
				return applyCondition(cond.Right, left, false)
			}
			return ctx
		}
	case *ast.BinaryExpr:
		return applyBinaryCondition(cond, ctx, truthy)
	case *ast.CallExpr:
		return applyCallCondition(cond, ctx, truthy)
	case *ast.VariableExpr:
		return narrowTruthy(ctx, cond.Name, truthy)
	}
	return ctx
}

func applyBinaryCondition(cond *ast.BinaryExpr, ctx Context, truthy bool) Context {
	switch cond.Op {
	case ast.BinLooseEq, ast.BinStrictEq:
		return applyEquality(cond.Left, cond.Right, ctx, truthy)
	case ast.BinLooseNeq, ast.BinStrictNeq:
		return applyEquality(cond.Left, cond.Right, ctx, !truthy)
	case ast.BinInstanceOf:
		if v, ok := cond.Left.(*ast.VariableExpr); ok {
			if className, ok := classNameOf(cond.Right); ok {
				return narrowInstanceOf(ctx, v.Name, className, truthy)
			}
		}
	case ast.BinIn:
		if prop, ok := cond.Left.(*ast.LiteralExpr); ok && prop.Kind == ast.LitString {
			if v, ok := cond.Right.(*ast.VariableExpr); ok {
				return narrowHasProperty(ctx, v.Name, prop.Str, truthy)
			}
		}
	}
	return ctx
}

func classNameOf(e ast.Expr) (string, bool) {
	if v, ok := e.(*ast.VariableExpr); ok {
		return v.Name, true
	}
	return "", false
}

// applyEquality handles `typeof x === "..."` and `x === null`/`x ===
// undefined`; any other equality (including `x.tag === "..."`) leaves ctx
// unchanged.
func applyEquality(left, right ast.Expr, ctx Context, truthy bool) Context {
	if typeofExpr, lit, ok := matchTypeofString(left, right); ok {
		return narrowTypeof(ctx, typeofExpr, lit, truthy)
	}
	if typeofExpr, lit, ok := matchTypeofString(right, left); ok {
		return narrowTypeof(ctx, typeofExpr, lit, truthy)
	}
	if v, isNullLit := matchNullUndefined(left, right); isNullLit {
		return narrowNullCheck(ctx, v, truthy)
	}
	if v, isNullLit := matchNullUndefined(right, left); isNullLit {
		return narrowNullCheck(ctx, v, truthy)
	}
	return ctx
}

func matchTypeofString(a, b ast.Expr) (*ast.VariableExpr, string, bool) {
	unary, ok := a.(*ast.UnaryExpr)
	if !ok || unary.Op != ast.UnaryTypeof {
		return nil, "", false
	}
	v, ok := unary.Arg.(*ast.VariableExpr)
	if !ok {
		return nil, "", false
	}
	lit, ok := b.(*ast.LiteralExpr)
	if !ok || lit.Kind != ast.LitString {
		return nil, "", false
	}
	return v, lit.Str, true
}

func matchNullUndefined(a, b ast.Expr) (*ast.VariableExpr, bool) {
	v, ok := a.(*ast.VariableExpr)
	if !ok {
		return nil, false
	}
	lit, ok := b.(*ast.LiteralExpr)
	if ok && (lit.Kind == ast.LitNull || lit.Kind == ast.LitUndefined) {
		return v, true
	}
	return nil, false
}

func narrowTypeof(ctx Context, v *ast.VariableExpr, typeofResult string, truthy bool) Context {
	out := ctx.Clone()
	target := typeofToType(typeofResult)
	if target == nil {
		return out
	}
	if truthy {
		out[v.Name] = target
	} else {
		out[v.Name] = excludeFromUnion(ctx[v.Name], target)
	}
	return out
}

func typeofToType(s string) types.Type {
	switch s {
	case "string":
		return types.String
	case "number":
		return types.Number
	case "boolean":
		return types.Boolean
	case "bigint":
		return types.BigInt
	case "symbol":
		return types.Symbol
	case "undefined":
		return types.Undefined
	case "function":
		return &types.FunctionType{Params: nil, Return: types.Any}
	case "object":
		return types.Null // callers typically narrow `typeof x === "object"` jointly with a null check
	default:
		return nil
	}
}

func narrowNullCheck(ctx Context, v *ast.VariableExpr, truthy bool) Context {
	out := ctx.Clone()
	if truthy {
		out[v.Name] = types.NewUnion(types.Null, types.Undefined)
	} else {
		out[v.Name] = excludeFromUnion(ctx[v.Name], types.Null, types.Undefined)
	}
	return out
}

func narrowInstanceOf(ctx Context, name, className string, truthy bool) Context {
	out := ctx.Clone()
	if truthy {
		out[name] = &types.InstanceType{Class: &types.ClassType{Name: className}}
	}
	return out
}

func narrowHasProperty(ctx Context, name, prop string, truthy bool) Context {
	out := ctx.Clone()
	declared, ok := ctx[name]
	if !ok {
		return out
	}
	union, isUnion := declared.(*types.UnionType)
	if !isUnion {
		return out
	}
	var kept []types.Type
	for _, m := range union.Members {
		has := memberHasProperty(m, prop)
		if has == truthy {
			kept = append(kept, m)
		}
	}
	out[name] = types.NewUnion(kept...)
	return out
}

func memberHasProperty(t types.Type, prop string) bool {
	switch t := t.(type) {
	case *types.RecordType:
		_, ok := t.FieldByName(prop)
		return ok
	case *types.InstanceType:
		_, ok := t.Class.Members.FieldByName(prop)
		return ok
	}
	return false
}

func narrowTruthy(ctx Context, name string, truthy bool) Context {
	out := ctx.Clone()
	declared, ok := ctx[name]
	if !ok {
		return out
	}
	if truthy {
		out[name] = excludeFromUnion(declared, types.Null, types.Undefined, &types.BooleanLitType{Value: false})
	}
	return out
}

// applyCallCondition recognizes `Array.isArray(x)` on a bare variable as
// narrowing-producing, per spec §4.3; every other call leaves ctx unchanged.
func applyCallCondition(call *ast.CallExpr, ctx Context, truthy bool) Context {
	member, ok := call.Callee.(*ast.GetExpr)
	if !ok || len(call.Args) != 1 {
		return ctx
	}
	obj, ok := member.Object.(*ast.VariableExpr)
	if !ok || obj.Name != "Array" || member.Name != "isArray" {
		return ctx
	}
	arg, ok := call.Args[0].(*ast.VariableExpr)
	if !ok {
		return ctx
	}
	out := ctx.Clone()
	if truthy {
		out[arg.Name] = &types.ArrayType{Elem: types.Any}
	}
	return out
}

// excludeFromUnion removes every member structurally equal to one of
// remove from t's union membership (or returns t unchanged if none apply).
func excludeFromUnion(t types.Type, remove ...types.Type) types.Type {
	if t == nil {
		return nil
	}
	union, ok := t.(*types.UnionType)
	if !ok {
		for _, r := range remove {
			if types.Equals(t, r) {
				return types.Never
			}
		}
		return t
	}
	var kept []types.Type
	for _, m := range union.Members {
		excluded := false
		for _, r := range remove {
			if types.Equals(m, r) {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, m)
		}
	}
	return types.NewUnion(kept...)
}
