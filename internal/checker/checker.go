package checker

import (
	"github.com/ts-forge/tsforge/internal/ast"
	"github.com/ts-forge/tsforge/internal/types"
)

// Checker runs the bidirectional pass over a single module's functions,
// gathering diagnostics rather than stopping at the first error, the same
// recovery discipline as escalier's checker package.
type Checker struct {
	TypeEnv     *TypeEnv
	Diagnostics []*Diagnostic
}

func New() *Checker {
	return &Checker{TypeEnv: NewTypeEnv()}
}

func (c *Checker) report(d *Diagnostic) { c.Diagnostics = append(c.Diagnostics, d) }

// CheckFunction type-checks one function body: it resolves parameter and
// return annotations, builds the CFG, runs the narrowing fixed point
// seeded with the parameter types, then walks every statement checking
// expressions against their contextual (expected) type where one exists,
// consulting the narrowing fixed point for each statement's own block.
func (c *Checker) CheckFunction(scope *Scope, fn *ast.ArrowFunctionExpr) types.Type {
	inner := scope.WithNewScope()
	initial := Context{}
	paramTypes := make([]types.Param, len(fn.Params))
	for i, p := range fn.Params {
		var paramType types.Type = types.Any
		if p.TypeAnn != nil {
			t, diags := ResolveTypeAnn(c.TypeEnv, p.TypeAnn)
			c.Diagnostics = append(c.Diagnostics, diags...)
			paramType = t
		}
		name := paramName(ast.FuncParamAnn{Pattern: p.Pattern})
		inner.Declare(name, &Binding{Type: paramType, Mutable: true})
		initial[name] = paramType
		paramTypes[i] = types.Param{Name: name, Type: paramType, Optional: p.Optional}
	}

	graph := Build(fn.Body)
	narrowed := Narrow(graph, initial)
	inferred := c.checkBody(inner, graph, narrowed, fn.Body)

	var ret types.Type
	if fn.ReturnType != nil {
		t, diags := ResolveTypeAnn(c.TypeEnv, fn.ReturnType)
		c.Diagnostics = append(c.Diagnostics, diags...)
		ret = t
	} else {
		ret = inferred
	}

	return &types.FunctionType{Params: paramTypes, MinArity: requiredArity(paramTypes), Return: ret}
}

func requiredArity(params []types.Param) int {
	n := 0
	for _, p := range params {
		if !p.Optional && !p.Rest {
			n++
		}
	}
	return n
}

// checkBody walks a function body statement by statement, checking every
// expression it contains (consulting each statement's own narrowing
// context) and collecting the type of every return expression it walks,
// reachable or not, unioned into the body's inferred return type. Falls
// back to Void only when the body contains no return statement at all; a
// path that falls off the end adds nothing to the union.
func (c *Checker) checkBody(scope *Scope, graph *Graph, narrowed *NarrowResult, body []ast.Stmt) types.Type {
	var returns []types.Type
	c.checkStmts(scope, graph, narrowed, body, &returns)
	if len(returns) == 0 {
		return types.Void
	}
	return types.NewUnion(returns...)
}

func (c *Checker) checkStmts(scope *Scope, graph *Graph, narrowed *NarrowResult, stmts []ast.Stmt, returns *[]types.Type) {
	for _, s := range stmts {
		c.checkStmt(scope, graph, narrowed, s, returns)
	}
}

// narrowCtxFor looks up the narrowing context in effect on entry to the
// block statement s was appended to during CFG construction. A statement
// with no CFG block (unreachable, or a kind the builder never records) has
// no refinement available, so callers fall back to each binding's
// declared type.
func (c *Checker) narrowCtxFor(graph *Graph, narrowed *NarrowResult, s ast.Stmt) Context {
	blockID, ok := graph.StmtBlock[s]
	if !ok {
		return nil
	}
	return narrowed.Entry[blockID]
}

// checkStmt checks one statement's expressions and, for declarations and
// binding forms, extends scope with the names it introduces. It mirrors
// the structural recursion Build uses to construct the CFG; a statement
// Build recorded no block for (see narrowCtxFor) is checked without a
// narrowing context.
func (c *Checker) checkStmt(scope *Scope, graph *Graph, narrowed *NarrowResult, s ast.Stmt, returns *[]types.Type) {
	ctx := c.narrowCtxFor(graph, narrowed, s)
	switch s := s.(type) {
	case *ast.VarStmt:
		var declared types.Type
		if s.TypeAnn != nil {
			t, diags := ResolveTypeAnn(c.TypeEnv, s.TypeAnn)
			c.Diagnostics = append(c.Diagnostics, diags...)
			declared = t
		}
		var actual types.Type = types.Any
		if s.Init != nil {
			actual = c.CheckExpr(scope, s.Init, declared, ctx)
		}
		bound := actual
		if declared != nil {
			bound = declared
		}
		for _, name := range ast.FindBindings(s.Pattern) {
			scope.Declare(name, &Binding{Type: bound, Mutable: s.Kind != ast.VarConst})
		}
	case *ast.BlockStmt:
		c.checkStmts(scope, graph, narrowed, s.Stmts, returns)
	case *ast.ExpressionStmt:
		c.CheckExpr(scope, s.Expr, nil, ctx)
	case *ast.IfStmt:
		c.CheckExpr(scope, s.Cond, nil, ctx)
		c.checkStmt(scope, graph, narrowed, s.Then, returns)
		if s.Else != nil {
			c.checkStmt(scope, graph, narrowed, s.Else, returns)
		}
	case *ast.WhileStmt:
		c.CheckExpr(scope, s.Cond, nil, ctx)
		c.checkStmt(scope, graph, narrowed, s.Body, returns)
	case *ast.DoWhileStmt:
		c.checkStmt(scope, graph, narrowed, s.Body, returns)
		c.CheckExpr(scope, s.Cond, nil, ctx)
	case *ast.ForStmt:
		if initStmt, ok := s.Init.(ast.Stmt); ok && initStmt != nil {
			c.checkStmt(scope, graph, narrowed, initStmt, returns)
		}
		if condExpr, ok := s.Cond.(ast.Expr); ok && condExpr != nil {
			c.CheckExpr(scope, condExpr, nil, ctx)
		}
		c.checkStmt(scope, graph, narrowed, s.Body, returns)
		if incrStmt, ok := s.Incr.(ast.Stmt); ok && incrStmt != nil {
			c.checkStmt(scope, graph, narrowed, incrStmt, returns)
		}
	case *ast.ForOfStmt:
		rightType := c.CheckExpr(scope, s.Right, nil, ctx)
		inner := scope.WithNewScope()
		for _, name := range ast.FindBindings(s.Decl) {
			inner.Declare(name, &Binding{Type: elementType(rightType), Mutable: s.Kind != ast.VarConst})
		}
		c.checkStmt(inner, graph, narrowed, s.Body, returns)
	case *ast.ForInStmt:
		c.CheckExpr(scope, s.Right, nil, ctx)
		inner := scope.WithNewScope()
		for _, name := range ast.FindBindings(s.Decl) {
			inner.Declare(name, &Binding{Type: types.String, Mutable: s.Kind != ast.VarConst})
		}
		c.checkStmt(inner, graph, narrowed, s.Body, returns)
	case *ast.ReturnStmt:
		if s.Value == nil {
			*returns = append(*returns, types.Undefined)
		} else {
			*returns = append(*returns, c.CheckExpr(scope, s.Value, nil, ctx))
		}
	case *ast.ThrowStmt:
		c.CheckExpr(scope, s.Value, nil, ctx)
	case *ast.TryCatchStmt:
		c.checkStmts(scope, graph, narrowed, s.Try.Stmts, returns)
		if s.Catch != nil {
			inner := scope.WithNewScope()
			if s.CatchParam != nil {
				for _, name := range ast.FindBindings(s.CatchParam) {
					inner.Declare(name, &Binding{Type: types.Any, Mutable: true})
				}
			}
			c.checkStmts(inner, graph, narrowed, s.Catch.Stmts, returns)
		}
		if s.Finally != nil {
			c.checkStmts(scope, graph, narrowed, s.Finally.Stmts, returns)
		}
	case *ast.SwitchStmt:
		c.CheckExpr(scope, s.Disc, nil, ctx)
		for _, cs := range s.Cases {
			if cs.Value != nil {
				c.CheckExpr(scope, cs.Value, nil, ctx)
			}
			c.checkStmts(scope, graph, narrowed, cs.Body, returns)
		}
	case *ast.FuncDeclStmt:
		c.CheckFunction(scope, s.Fn)
	}
}

// elementType peels an array's element type off for `for...of` iteration;
// any other iterable-shaped type iterates as Any, since this checker does
// not model the Iterable/AsyncIterable protocol's generic parameter.
func elementType(t types.Type) types.Type {
	if arr, ok := t.(*types.ArrayType); ok {
		return arr.Elem
	}
	return types.Any
}

// CheckExpr infers (or, when expected is non-nil, checks against) an
// expression's type. This is the bidirectional core: literal, contextual
// typed expressions consult expected to pick a narrower literal type where
// TypeScript's contextual typing would (e.g. object literals assigned to a
// record type). narrowCtx carries the flow-sensitive refinement in effect
// at this point, consulted before a variable's scope-declared type.
func (c *Checker) CheckExpr(scope *Scope, e ast.Expr, expected types.Type, narrowCtx Context) types.Type {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		return c.checkLiteral(e, expected)
	case *ast.VariableExpr:
		if narrowCtx != nil {
			if t, ok := narrowCtx[e.Name]; ok {
				return t
			}
		}
		if b, ok := scope.Lookup(e.Name); ok {
			return b.Type
		}
		c.report(unresolvedTypeName(e.Span(), e.Name))
		return types.Any
	case *ast.BinaryExpr:
		return c.checkBinary(scope, e, narrowCtx)
	case *ast.LogicalExpr:
		left := c.CheckExpr(scope, e.Left, nil, narrowCtx)
		right := c.CheckExpr(scope, e.Right, nil, narrowCtx)
		return types.NewUnion(left, right)
	case *ast.TernaryExpr:
		then := c.CheckExpr(scope, e.Then, expected, narrowCtx)
		els := c.CheckExpr(scope, e.Else, expected, narrowCtx)
		return types.NewUnion(then, els)
	case *ast.ArrayLiteralExpr:
		return c.checkArrayLiteral(scope, e, expected, narrowCtx)
	case *ast.ObjectLiteralExpr:
		return c.checkObjectLiteral(scope, e, expected, narrowCtx)
	case *ast.CallExpr:
		return c.checkCall(scope, e, narrowCtx)
	case *ast.GetExpr:
		return c.checkGet(scope, e, narrowCtx)
	case *ast.ArrowFunctionExpr:
		return c.CheckFunction(scope, e)
	case *ast.AwaitExpr:
		inner := c.CheckExpr(scope, e.Arg, nil, narrowCtx)
		return unwrapPromise(inner)
	default:
		return types.Any
	}
}

func (c *Checker) checkLiteral(lit *ast.LiteralExpr, expected types.Type) types.Type {
	var actual types.Type
	switch lit.Kind {
	case ast.LitString:
		actual = &types.StringLitType{Value: lit.Str}
	case ast.LitNumber:
		actual = &types.NumberLitType{Value: lit.Num}
	case ast.LitBoolean:
		actual = &types.BooleanLitType{Value: lit.Bool}
	case ast.LitNull:
		actual = types.Null
	case ast.LitUndefined:
		actual = types.Undefined
	default:
		actual = types.Any
	}
	if expected != nil && !IsCompatible(expected, actual) {
		c.report(notAssignable(lit.Span(), expected, actual))
	}
	return actual
}

func (c *Checker) checkBinary(scope *Scope, e *ast.BinaryExpr, narrowCtx Context) types.Type {
	left := c.CheckExpr(scope, e.Left, nil, narrowCtx)
	right := c.CheckExpr(scope, e.Right, nil, narrowCtx)
	switch e.Op {
	case ast.BinStrictEq, ast.BinStrictNeq, ast.BinLooseEq, ast.BinLooseNeq,
		ast.BinLt, ast.BinLte, ast.BinGt, ast.BinGte, ast.BinInstanceOf, ast.BinIn:
		return types.Boolean
	case ast.BinAdd:
		if types.Equals(left, types.String) || types.Equals(right, types.String) {
			return types.String
		}
		return types.Number
	default:
		return types.Number
	}
}

func (c *Checker) checkArrayLiteral(scope *Scope, e *ast.ArrayLiteralExpr, expected types.Type, narrowCtx Context) types.Type {
	if tup, ok := expected.(*types.TupleType); ok && tup.RestIndex < 0 {
		elems := make([]types.Type, len(e.Elems))
		for i, el := range e.Elems {
			var want types.Type
			if i < len(tup.Elems) {
				want = tup.Elems[i]
			}
			elems[i] = c.CheckExpr(scope, el, want, narrowCtx)
		}
		return &types.TupleType{Elems: elems, RestIndex: -1}
	}
	var elemExpected types.Type
	if arr, ok := expected.(*types.ArrayType); ok {
		elemExpected = arr.Elem
	}
	var elemTypes []types.Type
	for _, el := range e.Elems {
		if spread, ok := el.(*ast.SpreadExpr); ok {
			inner := c.CheckExpr(scope, spread.Arg, nil, narrowCtx)
			if arr, ok := inner.(*types.ArrayType); ok {
				elemTypes = append(elemTypes, arr.Elem)
				continue
			}
		}
		elemTypes = append(elemTypes, c.CheckExpr(scope, el, elemExpected, narrowCtx))
	}
	if len(elemTypes) == 0 {
		if elemExpected != nil {
			return &types.ArrayType{Elem: elemExpected}
		}
		return &types.ArrayType{Elem: types.Never}
	}
	return &types.ArrayType{Elem: types.NewUnion(elemTypes...)}
}

func (c *Checker) checkObjectLiteral(scope *Scope, e *ast.ObjectLiteralExpr, expected types.Type, narrowCtx Context) types.Type {
	var fields []types.Field
	for _, p := range e.Props {
		if p.Kind == ast.ObjPropSpread {
			continue
		}
		var fieldExpected types.Type
		if rec, ok := expected.(*types.RecordType); ok {
			if f, ok := rec.FieldByName(p.Key); ok {
				fieldExpected = f.Type
			}
		}
		t := c.CheckExpr(scope, p.Value, fieldExpected, narrowCtx)
		fields = append(fields, types.Field{Name: p.Key, Type: t})
	}
	actual := &types.RecordType{Fields: fields}
	if expected != nil && !IsCompatible(expected, actual) {
		c.report(notAssignable(e.Span(), expected, actual))
	}
	return actual
}

func (c *Checker) checkCall(scope *Scope, e *ast.CallExpr, narrowCtx Context) types.Type {
	callee := c.CheckExpr(scope, e.Callee, nil, narrowCtx)
	argTypes := make([]types.Type, len(e.Args))
	for i, a := range e.Args {
		argTypes[i] = c.CheckExpr(scope, a, nil, narrowCtx)
	}
	sig, diags := ResolveCall(e.Span(), callee, argTypes)
	c.Diagnostics = append(c.Diagnostics, diags...)
	if sig == nil {
		return types.Any
	}
	if sig.Return == nil {
		return types.Void
	}
	return sig.Return
}

func (c *Checker) checkGet(scope *Scope, e *ast.GetExpr, narrowCtx Context) types.Type {
	obj := c.CheckExpr(scope, e.Object, nil, narrowCtx)
	if t, ok := resolveProperty(obj, e.Name); ok {
		return t
	}
	c.report(propertyNotFound(e.Span(), e.Name, obj))
	return types.Any
}

// resolveProperty follows the Instance property lookup order from spec
// §4.2: own members, then superclass chain; plain records look up their
// own fields only.
func resolveProperty(t types.Type, name string) (types.Type, bool) {
	switch t := t.(type) {
	case *types.StringType:
		if name == "length" {
			return types.Number, true
		}
	case *types.RecordType:
		if f, ok := t.FieldByName(name); ok {
			return f.Type, true
		}
	case *types.InstanceType:
		for _, cls := range t.Class.SuperChain() {
			if cls.Members == nil {
				continue
			}
			if f, ok := cls.Members.FieldByName(name); ok {
				return f.Type, true
			}
		}
	case *types.UnionType:
		var results []types.Type
		for _, m := range t.Members {
			r, ok := resolveProperty(m, name)
			if !ok {
				return nil, false
			}
			results = append(results, r)
		}
		return types.NewUnion(results...), true
	}
	return nil, false
}

// unwrapPromise peels off a `Promise<T>` name-ref to T for `await`
// expressions; a non-Promise operand awaits to itself per JS semantics.
func unwrapPromise(t types.Type) types.Type {
	if rec, ok := t.(*types.RecordType); ok {
		if f, ok := rec.FieldByName("__promiseValue"); ok {
			return f.Type
		}
	}
	return t
}
