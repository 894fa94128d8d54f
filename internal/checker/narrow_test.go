package checker

import (
	"testing"

	"github.com/ts-forge/tsforge/internal/ast"
	"github.com/ts-forge/tsforge/internal/types"
)

// typeofStringCheck builds `typeof x === "string"`.
func typeofStringCheck(name string) *ast.BinaryExpr {
	return ast.NewBinaryExpr(
		ast.BinStrictEq,
		ast.NewUnaryExpr(ast.UnaryTypeof, ast.NewVariableExpr(name, ast.NoSpan), ast.NoSpan),
		ast.NewLiteralExpr(ast.LitString, ast.NoSpan),
		ast.NoSpan,
	)
}

func TestNarrowTypeofTrueBranch(t *testing.T) {
	cond := typeofStringCheck("x")
	lit := cond.Right.(*ast.LiteralExpr)
	lit.Str = "string"

	initial := Context{"x": types.NewUnion(types.String, types.Number)}
	refined := applyCondition(cond, initial, true)

	if !types.Equals(refined["x"], types.String) {
		t.Errorf("true branch should narrow x to string, got %s", refined["x"])
	}
}

func TestNarrowTypeofFalseBranchExcludes(t *testing.T) {
	cond := typeofStringCheck("x")
	lit := cond.Right.(*ast.LiteralExpr)
	lit.Str = "string"

	initial := Context{"x": types.NewUnion(types.String, types.Number)}
	refined := applyCondition(cond, initial, false)

	if !types.Equals(refined["x"], types.Number) {
		t.Errorf("false branch should exclude string, leaving number, got %s", refined["x"])
	}
}

func TestNarrowNullCheck(t *testing.T) {
	cond := ast.NewBinaryExpr(
		ast.BinStrictEq,
		ast.NewVariableExpr("x", ast.NoSpan),
		ast.NewLiteralExpr(ast.LitNull, ast.NoSpan),
		ast.NoSpan,
	)
	initial := Context{"x": types.NewUnion(types.String, types.Null, types.Undefined)}
	refinedFalse := applyCondition(cond, initial, false)
	want := types.NewUnion(types.String)
	if !types.Equals(refinedFalse["x"], want) {
		t.Errorf("`x !== null` should narrow out null, got %s", refinedFalse["x"])
	}
}

func TestNarrowLogicalAndComposesBothOperands(t *testing.T) {
	a := typeofStringCheck("x")
	a.Right.(*ast.LiteralExpr).Str = "string"
	b := ast.NewBinaryExpr(
		ast.BinStrictEq,
		ast.NewVariableExpr("y", ast.NoSpan),
		ast.NewLiteralExpr(ast.LitNull, ast.NoSpan),
		ast.NoSpan,
	)
	and := ast.NewLogicalExpr(ast.LogicalAnd, a, b, ast.NoSpan)

	initial := Context{
		"x": types.NewUnion(types.String, types.Number),
		"y": types.NewUnion(types.String, types.Null),
	}
	refined := applyCondition(and, initial, true)
	if !types.Equals(refined["x"], types.String) {
		t.Errorf("expected x narrowed to string, got %s", refined["x"])
	}
	if !types.Equals(refined["y"], types.NewUnion(types.Null, types.Undefined)) {
		t.Errorf("expected y narrowed to null | undefined, got %s", refined["y"])
	}
}

func TestBuildAndNarrowIfStatement(t *testing.T) {
	// if (typeof x === "string") { } else { }
	cond := typeofStringCheck("x")
	cond.Right.(*ast.LiteralExpr).Str = "string"
	body := []ast.Stmt{
		ast.NewIfStmt(cond, ast.NewBlockStmt(nil, ast.NoSpan), ast.NewBlockStmt(nil, ast.NoSpan), ast.NoSpan),
	}
	g := Build(body)
	if len(g.Blocks) < 4 {
		t.Fatalf("expected at least 4 blocks (entry, then, else, join), got %d", len(g.Blocks))
	}
	result := Narrow(g, Context{"x": types.NewUnion(types.String, types.Number)})
	if result.Entry[g.Entry] == nil {
		t.Fatal("entry context should be initialized")
	}
}

func TestNarrowedNamesCollectsRefinedBindings(t *testing.T) {
	cond := typeofStringCheck("x")
	cond.Right.(*ast.LiteralExpr).Str = "string"
	body := []ast.Stmt{
		ast.NewIfStmt(cond, ast.NewBlockStmt(nil, ast.NoSpan), ast.NewBlockStmt(nil, ast.NoSpan), ast.NoSpan),
	}
	g := Build(body)
	result := Narrow(g, Context{"x": types.NewUnion(types.String, types.Number)})

	names := result.NarrowedNames()
	if !names.Contains("x") {
		t.Errorf("expected x among narrowed names, got %s", names.String())
	}
}
