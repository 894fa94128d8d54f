package checker

import (
	"testing"

	"github.com/ts-forge/tsforge/internal/ast"
	"github.com/ts-forge/tsforge/internal/types"
)

func TestResolveCallPlainFunction(t *testing.T) {
	fn := &types.FunctionType{
		Params:   []types.Param{{Name: "x", Type: types.Number}},
		MinArity: 1,
		Return:   types.String,
	}
	sig, diags := ResolveCall(ast.NoSpan, fn, []types.Type{types.Number})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if sig != fn {
		t.Error("expected the plain function's own signature back")
	}
}

func TestResolveCallArityMismatch(t *testing.T) {
	fn := &types.FunctionType{Params: []types.Param{{Name: "x", Type: types.Number}}, MinArity: 1}
	_, diags := ResolveCall(ast.NoSpan, fn, nil)
	if len(diags) == 0 {
		t.Fatal("expected an arity-mismatch diagnostic")
	}
}

func TestResolveOverloadPicksMostSpecific(t *testing.T) {
	narrow := &types.FunctionType{
		Params: []types.Param{{Name: "x", Type: &types.StringLitType{Value: "a"}}},
		Return: &types.NumberLitType{Value: 1},
	}
	wide := &types.FunctionType{
		Params: []types.Param{{Name: "x", Type: types.String}},
		Return: types.Number,
	}
	ov := &types.OverloadedFunctionType{
		Signatures:     []*types.FunctionType{narrow, wide},
		Implementation: &types.FunctionType{Params: []types.Param{{Name: "x", Type: types.Any}}, Return: types.Any},
	}
	sig, diags := ResolveCall(ast.NoSpan, ov, []types.Type{&types.StringLitType{Value: "a"}})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if sig != narrow {
		t.Error("expected the more specific literal-typed overload to win")
	}
}

func TestResolveOverloadNoMatch(t *testing.T) {
	sig := &types.FunctionType{Params: []types.Param{{Name: "x", Type: types.Number}}, MinArity: 1}
	ov := &types.OverloadedFunctionType{Signatures: []*types.FunctionType{sig}}
	_, diags := ResolveCall(ast.NoSpan, ov, []types.Type{types.String})
	if len(diags) == 0 {
		t.Fatal("expected a no-matching-overload diagnostic")
	}
}

func TestResolveGenericInfersTypeParam(t *testing.T) {
	gf := &types.GenericFunctionType{
		TypeParams: []string{"T"},
		Inner: &types.FunctionType{
			Params:   []types.Param{{Name: "x", Type: &types.TypeVar{Name: "T"}}},
			MinArity: 1,
			Return:   &types.ArrayType{Elem: &types.TypeVar{Name: "T"}},
		},
	}
	sig, diags := ResolveCall(ast.NoSpan, gf, []types.Type{types.Number})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := &types.ArrayType{Elem: types.Number}
	if !types.Equals(sig.Return, want) {
		t.Errorf("return type = %s, want %s", sig.Return, want)
	}
}

func TestResolveGenericUnsolvedDefaultsToAny(t *testing.T) {
	gf := &types.GenericFunctionType{
		TypeParams: []string{"T"},
		Inner: &types.FunctionType{
			Params: nil,
			Return: &types.ArrayType{Elem: &types.TypeVar{Name: "T"}},
		},
	}
	sig, _ := ResolveCall(ast.NoSpan, gf, nil)
	arr, ok := sig.Return.(*types.ArrayType)
	if !ok {
		t.Fatalf("expected an array return type, got %T", sig.Return)
	}
	if _, ok := arr.Elem.(*types.AnyType); !ok {
		t.Errorf("an unsolved type parameter should default to any, got %s", arr.Elem)
	}
}
