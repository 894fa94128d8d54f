package checker

import (
	"testing"

	"github.com/ts-forge/tsforge/internal/types"
)

func TestIsCompatiblePrimitiveWidening(t *testing.T) {
	if !IsCompatible(types.String, &types.StringLitType{Value: "hi"}) {
		t.Error("a string literal should be assignable to string")
	}
	if IsCompatible(&types.StringLitType{Value: "hi"}, types.String) {
		t.Error("string should not be assignable to a narrower string literal")
	}
}

func TestIsCompatibleUnionMember(t *testing.T) {
	u := types.NewUnion(types.String, types.Number)
	if !IsCompatible(u, types.String) {
		t.Error("string should be assignable to string | number")
	}
	if IsCompatible(u, types.Boolean) {
		t.Error("boolean should not be assignable to string | number")
	}
}

func TestIsCompatibleUnionSource(t *testing.T) {
	u := types.NewUnion(&types.StringLitType{Value: "a"}, &types.StringLitType{Value: "b"})
	if !IsCompatible(types.String, u) {
		t.Error(`"a" | "b" should be assignable to string`)
	}
}

func TestIsCompatibleRecordStructural(t *testing.T) {
	expected := &types.RecordType{Fields: []types.Field{{Name: "x", Type: types.Number}}}
	actual := &types.RecordType{Fields: []types.Field{
		{Name: "x", Type: types.Number},
		{Name: "y", Type: types.String},
	}}
	if !IsCompatible(expected, actual) {
		t.Error("a wider record with an extra field should be assignable to a narrower shape")
	}
}

func TestIsCompatibleRecordMissingRequiredField(t *testing.T) {
	expected := &types.RecordType{Fields: []types.Field{{Name: "x", Type: types.Number}}}
	actual := &types.RecordType{}
	if IsCompatible(expected, actual) {
		t.Error("a record missing a required field should not be compatible")
	}
}

func TestIsCompatibleOptionalFieldMayBeAbsent(t *testing.T) {
	expected := &types.RecordType{Fields: []types.Field{{Name: "x", Type: types.Number, Optional: true}}}
	actual := &types.RecordType{}
	if !IsCompatible(expected, actual) {
		t.Error("an absent optional field should still be compatible")
	}
}

func TestIsCompatibleFunctionContravariantParams(t *testing.T) {
	expected := &types.FunctionType{
		Params: []types.Param{{Name: "x", Type: &types.StringLitType{Value: "a"}}},
		Return: types.Void,
	}
	actual := &types.FunctionType{
		Params: []types.Param{{Name: "x", Type: types.String}},
		Return: types.Void,
	}
	if !IsCompatible(expected, actual) {
		t.Error("a function accepting the wider string should be usable where a function accepting a literal is expected")
	}
}

func TestIsCompatibleAnyAbsorbsEverything(t *testing.T) {
	if !IsCompatible(types.Any, types.Number) {
		t.Error("any should accept anything")
	}
	if !IsCompatible(types.Number, types.Any) {
		t.Error("any should be assignable anywhere")
	}
}

func TestIsCompatibleNeverAssignableEverywhere(t *testing.T) {
	if !IsCompatible(types.String, types.Never) {
		t.Error("never should be assignable to anything")
	}
}

func TestIsCompatibleClassSubtype(t *testing.T) {
	animal := &types.ClassType{Name: "Animal", Members: &types.RecordType{}}
	dog := &types.ClassType{Name: "Dog", Supers: []*types.ClassType{animal}, Members: &types.RecordType{}}
	if !IsCompatible(&types.InstanceType{Class: animal}, &types.InstanceType{Class: dog}) {
		t.Error("a Dog instance should be assignable where an Animal is expected")
	}
}
