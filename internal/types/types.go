// Package types is the TypeInfo sum-type lattice described in spec §3.
// Every variant is an immutable struct once produced, permitting structural
// sharing the way escalier's type_system.Type instances are shared.
package types

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

//sumtype:decl
type Type interface {
	isType()
	String() string
}

func (*StringType) isType()     {}
func (*NumberType) isType()     {}
func (*BooleanType) isType()    {}
func (*BigIntType) isType()     {}
func (*SymbolType) isType()     {}
func (*NullType) isType()       {}
func (*UndefinedType) isType()  {}
func (*VoidType) isType()       {}
func (*NeverType) isType()      {}
func (*AnyType) isType()        {}
func (*UnknownType) isType()    {}
func (*StringLitType) isType()  {}
func (*NumberLitType) isType()  {}
func (*BooleanLitType) isType() {}
func (*ArrayType) isType()      {}
func (*TupleType) isType()      {}
func (*RecordType) isType()     {}
func (*UnionType) isType()      {}
func (*IntersectionType) isType() {}
func (*ClassType) isType()        {}
func (*InstanceType) isType()     {}
func (*FunctionType) isType()     {}
func (*OverloadedFunctionType) isType() {}
func (*GenericFunctionType) isType()    {}
func (*TypeVar) isType()               {}
func (*EnumType) isType()              {}

// --- Primitives ---

type StringType struct{}
type NumberType struct{}
type BooleanType struct{}
type BigIntType struct{}
type SymbolType struct{}
type NullType struct{}
type UndefinedType struct{}
type VoidType struct{}
type NeverType struct{}
type AnyType struct{}
type UnknownType struct{}

func (*StringType) String() string    { return "string" }
func (*NumberType) String() string    { return "number" }
func (*BooleanType) String() string   { return "boolean" }
func (*BigIntType) String() string    { return "bigint" }
func (*SymbolType) String() string    { return "symbol" }
func (*NullType) String() string      { return "null" }
func (*UndefinedType) String() string { return "undefined" }
func (*VoidType) String() string      { return "void" }
func (*NeverType) String() string     { return "never" }
func (*AnyType) String() string       { return "any" }
func (*UnknownType) String() string   { return "unknown" }

var (
	String    = &StringType{}
	Number    = &NumberType{}
	Boolean   = &BooleanType{}
	BigInt    = &BigIntType{}
	Symbol    = &SymbolType{}
	Null      = &NullType{}
	Undefined = &UndefinedType{}
	Void      = &VoidType{}
	Never     = &NeverType{}
	Any       = &AnyType{}
	Unknown   = &UnknownType{}
)

// --- Literals ---

type StringLitType struct{ Value string }
type NumberLitType struct{ Value float64 }
type BooleanLitType struct{ Value bool }

func (t *StringLitType) String() string  { return strconv.Quote(t.Value) }
func (t *NumberLitType) String() string  { return strconv.FormatFloat(t.Value, 'g', -1, 64) }
func (t *BooleanLitType) String() string { return strconv.FormatBool(t.Value) }

// --- Structural ---

type ArrayType struct{ Elem Type }

func (t *ArrayType) String() string { return t.Elem.String() + "[]" }

type TupleType struct {
	Elems     []Type
	RestIndex int // -1 if no rest element; otherwise Elems[RestIndex] is the rest element's type
}

func (t *TupleType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		if i == t.RestIndex {
			parts[i] = "..." + e.String() + "[]"
		} else {
			parts[i] = e.String()
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type Field struct {
	Name     string
	Type     Type
	Optional bool
	Readonly bool
}

type RecordType struct{ Fields []Field }

func (t *RecordType) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		opt := ""
		if f.Optional {
			opt = "?"
		}
		parts[i] = f.Name + opt + ": " + f.Type.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// FieldByName returns the field named name, walking the record's own
// fields only (no inheritance: that's handled by ClassType/InstanceType).
func (t *RecordType) FieldByName(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// UnionType flattens: no member of Members is itself a *UnionType.
// NewUnion is the only safe constructor.
type UnionType struct{ Members []Type }

func NewUnion(members ...Type) Type {
	flat := flattenUnion(members)
	flat = dedupTypes(flat)
	if len(flat) == 0 {
		return Never
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &UnionType{Members: flat}
}

func flattenUnion(members []Type) []Type {
	var out []Type
	for _, m := range members {
		if u, ok := m.(*UnionType); ok {
			out = append(out, flattenUnion(u.Members)...)
		} else {
			out = append(out, m)
		}
	}
	return out
}

func dedupTypes(ts []Type) []Type {
	var out []Type
	for _, t := range ts {
		dup := false
		for _, o := range out {
			if Equals(t, o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, t)
		}
	}
	return out
}

// String is order-preserving (display), while Equals treats Members as a
// set (order-insensitive), per spec §3's Union invariant.
func (t *UnionType) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

type IntersectionType struct{ Members []Type }

func NewIntersection(members ...Type) Type {
	if len(members) == 0 {
		return Never
	}
	if len(members) == 1 {
		return members[0]
	}
	return &IntersectionType{Members: members}
}

func (t *IntersectionType) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " & ")
}

// --- Nominal ---

// ClassType carries its own superclass chain for instance-member
// resolution (spec §3 invariant).
type ClassType struct {
	Name       string
	TypeParams []string
	Supers     []*ClassType // direct superclasses, in declared order
	Members    *RecordType
	Statics    *RecordType
}

func (t *ClassType) String() string { return "class " + t.Name }

// SuperChain returns t and every ancestor, t first, in BFS order.
func (t *ClassType) SuperChain() []*ClassType {
	seen := map[*ClassType]bool{}
	var order []*ClassType
	queue := []*ClassType{t}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if seen[c] {
			continue
		}
		seen[c] = true
		order = append(order, c)
		queue = append(queue, c.Supers...)
	}
	return order
}

// IsSubclassOf reports whether t is c or descends from c.
func (t *ClassType) IsSubclassOf(c *ClassType) bool {
	for _, anc := range t.SuperChain() {
		if anc == c || anc.Name == c.Name {
			return true
		}
	}
	return false
}

type InstanceType struct{ Class *ClassType }

func (t *InstanceType) String() string { return t.Class.Name }

// --- Callable ---

type Param struct {
	Name     string
	Type     Type
	Optional bool
	Rest     bool // this is the rest parameter; must be last
}

type FunctionType struct {
	TypeParams []string
	Params     []Param
	MinArity   int
	HasRest    bool
	Return     Type
}

func (t *FunctionType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		opt := ""
		if p.Optional {
			opt = "?"
		}
		rest := ""
		if p.Rest {
			rest = "..."
		}
		parts[i] = rest + p.Name + opt + ": " + p.Type.String()
	}
	ret := "void"
	if t.Return != nil {
		ret = t.Return.String()
	}
	return "(" + strings.Join(parts, ", ") + ") => " + ret
}

type OverloadedFunctionType struct {
	Signatures     []*FunctionType
	Implementation *FunctionType // the catch-all `any`-typed implementation signature, never itself a match target
}

func (t *OverloadedFunctionType) String() string {
	parts := make([]string, len(t.Signatures))
	for i, s := range t.Signatures {
		parts[i] = s.String()
	}
	return strings.Join(parts, " & ")
}

type GenericFunctionType struct {
	TypeParams []string
	Constraint Type // optional, applies to the first type param for simple bounded generics
	Inner      *FunctionType
}

func (t *GenericFunctionType) String() string {
	return "<" + strings.Join(t.TypeParams, ", ") + ">" + t.Inner.String()
}

// TypeVar is a placeholder solved during generic inference (§4.3) or left
// unresolved (then defaults to Any per the widening rule).
type TypeVar struct {
	Name  string
	Bound Type // optional constraint
}

func (t *TypeVar) String() string {
	if t.Bound != nil {
		return t.Name + " extends " + t.Bound.String()
	}
	return t.Name
}

type EnumMember struct {
	Name  string
	Value Type // StringLitType or NumberLitType
}

type EnumType struct {
	Name    string
	Members []EnumMember
}

func (t *EnumType) String() string { return "enum " + t.Name }

// Equals is structural equality treating Union membership as a set, per
// spec §3. Grounded on escalier's type_system.Equals (go-cmp with
// cmpopts.IgnoreUnexported), generalized with a union-member sort so
// member order never affects equality.
func Equals(a, b Type) bool {
	a = canonicalize(a)
	b = canonicalize(b)
	return cmp.Equal(a, b,
		cmpopts.IgnoreUnexported(ClassType{}),
		cmp.Comparer(func(x, y *ClassType) bool { return x == y || (x != nil && y != nil && x.Name == y.Name) }),
	)
}

// canonicalize sorts union members into a stable order so cmp.Equal's
// structural comparison becomes order-insensitive, matching the Union
// invariant in spec §3 (and the property-based test in spec §8).
func canonicalize(t Type) Type {
	switch t := t.(type) {
	case *UnionType:
		members := make([]Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = canonicalize(m)
		}
		sort.Slice(members, func(i, j int) bool { return members[i].String() < members[j].String() })
		return &UnionType{Members: members}
	default:
		return t
	}
}

// BigIntLiteral is kept distinct from StringLitType/NumberLitType/BooleanLitType
// because big.Int has no natural zero-value literal representation; used by
// the value model when reflecting a BigInt value's literal type.
func BigIntLiteral(v big.Int) string { return v.String() }

var _ = fmt.Sprintf // keep fmt import if later String() impls need it
