package ast

// TypeAnn is a type expression as written in source. The checker converts
// these into internal/types.TypeInfo values; TypeAnn itself carries no
// semantics.
type TypeAnn interface {
	Node
	isTypeAnn()
}

func (*NameTypeAnn) isTypeAnn()     {}
func (*LitTypeAnn) isTypeAnn()      {}
func (*ArrayTypeAnn) isTypeAnn()    {}
func (*TupleTypeAnn) isTypeAnn()    {}
func (*ObjectTypeAnn) isTypeAnn()   {}
func (*UnionTypeAnn) isTypeAnn()    {}
func (*IntersectTypeAnn) isTypeAnn() {}
func (*FuncTypeAnn) isTypeAnn()     {}
func (*RestTypeAnn) isTypeAnn()     {}

// NameTypeAnn covers primitives, `any`/`unknown`/`never`/`void`, and
// nominal/generic references (`Foo`, `Array<T>`, `Promise<string>`, ...).
type NameTypeAnn struct {
	Name     string
	TypeArgs []TypeAnn
	span     Span
}

func NewNameTypeAnn(name string, args []TypeAnn, span Span) *NameTypeAnn {
	return &NameTypeAnn{Name: name, TypeArgs: args, span: span}
}
func (t *NameTypeAnn) Span() Span { return t.span }

type LitTypeAnn struct {
	Lit  *LiteralExpr
	span Span
}

func (t *LitTypeAnn) Span() Span { return t.span }

type ArrayTypeAnn struct {
	Elt  TypeAnn
	span Span
}

func NewArrayTypeAnn(elt TypeAnn, span Span) *ArrayTypeAnn { return &ArrayTypeAnn{Elt: elt, span: span} }
func (t *ArrayTypeAnn) Span() Span                          { return t.span }

type TupleTypeAnn struct {
	Elems     []TypeAnn
	RestIndex int // -1 if no rest element
	span      Span
}

func NewTupleTypeAnn(elems []TypeAnn, restIndex int, span Span) *TupleTypeAnn {
	return &TupleTypeAnn{Elems: elems, RestIndex: restIndex, span: span}
}
func (t *TupleTypeAnn) Span() Span { return t.span }

type PropertyTypeAnn struct {
	Name     string
	Optional bool
	Readonly bool
	Value    TypeAnn
}

type ObjectTypeAnn struct {
	Props []PropertyTypeAnn
	span  Span
}

func NewObjectTypeAnn(props []PropertyTypeAnn, span Span) *ObjectTypeAnn {
	return &ObjectTypeAnn{Props: props, span: span}
}
func (t *ObjectTypeAnn) Span() Span { return t.span }

type UnionTypeAnn struct {
	Members []TypeAnn
	span    Span
}

func NewUnionTypeAnn(members []TypeAnn, span Span) *UnionTypeAnn {
	return &UnionTypeAnn{Members: members, span: span}
}
func (t *UnionTypeAnn) Span() Span { return t.span }

type IntersectTypeAnn struct {
	Members []TypeAnn
	span    Span
}

func NewIntersectTypeAnn(members []TypeAnn, span Span) *IntersectTypeAnn {
	return &IntersectTypeAnn{Members: members, span: span}
}
func (t *IntersectTypeAnn) Span() Span { return t.span }

type TypeParam struct {
	Name       string
	Constraint TypeAnn // optional
	Default    TypeAnn // optional
}

type FuncParamAnn struct {
	Pattern  Pat
	TypeAnn  TypeAnn
	Optional bool
	Rest     bool
}

type FuncTypeAnn struct {
	TypeParams []TypeParam
	Params     []FuncParamAnn
	Return     TypeAnn
	Throws     TypeAnn // optional
	span       Span
}

func NewFuncTypeAnn(params []FuncParamAnn, ret TypeAnn, span Span) *FuncTypeAnn {
	return &FuncTypeAnn{Params: params, Return: ret, span: span}
}
func (t *FuncTypeAnn) Span() Span { return t.span }

// RestTypeAnn marks a tuple's rest element type: `[string, ...number[]]`.
type RestTypeAnn struct {
	Elt  TypeAnn
	span Span
}

func (t *RestTypeAnn) Span() Span { return t.span }
