package ast

// Pat is a destructuring pattern, per spec §6's destructuring contract.
type Pat interface {
	Node
	isPat()
}

func (*IdentPat) isPat()  {}
func (*RestPat) isPat()   {}
func (*ArrayPat) isPat()  {}
func (*ObjectPat) isPat() {}
func (*HolePat) isPat()   {}

// IdentPat binds a single name, with an optional default initializer used
// when the corresponding source position is undefined.
type IdentPat struct {
	Name    string
	Default Expr // optional
	span    Span
}

func NewIdentPat(name string, def Expr, span Span) *IdentPat {
	return &IdentPat{Name: name, Default: def, span: span}
}
func (p *IdentPat) Span() Span { return p.span }

// RestPat captures the remaining elements/properties into Name.
type RestPat struct {
	Name string
	span Span
}

func NewRestPat(name string, span Span) *RestPat { return &RestPat{Name: name, span: span} }
func (p *RestPat) Span() Span                    { return p.span }

// HolePat is an elided array-pattern element, e.g. the middle slot in
// `const [a, , c] = xs`.
type HolePat struct{ span Span }

func NewHolePat(span Span) *HolePat { return &HolePat{span: span} }
func (p *HolePat) Span() Span       { return p.span }

// ArrayPat destructures an array/iterable positionally. A RestPat, if
// present, must be the last element and binds the tail starting at its
// position.
type ArrayPat struct {
	Elems []Pat
	span  Span
}

func NewArrayPat(elems []Pat, span Span) *ArrayPat { return &ArrayPat{Elems: elems, span: span} }
func (p *ArrayPat) Span() Span                     { return p.span }

// ObjectPatProp is one property of an ObjectPat: either `{key: pattern}`,
// `{key}` shorthand (folded into Key==Value name by the caller), or a
// RestPat that excludes all previously named keys.
type ObjectPatProp struct {
	Key     string
	Value   Pat  // nil when Rest != nil
	Default Expr // optional, only meaningful when Value is an IdentPat
	Rest    *RestPat
}

type ObjectPat struct {
	Props []ObjectPatProp
	span  Span
}

func NewObjectPat(props []ObjectPatProp, span Span) *ObjectPat {
	return &ObjectPat{Props: props, span: span}
}
func (p *ObjectPat) Span() Span { return p.span }

// FindBindings returns every name a pattern introduces, in source order.
func FindBindings(pat Pat) []string {
	var names []string
	var walk func(Pat)
	walk = func(p Pat) {
		switch p := p.(type) {
		case *IdentPat:
			names = append(names, p.Name)
		case *RestPat:
			names = append(names, p.Name)
		case *HolePat:
			// no binding
		case *ArrayPat:
			for _, e := range p.Elems {
				if e != nil {
					walk(e)
				}
			}
		case *ObjectPat:
			for _, prop := range p.Props {
				if prop.Rest != nil {
					names = append(names, prop.Rest.Name)
				} else {
					walk(prop.Value)
				}
			}
		}
	}
	walk(pat)
	return names
}
