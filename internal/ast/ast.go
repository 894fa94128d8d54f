package ast

// Node is implemented by every syntax tree node.
type Node interface {
	Span() Span
}

// Ident is a simple identifier, reused across expressions, patterns and
// type annotations.
type Ident struct {
	Name string
	span Span
}

func NewIdent(name string, span Span) *Ident { return &Ident{Name: name, span: span} }
func (i *Ident) Span() Span                  { return i.span }

// Module is the parsed representation of one source file, already
// classified by the loader as Script or Module (see modgraph).
//
// ReferencePaths holds the target of every `/// <reference path="...">`
// triple-slash directive found ahead of the first statement. These aren't
// statements — like the originals they're lexically comments — so the
// parser collects them into this slice instead of threading a Stmt case
// through the rest of the tree.
type Module struct {
	Path           string
	Stmts          []Stmt
	ReferencePaths []string
}
