// Package ast defines the syntax tree that the core consumes as input.
// The lexer and parser that produce these trees are out of scope for this
// module (see spec §1); this package only declares the shape they hand us.
package ast

import "fmt"

// Location is a 1-indexed line/column position in a source file.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Span covers a range of source text within a single Source.
type Span struct {
	Start    Location
	End      Location
	SourceID int
}

var NoSpan = Span{SourceID: -1}

// Source is one input file.
type Source struct {
	ID       int
	Path     string
	Contents string
}
