package checker

import (
	"fmt"

	"github.com/ts-forge/tsforge/internal/ast"
	"github.com/ts-forge/tsforge/internal/types"
)

// Diagnostic is the checker's error/warning shape. Grounded on escalier's
// internal/checker/error.go, which gives every concrete error a private
// span field and a Message() formatter; generalized here into one struct
// with a Code (TSF#### namespace) since this checker's error set is data,
// not a fixed sum type with Accept-style dispatch.
type Diagnostic struct {
	Code     string
	Span     ast.Span
	Severity Severity
	message  string
}

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (d *Diagnostic) Error() string { return d.message }

func notAssignable(span ast.Span, target, source types.Type) *Diagnostic {
	return &Diagnostic{
		Code:     "TSF2322",
		Span:     span,
		Severity: SeverityError,
		message:  fmt.Sprintf("type %q is not assignable to type %q", source.String(), target.String()),
	}
}

func noMatchingOverload(span ast.Span, args []types.Type) *Diagnostic {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return &Diagnostic{
		Code:     "TSF2769",
		Span:     span,
		Severity: SeverityError,
		message:  fmt.Sprintf("no overload matches arguments (%v)", parts),
	}
}

func unresolvedTypeName(span ast.Span, name string) *Diagnostic {
	return &Diagnostic{
		Code:     "TSF2304",
		Span:     span,
		Severity: SeverityError,
		message:  fmt.Sprintf("cannot find name %q", name),
	}
}

func propertyNotFound(span ast.Span, prop string, on types.Type) *Diagnostic {
	return &Diagnostic{
		Code:     "TSF2339",
		Span:     span,
		Severity: SeverityError,
		message:  fmt.Sprintf("property %q does not exist on type %q", prop, on.String()),
	}
}

func cannotInferTypeParam(span ast.Span, name string) *Diagnostic {
	return &Diagnostic{
		Code:     "TSF2345",
		Span:     span,
		Severity: SeverityError,
		message:  fmt.Sprintf("could not infer type parameter %q from the supplied arguments", name),
	}
}
