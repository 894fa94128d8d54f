// Package checker implements the bidirectional type checker of spec §4.3:
// type annotation resolution, structural compatibility, overload and
// generic call resolution, and flow-sensitive narrowing over a per-function
// control-flow graph. Grounded on escalier's internal/checker/scope.go for
// the scope-chain shape, generalized from escalier's Namespace-based
// lookup to a flat binding map since this checker has no module-namespace
// merging step (that lives in internal/modgraph instead).
package checker

import "github.com/ts-forge/tsforge/internal/types"

// Scope is a lexical binding scope, chained to its parent exactly the way
// escalier's Scope walks Parent for GetValue.
type Scope struct {
	Parent   *Scope
	bindings map[string]*Binding
}

type Binding struct {
	Type    types.Type
	Mutable bool // false for `const`
}

func NewScope() *Scope {
	return &Scope{bindings: map[string]*Binding{}}
}

func (s *Scope) WithNewScope() *Scope {
	return &Scope{Parent: s, bindings: map[string]*Binding{}}
}

// Declare adds a new binding to this scope only; redeclaration in the same
// scope is a checker error the caller is responsible for raising (unlike
// escalier's setValue, which panics, a forced declaration via control flow
// isn't something this checker should ever crash on).
func (s *Scope) Declare(name string, b *Binding) {
	s.bindings[name] = b
}

// Lookup walks the scope chain outward, returning the nearest binding.
func (s *Scope) Lookup(name string) (*Binding, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if b, ok := sc.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// Narrow produces a new binding in the current scope with a refined type,
// without touching the underlying declared type; used when entering a
// branch under a narrowing-producing condition (spec §4.3 flow narrowing).
func (s *Scope) Narrow(name string, narrowed types.Type) {
	if b, ok := s.bindings[name]; ok {
		s.bindings[name] = &Binding{Type: narrowed, Mutable: b.Mutable}
		return
	}
	s.bindings[name] = &Binding{Type: narrowed}
}
