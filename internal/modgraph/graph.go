package modgraph

import (
	"fmt"
	"path"
	"strings"

	"github.com/ts-forge/tsforge/internal/ast"
	"github.com/ts-forge/tsforge/internal/set"
	"github.com/ts-forge/tsforge/internal/types"
)

// Kind distinguishes a module file (has imports/exports, its own scope)
// from a script file (shares the global scope with every other script).
type Kind int

const (
	KindModule Kind = iota
	KindScript
)

// Module is one node of the dependency graph, per spec §3.
type Module struct {
	Path               string
	Kind               Kind
	Tree               *ast.Module
	Dependencies       []string // canonical paths, import/export order
	ReferencedScripts  []string // canonical paths of /// <reference> or ambient script deps
	Exports            map[string]types.Type
	DefaultExport      types.Type // optional
	IsTypeChecked      bool
	IsBuiltIn          bool
}

// Graph is the full loaded dependency graph: every module reachable from a
// set of entry points, memoized by canonical path.
type Graph struct {
	resolver *Resolver
	parse    ParseFunc
	modules  map[string]*Module
	order    []string // post-order DFS topological order, filled by Load
}

// ParseFunc produces an AST from a module's canonical path and source
// text. Parsing/lexing is explicitly out of scope (see SPEC_FULL.md §1),
// so callers supply this; production wiring hands in a real parser, tests
// hand in a literal-AST fixture function.
type ParseFunc func(canonicalPath string, source []byte) (*ast.Module, error)

func NewGraph(resolver *Resolver, parse ParseFunc) *Graph {
	return &Graph{resolver: resolver, parse: parse, modules: map[string]*Module{}}
}

// inProgress is a stack, not a set: spec §3's cycle-detection invariant
// requires reporting the actual cycle path, not merely "a cycle exists".
type loadState struct {
	inProgress []string
}

// Load loads path and every module it transitively depends on, returning
// the entry module. Cycles are detected via the in-progress stack and
// reported as a CycleError naming the full cycle. Dynamic-import string
// literals are loaded after the static specifiers; one that fails to
// resolve is skipped, while any other failure it hits (including a cycle)
// aborts the load like a static import.
func (g *Graph) Load(entryPath string) (*Module, error) {
	st := &loadState{}
	return g.load(entryPath, st)
}

func (g *Graph) load(canonicalPath string, st *loadState) (*Module, error) {
	for _, p := range st.inProgress {
		if p == canonicalPath {
			cycle := append(append([]string{}, st.inProgress...), canonicalPath)
			return nil, &CycleError{Cycle: cycle}
		}
	}
	if m, ok := g.modules[canonicalPath]; ok {
		return m, nil
	}
	st.inProgress = append(st.inProgress, canonicalPath)
	defer func() { st.inProgress = st.inProgress[:len(st.inProgress)-1] }()

	source, err := g.resolver.FS.ReadFile(canonicalPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", canonicalPath, err)
	}
	tree, err := g.parse(canonicalPath, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", canonicalPath, err)
	}

	m := &Module{
		Path:    canonicalPath,
		Kind:    classifyKind(tree),
		Tree:    tree,
		Exports: map[string]types.Type{},
	}
	g.modules[canonicalPath] = m

	fromDir := path.Dir(canonicalPath)
	for _, spec := range extractSpecifiers(tree) {
		depCanonical, err := g.resolver.Resolve(spec.path, fromDir)
		if err != nil {
			if spec.dynamic {
				// Best-effort: a dynamic import that fails to resolve
				// statically is not a load error, only an untyped edge.
				continue
			}
			return nil, err
		}
		dep, err := g.load(depCanonical, st)
		if err != nil {
			return nil, err
		}
		if spec.scriptRef {
			// A Script may reference other Scripts but not Modules (spec
			// §3): check the referenced file's own shape, independent of
			// whatever a different import edge has forced it to elsewhere.
			if classifyKind(dep.Tree) == KindModule {
				return nil, fmt.Errorf("%s: /// <reference path=%q> targets a module, scripts may only reference other scripts", canonicalPath, spec.path)
			}
			m.ReferencedScripts = append(m.ReferencedScripts, depCanonical)
		} else {
			// Being imported makes a file a module regardless of its own
			// shape (spec §3): force the classification even if this file
			// was first reached, and tentatively classified as a script,
			// through some other script-reference edge.
			dep.Kind = KindModule
			m.Dependencies = append(m.Dependencies, depCanonical)
		}
	}

	g.order = append(g.order, canonicalPath) // post-order: deps already appended
	return m, nil
}

// classifyKind treats a tree with no import/export statements at all as a
// script (shares the global scope); any module containing at least one
// import or export is a module (own scope), matching spec §3's Kind rule.
func classifyKind(tree *ast.Module) Kind {
	for _, s := range tree.Stmts {
		switch s.(type) {
		case *ast.ImportStmt, *ast.ExportStmt, *ast.ImportRequireStmt:
			return KindModule
		}
	}
	return KindScript
}

type specifier struct {
	path      string
	dynamic   bool
	scriptRef bool
}

// extractSpecifiers walks the top level of a module collecting every
// import/export/require specifier, mirroring the walk FindSourceFiles and
// the dep_graph's DependencyVisitor perform over escalier ASTs, generalized
// to TypeScript's richer import/export surface. Path-reference directives
// are listed first so Load visits them, and so the resulting
// Module.ReferencedScripts entries, ahead of regular dependencies (spec
// §3's script-before-module visitation order).
func extractSpecifiers(tree *ast.Module) []specifier {
	var specs []specifier
	for _, p := range tree.ReferencePaths {
		specs = append(specs, specifier{path: p, scriptRef: true})
	}
	for _, s := range tree.Stmts {
		switch s := s.(type) {
		case *ast.ImportStmt:
			specs = append(specs, specifier{path: s.FromPath})
		case *ast.ImportRequireStmt:
			specs = append(specs, specifier{path: s.FromPath})
		case *ast.ExportStmt:
			if s.FromModulePath != "" {
				specs = append(specs, specifier{path: s.FromModulePath})
			}
		}
	}
	specs = append(specs, walkExprsForDynamicImport(tree)...)
	return specs
}

func walkExprsForDynamicImport(tree *ast.Module) []specifier {
	var specs []specifier
	var walkStmt func(ast.Stmt)
	var walkExpr func(ast.Expr)
	walkExpr = func(e ast.Expr) {
		switch e := e.(type) {
		case *ast.DynamicImportExpr:
			if lit, ok := e.Specifier.(*ast.LiteralExpr); ok && lit.Kind == ast.LitString {
				specs = append(specs, specifier{path: lit.Str, dynamic: true})
			}
		case *ast.CallExpr:
			walkExpr(e.Callee)
			for _, a := range e.Args {
				walkExpr(a)
			}
		case *ast.BinaryExpr:
			walkExpr(e.Left)
			walkExpr(e.Right)
		case *ast.AwaitExpr:
			walkExpr(e.Arg)
		}
	}
	walkStmt = func(s ast.Stmt) {
		switch s := s.(type) {
		case *ast.ExpressionStmt:
			walkExpr(s.Expr)
		case *ast.BlockStmt:
			for _, inner := range s.Stmts {
				walkStmt(inner)
			}
		case *ast.IfStmt:
			walkStmt(s.Then)
			if s.Else != nil {
				walkStmt(s.Else)
			}
		case *ast.FuncDeclStmt:
			for _, inner := range s.Fn.Body {
				walkStmt(inner)
			}
		}
	}
	for _, s := range tree.Stmts {
		walkStmt(s)
	}
	return specs
}

// TopologicalOrder returns every loaded module's canonical path such that
// dependencies precede dependents, and within that constraint, a module's
// referenced scripts precede the module itself (spec §3's script-before-
// module ordering rule).
func (g *Graph) TopologicalOrder() []string {
	return g.order
}

func (g *Graph) Get(canonicalPath string) (*Module, bool) {
	m, ok := g.modules[canonicalPath]
	return m, ok
}

// Reachable returns every canonical path transitively reachable from
// fromPath via Dependencies or ReferencedScripts, fromPath included. Used
// for impact analysis (e.g. "which loaded files does editing this one
// affect") without re-walking ASTs the way Load's own DFS does.
func (g *Graph) Reachable(fromPath string) set.Set[string] {
	seen := set.NewSet[string]()
	var visit func(string)
	visit = func(p string) {
		if seen.Contains(p) {
			return
		}
		seen.Add(p)
		m, ok := g.modules[p]
		if !ok {
			return
		}
		for _, dep := range m.Dependencies {
			visit(dep)
		}
		for _, dep := range m.ReferencedScripts {
			visit(dep)
		}
	}
	visit(fromPath)
	return seen
}

type CycleError struct{ Cycle []string }

func (e *CycleError) Error() string {
	return "import cycle detected: " + strings.Join(e.Cycle, " -> ")
}
