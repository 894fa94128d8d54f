package modgraph

import (
	"strings"
	"testing"

	"github.com/ts-forge/tsforge/internal/ast"
)

// fixtureModules maps a canonical path to the literal AST it parses to.
// Parsing is out of scope (see SPEC_FULL.md §1), so tests drive the graph
// with fixture trees directly instead of lexing real source text.
func fixtureParser(fixtures map[string]*ast.Module) ParseFunc {
	return func(canonicalPath string, source []byte) (*ast.Module, error) {
		if m, ok := fixtures[canonicalPath]; ok {
			return m, nil
		}
		return nil, &notFoundError{canonicalPath}
	}
}

func importFrom(path string) *ast.ImportStmt {
	return ast.NewImportStmt(nil, path, ast.NoSpan)
}

func TestGraphLoadLinearDependency(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/src/a.ts": "",
		"/src/b.ts": "",
	})
	fixtures := map[string]*ast.Module{
		"/src/a.ts": {Path: "/src/a.ts", Stmts: []ast.Stmt{importFrom("./b")}},
		"/src/b.ts": {Path: "/src/b.ts", Stmts: nil},
	}
	g := NewGraph(NewResolver(fs), fixtureParser(fixtures))
	entry, err := g.Load("/src/a.ts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entry.Dependencies) != 1 || entry.Dependencies[0] != "/src/b.ts" {
		t.Errorf("dependencies = %v, want [/src/b.ts]", entry.Dependencies)
	}
	order := g.TopologicalOrder()
	bIdx := indexOf(order, "/src/b.ts")
	aIdx := indexOf(order, "/src/a.ts")
	if bIdx == -1 || aIdx == -1 || bIdx > aIdx {
		t.Errorf("expected b before a in topological order, got %v", order)
	}
}

func TestGraphDetectsCycle(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/src/a.ts": "",
		"/src/b.ts": "",
	})
	fixtures := map[string]*ast.Module{
		"/src/a.ts": {Path: "/src/a.ts", Stmts: []ast.Stmt{importFrom("./b")}},
		"/src/b.ts": {Path: "/src/b.ts", Stmts: []ast.Stmt{importFrom("./a")}},
	}
	g := NewGraph(NewResolver(fs), fixtureParser(fixtures))
	_, err := g.Load("/src/a.ts")
	if err == nil {
		t.Fatal("expected a cycle error")
	}
	if _, ok := err.(*CycleError); !ok {
		t.Errorf("expected *CycleError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "->") {
		t.Errorf("cycle error should name the cycle path: %v", err)
	}
}

func TestGraphMemoizesSharedDependency(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/src/a.ts":      "",
		"/src/b.ts":      "",
		"/src/shared.ts": "",
	})
	fixtures := map[string]*ast.Module{
		"/src/a.ts":      {Path: "/src/a.ts", Stmts: []ast.Stmt{importFrom("./shared")}},
		"/src/b.ts":      {Path: "/src/b.ts", Stmts: []ast.Stmt{importFrom("./shared")}},
		"/src/shared.ts": {Path: "/src/shared.ts", Stmts: nil},
	}
	g := NewGraph(NewResolver(fs), fixtureParser(fixtures))
	if _, err := g.Load("/src/a.ts"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := g.Load("/src/b.ts"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order := g.TopologicalOrder()
	count := 0
	for _, p := range order {
		if p == "/src/shared.ts" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("shared.ts should appear exactly once in load order, got %d times in %v", count, order)
	}
}

func TestClassifyKindScriptVsModule(t *testing.T) {
	fs := newMemFS(map[string]string{"/src/script.ts": ""})
	fixtures := map[string]*ast.Module{
		"/src/script.ts": {Path: "/src/script.ts", Stmts: nil},
	}
	g := NewGraph(NewResolver(fs), fixtureParser(fixtures))
	m, err := g.Load("/src/script.ts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Kind != KindScript {
		t.Errorf("module with no import/export should classify as KindScript")
	}
}

func TestImportedFileForcedToModuleKind(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/src/a.ts": "",
		"/src/b.ts": "",
	})
	fixtures := map[string]*ast.Module{
		"/src/a.ts": {Path: "/src/a.ts", Stmts: []ast.Stmt{importFrom("./b")}},
		// b.ts has no import/export of its own, but it's reached via an
		// import edge, which should still force it into KindModule.
		"/src/b.ts": {Path: "/src/b.ts", Stmts: nil},
	}
	g := NewGraph(NewResolver(fs), fixtureParser(fixtures))
	if _, err := g.Load("/src/a.ts"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, ok := g.Get("/src/b.ts")
	if !ok {
		t.Fatal("expected b.ts to be loaded")
	}
	if b.Kind != KindModule {
		t.Error("a file reached via import should be forced to KindModule regardless of its own shape")
	}
}

func TestPathReferenceDirectiveTracksScriptDependency(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/src/a.ts":        "",
		"/src/globals.d.ts": "",
	})
	fixtures := map[string]*ast.Module{
		"/src/a.ts":         {Path: "/src/a.ts", ReferencePaths: []string{"./globals.d.ts"}},
		"/src/globals.d.ts": {Path: "/src/globals.d.ts", Stmts: nil},
	}
	g := NewGraph(NewResolver(fs), fixtureParser(fixtures))
	entry, err := g.Load("/src/a.ts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entry.ReferencedScripts) != 1 || entry.ReferencedScripts[0] != "/src/globals.d.ts" {
		t.Errorf("ReferencedScripts = %v, want [/src/globals.d.ts]", entry.ReferencedScripts)
	}
	if len(entry.Dependencies) != 0 {
		t.Errorf("a path-reference shouldn't also show up as a regular Dependency, got %v", entry.Dependencies)
	}
	order := g.TopologicalOrder()
	refIdx := indexOf(order, "/src/globals.d.ts")
	entryIdx := indexOf(order, "/src/a.ts")
	if refIdx == -1 || entryIdx == -1 || refIdx > entryIdx {
		t.Errorf("expected the referenced script visited before the entry module in %v", order)
	}
}

func TestPathReferenceToModuleIsRejected(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/src/a.ts": "",
		"/src/b.ts": "",
	})
	fixtures := map[string]*ast.Module{
		"/src/a.ts": {Path: "/src/a.ts", ReferencePaths: []string{"./b.ts"}},
		// b.ts has its own export, so it's intrinsically a module.
		"/src/b.ts": {Path: "/src/b.ts", Stmts: []ast.Stmt{&ast.ExportStmt{}}},
	}
	g := NewGraph(NewResolver(fs), fixtureParser(fixtures))
	_, err := g.Load("/src/a.ts")
	if err == nil {
		t.Fatal("expected an error: a script reference may not target a module")
	}
}

func TestReachableCollectsTransitiveDependenciesAndScriptRefs(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/src/a.ts":        "",
		"/src/b.ts":        "",
		"/src/c.ts":        "",
		"/src/globals.d.ts": "",
	})
	fixtures := map[string]*ast.Module{
		"/src/a.ts":         {Path: "/src/a.ts", ReferencePaths: []string{"./globals.d.ts"}, Stmts: []ast.Stmt{importFrom("./b")}},
		"/src/b.ts":         {Path: "/src/b.ts", Stmts: []ast.Stmt{importFrom("./c")}},
		"/src/c.ts":         {Path: "/src/c.ts", Stmts: nil},
		"/src/globals.d.ts": {Path: "/src/globals.d.ts", Stmts: nil},
	}
	g := NewGraph(NewResolver(fs), fixtureParser(fixtures))
	if _, err := g.Load("/src/a.ts"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reachable := g.Reachable("/src/a.ts")
	for _, want := range []string{"/src/a.ts", "/src/b.ts", "/src/c.ts", "/src/globals.d.ts"} {
		if !reachable.Contains(want) {
			t.Errorf("expected %s in reachable set, got %s", want, reachable.String())
		}
	}
	if reachable.Len() != 4 {
		t.Errorf("expected exactly 4 reachable paths, got %d: %s", reachable.Len(), reachable.String())
	}
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
