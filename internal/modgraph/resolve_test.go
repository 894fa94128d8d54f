package modgraph

import "testing"

func TestResolveRelative(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/src/index.ts": "",
		"/src/util.ts":  "",
	})
	r := NewResolver(fs)
	got, err := r.Resolve("./util", "/src")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/src/util.ts" {
		t.Errorf("got %q, want /src/util.ts", got)
	}
}

func TestResolveRelativeIndexFallback(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/src/lib/index.ts": "",
	})
	r := NewResolver(fs)
	got, err := r.Resolve("./lib", "/src")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/src/lib/index.ts" {
		t.Errorf("got %q, want /src/lib/index.ts", got)
	}
}

func TestResolveMissingFile(t *testing.T) {
	fs := newMemFS(map[string]string{})
	r := NewResolver(fs)
	if _, err := r.Resolve("./missing", "/src"); err == nil {
		t.Fatal("expected an error for an unresolvable specifier")
	}
}

func TestResolveBuiltIn(t *testing.T) {
	fs := newMemFS(map[string]string{})
	r := NewResolver(fs)
	r.RegisterBuiltIn(BuiltIn{Specifier: "node:fs", Path: "builtin:node:fs"})
	got, err := r.Resolve("node:fs", "/src")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "builtin:node:fs" {
		t.Errorf("got %q, want builtin:node:fs", got)
	}
}

func TestResolveNodeModulesWalkUp(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/proj/node_modules/left-pad/index.ts": "",
	})
	r := NewResolver(fs)
	got, err := r.Resolve("left-pad", "/proj/src/deep")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/proj/node_modules/left-pad/index.ts" {
		t.Errorf("got %q, want /proj/node_modules/left-pad/index.ts", got)
	}
}

func TestResolveNodeModulesPackageJSONTypes(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/proj/node_modules/widgets/package.json": `{"name":"widgets","types":"dist/index.d.ts"}`,
		"/proj/node_modules/widgets/dist/index.d.ts": "",
	})
	r := NewResolver(fs)
	got, err := r.Resolve("widgets", "/proj/src")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/proj/node_modules/widgets/dist/index.d.ts" {
		t.Errorf("got %q, want dist/index.d.ts resolution", got)
	}
}

func TestResolveScopedPackageSubpath(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/proj/node_modules/@scope/pkg/sub.ts": "",
	})
	r := NewResolver(fs)
	got, err := r.Resolve("@scope/pkg/sub", "/proj/src")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/proj/node_modules/@scope/pkg/sub.ts" {
		t.Errorf("got %q, want scoped subpath resolution", got)
	}
}
