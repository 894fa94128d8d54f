package config

import "testing"

func TestParseProjectConfigStripsCommentsAndTrailingCommas(t *testing.T) {
	text := `{
		// a comment
		"compilerOptions": {
			"target": "ES2020",
			"strict": true, // trailing comma below
		},
		"include": ["src/**/*.ts",],
	}`
	cfg, err := ParseProjectConfig(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CompilerOptions.Target != "ES2020" {
		t.Errorf("target = %q", cfg.CompilerOptions.Target)
	}
	if !cfg.CompilerOptions.Strict {
		t.Error("expected strict = true")
	}
	if len(cfg.Include) != 1 || cfg.Include[0] != "src/**/*.ts" {
		t.Errorf("include = %v", cfg.Include)
	}
}

func TestParseProjectConfigPreservesStringSlashes(t *testing.T) {
	text := `{"compilerOptions": {"outDir": "./dist/path"}}`
	cfg, err := ParseProjectConfig(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CompilerOptions.OutDir != "./dist/path" {
		t.Errorf("outDir = %q, a `//` inside a string should not be treated as a comment", cfg.CompilerOptions.OutDir)
	}
}

func TestParsePackageDescriptorValid(t *testing.T) {
	text := `{"name": "@scope/my-pkg", "version": "1.2.3"}`
	d, err := ParsePackageDescriptor(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name != "@scope/my-pkg" || d.Version != "1.2.3" {
		t.Errorf("got %+v", d)
	}
}

func TestParsePackageDescriptorInvalidVersion(t *testing.T) {
	text := `{"name": "pkg", "version": "not-a-version"}`
	if _, err := ParsePackageDescriptor(text); err == nil {
		t.Fatal("expected an error for a malformed semver version")
	}
}

func TestParsePackageDescriptorPrereleaseVersion(t *testing.T) {
	text := `{"name": "pkg", "version": "2.0.0-beta.1"}`
	if _, err := ParsePackageDescriptor(text); err != nil {
		t.Fatalf("unexpected error for a valid prerelease version: %v", err)
	}
}
