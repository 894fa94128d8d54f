package modgraph

import (
	"os"

	"github.com/ts-forge/tsforge/internal/ast"
)

// OSFileSystem is the production FileSystem, reading from the real disk.
// Grounded on ailang's internal/loader, which reads os directly rather
// than going through a seam; here the seam (FileSystem) already exists
// for tests, so production wiring is just the thinnest possible adapter
// over it.
type OSFileSystem struct{}

func (OSFileSystem) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFileSystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// NoopParse is a placeholder ParseFunc for callers with no parser wired
// (the lexer/parser is an external collaborator per spec §1/§6 — out of
// this core's scope). It classifies every file as an import-free Script
// with no statements, which is enough to exercise module resolution,
// cycle detection, and topological ordering against real files on disk
// without needing real syntax-tree content.
func NoopParse(canonicalPath string, source []byte) (*ast.Module, error) {
	return &ast.Module{Path: canonicalPath}, nil
}
