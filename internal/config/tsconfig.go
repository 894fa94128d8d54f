// Package config parses the two configuration formats spec §5 names:
// a tsconfig.json-like project file (lenient: trailing commas and line
// comments allowed) and a package.json-like descriptor (strict JSON).
// Grounded on escalier's go.mod, which depends on goccy/go-yaml
// directly; YAML is a JSON superset and goccy's parser tolerates trailing
// commas and comments the way a real tsconfig.json parser must, so it is
// reused here instead of writing a bespoke JSON5-style lenient parser.
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
)

// CompilerOptions is the subset of tsconfig.json's "compilerOptions" this
// module consults.
type CompilerOptions struct {
	Target        string   `yaml:"target"`
	Module        string   `yaml:"module"`
	Strict        bool     `yaml:"strict"`
	NoImplicitAny bool     `yaml:"noImplicitAny"`
	OutDir        string   `yaml:"outDir"`
	RootDir       string   `yaml:"rootDir"`
	Lib           []string `yaml:"lib"`
	Paths         map[string][]string `yaml:"paths"`
}

type ProjectConfig struct {
	CompilerOptions CompilerOptions `yaml:"compilerOptions"`
	Include         []string        `yaml:"include"`
	Exclude         []string        `yaml:"exclude"`
	Extends         string          `yaml:"extends"`
}

var trailingCommaPattern = regexp.MustCompile(`,(\s*[}\]])`)
var lineCommentPattern = regexp.MustCompile(`//[^\n]*`)

// ParseProjectConfig parses tsconfig.json-like text. It strips `//` line
// comments and trailing commas before handing the result to goccy/go-yaml,
// since tsconfig.json is conventionally written as JSONC (JSON with
// Comments), a strict superset YAML already accepts once those two
// JSON-only illegalities are normalized away.
func ParseProjectConfig(text string) (*ProjectConfig, error) {
	normalized := stripJSONC(text)
	var cfg ProjectConfig
	if err := yaml.Unmarshal([]byte(normalized), &cfg); err != nil {
		return nil, fmt.Errorf("parsing project config: %w", err)
	}
	return &cfg, nil
}

func stripJSONC(text string) string {
	withoutComments := stripLineCommentsOutsideStrings(text)
	return trailingCommaPattern.ReplaceAllString(withoutComments, "$1")
}

// stripLineCommentsOutsideStrings removes `//...` sequences, but only
// outside of double-quoted strings, so a URL or regex literal value isn't
// mangled.
func stripLineCommentsOutsideStrings(text string) string {
	var out strings.Builder
	inString := false
	escaped := false
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if inString {
			out.WriteRune(r)
			if escaped {
				escaped = false
			} else if r == '\\' {
				escaped = true
			} else if r == '"' {
				inString = false
			}
			continue
		}
		if r == '"' {
			inString = true
			out.WriteRune(r)
			continue
		}
		if r == '/' && i+1 < len(runes) && runes[i+1] == '/' {
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			out.WriteRune('\n')
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
