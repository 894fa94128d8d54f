package config

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// PackageDescriptor is package.json's relevant subset for a TypeScript
// project's own manifest (name/version/dependencies), distinct from
// internal/modgraph's narrower PackageDescriptor used only for resolving
// a dependency's type-entry-point. Grounded on escalier's
// internal/resolver/types_resolver.go's use of stdlib encoding/json for
// this exact format; repeated here for the same reason: package.json is a
// fixed external shape with no JS-value semantics (no replacer/reviver/
// BigInt handling), so the struct-tag unmarshal escalier already uses
// is the right tool, not the gjson/sjson pair this module otherwise
// prefers for runtime JSON.stringify/parse semantics.
type PackageDescriptor struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description"`
	Main            string            `json:"main"`
	Types           string            `json:"types"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

var packageNamePattern = regexp.MustCompile(`^(@[a-z0-9-_.]+/)?[a-z0-9-_.]+$`)
var semverPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(-[0-9A-Za-z-.]+)?(\+[0-9A-Za-z-.]+)?$`)

func ParsePackageDescriptor(text string) (*PackageDescriptor, error) {
	var d PackageDescriptor
	if err := json.Unmarshal([]byte(text), &d); err != nil {
		return nil, fmt.Errorf("parsing package descriptor: %w", err)
	}
	if d.Name != "" && !packageNamePattern.MatchString(d.Name) {
		return nil, fmt.Errorf("invalid package name %q", d.Name)
	}
	if d.Version != "" && !semverPattern.MatchString(d.Version) {
		return nil, fmt.Errorf("invalid semver version %q", d.Version)
	}
	return &d, nil
}
