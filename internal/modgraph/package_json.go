package modgraph

import "encoding/json"

// PackageDescriptor is the subset of package.json this resolver consults.
// Grounded on escalier's internal/resolver/types_resolver.go, which reads
// package.json into an anonymous struct of exactly this shape via the
// standard library's encoding/json. That choice is repeated here verbatim:
// package.json is a one-off external data format with no other consumer in
// this module, so reaching for a streaming/ordered JSON library (gjson,
// used everywhere else in this module for JS value JSON semantics) would
// buy nothing — struct-tagged unmarshal is the idiomatic fit for a fixed,
// known shape.
type PackageDescriptor struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Types   string `json:"types"`
	Typings string `json:"typings"`
	Main    string `json:"main"`
}

func ReadPackageDescriptor(fs FileSystem, path string) (*PackageDescriptor, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var descriptor PackageDescriptor
	if err := json.Unmarshal(data, &descriptor); err != nil {
		return nil, err
	}
	return &descriptor, nil
}
