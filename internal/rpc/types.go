// Package rpc defines the wire types shared by the CLI and MCP
// surfaces, and the outer result shape callers see.
package rpc

import "github.com/cratelore/cratelore/internal/corpus"

// CrateSpec identifies a published crate to generate a corpus for.
// Version may be empty, meaning the latest published version.
type CrateSpec struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// LocalSpec identifies a local cargo package to generate a corpus for.
type LocalSpec struct {
	ManifestPath      string   `json:"manifest_path"`
	Toolchain         string   `json:"toolchain,omitempty"`
	AllFeatures       bool     `json:"all_features,omitempty"`
	NoDefaultFeatures bool     `json:"no_default_features,omitempty"`
	Features          []string `json:"features,omitempty"`
}

// GenerateResult is the outcome for a single crate. Exactly one of
// Docs and Error is set.
type GenerateResult struct {
	Name    string            `json:"name"`
	Version string            `json:"version,omitempty"`
	Docs    *corpus.CrateDocs `json:"docs,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// Collapse folds a generation outcome into the shape external callers
// see: any failure, or an empty corpus, becomes a plain "no result".
// The detailed error is only useful on the inside.
func Collapse(docs *corpus.CrateDocs, err error) *corpus.CrateDocs {
	if err != nil || docs == nil || docs.Empty() {
		return nil
	}
	return docs
}
