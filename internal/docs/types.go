// Package docs acquires rustdoc JSON documents and converts them into
// the item graph consumed by the corpus builder.
package docs

import (
	"bytes"
	"encoding/json"
)

// RustdocCrate is the top-level structure of rustdoc JSON output.
type RustdocCrate struct {
	Root            int                       `json:"root"`
	CrateVersion    *string                   `json:"crate_version"`
	IncludesPrivate bool                      `json:"includes_private"`
	Index           map[string]RustdocItem    `json:"index"`
	Paths           map[string]RustdocSummary `json:"paths"`
	ExternalCrates  map[string]ExternalCrate  `json:"external_crates"`
	FormatVersion   int                       `json:"format_version"`
}

// ExternalCrate identifies a dependency crate by name.
type ExternalCrate struct {
	Name        string `json:"name"`
	HTMLRootURL string `json:"html_root_url"`
}

// RustdocItem is a single item in the rustdoc index.
type RustdocItem struct {
	ID         int             `json:"id"`
	CrateID    int             `json:"crate_id"`
	Name       *string         `json:"name"`
	Visibility json.RawMessage `json:"visibility"` // "public", "default", "crate", or {"restricted": …}
	Docs       *string         `json:"docs"`
	Links      map[string]int  `json:"links"` // markdown text → item ID
	Inner      json.RawMessage `json:"inner"`
}

// RustdocSummary provides the path and kind for an item.
type RustdocSummary struct {
	CrateID int      `json:"crate_id"`
	Path    []string `json:"path"`
	Kind    string   `json:"kind"`
}

var (
	visPublic  = []byte(`"public"`)
	visDefault = []byte(`"default"`)
)

// IsPublic reports whether the item is public. Restricted visibilities
// ("crate", "default", pub(in …)) all count as non-public.
func (it *RustdocItem) IsPublic() bool {
	return bytes.Equal(bytes.TrimSpace(it.Visibility), visPublic)
}

// IsDefaultVisibility reports the "default" visibility rustdoc puts on
// items that have no visibility of their own: impl blocks, enum
// variants, trait items, and trait-impl members. Whether those are
// reachable depends on their container, not on this marker.
func (it *RustdocItem) IsDefaultVisibility() bool {
	return bytes.Equal(bytes.TrimSpace(it.Visibility), visDefault)
}

// Version returns the crate version, falling back to "latest".
func (c *RustdocCrate) Version() string {
	if c.CrateVersion != nil && *c.CrateVersion != "" {
		return *c.CrateVersion
	}
	return "latest"
}

// innerKind extracts the kind from the inner JSON's single key.
func innerKind(inner json.RawMessage) string {
	if len(inner) == 0 {
		return "unknown"
	}
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(inner, &outer); err != nil {
		return "unknown"
	}
	for k := range outer {
		return k
	}
	return "unknown"
}

// unwrapInner returns the payload under the given kind key, or nil.
func unwrapInner(inner json.RawMessage, kind string) json.RawMessage {
	if len(inner) == 0 {
		return nil
	}
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(inner, &outer); err != nil {
		return nil
	}
	return outer[kind]
}
