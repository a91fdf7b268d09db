// Package corpus turns a crate's item graph into the two LLM-oriented
// document lists: a concise session index and a full-text corpus.
package corpus

import (
	"errors"
	"fmt"
)

// ErrMalformedGraph is returned when the supplied item graph violates a
// structural invariant, e.g. the root id is missing from the index.
var ErrMalformedGraph = errors.New("malformed item graph")

// ID identifies an item within one ItemGraph.
type ID string

// Kind is a rustdoc item kind.
type Kind string

const (
	KindModule     Kind = "module"
	KindStruct     Kind = "struct"
	KindEnum       Kind = "enum"
	KindUnion      Kind = "union"
	KindTrait      Kind = "trait"
	KindFunction   Kind = "function"
	KindMacro      Kind = "macro"
	KindAttrMacro  Kind = "proc_attribute"
	KindDerive     Kind = "proc_derive"
	KindTypeAlias  Kind = "type_alias"
	KindConstant   Kind = "constant"
	KindStatic     Kind = "static"
	KindPrimitive  Kind = "primitive"
	KindMethod     Kind = "method"
	KindAssocConst Kind = "assoc_const"
	KindAssocType  Kind = "assoc_type"
	KindVariant    Kind = "variant"
	KindField      Kind = "struct_field"
	KindImpl       Kind = "impl"
	KindUse        Kind = "use"
)

// Item is one documentable entity in the graph.
type Item struct {
	ID   ID
	Path []string // name segments from the crate root, e.g. ["clap", "Command", "new"]
	Kind Kind
	// Public reports whether the item is visible outside the crate.
	// Non-public items are never surfaced and their subtrees are pruned.
	Public bool
	// Docs is the complete markdown documentation body. Empty means
	// undocumented; such items are traversed for children but never
	// emitted as entries.
	Docs string
	// Children holds child item ids in rustdoc's native order. Ids that
	// don't resolve in the graph are external references and are skipped.
	Children []ID
	// Target is the aliased item when Kind == KindUse.
	Target ID
}

// Name returns the item's leaf path segment.
func (it *Item) Name() string {
	if len(it.Path) == 0 {
		return ""
	}
	return it.Path[len(it.Path)-1]
}

// ItemGraph is the immutable id-indexed item collection for one crate
// version. It is read-only input for a single Build call; traversal
// state lives in the walker, never on the graph.
type ItemGraph struct {
	CrateName    string
	CrateVersion string
	Root         ID
	Items        map[ID]Item
}

// Get looks up an item by id.
func (g *ItemGraph) Get(id ID) (*Item, bool) {
	it, ok := g.Items[id]
	if !ok {
		return nil, false
	}
	return &it, true
}

// RootItem returns the crate root module.
func (g *ItemGraph) RootItem() (*Item, error) {
	it, ok := g.Get(g.Root)
	if !ok {
		return nil, fmt.Errorf("%w: root id %q not in item index", ErrMalformedGraph, g.Root)
	}
	return it, nil
}

// ChildrenOf returns the child ids of an item, in native order.
func (g *ItemGraph) ChildrenOf(id ID) []ID {
	it, ok := g.Get(id)
	if !ok {
		return nil
	}
	return it.Children
}
