package docs

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/cratelore/cratelore/internal/corpus"
)

// BuildGraph converts a decoded rustdoc crate into the item graph the
// corpus builder traverses. crateName is the Cargo package name (used
// in links); the crate's lib name (underscored) roots the item paths.
// version overrides the crate's own version string when non-empty.
func BuildGraph(crate *RustdocCrate, crateName, version string) *corpus.ItemGraph {
	if version == "" {
		version = crate.Version()
	}

	g := &corpus.ItemGraph{
		CrateName:    crateName,
		CrateVersion: version,
		Root:         itemID(crate.Root),
		Items:        make(map[corpus.ID]corpus.Item, len(crate.Index)),
	}

	b := &graphBuilder{crate: crate, graph: g}
	lib := b.libName(crateName)
	if crateName == "" {
		// Fetch-by-URL and local builds don't know the Cargo name; the
		// lib name from the root item stands in for it.
		g.CrateName = lib
	}
	b.add(crate.Root, []string{lib}, false, true)
	b.addReexportTargets()
	return g
}

type graphBuilder struct {
	crate *RustdocCrate
	graph *corpus.ItemGraph
}

func itemID(id int) corpus.ID {
	return corpus.ID(strconv.Itoa(id))
}

// libName resolves the crate's lib name from the root item, falling
// back to the Cargo name with hyphens normalized.
func (b *graphBuilder) libName(crateName string) string {
	if root, ok := b.crate.Index[strconv.Itoa(b.crate.Root)]; ok && root.Name != nil && *root.Name != "" {
		return *root.Name
	}
	if summary, ok := b.crate.Paths[strconv.Itoa(b.crate.Root)]; ok && len(summary.Path) > 0 {
		return summary.Path[0]
	}
	return strings.ReplaceAll(crateName, "-", "_")
}

// add converts one index item and recurses into its children. member
// marks items owned by a non-module container (impl/trait/struct body),
// whose functions render on the container's page rather than their own.
// parentPublic carries the container's visibility down to items that
// have none of their own. Already-converted ids are left untouched,
// which also terminates on any cyclic shape the input might carry.
func (b *graphBuilder) add(id int, path []string, member, parentPublic bool) {
	cid := itemID(id)
	if _, ok := b.graph.Items[cid]; ok {
		return
	}
	item, ok := b.crate.Index[strconv.Itoa(id)]
	if !ok {
		return // external reference, resolved lazily as absent
	}

	rawKind := innerKind(item.Inner)
	if summary, ok := b.crate.Paths[strconv.Itoa(id)]; ok && len(summary.Path) > 0 {
		path = summary.Path
	}

	public := item.IsPublic()
	if !public && parentPublic && item.IsDefaultVisibility() && inheritsVisibility(rawKind, member) {
		public = true
	}

	converted := corpus.Item{
		ID:     cid,
		Path:   path,
		Kind:   mapKind(rawKind, member),
		Public: public,
	}
	if item.Docs != nil {
		converted.Docs = *item.Docs
	}

	if rawKind == "use" {
		if target, ok := useTarget(item.Inner); ok {
			converted.Target = itemID(target)
		}
		b.graph.Items[cid] = converted
		return
	}

	childIDs, membersNext := children(item.Inner, rawKind)
	for _, childID := range childIDs {
		converted.Children = append(converted.Children, itemID(childID))
	}
	b.graph.Items[cid] = converted

	for _, childID := range childIDs {
		b.add(childID, childPath(path, b.crate, childID), membersNext, public)
	}
}

// inheritsVisibility reports whether an item marked "default" takes its
// container's visibility: impl blocks, enum variants, and the
// associated items inside an impl or trait body. Struct fields keep
// their own visibility; a "default" field is simply private.
func inheritsVisibility(rawKind string, member bool) bool {
	switch rawKind {
	case "impl", "variant":
		return true
	case "struct_field":
		return false
	}
	return member
}

// addReexportTargets converts re-export targets that are not reachable
// through the public module tree (e.g. items defined in private modules
// and surfaced only via pub use). Their stable paths come from the
// paths table. Sorted iteration keeps conversion deterministic.
func (b *graphBuilder) addReexportTargets() {
	ids := make([]int, 0, len(b.crate.Index))
	for idStr := range b.crate.Index {
		if id, err := strconv.Atoi(idStr); err == nil {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	for _, id := range ids {
		item := b.crate.Index[strconv.Itoa(id)]
		if innerKind(item.Inner) != "use" {
			continue
		}
		target, ok := useTarget(item.Inner)
		if !ok {
			continue
		}
		summary, ok := b.crate.Paths[strconv.Itoa(target)]
		if !ok || summary.CrateID != 0 {
			continue // external target, omitted from output
		}
		b.add(target, summary.Path, false, true)
	}
}

// childPath extends the parent path with the child's name. Unnamed
// children (impl blocks) stay on the parent path so that their members
// resolve as members of the containing type.
func childPath(parent []string, crate *RustdocCrate, childID int) []string {
	child, ok := crate.Index[strconv.Itoa(childID)]
	if !ok || child.Name == nil || *child.Name == "" {
		return parent
	}
	path := make([]string, len(parent), len(parent)+1)
	copy(path, parent)
	return append(path, *child.Name)
}

// mapKind normalizes a rustdoc inner kind to a corpus kind. Functions,
// constants, and type aliases declared inside an impl or trait body are
// associated items and render on the container's page.
func mapKind(raw string, member bool) corpus.Kind {
	if member {
		switch raw {
		case "function", "method":
			return corpus.KindMethod
		case "constant", "assoc_const":
			return corpus.KindAssocConst
		case "type_alias", "assoc_type":
			return corpus.KindAssocType
		}
	}
	switch raw {
	case "proc_macro":
		return corpus.KindMacro
	case "proc_attribute":
		return corpus.KindAttrMacro
	case "proc_derive":
		return corpus.KindDerive
	case "typedef":
		return corpus.KindTypeAlias
	case "method":
		return corpus.KindMethod
	default:
		return corpus.Kind(raw)
	}
}

func useTarget(inner json.RawMessage) (int, bool) {
	data := unwrapInner(inner, "use")
	if data == nil {
		// Older rustdoc formats call this "import".
		data = unwrapInner(inner, "import")
	}
	if data == nil {
		return 0, false
	}
	var use struct {
		Name   string `json:"name"`
		ID     *int   `json:"id"`
		IsGlob bool   `json:"is_glob"`
	}
	if err := json.Unmarshal(data, &use); err != nil || use.ID == nil {
		return 0, false
	}
	return *use.ID, true
}

// children extracts child ids for a container kind, in rustdoc's native
// order. The second result reports whether those children are members
// of a type body rather than module items.
func children(inner json.RawMessage, kind string) ([]int, bool) {
	switch kind {
	case "module":
		var mod struct {
			Items []int `json:"items"`
		}
		if data := unwrapInner(inner, "module"); data != nil {
			if err := json.Unmarshal(data, &mod); err == nil {
				return mod.Items, false
			}
		}
		return nil, false

	case "struct":
		data := unwrapInner(inner, "struct")
		if data == nil {
			return nil, true
		}
		var s struct {
			Kind  json.RawMessage `json:"kind"`
			Impls []int           `json:"impls"`
		}
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, true
		}
		return append(structFields(s.Kind), s.Impls...), true

	case "enum":
		data := unwrapInner(inner, "enum")
		if data == nil {
			return nil, true
		}
		var e struct {
			Variants []int `json:"variants"`
			Impls    []int `json:"impls"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, true
		}
		return append(e.Variants, e.Impls...), true

	case "union":
		data := unwrapInner(inner, "union")
		if data == nil {
			return nil, true
		}
		var u struct {
			Fields []int `json:"fields"`
			Impls  []int `json:"impls"`
		}
		if err := json.Unmarshal(data, &u); err != nil {
			return nil, true
		}
		return append(u.Fields, u.Impls...), true

	case "trait":
		var tr struct {
			Items []int `json:"items"`
		}
		if data := unwrapInner(inner, "trait"); data != nil {
			if err := json.Unmarshal(data, &tr); err == nil {
				return tr.Items, true
			}
		}
		return nil, true

	case "impl":
		var imp struct {
			Items []int `json:"items"`
		}
		if data := unwrapInner(inner, "impl"); data != nil {
			if err := json.Unmarshal(data, &imp); err == nil {
				return imp.Items, true
			}
		}
		return nil, true

	case "primitive":
		var p struct {
			Impls []int `json:"impls"`
		}
		if data := unwrapInner(inner, "primitive"); data != nil {
			if err := json.Unmarshal(data, &p); err == nil {
				return p.Impls, true
			}
		}
		return nil, true

	default:
		return nil, false
	}
}

// structFields pulls field ids out of a struct body: {"plain":
// {"fields": […]}}, {"tuple": [id|null, …]}, or "unit".
func structFields(kind json.RawMessage) []int {
	if len(kind) == 0 {
		return nil
	}
	var plain struct {
		Plain struct {
			Fields []int `json:"fields"`
		} `json:"plain"`
		Tuple []*int `json:"tuple"`
	}
	if err := json.Unmarshal(kind, &plain); err != nil {
		return nil // "unit" or an unknown shape
	}
	if len(plain.Plain.Fields) > 0 {
		return plain.Plain.Fields
	}
	var fields []int
	for _, id := range plain.Tuple {
		if id != nil {
			fields = append(fields, *id)
		}
	}
	return fields
}
