package corpus

// Visit is one element of the traversal stream: a documented item
// together with the page its documentation renders to.
type Visit struct {
	Path []string
	Kind Kind
	Docs string
	Link string
	// Alias marks a visit whose documentation already appeared earlier in
	// the traversal under another path (re-export aliasing). Alias visits
	// contribute an index entry but no full content.
	Alias bool
}

// walker holds per-traversal state. The graph itself is never mutated.
type walker struct {
	g    *ItemGraph
	r    *Resolver
	emit func(Visit)

	expanded map[ID]bool // containers already descended into
	emitted  map[ID]bool // items whose docs are already in the stream
}

// Walk traverses the graph depth-first from the root, visiting children
// in native order, and calls emit once per documented reachable item.
// The stream is single-pass and deterministic: no map iteration decides
// order. Returns ErrMalformedGraph if the root id does not resolve.
func Walk(g *ItemGraph, r *Resolver, emit func(Visit)) error {
	if _, err := g.RootItem(); err != nil {
		return err
	}
	w := &walker{
		g:        g,
		r:        r,
		emit:     emit,
		expanded: make(map[ID]bool),
		emitted:  make(map[ID]bool),
	}
	w.visit(g.Root, "")
	return nil
}

func (w *walker) visit(id ID, parentLink string) {
	it, ok := w.g.Get(id)
	if !ok {
		return // unresolved external reference
	}
	if !it.Public {
		return // privacy prunes the whole subtree
	}
	if it.Kind == KindUse {
		w.reexport(it)
		return
	}

	link := parentLink
	if OwnsPage(it.Kind) || link == "" {
		link = w.r.PageURL(it.Path, it.Kind)
	}

	if it.Docs != "" {
		w.emit(Visit{Path: it.Path, Kind: it.Kind, Docs: it.Docs, Link: link, Alias: w.emitted[id]})
		w.emitted[id] = true
	}

	if w.expanded[id] {
		return
	}
	w.expanded[id] = true
	for _, child := range it.Children {
		w.visit(child, link)
	}
}

// reexport resolves a use item to its target and surfaces the target's
// documentation under the aliasing path. The target chain is followed at
// most once per originating path; a target whose docs are already in the
// stream yields an alias visit pointing at the already-resolved link.
func (w *walker) reexport(use *Item) {
	seen := map[ID]bool{use.ID: true}
	target, ok := w.g.Get(use.Target)
	for ok && target.Kind == KindUse {
		if seen[target.ID] {
			return // re-export cycle, nothing to surface
		}
		seen[target.ID] = true
		target, ok = w.g.Get(target.Target)
	}
	if !ok || !target.Public {
		return
	}

	link := w.r.PageURL(target.Path, target.Kind)

	if target.Docs != "" {
		w.emit(Visit{
			Path:  use.Path,
			Kind:  target.Kind,
			Docs:  target.Docs,
			Link:  link,
			Alias: w.emitted[target.ID],
		})
		w.emitted[target.ID] = true
	}

	if w.expanded[target.ID] {
		return
	}
	w.expanded[target.ID] = true
	for _, child := range target.Children {
		w.visit(child, link)
	}
}
