package corpus

// SessionEntry is one concise index entry: a documented item's title,
// one-line description, and stable page link.
type SessionEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// FullSessionEntry is one full-corpus entry: the complete documentation
// text rendered at one page.
type FullSessionEntry struct {
	Content string `json:"content"`
	Link    string `json:"link"`
}

// CrateDocs is the build-once output of one traversal. It carries no
// reference back to the graph it was derived from.
type CrateDocs struct {
	CrateName    string             `json:"crate_name"`
	CrateVersion string             `json:"crate_version"`
	Sessions     []SessionEntry     `json:"sessions"`
	FullSessions []FullSessionEntry `json:"full_sessions"`
}

// Empty reports whether the crate has no reachable public documented
// items. This is a distinguishable result state, not an error; callers
// decide whether to treat it as failure.
func (d *CrateDocs) Empty() bool {
	return len(d.Sessions) == 0 && len(d.FullSessions) == 0
}

// Build runs one traversal of the graph and derives both corpora. The
// session and full-content builders consume the same visit stream, so
// both outputs reflect a single consistent snapshot. Pure computation:
// no I/O, no shared state, safe to call concurrently on separate graphs.
func Build(g *ItemGraph) (*CrateDocs, error) {
	r := NewResolver(g.CrateName, g.CrateVersion)

	var sessions []SessionEntry
	var fulls []FullSessionEntry
	err := Walk(g, r, func(v Visit) {
		sessions = append(sessions, SessionEntry{
			Title:       leaf(v.Path),
			Description: Describe(v.Docs),
			Link:        v.Link,
		})
		if !v.Alias {
			fulls = append(fulls, FullSessionEntry{Content: v.Docs, Link: v.Link})
		}
	})
	if err != nil {
		return nil, err
	}

	version := g.CrateVersion
	if version == "" {
		version = "latest"
	}

	merged := MergeSessions(sessions)
	if len(merged) > 0 {
		// The index leads with the crate itself, linking its docs.rs
		// landing page. An undocumented crate gets no such entry; the
		// empty state stays empty.
		root, _ := g.RootItem()
		merged = append([]SessionEntry{{
			Title:       g.CrateName,
			Description: Describe(root.Docs),
			Link:        r.CrateURL(),
		}}, merged...)
	}

	return &CrateDocs{
		CrateName:    g.CrateName,
		CrateVersion: version,
		Sessions:     merged,
		FullSessions: MergeFullSessions(fulls),
	}, nil
}

func leaf(path []string) string {
	if len(path) == 0 {
		return ""
	}
	return path[len(path)-1]
}
