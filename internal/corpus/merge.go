package corpus

import "strings"

// The two merge policies are deliberately asymmetric: the index keeps
// exactly one entry per page and renames it after the page, while the
// full corpus keeps every piece of text. Completeness wins for full
// content, conciseness wins for the index.

// MergeSessions collapses entries sharing a link. When a link occurs
// more than once, the entry from the last occurrence survives and its
// title is re-derived from the link itself, normalizing titles across
// aliasing paths. Output order is first-seen-link order. Idempotent:
// applying it to its own output is a no-op.
func MergeSessions(entries []SessionEntry) []SessionEntry {
	if len(entries) == 0 {
		return entries
	}

	order := make([]string, 0, len(entries))
	last := make(map[string]SessionEntry, len(entries))
	count := make(map[string]int, len(entries))
	for _, e := range entries {
		if _, ok := last[e.Link]; !ok {
			order = append(order, e.Link)
		}
		last[e.Link] = e
		count[e.Link]++
	}

	out := make([]SessionEntry, 0, len(order))
	for _, link := range order {
		e := last[link]
		if count[link] > 1 {
			e.Title = TitleFromLink(link)
		}
		out = append(out, e)
	}
	return out
}

// MergeFullSessions collapses entries sharing a link by concatenating
// their content in traversal order, separated by a blank line. Nothing
// is discarded. Output order is first-seen-link order.
func MergeFullSessions(entries []FullSessionEntry) []FullSessionEntry {
	if len(entries) == 0 {
		return entries
	}

	order := make([]string, 0, len(entries))
	parts := make(map[string][]string, len(entries))
	for _, e := range entries {
		if _, ok := parts[e.Link]; !ok {
			order = append(order, e.Link)
		}
		parts[e.Link] = append(parts[e.Link], e.Content)
	}

	out := make([]FullSessionEntry, 0, len(order))
	for _, link := range order {
		out = append(out, FullSessionEntry{
			Content: strings.Join(parts[link], "\n\n"),
			Link:    link,
		})
	}
	return out
}
