// Package render formats a corpus as llms.txt text files.
package render

import (
	"fmt"
	"strings"

	"github.com/cratelore/cratelore/internal/corpus"
)

// Index renders the concise llms.txt listing: one linked line per
// session entry.
func Index(docs *corpus.CrateDocs) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n", docs.CrateName, docs.CrateVersion)
	if len(docs.Sessions) > 0 {
		b.WriteString("\n## Documentation\n\n")
		for _, s := range docs.Sessions {
			if s.Description == "" {
				fmt.Fprintf(&b, "- [%s](%s)\n", s.Title, s.Link)
				continue
			}
			fmt.Fprintf(&b, "- [%s](%s): %s\n", s.Title, s.Link, s.Description)
		}
	}
	return b.String()
}

// Full renders the llms-full.txt corpus: the complete documentation
// for each page, headed by its source link.
func Full(docs *corpus.CrateDocs) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n", docs.CrateName, docs.CrateVersion)
	for _, fs := range docs.FullSessions {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", fs.Link, fs.Content)
	}
	return b.String()
}
