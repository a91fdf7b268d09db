package corpus

import (
	"strings"

	md "github.com/cratelore/cratelore/internal/markdown"
)

// maxDescriptionLen bounds session descriptions, in runes.
const maxDescriptionLen = 200

// Describe derives a one-line description from a documentation body:
// the first paragraph, cut at the first sentence boundary, truncated to
// maxDescriptionLen.
func Describe(docs string) string {
	s := md.FirstParagraph(docs)
	if s == "" {
		return ""
	}
	s = firstSentence(s)
	return truncate(s, maxDescriptionLen)
}

// firstSentence cuts after the first period followed by a space. A
// trailing period without a following space means the paragraph is a
// single sentence already.
func firstSentence(s string) string {
	if i := strings.Index(s, ". "); i >= 0 {
		return s[:i+1]
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimRight(string(runes[:n-1]), " ") + "…"
}
