// Package markdown extracts plain-text summaries from rustdoc markdown.
package markdown

import (
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"
)

// FirstParagraph returns the plain text of the first paragraph in src.
// Inline formatting is dropped; inline code spans keep their literal
// text. Returns "" when the document has no paragraph (e.g. it starts
// with a code block or consists only of headings).
func FirstParagraph(src string) string {
	doc := gm.Parse([]byte(src), gmparser.NewWithExtensions(
		gmparser.CommonExtensions|gmparser.Autolink,
	))

	var para *ast.Paragraph
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering || para != nil {
			return ast.SkipChildren
		}
		if p, ok := node.(*ast.Paragraph); ok {
			para = p
			return ast.Terminate
		}
		return ast.GoToNext
	})
	if para == nil {
		return ""
	}

	var b strings.Builder
	ast.WalkFunc(para, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch n := node.(type) {
		case *ast.Text:
			b.Write(n.Literal)
		case *ast.Code:
			b.Write(n.Literal)
		case *ast.Hardbreak, *ast.Softbreak:
			b.WriteByte(' ')
		}
		return ast.GoToNext
	})

	return normalizeSpace(b.String())
}

// normalizeSpace collapses runs of whitespace (including the newlines a
// wrapped paragraph carries) into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
