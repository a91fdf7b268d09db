package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cratelore/cratelore/internal/corpus"
)

func testDocs() *corpus.CrateDocs {
	return &corpus.CrateDocs{
		CrateName:    "mylib",
		CrateVersion: "0.2.0",
		Sessions: []corpus.SessionEntry{
			{Title: "mylib", Description: "A process library.", Link: "https://docs.rs/mylib/0.2.0/mylib/index.html"},
			{Title: "Command", Description: "A builder.", Link: "https://docs.rs/mylib/0.2.0/mylib/struct.Command.html"},
		},
		FullSessions: []corpus.FullSessionEntry{
			{Content: "A process library.", Link: "https://docs.rs/mylib/0.2.0/mylib/index.html"},
			{Content: "A builder.\n\nCreates a Command.", Link: "https://docs.rs/mylib/0.2.0/mylib/struct.Command.html"},
		},
	}
}

func TestIndex(t *testing.T) {
	t.Parallel()

	got := Index(testDocs())
	want := `# mylib 0.2.0

## Documentation

- [mylib](https://docs.rs/mylib/0.2.0/mylib/index.html): A process library.
- [Command](https://docs.rs/mylib/0.2.0/mylib/struct.Command.html): A builder.
`
	assert.Equal(t, want, got)
}

func TestIndex_NoDescription(t *testing.T) {
	t.Parallel()

	docs := &corpus.CrateDocs{
		CrateName:    "mylib",
		CrateVersion: "0.2.0",
		Sessions: []corpus.SessionEntry{
			{Title: "run", Link: "https://docs.rs/mylib/0.2.0/mylib/fn.run.html"},
		},
	}
	assert.Contains(t, Index(docs), "- [run](https://docs.rs/mylib/0.2.0/mylib/fn.run.html)\n")
}

func TestFull(t *testing.T) {
	t.Parallel()

	got := Full(testDocs())
	want := `# mylib 0.2.0

## https://docs.rs/mylib/0.2.0/mylib/index.html

A process library.

## https://docs.rs/mylib/0.2.0/mylib/struct.Command.html

A builder.

Creates a Command.
`
	assert.Equal(t, want, got)
}

func TestEmptyDocs(t *testing.T) {
	t.Parallel()

	docs := &corpus.CrateDocs{CrateName: "mylib", CrateVersion: "0.2.0"}
	assert.Equal(t, "# mylib 0.2.0\n", Index(docs))
	assert.Equal(t, "# mylib 0.2.0\n", Full(docs))
}
