package rpc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cratelore/cratelore/internal/corpus"
)

func TestCollapse(t *testing.T) {
	t.Parallel()

	docs := &corpus.CrateDocs{
		CrateName:    "mylib",
		CrateVersion: "0.1.0",
		Sessions: []corpus.SessionEntry{
			{Title: "mylib", Description: "A library.", Link: "https://docs.rs/mylib/0.1.0/mylib/index.html"},
		},
	}

	assert.Equal(t, docs, Collapse(docs, nil))
	assert.Nil(t, Collapse(docs, errors.New("boom")))
	assert.Nil(t, Collapse(nil, nil))
	assert.Nil(t, Collapse(&corpus.CrateDocs{CrateName: "mylib", CrateVersion: "0.1.0"}, nil))
}
