// Package cas is a content-addressable store for corpus text. Content
// is keyed by SHA-256 and stored zstd-compressed, so identical
// documentation shared between crate versions is stored once.
package cas

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cratelore/cratelore/internal/config"
	"github.com/klauspost/compress/zstd"
)

// Dir returns the CAS directory path.
func Dir() string {
	return config.CASDir()
}

// path returns the sharded file path for a hash: cas/<first2>/<rest>.txt.zst
func path(hash string) string {
	return filepath.Join(Dir(), hash[:2], hash[2:]+".txt.zst")
}

// Hash returns the SHA-256 hex digest used to key content.
func Hash(content string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
}

// Write stores content in the CAS, returning its hash.
// If the content already exists, this is a no-op.
func Write(content string) (string, error) {
	hash := Hash(content)

	p := path(hash)
	if _, err := os.Stat(p); err == nil {
		return hash, nil
	}

	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return "", fmt.Errorf("creating CAS directory: %w", err)
	}

	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		return "", fmt.Errorf("creating zstd writer: %w", err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		w.Close()
		return "", fmt.Errorf("compressing CAS content: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("closing zstd writer: %w", err)
	}

	if err := os.WriteFile(p, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("writing CAS file: %w", err)
	}

	return hash, nil
}

// Read retrieves content from the CAS by hash.
func Read(hash string) (string, error) {
	f, err := os.Open(path(hash))
	if err != nil {
		return "", fmt.Errorf("reading CAS file %s: %w", hash, err)
	}
	defer f.Close()

	r, err := zstd.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("decompressing CAS file %s: %w", hash, err)
	}
	return string(data), nil
}

// Clear removes the entire store.
func Clear() error {
	if err := os.RemoveAll(Dir()); err != nil {
		return fmt.Errorf("clearing CAS: %w", err)
	}
	return nil
}
