package docs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cratelore/cratelore/internal/config"
	"github.com/klauspost/compress/zstd"
)

func crateCachePath(name, version string) string {
	return filepath.Join(config.JSONCacheDir(), name+"_"+version+".json.zst")
}

// SaveCrateCache compresses and saves rustdoc JSON bytes to disk so a
// later run can skip the download. Versions pinned to "latest" are
// never cached: what they resolve to changes over time.
func SaveCrateCache(data []byte, name, version string) error {
	if version == "" || version == "latest" {
		return nil
	}

	dir := config.JSONCacheDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating json cache dir: %w", err)
	}

	f, err := os.Create(crateCachePath(name, version))
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	defer f.Close()

	w, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("writing compressed data: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}
	return nil
}

// LoadCrateCache loads and decompresses cached rustdoc JSON from disk.
func LoadCrateCache(name, version string) ([]byte, error) {
	f, err := os.Open(crateCachePath(name, version))
	if err != nil {
		return nil, fmt.Errorf("opening cache file: %w", err)
	}
	defer f.Close()

	r, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompressing cached rustdoc JSON: %w", err)
	}
	return data, nil
}

// HasCrateCache checks whether a cached rustdoc JSON file exists.
func HasCrateCache(name, version string) bool {
	if version == "" || version == "latest" {
		return false
	}
	_, err := os.Stat(crateCachePath(name, version))
	return err == nil
}

// ClearCrateCache removes all cached rustdoc JSON files.
func ClearCrateCache() error {
	if err := os.RemoveAll(config.JSONCacheDir()); err != nil {
		return fmt.Errorf("clearing json cache: %w", err)
	}
	return nil
}
