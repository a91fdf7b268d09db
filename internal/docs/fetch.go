package docs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/klauspost/compress/zstd"
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

const userAgent = "cratelore/0.1.0"

// FetchRustdocJSON downloads rustdoc JSON for a crate from docs.rs.
// The version "latest" is resolved by docs.rs via redirect.
func FetchRustdocJSON(ctx context.Context, name, version string) ([]byte, error) {
	if version == "" {
		version = "latest"
	}
	url := fmt.Sprintf("https://docs.rs/crate/%s/%s/json", name, version)
	return FetchRustdocJSONByURL(ctx, url)
}

// FetchRustdocJSONByURL downloads rustdoc JSON from an arbitrary URL,
// e.g. a custom documentation server serving the docs.rs layout.
func FetchRustdocJSONByURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("documentation server returned %d for %s: %s", resp.StatusCode, url, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return decompress(body)
}

// decompress handles the zstd compression docs.rs applies regardless of
// Content-Encoding headers. Bodies that fail zstd decoding are assumed
// to be plain JSON already (custom servers, tests).
func decompress(body []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(bytes.NewReader(body))
	if err != nil {
		return body, nil
	}
	defer decoder.Close()

	data, err := io.ReadAll(decoder)
	if err != nil {
		return body, nil
	}
	return data, nil
}

// Decode parses rustdoc JSON bytes.
func Decode(data []byte) (*RustdocCrate, error) {
	var crate RustdocCrate
	if err := json.Unmarshal(data, &crate); err != nil {
		return nil, fmt.Errorf("unmarshaling rustdoc JSON: %w", err)
	}
	return &crate, nil
}
