// Package cargo generates rustdoc JSON for a local package by running
// the cargo toolchain.
package cargo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Options control a local rustdoc JSON build.
type Options struct {
	ManifestPath      string
	Toolchain         string // e.g. "nightly"; empty runs the default toolchain
	AllFeatures       bool
	NoDefaultFeatures bool
	Features          []string
	Quiet             bool
}

// Cargo writes into a shared target/ directory, so concurrent builds
// of the same manifest would race. One build per manifest at a time.
var manifestLocks sync.Map

// Generate runs cargo rustdoc and returns the path of the produced
// JSON file under target/doc.
func Generate(ctx context.Context, opts Options) (string, error) {
	if opts.ManifestPath == "" {
		return "", fmt.Errorf("manifest path is required")
	}
	manifest, err := filepath.Abs(opts.ManifestPath)
	if err != nil {
		return "", fmt.Errorf("resolving manifest path: %w", err)
	}
	if _, err := os.Stat(manifest); err != nil {
		return "", fmt.Errorf("reading manifest: %w", err)
	}

	mu, _ := manifestLocks.LoadOrStore(manifest, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	defer mu.(*sync.Mutex).Unlock()

	args := buildArgs(opts, manifest)
	cmd := exec.CommandContext(ctx, "cargo", args...)
	cmd.Env = buildEnv(opts)
	if !opts.Quiet {
		cmd.Stderr = os.Stderr
	}

	log.Debug("running cargo rustdoc", "manifest", manifest, "args", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("cargo rustdoc: %w", err)
	}

	return findOutput(filepath.Join(filepath.Dir(manifest), "target", "doc"))
}

func buildArgs(opts Options, manifest string) []string {
	var args []string
	if opts.Toolchain != "" {
		args = append(args, "+"+opts.Toolchain)
	}
	args = append(args, "rustdoc", "--lib", "--manifest-path", manifest)
	if opts.AllFeatures {
		args = append(args, "--all-features")
	}
	if opts.NoDefaultFeatures {
		args = append(args, "--no-default-features")
	}
	if len(opts.Features) > 0 {
		args = append(args, "--features", strings.Join(opts.Features, ","))
	}
	args = append(args, "--", "-Zunstable-options", "--output-format", "json")
	return args
}

// buildEnv enables the unstable rustdoc flags on stable toolchains.
func buildEnv(opts Options) []string {
	env := os.Environ()
	if opts.Toolchain == "" || !strings.HasPrefix(opts.Toolchain, "nightly") {
		env = append(env, "RUSTC_BOOTSTRAP=1")
	}
	return env
}

// findOutput locates the JSON file rustdoc wrote. The file stem is the
// library name, which need not match the package name, so take the
// most recently modified .json in the doc directory.
func findOutput(docDir string) (string, error) {
	entries, err := os.ReadDir(docDir)
	if err != nil {
		return "", fmt.Errorf("reading rustdoc output directory: %w", err)
	}

	var newest string
	var newestMod int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest = filepath.Join(docDir, e.Name())
			newestMod = mod
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no rustdoc JSON found in %s", docDir)
	}
	return newest, nil
}
