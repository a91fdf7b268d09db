// Package generate orchestrates corpus generation for the CLI and MCP
// surfaces: acquire rustdoc JSON, build the item graph, build the
// corpus, persist the result.
package generate

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/cratelore/cratelore/internal/cargo"
	"github.com/cratelore/cratelore/internal/config"
	"github.com/cratelore/cratelore/internal/corpus"
	"github.com/cratelore/cratelore/internal/db"
	"github.com/cratelore/cratelore/internal/docs"
	"github.com/cratelore/cratelore/internal/rpc"
)

type Generator struct {
	cfg *config.Config
	db  *db.DB

	// Dedup concurrent identical requests.
	group singleflight.Group
}

func New(cfg *config.Config, database *db.DB) *Generator {
	return &Generator{cfg: cfg, db: database}
}

// ForCrate generates the corpus for a published crate, preferring the
// stored corpus and the on-disk JSON cache over a fresh docs.rs fetch.
func (g *Generator) ForCrate(ctx context.Context, spec rpc.CrateSpec) (*corpus.CrateDocs, error) {
	version := spec.Version
	if version == "" {
		version = "latest"
	}

	key := "crate/" + spec.Name + "@" + version
	v, err, _ := g.group.Do(key, func() (interface{}, error) {
		return g.crateWork(ctx, spec.Name, version)
	})
	if err != nil {
		return nil, err
	}
	return v.(*corpus.CrateDocs), nil
}

func (g *Generator) crateWork(ctx context.Context, name, version string) (*corpus.CrateDocs, error) {
	if g.db != nil && version != "latest" {
		stored, err := g.db.LoadCrateDocs(name, version)
		if err != nil {
			log.Warn("reading stored corpus", "crate", name, "err", err)
		} else if stored != nil {
			log.Debug("corpus loaded from store", "crate", name, "version", version)
			return stored, nil
		}
	}

	crate, err := g.acquire(ctx, name, version)
	if err != nil {
		return nil, err
	}
	return g.build(crate, name, crate.Version())
}

// ForURL generates the corpus from rustdoc JSON at an explicit URL.
// The crate name comes from the document itself.
func (g *Generator) ForURL(ctx context.Context, url string) (*corpus.CrateDocs, error) {
	v, err, _ := g.group.Do("url/"+url, func() (interface{}, error) {
		fetchCtx, cancel := g.fetchContext(ctx)
		defer cancel()
		data, err := docs.FetchRustdocJSONByURL(fetchCtx, url)
		if err != nil {
			return nil, err
		}
		crate, err := docs.Decode(data)
		if err != nil {
			return nil, err
		}
		return g.build(crate, "", crate.Version())
	})
	if err != nil {
		return nil, err
	}
	return v.(*corpus.CrateDocs), nil
}

// ForLocal generates the corpus for a local cargo package. Local
// builds are not persisted; the working tree may not match any
// published version.
func (g *Generator) ForLocal(ctx context.Context, spec rpc.LocalSpec) (*corpus.CrateDocs, error) {
	v, err, _ := g.group.Do("local/"+spec.ManifestPath, func() (interface{}, error) {
		jsonPath, err := cargo.Generate(ctx, cargo.Options{
			ManifestPath:      spec.ManifestPath,
			Toolchain:         toolchain(g.cfg, spec),
			AllFeatures:       spec.AllFeatures,
			NoDefaultFeatures: spec.NoDefaultFeatures,
			Features:          spec.Features,
		})
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(jsonPath)
		if err != nil {
			return nil, fmt.Errorf("reading rustdoc JSON: %w", err)
		}
		crate, err := docs.Decode(data)
		if err != nil {
			return nil, err
		}
		return corpus.Build(docs.BuildGraph(crate, "", crate.Version()))
	})
	if err != nil {
		return nil, err
	}
	return v.(*corpus.CrateDocs), nil
}

// fetchContext bounds a docs.rs request by the configured timeout.
func (g *Generator) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.cfg != nil && g.cfg.Fetch.Timeout > 0 {
		return context.WithTimeout(ctx, g.cfg.Fetch.Timeout)
	}
	return context.WithCancel(ctx)
}

// acquire fetches rustdoc JSON for name@version, going through the
// on-disk cache when the version is pinned.
func (g *Generator) acquire(ctx context.Context, name, version string) (*docs.RustdocCrate, error) {
	if docs.HasCrateCache(name, version) {
		crate, err := loadCachedCrate(name, version)
		if err == nil {
			log.Debug("rustdoc JSON loaded from cache", "crate", name, "version", version)
			return crate, nil
		}
		log.Warn("reading cached rustdoc JSON", "crate", name, "err", err)
	}

	fetchCtx, cancel := g.fetchContext(ctx)
	defer cancel()
	data, err := docs.FetchRustdocJSON(fetchCtx, name, version)
	if err != nil {
		return nil, err
	}
	crate, err := docs.Decode(data)
	if err != nil {
		return nil, err
	}
	if err := docs.SaveCrateCache(data, name, crate.Version()); err != nil {
		log.Warn("caching rustdoc JSON", "crate", name, "err", err)
	}
	return crate, nil
}

func loadCachedCrate(name, version string) (*docs.RustdocCrate, error) {
	data, err := docs.LoadCrateCache(name, version)
	if err != nil {
		return nil, err
	}
	return docs.Decode(data)
}

// build converts a decoded crate into a corpus and persists it.
func (g *Generator) build(crate *docs.RustdocCrate, name, version string) (*corpus.CrateDocs, error) {
	result, err := corpus.Build(docs.BuildGraph(crate, name, version))
	if err != nil {
		return nil, err
	}
	if g.db != nil {
		if err := g.db.SaveCrateDocs(result); err != nil {
			log.Warn("storing corpus", "crate", result.CrateName, "err", err)
		}
	}
	return result, nil
}

func toolchain(cfg *config.Config, spec rpc.LocalSpec) string {
	if spec.Toolchain != "" {
		return spec.Toolchain
	}
	if cfg != nil {
		return cfg.Cargo.Toolchain
	}
	return ""
}
