package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cratelore/cratelore/internal/config"
	"github.com/cratelore/cratelore/internal/corpus"
	"github.com/cratelore/cratelore/internal/render"
	"github.com/cratelore/cratelore/internal/rpc"
)

var (
	getURL    string
	getOut    string
	getStdout bool
	indexOnly bool
	fullOnly  bool
)

var getCmd = &cobra.Command{
	Use:   "get [crate[@version]...]",
	Short: "Generate llms.txt and llms-full.txt for published crates",
	Example: `  cratelore get serde
  cratelore get tokio@1.38.0 axum --out docs/
  cratelore get --url https://docs.rs/crate/serde/latest/json --stdout`,
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVar(&getURL, "url", "", "fetch rustdoc JSON from this URL instead of docs.rs")
	getCmd.Flags().StringVar(&getOut, "out", "", "output directory (default from config)")
	getCmd.Flags().BoolVar(&getStdout, "stdout", false, "print to stdout instead of writing files")
	getCmd.Flags().BoolVar(&indexOnly, "index-only", false, "only produce llms.txt")
	getCmd.Flags().BoolVar(&fullOnly, "full-only", false, "only produce llms-full.txt")
	getCmd.MarkFlagsMutuallyExclusive("index-only", "full-only")
}

func runGet(cmd *cobra.Command, args []string) error {
	if getURL == "" && len(args) == 0 {
		return fmt.Errorf("need at least one crate or --url")
	}
	if getURL != "" && len(args) > 0 {
		return fmt.Errorf("--url cannot be combined with crate arguments")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	gen, closeGen, err := newGenerator()
	if err != nil {
		return err
	}
	defer closeGen()

	out := &output{cfg: cfg, multi: len(args) > 1}

	if getURL != "" {
		docs := rpc.Collapse(gen.ForURL(cmd.Context(), getURL))
		if docs == nil {
			return fmt.Errorf("no documentation available for %s", getURL)
		}
		return out.emit(docs)
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	for _, arg := range args {
		spec := parseCrateArg(arg)
		g.Go(func() error {
			docs := rpc.Collapse(gen.ForCrate(ctx, spec))
			if docs == nil {
				return fmt.Errorf("no documentation available for %s", arg)
			}
			return out.emit(docs)
		})
	}
	return g.Wait()
}

func parseCrateArg(arg string) rpc.CrateSpec {
	name, version, _ := strings.Cut(arg, "@")
	return rpc.CrateSpec{Name: name, Version: version}
}

type output struct {
	cfg   *config.Config
	multi bool
	mu    sync.Mutex
}

func (o *output) emit(docs *corpus.CrateDocs) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if getStdout {
		if !fullOnly {
			fmt.Print(render.Index(docs))
		}
		if !indexOnly {
			fmt.Print(render.Full(docs))
		}
		return nil
	}

	dir := getOut
	if dir == "" {
		dir = o.cfg.Output.Dir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if !fullOnly {
		if err := o.write(dir, docs.CrateName, o.cfg.Output.IndexFile, render.Index(docs)); err != nil {
			return err
		}
	}
	if !indexOnly {
		if err := o.write(dir, docs.CrateName, o.cfg.Output.FullFile, render.Full(docs)); err != nil {
			return err
		}
	}
	return nil
}

// write stores one rendered file. With multiple crates, file names are
// prefixed with the crate name so they don't clobber each other.
func (o *output) write(dir, crate, name, content string) error {
	if o.multi {
		name = crate + "-" + name
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Info("wrote", "file", path)
	return nil
}
