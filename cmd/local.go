package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cratelore/cratelore/internal/config"
	"github.com/cratelore/cratelore/internal/render"
	"github.com/cratelore/cratelore/internal/rpc"
)

var localSpec rpc.LocalSpec

var localCmd = &cobra.Command{
	Use:   "local",
	Short: "Generate llms.txt and llms-full.txt for a local cargo package",
	Example: `  cratelore local --manifest-path ./Cargo.toml
  cratelore local --manifest-path ./Cargo.toml --toolchain nightly --all-features`,
	RunE: runLocal,
}

func init() {
	localCmd.Flags().StringVar(&localSpec.ManifestPath, "manifest-path", "Cargo.toml", "path to the package's Cargo.toml")
	localCmd.Flags().StringVar(&localSpec.Toolchain, "toolchain", "", "toolchain to build with (e.g. nightly)")
	localCmd.Flags().StringSliceVar(&localSpec.Features, "features", nil, "features to enable")
	localCmd.Flags().BoolVar(&localSpec.AllFeatures, "all-features", false, "enable all features")
	localCmd.Flags().BoolVar(&localSpec.NoDefaultFeatures, "no-default-features", false, "disable default features")
	localCmd.Flags().StringVar(&getOut, "out", "", "output directory (default from config)")
	localCmd.Flags().BoolVar(&getStdout, "stdout", false, "print to stdout instead of writing files")
}

func runLocal(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	gen, closeGen, err := newGenerator()
	if err != nil {
		return err
	}
	defer closeGen()

	docs := rpc.Collapse(gen.ForLocal(cmd.Context(), localSpec))
	if docs == nil {
		return fmt.Errorf("no documentation available for %s", localSpec.ManifestPath)
	}

	if getStdout {
		fmt.Print(render.Index(docs))
		fmt.Print(render.Full(docs))
		return nil
	}

	dir := getOut
	if dir == "" {
		dir = cfg.Output.Dir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for name, content := range map[string]string{
		cfg.Output.IndexFile: render.Index(docs),
		cfg.Output.FullFile:  render.Full(docs),
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		log.Info("wrote", "file", path)
	}
	return nil
}
