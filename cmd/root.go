package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cratelore/cratelore/internal/config"
	"github.com/cratelore/cratelore/internal/db"
	"github.com/cratelore/cratelore/internal/generate"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "cratelore",
	Short:   "Generate llms.txt corpora for Rust crates from rustdoc JSON",
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		return config.InitializeViper()
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(localCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(cacheCmd)
}

// newGenerator loads config and opens the corpus store. A store that
// fails to open degrades to uncached generation.
func newGenerator() (*generate.Generator, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	database, err := db.New(config.DBPath())
	if err != nil {
		log.Warn("opening corpus store, continuing without it", "err", err)
		return generate.New(cfg, nil), func() {}, nil
	}

	return generate.New(cfg, database), func() { database.Close() }, nil
}
