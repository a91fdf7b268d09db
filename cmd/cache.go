package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cratelore/cratelore/internal/cas"
	"github.com/cratelore/cratelore/internal/config"
	"github.com/cratelore/cratelore/internal/db"
	"github.com/cratelore/cratelore/internal/docs"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the local corpus store",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List crates with a stored corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.New(config.DBPath())
		if err != nil {
			return fmt.Errorf("opening corpus store: %w", err)
		}
		defer database.Close()

		crates, err := database.ListCrates()
		if err != nil {
			return fmt.Errorf("listing crates: %w", err)
		}
		if len(crates) == 0 {
			fmt.Println("no stored corpora")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CRATE\tVERSION\tGENERATED")
		for _, c := range crates {
			generated := "-"
			if c.GeneratedAt != nil {
				generated = c.GeneratedAt.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, c.Version, generated)
		}
		return w.Flush()
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the corpus store, CAS, and cached rustdoc JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.Remove(config.DBPath()); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing corpus store: %w", err)
		}
		if err := cas.Clear(); err != nil {
			return err
		}
		if err := docs.ClearCrateCache(); err != nil {
			return err
		}
		fmt.Println("cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
