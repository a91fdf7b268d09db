package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cratelore/cratelore/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as an MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		gen, closeGen, err := newGenerator()
		if err != nil {
			return err
		}
		defer closeGen()

		return mcp.NewServer(gen).Run()
	},
}
