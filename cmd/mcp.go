package cmd

import (
	"github.com/huangsam/gitpulse/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [repo-path]",
	Short: "Start the gitpulse MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents query leaderboards,
weekly series, heatmaps and branches through standard tools.

The repository given here is the default; each tool call may override it
with repo_path.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
