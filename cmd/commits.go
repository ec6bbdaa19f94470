package cmd

import (
	"github.com/huangsam/gitpulse/core"
	"github.com/spf13/cobra"
)

// commitsCmd lists the selected commits.
var commitsCmd = &cobra.Command{
	Use:   "commits [repo-path]",
	Short: "List the selected commits, newest first",
	Args:  cobra.MaximumNArgs(1),
	Long: `List the commits that survive the current filters with their derived
churn, net lines and file counts.

Examples:
  # Last 20 commits by one author
  gitpulse commits --authors alice@x.com --limit 20`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("commits", core.ExecuteCommits),
}
