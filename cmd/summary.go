package cmd

import (
	"github.com/huangsam/gitpulse/core"
	"github.com/spf13/cobra"
)

// summaryCmd prints the author leaderboard.
var summaryCmd = &cobra.Command{
	Use:     "summary [repo-path]",
	Aliases: []string{"leaderboard"},
	Short:   "Rank authors by contribution score",
	Long: `Aggregate commits per author and rank them by a score that blends churn,
commit count and active days, with a penalty for tiny commits.

Each row also carries ratios for small, tiny and big commits, average and
median churn, and a tier label (Core, Regular, Occasional, Drive-by).

Examples:
  # Top 15 authors of the last 6 months
  gitpulse summary --months 6

  # Export every author as CSV
  gitpulse summary --limit 1000 --output csv --output-file authors.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("summary", core.ExecuteLeaderboard),
}
