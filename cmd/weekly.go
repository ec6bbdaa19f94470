package cmd

import (
	"github.com/huangsam/gitpulse/core"
	"github.com/spf13/cobra"
)

// weeklyCmd prints a per-author weekly series.
var weeklyCmd = &cobra.Command{
	Use:   "weekly [repo-path]",
	Short: "Sum a metric per author per week",
	Long: `Bucket commits into weeks starting on Monday (UTC) and sum the chosen
metric for every author.

Examples:
  # Weekly churn for two authors
  gitpulse weekly --metric churn --authors alice@x.com,bob@y.com

  # Weekly commit counts as JSON
  gitpulse weekly --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("weekly", core.ExecuteWeekly),
}
