package cmd

import (
	"github.com/huangsam/gitpulse/core"
	"github.com/spf13/cobra"
)

// heatmapCmd renders a calendar heatmap for one author.
var heatmapCmd = &cobra.Command{
	Use:   "heatmap [repo-path]",
	Short: "Render a weekday by week activity grid for one author",
	Long: `Sum a metric per day for one author and render it as a calendar grid with
one row per weekday (Mon to Sun) and one column per week.

Without --author the top-ranked author of the selection is used.

Examples:
  # Heatmap for the top author
  gitpulse heatmap

  # Daily churn for a specific author
  gitpulse heatmap --author alice@x.com --metric churn`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("heatmap", core.ExecuteHeatmap),
}
