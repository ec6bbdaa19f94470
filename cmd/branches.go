package cmd

import (
	"github.com/huangsam/gitpulse/core"
	"github.com/spf13/cobra"
)

// branchesCmd lists local branches.
var branchesCmd = &cobra.Command{
	Use:     "branches [repo-path]",
	Short:   "List local branches and mark the checked-out one",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("branches", core.ExecuteBranches),
}
