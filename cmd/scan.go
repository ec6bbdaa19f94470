package cmd

import (
	"github.com/huangsam/gitpulse/core"
	"github.com/spf13/cobra"
)

// scanCmd reads history and refreshes the cache.
var scanCmd = &cobra.Command{
	Use:   "scan [repo-path]",
	Short: "Read commit history and refresh the scan cache",
	Long: `Read the commit history of a repository, derive per-commit fields and
store the result in the scan cache.

Later commands reuse the cached scan until --refresh is passed or the scan
options change. Each scan is also recorded in the scan history backend.

Examples:
  # Scan the current branch
  gitpulse scan

  # Scan every branch without merge commits
  gitpulse scan --all-branches --no-merges /path/to/repo`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("scan", core.ExecuteScan),
}
