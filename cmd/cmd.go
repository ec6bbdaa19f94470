// Package cmd defines the command-line interface for gitpulse.
package cmd

import (
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(weeklyCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(commitsCmd)
	rootCmd.AddCommand(branchesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	flags := rootCmd.PersistentFlags()
	flags.String("branch", "", "Branch to scan (default: the checked-out HEAD)")
	flags.Bool("all-branches", false, "Scan commits reachable from every ref")
	flags.Bool("no-merges", false, "Exclude merge commits from the scan")
	flags.Bool("refresh", false, "Ignore the cached scan and read history again")
	flags.Int("small-threshold", schema.DefaultSmallThreshold, "Churn at or below which a commit counts as small")
	flags.Int("tiny-threshold", schema.DefaultTinyThreshold, "Churn at or below which a commit counts as tiny")
	flags.Int("big-threshold", schema.DefaultBigThreshold, "Churn at or above which a commit counts as big")
	flags.String("authors", "", "Comma-separated list of author keys or emails to keep")
	flags.String("start", "", "Start date in ISO8601 or time ago")
	flags.String("end", "", "End date in ISO8601 or time ago")
	flags.Int("months", 0, "Only keep the last N months, anchored at the newest commit")
	flags.Bool("hide-zero-files", false, "Drop commits that touched no files")
	flags.IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	flags.Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	flags.String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	flags.String("output-file", "", "Optional path to write output to")
	flags.Int("width", 0, "Terminal width override (0 = auto-detect)")
	flags.String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	flags.String("git-backend", string(schema.CLIGitBackend), "Git backend: cli or gogit")
	flags.String("git-timeout", "5 minutes", "Maximum time for a single history read")
	flags.String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	flags.String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	flags.String("history-backend", string(schema.SQLiteBackend), "Scan history backend: sqlite or mysql or postgresql or none")
	flags.String("history-db-connect", "", "Database connection string for scan history (must differ from cache-db-connect)")
	flags.String("metric", string(schema.MetricCommits), "Metric for weekly and heatmap: commits, churn, net, added, deleted, files, binary_files")
	flags.String("profile", "", "Enable profiling and write profiles to files with this prefix")
	flags.String("config", "", "Path to config file")
	if err := viper.BindPFlags(flags); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of heatmapCmd to Viper
	heatmapCmd.Flags().String("author", "", "Author key or email to plot (default: the top-ranked author)")
	if err := viper.BindPFlags(heatmapCmd.Flags()); err != nil {
		contract.LogFatal("Error binding heatmap flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
