package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/mitchellh/go-homedir"
)

// Default values for configuration.
const (
	DefaultResultLimit = 15
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// WeightsRawInput holds optional score weight overrides from the YAML config file.
type WeightsRawInput struct {
	Churn       *float64 `mapstructure:"churn"`
	Commits     *float64 `mapstructure:"commits"`
	ActiveDays  *float64 `mapstructure:"active_days"`
	TinyPenalty *float64 `mapstructure:"tiny_penalty"`
}

// Config holds the runtime configuration for a scan and its projections.
// This struct is the "final, validated" config.
type Config struct {
	RepoPath string
	Scan     schema.ScanOptions
	Metrics  schema.MetricsConfig
	Filter   schema.RecordFilter
	Refresh  bool

	Metric schema.Metric
	Author string // heatmap target, key or label

	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	GitBackend schema.GitBackend
	GitTimeout time.Duration

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Branch           string `mapstructure:"branch"`
	AllBranches      bool   `mapstructure:"all-branches"`
	NoMerges         bool   `mapstructure:"no-merges"`
	Refresh          bool   `mapstructure:"refresh"`
	SmallThreshold   int    `mapstructure:"small-threshold"`
	TinyThreshold    int    `mapstructure:"tiny-threshold"`
	BigThreshold     int    `mapstructure:"big-threshold"`
	Authors          string `mapstructure:"authors"`
	Start            string `mapstructure:"start"`
	End              string `mapstructure:"end"`
	Months           int    `mapstructure:"months"`
	HideZeroFiles    bool   `mapstructure:"hide-zero-files"`
	Limit            int    `mapstructure:"limit"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	GitBackend       string `mapstructure:"git-backend"`
	GitTimeout       string `mapstructure:"git-timeout"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from weeklyCmd / heatmapCmd ---
	Metric string `mapstructure:"metric"`
	Author string `mapstructure:"author"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Filter.Authors = slices.Clone(c.Filter.Authors)
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. A nil client skips the work tree check.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processMetrics(cfg, input); err != nil {
		return err
	}
	if err := processFilter(cfg, input, time.Now()); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	repoPath, err := ResolveRepoPath(ctx, client, input.RepoPathStr)
	if err != nil {
		return err
	}
	cfg.RepoPath = repoPath
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseDatabaseBackend normalizes and validates a backend name. Empty means sqlite.
func ParseDatabaseBackend(s string) (schema.DatabaseBackend, error) {
	if s == "" {
		return schema.SQLiteBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(s))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	var err error
	if cfg.CacheBackend, err = ParseDatabaseBackend(input.CacheBackend); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	if cfg.HistoryBackend, err = ParseDatabaseBackend(input.HistoryBackend); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if cachePath == historyPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates presentation and git settings.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Refresh = input.Refresh
	cfg.Author = strings.TrimSpace(input.Author)
	cfg.Scan = schema.ScanOptions{
		IncludeMerges: !input.NoMerges,
		Branch:        strings.TrimSpace(input.Branch),
		AllBranches:   input.AllBranches,
	}
	if err := ValidateBranch(cfg.Scan.Branch); err != nil {
		return err
	}

	colors := true
	if input.Color != "" {
		var err error
		if colors, err = ParseBoolString(input.Color); err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.Metric = schema.MetricCommits
	if input.Metric != "" {
		m, err := schema.ParseMetric(input.Metric)
		if err != nil {
			return err
		}
		cfg.Metric = m
	}

	cfg.GitBackend = schema.GitBackend(strings.ToLower(input.GitBackend))
	if cfg.GitBackend == "" {
		cfg.GitBackend = schema.CLIGitBackend
	}
	if _, ok := schema.ValidGitBackends[cfg.GitBackend]; !ok {
		return fmt.Errorf("invalid git backend '%s'. must be cli, gogit", input.GitBackend)
	}

	cfg.GitTimeout = DefaultGitTimeout
	if input.GitTimeout != "" {
		d, err := ParseLookbackDuration(input.GitTimeout)
		if err != nil {
			return fmt.Errorf("invalid --git-timeout: %w", err)
		}
		cfg.GitTimeout = d
	}
	return nil
}

// processMetrics builds thresholds and score weights from defaults plus overrides.
func processMetrics(cfg *Config, input *ConfigRawInput) error {
	metrics := schema.DefaultMetricsConfig()
	metrics.Thresholds = schema.Thresholds{
		Small: input.SmallThreshold,
		Tiny:  input.TinyThreshold,
		Big:   input.BigThreshold,
	}
	if metrics.Thresholds.Small < 0 || metrics.Thresholds.Tiny < 0 {
		return fmt.Errorf("small and tiny thresholds cannot be negative")
	}
	if metrics.Thresholds.Big <= 0 {
		return fmt.Errorf("big threshold must be greater than 0 (received %d)", metrics.Thresholds.Big)
	}

	overrides := []struct {
		name  string
		value *float64
		dst   *float64
	}{
		{"churn", input.Weights.Churn, &metrics.Weights.Churn},
		{"commits", input.Weights.Commits, &metrics.Weights.Commits},
		{"active_days", input.Weights.ActiveDays, &metrics.Weights.ActiveDays},
		{"tiny_penalty", input.Weights.TinyPenalty, &metrics.Weights.TinyPenalty},
	}
	for _, o := range overrides {
		if o.value == nil {
			continue
		}
		if *o.value < 0 {
			return fmt.Errorf("weight %s cannot be negative (received %.3f)", o.name, *o.value)
		}
		*o.dst = *o.value
	}

	cfg.Metrics = metrics
	return nil
}

// processFilter handles author selection and the time window.
func processFilter(cfg *Config, input *ConfigRawInput, now time.Time) error {
	filter := schema.RecordFilter{
		Months:        input.Months,
		HideZeroFiles: input.HideZeroFiles,
	}
	for part := range strings.SplitSeq(input.Authors, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			filter.Authors = append(filter.Authors, trimmed)
		}
	}

	if input.Months < 0 {
		return fmt.Errorf("months cannot be negative (received %d)", input.Months)
	}
	if input.Months > 0 && (input.Start != "" || input.End != "") {
		return fmt.Errorf("--months cannot be combined with --start or --end")
	}

	var err error
	if filter.Start, err = ParseTimeBound(input.Start, now); err != nil {
		return fmt.Errorf("invalid start: %w", err)
	}
	if filter.End, err = ParseTimeBound(input.End, now); err != nil {
		return fmt.Errorf("invalid end: %w", err)
	}
	if !filter.Start.IsZero() && !filter.End.IsZero() && filter.Start.After(filter.End) {
		return fmt.Errorf("start time (%s) cannot be after end time (%s)",
			filter.Start.Format(time.RFC3339), filter.End.Format(time.RFC3339))
	}

	cfg.Filter = filter
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ResolveRepoPath expands "~", makes the path absolute and checks it is a git work tree.
// An empty path means the current directory.
func ResolveRepoPath(ctx context.Context, client GitClient, path string) (string, error) {
	if path == "" {
		path = "."
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", &RepositoryError{Path: path, Op: "resolve", Err: err}
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", &RepositoryError{Path: path, Op: "resolve", Err: err}
	}
	abs = filepath.Clean(abs)

	info, err := os.Stat(abs)
	if err != nil {
		return "", &RepositoryError{Path: abs, Op: "resolve", Detail: "path does not exist", Err: err}
	}
	if !info.IsDir() {
		return "", &RepositoryError{Path: abs, Op: "resolve", Detail: "path is not a directory"}
	}

	if client != nil {
		ok, _ := client.IsInsideWorkTree(ctx, abs)
		if !ok {
			return "", &RepositoryError{Path: abs, Op: "resolve", Detail: "not a git repository"}
		}
	}
	return abs, nil
}
