package schema

import (
	"fmt"
	"strings"
)

// Custom string types for type safety.
type (
	// Metric names a numeric commit field used by series and heatmaps.
	Metric string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string

	// GitBackend selects how commit history is read.
	GitBackend string
)

// All metrics supported.
const (
	MetricCommits     Metric = "commits" // default
	MetricChurn       Metric = "churn"
	MetricNet         Metric = "net"
	MetricAdded       Metric = "added"
	MetricDeleted     Metric = "deleted"
	MetricFiles       Metric = "files"
	MetricBinaryFiles Metric = "binary_files"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All git backends supported.
const (
	CLIGitBackend   GitBackend = "cli" // default
	GoGitGitBackend GitBackend = "gogit"
)

// AllMetrics lists metrics in display order.
var AllMetrics = []Metric{MetricCommits, MetricChurn, MetricNet, MetricAdded, MetricDeleted, MetricFiles, MetricBinaryFiles}

// ValidMetrics lists all valid metrics.
var ValidMetrics = map[Metric]struct{}{
	MetricCommits:     {},
	MetricChurn:       {},
	MetricNet:         {},
	MetricAdded:       {},
	MetricDeleted:     {},
	MetricFiles:       {},
	MetricBinaryFiles: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidGitBackends lists all valid git backends.
var ValidGitBackends = map[GitBackend]struct{}{
	CLIGitBackend:   {},
	GoGitGitBackend: {},
}

// ParseMetric normalizes and validates a metric name.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ValidMetrics[m]; !ok {
		return "", fmt.Errorf("invalid metric '%s'. must be commits, churn, net, added, deleted, files, binary_files", s)
	}
	return m, nil
}

// Value extracts the metric from a derived commit. Commits count 1 each.
func (m Metric) Value(d DerivedCommit) int {
	switch m {
	case MetricCommits:
		return 1
	case MetricChurn:
		return d.Churn()
	case MetricNet:
		return d.Net()
	case MetricAdded:
		return d.Added
	case MetricDeleted:
		return d.Deleted
	case MetricFiles:
		return d.Files
	case MetricBinaryFiles:
		return d.BinaryFiles
	default:
		return 0
	}
}
