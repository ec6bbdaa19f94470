package contract

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// validInput returns raw input matching the CLI defaults.
func validInput(repo string) *ConfigRawInput {
	return &ConfigRawInput{
		RepoPathStr:    repo,
		Limit:          DefaultResultLimit,
		Precision:      DefaultPrecision,
		Output:         "text",
		SmallThreshold: schema.DefaultSmallThreshold,
		TinyThreshold:  schema.DefaultTinyThreshold,
		BigThreshold:   schema.DefaultBigThreshold,
		GitBackend:     "cli",
		GitTimeout:     "5m",
		CacheBackend:   "none",
		HistoryBackend: "none",
	}
}

func TestProcessAndValidate(t *testing.T) {
	dir := t.TempDir()
	weight := 0.7

	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		insideRepo  bool
		expectError bool
		check       func(*testing.T, *Config)
	}{
		{
			name:       "valid minimal config",
			mutate:     func(*ConfigRawInput) {},
			insideRepo: true,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, dir, cfg.RepoPath)
				assert.Equal(t, schema.DefaultMetricsConfig(), cfg.Metrics)
				assert.True(t, cfg.Scan.IncludeMerges)
				assert.Equal(t, schema.MetricCommits, cfg.Metric)
				assert.Equal(t, 5*time.Minute, cfg.GitTimeout)
				assert.True(t, cfg.UseColors)
			},
		},
		{
			name: "scan options and filters",
			mutate: func(in *ConfigRawInput) {
				in.Branch = " dev "
				in.NoMerges = true
				in.Authors = "a@x.com, ,b@y.com"
				in.Start = "2024-01-01"
				in.End = "2024-02-01"
				in.HideZeroFiles = true
				in.Metric = "Churn"
				in.Weights.Churn = &weight
			},
			insideRepo: true,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.ScanOptions{Branch: "dev"}, cfg.Scan)
				assert.Equal(t, []string{"a@x.com", "b@y.com"}, cfg.Filter.Authors)
				assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cfg.Filter.Start)
				assert.True(t, cfg.Filter.HideZeroFiles)
				assert.Equal(t, schema.MetricChurn, cfg.Metric)
				assert.InDelta(t, 0.7, cfg.Metrics.Weights.Churn, 1e-9)
				assert.InDelta(t, schema.DefaultCommitsWeight, cfg.Metrics.Weights.Commits, 1e-9)
			},
		},
		{name: "option-like branch", mutate: func(in *ConfigRawInput) { in.Branch = "--output=x" }, expectError: true},
		{name: "limit too low", mutate: func(in *ConfigRawInput) { in.Limit = 0 }, expectError: true},
		{name: "limit too high", mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, expectError: true},
		{name: "bad precision", mutate: func(in *ConfigRawInput) { in.Precision = 3 }, expectError: true},
		{name: "bad output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "parquet needs file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "bad metric", mutate: func(in *ConfigRawInput) { in.Metric = "lines" }, expectError: true},
		{name: "bad git backend", mutate: func(in *ConfigRawInput) { in.GitBackend = "svn" }, expectError: true},
		{name: "bad git timeout", mutate: func(in *ConfigRawInput) { in.GitTimeout = "soon" }, expectError: true},
		{name: "bad color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "negative small threshold", mutate: func(in *ConfigRawInput) { in.SmallThreshold = -1 }, expectError: true},
		{name: "zero big threshold", mutate: func(in *ConfigRawInput) { in.BigThreshold = 0 }, expectError: true},
		{name: "negative weight", mutate: func(in *ConfigRawInput) { w := -0.1; in.Weights.TinyPenalty = &w }, expectError: true},
		{name: "months with start", mutate: func(in *ConfigRawInput) { in.Months = 3; in.Start = "2024-01-01" }, expectError: true},
		{name: "negative months", mutate: func(in *ConfigRawInput) { in.Months = -1 }, expectError: true},
		{name: "start after end", mutate: func(in *ConfigRawInput) { in.Start = "2024-03-01"; in.End = "2024-01-01" }, expectError: true},
		{name: "bad start", mutate: func(in *ConfigRawInput) { in.Start = "yesterday-ish" }, expectError: true},
		{name: "bad cache backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: true},
		{name: "mysql without dsn", mutate: func(in *ConfigRawInput) { in.HistoryBackend = "mysql" }, expectError: true},
		{name: "not a repository", mutate: func(*ConfigRawInput) {}, insideRepo: false, expectError: true},
		{name: "missing path", mutate: func(in *ConfigRawInput) { in.RepoPathStr = filepath.Join(dir, "missing") }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockGitClient)
			client.On("IsInsideWorkTree", mock.Anything, dir).Return(tt.insideRepo, nil).Maybe()

			input := validInput(dir)
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(context.Background(), cfg, client, input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestProcessAndValidateNotRepositoryIsTyped(t *testing.T) {
	dir := t.TempDir()
	client := new(MockGitClient)
	client.On("IsInsideWorkTree", mock.Anything, dir).Return(false, nil)

	err := ProcessAndValidate(context.Background(), &Config{}, client, validInput(dir))
	require.Error(t, err)
	assert.True(t, IsRepositoryError(err))
}

func TestProcessAndValidateNilClient(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(context.Background(), cfg, nil, validInput(dir)))
	assert.Equal(t, dir, cfg.RepoPath)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{schema.SQLiteBackend, "", false},
		{schema.NoneBackend, "", false},
		{schema.MySQLBackend, "user:pass@tcp(localhost:3306)/db", false},
		{schema.MySQLBackend, "", true},
		{schema.MySQLBackend, "user:pass@localhost/db", true},
		{schema.PostgreSQLBackend, "host=localhost dbname=pulse", false},
		{schema.PostgreSQLBackend, "dbname=pulse", true},
		{schema.PostgreSQLBackend, "host=localhost", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend)+"/"+tt.conn, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBackendConfigsSameSQLiteFile(t *testing.T) {
	in := validInput(".")
	in.CacheBackend = "sqlite"
	in.HistoryBackend = "sqlite"
	in.CacheDBConnect = "/tmp/same.db"
	in.HistoryDBConnect = "/tmp/same.db"
	assert.Error(t, validateBackendConfigs(&Config{}, in))

	in.HistoryDBConnect = "/tmp/other.db"
	assert.NoError(t, validateBackendConfigs(&Config{}, in))
}

func TestParseDatabaseBackend(t *testing.T) {
	b, err := ParseDatabaseBackend("")
	require.NoError(t, err)
	assert.Equal(t, schema.SQLiteBackend, b)

	b, err = ParseDatabaseBackend("PostgreSQL")
	require.NoError(t, err)
	assert.Equal(t, schema.PostgreSQLBackend, b)

	_, err = ParseDatabaseBackend("oracle")
	assert.Error(t, err)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Filter: schema.RecordFilter{Authors: []string{"a"}}}
	clone := cfg.Clone()
	clone.Filter.Authors[0] = "b"
	assert.Equal(t, "a", cfg.Filter.Authors[0])
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, "pulse"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "pulse", profile.Prefix)
}
