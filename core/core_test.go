package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/gogit"
	"github.com/huangsam/gitpulse/internal/iocache"
	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const repoPath = "/repo"

func header(hash, name, email, date, subject string) string {
	return contract.RecordMarker + strings.Join([]string{hash, name, email, date, subject}, contract.FieldSeparator)
}

// sampleLog has two authors over three days; b@y.com lands one big commit.
func sampleLog() []byte {
	return []byte(strings.Join([]string{
		header("c1", "Alice", "a@x.com", "2024-01-01T10:00:00+00:00", "first") + "\n\n10\t3\tmain.go",
		header("c2", "Alice", "A@X.com", "2024-01-02T10:00:00+00:00", "tweak") + "\n\n1\t1\tmain.go",
		header("c3", "Bob", "b@y.com", "2024-01-03T10:00:00+00:00", "import") + "\n\n300\t0\tvendor.go\n-\t-\tlogo.png",
	}, "\n"))
}

func newClient(log []byte) *contract.MockGitClient {
	client := &contract.MockGitClient{}
	client.On("IsInsideWorkTree", mock.Anything, repoPath).Return(true, nil)
	client.On("GetCommitLog", mock.Anything, repoPath, mock.Anything).Return(log, nil)
	return client
}

func newConfig() *contract.Config {
	return &contract.Config{
		RepoPath:    repoPath,
		Metrics:     schema.DefaultMetricsConfig(),
		Metric:      schema.MetricCommits,
		ResultLimit: contract.DefaultResultLimit,
	}
}

func quietCtx() context.Context {
	return WithSuppressHeader(context.Background())
}

// sqliteManager serves a real in-memory cache store and no history.
func sqliteManager(t *testing.T) *iocache.MockCacheManager {
	t.Helper()
	store, err := iocache.NewCacheStore("core_test_cache", schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetActivityStore").Return(store)
	mgr.On("GetHistoryStore").Return(nil)
	return mgr
}

func TestCacheKey(t *testing.T) {
	key := CacheKey("/repo", schema.ScanOptions{})
	assert.Len(t, key, 16)
	assert.Equal(t, key, CacheKey("/repo", schema.ScanOptions{Branch: "HEAD"}))
	assert.Equal(t, key, CacheKey("/repo", schema.ScanOptions{IncludeMerges: true}))
	assert.NotEqual(t, key, CacheKey("/repo", schema.ScanOptions{Branch: "main"}))
	assert.NotEqual(t, key, CacheKey("/repo", schema.ScanOptions{AllBranches: true}))
	assert.NotEqual(t, key, CacheKey("/other", schema.ScanOptions{}))
	assert.Regexp(t, "^[0-9a-f]{16}$", key)
}

func TestLoadOrScanWithoutCache(t *testing.T) {
	client := newClient(sampleLog())
	derived, fromCache, err := LoadOrScan(quietCtx(), newConfig(), client, nil)
	require.NoError(t, err)
	assert.False(t, fromCache)
	require.Len(t, derived, 3)
	assert.Equal(t, "email:a@x.com", derived[1].AuthorKey)
	assert.Equal(t, 1, derived[2].BinaryFiles)
}

func TestLoadOrScanServesCache(t *testing.T) {
	mgr := sqliteManager(t)
	client := newClient(sampleLog())
	cfg := newConfig()

	first, fromCache, err := LoadOrScan(quietCtx(), cfg, client, mgr)
	require.NoError(t, err)
	assert.False(t, fromCache)

	second, fromCache, err := LoadOrScan(quietCtx(), cfg, client, mgr)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, first, second)
	client.AssertNumberOfCalls(t, "GetCommitLog", 1)
}

func TestLoadOrScanRederivesCachedData(t *testing.T) {
	mgr := sqliteManager(t)
	client := newClient(sampleLog())
	cfg := newConfig()

	_, _, err := LoadOrScan(quietCtx(), cfg, client, mgr)
	require.NoError(t, err)

	cfg.Metrics.Thresholds.Tiny = 20
	derived, fromCache, err := LoadOrScan(quietCtx(), cfg, client, mgr)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.True(t, derived[0].IsTiny)
	assert.True(t, derived[1].IsTiny)
	assert.False(t, derived[2].IsTiny)
}

func TestLoadOrScanRefreshAndOptionMismatch(t *testing.T) {
	mgr := sqliteManager(t)
	client := newClient(sampleLog())
	cfg := newConfig()

	_, _, err := LoadOrScan(quietCtx(), cfg, client, mgr)
	require.NoError(t, err)

	refresh := cfg.Clone()
	refresh.Refresh = true
	_, fromCache, err := LoadOrScan(quietCtx(), refresh, client, mgr)
	require.NoError(t, err)
	assert.False(t, fromCache)

	merges := cfg.Clone()
	merges.Scan.IncludeMerges = true
	_, fromCache, err = LoadOrScan(quietCtx(), merges, client, mgr)
	require.NoError(t, err)
	assert.False(t, fromCache)

	client.AssertNumberOfCalls(t, "GetCommitLog", 3)
}

func TestLoadOrScanTreatsBadEntriesAsMiss(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		version int
		err     error
	}{
		{"corrupt payload", []byte("not json"), currentCacheVersion, nil},
		{"old version", []byte(`{"options":{},"commits":[]}`), currentCacheVersion + 1, nil},
		{"read error", nil, 0, errors.New("disk on fire")},
		{"missing commits", []byte(`{"options":{}}`), currentCacheVersion, nil},
		{"empty commits", []byte(`{"options":{},"commits":[]}`), currentCacheVersion, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &iocache.MockCacheStore{}
			store.On("Get", mock.Anything).Return(tt.data, tt.version, int64(0), tt.err)
			store.On("Set", mock.Anything, mock.Anything, currentCacheVersion, mock.Anything).Return(nil)
			mgr := &iocache.MockCacheManager{}
			mgr.On("GetActivityStore").Return(store)
			mgr.On("GetHistoryStore").Return(nil)

			derived, fromCache, err := LoadOrScan(quietCtx(), newConfig(), newClient(sampleLog()), mgr)
			require.NoError(t, err)
			assert.False(t, fromCache)
			assert.Len(t, derived, 3)
			store.AssertCalled(t, "Set", CacheKey(repoPath, schema.ScanOptions{}), mock.Anything, currentCacheVersion, mock.Anything)
		})
	}
}

func TestScanAndCacheWriteFailureIsNotFatal(t *testing.T) {
	store := &iocache.MockCacheStore{}
	store.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("read-only"))
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetActivityStore").Return(store)
	mgr.On("GetHistoryStore").Return(nil)

	derived, err := ScanAndCache(quietCtx(), newConfig(), newClient(sampleLog()), mgr)
	require.NoError(t, err)
	assert.Len(t, derived, 3)
}

func TestScanAndCacheRecordsHistory(t *testing.T) {
	history := &iocache.MockHistoryStore{}
	history.On("BeginScan", repoPath, "HEAD", mock.Anything, mock.Anything).Return("run-1", nil)
	history.On("RecordAuthorScores", "run-1", mock.Anything, mock.MatchedBy(func(rows []schema.LeaderboardRow) bool {
		return len(rows) == 2 && rows[0].AuthorKey == "email:b@y.com"
	})).Return(nil)
	history.On("EndScan", "run-1", mock.Anything, 3).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetActivityStore").Return(nil)
	mgr.On("GetHistoryStore").Return(history)

	_, err := ScanAndCache(quietCtx(), newConfig(), newClient(sampleLog()), mgr)
	require.NoError(t, err)
	history.AssertExpectations(t)
}

func TestScanAndCacheSkipsHistoryWithoutRun(t *testing.T) {
	history := &iocache.MockHistoryStore{}
	history.On("BeginScan", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("locked"))

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetActivityStore").Return(nil)
	mgr.On("GetHistoryStore").Return(history)

	_, err := ScanAndCache(quietCtx(), newConfig(), newClient(sampleLog()), mgr)
	require.NoError(t, err)
	history.AssertNotCalled(t, "RecordAuthorScores", mock.Anything, mock.Anything, mock.Anything)
	history.AssertNotCalled(t, "EndScan", mock.Anything, mock.Anything, mock.Anything)
}

func TestScanAndCacheRepositoryError(t *testing.T) {
	client := &contract.MockGitClient{}
	client.On("IsInsideWorkTree", mock.Anything, repoPath).Return(false, nil)

	_, err := ScanAndCache(quietCtx(), newConfig(), client, nil)
	require.Error(t, err)
	assert.True(t, contract.IsRepositoryError(err))
	client.AssertNotCalled(t, "GetCommitLog", mock.Anything, mock.Anything, mock.Anything)
}

func TestScanParams(t *testing.T) {
	cfg := newConfig()
	cfg.Scan = schema.ScanOptions{Branch: "dev", IncludeMerges: true}
	cfg.GitBackend = schema.GoGitGitBackend
	params := scanParams(cfg)
	assert.Equal(t, "dev", params["branch"])
	assert.Equal(t, true, params["include_merges"])
	assert.Equal(t, schema.DefaultBigThreshold, params["big_threshold"])
	assert.Equal(t, "gogit", params["git_backend"])
}

func TestNewGitClient(t *testing.T) {
	assert.IsType(t, &contract.LocalGitClient{}, NewGitClient(schema.CLIGitBackend, 0))
	assert.IsType(t, &gogit.Client{}, NewGitClient(schema.GoGitGitBackend, 0))
	assert.IsType(t, &contract.LocalGitClient{}, NewGitClient("", 0))
}
