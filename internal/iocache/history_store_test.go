package iocache

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryHistory(t *testing.T) *HistoryStoreImpl {
	t.Helper()
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*HistoryStoreImpl)
}

func sampleRows() []schema.LeaderboardRow {
	return []schema.LeaderboardRow{
		{Author: "a@x.com", AuthorKey: "email:a@x.com", Commits: 4, Churn: 120, Net: 80, ActiveDays: 3, Score: 4.5},
		{Author: "b@y.com", AuthorKey: "email:b@y.com", Commits: 1, Churn: 2, Net: -2, ActiveDays: 1, Score: 0.7},
	}
}

func TestHistoryStoreNoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginScan("/repo", "HEAD", time.Now(), map[string]any{"k": "v"})
	assert.NoError(t, err)
	assert.Empty(t, runID)
	assert.NoError(t, store.EndScan("x", time.Now(), 10))
	assert.NoError(t, store.RecordAuthorScores("x", time.Now(), sampleRows()))

	runs, err := store.GetAllScanRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestHistoryStoreLifecycle(t *testing.T) {
	store := newMemoryHistory(t)
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(1500 * time.Millisecond)

	runID, err := store.BeginScan("/repo", "--all", start, map[string]any{"branch": "--all", "merges": true})
	require.NoError(t, err)
	_, err = uuid.Parse(runID)
	require.NoError(t, err, "run id should be a uuid")

	require.NoError(t, store.RecordAuthorScores(runID, end, sampleRows()))
	require.NoError(t, store.EndScan(runID, end, 5))

	runs, err := store.GetAllScanRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, "/repo", run.RepoPath)
	assert.Equal(t, "--all", run.Branch)
	assert.True(t, start.Equal(run.StartTime))
	require.NotNil(t, run.EndTime)
	assert.True(t, end.Equal(*run.EndTime))
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(1500), *run.RunDurationMs)
	assert.Equal(t, int32(5), run.TotalCommits)
	require.NotNil(t, run.ConfigParams)

	var config map[string]any
	require.NoError(t, json.Unmarshal([]byte(*run.ConfigParams), &config))
	assert.Equal(t, true, config["merges"])

	scores, err := store.GetAllAuthorScores()
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "email:a@x.com", scores[0].AuthorKey)
	assert.Equal(t, "a@x.com", scores[0].AuthorLabel)
	assert.Equal(t, int32(4), scores[0].Commits)
	assert.Equal(t, int64(120), scores[0].Churn)
	assert.Equal(t, int64(-2), scores[1].Net)
	assert.InDelta(t, 4.5, scores[0].Score, 1e-9)
	assert.True(t, end.Equal(scores[0].RecordedAt))
}

func TestHistoryStoreUnfinishedRun(t *testing.T) {
	store := newMemoryHistory(t)
	_, err := store.BeginScan("/repo", "HEAD", time.Now(), nil)
	require.NoError(t, err)

	runs, err := store.GetAllScanRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].EndTime)
	assert.Nil(t, runs[0].RunDurationMs)
	assert.Zero(t, runs[0].TotalCommits)
}

func TestHistoryStoreEndUnknownRun(t *testing.T) {
	store := newMemoryHistory(t)
	assert.Error(t, store.EndScan("missing", time.Now(), 1))
}

func TestHistoryStoreDuplicateScores(t *testing.T) {
	store := newMemoryHistory(t)
	runID, err := store.BeginScan("/repo", "HEAD", time.Now(), nil)
	require.NoError(t, err)

	require.NoError(t, store.RecordAuthorScores(runID, time.Now(), sampleRows()))
	assert.Error(t, store.RecordAuthorScores(runID, time.Now(), sampleRows()[:1]))

	scores, err := store.GetAllAuthorScores()
	require.NoError(t, err)
	assert.Len(t, scores, 2, "failed batch should roll back")
}

func TestHistoryStoreStatus(t *testing.T) {
	store := newMemoryHistory(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Zero(t, status.TotalRuns)
	assert.Equal(t, int64(0), status.TableSizes[scanRunsTable])

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var last string
	for i := range 3 {
		start := base.Add(time.Duration(i) * time.Hour)
		runID, err := store.BeginScan("/repo", "HEAD", start, nil)
		require.NoError(t, err)
		require.NoError(t, store.RecordAuthorScores(runID, start, sampleRows()))
		require.NoError(t, store.EndScan(runID, start.Add(time.Second), 10))
		last = runID
	}

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalRuns)
	assert.Equal(t, last, status.LastRunID)
	assert.True(t, base.Add(2*time.Hour).Equal(status.LastRunTime))
	assert.True(t, base.Equal(status.OldestRunTime))
	assert.Equal(t, int64(30), status.TotalCommitsScanned)
	assert.Equal(t, int64(3), status.TableSizes[scanRunsTable])
	assert.Equal(t, int64(6), status.TableSizes[authorScoresTable])
}

func TestMigrateHistory(t *testing.T) {
	assert.Error(t, MigrateHistory(io.Discard, schema.NoneBackend, "", -1))

	path := filepath.Join(t.TempDir(), "history.db")
	var out bytes.Buffer

	require.NoError(t, MigrateHistory(&out, schema.SQLiteBackend, path, -1))
	assert.Contains(t, out.String(), "to version 2")

	out.Reset()
	require.NoError(t, MigrateHistory(&out, schema.SQLiteBackend, path, -1))
	assert.Contains(t, out.String(), "No migration needed")

	require.NoError(t, MigrateHistory(io.Discard, schema.SQLiteBackend, path, 1))
	require.NoError(t, MigrateHistory(io.Discard, schema.SQLiteBackend, path, 0))
	require.NoError(t, MigrateHistory(io.Discard, schema.SQLiteBackend, path, 2))

	store, err := NewHistoryStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	_, err = store.BeginScan("/repo", "HEAD", time.Now(), nil)
	assert.NoError(t, err)
}

func TestMigrateHistoryAfterStoreCreatedTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := NewHistoryStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.NoError(t, MigrateHistory(io.Discard, schema.SQLiteBackend, path, -1))
}

func TestUpMigrationsOrdered(t *testing.T) {
	scripts, err := upMigrations()
	require.NoError(t, err)
	require.Len(t, scripts, 2)
	assert.Contains(t, scripts[0], scanRunsTable)
	assert.Contains(t, scripts[1], authorScoresTable)
}

func TestClearHistorySQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := NewHistoryStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearHistory(schema.SQLiteBackend, path, ""))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
