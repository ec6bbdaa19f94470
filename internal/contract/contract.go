// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/gitpulse/schema"
)

// GitClient defines the repository operations needed to scan commit history.
// This allows the core logic to be tested without needing a real git executable.
type GitClient interface {
	// GetCommitLog returns the marker-framed commit log with numstat lines.
	GetCommitLog(ctx context.Context, repoPath string, opts schema.ScanOptions) ([]byte, error)

	// IsInsideWorkTree reports whether the path is inside a git work tree.
	IsInsideWorkTree(ctx context.Context, path string) (bool, error)

	// ListBranches returns local branch short names.
	ListBranches(ctx context.Context, repoPath string) ([]string, error)

	// GetCurrentBranch returns the checked out branch, or "HEAD" when detached.
	GetCurrentBranch(ctx context.Context, repoPath string) (string, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetActivityStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking scan runs and author scores.
type HistoryStore interface {
	// BeginScan creates a new scan run and returns its unique ID
	BeginScan(repoPath, branch string, startTime time.Time, configParams map[string]any) (string, error)

	// EndScan updates the scan run with completion data
	EndScan(runID string, endTime time.Time, totalCommits int) error

	// RecordAuthorScores stores the leaderboard computed for a scan run
	RecordAuthorScores(runID string, recordedAt time.Time, rows []schema.LeaderboardRow) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllScanRuns retrieves all scan runs
	GetAllScanRuns() ([]schema.ScanRunRecord, error)

	// GetAllAuthorScores retrieves all recorded author scores
	GetAllAuthorScores() ([]schema.AuthorScoreRecord, error)

	// Close closes the underlying connection
	Close() error
}
