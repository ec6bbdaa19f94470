package schema

import "time"

// ScanRunRecord represents a row from the gitpulse_scan_runs table.
type ScanRunRecord struct {
	RunID         string
	RepoPath      string
	Branch        string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalCommits  int32
	ConfigParams  *string
}

// AuthorScoreRecord represents a row from the gitpulse_author_scores table.
type AuthorScoreRecord struct {
	RunID       string
	AuthorKey   string
	AuthorLabel string
	RecordedAt  time.Time
	Commits     int32
	Churn       int64
	Net         int64
	ActiveDays  int32
	Score       float64
}
