// Package parquet provides row types and writers for exporting gitpulse
// results and scan history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/parquet-go/parquet-go"
)

// LeaderboardRow is one ranked author.
type LeaderboardRow struct {
	Rank        int32     `parquet:"rank,snappy"`
	Label       string    `parquet:"label,snappy"`
	Author      string    `parquet:"author,snappy"`
	AuthorKey   string    `parquet:"author_key,snappy"`
	Commits     int32     `parquet:"commits,snappy"`
	Churn       int64     `parquet:"churn,snappy"`
	Net         int64     `parquet:"net,snappy"`
	Added       int64     `parquet:"added,snappy"`
	Deleted     int64     `parquet:"deleted,snappy"`
	Files       int64     `parquet:"files,snappy"`
	AvgChurn    float64   `parquet:"avg_churn,snappy"`
	MedianChurn float64   `parquet:"med_churn,snappy"`
	SmallRatio  float64   `parquet:"small_ratio,snappy"`
	TinyRatio   float64   `parquet:"tiny_ratio,snappy"`
	BigRatio    float64   `parquet:"big_ratio,snappy"`
	ActiveDays  int32     `parquet:"active_days,snappy"`
	FirstCommit time.Time `parquet:"first_commit,snappy"`
	LastCommit  time.Time `parquet:"last_commit,snappy"`
	Score       float64   `parquet:"score,snappy"`
}

// WeeklyPoint is one (week, author) aggregate.
type WeeklyPoint struct {
	WeekStart   time.Time `parquet:"week_start,snappy"`
	AuthorKey   string    `parquet:"author_key,snappy"`
	AuthorLabel string    `parquet:"author_label,snappy"`
	Value       int64     `parquet:"value,snappy"`
}

// HeatmapCell is one active day of a single author.
type HeatmapCell struct {
	Day       time.Time `parquet:"day,snappy"`
	Weekday   int32     `parquet:"weekday,snappy"`
	WeekIndex int32     `parquet:"week_index,snappy"`
	Value     int64     `parquet:"value,snappy"`
}

// CommitRow is one flattened commit.
type CommitRow struct {
	Date    time.Time `parquet:"date,snappy"`
	Author  string    `parquet:"author,snappy"`
	Churn   int64     `parquet:"churn,snappy"`
	Net     int64     `parquet:"net,snappy"`
	Files   int32     `parquet:"files,snappy"`
	Subject string    `parquet:"subject,snappy"`
	Hash    string    `parquet:"hash,snappy"`
}

// ScanRun maps to the gitpulse_scan_runs table.
type ScanRun struct {
	RunID         string     `parquet:"run_id,snappy"`
	RepoPath      string     `parquet:"repo_path,snappy"`
	Branch        string     `parquet:"branch,snappy"`
	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`
	TotalCommits  int32      `parquet:"total_commits,snappy"`
	ConfigParams  *string    `parquet:"config_params,optional,snappy"`
}

// AuthorScore maps to the gitpulse_author_scores table.
type AuthorScore struct {
	RunID       string    `parquet:"run_id,snappy"`
	AuthorKey   string    `parquet:"author_key,snappy"`
	AuthorLabel string    `parquet:"author_label,snappy"`
	RecordedAt  time.Time `parquet:"recorded_at,snappy"`
	Commits     int32     `parquet:"commits,snappy"`
	Churn       int64     `parquet:"churn,snappy"`
	Net         int64     `parquet:"net,snappy"`
	ActiveDays  int32     `parquet:"active_days,snappy"`
	Score       float64   `parquet:"score,snappy"`
}

// Write encodes rows to w, deriving the schema from the struct tags of T.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet data: %w", err)
	}
	return nil
}

// WriteFile creates outputPath and writes rows to it.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteScanRunsParquet writes scan runs to a Parquet file.
func WriteScanRunsParquet(data []ScanRun, outputPath string) error {
	return WriteFile(data, outputPath)
}

// WriteAuthorScoresParquet writes author score snapshots to a Parquet file.
func WriteAuthorScoresParquet(data []AuthorScore, outputPath string) error {
	return WriteFile(data, outputPath)
}

// ConvertLeaderboard converts ranked leaderboard rows for Parquet export.
func ConvertLeaderboard(rows []schema.EnrichedLeaderboardRow) []LeaderboardRow {
	result := make([]LeaderboardRow, len(rows))
	for i, r := range rows {
		result[i] = LeaderboardRow{
			Rank:        int32(r.Rank),
			Label:       r.Label,
			Author:      r.Author,
			AuthorKey:   r.AuthorKey,
			Commits:     int32(r.Commits),
			Churn:       int64(r.Churn),
			Net:         int64(r.Net),
			Added:       int64(r.Added),
			Deleted:     int64(r.Deleted),
			Files:       int64(r.Files),
			AvgChurn:    r.AvgChurn,
			MedianChurn: r.MedianChurn,
			SmallRatio:  r.SmallRatio,
			TinyRatio:   r.TinyRatio,
			BigRatio:    r.BigRatio,
			ActiveDays:  int32(r.ActiveDays),
			FirstCommit: r.FirstCommit,
			LastCommit:  r.LastCommit,
			Score:       r.Score,
		}
	}
	return result
}

// ConvertWeekly converts weekly series points for Parquet export.
func ConvertWeekly(points []schema.WeeklyPoint) []WeeklyPoint {
	result := make([]WeeklyPoint, len(points))
	for i, p := range points {
		result[i] = WeeklyPoint{WeekStart: p.WeekStart, AuthorKey: p.AuthorKey, AuthorLabel: p.AuthorLabel, Value: int64(p.Value)}
	}
	return result
}

// ConvertHeatmap converts heatmap cells for Parquet export.
func ConvertHeatmap(cells []schema.HeatmapCell) []HeatmapCell {
	result := make([]HeatmapCell, len(cells))
	for i, c := range cells {
		result[i] = HeatmapCell{Day: c.Day, Weekday: int32(c.Weekday), WeekIndex: int32(c.WeekIndex), Value: int64(c.Value)}
	}
	return result
}

// ConvertCommits converts commit rows for Parquet export.
func ConvertCommits(rows []schema.CommitRow) []CommitRow {
	result := make([]CommitRow, len(rows))
	for i, r := range rows {
		result[i] = CommitRow{
			Date:    r.Date,
			Author:  r.AuthorLabel,
			Churn:   int64(r.Churn),
			Net:     int64(r.Net),
			Files:   int32(r.Files),
			Subject: r.Subject,
			Hash:    r.Hash,
		}
	}
	return result
}

// ConvertScanRunRecords converts stored scan runs for Parquet export.
func ConvertScanRunRecords(records []schema.ScanRunRecord) []ScanRun {
	result := make([]ScanRun, len(records))
	for i, record := range records {
		result[i] = ScanRun{
			RunID:         record.RunID,
			RepoPath:      record.RepoPath,
			Branch:        record.Branch,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalCommits:  record.TotalCommits,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertAuthorScoreRecords converts stored author scores for Parquet export.
func ConvertAuthorScoreRecords(records []schema.AuthorScoreRecord) []AuthorScore {
	result := make([]AuthorScore, len(records))
	for i, record := range records {
		result[i] = AuthorScore{
			RunID:       record.RunID,
			AuthorKey:   record.AuthorKey,
			AuthorLabel: record.AuthorLabel,
			RecordedAt:  record.RecordedAt,
			Commits:     record.Commits,
			Churn:       record.Churn,
			Net:         record.Net,
			ActiveDays:  record.ActiveDays,
			Score:       record.Score,
		}
	}
	return result
}
