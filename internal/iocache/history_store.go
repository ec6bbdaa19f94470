package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// Table names for scan history.
const (
	scanRunsTable     = "gitpulse_scan_runs"
	authorScoresTable = "gitpulse_author_scores"
)

// HistoryStoreImpl implements the HistoryStore interface.
// Timestamps are stored as unix milliseconds so every backend shares one schema.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := createHistoryTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

func (hs *HistoryStoreImpl) table(name string) string {
	return quoteTableName(name, hs.backend)
}

// BeginScan creates a new scan run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginScan(repoPath, branch string, startTime time.Time, configParams map[string]any) (string, error) {
	if hs.db == nil {
		return "", nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config params: %w", err)
	}

	runID := uuid.NewString()
	query := fmt.Sprintf(`INSERT INTO %s (run_id, repo_path, branch, start_time_ms, total_commits, config_params) VALUES (%s)`,
		hs.table(scanRunsTable), placeholders(hs.backend, 6))
	if _, err := hs.db.Exec(query, runID, repoPath, branch, startTime.UnixMilli(), 0, string(configJSON)); err != nil {
		return "", fmt.Errorf("failed to insert scan run: %w", err)
	}
	return runID, nil
}

// EndScan updates the scan run with completion data.
func (hs *HistoryStoreImpl) EndScan(runID string, endTime time.Time, totalCommits int) error {
	if hs.db == nil {
		return nil
	}

	var startMs int64
	query := fmt.Sprintf(`SELECT start_time_ms FROM %s WHERE run_id = %s`, hs.table(scanRunsTable), placeholder(hs.backend, 1))
	if err := hs.db.QueryRow(query, runID).Scan(&startMs); err != nil {
		return fmt.Errorf("failed to get start time for scan %s: %w", runID, err)
	}

	endMs := endTime.UnixMilli()
	update := fmt.Sprintf(`UPDATE %s SET end_time_ms = %s, run_duration_ms = %s, total_commits = %s WHERE run_id = %s`,
		hs.table(scanRunsTable),
		placeholder(hs.backend, 1), placeholder(hs.backend, 2), placeholder(hs.backend, 3), placeholder(hs.backend, 4))
	if _, err := hs.db.Exec(update, endMs, endMs-startMs, totalCommits, runID); err != nil {
		return fmt.Errorf("failed to update scan run: %w", err)
	}
	return nil
}

// RecordAuthorScores stores one leaderboard snapshot row per author in a single transaction.
func (hs *HistoryStoreImpl) RecordAuthorScores(runID string, recordedAt time.Time, rows []schema.LeaderboardRow) error {
	if hs.db == nil || len(rows) == 0 {
		return nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`INSERT INTO %s (run_id, author_key, author_label, recorded_at_ms, commits, churn, net, active_days, score)
		VALUES (%s)`, hs.table(authorScoresTable), placeholders(hs.backend, 9))
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare author score insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	at := recordedAt.UnixMilli()
	for _, row := range rows {
		if _, err := stmt.Exec(runID, row.AuthorKey, row.Author, at, row.Commits, row.Churn, row.Net, row.ActiveDays, row.Score); err != nil {
			return fmt.Errorf("failed to insert score for %s: %w", row.AuthorKey, err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.db == nil {
		return status, nil
	}

	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", hs.table(scanRunsTable))).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastMs, oldestMs int64
		query := fmt.Sprintf("SELECT run_id, start_time_ms FROM %s ORDER BY start_time_ms DESC, run_id DESC LIMIT 1", hs.table(scanRunsTable))
		if err := hs.db.QueryRow(query).Scan(&status.LastRunID, &lastMs); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		query = fmt.Sprintf("SELECT MIN(start_time_ms), COALESCE(SUM(total_commits), 0) FROM %s", hs.table(scanRunsTable))
		if err := hs.db.QueryRow(query).Scan(&oldestMs, &status.TotalCommitsScanned); err != nil {
			return status, fmt.Errorf("failed to get run totals: %w", err)
		}
		status.LastRunTime = time.UnixMilli(lastMs)
		status.OldestRunTime = time.UnixMilli(oldestMs)
	}

	for _, table := range []string{scanRunsTable, authorScoresTable} {
		var count int64
		if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", hs.table(table))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// GetAllScanRuns retrieves all scan runs ordered by start time.
func (hs *HistoryStoreImpl) GetAllScanRuns() ([]schema.ScanRunRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, repo_path, branch, start_time_ms, end_time_ms, run_duration_ms, total_commits, config_params
		FROM %s ORDER BY start_time_ms, run_id`, hs.table(scanRunsTable))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ScanRunRecord
	for rows.Next() {
		var (
			record   schema.ScanRunRecord
			startMs  int64
			endMs    sql.NullInt64
			duration sql.NullInt64
			config   sql.NullString
		)
		if err := rows.Scan(&record.RunID, &record.RepoPath, &record.Branch, &startMs, &endMs, &duration, &record.TotalCommits, &config); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		record.StartTime = time.UnixMilli(startMs)
		if endMs.Valid {
			end := time.UnixMilli(endMs.Int64)
			record.EndTime = &end
		}
		if duration.Valid {
			ms := int32(duration.Int64)
			record.RunDurationMs = &ms
		}
		if config.Valid {
			record.ConfigParams = &config.String
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scan runs: %w", err)
	}
	return results, nil
}

// GetAllAuthorScores retrieves all recorded author scores.
func (hs *HistoryStoreImpl) GetAllAuthorScores() ([]schema.AuthorScoreRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, author_key, author_label, recorded_at_ms, commits, churn, net, active_days, score
		FROM %s ORDER BY recorded_at_ms, run_id, author_key`, hs.table(authorScoresTable))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query author scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AuthorScoreRecord
	for rows.Next() {
		var record schema.AuthorScoreRecord
		var recordedMs int64
		if err := rows.Scan(&record.RunID, &record.AuthorKey, &record.AuthorLabel, &recordedMs,
			&record.Commits, &record.Churn, &record.Net, &record.ActiveDays, &record.Score); err != nil {
			return nil, fmt.Errorf("failed to scan author score: %w", err)
		}
		record.RecordedAt = time.UnixMilli(recordedMs)
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating author scores: %w", err)
	}
	return results, nil
}
