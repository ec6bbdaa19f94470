package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/parquet"
)

// ExportHistory writes every scan run and author score snapshot to Parquet files
// named after outputFile.
func ExportHistory(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no scan history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total scan runs: %d\n", status.TotalRuns)

	runs, err := store.GetAllScanRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve scan runs: %w", err)
	}
	scores, err := store.GetAllAuthorScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve author scores: %w", err)
	}

	runsFile := outputFile + ".scan_runs.parquet"
	if err := parquet.WriteScanRunsParquet(parquet.ConvertScanRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write scan runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d scan runs to: %s\n", len(runs), runsFile)

	scoresFile := outputFile + ".author_scores.parquet"
	if err := parquet.WriteAuthorScoresParquet(parquet.ConvertAuthorScoreRecords(scores), scoresFile); err != nil {
		return fmt.Errorf("failed to write author scores: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d author score records to: %s\n", len(scores), scoresFile)

	return nil
}
