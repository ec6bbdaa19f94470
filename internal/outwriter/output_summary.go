package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// PrintSummary outputs the headline KPIs of a filtered history.
func PrintSummary(summary schema.Summary, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	var err error
	switch cfg.Output {
	case schema.JSONOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON summary")
	case schema.CSVOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryCSV(w, summary, fmtFloat)
		}, "Wrote CSV summary")
	case schema.ParquetOut:
		err = fmt.Errorf("parquet output is not available for summaries")
	default:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryLine(w, summary, fmtFloat)
		}, "Wrote summary")
	}
	if err != nil {
		return fmt.Errorf("error writing %s summary: %w", cfg.Output, err)
	}
	return nil
}

// writeSummaryLine prints the KPI line shown under tables.
func writeSummaryLine(w io.Writer, s schema.Summary, fmtFloat func(float64) string) error {
	_, err := fmt.Fprintf(w, "📊 Commits: %d | Authors: %d | Churn: %d | Net: %d | Avg churn/commit: %s | Range: %s → %s\n",
		s.Commits, s.Authors, s.Churn, s.Net, fmtFloat(s.AvgChurn), formatDay(s.FirstCommit), formatDay(s.LastCommit))
	return err
}

// writeSummaryCSV writes the KPIs as metric,value pairs.
func writeSummaryCSV(w io.Writer, s schema.Summary, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, []string{"metric", "value"}, func(cw *csv.Writer) error {
		rows := [][]string{
			{"commits", strconv.Itoa(s.Commits)},
			{"authors", strconv.Itoa(s.Authors)},
			{"churn", strconv.Itoa(s.Churn)},
			{"net", strconv.Itoa(s.Net)},
			{"avg_churn", fmtFloat(s.AvgChurn)},
			{"first_commit", formatDay(s.FirstCommit)},
			{"last_commit", formatDay(s.LastCommit)},
		}
		return cw.WriteAll(rows)
	})
}
