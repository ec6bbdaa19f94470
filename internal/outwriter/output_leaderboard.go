package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/parquet"
	"github.com/huangsam/gitpulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintLeaderboard outputs the ranked authors, dispatching based on the output format configured.
func PrintLeaderboard(result schema.LeaderboardResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	var err error
	switch cfg.Output {
	case schema.JSONOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON leaderboard")
	case schema.CSVOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLeaderboardCSV(w, result.Rows, fmtFloat)
		}, "Wrote CSV leaderboard")
	case schema.ParquetOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeParquet(w, parquet.ConvertLeaderboard(result.Rows))
		}, "Wrote Parquet leaderboard")
	default:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLeaderboardTable(w, result, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	if err != nil {
		return fmt.Errorf("error writing %s leaderboard: %w", cfg.Output, err)
	}
	return nil
}

// formatDay renders a day, or "-" for commits without a timestamp.
func formatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(contract.DateFormat)
}

// writeLeaderboardTable generates and writes the human-readable table.
func writeLeaderboardTable(w io.Writer, result schema.LeaderboardResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Author", "Score", "Label", "Commits", "Churn", "Net", "Avg", "Median", "Tiny%", "Big%", "Days", "First", "Last"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	authorWidth := getMaxLabelWidth(cfg, 120)
	var data [][]string
	for _, r := range result.Rows {
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			contract.TruncateLabel(r.Author, authorWidth),
			fmtFloat(r.Score),
			contract.GetColorLabel(r.Score),
			fmt.Sprintf(intFmt, r.Commits),
			fmt.Sprintf(intFmt, r.Churn),
			fmt.Sprintf(intFmt, r.Net),
			fmtFloat(r.AvgChurn),
			fmtFloat(r.MedianChurn),
			fmtFloat(r.TinyRatio),
			fmtFloat(r.BigRatio),
			fmt.Sprintf(intFmt, r.ActiveDays),
			formatDay(r.FirstCommit),
			formatDay(r.LastCommit),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if err := writeSummaryLine(w, result.Summary, fmtFloat); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing top %d authors. Scan completed in %v. Cache backend: %s\n", len(result.Rows), duration, cfg.CacheBackend)
	return err
}

// writeLeaderboardCSV writes the ranked authors in CSV format.
func writeLeaderboardCSV(w io.Writer, rows []schema.EnrichedLeaderboardRow, fmtFloat func(float64) string) error {
	header := []string{
		"rank", "author", "author_key", "score", "label", "commits", "churn", "net", "added", "deleted", "files",
		"avg_churn", "med_churn", "small_ratio", "tiny_ratio", "big_ratio", "active_days", "first_commit", "last_commit",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{
				strconv.Itoa(r.Rank),
				r.Author,
				r.AuthorKey,
				fmtFloat(r.Score),
				r.Label,
				strconv.Itoa(r.Commits),
				strconv.Itoa(r.Churn),
				strconv.Itoa(r.Net),
				strconv.Itoa(r.Added),
				strconv.Itoa(r.Deleted),
				strconv.Itoa(r.Files),
				fmtFloat(r.AvgChurn),
				fmtFloat(r.MedianChurn),
				fmtFloat(r.SmallRatio),
				fmtFloat(r.TinyRatio),
				fmtFloat(r.BigRatio),
				strconv.Itoa(r.ActiveDays),
				formatDay(r.FirstCommit),
				formatDay(r.LastCommit),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
