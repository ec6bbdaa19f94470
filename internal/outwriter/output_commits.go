package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/parquet"
	"github.com/huangsam/gitpulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const shortHashLen = 8

// PrintCommits outputs the filtered commits, newest first.
func PrintCommits(rows []schema.CommitRow, cfg *contract.Config) error {
	var err error
	switch cfg.Output {
	case schema.JSONOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON commits")
	case schema.CSVOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCommitsCSV(w, rows)
		}, "Wrote CSV commits")
	case schema.ParquetOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeParquet(w, parquet.ConvertCommits(rows))
		}, "Wrote Parquet commits")
	default:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCommitsTable(w, rows, cfg)
		}, "Wrote table")
	}
	if err != nil {
		return fmt.Errorf("error writing %s commits: %w", cfg.Output, err)
	}
	return nil
}

func shortHash(hash string) string {
	if len(hash) > shortHashLen {
		return hash[:shortHashLen]
	}
	return hash
}

// writeCommitsTable prints at most cfg.ResultLimit commits.
func writeCommitsTable(w io.Writer, rows []schema.CommitRow, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Author", "Churn", "Net", "Files", "Hash", "Subject"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	shown := rows
	if cfg.ResultLimit > 0 && len(shown) > cfg.ResultLimit {
		shown = shown[:cfg.ResultLimit]
	}

	labelWidth := getMaxLabelWidth(cfg, 60)
	var data [][]string
	for _, r := range shown {
		data = append(data, []string{
			formatDay(r.Date),
			contract.TruncateLabel(r.AuthorLabel, labelWidth/2),
			strconv.Itoa(r.Churn),
			strconv.Itoa(r.Net),
			strconv.Itoa(r.Files),
			shortHash(r.Hash),
			contract.TruncateLabel(r.Subject, labelWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d of %d commits\n", len(shown), len(rows))
	return err
}

// writeCommitsCSV writes every commit.
func writeCommitsCSV(w io.Writer, rows []schema.CommitRow) error {
	header := []string{"date", "author", "churn", "net", "files", "subject", "hash"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			if err := cw.Write([]string{
				formatDay(r.Date),
				r.AuthorLabel,
				strconv.Itoa(r.Churn),
				strconv.Itoa(r.Net),
				strconv.Itoa(r.Files),
				r.Subject,
				r.Hash,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
