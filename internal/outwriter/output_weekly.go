package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/parquet"
	"github.com/huangsam/gitpulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintWeeklySeries outputs per-author weekly totals of the configured metric.
func PrintWeeklySeries(points []schema.WeeklyPoint, cfg *contract.Config) error {
	var err error
	switch cfg.Output {
	case schema.JSONOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, points)
		}, "Wrote JSON weekly series")
	case schema.CSVOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWeeklyCSV(w, points, cfg.Metric)
		}, "Wrote CSV weekly series")
	case schema.ParquetOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeParquet(w, parquet.ConvertWeekly(points))
		}, "Wrote Parquet weekly series")
	default:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWeeklyTable(w, points, cfg)
		}, "Wrote table")
	}
	if err != nil {
		return fmt.Errorf("error writing %s weekly series: %w", cfg.Output, err)
	}
	return nil
}

// writeWeeklyTable prints one row per (week, author).
func writeWeeklyTable(w io.Writer, points []schema.WeeklyPoint, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Week", "Author", strings.ToUpper(string(cfg.Metric))})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	authorWidth := getMaxLabelWidth(cfg, 30)
	var data [][]string
	for _, p := range points {
		data = append(data, []string{
			p.WeekStart.Format(contract.DateFormat),
			contract.TruncateLabel(p.AuthorLabel, authorWidth),
			strconv.Itoa(p.Value),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	weeks := map[int64]struct{}{}
	for _, p := range points {
		weeks[p.WeekStart.Unix()] = struct{}{}
	}
	_, err := fmt.Fprintf(w, "%d points across %d weeks (metric: %s)\n", len(points), len(weeks), cfg.Metric)
	return err
}

// writeWeeklyCSV writes the series in long format.
func writeWeeklyCSV(w io.Writer, points []schema.WeeklyPoint, metric schema.Metric) error {
	header := []string{"week_start", "author_key", "author", string(metric)}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range points {
			if err := cw.Write([]string{
				p.WeekStart.Format(contract.DateFormat),
				p.AuthorKey,
				p.AuthorLabel,
				strconv.Itoa(p.Value),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
