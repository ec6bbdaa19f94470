package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/parquet"
	"github.com/huangsam/gitpulse/schema"
)

var weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Shades for levels 0..4, from empty to busiest.
var (
	heatGlyphs = [5]string{"·", "░", "▒", "▓", "█"}
	heatStyles = [5]lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("22")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
	}
	heatLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(4)
)

// PrintHeatmap outputs one author's calendar heatmap.
func PrintHeatmap(result schema.HeatmapResult, cfg *contract.Config) error {
	var err error
	switch cfg.Output {
	case schema.JSONOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON heatmap")
	case schema.CSVOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHeatmapCSV(w, result.Cells, result.Metric)
		}, "Wrote CSV heatmap")
	case schema.ParquetOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeParquet(w, parquet.ConvertHeatmap(result.Cells))
		}, "Wrote Parquet heatmap")
	default:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHeatmapGrid(w, result, cfg.UseColors)
		}, "Wrote heatmap")
	}
	if err != nil {
		return fmt.Errorf("error writing %s heatmap: %w", cfg.Output, err)
	}
	return nil
}

// heatLevel buckets v into 0..4 relative to the grid maximum.
func heatLevel(v, maxValue int) int {
	if v <= 0 || maxValue <= 0 {
		return 0
	}
	level := (v*4 + maxValue - 1) / maxValue
	return min(max(level, 1), 4)
}

// renderHeatmapGrid draws Monday..Sunday rows with one column per week.
func renderHeatmapGrid(grid schema.HeatmapGrid, useColors bool) string {
	rows := make([]string, 0, 7)
	for wd := range 7 {
		var b strings.Builder
		for _, v := range grid.Values[wd] {
			level := heatLevel(v, grid.Max)
			if useColors {
				b.WriteString(heatStyles[level].Render(heatGlyphs[level]))
			} else {
				b.WriteString(heatGlyphs[level])
			}
		}
		label := weekdayNames[wd]
		if useColors {
			label = heatLabelStyle.Render(label)
		} else {
			label += " "
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, label, b.String()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func writeHeatmapGrid(w io.Writer, result schema.HeatmapResult, useColors bool) error {
	if _, err := fmt.Fprintf(w, "🗓  %s (%s)\n", result.AuthorLabel, result.Metric); err != nil {
		return err
	}
	if result.Grid.Weeks == 0 {
		_, err := fmt.Fprintln(w, "No dated activity for this author.")
		return err
	}
	if _, err := fmt.Fprintln(w, renderHeatmapGrid(result.Grid, useColors)); err != nil {
		return err
	}

	total := 0
	for _, c := range result.Cells {
		total += c.Value
	}
	last := result.Grid.Origin.AddDate(0, 0, 7*result.Grid.Weeks-1)
	_, err := fmt.Fprintf(w, "%d active days over %d weeks (%s → %s) | Total: %d | Max/day: %d\n",
		len(result.Cells), result.Grid.Weeks,
		result.Grid.Origin.Format(contract.DateFormat), last.Format(contract.DateFormat),
		total, result.Grid.Max)
	return err
}

// writeHeatmapCSV writes the non-empty days only.
func writeHeatmapCSV(w io.Writer, cells []schema.HeatmapCell, metric schema.Metric) error {
	header := []string{"day", "weekday", "week_index", string(metric)}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, c := range cells {
			if err := cw.Write([]string{
				c.Day.Format(contract.DateFormat),
				strconv.Itoa(c.Weekday),
				strconv.Itoa(c.WeekIndex),
				strconv.Itoa(c.Value),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
