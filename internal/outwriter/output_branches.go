package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/olekukonko/tablewriter"
)

// PrintBranches outputs local branches with the current one first.
func PrintBranches(branches []schema.BranchInfo, cfg *contract.Config) error {
	var err error
	switch cfg.Output {
	case schema.JSONOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, branches)
		}, "Wrote JSON branches")
	case schema.CSVOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"name", "current"}, func(cw *csv.Writer) error {
				for _, b := range branches {
					if err := cw.Write([]string{b.Name, strconv.FormatBool(b.Current)}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV branches")
	case schema.ParquetOut:
		err = fmt.Errorf("parquet output is not available for branches")
	default:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBranchesTable(w, branches)
		}, "Wrote table")
	}
	if err != nil {
		return fmt.Errorf("error writing %s branches: %w", cfg.Output, err)
	}
	return nil
}

func writeBranchesTable(w io.Writer, branches []schema.BranchInfo) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Branch", "Current"})
	var data [][]string
	for _, b := range branches {
		mark := ""
		if b.Current {
			mark = "*"
		}
		data = append(data, []string{b.Name, mark})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
