package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/StratifyWorks/segscope-cli/internal/segment"
)

const (
	segmentsSheet = "Segments"
	runSheet      = "Run"
)

// ExportXLSX writes the ranked segment profiles to a workbook: a Segments
// sheet with one row per segment and one <column>_mean column per analysis
// feature, plus a Run sheet with the run metadata.
func ExportXLSX(path string, ranked []segment.Profile, columns []string, m *Manifest) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", segmentsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []any{"cluster", "label", "size", "share_pct"}
	for _, col := range columns {
		header = append(header, col+"_mean")
	}
	if err := setRow(f, segmentsSheet, 1, header); err != nil {
		return err
	}
	for i, p := range ranked {
		row := []any{p.Cluster, p.Label, p.Size, p.Share}
		for _, col := range columns {
			row = append(row, p.Means[col])
		}
		if err := setRow(f, segmentsSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(segmentsSheet, "B", "B", 28); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if m != nil {
		if _, err := f.NewSheet(runSheet); err != nil {
			return fmt.Errorf("add run sheet: %w", err)
		}
		meta := [][]any{
			{"id", m.ID},
			{"source", m.Source},
			{"generated_at", m.GeneratedAt.Format("2006-01-02 15:04:05")},
			{"rows", m.Rows},
			{"clusters", m.Clusters},
		}
		for i, row := range meta {
			if err := setRow(f, runSheet, i+1, row); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, vals []any) error {
	for j, v := range vals {
		cell, err := excelize.CoordinatesToCellName(j+1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}
