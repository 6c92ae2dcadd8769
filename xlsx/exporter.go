// Package xlsx writes extracted tables to a spreadsheet workbook, one
// sheet per table.
package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fwojciec/docgrid"
)

// Sheet names are capped by the xlsx format.
const maxSheetName = 31

// Compile-time interface verification.
var _ docgrid.Exporter = (*Exporter)(nil)

// Exporter implements docgrid.Exporter using excelize.
type Exporter struct{}

// NewExporter creates a new Exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes one sheet per table to an xlsx workbook at path. Sheet
// names are derived from table names, sanitized and deduplicated.
func (e *Exporter) Export(tables []*docgrid.Table, path string) error {
	if len(tables) == 0 {
		return docgrid.Errorf(docgrid.EINVALID, "no tables to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	used := make(map[string]bool)
	for _, t := range tables {
		sheet := sheetName(t, used)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating sheet %q: %w", sheet, err)
		}

		for col, h := range t.Headers {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return err
			}
		}
		for row, data := range t.DataRows {
			for col, v := range data {
				cell, err := excelize.CoordinatesToCellName(col+1, row+2)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
			}
		}
	}

	// Drop the default sheet so the workbook holds only table sheets.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// sheetName sanitizes a table name into a unique, format-legal sheet name.
func sheetName(t *docgrid.Table, used map[string]bool) string {
	name := t.Name
	if name == "" {
		name = fmt.Sprintf("Table_%d", t.Index)
	}

	// Characters the xlsx format forbids in sheet names.
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_", "\n", " ")
	name = strings.TrimSpace(replacer.Replace(name))
	if name == "" {
		name = fmt.Sprintf("Table_%d", t.Index)
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}

	// The workbook's default sheet is removed after the table sheets are
	// written; a table may not claim its name or the delete would take
	// the table's data with it. Sheet name matching is case-insensitive.
	base := []rune(name)
	for n := 2; used[name] || strings.EqualFold(name, "Sheet1"); n++ {
		suffix := fmt.Sprintf("_%d", n)
		if len(base)+len(suffix) > maxSheetName {
			name = string(base[:maxSheetName-len(suffix)]) + suffix
		} else {
			name = string(base) + suffix
		}
	}
	used[name] = true
	return name
}
