package docgrid

import (
	"encoding/csv"
	"strings"
)

// Grid is the raw rectangular matrix of cell text extracted from one table.
// Rows are only guaranteed to have equal length after Normalize.
type Grid [][]string

// Cols returns the column count of the widest row.
func (g Grid) Cols() int {
	max := 0
	for _, row := range g {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// Normalize pads every short row with empty strings and truncates longer
// rows so that all rows share the width of the widest row. It mutates the
// grid in place and returns it for chaining.
func (g Grid) Normalize() Grid {
	cols := g.Cols()
	for i, row := range g {
		for len(row) < cols {
			row = append(row, "")
		}
		g[i] = row[:cols]
	}
	return g
}

// CSV renders the grid as an RFC 4180 CSV string. Embedded commas, quotes
// and newlines are quoted so that ParseCSV reconstructs the original cell
// values.
func (g Grid) CSV() string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	for _, row := range g {
		// csv.Writer only fails on the underlying writer, which cannot
		// happen with a strings.Builder.
		_ = w.Write(row)
	}
	w.Flush()
	return sb.String()
}

// ParseCSV is the inverse of Grid.CSV.
func ParseCSV(s string) (Grid, error) {
	r := csv.NewReader(strings.NewReader(s))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, Errorf(EINVALID, "parsing CSV: %v", err)
	}
	return Grid(records), nil
}
