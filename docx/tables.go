package docx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/docgrid"
)

// extractGrid converts a table element into a raw grid. Only direct child
// cells of each row are visited, so nested tables contribute nothing. A
// cell declaring a horizontal span of n emits its text once followed by
// n-1 empty placeholders, keeping column positions aligned across rows
// with differing layouts.
func extractGrid(tbl *etree.Element) docgrid.Grid {
	var grid docgrid.Grid
	for _, tr := range childrenByTag(tbl, "tr") {
		var row []string
		for _, tc := range childrenByTag(tr, "tc") {
			row = append(row, cellText(tc))
			for i := 1; i < gridSpan(tc); i++ {
				row = append(row, "")
			}
		}
		grid = append(grid, row)
	}
	return grid
}

// extractGridRobust is the coordinate-based strategy for merged-cell-heavy
// documents: cell text is repeated across every column a horizontal span
// covers, and vertically merged continuation cells inherit the text of the
// cell above them.
func extractGridRobust(tbl *etree.Element) docgrid.Grid {
	rows := childrenByTag(tbl, "tr")
	if len(rows) == 0 {
		return nil
	}

	cols := gridColumnCount(tbl)
	if cols == 0 {
		for _, tr := range rows {
			width := 0
			for _, tc := range childrenByTag(tr, "tc") {
				width += gridSpan(tc)
			}
			if width > cols {
				cols = width
			}
		}
	}
	if cols == 0 {
		return nil
	}

	grid := make(docgrid.Grid, len(rows))
	for r := range grid {
		grid[r] = make([]string, cols)
	}

	for r, tr := range rows {
		pos := 0
		for _, tc := range childrenByTag(tr, "tc") {
			span := gridSpan(tc)
			text := cellText(tc)
			for c := pos; c < pos+span && c < cols; c++ {
				if vMergeContinues(tc) && r > 0 {
					grid[r][c] = grid[r-1][c]
				} else {
					grid[r][c] = text
				}
			}
			pos += span
		}
	}
	return grid
}

// cellText concatenates the cell's direct paragraph texts with newline
// separators. Blank paragraphs are preserved for vertical spacing except
// at the tail, and the result is deliberately not trimmed: a leading
// newline is meaningful to the header detector.
func cellText(tc *etree.Element) string {
	var paras []string
	for _, p := range childrenByTag(tc, "p") {
		paras = append(paras, paragraphText(p))
	}
	for len(paras) > 0 && paras[len(paras)-1] == "" {
		paras = paras[:len(paras)-1]
	}
	return strings.Join(paras, "\n")
}

// gridSpan returns the number of columns the cell occupies, at least 1.
func gridSpan(tc *etree.Element) int {
	pr := childByTag(tc, "tcPr")
	if pr == nil {
		return 1
	}
	gs := childByTag(pr, "gridSpan")
	if gs == nil {
		return 1
	}
	n, err := strconv.Atoi(attrValue(gs, "val"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// vMergeContinues reports whether the cell continues a vertical merge
// started in an earlier row. An absent val attribute means continue;
// "restart" starts a new merge.
func vMergeContinues(tc *etree.Element) bool {
	pr := childByTag(tc, "tcPr")
	if pr == nil {
		return false
	}
	vm := childByTag(pr, "vMerge")
	if vm == nil {
		return false
	}
	v := attrValue(vm, "val")
	return v == "" || v == "continue"
}

// gridColumnCount returns the declared column count from the table grid.
func gridColumnCount(tbl *etree.Element) int {
	grid := childByTag(tbl, "tblGrid")
	if grid == nil {
		return 0
	}
	return len(childrenByTag(grid, "gridCol"))
}
