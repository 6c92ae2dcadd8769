package docgrid

import (
	"fmt"
	"strings"
)

// Confidence is the trust tier assigned to a table's header/data boundary
// decision.
type Confidence string

// Confidence tiers.
const (
	ConfidenceLow  Confidence = "low"
	ConfidenceHigh Confidence = "high"
	ConfidenceUser Confidence = "user-approved"
)

// HeaderDetection is the result of analyzing a normalized grid.
type HeaderDetection struct {
	HeaderRows int
	Confidence Confidence
	Headers    []string
}

// SyntheticName returns the placeholder header name for the given 0-based
// column index.
func SyntheticName(col int) string {
	return fmt.Sprintf("Column_%d", col+1)
}

// IsSyntheticName reports whether a header name is a Column_<n> placeholder.
func IsSyntheticName(name string) bool {
	return strings.HasPrefix(name, "Column_")
}

type cellType int

const (
	cellEmpty cellType = iota
	cellInt
	cellFloat
	cellText
)

// classifyCell buckets a cell value for boundary voting. A whitespace-only
// cell is empty; a non-negative pure-digit string is int; float allows a
// single leading minus sign and a single decimal point.
func classifyCell(s string) cellType {
	t := strings.TrimSpace(s)
	if t == "" {
		return cellEmpty
	}
	if isDigits(t) {
		return cellInt
	}
	if isFloat(t) {
		return cellFloat
	}
	return cellText
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func isFloat(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	whole, frac, hasDot := strings.Cut(s, ".")
	if !isDigits(whole) {
		return false
	}
	if hasDot && !isDigits(frac) {
		return false
	}
	return true
}

// DetectHeaders decides which leading rows of a normalized grid are header
// rows versus data.
//
// Each column is scanned top to bottom for a run of consecutive numeric
// cells: an empty cell ends the scan once a run of two or more has been
// seen and otherwise resets the run, while a text cell resets or ends it
// the same way. A run that starts below the first row votes for its start
// row as the header/data boundary. The most frequent vote wins (ties break
// toward the first-encountered vote); with no votes at all the boundary
// defaults to row 1 at low confidence.
//
// The function is pure: calling it twice on the same grid yields identical
// results.
func DetectHeaders(g Grid) HeaderDetection {
	switch len(g) {
	case 0:
		return HeaderDetection{HeaderRows: 0, Confidence: ConfidenceLow, Headers: []string{}}
	case 1:
		headers := make([]string, len(g[0]))
		for i, cell := range g[0] {
			headers[i] = strings.TrimSpace(cell)
			if headers[i] == "" {
				headers[i] = SyntheticName(i)
			}
		}
		return HeaderDetection{HeaderRows: 1, Confidence: ConfidenceLow, Headers: headers}
	}

	cols := g.Cols()

	var votes []int
	for col := 0; col < cols; col++ {
		run := 0
		start := -1
	scan:
		for row := 0; row < len(g); row++ {
			switch classifyCell(g[row][col]) {
			case cellInt, cellFloat:
				if run == 0 {
					start = row
				}
				run++
			case cellEmpty:
				// A gap after a run of two or more ends the scan with the
				// run's vote intact; a shorter run is reset.
				if run >= 2 {
					break scan
				}
				run = 0
				start = -1
			default: // text
				if run >= 2 {
					break scan
				}
				run = 0
				start = -1
			}
		}
		if run >= 1 && start > 0 {
			votes = append(votes, start)
		}
	}

	boundary := 1
	confidence := ConfidenceLow
	if len(votes) > 0 {
		boundary = consensus(votes)
		confidence = ConfidenceHigh
	}

	return HeaderDetection{
		HeaderRows: boundary,
		Confidence: confidence,
		Headers:    buildHeaders(g[:boundary], cols),
	}
}

// consensus returns the most frequent vote, breaking ties toward the vote
// encountered first.
func consensus(votes []int) int {
	counts := make(map[int]int, len(votes))
	best := votes[0]
	for _, v := range votes {
		counts[v]++
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best
}

// buildHeaders concatenates, per column, the non-empty cell text of every
// header row with a newline separator, preserving multi-row header
// structure. A degenerate leading title row (all non-empty cells identical,
// or a single non-empty cell) is excluded. Columns left empty receive a
// synthetic Column_<n> name.
func buildHeaders(headerRows Grid, cols int) []string {
	headers := make([]string, cols)

	skipFirst := isTitleRow(headerRows)

	for r, row := range headerRows {
		if r == 0 && skipFirst {
			continue
		}
		for c := 0; c < cols && c < len(row); c++ {
			text := strings.TrimSpace(row[c])
			if text == "" {
				continue
			}
			if headers[c] != "" {
				headers[c] += "\n" + text
			} else {
				headers[c] = text
			}
		}
	}

	for i, h := range headers {
		if h == "" {
			headers[i] = SyntheticName(i)
		}
	}
	return headers
}

// isTitleRow reports whether the first row of the given rows is a
// degenerate title row.
func isTitleRow(rows Grid) bool {
	return len(rows) > 0 && TitleRowValue(rows[0]) != ""
}

// TitleRowValue returns the single distinct non-empty value of a degenerate
// title row, or "" if the row is not one.
func TitleRowValue(row []string) string {
	var nonEmpty []string
	for _, cell := range row {
		if t := strings.TrimSpace(cell); t != "" {
			nonEmpty = append(nonEmpty, t)
		}
	}
	if len(nonEmpty) == 0 {
		return ""
	}
	if len(nonEmpty) == 1 {
		return nonEmpty[0]
	}
	for _, v := range nonEmpty[1:] {
		if v != nonEmpty[0] {
			return ""
		}
	}
	return nonEmpty[0]
}
