package docgrid

import (
	"context"
	"fmt"
	"strings"
)

// Rule identifiers, used in ValidationChange entries.
const (
	RuleDemoteMultilineHeaders = "demote_multiline_headers"
	RuleDeleteEmptyFirstRow    = "delete_empty_first_row"
	RuleAutoPromoteHeader      = "auto_promote_header"
	RuleDeduplicateLines       = "deduplicate_lines"
	RuleSplitMergedRows        = "split_merged_rows"
)

// RuleSet toggles the individual validation rules.
type RuleSet struct {
	DemoteMultilineHeaders bool
	DeleteEmptyFirstRow    bool
	AutoPromoteHeader      bool
	DeduplicateLines       bool
	SplitMergedRows        bool
}

// DefaultRules enables every rule.
func DefaultRules() RuleSet {
	return RuleSet{
		DemoteMultilineHeaders: true,
		DeleteEmptyFirstRow:    true,
		AutoPromoteHeader:      true,
		DeduplicateLines:       true,
		SplitMergedRows:        true,
	}
}

// ValidationChange is one append-only entry in the validation change log.
type ValidationChange struct {
	TableIndex int    `json:"tableIndex"`
	Rule       string `json:"rule"`
	Message    string `json:"message"`
}

// SplitRequest describes one split candidate awaiting an external decision.
type SplitRequest struct {
	TableIndex int
	TableName  string
	Row        int
	Preview    []string
}

// DecisionProvider supplies the external yes/no answer for interactive
// corrections. Implementations range from a terminal prompt to a scripted
// test double; the engine suspends on ConfirmSplit and resumes with its
// answer.
type DecisionProvider interface {
	ConfirmSplit(ctx context.Context, req SplitRequest) (bool, error)
}

// Validator applies the ordered correction rules to every active table in
// a session. Rule order and interaction are load-bearing: rule 3 is
// skipped for a table when rule 1 fired on it in the same pass, so a
// freshly demoted header row is not immediately promoted back, and rule 4
// leaves rule 5's candidate rows alone so the data carried in a merged
// row survives until its split is confirmed or declined.
//
// Cell text produced by the extractor uses "\n" for every line break, so
// the rules split on "\n" only; segments are trimmed before comparison,
// which also strips any carriage-return remnant from hostile input.
type Validator struct {
	Rules     RuleSet
	Decisions DecisionProvider // nil disables rule 5

	changes []ValidationChange
}

// NewValidator returns a validator with every rule enabled.
func NewValidator(decisions DecisionProvider) *Validator {
	return &Validator{Rules: DefaultRules(), Decisions: decisions}
}

// Changes returns the accumulated change log.
func (v *Validator) Changes() []ValidationChange {
	return append([]ValidationChange(nil), v.changes...)
}

// ValidateAll runs the rule pipeline over every active table, accumulating
// a change log. It returns the changes made during this call.
func (v *Validator) ValidateAll(ctx context.Context, s *Session) ([]ValidationChange, error) {
	before := len(v.changes)
	for _, t := range s.ActiveTables() {
		if err := v.validateTable(ctx, s, t); err != nil {
			return v.changes[before:], err
		}
	}
	return v.changes[before:], nil
}

func (v *Validator) validateTable(ctx context.Context, s *Session, t *Table) error {
	demoted := false
	if v.Rules.DemoteMultilineHeaders {
		demoted = v.demoteMultilineHeaders(s, t)
	}
	if v.Rules.DeleteEmptyFirstRow {
		v.deleteEmptyFirstRow(s, t)
	}
	if v.Rules.AutoPromoteHeader && !demoted {
		v.autoPromoteHeader(s, t)
	}
	if v.Rules.DeduplicateLines {
		// Rows queued for rule 5 are exempt from collapsing; a merged
		// row like {"Pipe\nPipe", "181", "691\n691"} must reach the
		// split confirmation with its second-row data intact.
		var keep map[int]bool
		if v.Rules.SplitMergedRows && v.Decisions != nil {
			keep = make(map[int]bool)
			for _, r := range splitCandidateRows(t) {
				keep[r] = true
			}
		}
		v.deduplicateLines(s, t, keep)
	}
	if v.Rules.SplitMergedRows && v.Decisions != nil {
		if err := v.splitMergedRows(ctx, s, t); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) log(s *Session, t *Table, rule, message string) {
	v.changes = append(v.changes, ValidationChange{TableIndex: t.Index, Rule: rule, Message: message})
	s.Logf("Table #%d [%s]: %s", t.Index, rule, message)
}

// Rule 1: a header cell containing a newline means the detector swallowed
// a data row into the headers; push the header row back down.
func (v *Validator) demoteMultilineHeaders(s *Session, t *Table) bool {
	multiline := false
	for _, h := range t.Headers {
		if strings.Contains(h, "\n") {
			multiline = true
			break
		}
	}
	if !multiline {
		return false
	}
	demoteHeader(t)
	v.log(s, t, RuleDemoteMultilineHeaders, "multi-line headers demoted to first data row")
	return true
}

// Rule 2: drop an entirely blank first data row.
func (v *Validator) deleteEmptyFirstRow(s *Session, t *Table) {
	if t.Rows == 0 {
		return
	}
	for _, cell := range t.DataRows[0] {
		if strings.TrimSpace(cell) != "" {
			return
		}
	}
	t.DataRows = t.DataRows[1:]
	t.syncCounts()
	v.log(s, t, RuleDeleteEmptyFirstRow, "empty first data row removed")
}

// Rule 3: with only synthetic headers, a first data row matching a header
// shape is promoted. Skipped when rule 1 fired this pass.
func (v *Validator) autoPromoteHeader(s *Session, t *Table) {
	if t.Rows == 0 || t.Cols == 0 {
		return
	}
	for _, h := range t.Headers {
		if !IsSyntheticName(h) {
			return
		}
	}
	row := t.DataRows[0]
	for _, cell := range row {
		if strings.Contains(cell, "\n") {
			return
		}
	}
	if !headerShaped(row) {
		return
	}
	for i, cell := range row {
		if strings.TrimSpace(cell) != "" {
			t.Headers[i] = cell
		}
	}
	t.DataRows = t.DataRows[1:]
	t.syncCounts()
	v.log(s, t, RuleAutoPromoteHeader, "first data row promoted to header")
}

// headerShaped reports whether a row's blank/non-blank pattern looks like
// a header row: (a) only the first cell blank, (b) six or more columns
// with exactly the first two cells blank, or (c) no blanks at all.
func headerShaped(row []string) bool {
	blank := make([]bool, len(row))
	for i, cell := range row {
		blank[i] = strings.TrimSpace(cell) == ""
	}

	allNonBlankFrom := func(start int) bool {
		for _, b := range blank[start:] {
			if b {
				return false
			}
		}
		return true
	}

	if len(row) >= 2 && blank[0] && allNonBlankFrom(1) {
		return true
	}
	if len(row) >= 6 && blank[0] && blank[1] && allNonBlankFrom(2) {
		return true
	}
	return allNonBlankFrom(0)
}

// Rule 4: collapse cells whose newline-separated segments are all the same
// repeated value. Rows listed in keep are skipped so a pending split
// candidate is never destroyed before its confirmation.
func (v *Validator) deduplicateLines(s *Session, t *Table, keep map[int]bool) {
	collapsed := 0
	for r, row := range t.DataRows {
		if keep[r] {
			continue
		}
		for i, cell := range row {
			if !strings.Contains(cell, "\n") {
				continue
			}
			if val, ok := repeatedValue(cell); ok {
				row[i] = val
				collapsed++
			}
		}
	}
	if collapsed > 0 {
		v.log(s, t, RuleDeduplicateLines, "collapsed repeated lines in "+plural(collapsed, "cell"))
	}
}

// repeatedValue splits a cell on newlines, trims and drops empty segments,
// and reports the single value if two or more segments remain and all are
// identical.
func repeatedValue(cell string) (string, bool) {
	var segs []string
	for _, seg := range strings.Split(cell, "\n") {
		if t := strings.TrimSpace(seg); t != "" {
			segs = append(segs, t)
		}
	}
	if len(segs) < 2 {
		return "", false
	}
	for _, seg := range segs[1:] {
		if seg != segs[0] {
			return "", false
		}
	}
	return segs[0], true
}

// Rule 5: rows where some cell's first two newline segments are equal are
// likely two printed rows merged into one. Candidates are confirmed one at
// a time through the decision provider and processed in descending row
// order so earlier splices don't invalidate later indices.
func (v *Validator) splitMergedRows(ctx context.Context, s *Session, t *Table) error {
	candidates := splitCandidateRows(t)
	for i := len(candidates) - 1; i >= 0; i-- {
		r := candidates[i]
		ok, err := v.Decisions.ConfirmSplit(ctx, SplitRequest{
			TableIndex: t.Index,
			TableName:  t.Name,
			Row:        r,
			Preview:    append([]string(nil), t.DataRows[r]...),
		})
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		s.SplitRow(t.Index, r)
		v.log(s, t, RuleSplitMergedRows, "merged row split")
	}
	return nil
}

// splitCandidateRows lists the data rows rule 5 will offer for splitting.
func splitCandidateRows(t *Table) []int {
	var rows []int
	for r, row := range t.DataRows {
		if splitCandidate(row) {
			rows = append(rows, r)
		}
	}
	return rows
}

// splitCandidate reports whether any cell's first two newline segments are
// equal after trimming.
func splitCandidate(row []string) bool {
	for _, cell := range row {
		head, tail, ok := strings.Cut(cell, "\n")
		if !ok {
			continue
		}
		second, _, _ := strings.Cut(tail, "\n")
		head = strings.TrimSpace(head)
		if head != "" && head == strings.TrimSpace(second) {
			return true
		}
	}
	return false
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
