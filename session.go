package docgrid

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Session is the single authoritative store for a document's extracted
// tables. All mutations go through it, are applied in place, keep the
// denormalized counters consistent, and append a log line. While a macro
// is being recorded each mutation also appends an event.
//
// A mutex serializes mutations so the store can be shared with an HTTP
// collaborator; logically there is still one mutation at a time.
type Session struct {
	mu sync.Mutex

	tables    []*Table // arena: indices are stable and never reused
	nextIndex int
	selection map[int]bool
	logs      []string

	totalPages int
	stray      []StrayPage

	recording bool
	events    []MacroEvent
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{
		selection:  make(map[int]bool),
		totalPages: 1,
	}
}

// AddTable assigns the table the next stable index, marks it active, and
// adds it to the store. It returns the assigned index.
func (s *Session) AddTable(t *Table) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addTable(t)
}

func (s *Session) addTable(t *Table) int {
	t.Index = s.nextIndex
	s.nextIndex++
	if t.Status == "" {
		t.Status = StatusActive
	}
	t.syncCounts()
	s.tables = append(s.tables, t)
	return t.Index
}

// Tables returns all tables, including deleted ones, in index order.
func (s *Session) Tables() []*Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Table(nil), s.tables...)
}

// ActiveTables returns the active tables in index order.
func (s *Session) ActiveTables() []*Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Table
	for _, t := range s.tables {
		if t.Status == StatusActive {
			out = append(out, t)
		}
	}
	return out
}

// Table returns the table with the given index regardless of status, or
// nil if it does not exist.
func (s *Session) Table(index int) *Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(index)
}

// lookup finds a table by index regardless of status.
func (s *Session) lookup(index int) *Table {
	for _, t := range s.tables {
		if t.Index == index {
			return t
		}
	}
	return nil
}

// active finds a table by index, returning nil for missing or deleted
// tables so that mutations on them degrade to silent no-ops.
func (s *Session) active(index int) *Table {
	t := s.lookup(index)
	if t == nil || t.Status != StatusActive {
		return nil
	}
	return t
}

// Logf appends a formatted line to the session log.
func (s *Session) Logf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logf(format, args...)
}

func (s *Session) logf(format string, args ...any) {
	s.logs = append(s.logs, fmt.Sprintf(format, args...))
}

// Logs returns a copy of the session log.
func (s *Session) Logs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.logs...)
}

// SetTotalPages records the document's page count.
func (s *Session) SetTotalPages(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > 0 {
		s.totalPages = n
	}
}

// TotalPages returns the document's page count.
func (s *Session) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPages
}

// SetStrayText records the non-tabular paragraph content by page.
func (s *Session) SetStrayText(stray []StrayPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stray = stray
}

// StrayText returns the non-tabular paragraph content by page.
func (s *Session) StrayText() []StrayPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]StrayPage(nil), s.stray...)
}

// Select adds an active table to the merge selection.
func (s *Session) Select(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active(index) != nil {
		s.selection[index] = true
	}
}

// Deselect removes a table from the merge selection.
func (s *Session) Deselect(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selection, index)
}

// Selection returns the selected table indices in ascending order.
func (s *Session) Selection() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectionLocked()
}

func (s *Session) selectionLocked() []int {
	out := make([]int, 0, len(s.selection))
	for i := range s.selection {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// ClearSelection empties the merge selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = make(map[int]bool)
}

// Rename sets the table's name.
func (s *Session) Rename(index int, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.active(index)
	if t == nil {
		return
	}
	old := t.Name
	t.Name = name
	s.logf("Table #%d renamed %q -> %q", index, old, name)
	s.record(ActionRename, MacroParams{TableIndex: index, Value: name})
}

// UpdateHeader sets one header cell.
func (s *Session) UpdateHeader(index, col int, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.active(index)
	if t == nil || col < 0 || col >= t.Cols {
		return
	}
	t.Headers[col] = value
	s.logf("Table #%d header %d set to %q", index, col, value)
	s.record(ActionUpdateHeader, MacroParams{TableIndex: index, Col: col, Value: value})
}

// DemoteHeader pushes the current header row back as the first data row,
// blanking synthetic Column_<n> placeholders, and resets the headers to
// synthetic names.
func (s *Session) DemoteHeader(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.active(index)
	if t == nil {
		return
	}
	demoteHeader(t)
	s.logf("Table #%d header row demoted to data", index)
	s.record(ActionDemoteHeader, MacroParams{TableIndex: index})
}

// demoteHeader is shared with the validation engine's rule 1.
func demoteHeader(t *Table) {
	row := make([]string, t.Cols)
	for i, h := range t.Headers {
		if IsSyntheticName(h) {
			row[i] = ""
		} else {
			row[i] = h
		}
	}
	t.DataRows = append([][]string{row}, t.DataRows...)
	for i := range t.Headers {
		t.Headers[i] = SyntheticName(i)
	}
	t.syncCounts()
}

// PromoteRow replaces the headers with the given data row and removes the
// row from the data. Blank cells fall back to synthetic names so headers
// stay addressable.
func (s *Session) PromoteRow(index, row int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.active(index)
	if t == nil || row < 0 || row >= t.Rows {
		return
	}
	for i, v := range t.DataRows[row] {
		if strings.TrimSpace(v) == "" {
			t.Headers[i] = SyntheticName(i)
		} else {
			t.Headers[i] = v
		}
	}
	t.DataRows = append(t.DataRows[:row], t.DataRows[row+1:]...)
	t.syncCounts()
	s.logf("Table #%d row %d promoted to header", index, row)
	s.record(ActionPromoteRow, MacroParams{TableIndex: index, Row: row})
}

// DeleteRow removes one data row.
func (s *Session) DeleteRow(index, row int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.active(index)
	if t == nil || row < 0 || row >= t.Rows {
		return
	}
	t.DataRows = append(t.DataRows[:row], t.DataRows[row+1:]...)
	t.syncCounts()
	s.logf("Table #%d row %d deleted", index, row)
	s.record(ActionDeleteRow, MacroParams{TableIndex: index, Row: row})
}

// FillDown replaces each blank cell in a column with the nearest preceding
// non-blank value. The running value resets only at the top of the column,
// so leading blanks stay blank.
func (s *Session) FillDown(index, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.active(index)
	if t == nil || col < 0 || col >= t.Cols {
		return
	}
	last := ""
	filled := 0
	for _, row := range t.DataRows {
		if strings.TrimSpace(row[col]) == "" {
			if last != "" {
				row[col] = last
				filled++
			}
		} else {
			last = row[col]
		}
	}
	s.logf("Table #%d column %d filled down (%d cells)", index, col, filled)
	s.record(ActionFillDown, MacroParams{TableIndex: index, Col: col})
}

// NameColumnHeader is the header of the synthetic column added by
// AddNameColumn.
const NameColumnHeader = "Table_Name"

// AddNameColumn prepends a synthetic column populated with the table's
// name.
func (s *Session) AddNameColumn(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.active(index)
	if t == nil {
		return
	}
	t.Headers = append([]string{NameColumnHeader}, t.Headers...)
	for i, row := range t.DataRows {
		t.DataRows[i] = append([]string{t.Name}, row...)
	}
	t.syncCounts()
	s.logf("Table #%d name column added", index)
	s.record(ActionAddNameColumn, MacroParams{TableIndex: index})
}

// SplitRow splits a row whose cells contain merged line pairs: every cell
// keeps its text up to the first newline, and a new row inserted
// immediately after receives each cell's remainder (empty where a cell had
// no newline).
func (s *Session) SplitRow(index, row int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.active(index)
	if t == nil || row < 0 || row >= t.Rows {
		return
	}
	top := t.DataRows[row]
	rest := make([]string, len(top))
	for i, cell := range top {
		if head, tail, ok := strings.Cut(cell, "\n"); ok {
			top[i] = head
			rest[i] = tail
		}
	}
	t.DataRows = append(t.DataRows[:row+1], append([][]string{rest}, t.DataRows[row+1:]...)...)
	t.syncCounts()
	s.logf("Table #%d row %d split", index, row)
	s.record(ActionSplitRow, MacroParams{TableIndex: index, Row: row})
}

// Approve marks the table's header boundary as user-approved.
func (s *Session) Approve(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.active(index)
	if t == nil {
		return
	}
	t.Approved = true
	t.Confidence = ConfidenceUser
	s.logf("Table #%d approved", index)
	s.record(ActionApprove, MacroParams{TableIndex: index})
}

// DeleteTable marks a table deleted. The table remains addressable and can
// be restored; its index is never reused.
func (s *Session) DeleteTable(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.active(index)
	if t == nil {
		return
	}
	t.Status = StatusDeleted
	delete(s.selection, index)
	s.logf("Table #%d deleted", index)
	s.record(ActionDeleteTable, MacroParams{TableIndex: index})
}

// RestoreTable returns a deleted table to the active set.
func (s *Session) RestoreTable(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.lookup(index)
	if t == nil || t.Status != StatusDeleted {
		return
	}
	t.Status = StatusActive
	s.logf("Table #%d restored", index)
	s.record(ActionRestoreTable, MacroParams{TableIndex: index})
}

// MergeSelected merges the currently selected tables. See MergeTables.
func (s *Session) MergeSelected() (int, error) {
	return s.MergeTables(s.Selection())
}

// MergeTables merges two or more active tables of identical column count
// into a new table, concatenating rows in ascending index order. Source
// tables are marked deleted, never physically removed, and the selection
// is cleared. On any validation failure no state changes.
func (s *Session) MergeTables(indices []int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(indices) < 2 {
		return 0, Errorf(EINVALID, "merge requires at least 2 tables, got %d", len(indices))
	}

	sorted := append([]int(nil), indices...)
	sort.Ints(sorted)

	var sources []*Table
	for _, idx := range sorted {
		t := s.active(idx)
		if t == nil {
			return 0, Errorf(ENOTFOUND, "table %d not found or deleted", idx)
		}
		sources = append(sources, t)
	}
	for _, t := range sources[1:] {
		if t.Cols != sources[0].Cols {
			return 0, Errorf(ECONFLICT,
				"cannot merge tables with different column counts (%d vs %d)",
				sources[0].Cols, t.Cols)
		}
	}

	merged := &Table{
		PageNumber: sources[0].PageNumber,
		Name:       sources[0].Name,
		Confidence: sources[0].Confidence,
		Headers:    append([]string(nil), sources[0].Headers...),
		Source:     "merge",
		Type:       sources[0].Type,
	}
	for _, t := range sources {
		for _, row := range t.DataRows {
			merged.DataRows = append(merged.DataRows, append([]string(nil), row...))
		}
		t.Status = StatusDeleted
	}
	idx := s.addTable(merged)
	s.selection = make(map[int]bool)

	s.logf("Tables %v merged into #%d (%d rows)", sorted, idx, merged.Rows)
	s.record(ActionMergeTables, MacroParams{TableIndex: idx, Indices: sorted})
	return idx, nil
}
