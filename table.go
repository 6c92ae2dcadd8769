package docgrid

import (
	"github.com/cespare/xxhash/v2"
)

// TableStatus marks whether a table participates in the active set.
type TableStatus string

// Table statuses. Deleted tables remain addressable by index and can be
// restored; indices are never reused.
const (
	StatusActive  TableStatus = "active"
	StatusDeleted TableStatus = "deleted"
)

// Table is the persistent unit of identity in a session. All components
// address it by Index; mutation is always in place.
//
// Invariant: len(Headers) == Cols and len(DataRows[i]) == Cols for all i.
// Mutations may violate this transiently but restore it before returning.
type Table struct {
	Index      int
	PageNumber int
	Name       string
	Confidence Confidence
	Approved   bool
	Status     TableStatus
	Headers    []string
	DataRows   [][]string
	Rows       int
	Cols       int

	// Provenance tags, non-semantic.
	Source string
	Type   string
}

// syncCounts refreshes the denormalized row/column counters after a
// structural mutation.
func (t *Table) syncCounts() {
	t.Rows = len(t.DataRows)
	t.Cols = len(t.Headers)
}

// Fingerprint returns a stable hash of the table's headers and data rows.
// Two tables with byte-identical content hash equally, which makes the
// fingerprint usable for cheap change detection and for verifying that a
// replayed macro reproduced the original mutations exactly.
func (t *Table) Fingerprint() uint64 {
	d := xxhash.New()
	for _, h := range t.Headers {
		_, _ = d.WriteString(h)
		_, _ = d.Write([]byte{0x1f})
	}
	_, _ = d.Write([]byte{0x1e})
	for _, row := range t.DataRows {
		for _, cell := range row {
			_, _ = d.WriteString(cell)
			_, _ = d.Write([]byte{0x1f})
		}
		_, _ = d.Write([]byte{0x1e})
	}
	return d.Sum64()
}

// Fingerprint folds the fingerprints of every table, deleted ones
// included, into a single session-wide hash. The table contents are read
// under the session mutex so the digest is safe against concurrent
// mutations.
func (s *Session) Fingerprint() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := xxhash.New()
	var buf [8]byte
	for _, t := range s.tables {
		fp := t.Fingerprint()
		for i := range buf {
			buf[i] = byte(fp >> (8 * i))
		}
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := *t
	c.Headers = append([]string(nil), t.Headers...)
	c.DataRows = make([][]string, len(t.DataRows))
	for i, row := range t.DataRows {
		c.DataRows[i] = append([]string(nil), row...)
	}
	return &c
}
