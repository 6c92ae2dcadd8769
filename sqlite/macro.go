package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/docgrid"
)

// Compile-time interface verification.
var _ docgrid.MacroService = (*MacroService)(nil)

// MacroService implements docgrid.MacroService using SQLite. Event logs
// are stored as JSON text keyed by macro name.
type MacroService struct {
	db *DB
}

// NewMacroService creates a new MacroService.
func NewMacroService(db *DB) *MacroService {
	return &MacroService{db: db}
}

// SaveMacro stores a macro, replacing any existing macro of the same name.
func (s *MacroService) SaveMacro(ctx context.Context, m *docgrid.Macro) error {
	if m.Name == "" {
		return docgrid.Errorf(docgrid.EINVALID, "macro name required")
	}
	if len(m.Events) == 0 {
		return docgrid.Errorf(docgrid.EINVALID, "macro %q has no events", m.Name)
	}

	events, err := json.Marshal(m.Events)
	if err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO macros (name, events, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET events = excluded.events, created_at = excluded.created_at
	`, m.Name, string(events), m.CreatedAt.Format(time.RFC3339))

	return err
}

// FindMacroByName retrieves a macro by name.
func (s *MacroService) FindMacroByName(ctx context.Context, name string) (*docgrid.Macro, error) {
	var m docgrid.Macro
	var events, createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT name, events, created_at
		FROM macros
		WHERE name = ?
	`, name).Scan(&m.Name, &events, &createdAt)

	if err == sql.ErrNoRows {
		return nil, docgrid.Errorf(docgrid.ENOTFOUND, "macro %q not found", name)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(events), &m.Events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	if m.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return &m, nil
}

// ListMacros retrieves all macros ordered by name.
func (s *MacroService) ListMacros(ctx context.Context) ([]*docgrid.Macro, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, events, created_at
		FROM macros
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var macros []*docgrid.Macro
	for rows.Next() {
		var m docgrid.Macro
		var events, createdAt string
		if err := rows.Scan(&m.Name, &events, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(events), &m.Events); err != nil {
			return nil, fmt.Errorf("failed to decode events for %q: %w", m.Name, err)
		}
		if m.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at for %q: %w", m.Name, err)
		}
		macros = append(macros, &m)
	}
	return macros, rows.Err()
}

// DeleteMacro removes a macro by name.
func (s *MacroService) DeleteMacro(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM macros WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return docgrid.Errorf(docgrid.ENOTFOUND, "macro %q not found", name)
	}
	return nil
}
