package docgrid

import "context"

// Config controls a document extraction. It is always passed explicitly;
// nothing in the engine reads ambient settings.
type Config struct {
	// EnableAutoNamer gates the contextual table-naming heuristics. When
	// off, tables receive synthetic Table_<n> names.
	EnableAutoNamer bool

	// EnableValidator gates the correction rule pipeline.
	EnableValidator bool

	// RobustParsing selects the coordinate-based grid extraction strategy
	// for merged-cell-heavy documents.
	RobustParsing bool

	// Rules toggles individual validation rules. Nil means DefaultRules.
	Rules *RuleSet

	// Decisions supplies answers for interactive corrections. Nil disables
	// the interactive split rule.
	Decisions DecisionProvider
}

// DefaultConfig enables the namer and validator with every rule on.
func DefaultConfig() Config {
	rules := DefaultRules()
	return Config{
		EnableAutoNamer: true,
		EnableValidator: true,
		Rules:           &rules,
	}
}

// ExtractService turns raw .docx bytes into a session of extracted,
// validated tables.
type ExtractService interface {
	// Extract decodes the document, walks its blocks, and builds the
	// table set. Structural failures (bad archive, missing body) return
	// EBADARCHIVE or EBADDOC errors; empty tables are skipped with a log
	// entry and do not fail the extraction.
	Extract(ctx context.Context, data []byte, cfg Config) (*Session, error)
}

// Exporter writes a set of tables to an external artifact such as a
// spreadsheet workbook.
type Exporter interface {
	Export(tables []*Table, path string) error
}
