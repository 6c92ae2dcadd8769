// Package docgrid extracts tabular data embedded in Word (.docx) documents
// and normalizes it into clean, rectangular grids suitable for CSV or
// spreadsheet export. It walks document content as a flat sequence of
// paragraph and table blocks, detects the header/data boundary of each
// table with a per-column voting heuristic, names tables from surrounding
// context, runs an ordered pipeline of correction rules over the result,
// and exposes atomic table mutations that can be recorded and replayed as
// macros.
//
// This package contains domain types, pure algorithms, and service
// interfaces following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency or concern (e.g., docx/, sqlite/, http/).
package docgrid
