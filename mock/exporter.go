package mock

import "github.com/fwojciec/docgrid"

var _ docgrid.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of docgrid.Exporter.
type Exporter struct {
	ExportFn func(tables []*docgrid.Table, path string) error
}

func (e *Exporter) Export(tables []*docgrid.Table, path string) error {
	return e.ExportFn(tables, path)
}
