// Package extract wires the document parser, header detector, table namer,
// and validation rule engine into a single extraction pipeline.
package extract

import (
	"context"
	"fmt"

	"github.com/fwojciec/docgrid"
	"github.com/fwojciec/docgrid/docx"
)

// Ensure the pipeline implements the service interface.
var _ docgrid.ExtractService = (*Pipeline)(nil)

// Pipeline is the default ExtractService implementation.
type Pipeline struct{}

// NewPipeline returns a ready-to-use pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Extract parses the document, builds one table per table block with
// detected headers and a derived name, collects stray paragraph text by
// page, and runs the validation rules when enabled.
func (p *Pipeline) Extract(ctx context.Context, data []byte, cfg docgrid.Config) (*docgrid.Session, error) {
	doc, err := docx.Parse(ctx, data, cfg.RobustParsing)
	if err != nil {
		return nil, err
	}

	s := docgrid.NewSession()
	s.SetTotalPages(doc.TotalPages)
	for _, line := range doc.Logs {
		s.Logf("%s", line)
	}

	counter := 0
	for pos, b := range doc.Blocks {
		if b.Kind != docgrid.BlockTable {
			continue
		}
		counter++

		det := docgrid.DetectHeaders(b.Grid)
		dataRows := cloneRows(b.Grid[det.HeaderRows:])

		name := fmt.Sprintf("Table_%d", counter)
		if cfg.EnableAutoNamer {
			name = docgrid.NameTable(doc.Blocks, pos, dataRows, det.Headers, counter)
		}

		t := &docgrid.Table{
			PageNumber: b.Page,
			Name:       name,
			Confidence: det.Confidence,
			Headers:    det.Headers,
			DataRows:   dataRows,
			Source:     "Smart",
			Type:       "Heuristic",
		}
		index := s.AddTable(t)
		s.Logf("Extracted table #%d %q on page %d (%d rows x %d cols, confidence %s)",
			index, t.Name, t.PageNumber, t.Rows, t.Cols, t.Confidence)
	}

	s.SetStrayText(strayText(doc.Blocks))

	if cfg.EnableValidator {
		v := docgrid.NewValidator(cfg.Decisions)
		if cfg.Rules != nil {
			v.Rules = *cfg.Rules
		}
		if _, err := v.ValidateAll(ctx, s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// strayText collects non-empty paragraphs that do not immediately precede
// a table, grouped by page in document order.
func strayText(blocks []docgrid.Block) []docgrid.StrayPage {
	var pages []docgrid.StrayPage
	for i, b := range blocks {
		if b.Kind != docgrid.BlockParagraph || b.Text == "" {
			continue
		}
		if i+1 < len(blocks) && blocks[i+1].Kind == docgrid.BlockTable {
			continue
		}

		p := docgrid.StrayParagraph{Text: b.Text, Style: b.StyleName, Bold: b.Bold}
		if n := len(pages); n > 0 && pages[n-1].PageNumber == b.Page {
			pages[n-1].Paragraphs = append(pages[n-1].Paragraphs, p)
		} else {
			pages = append(pages, docgrid.StrayPage{
				PageNumber: b.Page,
				Paragraphs: []docgrid.StrayParagraph{p},
			})
		}
	}
	return pages
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
