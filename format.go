package docgrid

import (
	"html"
	"strings"
)

// TableOutput is the rendering-layer view of one table, as consumed by the
// excluded UI. HTML and CSV are pre-rendered so the collaborator only
// re-renders from the store after each mutation.
type TableOutput struct {
	PageNumber int        `json:"pageNumber"`
	TableName  string     `json:"tableName"`
	Confidence Confidence `json:"confidence"`
	Rows       int        `json:"rows"`
	Cols       int        `json:"cols"`
	Headers    []string   `json:"headers"`
	DataRows   [][]string `json:"dataRows"`
	HTML       string     `json:"html"`
	CSV        string     `json:"csv"`
	Source     string     `json:"source"`
	Type       string     `json:"type"`
	TableIndex int        `json:"tableIndex"`
}

// Extraction is the full output contract of a document extraction.
type Extraction struct {
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
	Tables     []TableOutput `json:"tables"`
	StrayText  []StrayPage   `json:"strayText"`
	TotalPages int           `json:"totalPages"`
	Logs       []string      `json:"logs"`
}

// FailedExtraction wraps an error into the output contract.
func FailedExtraction(err error) *Extraction {
	return &Extraction{
		Success:   false,
		Error:     ErrorMessage(err),
		Tables:    []TableOutput{},
		StrayText: []StrayPage{},
		Logs:      []string{},
	}
}

// Result assembles the output contract from the session's active tables.
// The whole snapshot is taken under the session mutex so a concurrent
// mutation can never be observed half-applied.
func (s *Session) Result() *Extraction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := &Extraction{
		Success:    true,
		Tables:     []TableOutput{},
		StrayText:  append([]StrayPage(nil), s.stray...),
		TotalPages: s.totalPages,
		Logs:       append([]string(nil), s.logs...),
	}
	if out.StrayText == nil {
		out.StrayText = []StrayPage{}
	}
	if out.Logs == nil {
		out.Logs = []string{}
	}
	for _, t := range s.tables {
		if t.Status != StatusActive {
			continue
		}
		out.Tables = append(out.Tables, TableOutput{
			PageNumber: t.PageNumber,
			TableName:  t.Name,
			Confidence: t.Confidence,
			Rows:       t.Rows,
			Cols:       t.Cols,
			Headers:    append([]string(nil), t.Headers...),
			DataRows:   cloneRows(t.DataRows),
			HTML:       TableHTML(t),
			CSV:        TableCSV(t),
			Source:     t.Source,
			Type:       t.Type,
			TableIndex: t.Index,
		})
	}
	return out
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// TableHTML renders a table as an HTML fragment with the result-table
// class the rendering layer styles.
func TableHTML(t *Table) string {
	var sb strings.Builder
	sb.WriteString(`<table class="result-table">` + "\n<thead>\n<tr>")
	for _, h := range t.Headers {
		sb.WriteString("<th>")
		sb.WriteString(escapeCell(h))
		sb.WriteString("</th>")
	}
	sb.WriteString("</tr>\n</thead>\n<tbody>\n")
	for _, row := range t.DataRows {
		sb.WriteString("<tr>")
		for _, cell := range row {
			sb.WriteString("<td>")
			sb.WriteString(escapeCell(cell))
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</tbody>\n</table>")
	return sb.String()
}

// escapeCell escapes HTML metacharacters and renders embedded line breaks
// visibly.
func escapeCell(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br/>")
}

// TableCSV renders the headers and data rows as CSV.
func TableCSV(t *Table) string {
	g := make(Grid, 0, len(t.DataRows)+1)
	g = append(g, t.Headers)
	g = append(g, t.DataRows...)
	return g.CSV()
}
