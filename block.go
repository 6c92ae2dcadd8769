package docgrid

// BlockKind discriminates the two structural element kinds a document body
// is made of.
type BlockKind string

// Block kinds.
const (
	BlockParagraph BlockKind = "paragraph"
	BlockTable     BlockKind = "table"
)

// Block is one structural element of a walked document body, in document
// order. Paragraph blocks carry their text and styling; table blocks carry
// the extracted cell grid. Every block records the page it falls on,
// derived from a running page-break counter.
type Block struct {
	Kind      BlockKind
	Text      string // paragraph text, whitespace-collapsed
	StyleName string
	Bold      bool
	PageBreak bool // paragraph contained a page-break marker
	Page      int  // 1-based page number
	Grid      Grid // populated for table blocks
}

// StrayParagraph is paragraph content retained for context but not parsed
// as tabular data.
type StrayParagraph struct {
	Text  string `json:"text"`
	Style string `json:"style"`
	Bold  bool   `json:"bold"`
}

// StrayPage groups stray paragraphs by the page they appear on.
type StrayPage struct {
	PageNumber int              `json:"pageNumber"`
	Paragraphs []StrayParagraph `json:"paragraphs"`
}
