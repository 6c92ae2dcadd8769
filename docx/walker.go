package docx

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/docgrid"
)

// walker converts a document body into an ordered block sequence, tracking
// a running page counter.
type walker struct {
	robust bool
	styles map[string]string

	blocks []docgrid.Block
	page   int
	tables int
	logs   []string
}

func (w *walker) walk(body *etree.Element) {
	for _, el := range body.ChildElements() {
		switch el.Tag {
		case "p":
			w.paragraph(el)
		case "tbl":
			w.table(el)
		}
	}
}

func (w *walker) paragraph(el *etree.Element) {
	broke := pageBreak(el)
	if broke {
		w.page++
	}

	w.blocks = append(w.blocks, docgrid.Block{
		Kind:      docgrid.BlockParagraph,
		Text:      collapseSpace(paragraphText(el)),
		StyleName: w.styleName(el),
		Bold:      paragraphBold(el),
		PageBreak: broke,
		Page:      w.page,
	})
}

func (w *walker) table(el *etree.Element) {
	w.tables++

	var grid docgrid.Grid
	if w.robust {
		grid = extractGridRobust(el)
	} else {
		grid = extractGrid(el)
	}
	grid.Normalize()

	if len(grid) == 0 {
		w.logs = append(w.logs, fmt.Sprintf("Table #%d yielded no rows, skipped", w.tables))
		return
	}

	w.blocks = append(w.blocks, docgrid.Block{
		Kind: docgrid.BlockTable,
		Page: w.page,
		Grid: grid,
	})
}

// pageBreak reports whether the paragraph carries a rendered page-break
// marker or a break of type page inside one of its runs.
func pageBreak(p *etree.Element) bool {
	if hasDescendant(p, "lastRenderedPageBreak") {
		return true
	}
	return anyElement(p, func(el *etree.Element) bool {
		return el.Tag == "br" && attrValue(el, "type") == "page"
	})
}

// paragraphText collects the visible text of a paragraph: text runs joined
// in document order, with soft breaks as newlines and tabs as tabs.
// Wrapper elements (hyperlinks, smart tags) are descended into.
func paragraphText(p *etree.Element) string {
	var sb strings.Builder
	var visit func(el *etree.Element)
	visit = func(el *etree.Element) {
		for _, c := range el.ChildElements() {
			switch c.Tag {
			case "t":
				sb.WriteString(c.Text())
			case "br", "cr":
				sb.WriteString("\n")
			case "tab":
				sb.WriteString("\t")
			case "pPr", "rPr":
				// property containers hold no visible text
			default:
				visit(c)
			}
		}
	}
	visit(p)
	return sb.String()
}

// paragraphBold reports whether any run in the paragraph is bold.
func paragraphBold(p *etree.Element) bool {
	return anyElement(p, func(el *etree.Element) bool {
		if el.Tag != "b" {
			return false
		}
		v := attrValue(el, "val")
		return v != "false" && v != "0"
	})
}

func (w *walker) styleName(p *etree.Element) string {
	pPr := childByTag(p, "pPr")
	if pPr == nil {
		return ""
	}
	pStyle := childByTag(pPr, "pStyle")
	if pStyle == nil {
		return ""
	}
	id := attrValue(pStyle, "val")
	if name, ok := w.styles[id]; ok {
		return name
	}
	return id
}

// anyElement reports whether fn matches any descendant element.
func anyElement(el *etree.Element, fn func(*etree.Element) bool) bool {
	for _, c := range el.ChildElements() {
		if fn(c) || anyElement(c, fn) {
			return true
		}
	}
	return false
}
