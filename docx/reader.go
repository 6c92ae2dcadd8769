// Package docx parses Office Open XML word-processing documents. It reads
// the zip archive, locates the structural body, and walks it into the flat
// block sequence the extraction engine consumes.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/docgrid"
)

// Document is the walked form of one .docx file.
type Document struct {
	Blocks     []docgrid.Block
	TotalPages int
	Logs       []string
}

// Parse decodes raw .docx bytes into an ordered block sequence.
//
// A document is a zip archive whose body lives at word/document.xml; a
// missing or unreadable archive entry yields EBADARCHIVE, a document
// without a body element yields EBADDOC. Zero-row tables are dropped with
// a log entry and do not fail the parse.
func Parse(ctx context.Context, data []byte, robust bool) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, docgrid.Errorf(docgrid.EBADARCHIVE, "opening archive: %v", err)
	}

	body, err := documentBody(zr)
	if err != nil {
		return nil, err
	}

	styles := styleNames(zr)

	w := &walker{robust: robust, styles: styles, page: 1}
	w.walk(body)

	return &Document{
		Blocks:     w.blocks,
		TotalPages: w.page,
		Logs:       w.logs,
	}, nil
}

// documentBody locates and parses word/document.xml and returns its body
// element.
func documentBody(zr *zip.Reader) (*etree.Element, error) {
	data, err := fileContent(zr, "word/document.xml")
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, docgrid.Errorf(docgrid.EBADARCHIVE, "parsing document.xml: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, docgrid.Errorf(docgrid.EBADDOC, "document.xml has no root element")
	}
	body := childByTag(root, "body")
	if body == nil {
		return nil, docgrid.Errorf(docgrid.EBADDOC, "document body element missing")
	}
	return body, nil
}

// styleNames maps style IDs to display names from word/styles.xml. Styles
// are optional; absence maps every ID to itself.
func styleNames(zr *zip.Reader) map[string]string {
	names := make(map[string]string)

	data, err := fileContent(zr, "word/styles.xml")
	if err != nil {
		return names
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return names
	}
	root := doc.Root()
	if root == nil {
		return names
	}
	for _, style := range childrenByTag(root, "style") {
		id := attrValue(style, "styleId")
		if id == "" {
			continue
		}
		if name := childByTag(style, "name"); name != nil {
			if v := attrValue(name, "val"); v != "" {
				names[id] = v
			}
		}
	}
	return names
}

func fileContent(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, docgrid.Errorf(docgrid.EBADARCHIVE, "opening %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, docgrid.Errorf(docgrid.EBADARCHIVE, "reading %s: %v", name, err)
		}
		return data, nil
	}
	return nil, docgrid.Errorf(docgrid.EBADARCHIVE, "missing archive entry %s", name)
}

// Element helpers that match on local tag names only, so documents using
// any namespace prefix (or none) parse identically.

func childByTag(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

func childrenByTag(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

func attrValue(el *etree.Element, key string) string {
	for _, a := range el.Attr {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// hasDescendant reports whether any descendant element carries the given
// local tag.
func hasDescendant(el *etree.Element, tag string) bool {
	for _, c := range el.ChildElements() {
		if c.Tag == tag || hasDescendant(c, tag) {
			return true
		}
	}
	return false
}

// collapseSpace normalizes all runs of whitespace to single spaces and
// trims the ends, matching how paragraph text is compared and displayed.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
