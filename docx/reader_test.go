package docx_test

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/docgrid"
	"github.com/fwojciec/docgrid/docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const docFooter = `</w:body></w:document>`

// archiveBytes builds an in-memory .docx with the given body XML and
// optional extra archive entries.
func archiveBytes(t *testing.T, body string, extra map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(docHeader + body + docFooter))
	require.NoError(t, err)

	for name, content := range extra {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func para(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func cell(paras ...string) string {
	s := `<w:tc>`
	for _, p := range paras {
		s += `<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`
	}
	s += `</w:tc>`
	return s
}

func row(cells ...string) string {
	s := `<w:tr>`
	for _, c := range cells {
		s += c
	}
	return s + `</w:tr>`
}

func TestParse_ParagraphsAndPages(t *testing.T) {
	t.Parallel()

	body := para("First page text") +
		`<w:p><w:r><w:br w:type="page"/></w:r><w:r><w:t>Second page</w:t></w:r></w:p>` +
		`<w:p><w:r><w:lastRenderedPageBreak/><w:t>Third page</w:t></w:r></w:p>`

	doc, err := docx.Parse(context.Background(), archiveBytes(t, body, nil), false)
	require.NoError(t, err)

	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, 3, doc.TotalPages)

	assert.Equal(t, "First page text", doc.Blocks[0].Text)
	assert.Equal(t, 1, doc.Blocks[0].Page)
	assert.False(t, doc.Blocks[0].PageBreak)

	assert.Equal(t, "Second page", doc.Blocks[1].Text)
	assert.Equal(t, 2, doc.Blocks[1].Page)
	assert.True(t, doc.Blocks[1].PageBreak)

	assert.Equal(t, "Third page", doc.Blocks[2].Text)
	assert.Equal(t, 3, doc.Blocks[2].Page)
}

func TestParse_ParagraphFormatting(t *testing.T) {
	t.Parallel()

	styles := `<?xml version="1.0"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:styleId="Heading1"><w:name w:val="heading 1"/></w:style>
</w:styles>`

	body := `<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:rPr><w:b/></w:rPr><w:t>Section Title</w:t></w:r></w:p>` +
		`<w:p><w:pPr><w:pStyle w:val="Unknown9"/></w:pPr><w:r><w:t>Body</w:t></w:r></w:p>`

	doc, err := docx.Parse(context.Background(), archiveBytes(t, body, map[string]string{"word/styles.xml": styles}), false)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)

	assert.Equal(t, "heading 1", doc.Blocks[0].StyleName)
	assert.True(t, doc.Blocks[0].Bold)
	assert.Equal(t, "Unknown9", doc.Blocks[1].StyleName)
	assert.False(t, doc.Blocks[1].Bold)
}

func TestParse_TableGrid(t *testing.T) {
	t.Parallel()

	body := `<w:tbl>` +
		row(cell("Name"), cell("Value")) +
		row(cell("Pressure"), cell("42")) +
		`</w:tbl>`

	doc, err := docx.Parse(context.Background(), archiveBytes(t, body, nil), false)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)

	b := doc.Blocks[0]
	assert.Equal(t, docgrid.BlockTable, b.Kind)
	assert.Equal(t, docgrid.Grid{
		{"Name", "Value"},
		{"Pressure", "42"},
	}, b.Grid)
}

func TestParse_TableGridSpan(t *testing.T) {
	t.Parallel()

	spanCell := `<w:tc><w:tcPr><w:gridSpan w:val="2"/></w:tcPr><w:p><w:r><w:t>Merged</w:t></w:r></w:p></w:tc>`
	body := `<w:tbl>` +
		row(spanCell, cell("C")) +
		row(cell("a"), cell("b"), cell("c")) +
		`</w:tbl>`

	doc, err := docx.Parse(context.Background(), archiveBytes(t, body, nil), false)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)

	assert.Equal(t, docgrid.Grid{
		{"Merged", "", "C"},
		{"a", "b", "c"},
	}, doc.Blocks[0].Grid)
}

func TestParse_TableMultiParagraphCell(t *testing.T) {
	t.Parallel()

	multi := `<w:tc>` +
		`<w:p><w:r><w:t>Line 1</w:t></w:r></w:p>` +
		`<w:p/>` +
		`<w:p><w:r><w:t>Line 3</w:t></w:r></w:p>` +
		`<w:p/>` +
		`</w:tc>`
	body := `<w:tbl>` + row(multi, cell("x")) + `</w:tbl>`

	doc, err := docx.Parse(context.Background(), archiveBytes(t, body, nil), false)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)

	// Interior blank paragraphs survive, trailing ones do not.
	assert.Equal(t, "Line 1\n\nLine 3", doc.Blocks[0].Grid[0][0])
}

func TestParse_NestedTableExcluded(t *testing.T) {
	t.Parallel()

	inner := `<w:tbl>` + row(cell("inner")) + `</w:tbl>`
	outer := `<w:tc><w:p><w:r><w:t>outer</w:t></w:r></w:p>` + inner + `</w:tc>`
	body := `<w:tbl>` + row(outer) + `</w:tbl>`

	doc, err := docx.Parse(context.Background(), archiveBytes(t, body, nil), false)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)

	assert.Equal(t, docgrid.Grid{{"outer"}}, doc.Blocks[0].Grid)
}

func TestParse_EmptyTableSkipped(t *testing.T) {
	t.Parallel()

	body := `<w:tbl></w:tbl>` + para("after")

	doc, err := docx.Parse(context.Background(), archiveBytes(t, body, nil), false)
	require.NoError(t, err)

	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, docgrid.BlockParagraph, doc.Blocks[0].Kind)
	require.Len(t, doc.Logs, 1)
	assert.Contains(t, doc.Logs[0], "no rows")
}

func TestParse_RobustMode(t *testing.T) {
	t.Parallel()

	restart := `<w:tc><w:tcPr><w:vMerge w:val="restart"/></w:tcPr><w:p><w:r><w:t>Group</w:t></w:r></w:p></w:tc>`
	cont := `<w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc>`
	span := `<w:tc><w:tcPr><w:gridSpan w:val="2"/></w:tcPr><w:p><w:r><w:t>Wide</w:t></w:r></w:p></w:tc>`

	body := `<w:tbl>` +
		`<w:tblGrid><w:gridCol/><w:gridCol/><w:gridCol/></w:tblGrid>` +
		row(restart, span) +
		row(cont, cell("b"), cell("c")) +
		`</w:tbl>`

	doc, err := docx.Parse(context.Background(), archiveBytes(t, body, nil), true)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)

	// Horizontal spans repeat their text, vertical merges copy down.
	assert.Equal(t, docgrid.Grid{
		{"Group", "Wide", "Wide"},
		{"Group", "b", "c"},
	}, doc.Blocks[0].Grid)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	t.Run("not a zip archive", func(t *testing.T) {
		t.Parallel()
		_, err := docx.Parse(context.Background(), []byte("plain text"), false)
		require.Error(t, err)
		assert.Equal(t, docgrid.EBADARCHIVE, docgrid.ErrorCode(err))
	})

	t.Run("missing document part", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		w, err := zw.Create("word/other.xml")
		require.NoError(t, err)
		_, err = w.Write([]byte("x"))
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		_, err = docx.Parse(context.Background(), buf.Bytes(), false)
		require.Error(t, err)
		assert.Equal(t, docgrid.EBADARCHIVE, docgrid.ErrorCode(err))
	})

	t.Run("document without body", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		w, err := zw.Create("word/document.xml")
		require.NoError(t, err)
		_, err = w.Write([]byte(`<?xml version="1.0"?><w:document xmlns:w="http://example.com"/>`))
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		_, err = docx.Parse(context.Background(), buf.Bytes(), false)
		require.Error(t, err)
		assert.Equal(t, docgrid.EBADDOC, docgrid.ErrorCode(err))
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := docx.Parse(ctx, archiveBytes(t, para("x"), nil), false)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
