package docgrid

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxCaptionLen = 80
	maxTitleLen   = 60
)

// NameTable derives a human-readable label for a table. blocks is the full
// walked block sequence, pos the table's position in it, dataRows the
// table's data rows after header detection, headers its detected header
// names, and counter the running table number used for the synthetic
// fallback.
//
// Heuristics in priority order, first match wins:
//  1. the paragraph immediately following the table, if non-empty and under
//     80 characters, with no table in between;
//  2. a degenerate title first data row, truncated to 60 characters;
//  3. all non-synthetic header names joined with underscores, falling back
//     to Table_<counter> when every header is synthetic.
func NameTable(blocks []Block, pos int, dataRows [][]string, headers []string, counter int) string {
	if name := captionBelow(blocks, pos); name != "" {
		return name
	}

	if len(dataRows) > 0 {
		if title := TitleRowValue(dataRows[0]); title != "" {
			return truncate(title, maxTitleLen)
		}
	}

	var parts []string
	for _, h := range headers {
		if !IsSyntheticName(h) {
			parts = append(parts, h)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Table_%d", counter)
	}
	return strings.Join(parts, "_")
}

// captionBelow looks for a short paragraph immediately below the table.
// The first paragraph encountered decides: it either provides the caption
// or ends the search, and any table ends it too.
func captionBelow(blocks []Block, pos int) string {
	for i := pos + 1; i < len(blocks); i++ {
		switch blocks[i].Kind {
		case BlockTable:
			return ""
		case BlockParagraph:
			text := strings.TrimSpace(blocks[i].Text)
			if text != "" && utf8.RuneCountInString(text) < maxCaptionLen {
				return text
			}
			return ""
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
