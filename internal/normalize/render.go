// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/docforge/pkg/types"
)

// assetDir is the path prefix used for asset links in emitted markup and
// for published asset files under the output root.
const assetDir = "assets"

// render emits the canonical Markdown body for blocks and returns it with
// the referenced asset IDs in first-appearance order.
func render(blocks []types.Block, assets AssetLookup) (string, []string) {
	var (
		parts    []string
		assetIDs []string
		seen     = map[string]bool{}
	)

	for i := 0; i < len(blocks); i++ {
		b := blocks[i]
		switch b.Kind {
		case types.BlockHeading:
			parts = append(parts, strings.Repeat("#", b.Level)+" "+collapse(b.Text))

		case types.BlockParagraph:
			parts = append(parts, escapeParagraph(collapse(b.Text)))

		case types.BlockListItem:
			// Consecutive list items render as one tight list.
			var lines []string
			for ; i < len(blocks) && blocks[i].Kind == types.BlockListItem; i++ {
				item := blocks[i]
				lines = append(lines, strings.Repeat("  ", max(item.Depth, 0))+"- "+collapse(item.Text))
			}
			i--
			parts = append(parts, strings.Join(lines, "\n"))

		case types.BlockTable:
			if t := renderTable(b); t != "" {
				parts = append(parts, t)
			}

		case types.BlockImage:
			target := b.AssetID
			if a, ok := assets.Get(b.AssetID); ok {
				target = AssetFileName(a)
			}
			parts = append(parts, fmt.Sprintf("![%s](%s/%s)", collapse(b.Caption), assetDir, target))
			if !seen[b.AssetID] {
				seen[b.AssetID] = true
				assetIDs = append(assetIDs, b.AssetID)
			}

		case types.BlockCode:
			text := strings.TrimRight(b.Text, "\n")
			parts = append(parts, "```"+b.Lang+"\n"+text+"\n```")
		}
	}

	if len(parts) == 0 {
		return "", assetIDs
	}
	return strings.Join(parts, "\n\n") + "\n", assetIDs
}

// renderTable emits a column-aligned pipe table. Rows with fewer cells
// than the widest row are right-padded with empty cells, never truncated.
// A table extracted without a header row gets an empty header so the
// emitted markup stays well-formed.
func renderTable(b types.Block) string {
	if len(b.Rows) == 0 {
		return ""
	}

	cols := 0
	for _, row := range b.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return ""
	}

	rows := make([][]string, 0, len(b.Rows)+1)
	if !b.HeaderRow {
		rows = append(rows, make([]string, cols))
	}
	for _, row := range b.Rows {
		padded := make([]string, cols)
		for i, cell := range row {
			padded[i] = escapeCell(collapse(cell))
		}
		rows = append(rows, padded)
	}

	widths := make([]int, cols)
	for i := range widths {
		widths[i] = 3
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := len([]rune(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		sb.WriteByte('|')
		for i, cell := range row {
			fmt.Fprintf(&sb, " %-*s |", widths[i], cell)
		}
		sb.WriteByte('\n')
	}

	writeRow(rows[0])
	sep := make([]string, cols)
	for i := range sep {
		sep[i] = strings.Repeat("-", widths[i])
	}
	writeRow(sep)
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// WithFrontmatter renders the publishable file content: YAML frontmatter
// followed by the Markdown body.
func WithFrontmatter(nd *types.NormalizedDocument) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", nd.Meta.Title)
	fmt.Fprintf(&b, "source_id: %q\n", nd.Meta.SourceID)
	b.WriteString("classifications: [")
	for i, c := range nd.Meta.Classifications {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q", c)
	}
	b.WriteString("]\n")
	fmt.Fprintf(&b, "generated_at: %q\n", nd.Meta.GeneratedAt.UTC().Format(time.RFC3339))
	b.WriteString("---\n\n")
	b.WriteString(nd.Markup)
	return b.String()
}

// paragraphMarkers are characters that would make a paragraph's first
// line parse as a different block kind; they are escaped on render and
// unescaped on parse.
const paragraphMarkers = "#-|`>!\\"

func escapeParagraph(text string) string {
	if text == "" {
		return text
	}
	if strings.ContainsRune(paragraphMarkers, rune(text[0])) {
		return "\\" + text
	}
	return text
}

func escapeCell(cell string) string {
	cell = strings.ReplaceAll(cell, "\\", "\\\\")
	return strings.ReplaceAll(cell, "|", "\\|")
}

func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
