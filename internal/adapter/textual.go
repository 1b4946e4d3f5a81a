// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapter

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/pdiddy/docforge/internal/normalize"
	"github.com/pdiddy/docforge/pkg/types"
)

// extractMarkdown parses canonical Markdown into the document model using
// the normalizer's round-trip parser, so Markdown input and normalized
// output share one grammar.
func extractMarkdown(sourceID string, data []byte) (*types.Document, error) {
	meta, blocks, err := normalize.Parse(data)
	if err != nil {
		return nil, corrupt(types.FormatMarkdown, "malformed markdown", err)
	}

	doc := &types.Document{SourceID: sourceID, Blocks: blocks, Title: meta.Title}
	if doc.Title == "" {
		for _, b := range blocks {
			if b.Kind == types.BlockHeading {
				doc.Title = b.Text
				break
			}
		}
	}
	return doc, nil
}

// extractHTML converts HTML to Markdown and reuses the Markdown parser.
func extractHTML(sourceID string, data []byte) (*types.Document, error) {
	md, err := htmltomarkdown.ConvertString(string(data))
	if err != nil {
		return nil, corrupt(types.FormatHTML, "converting to markdown", err)
	}
	return extractMarkdown(sourceID, []byte(md))
}

// extractText splits plain text into paragraphs on blank lines.
func extractText(sourceID string, data []byte) (*types.Document, error) {
	doc := &types.Document{SourceID: sourceID}

	var para []string
	flush := func() {
		if len(para) > 0 {
			doc.Blocks = append(doc.Blocks, types.Block{
				Kind: types.BlockParagraph,
				Text: collapseSpace(strings.Join(para, " ")),
			})
			para = nil
		}
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		para = append(para, line)
	}
	flush()

	if len(doc.Blocks) > 0 {
		doc.Title = firstLine(doc.Blocks[0].Text)
	}
	return doc, nil
}

// firstLine returns the first line of text, truncated to 200 characters.
func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	text = strings.TrimSpace(text)
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
