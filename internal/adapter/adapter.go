// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package adapter extracts structured content from source documents into
// the intermediate document model.
//
// Supported formats:
//   - word: OOXML word processing (archive/zip, word/document.xml)
//   - spreadsheet: OOXML workbook (xl/worksheets/*.xml + sharedStrings)
//   - presentation: OOXML slides (ppt/slides/*.xml)
//   - markdown: canonical Markdown (round-trip parser)
//   - html: HTML, converted to Markdown first
//   - text: plain text (paragraph splitting)
//
// Extraction is deterministic: identical input bytes always yield a
// structurally identical document, and asset IDs are derived from content
// hashes, never generated randomly.
package adapter

import (
	"fmt"

	"github.com/pdiddy/docforge/pkg/types"
)

// Extract parses data according to item.Format and returns the
// intermediate document. Extracted binary assets are registered in the
// shared asset store. An unknown format returns ErrUnsupportedFormat
// without touching the data.
func Extract(item types.SourceItem, data []byte, assets *AssetStore) (*types.Document, error) {
	var (
		doc *types.Document
		err error
	)

	switch item.Format {
	case types.FormatWord:
		doc, err = extractWord(item.ID, data, assets)
	case types.FormatSpreadsheet:
		doc, err = extractSpreadsheet(item.ID, data)
	case types.FormatPresentation:
		doc, err = extractPresentation(item.ID, data, assets)
	case types.FormatMarkdown:
		doc, err = extractMarkdown(item.ID, data)
	case types.FormatHTML:
		doc, err = extractHTML(item.ID, data)
	case types.FormatText:
		doc, err = extractText(item.ID, data)
	default:
		return nil, fmt.Errorf("%s: %w", item.ID, ErrUnsupportedFormat)
	}

	if err != nil {
		return nil, fmt.Errorf("extract %s (%s): %w", item.ID, item.Format, err)
	}
	return doc, nil
}
