// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BlockKind tags the variant of a Block.
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
	BlockTable     BlockKind = "table"
	BlockListItem  BlockKind = "list_item"
	BlockImage     BlockKind = "image"
	BlockCode      BlockKind = "code"
)

// Block is one structural unit of the intermediate document model. Which
// fields are meaningful depends on Kind; the zero value of the rest is
// ignored.
type Block struct {
	Kind BlockKind `json:"kind" yaml:"kind"`

	// Level is the heading level (1-6). Heading blocks only.
	Level int `json:"level,omitempty" yaml:"level,omitempty"`

	// Text is the block's text content: heading title, paragraph body
	// (runs joined in source order), list item text, or code body.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Rows holds table cells in row-major order. Table blocks only.
	Rows [][]string `json:"rows,omitempty" yaml:"rows,omitempty"`

	// HeaderRow reports whether Rows[0] is a header row.
	HeaderRow bool `json:"header_row,omitempty" yaml:"header_row,omitempty"`

	// Depth is the nesting depth of a list item, starting at 0.
	Depth int `json:"depth,omitempty" yaml:"depth,omitempty"`

	// AssetID references an extracted asset. Image blocks only.
	AssetID string `json:"asset_id,omitempty" yaml:"asset_id,omitempty"`

	// Caption is the image caption or alt text.
	Caption string `json:"caption,omitempty" yaml:"caption,omitempty"`

	// Lang is the code fence language tag. Code blocks only.
	Lang string `json:"lang,omitempty" yaml:"lang,omitempty"`
}

// Document is the intermediate document model: the format-independent
// representation every adapter extracts into and the normalizer consumes.
type Document struct {
	// SourceID is the SourceItem this document was extracted from.
	SourceID string `json:"source_id" yaml:"source_id"`

	// Title is the document title (first heading, or a format-specific
	// fallback).
	Title string `json:"title" yaml:"title"`

	// Blocks is the ordered content sequence.
	Blocks []Block `json:"blocks" yaml:"blocks"`

	// Findings carries non-fatal observations made during extraction
	// (empty sheets, stripped constructs). They are merged into the
	// validation report downstream.
	Findings []Finding `json:"findings,omitempty" yaml:"findings,omitempty"`
}

// AssetRef is a binary asset (image, embedded object) extracted from a
// source document. The ID is derived from the payload hash, so identical
// bytes always produce the same ID.
type AssetRef struct {
	// ID is the first 16 hex characters of the payload's SHA-256.
	ID string `json:"id" yaml:"id"`

	// SourceID is the item the asset was first extracted from.
	SourceID string `json:"source_id" yaml:"source_id"`

	// Name is the original in-archive filename (e.g. "image1.png").
	Name string `json:"name" yaml:"name"`

	// MIME is the detected media type.
	MIME string `json:"mime" yaml:"mime"`

	// Payload is the asset content.
	Payload []byte `json:"-" yaml:"-"`
}
