// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Format identifies the detected type of a source document.
type Format string

const (
	FormatWord         Format = "word"
	FormatSpreadsheet  Format = "spreadsheet"
	FormatPresentation Format = "presentation"
	FormatMarkdown     Format = "markdown"
	FormatHTML         Format = "html"
	FormatText         Format = "text"
	FormatUnknown      Format = "unknown"
)

// SourceItem describes one input document enumerated by a source provider.
// It is immutable once read: the hash is computed over the bytes that were
// actually handed to the pipeline.
type SourceItem struct {
	// ID is the item identifier, the slash-separated path relative to the
	// source root (e.g. "guides/setup.docx").
	ID string `json:"id" yaml:"id"`

	// Path is the absolute filesystem path or URI of the source.
	Path string `json:"path" yaml:"path"`

	// Format is the detected document format.
	Format Format `json:"format" yaml:"format"`

	// Size is the source size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// ModTime is the source's last-modified timestamp.
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`

	// Hash is the hex SHA-256 of the source content, used for idempotent
	// re-runs and asset deduplication.
	Hash string `json:"hash" yaml:"hash"`
}
