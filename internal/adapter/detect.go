// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapter

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pdiddy/docforge/pkg/types"
)

// extFormats maps file extensions to formats. Extension wins over
// sniffing so that a ".md" file full of HTML is still treated as Markdown.
var extFormats = map[string]types.Format{
	".docx":     types.FormatWord,
	".xlsx":     types.FormatSpreadsheet,
	".pptx":     types.FormatPresentation,
	".md":       types.FormatMarkdown,
	".markdown": types.FormatMarkdown,
	".html":     types.FormatHTML,
	".htm":      types.FormatHTML,
	".txt":      types.FormatText,
	".text":     types.FormatText,
}

// mimeFormats maps sniffed media types to formats.
var mimeFormats = map[string]types.Format{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   types.FormatWord,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         types.FormatSpreadsheet,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": types.FormatPresentation,
	"text/html":     types.FormatHTML,
	"text/markdown": types.FormatMarkdown,
	"text/plain":    types.FormatText,
}

// Detect determines the format of a source document from its path
// extension, falling back to content sniffing on head when the extension
// is not recognized. An undeterminable format yields FormatUnknown; the
// caller skips such items without attempting extraction.
func Detect(path string, head []byte) types.Format {
	if f, ok := extFormats[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}

	if len(head) == 0 {
		return types.FormatUnknown
	}
	// Is ignores optional parameters such as charset, String does not.
	for mt := mimetype.Detect(head); mt != nil; mt = mt.Parent() {
		for pattern, f := range mimeFormats {
			if mt.Is(pattern) {
				return f
			}
		}
	}
	return types.FormatUnknown
}
