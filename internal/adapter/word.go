// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapter

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/pdiddy/docforge/pkg/types"
)

// extractWord parses an OOXML word-processing document: paragraphs and
// recognized heading styles from word/document.xml, embedded images from
// word/media via the relationship table.
func extractWord(sourceID string, data []byte, assets *AssetStore) (*types.Document, error) {
	files, err := openArchive(types.FormatWord, data)
	if err != nil {
		return nil, err
	}
	docFile := files["word/document.xml"]
	if docFile == nil {
		return nil, corrupt(types.FormatWord, "word/document.xml not found in archive", nil)
	}
	rels := parseRels(files, "word/_rels/document.xml.rels")

	rc, err := docFile.Open()
	if err != nil {
		return nil, corrupt(types.FormatWord, "open word/document.xml", err)
	}
	defer rc.Close()

	doc := &types.Document{SourceID: sourceID}
	w := wordWalker{
		sourceID: sourceID,
		files:    files,
		rels:     rels,
		assets:   assets,
		doc:      doc,
	}
	if err := w.walk(xml.NewDecoder(rc)); err != nil {
		return nil, err
	}
	return doc, nil
}

// wordWalker accumulates parser state for one pass over document.xml.
type wordWalker struct {
	sourceID string
	files    map[string]*zip.File
	rels     map[string]string
	assets   *AssetStore
	doc      *types.Document

	text        strings.Builder
	inText      bool
	inParagraph bool
	style       string
	isList      bool
	listDepth   int

	tableDepth int
	rows       [][]string
	row        []string
	cell       strings.Builder
	inCell     bool

	caption string
	pending []types.Block
}

func (w *wordWalker) walk(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return corrupt(types.FormatWord, "malformed document.xml", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			w.start(t)
		case xml.CharData:
			if w.inText {
				if w.inCell {
					w.cell.Write(t)
				} else if w.inParagraph {
					w.text.Write(t)
				}
			}
		case xml.EndElement:
			w.end(t)
		}
	}
}

func (w *wordWalker) start(t xml.StartElement) {
	switch t.Name.Local {
	case "p":
		if w.inCell {
			// Paragraph break inside a cell: join with a space.
			if w.cell.Len() > 0 {
				w.cell.WriteByte(' ')
			}
			return
		}
		w.inParagraph = true
		w.text.Reset()
		w.style = ""
		w.isList = false
		w.listDepth = 0
	case "pStyle":
		w.style = attr(t, "val")
	case "numPr":
		w.isList = true
	case "ilvl":
		if n, err := strconv.Atoi(attr(t, "val")); err == nil && n >= 0 {
			w.listDepth = n
		}
	case "t":
		w.inText = true
	case "tbl":
		w.tableDepth++
		if w.tableDepth == 1 {
			w.rows = nil
		}
	case "tr":
		if w.tableDepth == 1 {
			w.row = nil
		}
	case "tc":
		if w.tableDepth == 1 {
			w.cell.Reset()
			w.inCell = true
		}
	case "docPr":
		w.caption = attr(t, "descr")
		if w.caption == "" {
			w.caption = attr(t, "name")
		}
	case "blip":
		w.embedImage(attr(t, "embed"))
	}
}

func (w *wordWalker) end(t xml.EndElement) {
	switch t.Name.Local {
	case "t":
		w.inText = false
	case "p":
		if w.inCell || !w.inParagraph {
			return
		}
		w.inParagraph = false
		w.flushParagraph()
	case "tc":
		if w.tableDepth == 1 && w.inCell {
			w.inCell = false
			w.row = append(w.row, collapseSpace(w.cell.String()))
		}
	case "tr":
		if w.tableDepth == 1 && w.row != nil {
			w.rows = append(w.rows, w.row)
			w.row = nil
		}
	case "tbl":
		w.tableDepth--
		if w.tableDepth == 0 && len(w.rows) > 0 {
			w.doc.Blocks = append(w.doc.Blocks, types.Block{
				Kind:      types.BlockTable,
				Rows:      w.rows,
				HeaderRow: true,
			})
			w.rows = nil
		}
	}
}

func (w *wordWalker) flushParagraph() {
	text := collapseSpace(w.text.String())
	if text != "" {
		switch level := wordHeadingLevel(w.style); {
		case level > 0:
			if w.doc.Title == "" {
				w.doc.Title = text
			}
			w.doc.Blocks = append(w.doc.Blocks, types.Block{
				Kind:  types.BlockHeading,
				Level: level,
				Text:  text,
			})
		case w.isList:
			w.doc.Blocks = append(w.doc.Blocks, types.Block{
				Kind:  types.BlockListItem,
				Depth: w.listDepth,
				Text:  text,
			})
		default:
			w.doc.Blocks = append(w.doc.Blocks, types.Block{
				Kind: types.BlockParagraph,
				Text: text,
			})
		}
	}

	// Images anchored in this paragraph follow it as standalone blocks.
	w.doc.Blocks = append(w.doc.Blocks, w.pending...)
	w.pending = nil
}

// embedImage resolves a relationship ID to an in-archive media file,
// registers the payload in the asset store, and queues an image block.
func (w *wordWalker) embedImage(rid string) {
	if rid == "" {
		return
	}
	target, ok := w.rels[rid]
	if !ok {
		w.doc.Findings = append(w.doc.Findings, types.Finding{
			Severity: types.SeverityInfo,
			Rule:     "extract",
			Message:  fmt.Sprintf("image relationship %s has no target, dropped", rid),
			Block:    len(w.doc.Blocks),
		})
		return
	}
	name := path.Join("word", target)
	f := w.files[name]
	if f == nil {
		w.doc.Findings = append(w.doc.Findings, types.Finding{
			Severity: types.SeverityInfo,
			Rule:     "extract",
			Message:  fmt.Sprintf("media file %s not found in archive, image dropped", name),
			Block:    len(w.doc.Blocks),
		})
		return
	}
	payload, err := readZipFile(f)
	if err != nil {
		w.doc.Findings = append(w.doc.Findings, types.Finding{
			Severity: types.SeverityInfo,
			Rule:     "extract",
			Message:  fmt.Sprintf("media file %s unreadable, image dropped: %v", name, err),
			Block:    len(w.doc.Blocks),
		})
		return
	}

	id := w.assets.Put(w.sourceID, path.Base(target), payload)
	w.pending = append(w.pending, types.Block{
		Kind:    types.BlockImage,
		AssetID: id,
		Caption: w.caption,
	})
	w.caption = ""
}

// wordHeadingLevel maps a paragraph style name to a heading level, or 0
// for body text. "Heading1".."Heading6", "Title", and "Subtitle" are
// recognized, case-insensitively.
func wordHeadingLevel(style string) int {
	lower := strings.ToLower(style)
	switch lower {
	case "title":
		return 1
	case "subtitle":
		return 2
	}
	if rest, ok := strings.CutPrefix(lower, "heading"); ok {
		if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
			return int(rest[0] - '0')
		}
	}
	return 0
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// openArchive opens an OOXML container and indexes its files by name.
func openArchive(format types.Format, data []byte) (map[string]*zip.File, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, corrupt(format, "not a readable zip archive", err)
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	return files, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// relationship models one entry of an OOXML .rels part.
type relationship struct {
	ID     string `xml:"Id,attr"`
	Target string `xml:"Target,attr"`
}

// parseRels reads a relationships part into an ID→target map. A missing
// or unreadable part yields an empty map: the document body is still
// extractable without its media.
func parseRels(files map[string]*zip.File, name string) map[string]string {
	rels := make(map[string]string)
	f := files[name]
	if f == nil {
		return rels
	}
	data, err := readZipFile(f)
	if err != nil {
		return rels
	}
	var doc struct {
		Relationships []relationship `xml:"Relationship"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return rels
	}
	for _, r := range doc.Relationships {
		rels[r.ID] = strings.TrimPrefix(r.Target, "/")
	}
	return rels
}

// collapseSpace trims text and collapses internal whitespace runs to a
// single space. Applied uniformly so extraction is whitespace-stable.
func collapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
