// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapter

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/pdiddy/docforge/pkg/types"
)

// extractSpreadsheet parses an OOXML workbook. Each non-empty sheet
// becomes a heading carrying the sheet name followed by one table block,
// with the sheet's first non-empty row as the header row. Empty sheets
// are skipped and recorded as an info finding, not an error.
func extractSpreadsheet(sourceID string, data []byte) (*types.Document, error) {
	files, err := openArchive(types.FormatSpreadsheet, data)
	if err != nil {
		return nil, err
	}

	wb := files["xl/workbook.xml"]
	if wb == nil {
		return nil, corrupt(types.FormatSpreadsheet, "xl/workbook.xml not found in archive", nil)
	}
	wbData, err := readZipFile(wb)
	if err != nil {
		return nil, corrupt(types.FormatSpreadsheet, "open xl/workbook.xml", err)
	}

	var workbook struct {
		Sheets []struct {
			Name string `xml:"name,attr"`
			RID  string `xml:"id,attr"`
		} `xml:"sheets>sheet"`
	}
	if err := xml.Unmarshal(wbData, &workbook); err != nil {
		return nil, corrupt(types.FormatSpreadsheet, "malformed workbook.xml", err)
	}

	rels := parseRels(files, "xl/_rels/workbook.xml.rels")
	shared := parseSharedStrings(files)

	doc := &types.Document{SourceID: sourceID}
	for _, sheet := range workbook.Sheets {
		rows, err := parseSheet(files, rels[sheet.RID], shared)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			doc.Findings = append(doc.Findings, types.Finding{
				Severity: types.SeverityInfo,
				Rule:     "extract",
				Message:  fmt.Sprintf("sheet %q is empty, skipped", sheet.Name),
				Block:    len(doc.Blocks),
			})
			continue
		}
		if doc.Title == "" {
			doc.Title = sheet.Name
		}
		doc.Blocks = append(doc.Blocks,
			types.Block{Kind: types.BlockHeading, Level: 2, Text: sheet.Name},
			types.Block{Kind: types.BlockTable, Rows: rows, HeaderRow: true},
		)
	}
	return doc, nil
}

// parseSheet reads one worksheet part and returns its non-empty rows,
// cells positioned by their column reference.
func parseSheet(files map[string]*zip.File, target string, shared []string) ([][]string, error) {
	if target == "" {
		return nil, nil
	}
	name := path.Clean(path.Join("xl", strings.TrimPrefix(target, "/")))
	f := files[name]
	if f == nil {
		return nil, corrupt(types.FormatSpreadsheet, fmt.Sprintf("worksheet %s not found in archive", name), nil)
	}
	data, err := readZipFile(f)
	if err != nil {
		return nil, corrupt(types.FormatSpreadsheet, "open "+name, err)
	}

	var ws struct {
		Rows []struct {
			Cells []struct {
				Ref    string `xml:"r,attr"`
				Type   string `xml:"t,attr"`
				Value  string `xml:"v"`
				Inline string `xml:"is>t"`
			} `xml:"c"`
		} `xml:"sheetData>row"`
	}
	if err := xml.Unmarshal(data, &ws); err != nil {
		return nil, corrupt(types.FormatSpreadsheet, "malformed "+name, err)
	}

	var rows [][]string
	for _, r := range ws.Rows {
		var row []string
		for i, c := range r.Cells {
			col := columnIndex(c.Ref)
			if col < 0 {
				col = i
			}
			for len(row) <= col {
				row = append(row, "")
			}

			var value string
			switch c.Type {
			case "s":
				if idx, err := strconv.Atoi(c.Value); err == nil && idx >= 0 && idx < len(shared) {
					value = shared[idx]
				}
			case "inlineStr":
				value = c.Inline
			default:
				value = c.Value
			}
			row[col] = collapseSpace(value)
		}
		if rowHasContent(row) {
			rows = append(rows, trimTrailingEmpty(row))
		}
	}
	return rows, nil
}

// parseSharedStrings reads xl/sharedStrings.xml into an indexable slice.
// A workbook without shared strings yields nil.
func parseSharedStrings(files map[string]*zip.File) []string {
	f := files["xl/sharedStrings.xml"]
	if f == nil {
		return nil
	}
	data, err := readZipFile(f)
	if err != nil {
		return nil
	}
	var sst struct {
		Items []struct {
			Text string   `xml:"t"`
			Runs []string `xml:"r>t"`
		} `xml:"si"`
	}
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil
	}
	out := make([]string, len(sst.Items))
	for i, item := range sst.Items {
		if len(item.Runs) > 0 {
			out[i] = strings.Join(item.Runs, "")
		} else {
			out[i] = item.Text
		}
	}
	return out
}

// columnIndex converts a cell reference like "C7" to a zero-based column
// index (2). Returns -1 for an empty or unparsable reference.
func columnIndex(ref string) int {
	col := 0
	seen := false
	for _, r := range ref {
		if r >= 'A' && r <= 'Z' {
			col = col*26 + int(r-'A'+1)
			seen = true
			continue
		}
		break
	}
	if !seen {
		return -1
	}
	return col - 1
}

func rowHasContent(row []string) bool {
	for _, c := range row {
		if c != "" {
			return true
		}
	}
	return false
}

func trimTrailingEmpty(row []string) []string {
	end := len(row)
	for end > 0 && row[end-1] == "" {
		end--
	}
	return row[:end]
}
