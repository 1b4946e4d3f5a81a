// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/docforge/pkg/types"
)

func TestParse_Blocks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []types.Block
	}{
		{
			name:  "heading and paragraph",
			input: "# Setup\n\nRun the installer.\n",
			want: []types.Block{
				{Kind: types.BlockHeading, Level: 1, Text: "Setup"},
				{Kind: types.BlockParagraph, Text: "Run the installer."},
			},
		},
		{
			name:  "multi-line paragraph collapses",
			input: "first line\nsecond line\n",
			want: []types.Block{
				{Kind: types.BlockParagraph, Text: "first line second line"},
			},
		},
		{
			name:  "escaped paragraph marker",
			input: "\\- not a list\n",
			want: []types.Block{
				{Kind: types.BlockParagraph, Text: "- not a list"},
			},
		},
		{
			name:  "nested list",
			input: "- one\n  - two\n- three\n",
			want: []types.Block{
				{Kind: types.BlockListItem, Depth: 0, Text: "one"},
				{Kind: types.BlockListItem, Depth: 1, Text: "two"},
				{Kind: types.BlockListItem, Depth: 0, Text: "three"},
			},
		},
		{
			name:  "table with separator",
			input: "| Key     | Value |\n| ------- | ----- |\n| timeout | 30    |\n",
			want: []types.Block{
				{Kind: types.BlockTable, HeaderRow: true, Rows: [][]string{
					{"Key", "Value"},
					{"timeout", "30"},
				}},
			},
		},
		{
			name:  "table cells unescape",
			input: "| a\\|b | c\\\\d |\n| --- | --- |\n",
			want: []types.Block{
				{Kind: types.BlockTable, HeaderRow: true, Rows: [][]string{
					{"a|b", "c\\d"},
				}},
			},
		},
		{
			name:  "code fence",
			input: "```go\nfunc main() {}\n```\n",
			want: []types.Block{
				{Kind: types.BlockCode, Lang: "go", Text: "func main() {}"},
			},
		},
		{
			name:  "asset image",
			input: "![Chart](assets/deadbeef00000000.png)\n",
			want: []types.Block{
				{Kind: types.BlockImage, AssetID: "deadbeef00000000", Caption: "Chart"},
			},
		},
		{
			name:  "external image stays a paragraph",
			input: "![Logo](https://example.com/logo.png)\n",
			want: []types.Block{
				{Kind: types.BlockParagraph, Text: "![Logo](https://example.com/logo.png)"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d blocks, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range tt.want {
				assertBlockEqual(t, i, got[i], tt.want[i])
			}
		})
	}
}

func assertBlockEqual(t *testing.T, i int, got, want types.Block) {
	t.Helper()
	if got.Kind != want.Kind {
		t.Errorf("block %d kind = %q, want %q", i, got.Kind, want.Kind)
		return
	}
	if got.Level != want.Level || got.Depth != want.Depth {
		t.Errorf("block %d level/depth = %d/%d, want %d/%d", i, got.Level, got.Depth, want.Level, want.Depth)
	}
	if got.Text != want.Text {
		t.Errorf("block %d text = %q, want %q", i, got.Text, want.Text)
	}
	if got.AssetID != want.AssetID || got.Caption != want.Caption {
		t.Errorf("block %d asset = %q/%q, want %q/%q", i, got.AssetID, got.Caption, want.AssetID, want.Caption)
	}
	if len(got.Rows) != len(want.Rows) {
		t.Errorf("block %d has %d rows, want %d", i, len(got.Rows), len(want.Rows))
		return
	}
	for r := range want.Rows {
		if strings.Join(got.Rows[r], "\x00") != strings.Join(want.Rows[r], "\x00") {
			t.Errorf("block %d row %d = %v, want %v", i, r, got.Rows[r], want.Rows[r])
		}
	}
}

func TestParse_Frontmatter(t *testing.T) {
	input := "---\n" +
		"title: \"Quarterly Report\"\n" +
		"source_id: \"reports/q1.docx\"\n" +
		"classifications: [\"report\"]\n" +
		"generated_at: \"2026-03-01T12:00:00Z\"\n" +
		"---\n\n# Quarterly Report\n"

	meta, blocks, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if meta.Title != "Quarterly Report" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.SourceID != "reports/q1.docx" {
		t.Errorf("source_id = %q", meta.SourceID)
	}
	if len(meta.Classifications) != 1 || meta.Classifications[0] != "report" {
		t.Errorf("classifications = %v", meta.Classifications)
	}
	want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if !meta.GeneratedAt.Equal(want) {
		t.Errorf("generated_at = %v, want %v", meta.GeneratedAt, want)
	}
	if len(blocks) != 1 || blocks[0].Kind != types.BlockHeading {
		t.Errorf("blocks = %+v", blocks)
	}
}

func TestParse_FrontmatterErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{name: "unterminated", input: "---\ntitle: \"x\"\n", errMsg: "unterminated frontmatter"},
		{name: "invalid yaml", input: "---\ntitle: [\n---\nbody\n", errMsg: "parsing frontmatter"},
		{name: "bad timestamp", input: "---\ngenerated_at: \"yesterday\"\n---\nbody\n", errMsg: "parsing generated_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %q, want substring %q", err, tt.errMsg)
			}
		})
	}
}

func TestParse_FrontmatterRoundTrip(t *testing.T) {
	nd := &types.NormalizedDocument{
		Markup: "content\n",
		Meta: types.Metadata{
			Title:           "A \"quoted\" title",
			SourceID:        "dir/file.xlsx",
			Classifications: []string{"guide", "reference"},
			GeneratedAt:     time.Date(2026, 1, 15, 8, 30, 0, 0, time.UTC),
		},
	}

	meta, _, err := Parse([]byte(WithFrontmatter(nd)))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if meta.Title != nd.Meta.Title || meta.SourceID != nd.Meta.SourceID {
		t.Errorf("meta = %+v", meta)
	}
	if !meta.GeneratedAt.Equal(nd.Meta.GeneratedAt) {
		t.Errorf("generated_at = %v", meta.GeneratedAt)
	}
	if len(meta.Classifications) != 2 {
		t.Errorf("classifications = %v", meta.Classifications)
	}
}

func TestAssetFileName(t *testing.T) {
	a := types.AssetRef{ID: "ab12", Name: "Diagram.PNG"}
	if got := AssetFileName(a); got != "ab12.png" {
		t.Errorf("AssetFileName() = %q", got)
	}
	noExt := types.AssetRef{ID: "cd34", Name: "image"}
	if got := AssetFileName(noExt); got != "cd34" {
		t.Errorf("AssetFileName() = %q", got)
	}
}
