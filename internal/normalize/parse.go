// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docforge/pkg/types"
)

var (
	imageRe    = regexp.MustCompile(`^!\[(.*)\]\((.+)\)$`)
	listItemRe = regexp.MustCompile(`^( *)- (.*)$`)
	tableSepRe = regexp.MustCompile(`^[\s|:-]+$`)
)

// Parse reads canonical Markdown, optionally preceded by YAML
// frontmatter, back into metadata and blocks. It is the inverse of
// rendering: Parse of normalized output followed by renormalization
// yields byte-identical markup.
func Parse(data []byte) (types.Metadata, []types.Block, error) {
	meta, body, err := splitFrontmatter(string(data))
	if err != nil {
		return types.Metadata{}, nil, err
	}

	var (
		blocks []types.Block
		para   []string
	)
	flush := func() {
		if len(para) > 0 {
			blocks = append(blocks, types.Block{
				Kind: types.BlockParagraph,
				Text: collapse(strings.Join(para, " ")),
			})
			para = nil
		}
	}

	lines := strings.Split(body, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flush()

		case strings.HasPrefix(trimmed, "#"):
			flush()
			level := 0
			for level < len(trimmed) && trimmed[level] == '#' {
				level++
			}
			text := strings.TrimSpace(trimmed[level:])
			if text != "" {
				blocks = append(blocks, types.Block{
					Kind:  types.BlockHeading,
					Level: level,
					Text:  text,
				})
			}

		case strings.HasPrefix(trimmed, "```"):
			flush()
			lang := strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			var code []string
			for i++; i < len(lines); i++ {
				if strings.TrimSpace(lines[i]) == "```" {
					break
				}
				code = append(code, lines[i])
			}
			blocks = append(blocks, types.Block{
				Kind: types.BlockCode,
				Lang: lang,
				Text: strings.Join(code, "\n"),
			})

		case strings.HasPrefix(trimmed, "|"):
			flush()
			var tableLines []string
			for ; i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "|"); i++ {
				tableLines = append(tableLines, strings.TrimSpace(lines[i]))
			}
			i--
			blocks = append(blocks, parseTable(tableLines))

		case listItemRe.MatchString(line):
			flush()
			m := listItemRe.FindStringSubmatch(line)
			blocks = append(blocks, types.Block{
				Kind:  types.BlockListItem,
				Depth: len(m[1]) / 2,
				Text:  collapse(m[2]),
			})

		case imageRe.MatchString(trimmed):
			m := imageRe.FindStringSubmatch(trimmed)
			target := m[2]
			if rest, ok := strings.CutPrefix(target, assetDir+"/"); ok {
				flush()
				base := path.Base(rest)
				blocks = append(blocks, types.Block{
					Kind:    types.BlockImage,
					AssetID: strings.TrimSuffix(base, path.Ext(base)),
					Caption: m[1],
				})
				continue
			}
			// External image target: carried as paragraph text, so the
			// construct survives but is not treated as an asset reference.
			para = append(para, trimmed)

		default:
			s := trimmed
			if strings.HasPrefix(s, "\\") {
				s = s[1:]
			}
			para = append(para, s)
		}
	}
	flush()

	return meta, blocks, nil
}

// parseTable converts consecutive pipe lines into a table block. The
// separator line after the header, when present, is discarded.
func parseTable(lines []string) types.Block {
	rows := make([][]string, 0, len(lines))
	for i, line := range lines {
		if i == 1 && tableSepRe.MatchString(line) && strings.Contains(line, "-") {
			continue
		}
		rows = append(rows, splitTableRow(line))
	}
	return types.Block{Kind: types.BlockTable, Rows: rows, HeaderRow: true}
}

// splitTableRow splits a pipe table line into unescaped, trimmed cells.
func splitTableRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")

	var (
		cells   []string
		cur     strings.Builder
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			if r != '|' && r != '\\' {
				cur.WriteByte('\\')
			}
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		cur.WriteByte('\\')
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}

// frontmatter mirrors the fields emitted by WithFrontmatter.
type frontmatter struct {
	Title           string   `yaml:"title"`
	SourceID        string   `yaml:"source_id"`
	Classifications []string `yaml:"classifications"`
	GeneratedAt     string   `yaml:"generated_at"`
}

// splitFrontmatter separates an optional leading YAML frontmatter block
// from the Markdown body.
func splitFrontmatter(content string) (types.Metadata, string, error) {
	if !strings.HasPrefix(content, "---\n") {
		return types.Metadata{}, content, nil
	}
	rest := content[4:]
	end := strings.Index(rest, "\n---\n")
	if end < 0 {
		return types.Metadata{}, "", fmt.Errorf("unterminated frontmatter")
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return types.Metadata{}, "", fmt.Errorf("parsing frontmatter: %w", err)
	}

	meta := types.Metadata{
		Title:           fm.Title,
		SourceID:        fm.SourceID,
		Classifications: fm.Classifications,
	}
	if fm.GeneratedAt != "" {
		ts, err := time.Parse(time.RFC3339, fm.GeneratedAt)
		if err != nil {
			return types.Metadata{}, "", fmt.Errorf("parsing generated_at: %w", err)
		}
		meta.GeneratedAt = ts
	}

	body := strings.TrimPrefix(rest[end+len("\n---\n"):], "\n")
	return meta, body, nil
}
