// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize rewrites the intermediate document model into
// canonical Markdown.
//
// Normalization is deterministic and idempotent: parsing the emitted
// markup (see Parse) and normalizing it again yields byte-identical
// output. Structural problems are repaired rather than rejected:
// heading levels are clamped and tightened, ragged tables are padded,
// and unsupported characters are stripped with an info finding.
package normalize

import (
	"fmt"
	"path"
	"strings"

	"github.com/pdiddy/docforge/pkg/types"
)

// AssetLookup resolves asset IDs to their extracted assets. The adapter
// asset store satisfies it.
type AssetLookup interface {
	Get(id string) (types.AssetRef, bool)
}

// Normalize renders doc into a canonical Markdown document. meta supplies
// the document identity; classifications are computed from the content
// when meta carries none. The returned document's findings include those
// carried from extraction.
func Normalize(doc *types.Document, assets AssetLookup, meta types.Metadata, cfg types.NormalizeConfig) *types.NormalizedDocument {
	ceiling := cfg.HeadingCeiling
	if ceiling <= 0 || ceiling > 6 {
		ceiling = 6
	}

	blocks := make([]types.Block, len(doc.Blocks))
	copy(blocks, doc.Blocks)

	findings := append([]types.Finding(nil), doc.Findings...)
	tightenHeadings(blocks, ceiling)
	blocks = sanitizeBlocks(blocks, &findings)

	markup, assetIDs := render(blocks, assets)

	if len(meta.Classifications) == 0 {
		meta.Classifications = Classify(meta.Title, markup, cfg.Classifications)
	}

	return &types.NormalizedDocument{
		Markup:   markup,
		AssetIDs: assetIDs,
		Meta:     meta,
		Findings: findings,
	}
}

// tightenHeadings clamps heading levels to the ceiling and closes level
// skips: a heading may open at most one level below the previous one.
// Already-normalized sequences pass through unchanged.
func tightenHeadings(blocks []types.Block, ceiling int) {
	prev := 0
	for i := range blocks {
		if blocks[i].Kind != types.BlockHeading {
			continue
		}
		level := blocks[i].Level
		if level < 1 {
			level = 1
		}
		if level > ceiling {
			level = ceiling
		}
		if level > prev+1 {
			level = prev + 1
		}
		blocks[i].Level = level
		prev = level
	}
}

// sanitizeBlocks strips unsupported control characters from text content,
// recording one info finding per affected block. Code blocks keep their
// layout-significant whitespace.
func sanitizeBlocks(blocks []types.Block, findings *[]types.Finding) []types.Block {
	for i := range blocks {
		var stripped int
		switch blocks[i].Kind {
		case types.BlockCode:
			blocks[i].Text, stripped = stripUnsupported(blocks[i].Text, true)
		case types.BlockTable:
			for r, row := range blocks[i].Rows {
				for c, cell := range row {
					clean, n := stripUnsupported(cell, false)
					blocks[i].Rows[r][c] = clean
					stripped += n
				}
			}
		default:
			blocks[i].Text, stripped = stripUnsupported(blocks[i].Text, false)
		}
		if stripped > 0 {
			*findings = append(*findings, types.Finding{
				Severity: types.SeverityInfo,
				Rule:     "normalize",
				Message:  fmt.Sprintf("stripped %d unsupported control character(s)", stripped),
				Block:    i,
			})
		}
	}
	return blocks
}

// stripUnsupported removes control characters, the Unicode replacement
// character, and private-use-area runes. keepLayout preserves newlines
// and tabs (for code blocks).
func stripUnsupported(text string, keepLayout bool) (string, int) {
	stripped := 0
	var sb strings.Builder
	for _, r := range text {
		if isUnsupportedRune(r, keepLayout) {
			stripped++
			continue
		}
		sb.WriteRune(r)
	}
	if stripped == 0 {
		return text, 0
	}
	return sb.String(), stripped
}

func isUnsupportedRune(r rune, keepLayout bool) bool {
	if r == 0xFFFD {
		return true
	}
	if r >= 0xE000 && r <= 0xF8FF {
		return true
	}
	if r < 0x20 {
		if keepLayout && (r == '\n' || r == '\t') {
			return false
		}
		return true
	}
	return false
}

// AssetFileName returns the published filename for an asset: the
// content-derived ID plus the original extension.
func AssetFileName(a types.AssetRef) string {
	return a.ID + strings.ToLower(path.Ext(a.Name))
}
