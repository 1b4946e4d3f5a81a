// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/docforge/internal/normalize"
	"github.com/pdiddy/docforge/pkg/types"
)

var imageLineRe = regexp.MustCompile(`^!\[.*\]\(.+\)$`)

// syntaxRule checks markup well-formedness at the line level: balanced
// code fences and parseable image links.
type syntaxRule struct{}

func (syntaxRule) ID() string { return "syntax" }

func (syntaxRule) Check(doc *types.NormalizedDocument, _ Resolver) []types.Finding {
	var findings []types.Finding

	fences := 0
	for n, line := range strings.Split(doc.Markup, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			fences++
			continue
		}
		if strings.HasPrefix(trimmed, "![") && !imageLineRe.MatchString(trimmed) {
			findings = append(findings, types.Finding{
				Severity: types.SeverityWarning,
				Rule:     "syntax",
				Message:  "malformed image link",
				Block:    n + 1,
			})
		}
	}
	if fences%2 != 0 {
		findings = append(findings, types.Finding{
			Severity: types.SeverityError,
			Rule:     "syntax",
			Message:  "unbalanced code fence",
			Block:    -1,
		})
	}
	return findings
}

// assetsRule checks internal link integrity: every asset reference in the
// markup must resolve in the asset store. A dangling reference is an
// error finding, never a crash. This also covers enhancement hooks that
// violate the asset invariant.
type assetsRule struct{}

func (assetsRule) ID() string { return "assets" }

func (assetsRule) Check(doc *types.NormalizedDocument, assets Resolver) []types.Finding {
	_, blocks, err := normalize.Parse([]byte(doc.Markup))
	if err != nil {
		return []types.Finding{{
			Severity: types.SeverityError,
			Rule:     "assets",
			Message:  fmt.Sprintf("markup is unparseable: %v", err),
			Block:    -1,
		}}
	}

	var findings []types.Finding
	for i, b := range blocks {
		if b.Kind != types.BlockImage {
			continue
		}
		if b.AssetID == "" || assets == nil || !assets.Has(b.AssetID) {
			findings = append(findings, types.Finding{
				Severity: types.SeverityError,
				Rule:     "assets",
				Message:  fmt.Sprintf("asset reference %q does not resolve", b.AssetID),
				Block:    i,
			})
		}
	}
	return findings
}

// metadataRule checks completeness of the required metadata fields:
// title, source id, and at least one classification tag.
type metadataRule struct{}

func (metadataRule) ID() string { return "metadata" }

func (metadataRule) Check(doc *types.NormalizedDocument, _ Resolver) []types.Finding {
	var findings []types.Finding
	missing := func(field string) {
		findings = append(findings, types.Finding{
			Severity: types.SeverityError,
			Rule:     "metadata",
			Message:  "missing required metadata field: " + field,
			Block:    -1,
		})
	}

	if doc.Meta.Title == "" {
		missing("title")
	}
	if doc.Meta.SourceID == "" {
		missing("source id")
	}
	if len(doc.Meta.Classifications) == 0 {
		missing("classification")
	}
	if doc.Meta.GeneratedAt.IsZero() {
		findings = append(findings, types.Finding{
			Severity: types.SeverityWarning,
			Rule:     "metadata",
			Message:  "generated_at timestamp is unset",
			Block:    -1,
		})
	}
	return findings
}

// structureRule checks structural compliance of the parsed markup:
// heading nesting must not skip levels and tables must keep a consistent
// column count.
type structureRule struct{}

func (structureRule) ID() string { return "structure" }

func (structureRule) Check(doc *types.NormalizedDocument, _ Resolver) []types.Finding {
	_, blocks, err := normalize.Parse([]byte(doc.Markup))
	if err != nil {
		return nil // assetsRule already reports unparseable markup
	}

	var findings []types.Finding
	prev := 0
	for i, b := range blocks {
		switch b.Kind {
		case types.BlockHeading:
			if b.Level > 6 {
				findings = append(findings, types.Finding{
					Severity: types.SeverityWarning,
					Rule:     "structure",
					Message:  fmt.Sprintf("heading level %d exceeds the maximum depth of 6", b.Level),
					Block:    i,
				})
			}
			if b.Level > prev+1 {
				findings = append(findings, types.Finding{
					Severity: types.SeverityWarning,
					Rule:     "structure",
					Message:  fmt.Sprintf("heading level %d skips level %d", b.Level, prev+1),
					Block:    i,
				})
			}
			prev = b.Level

		case types.BlockTable:
			cols := -1
			for _, row := range b.Rows {
				if cols == -1 {
					cols = len(row)
					continue
				}
				if len(row) != cols {
					findings = append(findings, types.Finding{
						Severity: types.SeverityWarning,
						Rule:     "structure",
						Message:  "table rows have inconsistent column counts",
						Block:    i,
					})
					break
				}
			}
		}
	}
	return findings
}
