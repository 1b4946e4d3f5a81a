// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks normalized documents before publication.
//
// Rules are pure: each reads the document, emits zero or more findings,
// and has no side effects. Rules run independently; one rule's findings
// never prevent another rule from running. The engine aggregates
// severity: any error finding fails the document and excludes it from
// the publish manifest.
package validate

import (
	"github.com/pdiddy/docforge/pkg/types"
)

// Resolver reports whether an asset ID resolves to an extracted asset.
// The adapter asset store satisfies it.
type Resolver interface {
	Has(id string) bool
}

// Rule is one validation check.
type Rule interface {
	// ID names the rule in findings.
	ID() string

	// Check inspects doc and returns its findings.
	Check(doc *types.NormalizedDocument, assets Resolver) []types.Finding
}

// Engine runs an ordered rule set over normalized documents.
type Engine struct {
	rules []Rule
}

// New creates an engine with the built-in rules (syntax, assets,
// metadata, structure) followed by any extra rules.
func New(extra ...Rule) *Engine {
	rules := []Rule{
		syntaxRule{},
		assetsRule{},
		metadataRule{},
		structureRule{},
	}
	return &Engine{rules: append(rules, extra...)}
}

// Validate runs every rule and merges the document's carried findings
// (extraction and normalization observations) into the report.
func (e *Engine) Validate(doc *types.NormalizedDocument, assets Resolver) types.ValidationReport {
	report := types.ValidationReport{SourceID: doc.Meta.SourceID}
	report.Findings = append(report.Findings, doc.Findings...)
	for _, r := range e.rules {
		report.Findings = append(report.Findings, r.Check(doc, assets)...)
	}
	return report
}
