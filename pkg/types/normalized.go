// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Metadata is the document metadata emitted as YAML frontmatter on
// published documents.
type Metadata struct {
	// Title is the document title.
	Title string `json:"title" yaml:"title"`

	// SourceID is the originating SourceItem ID.
	SourceID string `json:"source_id" yaml:"source_id"`

	// Classifications holds zero or more content tags. A document may
	// legitimately match several categories; validation only requires
	// that at least one tag is present.
	Classifications []string `json:"classifications" yaml:"classifications"`

	// GeneratedAt is the conversion timestamp.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// NormalizedDocument is the canonical conversion output: Markdown body
// text plus the assets it references. Every asset ID that appears in the
// markup must exist in the asset store; validation enforces this.
type NormalizedDocument struct {
	// Markup is the canonical Markdown body, without frontmatter.
	Markup string `json:"markup" yaml:"markup"`

	// AssetIDs lists the asset IDs referenced by the markup, in first
	// appearance order.
	AssetIDs []string `json:"asset_ids,omitempty" yaml:"asset_ids,omitempty"`

	// Meta is the document metadata.
	Meta Metadata `json:"meta" yaml:"meta"`

	// Findings carries observations accumulated during extraction and
	// normalization, merged into the validation report.
	Findings []Finding `json:"findings,omitempty" yaml:"findings,omitempty"`
}
