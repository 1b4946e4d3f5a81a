package types

import "time"

// ConversionConfig holds settings for the batch conversion stage.
type ConversionConfig struct {
	// Workers is the maximum number of items processed concurrently
	// (default: number of CPUs).
	Workers int `json:"workers" yaml:"workers"`

	// RetryLimit is the number of additional attempts allowed for
	// transient failures (default 2). Structural failures are never
	// retried.
	RetryLimit int `json:"retry_limit" yaml:"retry_limit"`

	// ItemTimeout bounds the processing time of a single item. Zero means
	// no deadline. Expiry counts as a transient failure.
	ItemTimeout time.Duration `json:"item_timeout" yaml:"item_timeout"`

	// DryRun reports what would be converted without writing output.
	DryRun bool `json:"dry_run" yaml:"dry_run"`
}

// ClassificationRule assigns a tag when any of its keywords appears in
// the document title or body (case-insensitive).
type ClassificationRule struct {
	Tag      string   `json:"tag" yaml:"tag"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// NormalizeConfig holds settings for Markdown normalization.
type NormalizeConfig struct {
	// HeadingCeiling is the maximum heading depth; deeper headings are
	// clamped, never dropped (default 6).
	HeadingCeiling int `json:"heading_ceiling" yaml:"heading_ceiling"`

	// Classifications configures keyword-based tag assignment. A document
	// may receive several tags; documents matching no rule are tagged
	// "unclassified".
	Classifications []ClassificationRule `json:"classifications" yaml:"classifications"`
}

// EnhanceConfig holds settings for the optional content-enhancement hook
// invoked between normalization and validation.
type EnhanceConfig struct {
	// URL is the enhancement service endpoint. Empty disables the hook.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// APIKey authenticates against the enhancement service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout is the per-call HTTP timeout (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Normalize  NormalizeConfig  `json:"normalize" yaml:"normalize"`
	Enhance    EnhanceConfig    `json:"enhance" yaml:"enhance"`
}
