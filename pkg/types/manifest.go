// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ItemStatus tracks where a source item is in the conversion pipeline.
type ItemStatus string

const (
	StatusPending   ItemStatus = "pending"
	StatusConverted ItemStatus = "converted"
	StatusFailed    ItemStatus = "failed"
	StatusSkipped   ItemStatus = "skipped"
)

// ErrorKind classifies a per-item failure in the manifest.
type ErrorKind string

const (
	// ErrKindUnsupported means the item's format could not be determined;
	// the item is skipped without extraction.
	ErrKindUnsupported ErrorKind = "unsupported_format"

	// ErrKindCorrupt means an adapter could not parse the item's bytes.
	// Terminal: the same bytes would fail again.
	ErrKindCorrupt ErrorKind = "corrupt_input"

	// ErrKindIO means reading the source failed. Transient and retryable.
	ErrKindIO ErrorKind = "io"

	// ErrKindTimeout means the per-item deadline expired. Treated like IO.
	ErrKindTimeout ErrorKind = "timeout"

	// ErrKindValidation means the document was produced but carries
	// error-severity findings. The output is retained for inspection but
	// never published.
	ErrKindValidation ErrorKind = "validation"
)

// ManifestEntry records the conversion outcome for one source item. The
// manifest is the only pipeline state that outlives a batch run.
type ManifestEntry struct {
	// SourceID keys the entry.
	SourceID string `json:"source_id" yaml:"source_id"`

	// Status is the item's terminal state for this run.
	Status ItemStatus `json:"status" yaml:"status"`

	// DocPath is the published document path, relative to the output
	// root. Empty unless Status is converted.
	DocPath string `json:"doc_path,omitempty" yaml:"doc_path,omitempty"`

	// ReportPath is the validation report path, relative to the output
	// root. Set whenever a report was produced, including for failed items.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`

	// SourceHash is the hex SHA-256 of the source bytes that were
	// converted. Matching hashes let re-runs skip unchanged items.
	SourceHash string `json:"source_hash,omitempty" yaml:"source_hash,omitempty"`

	// Attempts counts processing attempts, including retries.
	Attempts int `json:"attempts" yaml:"attempts"`

	// ErrorKind and ErrorMsg describe the failure for failed or skipped
	// items, with enough detail to diagnose without re-running.
	ErrorKind ErrorKind `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	ErrorMsg  string    `json:"error_msg,omitempty" yaml:"error_msg,omitempty"`

	// UpdatedAt is when the entry was last written.
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
