// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Severity grades a validation finding.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Finding is one validation observation.
type Finding struct {
	// Severity is the finding grade.
	Severity Severity `json:"severity" yaml:"severity"`

	// Rule identifies the rule that produced the finding (e.g. "assets",
	// "metadata") or the pipeline stage for carried findings ("extract",
	// "normalize").
	Rule string `json:"rule" yaml:"rule"`

	// Message describes the observation.
	Message string `json:"message" yaml:"message"`

	// Block is the index of the offending block, or the line number for
	// markup-level rules. -1 when the finding is document-wide.
	Block int `json:"block" yaml:"block"`
}

// ReportStatus is the aggregate outcome of validating one document.
type ReportStatus string

const (
	ReportOK      ReportStatus = "ok"
	ReportWarning ReportStatus = "warning"
	ReportError   ReportStatus = "error"
)

// ValidationReport collects the findings for one document.
type ValidationReport struct {
	// SourceID is the item the validated document was converted from.
	SourceID string `json:"source_id" yaml:"source_id"`

	// Findings lists every observation, in rule order.
	Findings []Finding `json:"findings" yaml:"findings"`
}

// Status returns the aggregate severity: error beats warning beats ok.
// A document whose report status is error is excluded from publishing.
func (r ValidationReport) Status() ReportStatus {
	status := ReportOK
	for _, f := range r.Findings {
		switch f.Severity {
		case SeverityError:
			return ReportError
		case SeverityWarning:
			status = ReportWarning
		}
	}
	return status
}

// Errors returns only the error-severity findings.
func (r ValidationReport) Errors() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}
