// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrate

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docforge/internal/adapter"
	"github.com/pdiddy/docforge/internal/normalize"
	"github.com/pdiddy/docforge/pkg/types"
)

const (
	// docsDir holds published documents, mirroring the source tree. The
	// source extension stays in the name ("guides/setup.docx.md") so two
	// sources differing only in extension never collide.
	docsDir = "docs"
	// rejectedDir retains documents that failed validation, for
	// inspection. Nothing under it is published.
	rejectedDir = "rejected"
	// reportsDir holds one validation report per processed item.
	reportsDir = "reports"
	// assetsDir holds deduplicated extracted assets, named by content ID.
	assetsDir = "assets"
)

// publisher writes conversion output under the output root. Every write
// goes through a temp file and rename, so output visibility is
// all-or-nothing per file and a converted document never appears
// half-written.
type publisher struct {
	root string
}

func newPublisher(root string) *publisher {
	return &publisher{root: root}
}

// publish writes the document, its referenced assets, and its validation
// report. It returns the document and report paths relative to the
// output root.
func (p *publisher) publish(sourceID string, nd *types.NormalizedDocument, report types.ValidationReport, assets *adapter.AssetStore) (docPath, reportPath string, err error) {
	for _, id := range nd.AssetIDs {
		a, ok := assets.Get(id)
		if !ok {
			// Validation passed, so every referenced ID resolves; a miss
			// here means the store and markup disagree.
			return "", "", fmt.Errorf("asset %s referenced by %s is not in the store", id, sourceID)
		}
		name := filepath.Join(assetsDir, normalize.AssetFileName(a))
		if err := p.writeFile(name, a.Payload); err != nil {
			return "", "", err
		}
	}

	reportPath, err = p.writeReport(sourceID, report)
	if err != nil {
		return "", "", err
	}

	docPath = filepath.Join(docsDir, filepath.FromSlash(sourceID)+".md")
	if err := p.writeFile(docPath, []byte(normalize.WithFrontmatter(nd))); err != nil {
		return "", "", err
	}
	return filepath.ToSlash(docPath), reportPath, nil
}

// reject retains a document that failed validation under rejectedDir and
// writes its report. The document is never published.
func (p *publisher) reject(sourceID string, nd *types.NormalizedDocument, report types.ValidationReport) (reportPath, rejectedPath string, err error) {
	reportPath, err = p.writeReport(sourceID, report)
	if err != nil {
		return "", "", err
	}

	rejectedPath = filepath.Join(rejectedDir, filepath.FromSlash(sourceID)+".md")
	if err := p.writeFile(rejectedPath, []byte(normalize.WithFrontmatter(nd))); err != nil {
		return "", "", err
	}
	return reportPath, filepath.ToSlash(rejectedPath), nil
}

// reportFile is the YAML shape of a persisted validation report.
type reportFile struct {
	SourceID string             `yaml:"source_id"`
	Status   types.ReportStatus `yaml:"status"`
	Findings []types.Finding    `yaml:"findings"`
}

func (p *publisher) writeReport(sourceID string, report types.ValidationReport) (string, error) {
	data, err := yaml.Marshal(reportFile{
		SourceID: report.SourceID,
		Status:   report.Status(),
		Findings: report.Findings,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling report for %s: %w", sourceID, err)
	}

	path := filepath.Join(reportsDir, filepath.FromSlash(sourceID)+".yaml")
	if err := p.writeFile(path, data); err != nil {
		return "", err
	}
	return filepath.ToSlash(path), nil
}

// writeFile atomically writes data to rel under the output root.
func (p *publisher) writeFile(rel string, data []byte) error {
	path := filepath.Join(p.root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("publishing %s: %w", path, err)
	}
	return nil
}
