// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportFile is the name of the YAML manifest export.
const ExportFile = "manifest.yaml"

// Export writes a YAML snapshot of every manifest entry to dir for human
// inspection. The database remains authoritative; the export is written
// atomically via a temp file so readers never see a partial snapshot.
func (s *Store) Export(ctx context.Context, dir string) error {
	entries, err := s.All(ctx)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling manifest export: %w", err)
	}

	path := filepath.Join(dir, ExportFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest export: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("publishing manifest export: %w", err)
	}
	return nil
}
