// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source enumerates and reads input documents. The pipeline only
// sees the Provider interface, so sources other than the local
// filesystem (a remote content lister, a fixture set in tests) plug in
// without touching the core.
package source

import (
	"context"

	"github.com/pdiddy/docforge/pkg/types"
)

// Provider supplies source items to a batch run.
type Provider interface {
	// List enumerates the available items with their detected formats.
	// Items whose format cannot be determined are included with
	// FormatUnknown; the orchestrator records them as skipped.
	List(ctx context.Context) ([]types.SourceItem, error)

	// Read returns the full content of the item with the given ID.
	// Failures are treated as transient and retried by the orchestrator.
	Read(ctx context.Context, id string) ([]byte, error)
}
