// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enhance defines the optional content-enhancement hook invoked
// between normalization and validation.
//
// The hook is an injected collaborator, not a hard dependency: the
// pipeline's correctness never depends on it. Whatever an enhancer
// returns is revalidated, so a hook that violates the asset-reference
// invariant produces an error finding, not a crash.
package enhance

import (
	"context"

	"github.com/pdiddy/docforge/pkg/types"
)

// Enhancer rewrites a normalized document. Implementations must be safe
// for concurrent use; the orchestrator calls Enhance from several worker
// goroutines. Errors are treated as transient and retried under the
// batch retry policy.
type Enhancer interface {
	Enhance(ctx context.Context, doc *types.NormalizedDocument) (*types.NormalizedDocument, error)
}

// Func adapts a plain function to the Enhancer interface.
type Func func(ctx context.Context, doc *types.NormalizedDocument) (*types.NormalizedDocument, error)

// Enhance calls f.
func (f Func) Enhance(ctx context.Context, doc *types.NormalizedDocument) (*types.NormalizedDocument, error) {
	return f(ctx, doc)
}
