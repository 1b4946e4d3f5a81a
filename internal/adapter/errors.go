// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapter

import (
	"errors"
	"fmt"

	"github.com/pdiddy/docforge/pkg/types"
)

// ErrUnsupportedFormat reports an item whose format could not be
// determined or has no adapter. The item is skipped, not failed.
var ErrUnsupportedFormat = errors.New("unsupported format")

// CorruptInputError reports source bytes an adapter recognized but could
// not parse. Terminal for the item: extraction is deterministic, so the
// same bytes would fail the same way on retry.
type CorruptInputError struct {
	Format types.Format
	Reason string
	Err    error
}

func (e *CorruptInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt %s input: %s: %v", e.Format, e.Reason, e.Err)
	}
	return fmt.Sprintf("corrupt %s input: %s", e.Format, e.Reason)
}

func (e *CorruptInputError) Unwrap() error { return e.Err }

func corrupt(format types.Format, reason string, err error) error {
	return &CorruptInputError{Format: format, Reason: reason, Err: err}
}
