// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orchestrate drives the conversion pipeline over a batch of
// source items: extract → normalize → enhance (optional) → validate →
// publish, with per-item isolation, bounded concurrency, and a
// crash-safe manifest checkpoint after every item.
package orchestrate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/docforge/internal/adapter"
	"github.com/pdiddy/docforge/internal/enhance"
	"github.com/pdiddy/docforge/internal/manifest"
	"github.com/pdiddy/docforge/internal/normalize"
	"github.com/pdiddy/docforge/internal/source"
	"github.com/pdiddy/docforge/internal/validate"
	"github.com/pdiddy/docforge/pkg/types"
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Unchanged int
	Skipped   int
	Failed    int
}

// Total returns the total number of items processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Unchanged + r.Skipped + r.Failed
}

// HasFailures reports whether any items failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Orchestrator runs one batch. Construct with New; the zero value is not
// usable.
type Orchestrator struct {
	provider  source.Provider
	store     *manifest.Store
	assets    *adapter.AssetStore
	validator *validate.Engine
	publisher *publisher
	cfg       types.PipelineConfig
	w         io.Writer

	// Enhancer is the optional enhancement hook, invoked between
	// normalization and validation. Nil disables the hook.
	Enhancer enhance.Enhancer

	// Now supplies timestamps; tests pin it for determinism.
	Now func() time.Time
}

// New creates an orchestrator writing output under outRoot and progress
// lines to w. The asset store and validation engine are per-batch: they
// are built here and shared by every worker.
func New(provider source.Provider, store *manifest.Store, outRoot string, cfg types.PipelineConfig, w io.Writer) *Orchestrator {
	return &Orchestrator{
		provider:  provider,
		store:     store,
		assets:    adapter.NewAssetStore(),
		validator: validate.New(),
		publisher: newPublisher(outRoot),
		cfg:       cfg,
		w:         w,
		Now: func() time.Time {
			return time.Now().UTC().Truncate(time.Second)
		},
	}
}

// bucket identifies which BatchResult counter an outcome belongs to.
type bucket int

const (
	bucketConverted bucket = iota
	bucketUnchanged
	bucketSkipped
	bucketFailed
)

// outcome is one item's completed result, sent from a worker to the
// single manifest writer.
type outcome struct {
	entry  types.ManifestEntry
	line   string
	bucket bucket

	// record is false for outcomes that must not touch the manifest:
	// unchanged re-runs and dry-run previews.
	record bool
}

// Run drains the full input set and returns a complete batch result. One
// item's failure never aborts the batch; only a manifest write failure
// is fatal, since the manifest is the source of truth for resumability.
// Cancelling ctx stops scheduling new items and lets in-flight items
// abort at their next stage boundary without writing ambiguous entries.
func (o *Orchestrator) Run(ctx context.Context) (BatchResult, error) {
	items, err := o.provider.List(ctx)
	if err != nil {
		return BatchResult{}, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		result   BatchResult
		storeErr error
	)

	// Single-writer discipline: workers hand completed outcomes to this
	// goroutine, which serializes manifest upserts and progress output.
	results := make(chan outcome, len(items))
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for oc := range results {
			if oc.record && !o.cfg.Conversion.DryRun {
				if err := o.store.Upsert(context.Background(), oc.entry); err != nil {
					if storeErr == nil {
						storeErr = err
						cancel()
					}
					continue
				}
			}
			fmt.Fprintln(o.w, oc.line)
			switch oc.bucket {
			case bucketConverted:
				result.Converted++
			case bucketUnchanged:
				result.Unchanged++
			case bucketSkipped:
				result.Skipped++
			case bucketFailed:
				result.Failed++
			}
		}
	}()

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(o.workers())
	for _, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if oc, ok := o.processItem(gctx, item); ok {
				results <- oc
			}
			return nil
		})
	}
	g.Wait()
	close(results)
	<-writerDone

	fmt.Fprintf(o.w, "\nBatch summary: %d converted, %d unchanged, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Unchanged, result.Skipped, result.Failed, result.Total())

	if storeErr != nil {
		return result, fmt.Errorf("manifest update failed: %w", storeErr)
	}
	if !o.cfg.Conversion.DryRun {
		if err := o.store.Export(context.Background(), o.publisher.root); err != nil {
			return result, err
		}
	}
	return result, ctx.Err()
}

func (o *Orchestrator) workers() int {
	if n := o.cfg.Conversion.Workers; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// processItem runs one item to a terminal state, applying the retry
// policy. The returned ok is false when the item was abandoned due to
// cancellation: nothing is recorded for it, so its manifest entry stays
// unambiguous.
func (o *Orchestrator) processItem(ctx context.Context, item types.SourceItem) (outcome, bool) {
	if item.Format == types.FormatUnknown {
		return outcome{
			entry: types.ManifestEntry{
				SourceID:  item.ID,
				Status:    types.StatusSkipped,
				ErrorKind: types.ErrKindUnsupported,
				ErrorMsg:  "format could not be determined",
				UpdatedAt: o.Now(),
			},
			line:   fmt.Sprintf("skipped: %s (unsupported format)", item.ID),
			bucket: bucketSkipped,
			record: true,
		}, true
	}

	for attempt := 1; ; attempt++ {
		oc, err := o.attempt(ctx, item, attempt)
		if err == nil {
			return oc, true
		}
		if ctx.Err() != nil {
			return outcome{}, false
		}

		kind, transient := classify(err)
		if transient && attempt <= o.retryLimit() {
			// Transient failure: the item goes back to pending for
			// another attempt. Structural failures are terminal; the
			// same bytes would fail the same way.
			continue
		}

		status := types.StatusFailed
		bkt := bucketFailed
		line := fmt.Sprintf("failed:  %s (%v)", item.ID, err)
		if kind == types.ErrKindUnsupported {
			status = types.StatusSkipped
			bkt = bucketSkipped
			line = fmt.Sprintf("skipped: %s (unsupported format)", item.ID)
		}
		return outcome{
			entry: types.ManifestEntry{
				SourceID:   item.ID,
				Status:     status,
				SourceHash: item.Hash,
				Attempts:   attempt,
				ErrorKind:  kind,
				ErrorMsg:   err.Error(),
				UpdatedAt:  o.Now(),
			},
			line:   line,
			bucket: bkt,
			record: true,
		}, true
	}
}

func (o *Orchestrator) retryLimit() int {
	if n := o.cfg.Conversion.RetryLimit; n >= 0 {
		return n
	}
	return 0
}

// attempt runs one pass of the item pipeline. Cancellation is checked
// between stages so an aborted item never half-publishes.
func (o *Orchestrator) attempt(ctx context.Context, item types.SourceItem, attempt int) (outcome, error) {
	if o.cfg.Conversion.ItemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.Conversion.ItemTimeout)
		defer cancel()
	}

	data, err := o.provider.Read(ctx, item.ID)
	if err != nil {
		return outcome{}, err
	}
	sum := sha256.Sum256(data)
	item.Hash = hex.EncodeToString(sum[:])

	prior, found, err := o.store.Get(ctx, item.ID)
	if err != nil {
		return outcome{}, err
	}
	if found && prior.Status == types.StatusConverted && prior.SourceHash == item.Hash {
		return outcome{
			line:   fmt.Sprintf("unchanged: %s", item.ID),
			bucket: bucketUnchanged,
		}, nil
	}

	if o.cfg.Conversion.DryRun {
		return outcome{
			line:   fmt.Sprintf("would convert: %s", item.ID),
			bucket: bucketConverted,
		}, nil
	}
	if err := ctx.Err(); err != nil {
		return outcome{}, err
	}

	doc, err := adapter.Extract(item, data, o.assets)
	if err != nil {
		return outcome{}, err
	}
	if err := ctx.Err(); err != nil {
		return outcome{}, err
	}

	title := doc.Title
	if title == "" {
		base := path.Base(item.ID)
		title = base[:len(base)-len(path.Ext(base))]
	}
	nd := normalize.Normalize(doc, o.assets, types.Metadata{
		Title:       title,
		SourceID:    item.ID,
		GeneratedAt: o.Now(),
	}, o.cfg.Normalize)

	if o.Enhancer != nil {
		enhanced, err := o.Enhancer.Enhance(ctx, nd)
		if err != nil {
			return outcome{}, fmt.Errorf("enhancing %s: %w", item.ID, err)
		}
		nd = enhanced
	}
	if err := ctx.Err(); err != nil {
		return outcome{}, err
	}

	report := o.validator.Validate(nd, o.assets)
	if report.Status() == types.ReportError {
		reportPath, rejectedPath, err := o.publisher.reject(item.ID, nd, report)
		if err != nil {
			return outcome{}, err
		}
		msg := fmt.Sprintf("%d validation error(s); output retained at %s", len(report.Errors()), rejectedPath)
		return outcome{
			entry: types.ManifestEntry{
				SourceID:   item.ID,
				Status:     types.StatusFailed,
				ReportPath: reportPath,
				SourceHash: item.Hash,
				Attempts:   attempt,
				ErrorKind:  types.ErrKindValidation,
				ErrorMsg:   msg,
				UpdatedAt:  o.Now(),
			},
			line:   fmt.Sprintf("failed:  %s (%s)", item.ID, msg),
			bucket: bucketFailed,
			record: true,
		}, nil
	}

	docPath, reportPath, err := o.publisher.publish(item.ID, nd, report, o.assets)
	if err != nil {
		return outcome{}, err
	}
	return outcome{
		entry: types.ManifestEntry{
			SourceID:   item.ID,
			Status:     types.StatusConverted,
			DocPath:    docPath,
			ReportPath: reportPath,
			SourceHash: item.Hash,
			Attempts:   attempt,
			UpdatedAt:  o.Now(),
		},
		line:   fmt.Sprintf("converted: %s", item.ID),
		bucket: bucketConverted,
		record: true,
	}, nil
}

// classify maps a pipeline error to its manifest kind and whether the
// retry policy applies.
func classify(err error) (types.ErrorKind, bool) {
	var corruptErr *adapter.CorruptInputError
	switch {
	case errors.Is(err, adapter.ErrUnsupportedFormat):
		return types.ErrKindUnsupported, false
	case errors.As(err, &corruptErr):
		return types.ErrKindCorrupt, false
	case errors.Is(err, context.DeadlineExceeded):
		return types.ErrKindTimeout, true
	default:
		return types.ErrKindIO, true
	}
}
