// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docforge/pkg/types"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store, dir
}

func sampleEntry(id string, status types.ItemStatus) types.ManifestEntry {
	return types.ManifestEntry{
		SourceID:   id,
		Status:     status,
		DocPath:    "docs/" + id + ".md",
		ReportPath: "reports/" + id + ".yaml",
		SourceHash: "abc123",
		Attempts:   1,
		UpdatedAt:  time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestStore_UpsertAndGet(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	entry := sampleEntry("a/report.docx", types.StatusConverted)
	if err := store.Upsert(ctx, entry); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	got, found, err := store.Get(ctx, "a/report.docx")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("entry not found")
	}
	if got.Status != types.StatusConverted || got.SourceHash != "abc123" || got.Attempts != 1 {
		t.Errorf("entry = %+v", got)
	}
	if !got.UpdatedAt.Equal(entry.UpdatedAt) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, entry.UpdatedAt)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store, _ := testStore(t)

	_, found, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("missing entry reported as found")
	}
}

func TestStore_UpsertReplaces(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	first := sampleEntry("x.docx", types.StatusFailed)
	first.ErrorKind = types.ErrKindIO
	first.ErrorMsg = "read failed"
	if err := store.Upsert(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := sampleEntry("x.docx", types.StatusConverted)
	second.Attempts = 2
	if err := store.Upsert(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, _, err := store.Get(ctx, "x.docx")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != types.StatusConverted || got.Attempts != 2 {
		t.Errorf("entry = %+v", got)
	}
	if got.ErrorKind != "" || got.ErrorMsg != "" {
		t.Errorf("error fields should be cleared on success: %+v", got)
	}
}

func TestStore_AllSorted(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	for _, id := range []string{"c.docx", "a.docx", "b.docx"} {
		if err := store.Upsert(ctx, sampleEntry(id, types.StatusConverted)); err != nil {
			t.Fatal(err)
		}
	}

	all, err := store.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d entries", len(all))
	}
	for i, want := range []string{"a.docx", "b.docx", "c.docx"} {
		if all[i].SourceID != want {
			t.Errorf("entry %d = %q, want %q", i, all[i].SourceID, want)
		}
	}
}

func TestStore_Counts(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	entries := []types.ManifestEntry{
		sampleEntry("a.docx", types.StatusConverted),
		sampleEntry("b.docx", types.StatusConverted),
		sampleEntry("c.docx", types.StatusFailed),
		sampleEntry("d.bin", types.StatusSkipped),
	}
	for _, e := range entries {
		if err := store.Upsert(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts[types.StatusConverted] != 2 || counts[types.StatusFailed] != 1 || counts[types.StatusSkipped] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestStore_ReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := store.Upsert(ctx, sampleEntry("persist.docx", types.StatusConverted)); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	_, found, err := reopened.Get(ctx, "persist.docx")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Error("entry lost across reopen")
	}
}

func TestStore_Export(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, sampleEntry("a.docx", types.StatusConverted)); err != nil {
		t.Fatal(err)
	}

	outDir := t.TempDir()
	if err := store.Export(ctx, outDir); err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, ExportFile))
	if err != nil {
		t.Fatal(err)
	}

	var entries []types.ManifestEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		t.Fatalf("export is not valid YAML: %v", err)
	}
	if len(entries) != 1 || entries[0].SourceID != "a.docx" {
		t.Errorf("exported entries = %+v", entries)
	}
}
