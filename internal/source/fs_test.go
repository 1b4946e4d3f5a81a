// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/docforge/pkg/types"
)

func writeSource(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFSProvider_List(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "guides/intro.md", "# Intro\n")
	writeSource(t, root, "notes.txt", "some notes")
	writeSource(t, root, ".hidden.txt", "skip me")
	writeSource(t, root, ".git/config", "skip me too")

	items, err := NewFS(root).List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("got %d items: %+v", len(items), items)
	}
	if items[0].ID != "guides/intro.md" || items[1].ID != "notes.txt" {
		t.Errorf("IDs = %q, %q", items[0].ID, items[1].ID)
	}
	if items[0].Format != types.FormatMarkdown {
		t.Errorf("format = %q, want markdown", items[0].Format)
	}
	if items[1].Format != types.FormatText {
		t.Errorf("format = %q, want text", items[1].Format)
	}
	if items[0].Size != int64(len("# Intro\n")) {
		t.Errorf("size = %d", items[0].Size)
	}
}

func TestFSProvider_ListSniffsWithoutExtension(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "page", "<!DOCTYPE html><html><body>hi</body></html>")

	items, err := NewFS(root).List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Format != types.FormatHTML {
		t.Errorf("items = %+v, want sniffed html", items)
	}
}

func TestFSProvider_ListExcludesDirectories(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "keep.txt", "source")
	writeSource(t, root, "output/docs/keep.txt.md", "converted output")

	p := NewFS(root)
	p.Exclude = []string{filepath.Join(root, "output")}

	items, err := p.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != "keep.txt" {
		t.Errorf("items = %+v, want only keep.txt", items)
	}
}

func TestFSProvider_ListCancelled(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "a.txt", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewFS(root).List(ctx); err == nil {
		t.Error("expected an error from a cancelled context")
	}
}

func TestFSProvider_Read(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "dir/file.txt", "content here")

	data, err := NewFS(root).Read(context.Background(), "dir/file.txt")
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if string(data) != "content here" {
		t.Errorf("data = %q", data)
	}

	if _, err := NewFS(root).Read(context.Background(), "missing.txt"); err == nil {
		t.Error("expected an error for a missing item")
	}
}
