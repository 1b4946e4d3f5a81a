// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapter

import (
	"strings"
	"sync"
	"testing"
)

func TestAssetID(t *testing.T) {
	payload := []byte("same bytes")

	a := AssetID(payload)
	b := AssetID(payload)
	if a != b {
		t.Errorf("AssetID is not deterministic: %q vs %q", a, b)
	}
	if len(a) != 16 {
		t.Errorf("AssetID length = %d, want 16", len(a))
	}
	if a == AssetID([]byte("other bytes")) {
		t.Error("different payloads should not share an ID")
	}
}

func TestAssetStore_PutDeduplicates(t *testing.T) {
	store := NewAssetStore()
	payload := []byte("\x89PNG\r\n\x1a\nimage data")

	first := store.Put("a.docx", "image1.png", payload)
	second := store.Put("b.pptx", "different-name.png", payload)

	if first != second {
		t.Errorf("same payload produced two IDs: %q vs %q", first, second)
	}
	if store.Len() != 1 {
		t.Errorf("store has %d assets, want 1", store.Len())
	}

	// First registration wins.
	a, ok := store.Get(first)
	if !ok {
		t.Fatal("asset not found")
	}
	if a.SourceID != "a.docx" || a.Name != "image1.png" {
		t.Errorf("asset = %+v, want the first registration", a)
	}
}

func TestAssetStore_SniffsMIME(t *testing.T) {
	store := NewAssetStore()
	id := store.Put("x.docx", "pic.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))

	a, _ := store.Get(id)
	if !strings.HasPrefix(a.MIME, "image/png") {
		t.Errorf("MIME = %q, want image/png", a.MIME)
	}
}

func TestAssetStore_AllKeepsInsertionOrder(t *testing.T) {
	store := NewAssetStore()
	first := store.Put("s", "a", []byte("payload one"))
	second := store.Put("s", "b", []byte("payload two"))

	all := store.All()
	if len(all) != 2 || all[0].ID != first || all[1].ID != second {
		t.Errorf("All() = %+v", all)
	}
}

func TestAssetStore_ConcurrentPut(t *testing.T) {
	store := NewAssetStore()
	payload := []byte("shared image bytes")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Put("doc", "img.png", payload)
		}()
	}
	wg.Wait()

	if store.Len() != 1 {
		t.Errorf("store has %d assets, want 1", store.Len())
	}
}
