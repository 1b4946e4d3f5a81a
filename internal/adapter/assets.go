// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapter

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pdiddy/docforge/pkg/types"
)

// AssetID derives the stable asset identifier from the payload: the first
// 16 hex characters of its SHA-256. Identical bytes always map to the
// same ID, which makes deduplication the identity on the ID space.
func AssetID(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])[:16]
}

// AssetStore deduplicates extracted binary assets by content hash. It is
// shared across concurrent item pipelines; Put is an atomic
// insert-if-absent, so two workers extracting the same bytes agree on one
// AssetRef.
type AssetStore struct {
	mu    sync.Mutex
	byID  map[string]types.AssetRef
	order []string
}

// NewAssetStore creates an empty store.
func NewAssetStore() *AssetStore {
	return &AssetStore{byID: make(map[string]types.AssetRef)}
}

// Put registers payload under its content-derived ID and returns that ID.
// If an asset with the same content is already present the existing entry
// wins and no state changes.
func (s *AssetStore) Put(sourceID, name string, payload []byte) string {
	id := AssetID(payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; ok {
		return id
	}
	s.byID[id] = types.AssetRef{
		ID:       id,
		SourceID: sourceID,
		Name:     name,
		MIME:     mimetype.Detect(payload).String(),
		Payload:  payload,
	}
	s.order = append(s.order, id)
	return id
}

// Get returns the asset registered under id.
func (s *AssetStore) Get(id string) (types.AssetRef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	return a, ok
}

// Has reports whether id resolves to a registered asset.
func (s *AssetStore) Has(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// All returns the registered assets in insertion order.
func (s *AssetStore) All() []types.AssetRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.AssetRef, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Len returns the number of distinct assets.
func (s *AssetStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
