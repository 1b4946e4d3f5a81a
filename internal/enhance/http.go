// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/docforge/internal/httputil"
	"github.com/pdiddy/docforge/pkg/types"
)

// HTTPEnhancer posts the normalized document to an external enhancement
// service and returns the rewritten document. The service receives and
// returns the NormalizedDocument JSON shape.
type HTTPEnhancer struct {
	client *http.Client
	url    string
	apiKey string
}

// NewHTTP creates an enhancer for the configured endpoint.
func NewHTTP(cfg types.EnhanceConfig) *HTTPEnhancer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPEnhancer{
		client: &http.Client{Timeout: timeout},
		url:    cfg.URL,
		apiKey: cfg.APIKey,
	}
}

// Enhance sends doc to the service. Rate limiting and server errors are
// retried with backoff; any remaining failure is returned as an error for
// the orchestrator's transient-failure policy.
func (h *HTTPEnhancer) Enhance(ctx context.Context, doc *types.NormalizedDocument) (*types.NormalizedDocument, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding enhancement request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building enhancement request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := httputil.DoWithRetry(ctx, h.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("calling enhancement service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("enhancement service returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var enhanced types.NormalizedDocument
	if err := json.NewDecoder(resp.Body).Decode(&enhanced); err != nil {
		return nil, fmt.Errorf("decoding enhancement response: %w", err)
	}
	return &enhanced, nil
}
