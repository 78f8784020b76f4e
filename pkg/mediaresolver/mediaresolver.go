// Package mediaresolver resolves a page URL into playable media sources by
// asking an external extraction service, falling back to scraping the page
// itself for a title when no extractor is configured or the extractor fails.
package mediaresolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type MediaSource struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Type    string `json:"type"`
	Quality string `json:"quality,omitempty"`
	Size    string `json:"size,omitempty"`
	Format  string `json:"format,omitempty"`
}

type MediaInfo struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Thumbnail   string        `json:"thumbnail,omitempty"`
	Duration    float64       `json:"duration,omitempty"`
	Sources     []MediaSource `json:"sources"`
}

type Resolver struct {
	endpoint   string
	httpClient *http.Client
}

// New creates a resolver. endpoint is the extraction service URL; empty means
// page scraping only.
func New(endpoint string) *Resolver {
	return &Resolver{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type resolveRequest struct {
	URL string `json:"url"`
}

// Resolve returns the media info for url. The extractor result is preferred;
// scraping the page is the fallback.
func (r *Resolver) Resolve(ctx context.Context, url string) (*MediaInfo, error) {
	if r.endpoint != "" {
		info, err := r.resolveWithExtractor(ctx, url)
		if err == nil {
			return info, nil
		}
	}

	return r.resolveFromPage(ctx, url)
}

func (r *Resolver) resolveWithExtractor(ctx context.Context, url string) (*MediaInfo, error) {
	body, err := json.Marshal(resolveRequest{URL: url})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extractor request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info MediaInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(info.Sources) == 0 {
		return nil, fmt.Errorf("extractor returned no sources")
	}

	return &info, nil
}
