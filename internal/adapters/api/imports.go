package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/internal/core/ports"
)

// searchRetries is how many extra attempts a timed-out proxy search gets.
const searchRetries = 2

// searchBackoff is the fixed pause between search attempts.
const searchBackoff = 500 * time.Millisecond

// FromCivitai asks the backend to import a model by CivitAI URL. The backend
// forwards the API key upstream for restricted models.
func (c *Client) FromCivitai(ctx context.Context, civitaiURL, apiKey string) (*domain.Asset, error) {
	body := map[string]string{"civitai_url": civitaiURL}
	if apiKey != "" {
		body["api_key"] = apiKey
	}
	var asset domain.Asset
	if err := c.do(ctx, http.MethodPost, "/api/import/from-civitai", body, &asset, nil); err != nil {
		return nil, err
	}
	return &asset, nil
}

// FromCivitaiImage imports one CivitAI image by id.
func (c *Client) FromCivitaiImage(ctx context.Context, imageID int) (*domain.Asset, error) {
	var asset domain.Asset
	path := fmt.Sprintf("/api/import/from-civitai-image/%d", imageID)
	if err := c.do(ctx, http.MethodPost, path, nil, &asset, nil); err != nil {
		return nil, err
	}
	return &asset, nil
}

// CivitaiSearch proxies a model search. The upstream API is slow under load,
// so timeout-class failures get a small fixed retry budget; every other
// failure surfaces immediately.
func (c *Client) CivitaiSearch(ctx context.Context, req ports.CivitaiSearchRequest) ([]ports.CivitaiModel, error) {
	q := url.Values{"query": {req.Query}}
	if req.APIKey != "" {
		q.Set("api_key", req.APIKey)
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Page > 0 {
		q.Set("page", strconv.Itoa(req.Page))
	}
	if req.Sort != "" {
		q.Set("sort", req.Sort)
	}
	path := "/api/import/civitai/search?" + q.Encode()

	var lastErr error
	for attempt := 0; attempt <= searchRetries; attempt++ {
		if attempt > 0 {
			c.log.Debugw("retrying civitai search", "attempt", attempt)
			select {
			case <-time.After(searchBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		var hits []ports.CivitaiModel
		err := c.do(ctx, http.MethodGet, path, nil, &hits, nil)
		if err == nil {
			return hits, nil
		}
		if !errors.Is(err, ErrTimeout) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// ExtractImage posts a local image for metadata extraction.
func (c *Client) ExtractImage(ctx context.Context, path string) (*domain.ExtractedMeta, error) {
	var meta domain.ExtractedMeta
	if err := c.multipartFile(ctx, "/api/import/extract-metadata/", path, nil, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// ExtractImageURL asks the backend to fetch and extract a remote image.
func (c *Client) ExtractImageURL(ctx context.Context, imageURL string) (*domain.ExtractedMeta, error) {
	body := map[string]string{"url": imageURL}
	var meta domain.ExtractedMeta
	if err := c.do(ctx, http.MethodPost, "/api/import/extract-metadata-url/", body, &meta, nil); err != nil {
		return nil, err
	}
	return &meta, nil
}
