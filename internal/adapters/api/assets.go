package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
)

// List fetches assets for a category. The two built-in subcategories map to
// the backend's unfiltered and favorite-only listings.
func (c *Client) List(ctx context.Context, category string, favorite bool) ([]domain.Asset, error) {
	q := url.Values{}
	switch category {
	case "", domain.AllAssetsCategory:
	case domain.FavoritesCategory:
		q.Set("favorite", "true")
	default:
		q.Set("category", category)
	}
	if favorite {
		q.Set("favorite", "true")
	}
	path := "/api/assets/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var assets []domain.Asset
	if err := c.do(ctx, http.MethodGet, path, nil, &assets, nil); err != nil {
		return nil, err
	}
	return assets, nil
}

// Search runs the backend's metadata-wide substring search.
func (c *Client) Search(ctx context.Context, query, category string) ([]domain.Asset, error) {
	q := url.Values{"q": {query}}
	if category != "" && category != domain.AllAssetsCategory {
		q.Set("category", category)
	}
	var assets []domain.Asset
	if err := c.do(ctx, http.MethodGet, "/api/assets/search?"+q.Encode(), nil, &assets, nil); err != nil {
		return nil, err
	}
	return assets, nil
}

// Keywords fetches the ranked keyword cloud for a query.
func (c *Client) Keywords(ctx context.Context, query, category string) ([]domain.Keyword, error) {
	q := url.Values{"q": {query}}
	if category != "" && category != domain.AllAssetsCategory {
		q.Set("category", category)
	}
	var words []domain.Keyword
	if err := c.do(ctx, http.MethodGet, "/api/assets/keywords?"+q.Encode(), nil, &words, nil); err != nil {
		return nil, err
	}
	return words, nil
}

// Get fetches one asset by id.
func (c *Client) Get(ctx context.Context, id int) (*domain.Asset, error) {
	var asset domain.Asset
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/assets/%d", id), nil, &asset, nil); err != nil {
		return nil, err
	}
	return &asset, nil
}

// Create posts a new asset.
func (c *Client) Create(ctx context.Context, asset domain.Asset) (*domain.Asset, error) {
	var created domain.Asset
	if err := c.do(ctx, http.MethodPost, "/api/assets/", asset, &created, nil); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update PATCHes changed fields.
func (c *Client) Update(ctx context.Context, id int, upd domain.AssetUpdate) (*domain.Asset, error) {
	var updated domain.Asset
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/assets/%d", id), upd, &updated, nil); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes an asset.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/assets/%d", id), nil, nil, nil)
}

// ToggleFavorite flips the favorite flag.
func (c *Client) ToggleFavorite(ctx context.Context, id int) (*domain.Asset, error) {
	var updated domain.Asset
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/assets/%d/favorite", id), nil, &updated, nil); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListTypes returns the known asset type names.
func (c *Client) ListTypes(ctx context.Context) ([]string, error) {
	var types []string
	if err := c.do(ctx, http.MethodGet, "/api/asset-types/", nil, &types, nil); err != nil {
		return nil, err
	}
	return types, nil
}

// CreateType registers a new asset type.
func (c *Client) CreateType(ctx context.Context, name string) error {
	body := map[string]string{"name": name}
	return c.do(ctx, http.MethodPost, "/api/asset-types/", body, nil, nil)
}
