package ports

import (
	"context"
	"io"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
)

// AssetAPI is the port to the backend's asset endpoints.
type AssetAPI interface {
	// List returns assets for a category filter; Favorites/All Assets have
	// their special server-side meaning. favorite narrows to favorites.
	List(ctx context.Context, category string, favorite bool) ([]domain.Asset, error)

	// Search runs the backend substring search across the metadata fields.
	Search(ctx context.Context, query, category string) ([]domain.Asset, error)

	// Keywords returns the ranked keyword cloud for the query/category.
	Keywords(ctx context.Context, query, category string) ([]domain.Keyword, error)

	// Get retrieves one asset with its linked assets resolved.
	Get(ctx context.Context, id int) (*domain.Asset, error)

	// Create posts a new asset payload.
	Create(ctx context.Context, asset domain.Asset) (*domain.Asset, error)

	// Update applies a partial PATCH.
	Update(ctx context.Context, id int, upd domain.AssetUpdate) (*domain.Asset, error)

	// Delete removes an asset.
	Delete(ctx context.Context, id int) error

	// ToggleFavorite flips the favorite flag server-side.
	ToggleFavorite(ctx context.Context, id int) (*domain.Asset, error)

	// ListTypes returns the known asset type names.
	ListTypes(ctx context.Context) ([]string, error)

	// CreateType registers a new asset type name.
	CreateType(ctx context.Context, name string) error
}

// CategoryAPI is the port to the backend's category endpoints. Method names
// carry the Category suffix so one client can implement AssetAPI alongside.
type CategoryAPI interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, title string, order int) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int, title string, order int) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int) error

	CreateSub(ctx context.Context, categoryID int, sub domain.SubCategory) (*domain.SubCategory, error)
	UpdateSub(ctx context.Context, id int, sub domain.SubCategory) (*domain.SubCategory, error)
	DeleteSub(ctx context.Context, id int) error

	// BulkSave replaces all non-protected categories in one call.
	BulkSave(ctx context.Context, categories []domain.Category) error
}

// Uploader is the port to the backend's media storage endpoint.
type Uploader interface {
	// UploadFile stores a local file under the given asset type and returns
	// the backend-relative path.
	UploadFile(ctx context.Context, path, assetType string) (string, error)

	// UploadURL makes the backend fetch a remote URL into storage.
	UploadURL(ctx context.Context, url, assetType string) (string, error)
}

// CivitaiModel is one search hit from the CivitAI proxy.
type CivitaiModel struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Creator string `json:"creator"`
	NSFW    bool   `json:"nsfw"`
}

// CivitaiSearchRequest parameterizes the proxy search. The API key unlocks
// restricted models upstream.
type CivitaiSearchRequest struct {
	Query  string
	Limit  int
	Page   int
	Sort   string
	APIKey string
}

// ImportAPI is the port to the backend's import and extraction endpoints.
type ImportAPI interface {
	// FromCivitai imports a model page URL (or bare id/slug) as a new asset.
	FromCivitai(ctx context.Context, civitaiURL, apiKey string) (*domain.Asset, error)

	// FromCivitaiImage imports a single CivitAI image by id.
	FromCivitaiImage(ctx context.Context, imageID int) (*domain.Asset, error)

	// CivitaiSearch proxies a model search. Timeout failures are retried by
	// the adapter within a small fixed budget.
	CivitaiSearch(ctx context.Context, req CivitaiSearchRequest) ([]CivitaiModel, error)

	// ExtractImage extracts embedded generation metadata from a local image.
	ExtractImage(ctx context.Context, path string) (*domain.ExtractedMeta, error)

	// ExtractImageURL extracts metadata from a remote image URL.
	ExtractImageURL(ctx context.Context, url string) (*domain.ExtractedMeta, error)
}

// ArchiveAPI is the port to the bulk export/import endpoints.
type ArchiveAPI interface {
	// Export streams the full catalog archive into w.
	Export(ctx context.Context, w io.Writer) error

	// ImportArchive uploads a catalog archive and returns the number of
	// imported assets.
	ImportArchive(ctx context.Context, path string) (int, error)
}

// Preferences is the port to the persisted user preference store.
type Preferences interface {
	GetString(key, def string) string
	GetBool(key string, def bool) bool
	Set(key string, value any) error
}
