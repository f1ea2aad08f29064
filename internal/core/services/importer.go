package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/internal/core/ports"
)

// MaxQueue caps how many items an import batch may hold.
const MaxQueue = 10

// ErrQueueFull rejects additions past the batch cap.
var ErrQueueFull = fmt.Errorf("import queue is full (max %d items)", MaxQueue)

// ErrEmptyQueue rejects running a batch with nothing queued.
var ErrEmptyQueue = errors.New("import queue is empty")

// Importer runs the image import pipelines: a local/URL batch queue with
// metadata extraction, plus the CivitAI model and image imports.
type Importer struct {
	assets   ports.AssetAPI
	imports  ports.ImportAPI
	uploader ports.Uploader
	log      *zap.SugaredLogger

	mu    sync.Mutex
	queue []domain.UploadItem
}

// NewImporter wires the importer against its three ports.
func NewImporter(assets ports.AssetAPI, imports ports.ImportAPI, uploader ports.Uploader, log *zap.SugaredLogger) *Importer {
	return &Importer{assets: assets, imports: imports, uploader: uploader, log: log}
}

// AddFile extracts metadata from a local image and queues it. Extraction
// failures queue the item anyway with empty metadata; only a full queue
// refuses it.
func (im *Importer) AddFile(ctx context.Context, path string) error {
	im.mu.Lock()
	if len(im.queue) >= MaxQueue {
		im.mu.Unlock()
		return ErrQueueFull
	}
	im.mu.Unlock()

	item := domain.UploadItem{LocalPath: path, State: domain.UploadPending}
	if meta, err := im.imports.ExtractImage(ctx, path); err != nil {
		im.log.Debugw("metadata extraction failed", "path", path, "error", err)
	} else {
		item.Meta = *meta
	}

	im.mu.Lock()
	defer im.mu.Unlock()
	if len(im.queue) >= MaxQueue {
		return ErrQueueFull
	}
	im.queue = append(im.queue, item)
	return nil
}

// AddURL extracts metadata from a remote image and queues it.
func (im *Importer) AddURL(ctx context.Context, url string) error {
	im.mu.Lock()
	if len(im.queue) >= MaxQueue {
		im.mu.Unlock()
		return ErrQueueFull
	}
	im.mu.Unlock()

	item := domain.UploadItem{URL: url, State: domain.UploadPending}
	if meta, err := im.imports.ExtractImageURL(ctx, url); err != nil {
		im.log.Debugw("metadata extraction failed", "url", url, "error", err)
	} else {
		item.Meta = *meta
	}

	im.mu.Lock()
	defer im.mu.Unlock()
	if len(im.queue) >= MaxQueue {
		return ErrQueueFull
	}
	im.queue = append(im.queue, item)
	return nil
}

// Queue returns a copy of the current batch.
func (im *Importer) Queue() []domain.UploadItem {
	im.mu.Lock()
	defer im.mu.Unlock()
	return append([]domain.UploadItem(nil), im.queue...)
}

// Clear drops the whole batch.
func (im *Importer) Clear() {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.queue = nil
}

// Run processes every pending item in order: upload the media, then create
// an asset prefilled from the extracted metadata. A failed item is marked and
// skipped; the batch keeps going. Successfully imported items stay in the
// queue with their new asset id until Clear. Items are claimed one at a time
// under the lock, so overlapping Run calls never import the same item twice.
func (im *Importer) Run(ctx context.Context, assetType string) (done, failed int) {
	for i := 0; ; i++ {
		im.mu.Lock()
		if i >= len(im.queue) {
			im.mu.Unlock()
			return done, failed
		}
		if im.queue[i].State != domain.UploadPending {
			im.mu.Unlock()
			continue
		}
		im.queue[i].State = domain.UploadRunning
		im.queue[i].Err = ""
		item := im.queue[i]
		im.mu.Unlock()

		asset, err := im.importOne(ctx, &item, assetType)

		im.mu.Lock()
		if i < len(im.queue) {
			if err != nil {
				im.queue[i].State = domain.UploadFailed
				im.queue[i].Err = err.Error()
			} else {
				im.queue[i].State = domain.UploadDone
				im.queue[i].AssetID = asset.ID
				im.queue[i].StoredPath = asset.Preview()
			}
		}
		im.mu.Unlock()

		if err != nil {
			im.log.Warnw("import failed", "source", item.Source(), "error", err)
			failed++
			continue
		}
		done++
	}
}

func (im *Importer) importOne(ctx context.Context, item *domain.UploadItem, assetType string) (*domain.Asset, error) {
	var stored string
	var err error
	if item.LocalPath != "" {
		stored, err = im.uploader.UploadFile(ctx, item.LocalPath, assetType)
	} else {
		stored, err = im.uploader.UploadURL(ctx, item.URL, assetType)
	}
	if err != nil {
		return nil, err
	}

	name := item.Meta.ModelName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(stored), filepath.Ext(stored))
	}
	asset := domain.Asset{
		Name:           name,
		Type:           assetType,
		PreviewImage:   stored,
		MediaFiles:     []string{stored},
		PositivePrompt: item.Meta.PositivePrompt,
		NegativePrompt: item.Meta.NegativePrompt,
		BaseModel:      item.Meta.BaseModel,
		CustomFields:   item.Meta.CustomFields,
	}
	created, err := im.assets.Create(ctx, asset)
	if err != nil {
		return nil, err
	}
	im.log.Infow("image imported", "id", created.ID, "name", created.Name)
	return created, nil
}

// FromCivitai imports a model by its CivitAI page URL or bare id.
func (im *Importer) FromCivitai(ctx context.Context, url, apiKey string) (*domain.Asset, error) {
	asset, err := im.imports.FromCivitai(ctx, url, apiKey)
	if err != nil {
		return nil, fmt.Errorf("importing from civitai: %w", err)
	}
	im.log.Infow("model imported", "id", asset.ID, "name", asset.Name)
	return asset, nil
}

// FromCivitaiImage imports one CivitAI image by id.
func (im *Importer) FromCivitaiImage(ctx context.Context, imageID int) (*domain.Asset, error) {
	asset, err := im.imports.FromCivitaiImage(ctx, imageID)
	if err != nil {
		return nil, fmt.Errorf("importing civitai image %d: %w", imageID, err)
	}
	im.log.Infow("image imported", "id", asset.ID, "name", asset.Name)
	return asset, nil
}

// Search queries the CivitAI proxy.
func (im *Importer) Search(ctx context.Context, req ports.CivitaiSearchRequest) ([]ports.CivitaiModel, error) {
	hits, err := im.imports.CivitaiSearch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("searching civitai: %w", err)
	}
	return hits, nil
}
