package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/internal/core/ports"
)

// ErrNoMedia rejects a save that would strip the last media file from an
// asset that had any. The check runs before any network traffic.
var ErrNoMedia = errors.New("an asset with media must keep at least one file")

// Editor owns the draft lifecycle of the detail view: open a snapshot, buffer
// edits, then commit everything in one save.
type Editor struct {
	api      ports.AssetAPI
	uploader ports.Uploader
	log      *zap.SugaredLogger
}

// NewEditor wires the editor against the asset and upload ports.
func NewEditor(api ports.AssetAPI, uploader ports.Uploader, log *zap.SugaredLogger) *Editor {
	return &Editor{api: api, uploader: uploader, log: log}
}

// Open fetches an asset and snapshots it into a draft.
func (e *Editor) Open(ctx context.Context, id int) (*domain.Draft, error) {
	asset, err := e.api.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("opening asset %d: %w", id, err)
	}
	return domain.NewDraft(*asset), nil
}

// Save commits a draft: pending attachments are uploaded first, then the
// merged media list and all edited fields go out as a single partial update.
// A failed upload aborts the save with the asset untouched.
func (e *Editor) Save(ctx context.Context, d *domain.Draft) (*domain.Asset, error) {
	base := d.Base()
	if d.HadMedia() && len(d.KeptMedia)+len(d.PendingFiles)+len(d.PendingURLs) == 0 {
		return nil, ErrNoMedia
	}

	media := append([]string(nil), d.KeptMedia...)
	for _, path := range d.PendingFiles {
		stored, err := e.uploader.UploadFile(ctx, path, d.Type)
		if err != nil {
			return nil, fmt.Errorf("uploading %s: %w", path, err)
		}
		media = append(media, stored)
	}
	for _, url := range d.PendingURLs {
		stored, err := e.uploader.UploadURL(ctx, url, d.Type)
		if err != nil {
			return nil, fmt.Errorf("uploading %s: %w", url, err)
		}
		media = append(media, stored)
	}

	// A removed preview image falls back to the first remaining file.
	preview := base.PreviewImage
	if preview != "" && !contains(media, preview) {
		preview = ""
		if len(media) > 0 {
			preview = media[0]
		}
	}

	upd := domain.AssetUpdate{
		Name:           domain.String(d.Name),
		Type:           domain.String(d.Type),
		Path:           domain.String(d.Path),
		PreviewImage:   domain.String(preview),
		Description:    domain.String(d.Description),
		TriggerWords:   domain.String(d.TriggerWords),
		PositivePrompt: domain.String(d.PositivePrompt),
		NegativePrompt: domain.String(d.NegativePrompt),
		Tags:           domain.String(d.Tags),
		ModelVersion:   domain.String(d.ModelVersion),
		UsedResources:  domain.String(d.UsedResources),
		Creator:        domain.String(d.Creator),
		BaseModel:      domain.String(d.BaseModel),
		NSFWLevel:      domain.String(d.NSFWLevel),
		DownloadURL:    domain.String(d.DownloadURL),
		MediaFiles:     &media,
		CustomFields:   &d.CustomFields,
		LinkedAssets:   &d.Linked,
	}
	saved, err := e.api.Update(ctx, base.ID, upd)
	if err != nil {
		return nil, fmt.Errorf("saving asset %d: %w", base.ID, err)
	}
	e.log.Debugw("asset saved", "id", saved.ID, "media", len(saved.MediaFiles))
	return saved, nil
}

// SearchLinks finds candidates for cross-linking: a backend substring search
// with the draft's own asset and the already-linked ids filtered out.
func (e *Editor) SearchLinks(ctx context.Context, d *domain.Draft, query string) ([]domain.Asset, error) {
	hits, err := e.api.Search(ctx, query, domain.AllAssetsCategory)
	if err != nil {
		return nil, fmt.Errorf("searching link candidates: %w", err)
	}
	self := d.Base().ID
	out := hits[:0]
	for _, h := range hits {
		if h.ID == self || containsInt(d.Linked, h.ID) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

// Delete removes the asset behind a draft.
func (e *Editor) Delete(ctx context.Context, d *domain.Draft) error {
	id := d.Base().ID
	if err := e.api.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting asset %d: %w", id, err)
	}
	e.log.Debugw("asset deleted", "id", id)
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}
