package mocks

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/internal/core/ports"
)

// MockBackend is an in-memory stand-in for the whole backend API surface.
// Tests preload it with assets and categories and inspect what was called.
type MockBackend struct {
	mu sync.RWMutex

	Assets     map[int]*domain.Asset
	Categories map[int]*domain.Category
	Types      []string
	nextID     int
	nextCatID  int
	nextSubID  int

	// Canned extraction result and search hits.
	Extracted  domain.ExtractedMeta
	SearchHits []ports.CivitaiModel

	// Forced errors, keyed by operation name ("List", "Update", ...).
	Errs map[string]error

	// Call log, one entry per invocation, e.g. "Delete(3)".
	Calls []string
}

// NewMockBackend returns an empty backend with no canned failures.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		Assets:     make(map[int]*domain.Asset),
		Categories: make(map[int]*domain.Category),
		Errs:       make(map[string]error),
		nextID:     1,
		nextCatID:  1,
		nextSubID:  1,
	}
}

// Seed inserts assets directly, keeping their ids.
func (m *MockBackend) Seed(assets ...domain.Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range assets {
		a := a
		m.Assets[a.ID] = &a
		if a.ID >= m.nextID {
			m.nextID = a.ID + 1
		}
	}
}

// SeedCategories inserts categories directly, keeping their ids.
func (m *MockBackend) SeedCategories(cats ...domain.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range cats {
		c := c
		m.Categories[c.ID] = &c
		if c.ID >= m.nextCatID {
			m.nextCatID = c.ID + 1
		}
		for _, s := range c.Subcategories {
			if s.ID >= m.nextSubID {
				m.nextSubID = s.ID + 1
			}
		}
	}
}

// Fail makes the named operation return err on every call.
func (m *MockBackend) Fail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errs[op] = err
}

func (m *MockBackend) record(format string, args ...any) {
	m.Calls = append(m.Calls, fmt.Sprintf(format, args...))
}

// Called reports whether any call matching prefix was recorded.
func (m *MockBackend) Called(prefix string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.Calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func (m *MockBackend) List(ctx context.Context, category string, favorite bool) ([]domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("List(%q,%v)", category, favorite)
	if err := m.Errs["List"]; err != nil {
		return nil, err
	}
	out := make([]domain.Asset, 0, len(m.Assets))
	for _, a := range m.Assets {
		if favorite || category == domain.FavoritesCategory {
			if !a.IsFavorite {
				continue
			}
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockBackend) Search(ctx context.Context, query, category string) ([]domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Search(%q,%q)", query, category)
	if err := m.Errs["Search"]; err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := []domain.Asset{}
	for _, a := range m.Assets {
		if q == "" || strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(strings.ToLower(a.Tags), q) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockBackend) Keywords(ctx context.Context, query, category string) ([]domain.Keyword, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Keywords(%q,%q)", query, category)
	if err := m.Errs["Keywords"]; err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, a := range m.Assets {
		for _, t := range a.TagList() {
			counts[t]++
		}
	}
	out := make([]domain.Keyword, 0, len(counts))
	for w, c := range counts {
		out = append(out, domain.Keyword{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	return out, nil
}

func (m *MockBackend) Get(ctx context.Context, id int) (*domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Get(%d)", id)
	if err := m.Errs["Get"]; err != nil {
		return nil, err
	}
	a, ok := m.Assets[id]
	if !ok {
		return nil, fmt.Errorf("asset %d not found", id)
	}
	cp := *a
	return &cp, nil
}

func (m *MockBackend) Create(ctx context.Context, asset domain.Asset) (*domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Create(%q)", asset.Name)
	if err := m.Errs["Create"]; err != nil {
		return nil, err
	}
	asset.ID = m.nextID
	m.nextID++
	m.Assets[asset.ID] = &asset
	cp := asset
	return &cp, nil
}

func (m *MockBackend) Update(ctx context.Context, id int, upd domain.AssetUpdate) (*domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Update(%d)", id)
	if err := m.Errs["Update"]; err != nil {
		return nil, err
	}
	a, ok := m.Assets[id]
	if !ok {
		return nil, fmt.Errorf("asset %d not found", id)
	}
	if upd.Name != nil {
		a.Name = *upd.Name
	}
	if upd.Type != nil {
		a.Type = *upd.Type
	}
	if upd.Description != nil {
		a.Description = *upd.Description
	}
	if upd.Tags != nil {
		a.Tags = *upd.Tags
	}
	if upd.PreviewImage != nil {
		a.PreviewImage = *upd.PreviewImage
	}
	if upd.MediaFiles != nil {
		a.MediaFiles = append([]string(nil), (*upd.MediaFiles)...)
	}
	if upd.LinkedAssets != nil {
		a.LinkedAssets = append([]int(nil), (*upd.LinkedAssets)...)
	}
	if upd.CustomFields != nil {
		a.CustomFields = *upd.CustomFields
	}
	if upd.NSFWLevel != nil {
		a.NSFWLevel = *upd.NSFWLevel
	}
	cp := *a
	return &cp, nil
}

func (m *MockBackend) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Delete(%d)", id)
	if err := m.Errs["Delete"]; err != nil {
		return err
	}
	if _, ok := m.Assets[id]; !ok {
		return fmt.Errorf("asset %d not found", id)
	}
	delete(m.Assets, id)
	return nil
}

func (m *MockBackend) ToggleFavorite(ctx context.Context, id int) (*domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ToggleFavorite(%d)", id)
	if err := m.Errs["ToggleFavorite"]; err != nil {
		return nil, err
	}
	a, ok := m.Assets[id]
	if !ok {
		return nil, fmt.Errorf("asset %d not found", id)
	}
	a.IsFavorite = !a.IsFavorite
	cp := *a
	return &cp, nil
}

func (m *MockBackend) ListTypes(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.Errs["ListTypes"]; err != nil {
		return nil, err
	}
	return append([]string(nil), m.Types...), nil
}

func (m *MockBackend) CreateType(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateType(%q)", name)
	if err := m.Errs["CreateType"]; err != nil {
		return err
	}
	m.Types = append(m.Types, name)
	return nil
}

// Category API.

func (m *MockBackend) ListCategories(ctx context.Context) ([]domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.Errs["ListCategories"]; err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(m.Categories))
	for _, c := range m.Categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (m *MockBackend) CreateCategory(ctx context.Context, title string, order int) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateCategory(%q)", title)
	if err := m.Errs["CreateCategory"]; err != nil {
		return nil, err
	}
	c := &domain.Category{ID: m.nextCatID, Title: title, Order: order}
	m.nextCatID++
	m.Categories[c.ID] = c
	cp := *c
	return &cp, nil
}

func (m *MockBackend) UpdateCategory(ctx context.Context, id int, title string, order int) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdateCategory(%d,%q)", id, title)
	if err := m.Errs["UpdateCategory"]; err != nil {
		return nil, err
	}
	c, ok := m.Categories[id]
	if !ok {
		return nil, fmt.Errorf("category %d not found", id)
	}
	c.Title = title
	c.Order = order
	cp := *c
	return &cp, nil
}

func (m *MockBackend) DeleteCategory(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteCategory(%d)", id)
	if err := m.Errs["DeleteCategory"]; err != nil {
		return err
	}
	delete(m.Categories, id)
	return nil
}

func (m *MockBackend) CreateSub(ctx context.Context, categoryID int, sub domain.SubCategory) (*domain.SubCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateSub(%d,%q)", categoryID, sub.Name)
	if err := m.Errs["CreateSub"]; err != nil {
		return nil, err
	}
	c, ok := m.Categories[categoryID]
	if !ok {
		return nil, fmt.Errorf("category %d not found", categoryID)
	}
	sub.ID = m.nextSubID
	m.nextSubID++
	c.Subcategories = append(c.Subcategories, sub)
	return &sub, nil
}

func (m *MockBackend) UpdateSub(ctx context.Context, id int, sub domain.SubCategory) (*domain.SubCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdateSub(%d,%q)", id, sub.Name)
	if err := m.Errs["UpdateSub"]; err != nil {
		return nil, err
	}
	for _, c := range m.Categories {
		for i := range c.Subcategories {
			if c.Subcategories[i].ID == id {
				sub.ID = id
				c.Subcategories[i] = sub
				return &sub, nil
			}
		}
	}
	return nil, fmt.Errorf("subcategory %d not found", id)
}

func (m *MockBackend) DeleteSub(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteSub(%d)", id)
	if err := m.Errs["DeleteSub"]; err != nil {
		return err
	}
	for _, c := range m.Categories {
		for i := range c.Subcategories {
			if c.Subcategories[i].ID == id {
				c.Subcategories = append(c.Subcategories[:i], c.Subcategories[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("subcategory %d not found", id)
}

func (m *MockBackend) BulkSave(ctx context.Context, categories []domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("BulkSave(%d)", len(categories))
	if err := m.Errs["BulkSave"]; err != nil {
		return err
	}
	for i := range categories {
		c := categories[i]
		if c.ID == 0 {
			c.ID = m.nextCatID
			m.nextCatID++
		}
		m.Categories[c.ID] = &c
	}
	return nil
}

// Uploads.

func (m *MockBackend) UploadFile(ctx context.Context, path, assetType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UploadFile(%q,%q)", path, assetType)
	if err := m.Errs["UploadFile"]; err != nil {
		return "", err
	}
	return "/images/" + assetType + "/" + baseName(path), nil
}

func (m *MockBackend) UploadURL(ctx context.Context, url, assetType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UploadURL(%q,%q)", url, assetType)
	if err := m.Errs["UploadURL"]; err != nil {
		return "", err
	}
	return "/images/" + assetType + "/" + baseName(url), nil
}

func baseName(p string) string {
	if i := strings.LastIndexAny(p, "/\\"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// Imports.

func (m *MockBackend) FromCivitai(ctx context.Context, civitaiURL, apiKey string) (*domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FromCivitai(%q)", civitaiURL)
	if err := m.Errs["FromCivitai"]; err != nil {
		return nil, err
	}
	a := &domain.Asset{ID: m.nextID, Name: "imported", DownloadURL: civitaiURL}
	m.nextID++
	m.Assets[a.ID] = a
	cp := *a
	return &cp, nil
}

func (m *MockBackend) FromCivitaiImage(ctx context.Context, imageID int) (*domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FromCivitaiImage(%d)", imageID)
	if err := m.Errs["FromCivitaiImage"]; err != nil {
		return nil, err
	}
	a := &domain.Asset{ID: m.nextID, Name: fmt.Sprintf("image-%d", imageID), Type: "Images"}
	m.nextID++
	m.Assets[a.ID] = a
	cp := *a
	return &cp, nil
}

func (m *MockBackend) CivitaiSearch(ctx context.Context, req ports.CivitaiSearchRequest) ([]ports.CivitaiModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CivitaiSearch(%q)", req.Query)
	if err := m.Errs["CivitaiSearch"]; err != nil {
		return nil, err
	}
	return append([]ports.CivitaiModel(nil), m.SearchHits...), nil
}

func (m *MockBackend) ExtractImage(ctx context.Context, path string) (*domain.ExtractedMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ExtractImage(%q)", path)
	if err := m.Errs["ExtractImage"]; err != nil {
		return nil, err
	}
	cp := m.Extracted
	return &cp, nil
}

func (m *MockBackend) ExtractImageURL(ctx context.Context, url string) (*domain.ExtractedMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ExtractImageURL(%q)", url)
	if err := m.Errs["ExtractImageURL"]; err != nil {
		return nil, err
	}
	cp := m.Extracted
	return &cp, nil
}

// Archive.

func (m *MockBackend) Export(ctx context.Context, w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Export()")
	if err := m.Errs["Export"]; err != nil {
		return err
	}
	_, err := w.Write([]byte("PK"))
	return err
}

func (m *MockBackend) ImportArchive(ctx context.Context, path string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ImportArchive(%q)", path)
	if err := m.Errs["ImportArchive"]; err != nil {
		return 0, err
	}
	return len(m.Assets), nil
}

// MockPrefs is an in-memory preference store.
type MockPrefs struct {
	mu     sync.RWMutex
	Values map[string]any
	SetErr error
}

func NewMockPrefs() *MockPrefs {
	return &MockPrefs{Values: make(map[string]any)}
}

func (p *MockPrefs) GetString(key, def string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.Values[key].(string); ok {
		return v
	}
	return def
}

func (p *MockPrefs) GetBool(key string, def bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.Values[key].(bool); ok {
		return v
	}
	return def
}

func (p *MockPrefs) Set(key string, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.SetErr != nil {
		return p.SetErr
	}
	p.Values[key] = value
	return nil
}
