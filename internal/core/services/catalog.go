package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/internal/core/ports"
)

// SortKey selects the catalog sort column.
type SortKey string

const (
	SortByName  SortKey = "name"
	SortByType  SortKey = "type"
	SortByMedia SortKey = "media"
)

// DefaultPageSize is the fixed catalog page length.
const DefaultPageSize = 20

// Catalog holds the loaded result set for one category view and derives the
// filtered, sorted, paginated slice clients actually render. All derivation is
// local; only loading and mutations touch the backend.
type Catalog struct {
	api  ports.AssetAPI
	coll *collate.Collator

	mu         sync.Mutex
	category   string
	assets     []domain.Asset
	query      string
	typeFilter string
	showMature bool
	sortKey    SortKey
	asc        bool
	page       int
	pageSize   int
	gen        uint64
}

// NewCatalog returns a catalog sorted by name ascending on page 1.
func NewCatalog(api ports.AssetAPI) *Catalog {
	return &Catalog{
		api:      api,
		coll:     collate.New(language.Und, collate.IgnoreCase),
		sortKey:  SortByName,
		asc:      true,
		page:     1,
		pageSize: DefaultPageSize,
	}
}

// Reload fetches the result set for a category and resets to page 1. Filters
// and sort order survive the reload.
func (c *Catalog) Reload(ctx context.Context, category string) error {
	assets, err := c.api.List(ctx, category, category == domain.FavoritesCategory)
	if err != nil {
		return fmt.Errorf("loading %q: %w", category, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.category = category
	c.assets = assets
	c.page = 1
	return nil
}

// Category returns the currently loaded category.
func (c *Catalog) Category() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.category
}

// SetQuery filters by case-insensitive name substring and resets to page 1.
func (c *Catalog) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = strings.TrimSpace(q)
	c.page = 1
}

// SetTypeFilter narrows to one exact asset type; empty clears the filter.
func (c *Catalog) SetTypeFilter(t string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.typeFilter = t
	c.page = 1
}

// SetShowMature includes or excludes mature-rated assets and resets to page 1.
// Filtering happens before pagination so page counts stay honest.
func (c *Catalog) SetShowMature(show bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showMature = show
	c.page = 1
}

// SortBy selects a sort column. Reselecting the active column flips the
// direction; switching columns starts ascending.
func (c *Catalog) SortBy(key SortKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == c.sortKey {
		c.asc = !c.asc
		return
	}
	c.sortKey = key
	c.asc = true
}

// Sort returns the active column and direction.
func (c *Catalog) Sort() (SortKey, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortKey, c.asc
}

// filtered derives the filter result. Callers hold c.mu.
func (c *Catalog) filtered() []domain.Asset {
	out := make([]domain.Asset, 0, len(c.assets))
	q := strings.ToLower(c.query)
	for _, a := range c.assets {
		if q != "" && !strings.Contains(strings.ToLower(a.Name), q) {
			continue
		}
		if c.typeFilter != "" && a.Type != c.typeFilter {
			continue
		}
		if !c.showMature && a.Mature() {
			continue
		}
		out = append(out, a)
	}
	c.sortSlice(out)
	return out
}

func (c *Catalog) sortSlice(assets []domain.Asset) {
	less := func(a, b domain.Asset) bool {
		switch c.sortKey {
		case SortByType:
			if cmp := c.coll.CompareString(a.Type, b.Type); cmp != 0 {
				return cmp < 0
			}
		case SortByMedia:
			if a.MediaCount() != b.MediaCount() {
				return a.MediaCount() < b.MediaCount()
			}
		}
		return c.coll.CompareString(a.Name, b.Name) < 0
	}
	sort.SliceStable(assets, func(i, j int) bool {
		if c.asc {
			return less(assets[i], assets[j])
		}
		return less(assets[j], assets[i])
	})
}

// All returns the whole filtered, sorted result set.
func (c *Catalog) All() []domain.Asset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filtered()
}

// Page returns the current 1-based page number.
func (c *Catalog) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// TotalPages returns the page count for the filtered set, at least 1.
func (c *Catalog) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPages(len(c.filtered()))
}

func (c *Catalog) totalPages(n int) int {
	pages := (n + c.pageSize - 1) / c.pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// SetPage moves to a 1-based page. Out-of-range targets are ignored.
func (c *Catalog) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 || n > c.totalPages(len(c.filtered())) {
		return
	}
	c.page = n
}

// Visible returns the current page of the filtered, sorted set. When filter
// changes shrink the set below the current page, the page clamps down.
func (c *Catalog) Visible() []domain.Asset {
	c.mu.Lock()
	defer c.mu.Unlock()
	all := c.filtered()
	if max := c.totalPages(len(all)); c.page > max {
		c.page = max
	}
	start := (c.page - 1) * c.pageSize
	if start >= len(all) {
		return nil
	}
	end := start + c.pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// ToggleFavorite flips an asset's favorite flag and folds the result back into
// the loaded set. In the Favorites view an unfavorited asset disappears.
func (c *Catalog) ToggleFavorite(ctx context.Context, id int) (*domain.Asset, error) {
	updated, err := c.api.ToggleFavorite(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("toggling favorite on %d: %w", id, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.assets {
		if c.assets[i].ID != id {
			continue
		}
		if c.category == domain.FavoritesCategory && !updated.IsFavorite {
			c.assets = append(c.assets[:i], c.assets[i+1:]...)
		} else {
			c.assets[i] = *updated
		}
		break
	}
	return updated, nil
}

// Remove drops an asset from the loaded set without a backend call. Used after
// a detail-view delete.
func (c *Catalog) Remove(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.assets {
		if c.assets[i].ID == id {
			c.assets = append(c.assets[:i], c.assets[i+1:]...)
			return
		}
	}
}

// DeleteMany deletes assets one by one and stops at the first failure,
// returning how many deletions succeeded. Earlier deletions are not rolled
// back.
func (c *Catalog) DeleteMany(ctx context.Context, ids []int) (int, error) {
	for i, id := range ids {
		if err := c.api.Delete(ctx, id); err != nil {
			return i, fmt.Errorf("deleting asset %d: %w", id, err)
		}
		c.Remove(id)
	}
	return len(ids), nil
}

// RetypeMany reassigns the type of several assets one by one, stopping at the
// first failure and returning how many succeeded.
func (c *Catalog) RetypeMany(ctx context.Context, ids []int, newType string) (int, error) {
	for i, id := range ids {
		updated, err := c.api.Update(ctx, id, domain.AssetUpdate{Type: domain.String(newType)})
		if err != nil {
			return i, fmt.Errorf("retyping asset %d: %w", id, err)
		}
		c.mu.Lock()
		for j := range c.assets {
			if c.assets[j].ID == id {
				c.assets[j] = *updated
				break
			}
		}
		c.mu.Unlock()
	}
	return len(ids), nil
}

// Search replaces the loaded set with a backend search result. Results of
// searches superseded while in flight are dropped.
func (c *Catalog) Search(ctx context.Context, query string) error {
	gen := c.NextGeneration()
	assets, err := c.api.Search(ctx, query, c.Category())
	if err != nil {
		return fmt.Errorf("searching %q: %w", query, err)
	}
	c.ApplySearch(gen, assets)
	return nil
}

// NextGeneration invalidates in-flight searches and returns the token a new
// one must present to land its result.
func (c *Catalog) NextGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen
}

// ApplySearch installs a search result set if its generation is still current.
// Stale results are dropped and false is returned.
func (c *Catalog) ApplySearch(gen uint64, assets []domain.Asset) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.assets = assets
	c.page = 1
	return true
}
