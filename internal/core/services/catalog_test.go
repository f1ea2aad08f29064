package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/internal/core/ports/mocks"
)

func seedCatalog(t *testing.T, assets ...domain.Asset) (*Catalog, *mocks.MockBackend) {
	t.Helper()
	backend := mocks.NewMockBackend()
	backend.Seed(assets...)
	c := NewCatalog(backend)
	if err := c.Reload(context.Background(), domain.AllAssetsCategory); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	return c, backend
}

func names(assets []domain.Asset) []string {
	out := make([]string, 0, len(assets))
	for _, a := range assets {
		out = append(out, a.Name)
	}
	return out
}

func TestCatalog_FilterByName(t *testing.T) {
	c, _ := seedCatalog(t,
		domain.Asset{ID: 1, Name: "Anime Style LoRA", Type: "LoRA"},
		domain.Asset{ID: 2, Name: "Realistic Vision", Type: "Checkpoint"},
		domain.Asset{ID: 3, Name: "anime portrait", Type: "Checkpoint"},
	)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"case insensitive substring", "ANIME", []string{"anime portrait", "Anime Style LoRA"}},
		{"no match", "flux", []string{}},
		{"empty keeps everything", "", []string{"anime portrait", "Anime Style LoRA", "Realistic Vision"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.SetQuery(tt.query)
			got := names(c.All())
			if len(got) != len(tt.want) {
				t.Fatalf("All() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("All()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCatalog_FilterByType(t *testing.T) {
	c, _ := seedCatalog(t,
		domain.Asset{ID: 1, Name: "a", Type: "LoRA"},
		domain.Asset{ID: 2, Name: "b", Type: "Checkpoint"},
		domain.Asset{ID: 3, Name: "c", Type: "LoRA"},
	)

	c.SetTypeFilter("LoRA")
	if got := names(c.All()); len(got) != 2 {
		t.Fatalf("type filter kept %v, want 2 assets", got)
	}

	// Exact match only, no substring semantics.
	c.SetTypeFilter("LoR")
	if got := c.All(); len(got) != 0 {
		t.Errorf("partial type %q matched %d assets, want 0", "LoR", len(got))
	}

	c.SetTypeFilter("")
	if got := c.All(); len(got) != 3 {
		t.Errorf("cleared filter kept %d assets, want 3", len(got))
	}
}

func TestCatalog_SortDirectionToggle(t *testing.T) {
	c, _ := seedCatalog(t,
		domain.Asset{ID: 1, Name: "beta", Type: "LoRA", MediaFiles: []string{"a", "b"}},
		domain.Asset{ID: 2, Name: "Alpha", Type: "Checkpoint", MediaFiles: []string{"a"}},
		domain.Asset{ID: 3, Name: "gamma", Type: "Checkpoint"},
	)

	if got := names(c.All()); got[0] != "Alpha" {
		t.Fatalf("default sort starts with %q, want Alpha", got[0])
	}

	// Reselecting the active column flips the direction.
	c.SortBy(SortByName)
	if got := names(c.All()); got[0] != "gamma" {
		t.Errorf("descending name sort starts with %q, want gamma", got[0])
	}

	// Switching columns always starts ascending.
	c.SortBy(SortByMedia)
	if key, asc := c.Sort(); key != SortByMedia || !asc {
		t.Errorf("Sort() = %v,%v, want media ascending", key, asc)
	}
	if got := names(c.All()); got[0] != "gamma" {
		t.Errorf("media sort starts with %q, want gamma (0 files)", got[0])
	}
}

func TestCatalog_Pagination(t *testing.T) {
	assets := make([]domain.Asset, 0, 45)
	for i := 1; i <= 45; i++ {
		assets = append(assets, domain.Asset{ID: i, Name: fmt.Sprintf("asset-%03d", i)})
	}
	c, _ := seedCatalog(t, assets...)

	if got := c.TotalPages(); got != 3 {
		t.Fatalf("TotalPages() = %d, want 3", got)
	}
	if got := len(c.Visible()); got != 20 {
		t.Errorf("page 1 has %d rows, want 20", got)
	}

	c.SetPage(3)
	if got := len(c.Visible()); got != 5 {
		t.Errorf("page 3 has %d rows, want 5", got)
	}

	// Out-of-range targets are ignored.
	c.SetPage(4)
	if got := c.Page(); got != 3 {
		t.Errorf("SetPage(4) moved to %d, want stay on 3", got)
	}
	c.SetPage(0)
	if got := c.Page(); got != 3 {
		t.Errorf("SetPage(0) moved to %d, want stay on 3", got)
	}

	// A filter that shrinks the set clamps the page down.
	c.SetQuery("asset-001")
	if got := len(c.Visible()); got != 1 {
		t.Errorf("filtered page has %d rows, want 1", got)
	}
	if got := c.Page(); got != 1 {
		t.Errorf("page after filter = %d, want 1", got)
	}
}

func TestCatalog_ToggleFavoriteInFavoritesView(t *testing.T) {
	backend := mocks.NewMockBackend()
	backend.Seed(
		domain.Asset{ID: 1, Name: "a", IsFavorite: true},
		domain.Asset{ID: 2, Name: "b", IsFavorite: true},
	)
	c := NewCatalog(backend)
	if err := c.Reload(context.Background(), domain.FavoritesCategory); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if _, err := c.ToggleFavorite(context.Background(), 1); err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	got := c.All()
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("favorites view after untoggle = %v, want only id 2", names(got))
	}
}

func TestCatalog_ToggleFavoriteKeepsRowElsewhere(t *testing.T) {
	c, _ := seedCatalog(t, domain.Asset{ID: 1, Name: "a", IsFavorite: false})

	updated, err := c.ToggleFavorite(context.Background(), 1)
	if err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	if !updated.IsFavorite {
		t.Error("ToggleFavorite() did not set the flag")
	}
	got := c.All()
	if len(got) != 1 || !got[0].IsFavorite {
		t.Errorf("row after toggle = %+v, want kept with flag set", got)
	}
}

func TestCatalog_DeleteManyStopsAtFirstFailure(t *testing.T) {
	c, backend := seedCatalog(t,
		domain.Asset{ID: 1, Name: "a"},
		domain.Asset{ID: 2, Name: "b"},
		domain.Asset{ID: 3, Name: "c"},
	)
	backend.Fail("Delete", fmt.Errorf("boom"))

	done, err := c.DeleteMany(context.Background(), []int{1, 2, 3})
	if err == nil {
		t.Fatal("DeleteMany() expected error")
	}
	if done != 0 {
		t.Errorf("DeleteMany() done = %d, want 0", done)
	}

	// No rollback: successes before the failure stay deleted.
	backend.Errs = map[string]error{}
	done, err = c.DeleteMany(context.Background(), []int{1, 2})
	if err != nil || done != 2 {
		t.Fatalf("DeleteMany() = %d,%v, want 2,nil", done, err)
	}
	if got := c.All(); len(got) != 1 || got[0].ID != 3 {
		t.Errorf("catalog after delete = %v, want only id 3", names(got))
	}
}

func TestCatalog_RetypeMany(t *testing.T) {
	c, _ := seedCatalog(t,
		domain.Asset{ID: 1, Name: "a", Type: "LoRA"},
		domain.Asset{ID: 2, Name: "b", Type: "LoRA"},
	)

	done, err := c.RetypeMany(context.Background(), []int{1, 2}, "Checkpoint")
	if err != nil {
		t.Fatalf("RetypeMany() error = %v", err)
	}
	if done != 2 {
		t.Errorf("RetypeMany() done = %d, want 2", done)
	}
	for _, a := range c.All() {
		if a.Type != "Checkpoint" {
			t.Errorf("asset %d type = %q, want Checkpoint", a.ID, a.Type)
		}
	}
}

func TestCatalog_StaleSearchDropped(t *testing.T) {
	c, _ := seedCatalog(t, domain.Asset{ID: 1, Name: "current"})

	stale := c.NextGeneration()
	fresh := c.NextGeneration()

	if c.ApplySearch(stale, []domain.Asset{{ID: 9, Name: "stale"}}) {
		t.Error("ApplySearch() accepted a superseded generation")
	}
	if !c.ApplySearch(fresh, []domain.Asset{{ID: 2, Name: "fresh"}}) {
		t.Error("ApplySearch() rejected the current generation")
	}
	got := c.All()
	if len(got) != 1 || got[0].Name != "fresh" {
		t.Errorf("catalog after search = %v, want [fresh]", names(got))
	}
}

func TestCatalog_MatureHiddenBeforePagination(t *testing.T) {
	seed := make([]domain.Asset, 0, 23)
	for i := 1; i <= 21; i++ {
		seed = append(seed, domain.Asset{ID: i, Name: fmt.Sprintf("safe-%02d", i)})
	}
	seed = append(seed,
		domain.Asset{ID: 100, Name: "aa mature first", NSFWLevel: "mature"},
		domain.Asset{ID: 101, Name: "ab mature second", NSFWLevel: "x"},
	)
	c, _ := seedCatalog(t, seed...)

	if got := len(c.All()); got != 21 {
		t.Fatalf("All() hid %d assets, want 21 visible", got)
	}
	if got := c.TotalPages(); got != 2 {
		t.Errorf("TotalPages() = %d, want 2", got)
	}
	page := c.Visible()
	if len(page) != DefaultPageSize {
		t.Fatalf("page 1 length = %d, want a full page of %d", len(page), DefaultPageSize)
	}
	for _, a := range page {
		if a.Mature() {
			t.Errorf("page 1 contains mature asset %q", a.Name)
		}
	}

	c.SetShowMature(true)
	if got := len(c.All()); got != 23 {
		t.Errorf("All() with mature shown = %d, want 23", got)
	}
	if got := names(c.Visible())[0]; got != "aa mature first" {
		t.Errorf("first visible = %q, want the mature asset sorted in", got)
	}
}
