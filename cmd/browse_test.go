package cmd

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lokarni/lokarni-cli/internal/adapters/prefs"
	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/internal/core/ports/mocks"
	"github.com/lokarni/lokarni-cli/internal/core/services"
)

func newBrowseTestModel(t *testing.T, backend *mocks.MockBackend, category string) browseModel {
	t.Helper()
	store, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.yaml"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	appPrefs = store
	changeHub = services.NewHub()
	catalogService = services.NewCatalog(backend)
	if err := catalogService.Reload(context.Background(), category); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	return newBrowseModel(context.Background(), nil)
}

func TestBrowse_CursorClampsAfterFavoritesRowDrop(t *testing.T) {
	backend := mocks.NewMockBackend()
	backend.Seed(
		domain.Asset{ID: 1, Name: "Alpha", IsFavorite: true},
		domain.Asset{ID: 2, Name: "Beta", IsFavorite: true},
	)
	m := newBrowseTestModel(t, backend, domain.FavoritesCategory)
	m.cursor = 1

	updated, err := catalogService.ToggleFavorite(context.Background(), 2)
	if err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	next, _ := m.Update(favoriteToggledMsg{asset: updated})
	m = next.(browseModel)
	if m.cursor != 0 {
		t.Fatalf("cursor = %d after the row dropped, want 0", m.cursor)
	}

	// Acting on the selection right after the drop must target the
	// remaining row instead of indexing past the page.
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(browseModel)
	if cmd == nil {
		t.Error("enter on the remaining row produced no load command")
	}
	if got := catalogService.Visible(); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("visible after drop = %v, want only asset 1", got)
	}
	if m.mode != browseList {
		t.Errorf("mode = %v, want list until the detail loads", m.mode)
	}
}

func TestBrowse_NSFWToggleReachesCatalog(t *testing.T) {
	backend := mocks.NewMockBackend()
	backend.Seed(
		domain.Asset{ID: 1, Name: "Plain"},
		domain.Asset{ID: 2, Name: "Racy", NSFWLevel: "mature"},
	)
	m := newBrowseTestModel(t, backend, domain.AllAssetsCategory)

	if got := m.visibleAssets(); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("visible with nsfw hidden = %v, want only the plain asset", got)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = next.(browseModel)
	if got := m.visibleAssets(); len(got) != 2 {
		t.Fatalf("visible with nsfw shown = %v, want both assets", got)
	}
	if !appPrefs.GetBool(prefs.KeyShowNSFW, false) {
		t.Error("show-nsfw preference not persisted")
	}
}
