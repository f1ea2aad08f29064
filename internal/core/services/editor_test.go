package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/internal/core/ports/mocks"
)

func newEditor(backend *mocks.MockBackend) *Editor {
	return NewEditor(backend, backend, zap.NewNop().Sugar())
}

func TestEditor_OpenSnapshots(t *testing.T) {
	backend := mocks.NewMockBackend()
	backend.Seed(domain.Asset{ID: 1, Name: "before", MediaFiles: []string{"/images/a.png"}})
	e := newEditor(backend)

	d, err := e.Open(context.Background(), 1)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	d.Name = "after"
	if got := d.Discard(); got.Name != "before" {
		t.Errorf("Discard() name = %q, want the untouched snapshot", got.Name)
	}
}

func TestEditor_SaveUploadsThenPatches(t *testing.T) {
	backend := mocks.NewMockBackend()
	backend.Seed(domain.Asset{
		ID:         1,
		Name:       "asset",
		Type:       "LoRA",
		MediaFiles: []string{"/images/LoRA/old.png"},
	})
	e := newEditor(backend)

	d, err := e.Open(context.Background(), 1)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	d.PendingFiles = []string{"/tmp/new.png"}
	d.PendingURLs = []string{"https://example.com/remote.png"}

	saved, err := e.Save(context.Background(), d)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	want := []string{"/images/LoRA/old.png", "/images/LoRA/new.png", "/images/LoRA/remote.png"}
	if len(saved.MediaFiles) != len(want) {
		t.Fatalf("MediaFiles = %v, want %v", saved.MediaFiles, want)
	}
	for i := range want {
		if saved.MediaFiles[i] != want[i] {
			t.Errorf("MediaFiles[%d] = %q, want %q", i, saved.MediaFiles[i], want[i])
		}
	}
}

func TestEditor_SaveRejectsEmptyMediaWithoutNetwork(t *testing.T) {
	backend := mocks.NewMockBackend()
	backend.Seed(domain.Asset{ID: 1, Name: "asset", MediaFiles: []string{"/images/a.png"}})
	e := newEditor(backend)

	d, err := e.Open(context.Background(), 1)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	d.RemoveMedia("/images/a.png")

	if _, err := e.Save(context.Background(), d); !errors.Is(err, ErrNoMedia) {
		t.Fatalf("Save() error = %v, want ErrNoMedia", err)
	}
	if backend.Called("Update(") || backend.Called("UploadFile(") {
		t.Error("Save() hit the backend despite the local rejection")
	}
}

func TestEditor_SaveAllowsEmptyMediaWhenNeverHadAny(t *testing.T) {
	backend := mocks.NewMockBackend()
	backend.Seed(domain.Asset{ID: 1, Name: "asset"})
	e := newEditor(backend)

	d, err := e.Open(context.Background(), 1)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := e.Save(context.Background(), d); err != nil {
		t.Errorf("Save() error = %v, want nil for an asset without media", err)
	}
}

func TestEditor_SaveSubstitutesRemovedPreview(t *testing.T) {
	backend := mocks.NewMockBackend()
	backend.Seed(domain.Asset{
		ID:           1,
		Name:         "asset",
		PreviewImage: "/images/a.png",
		MediaFiles:   []string{"/images/a.png", "/images/b.png"},
	})
	e := newEditor(backend)

	d, err := e.Open(context.Background(), 1)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	d.RemoveMedia("/images/a.png")

	saved, err := e.Save(context.Background(), d)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.PreviewImage != "/images/b.png" {
		t.Errorf("PreviewImage = %q, want fallback to first remaining file", saved.PreviewImage)
	}
}

func TestEditor_SaveAbortsOnUploadFailure(t *testing.T) {
	backend := mocks.NewMockBackend()
	backend.Seed(domain.Asset{ID: 1, Name: "asset", MediaFiles: []string{"/images/a.png"}})
	backend.Fail("UploadFile", fmt.Errorf("disk full"))
	e := newEditor(backend)

	d, err := e.Open(context.Background(), 1)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	d.PendingFiles = []string{"/tmp/new.png"}

	if _, err := e.Save(context.Background(), d); err == nil {
		t.Fatal("Save() expected upload error")
	}
	if backend.Called("Update(") {
		t.Error("Save() patched the asset despite the failed upload")
	}
}

func TestDraft_MoveMedia(t *testing.T) {
	d := domain.NewDraft(domain.Asset{MediaFiles: []string{"a", "b", "c"}})

	d.MoveMedia(0, 2)
	want := []string{"b", "c", "a"}
	for i := range want {
		if d.KeptMedia[i] != want[i] {
			t.Fatalf("KeptMedia = %v, want %v", d.KeptMedia, want)
		}
	}

	// Out-of-range moves are ignored.
	d.MoveMedia(5, 0)
	if len(d.KeptMedia) != 3 {
		t.Errorf("KeptMedia after bad move = %v", d.KeptMedia)
	}
}

func TestDraft_Links(t *testing.T) {
	d := domain.NewDraft(domain.Asset{ID: 7, LinkedAssets: []int{2}})

	d.AddLink(7) // self
	d.AddLink(2) // duplicate
	d.AddLink(3)
	if len(d.Linked) != 2 {
		t.Fatalf("Linked = %v, want [2 3]", d.Linked)
	}
	d.RemoveLink(2)
	if len(d.Linked) != 1 || d.Linked[0] != 3 {
		t.Errorf("Linked = %v, want [3]", d.Linked)
	}
}

func TestDraft_Dirty(t *testing.T) {
	base := domain.Asset{ID: 1, Name: "n", MediaFiles: []string{"a"}}

	tests := []struct {
		name string
		edit func(*domain.Draft)
		want bool
	}{
		{"untouched", func(d *domain.Draft) {}, false},
		{"field edit", func(d *domain.Draft) { d.Name = "other" }, true},
		{"media removal", func(d *domain.Draft) { d.RemoveMedia("a") }, true},
		{"pending upload", func(d *domain.Draft) { d.PendingFiles = []string{"x"} }, true},
		{"link added", func(d *domain.Draft) { d.AddLink(5) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := domain.NewDraft(base)
			tt.edit(d)
			if got := d.Dirty(); got != tt.want {
				t.Errorf("Dirty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEditor_SearchLinksExcludesSelfAndLinked(t *testing.T) {
	backend := mocks.NewMockBackend()
	backend.Seed(
		domain.Asset{ID: 1, Name: "portrait lora"},
		domain.Asset{ID: 2, Name: "portrait checkpoint"},
		domain.Asset{ID: 3, Name: "portrait embedding"},
		domain.Asset{ID: 4, Name: "landscape lora"},
	)
	e := newEditor(backend)

	d, err := e.Open(context.Background(), 1)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	d.AddLink(2)

	hits, err := e.SearchLinks(context.Background(), d, "portrait")
	if err != nil {
		t.Fatalf("SearchLinks() error = %v", err)
	}
	if len(hits) != 1 || hits[0].ID != 3 {
		t.Errorf("SearchLinks() = %v, want only asset 3", hits)
	}
}
