package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/internal/core/ports/mocks"
)

func newCategories(backend *mocks.MockBackend) (*Categories, *Hub) {
	hub := NewHub()
	return NewCategories(backend, hub, zap.NewNop().Sugar()), hub
}

func seededBackend() *mocks.MockBackend {
	backend := mocks.NewMockBackend()
	backend.SeedCategories(
		domain.Category{ID: 1, Title: domain.GeneralTitle, Order: 0, Subcategories: []domain.SubCategory{
			{ID: 1, Name: domain.AllAssetsCategory, Order: 0},
			{ID: 2, Name: domain.FavoritesCategory, Order: 1},
		}},
		domain.Category{ID: 2, Title: "Styles", Order: 1},
	)
	return backend
}

func TestCategories_ProtectedMutationsRefused(t *testing.T) {
	backend := seededBackend()
	svc, _ := newCategories(backend)
	ctx := context.Background()

	general := domain.Category{ID: 1, Title: domain.GeneralTitle}

	if _, err := svc.Rename(ctx, general, "Other"); !errors.Is(err, ErrProtected) {
		t.Errorf("Rename(General) error = %v, want ErrProtected", err)
	}
	if err := svc.Delete(ctx, general); !errors.Is(err, ErrProtected) {
		t.Errorf("Delete(General) error = %v, want ErrProtected", err)
	}
	if err := svc.DeleteSub(ctx, domain.SubCategory{ID: 2, Name: domain.FavoritesCategory}); !errors.Is(err, ErrProtected) {
		t.Errorf("DeleteSub(Favorites) error = %v, want ErrProtected", err)
	}
	if backend.Called("UpdateCategory(") || backend.Called("DeleteCategory(") || backend.Called("DeleteSub(") {
		t.Error("protected mutation reached the backend")
	}
}

func TestCategories_CreateAppendsAfterLast(t *testing.T) {
	backend := seededBackend()
	svc, hub := newCategories(backend)
	changed := hub.Subscribe()

	created, err := svc.Create(context.Background(), "Characters")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Order != 2 {
		t.Errorf("Create() order = %d, want 2", created.Order)
	}
	select {
	case <-changed:
	case <-time.After(time.Second):
		t.Error("Create() did not notify the hub")
	}
}

func TestCategories_MoveProtectedNeighborIsNoop(t *testing.T) {
	backend := seededBackend()
	svc, _ := newCategories(backend)

	cats, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	// Moving "Styles" up would displace the system group.
	if err := svc.Move(context.Background(), cats, 1, -1); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if backend.Called("UpdateCategory(") {
		t.Error("no-op move reached the backend")
	}
}

func TestCategories_MoveSwapsOrders(t *testing.T) {
	backend := seededBackend()
	backend.SeedCategories(domain.Category{ID: 3, Title: "Poses", Order: 2})
	svc, _ := newCategories(backend)
	ctx := context.Background()

	cats, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if err := svc.Move(ctx, cats, 2, -1); err != nil {
		t.Fatalf("Move() error = %v", err)
	}

	cats, _ = svc.List(ctx)
	if cats[1].Title != "Poses" || cats[2].Title != "Styles" {
		t.Errorf("order after move = [%s %s %s]", cats[0].Title, cats[1].Title, cats[2].Title)
	}
}

func TestCategories_SubLifecycle(t *testing.T) {
	backend := seededBackend()
	svc, _ := newCategories(backend)
	ctx := context.Background()

	cats, _ := svc.List(ctx)
	styles := cats[1]

	sub, err := svc.AddSub(ctx, styles, "Watercolor", "brush")
	if err != nil {
		t.Fatalf("AddSub() error = %v", err)
	}
	if _, err := svc.RenameSub(ctx, *sub, "Oil Paint", "palette"); err != nil {
		t.Fatalf("RenameSub() error = %v", err)
	}
	if err := svc.DeleteSub(ctx, *sub); err != nil {
		t.Fatalf("DeleteSub() error = %v", err)
	}

	cats, _ = svc.List(ctx)
	if len(cats[1].Subcategories) != 0 {
		t.Errorf("subcategories after delete = %v", cats[1].SubcategoryNames())
	}
}

func TestCategories_ReplaceStripsSystemGroup(t *testing.T) {
	backend := seededBackend()
	svc, _ := newCategories(backend)

	cats, _ := svc.List(context.Background())
	if err := svc.Replace(context.Background(), cats); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if !backend.Called("BulkSave(1)") {
		t.Errorf("BulkSave payload calls = %v, want the system group stripped", backend.Calls)
	}
}
