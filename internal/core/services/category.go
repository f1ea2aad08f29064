package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/internal/core/ports"
)

// ErrProtected rejects mutations of system-owned categories. The caller sees
// a clean error instead of a backend round trip.
var ErrProtected = errors.New("category is system-owned and cannot be changed")

// Categories manages the sidebar category tree. Every successful mutation
// broadcasts on the hub so open views reload their navigation.
type Categories struct {
	api ports.CategoryAPI
	hub *Hub
	log *zap.SugaredLogger
}

// NewCategories wires the category service.
func NewCategories(api ports.CategoryAPI, hub *Hub, log *zap.SugaredLogger) *Categories {
	return &Categories{api: api, hub: hub, log: log}
}

// List returns all categories ordered for display, subcategories included.
func (s *Categories) List(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.api.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Order < cats[j].Order })
	for i := range cats {
		subs := cats[i].Subcategories
		sort.SliceStable(subs, func(a, b int) bool { return subs[a].Order < subs[b].Order })
	}
	return cats, nil
}

// Create appends a new category after the current last one.
func (s *Categories) Create(ctx context.Context, title string) (*domain.Category, error) {
	if domain.ProtectedTitle(title) {
		return nil, ErrProtected
	}
	cats, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	order := 0
	for _, c := range cats {
		if c.Order >= order {
			order = c.Order + 1
		}
	}
	created, err := s.api.CreateCategory(ctx, title, order)
	if err != nil {
		return nil, fmt.Errorf("creating category %q: %w", title, err)
	}
	s.log.Debugw("category created", "id", created.ID, "title", created.Title)
	s.hub.Notify()
	return created, nil
}

// Rename changes a category title. System-owned groups are refused.
func (s *Categories) Rename(ctx context.Context, cat domain.Category, title string) (*domain.Category, error) {
	if cat.Protected() {
		return nil, ErrProtected
	}
	updated, err := s.api.UpdateCategory(ctx, cat.ID, title, cat.Order)
	if err != nil {
		return nil, fmt.Errorf("renaming category %d: %w", cat.ID, err)
	}
	s.hub.Notify()
	return updated, nil
}

// Delete removes a category and its subcategories. System-owned groups are
// refused.
func (s *Categories) Delete(ctx context.Context, cat domain.Category) error {
	if cat.Protected() {
		return ErrProtected
	}
	if err := s.api.DeleteCategory(ctx, cat.ID); err != nil {
		return fmt.Errorf("deleting category %d: %w", cat.ID, err)
	}
	s.log.Debugw("category deleted", "id", cat.ID, "title", cat.Title)
	s.hub.Notify()
	return nil
}

// Move swaps a category with its neighbor in the given direction (-1 up,
// +1 down). Moves that would displace the system group or run off either end
// are no-ops.
func (s *Categories) Move(ctx context.Context, cats []domain.Category, idx, dir int) error {
	other := idx + dir
	if idx < 0 || other < 0 || idx >= len(cats) || other >= len(cats) {
		return nil
	}
	if cats[idx].Protected() || cats[other].Protected() {
		return nil
	}
	a, b := cats[idx], cats[other]
	if _, err := s.api.UpdateCategory(ctx, a.ID, a.Title, b.Order); err != nil {
		return fmt.Errorf("reordering category %d: %w", a.ID, err)
	}
	if _, err := s.api.UpdateCategory(ctx, b.ID, b.Title, a.Order); err != nil {
		return fmt.Errorf("reordering category %d: %w", b.ID, err)
	}
	s.hub.Notify()
	return nil
}

// AddSub appends a subcategory to a category.
func (s *Categories) AddSub(ctx context.Context, cat domain.Category, name, icon string) (*domain.SubCategory, error) {
	if domain.ProtectedTitle(name) {
		return nil, ErrProtected
	}
	order := 0
	for _, sub := range cat.Subcategories {
		if sub.Order >= order {
			order = sub.Order + 1
		}
	}
	created, err := s.api.CreateSub(ctx, cat.ID, domain.SubCategory{Name: name, Icon: icon, Order: order})
	if err != nil {
		return nil, fmt.Errorf("creating subcategory %q: %w", name, err)
	}
	s.hub.Notify()
	return created, nil
}

// RenameSub changes a subcategory's name and icon. The two built-in entries
// are refused.
func (s *Categories) RenameSub(ctx context.Context, sub domain.SubCategory, name, icon string) (*domain.SubCategory, error) {
	if domain.ProtectedTitle(sub.Name) {
		return nil, ErrProtected
	}
	updated, err := s.api.UpdateSub(ctx, sub.ID, domain.SubCategory{Name: name, Icon: icon, Order: sub.Order})
	if err != nil {
		return nil, fmt.Errorf("renaming subcategory %d: %w", sub.ID, err)
	}
	s.hub.Notify()
	return updated, nil
}

// DeleteSub removes a subcategory. The two built-in entries are refused.
func (s *Categories) DeleteSub(ctx context.Context, sub domain.SubCategory) error {
	if domain.ProtectedTitle(sub.Name) {
		return ErrProtected
	}
	if err := s.api.DeleteSub(ctx, sub.ID); err != nil {
		return fmt.Errorf("deleting subcategory %d: %w", sub.ID, err)
	}
	s.hub.Notify()
	return nil
}

// Replace overwrites all user-defined categories in one bulk call. The
// system group is stripped from the payload first.
func (s *Categories) Replace(ctx context.Context, cats []domain.Category) error {
	payload := make([]domain.Category, 0, len(cats))
	for _, c := range cats {
		if c.Protected() {
			continue
		}
		payload = append(payload, c)
	}
	if err := s.api.BulkSave(ctx, payload); err != nil {
		return fmt.Errorf("saving categories: %w", err)
	}
	s.log.Debugw("categories replaced", "count", len(payload))
	s.hub.Notify()
	return nil
}
