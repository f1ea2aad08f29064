package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
)

type categoryPayload struct {
	Title string `json:"title"`
	Order int    `json:"order"`
}

type subPayload struct {
	CategoryID int    `json:"category_id,omitempty"`
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	Order      int    `json:"order"`
}

// ListCategories fetches the full category tree.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories/", nil, &cats, nil); err != nil {
		return nil, err
	}
	return cats, nil
}

// CreateCategory posts a new category group.
func (c *Client) CreateCategory(ctx context.Context, title string, order int) (*domain.Category, error) {
	var created domain.Category
	body := categoryPayload{Title: title, Order: order}
	if err := c.do(ctx, http.MethodPost, "/api/categories/", body, &created, nil); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCategory renames or reorders a group.
func (c *Client) UpdateCategory(ctx context.Context, id int, title string, order int) (*domain.Category, error) {
	var updated domain.Category
	body := categoryPayload{Title: title, Order: order}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/categories/%d", id), body, &updated, nil); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCategory removes a group and its subcategories.
func (c *Client) DeleteCategory(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/categories/%d", id), nil, nil, nil)
}

// CreateSub posts a new subcategory into a group.
func (c *Client) CreateSub(ctx context.Context, categoryID int, sub domain.SubCategory) (*domain.SubCategory, error) {
	var created domain.SubCategory
	body := subPayload{CategoryID: categoryID, Name: sub.Name, Icon: sub.Icon, Order: sub.Order}
	path := fmt.Sprintf("/api/categories/%d/subcategories", categoryID)
	if err := c.do(ctx, http.MethodPost, path, body, &created, nil); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSub renames or reorders a subcategory.
func (c *Client) UpdateSub(ctx context.Context, id int, sub domain.SubCategory) (*domain.SubCategory, error) {
	var updated domain.SubCategory
	body := subPayload{Name: sub.Name, Icon: sub.Icon, Order: sub.Order}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/categories/subcategories/%d", id), body, &updated, nil); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSub removes a subcategory.
func (c *Client) DeleteSub(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/categories/subcategories/%d", id), nil, nil, nil)
}

// BulkSave replaces every user-defined category in one call.
func (c *Client) BulkSave(ctx context.Context, categories []domain.Category) error {
	return c.do(ctx, http.MethodPost, "/api/categories/bulk", categories, nil, nil)
}
