package services

import (
	"context"
	"fmt"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
)

// Keywords returns the ranked keyword cloud for a query against the loaded
// category, capped at limit entries when limit is positive. The backend ranks
// by occurrence count across the matching assets' metadata.
func (c *Catalog) Keywords(ctx context.Context, query string, limit int) ([]domain.Keyword, error) {
	words, err := c.api.Keywords(ctx, query, c.Category())
	if err != nil {
		return nil, fmt.Errorf("loading keywords: %w", err)
	}
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words, nil
}
