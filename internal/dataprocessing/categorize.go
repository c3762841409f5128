package dataprocessing

import (
	"context"

	"returnscli/internal/categorizer"
	"returnscli/pkg/contracts/domain"
)

// Categorize returns a copy of records with Category assigned from the
// product name. workers bounds the categorizer goroutines.
func Categorize(ctx context.Context, c *categorizer.Categorizer, records []domain.EnrichedOrder, workers int) ([]domain.EnrichedOrder, error) {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.ProductName
	}

	categories, err := c.CategorizeAll(ctx, names, workers)
	if err != nil {
		return nil, err
	}

	out := make([]domain.EnrichedOrder, len(records))
	for i, r := range records {
		r.Category = categories[i]
		out[i] = r
	}
	return out, nil
}
