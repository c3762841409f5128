// Package categorizer assigns free-text product names to categories of an
// ordered keyword table.
//
// A keyword scores 1 when it occurs anywhere in the lowercased name and a
// further 0.5 when it is also one of the name's tokens, so "saree" scores
// 1.5 for "Silk Saree" but only 1 for "sarees". The highest scoring
// category wins, earlier table entries win ties, and a name without any
// keyword hit is assigned "Other".
package categorizer

import (
	"context"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"returnscli/pkg/contracts/domain"
)

const (
	substringScore = 1.0
	tokenScore     = 0.5

	// minChunk keeps tiny batches from being split across goroutines.
	minChunk = 256
)

// CategoryScore is the score of one category for one product name.
type CategoryScore struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// Categorizer scores product names against a Table. It is stateless and
// safe for concurrent use.
type Categorizer struct {
	table *Table
}

// New returns a Categorizer bound to table, or to DefaultTable when nil.
func New(table *Table) *Categorizer {
	if table == nil {
		table = DefaultTable()
	}
	return &Categorizer{table: table}
}

// Table returns the bound table.
func (c *Categorizer) Table() *Table {
	return c.table
}

// Score returns the score of every category in table order.
func (c *Categorizer) Score(productName string) []CategoryScore {
	lower := strings.ToLower(productName)
	tokens := make(map[string]struct{})
	for _, tok := range Tokenize(productName) {
		tokens[tok] = struct{}{}
	}

	scores := make([]CategoryScore, len(c.table.categories))
	for i, cat := range c.table.categories {
		var s float64
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				s += substringScore
			}
			if _, ok := tokens[kw]; ok {
				s += tokenScore
			}
		}
		scores[i] = CategoryScore{Category: cat.Name, Score: s}
	}
	return scores
}

// Categorize returns the best scoring category name, or domain.CategoryOther
// when nothing matches.
func (c *Categorizer) Categorize(productName string) string {
	if strings.TrimSpace(productName) == "" {
		return domain.CategoryOther
	}

	best, bestScore := domain.CategoryOther, 0.0
	for _, s := range c.Score(productName) {
		if s.Score > bestScore {
			best, bestScore = s.Category, s.Score
		}
	}
	return best
}

// CategorizeAll categorizes names with at most workers goroutines; zero or
// a negative count means GOMAXPROCS. Results are positionally aligned with
// names and identical to calling Categorize sequentially.
func (c *Categorizer) CategorizeAll(ctx context.Context, names []string, workers int) ([]string, error) {
	out := make([]string, len(names))
	if len(names) == 0 {
		return out, ctx.Err()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	chunk := (len(names) + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(names); start += chunk {
		end := min(start+chunk, len(names))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if i%minChunk == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				out[i] = c.Categorize(names[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
