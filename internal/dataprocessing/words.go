package dataprocessing

import (
	"sort"

	"returnscli/internal/categorizer"
	"returnscli/pkg/contracts/domain"
)

// TopKeywords counts tokens over all product names and returns the n most
// frequent. Equal counts keep first-seen order.
func TopKeywords(records []domain.EnrichedOrder, n int) []domain.KeywordCount {
	if n <= 0 {
		return []domain.KeywordCount{}
	}

	index := make(map[string]int)
	var counts []domain.KeywordCount
	for _, r := range records {
		for _, tok := range categorizer.Tokenize(r.ProductName) {
			i, ok := index[tok]
			if !ok {
				i = len(counts)
				index[tok] = i
				counts = append(counts, domain.KeywordCount{Word: tok})
			}
			counts[i].Count++
		}
	}

	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if len(counts) > n {
		counts = counts[:n]
	}
	if counts == nil {
		counts = []domain.KeywordCount{}
	}
	return counts
}
