package dataprocessing

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"returnscli/internal/categorizer"
	"returnscli/pkg/contracts/domain"
)

// KeyFunc extracts the grouping key of a record.
type KeyFunc func(domain.EnrichedOrder) string

// ByCategory groups records by assigned category.
func ByCategory(r domain.EnrichedOrder) string { return r.Category }

// ByPriceBucket groups records by price bucket label.
func ByPriceBucket(r domain.EnrichedOrder) string { return r.PriceBucket }

// AggregateBy groups records by key and computes counts, mean price and
// the three percentages. Percentages use the totals of records, so the
// groups of one call partition it. Groups come back in first-seen key
// order, stably sorted by less when it is non-nil.
func AggregateBy(records []domain.EnrichedOrder, key KeyFunc, less func(a, b domain.GroupSummary) bool) []domain.GroupSummary {
	type acc struct {
		summary  domain.GroupSummary
		priceSum float64
	}

	index := make(map[string]int)
	var groups []*acc
	grandReturns := 0

	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, &acc{summary: domain.GroupSummary{Key: k}})
		}
		g := groups[i]
		g.summary.TotalOrders++
		switch r.Outcome() {
		case domain.OutcomeReturned:
			g.summary.Returns++
			grandReturns++
		case domain.OutcomeDelivered:
			g.summary.Delivered++
		case domain.OutcomeCancelled:
			g.summary.Cancelled++
		default:
			g.summary.Other++
		}
		if r.Price.Valid {
			g.summary.PricedOrders++
			g.priceSum += r.Price.Value
		}
	}

	grandTotal := len(records)
	out := make([]domain.GroupSummary, len(groups))
	for i, g := range groups {
		s := g.summary
		s.ReturnRate = percent(s.Returns, s.TotalOrders)
		s.PctOfTotalOrders = percent(s.TotalOrders, grandTotal)
		s.PctOfTotalReturns = percent(s.Returns, grandReturns)
		if s.PricedOrders > 0 {
			s.AvgPrice = domain.SomeFloat(g.priceSum / float64(s.PricedOrders))
		}
		out[i] = s
	}

	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

// percent returns part/whole*100, or 0 when whole is 0.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// CategoryOrder sorts by return rate descending. Equal rates keep table
// order; categories unknown to the table, "Other" included, follow the
// table categories and are ordered by name.
func CategoryOrder(table *categorizer.Table) func(a, b domain.GroupSummary) bool {
	return func(a, b domain.GroupSummary) bool {
		if a.ReturnRate != b.ReturnRate {
			return a.ReturnRate > b.ReturnRate
		}
		pa, okA := table.Position(a.Key)
		pb, okB := table.Position(b.Key)
		switch {
		case okA && okB:
			return pa < pb
		case okA != okB:
			return okA
		default:
			return a.Key < b.Key
		}
	}
}

// PriceBucketOrder keeps the fixed range order with missing last.
func PriceBucketOrder(a, b domain.GroupSummary) bool {
	return bucketRank(a.Key) < bucketRank(b.Key)
}

func bucketRank(label string) int {
	for i, b := range domain.PriceBuckets() {
		if b == label {
			return i
		}
	}
	return len(domain.PriceBuckets())
}

// AnalyzeOptions tunes Analyze.
type AnalyzeOptions struct {
	RunID       string
	Now         func() time.Time
	TopKeywords int
}

// Analyze builds the full report for categorized records. It never
// mutates records; with a fixed RunID and clock the output is a pure
// function of the input.
func Analyze(records []domain.EnrichedOrder, table *categorizer.Table, join domain.JoinStats, opts AnalyzeOptions) *domain.AnalysisReport {
	if table == nil {
		table = categorizer.DefaultTable()
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	report := &domain.AnalysisReport{
		RunID:           opts.RunID,
		GeneratedAt:     opts.Now().UTC(),
		TotalOrders:     len(records),
		Categories:      []domain.GroupSummary{},
		PriceRanges:     []domain.GroupSummary{},
		Join:            join,
		StatusCounts:    map[string]int{},
		UnknownStatuses: map[string]int{},
	}

	for _, r := range records {
		status := r.Status
		if status == "" {
			status = blankStatus
		}
		report.StatusCounts[status]++
		if r.Outcome() == domain.OutcomeOther {
			report.UnknownStatuses[status]++
		}
		if r.IsReturn {
			report.TotalReturns++
		}
		if !r.Price.Valid {
			report.MissingPrices++
		}
	}
	if len(records) == 0 {
		return report
	}

	report.OverallReturnRate = domain.SomeFloat(percent(report.TotalReturns, report.TotalOrders))
	report.Categories = AggregateBy(records, ByCategory, CategoryOrder(table))
	report.PriceRanges = AggregateBy(records, ByPriceBucket, PriceBucketOrder)
	if opts.TopKeywords > 0 {
		report.TopKeywords = TopKeywords(records, opts.TopKeywords)
	}
	return report
}
