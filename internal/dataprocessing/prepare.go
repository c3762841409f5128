package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "returnscli/internal/errors"
	"returnscli/pkg/contracts/domain"
)

// MaxKeySamples bounds the unmatched keys listed per side in JoinStats.
const MaxKeySamples = 20

const blankStatus = "(blank)"

// PrepareResult is the joined and enriched order set plus diagnostics.
// Category is left empty on every record; categorization is a separate step.
type PrepareResult struct {
	Records         []domain.EnrichedOrder
	Join            domain.JoinStats
	StatusCounts    map[string]int
	UnknownStatuses map[string]int
	MissingPrices   int
}

// Preprocessor joins fulfillment rows with order rows and derives flags,
// prices and price buckets.
type Preprocessor struct {
	logger  *slog.Logger
	mapping domain.ColumnMapping
}

// NewPreprocessor creates a preprocessor for the given column mapping.
func NewPreprocessor(logger *slog.Logger, mapping domain.ColumnMapping) *Preprocessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preprocessor{logger: logger, mapping: mapping}
}

// Prepare inner-joins left (fulfillment) and right (orders) on the mapped
// keys and enriches every joined row. Only a missing key column is an
// error; malformed values degrade to missing and unknown statuses to
// "other".
func (p *Preprocessor) Prepare(ctx context.Context, left, right *domain.Table) (*PrepareResult, error) {
	joined, stats, err := p.Join(ctx, left, right)
	if err != nil {
		return nil, err
	}

	for _, col := range []string{p.mapping.ProductColumn, p.mapping.StatusColumn, p.mapping.PriceColumn, p.mapping.DateColumn} {
		if col != "" && !joined.HasColumn(col) {
			p.logger.WarnContext(ctx, "mapped column absent from joined table, values will be empty",
				slog.String("column", col))
		}
	}

	result := &PrepareResult{
		Records:         make([]domain.EnrichedOrder, 0, joined.Len()),
		Join:            stats,
		StatusCounts:    make(map[string]int),
		UnknownStatuses: make(map[string]int),
	}

	for i, row := range joined.Rows {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		rec := p.enrich(row)
		status := rec.Status
		if status == "" {
			status = blankStatus
		}
		result.StatusCounts[status]++
		if rec.Outcome() == domain.OutcomeOther {
			result.UnknownStatuses[status]++
		}
		if !rec.Price.Valid {
			result.MissingPrices++
		}
		result.Records = append(result.Records, rec)
	}

	for _, status := range sortedKeys(result.UnknownStatuses) {
		p.logger.InfoContext(ctx, "unrecognized order status counted as other",
			slog.String("status", status),
			slog.Int("count", result.UnknownStatuses[status]))
	}

	p.logger.InfoContext(ctx, "orders prepared",
		slog.Int("left_rows", stats.LeftRows),
		slog.Int("right_rows", stats.RightRows),
		slog.Int("joined_rows", stats.JoinedRows),
		slog.Int("dropped_rows", stats.Dropped()),
		slog.Int("missing_prices", result.MissingPrices))

	return result, nil
}

func (p *Preprocessor) enrich(row domain.Row) domain.EnrichedOrder {
	status := strings.TrimSpace(row.Get(p.mapping.StatusColumn))
	rawPrice := row.Get(p.mapping.PriceColumn)
	price := ParsePrice(rawPrice)

	rec := domain.EnrichedOrder{
		OrderRecord: domain.OrderRecord{
			SubOrderID:  strings.TrimSpace(row.Get(p.mapping.LeftKey)),
			ProductName: strings.TrimSpace(row.Get(p.mapping.ProductColumn)),
			Status:      status,
			RawPrice:    rawPrice,
		},
		Price:       price,
		PriceBucket: PriceBucket(price),
	}
	if p.mapping.DateColumn != "" {
		rec.OrderDate, _ = ParseDate(row.Get(p.mapping.DateColumn))
	}

	switch domain.Outcome(status) {
	case domain.OutcomeReturned:
		rec.IsReturn = true
	case domain.OutcomeDelivered:
		rec.IsDelivered = true
	case domain.OutcomeCancelled:
		rec.IsCancelled = true
	}
	return rec
}

// Join performs the inner join. Keys are compared after trimming
// whitespace and empty keys never match. Every left row pairs with every
// right row of the same key, in left then right order. In merged rows the
// left value wins for columns present in both tables.
func (p *Preprocessor) Join(ctx context.Context, left, right *domain.Table) (*domain.Table, domain.JoinStats, error) {
	var stats domain.JoinStats
	if err := requireColumn(left, p.mapping.LeftKey); err != nil {
		return nil, stats, err
	}
	if err := requireColumn(right, p.mapping.RightKey); err != nil {
		return nil, stats, err
	}

	stats.LeftRows = left.Len()
	stats.RightRows = right.Len()

	index := make(map[string][]int, right.Len())
	var rightKeys []string
	for i, row := range right.Rows {
		key := strings.TrimSpace(row.Get(p.mapping.RightKey))
		if key == "" {
			stats.EmptyKeyRight++
			continue
		}
		if _, seen := index[key]; !seen {
			rightKeys = append(rightKeys, key)
		} else if len(index[key]) == 1 {
			stats.DuplicateRightKeys++
		}
		index[key] = append(index[key], i)
	}

	columns := append([]string(nil), left.Columns...)
	for _, c := range right.Columns {
		if !left.HasColumn(c) {
			columns = append(columns, c)
		}
	}
	joined := &domain.Table{Name: "joined", Columns: columns}

	matched := make(map[string]bool, len(index))
	for i, lrow := range left.Rows {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}

		key := strings.TrimSpace(lrow.Get(p.mapping.LeftKey))
		if key == "" {
			stats.EmptyKeyLeft++
			continue
		}
		rights, ok := index[key]
		if !ok {
			stats.UnmatchedLeft++
			if len(stats.UnmatchedLeftKeys) < MaxKeySamples {
				stats.UnmatchedLeftKeys = append(stats.UnmatchedLeftKeys, key)
			}
			continue
		}
		matched[key] = true

		for _, ri := range rights {
			merged := make(domain.Row, len(columns))
			for col, v := range right.Rows[ri] {
				merged[col] = v
			}
			for col, v := range lrow {
				merged[col] = v
			}
			joined.Rows = append(joined.Rows, merged)
		}
	}

	for _, key := range rightKeys {
		if matched[key] {
			continue
		}
		stats.UnmatchedRight += len(index[key])
		if len(stats.UnmatchedRightKeys) < MaxKeySamples {
			stats.UnmatchedRightKeys = append(stats.UnmatchedRightKeys, key)
		}
	}

	stats.JoinedRows = joined.Len()
	return joined, stats, nil
}

func requireColumn(t *domain.Table, column string) error {
	if t == nil {
		return apperrors.NewAppValidationError("input table is nil")
	}
	if !t.HasColumn(column) {
		return apperrors.NewAppValidationError(fmt.Sprintf("join column %q not found in table %q", column, t.Name)).
			WithContext("columns", t.Columns)
	}
	return nil
}

// ParsePrice coerces a raw cell to a price. Empty, unparsable, NaN and
// infinite values are missing.
func ParsePrice(raw string) domain.NullFloat {
	s := strings.TrimSpace(raw)
	if s == "" {
		return domain.MissingFloat()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.MissingFloat()
	}
	return domain.SomeFloat(v)
}

// PriceBucket maps a price to its left-closed, right-open range label.
// Missing and negative prices fall in no range and map to BucketMissing.
func PriceBucket(price domain.NullFloat) string {
	if !price.Valid || price.Value < 0 || math.IsNaN(price.Value) {
		return domain.BucketMissing
	}
	switch v := price.Value; {
	case v < 500:
		return domain.BucketUpTo500
	case v < 1000:
		return domain.Bucket500To1000
	case v < 1500:
		return domain.Bucket1000To1500
	case v < 2000:
		return domain.Bucket1500To2000
	default:
		return domain.Bucket2000Plus
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"02-01-2006",
	"1/2/2006 15:04:05",
}

// ParseDate tries the known order-date layouts; day-first wins for
// ambiguous slash dates. It reports false and a zero time on failure.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
