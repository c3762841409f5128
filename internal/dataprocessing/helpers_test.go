package dataprocessing

import (
	"returnscli/pkg/contracts/domain"
)

// newTable builds a table from a header and positional rows.
func newTable(name string, columns []string, rows ...[]string) *domain.Table {
	t := &domain.Table{Name: name, Columns: columns}
	for _, r := range rows {
		row := make(domain.Row, len(columns))
		for i, c := range columns {
			if i < len(r) {
				row[c] = r[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// order builds an enriched record the way the preprocessor would.
func order(id, product, status, price, category string) domain.EnrichedOrder {
	p := ParsePrice(price)
	r := domain.EnrichedOrder{
		OrderRecord: domain.OrderRecord{SubOrderID: id, ProductName: product, Status: status, RawPrice: price},
		Price:       p,
		PriceBucket: PriceBucket(p),
		Category:    category,
	}
	switch domain.Outcome(status) {
	case domain.OutcomeReturned:
		r.IsReturn = true
	case domain.OutcomeDelivered:
		r.IsDelivered = true
	case domain.OutcomeCancelled:
		r.IsCancelled = true
	}
	return r
}
