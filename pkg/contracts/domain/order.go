package domain

import (
	"time"
)

// OrderStatus is the fulfillment status reported for a sub-order.
type OrderStatus string

const (
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusReturn    OrderStatus = "Return"
	OrderStatusRTO       OrderStatus = "rto"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// OrderOutcome classifies a status into exactly one bucket.
type OrderOutcome string

const (
	OutcomeReturned  OrderOutcome = "returned"
	OutcomeDelivered OrderOutcome = "delivered"
	OutcomeCancelled OrderOutcome = "cancelled"
	OutcomeOther     OrderOutcome = "other"
)

// Outcome maps a raw status string by exact membership. Matching is case
// sensitive: the panel emits "Return" and "rto" verbatim.
func Outcome(status string) OrderOutcome {
	switch OrderStatus(status) {
	case OrderStatusReturn, OrderStatusRTO:
		return OutcomeReturned
	case OrderStatusDelivered:
		return OutcomeDelivered
	case OrderStatusCancelled:
		return OutcomeCancelled
	default:
		return OutcomeOther
	}
}

// OrderRecord is one joined fulfillment/order row.
type OrderRecord struct {
	SubOrderID  string    `json:"sub_order_id"`
	OrderDate   time.Time `json:"order_date,omitempty"`
	ProductName string    `json:"product_name"`
	Status      string    `json:"status"`
	RawPrice    string    `json:"raw_price"`
}

// EnrichedOrder is an OrderRecord with derived analysis fields.
type EnrichedOrder struct {
	OrderRecord

	IsReturn    bool      `json:"is_return"`
	IsDelivered bool      `json:"is_delivered"`
	IsCancelled bool      `json:"is_cancelled"`
	Price       NullFloat `json:"price"`
	PriceBucket string    `json:"price_bucket"`
	Category    string    `json:"category"`
}

// Outcome returns the single outcome implied by the flags.
func (e EnrichedOrder) Outcome() OrderOutcome {
	switch {
	case e.IsReturn:
		return OutcomeReturned
	case e.IsDelivered:
		return OutcomeDelivered
	case e.IsCancelled:
		return OutcomeCancelled
	default:
		return OutcomeOther
	}
}

// HasOrderDate reports whether the order date parsed.
func (e EnrichedOrder) HasOrderDate() bool {
	return !e.OrderDate.IsZero()
}
