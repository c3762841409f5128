package domain

import (
	"time"
)

// Price bucket labels in their fixed presentation order.
const (
	BucketUpTo500    = "0-500"
	Bucket500To1000  = "500-1000"
	Bucket1000To1500 = "1000-1500"
	Bucket1500To2000 = "1500-2000"
	Bucket2000Plus   = "2000+"
	BucketMissing    = "missing"
)

// CategoryOther is assigned when no category keyword matches.
const CategoryOther = "Other"

// ReportFormat identifies the JSON report layout.
const ReportFormat = "return_analysis_v1"

// PriceBuckets returns the bucket labels in presentation order, missing last.
func PriceBuckets() []string {
	return []string{
		BucketUpTo500,
		Bucket500To1000,
		Bucket1000To1500,
		Bucket1500To2000,
		Bucket2000Plus,
		BucketMissing,
	}
}

// GroupSummary holds the return statistics of one category or price bucket.
type GroupSummary struct {
	Key               string    `json:"key"`
	TotalOrders       int       `json:"total_orders"`
	Returns           int       `json:"returns"`
	Delivered         int       `json:"delivered"`
	Cancelled         int       `json:"cancelled"`
	Other             int       `json:"other"`
	PricedOrders      int       `json:"priced_orders"`
	ReturnRate        float64   `json:"return_rate_within_group"`
	PctOfTotalOrders  float64   `json:"percentage_of_total_orders"`
	PctOfTotalReturns float64   `json:"percentage_of_total_returns"`
	AvgPrice          NullFloat `json:"avg_price"`
}

// NonReturns is the count rendered as the "delivered" stack in charts.
func (g GroupSummary) NonReturns() int {
	return g.TotalOrders - g.Returns
}

// JoinStats reports what the inner join kept and dropped.
type JoinStats struct {
	LeftRows           int      `json:"left_rows"`
	RightRows          int      `json:"right_rows"`
	JoinedRows         int      `json:"joined_rows"`
	UnmatchedLeft      int      `json:"unmatched_left"`
	UnmatchedRight     int      `json:"unmatched_right"`
	EmptyKeyLeft       int      `json:"empty_key_left"`
	EmptyKeyRight      int      `json:"empty_key_right"`
	DuplicateRightKeys int      `json:"duplicate_right_keys"`
	UnmatchedLeftKeys  []string `json:"unmatched_left_keys,omitempty"`
	UnmatchedRightKeys []string `json:"unmatched_right_keys,omitempty"`
}

// Dropped returns the number of input rows that did not survive the join.
func (s JoinStats) Dropped() int {
	return s.UnmatchedLeft + s.UnmatchedRight + s.EmptyKeyLeft + s.EmptyKeyRight
}

// KeywordCount is a token and how often it occurs in product names.
type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// AnalysisReport is everything downstream reporting needs from one run.
type AnalysisReport struct {
	RunID             string         `json:"run_id"`
	GeneratedAt       time.Time      `json:"generated_at"`
	TotalOrders       int            `json:"total_orders"`
	TotalReturns      int            `json:"total_returns"`
	OverallReturnRate NullFloat      `json:"overall_return_rate"`
	Categories        []GroupSummary `json:"categories"`
	PriceRanges       []GroupSummary `json:"price_ranges"`
	Join              JoinStats      `json:"join"`
	StatusCounts      map[string]int `json:"status_counts"`
	UnknownStatuses   map[string]int `json:"unknown_statuses,omitempty"`
	MissingPrices     int            `json:"missing_prices"`
	TopKeywords       []KeywordCount `json:"top_keywords,omitempty"`
}
