package exporter

import (
	"testing"
	"time"

	"returnscli/internal/config"
	"returnscli/pkg/contracts/domain"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	dir := t.TempDir()
	return &config.Paths{BaseDir: dir, DataDir: dir, ReportsDir: dir, LogsDir: dir}
}

func sampleReport() *domain.AnalysisReport {
	return &domain.AnalysisReport{
		RunID:             "run-42",
		GeneratedAt:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		TotalOrders:       3,
		TotalReturns:      2,
		OverallReturnRate: domain.SomeFloat(200.0 / 3),
		Categories: []domain.GroupSummary{
			{Key: "Ethnic Wear", TotalOrders: 1, Returns: 1, PricedOrders: 1, ReturnRate: 100, PctOfTotalOrders: 100.0 / 3, PctOfTotalReturns: 50, AvgPrice: domain.SomeFloat(400)},
			{Key: "Other", TotalOrders: 1, Returns: 1, ReturnRate: 100, PctOfTotalOrders: 100.0 / 3, PctOfTotalReturns: 50},
			{Key: "Western Wear", TotalOrders: 1, Delivered: 1, PricedOrders: 1, PctOfTotalOrders: 100.0 / 3, AvgPrice: domain.SomeFloat(1200)},
		},
		PriceRanges: []domain.GroupSummary{
			{Key: "0-500", TotalOrders: 1, Returns: 1, PricedOrders: 1, ReturnRate: 100, PctOfTotalOrders: 100.0 / 3, PctOfTotalReturns: 50, AvgPrice: domain.SomeFloat(400)},
			{Key: "1000-1500", TotalOrders: 1, Delivered: 1, PricedOrders: 1, PctOfTotalOrders: 100.0 / 3, AvgPrice: domain.SomeFloat(1200)},
			{Key: "missing", TotalOrders: 1, Returns: 1, ReturnRate: 100, PctOfTotalOrders: 100.0 / 3, PctOfTotalReturns: 50},
		},
		Join:          domain.JoinStats{LeftRows: 4, RightRows: 3, JoinedRows: 3, UnmatchedLeft: 1, UnmatchedLeftKeys: []string{"S9"}},
		StatusCounts:  map[string]int{"Return": 1, "rto": 1, "Delivered": 1},
		MissingPrices: 1,
		TopKeywords:   []domain.KeywordCount{{Word: "saree", Count: 1}},
	}
}

func sampleRecords() []domain.EnrichedOrder {
	return []domain.EnrichedOrder{
		{
			OrderRecord: domain.OrderRecord{SubOrderID: "S1", ProductName: "silk saree", Status: "Return", RawPrice: "400"},
			IsReturn:    true, Price: domain.SomeFloat(400), PriceBucket: "0-500", Category: "Ethnic Wear",
		},
		{
			OrderRecord: domain.OrderRecord{SubOrderID: "S2", ProductName: "denim jeans, blue", Status: "Delivered", RawPrice: "1200"},
			IsDelivered: true, Price: domain.SomeFloat(1200), PriceBucket: "1000-1500", Category: "Western Wear",
		},
		{
			OrderRecord: domain.OrderRecord{SubOrderID: "S3", ProductName: "xyz widget", Status: "rto", RawPrice: "N/A"},
			IsReturn:    true, PriceBucket: "missing", Category: "Other",
		},
	}
}
