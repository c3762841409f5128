// Package dataprocessing turns two raw order tables into return statistics.
//
// # Architecture
//
// The package is organized into four stages:
//
// 1. Loader: reads CSV, TSV and XLSX files into row tables
// 2. Preprocessor: inner-joins fulfillment and order rows, derives status
// flags, coerces prices and assigns price buckets
// 3. Categorize: assigns each order a product category
// 4. Aggregation: per-category and per-bucket summaries and the full report
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger)
//	forward, err := loader.Load(ctx, "forward.csv", dataprocessing.LoadOptions{})
//	orders, err := loader.Load(ctx, "orders.xlsx", dataprocessing.LoadOptions{})
//
//	prep, err := dataprocessing.NewPreprocessor(logger, domain.DefaultColumnMapping()).
//		Prepare(ctx, forward, orders)
//	records, err := dataprocessing.Categorize(ctx, categorizer.New(nil), prep.Records, 0)
//	report := dataprocessing.Analyze(records, nil, prep.Join, dataprocessing.AnalyzeOptions{TopKeywords: 20})
//
// Malformed prices, unknown statuses and unmatched join keys never fail a
// run; they are counted in the report instead.
package dataprocessing
