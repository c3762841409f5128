// Package exporter writes the results of an analysis run.
//
// CSVWriter is the low-level writer: headers, streaming, and a UTF-8 BOM
// so Excel opens the files with the right encoding. SummaryExporter builds
// the category, price range and product CSVs on top of it.
//
// WriteJSONReport and WriteResultsWorkbook produce analysis_report.json and
// analysis_results.xlsx. ReadResultsWorkbook reads the summary sheets back
// and WriteChartWorkbook renders the stacked orders-vs-returns charts from
// them. HistoryStore appends every run to a SQLite database.
//
// Exporter ties these together for the configured output formats:
//
//	exp := exporter.New(paths, "", logger)
//	files, err := exp.Export(ctx, report, records, []string{"csv", "json"})
package exporter
