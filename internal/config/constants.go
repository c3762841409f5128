package config

// Application constants
const (
	AppName   = "returns-analyzer"
	EnvPrefix = "RETURNS"

	// File Paths (relative to the working directory)
	DefaultDataDir    = "data"
	DefaultReportsDir = "reports"
	DefaultLogsDir    = "logs"

	// Output artifacts, written under the reports directory
	CategorySummaryCSV   = "category_summary.csv"
	PriceRangeSummaryCSV = "price_range_summary.csv"
	ProductCategoriesCSV = "product_categories.csv"
	ReportJSONFile       = "analysis_report.json"
	ResultsWorkbookFile  = "analysis_results.xlsx"
	ChartsWorkbookFile   = "return_charts.xlsx"
	HistoryDBFile        = "history.db"

	// Analysis
	DefaultTopKeywords = 20
	MaxJoinKeySamples  = 20

	// Rate Limiting
	DefaultRateLimit = 20 // requests per second
	DefaultBurstSize = 40
)
