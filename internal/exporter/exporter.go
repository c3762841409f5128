package exporter

import (
	"context"
	"log/slog"

	"returnscli/internal/config"
	"returnscli/pkg/contracts/domain"
)

// Output formats handled by Exporter. Console output is rendered by the
// report package.
const (
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatXLSX   = "xlsx"
	FormatSQLite = "sqlite"
)

// Exporter writes the artifacts of one run into the reports directory.
type Exporter struct {
	paths     *config.Paths
	logger    *slog.Logger
	summaries *SummaryExporter
	historyDB string
}

// New creates an exporter. historyDB may be relative to the reports
// directory; empty selects the default file name.
func New(paths *config.Paths, historyDB string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	if historyDB == "" {
		historyDB = config.HistoryDBFile
	}
	return &Exporter{
		paths:     paths,
		logger:    logger,
		summaries: NewSummaryExporter(paths, logger),
		historyDB: historyDB,
	}
}

// Export writes every requested format and returns the written paths in
// format order. Unknown formats are ignored. The first failure stops the
// export.
func (e *Exporter) Export(ctx context.Context, report *domain.AnalysisReport, records []domain.EnrichedOrder, formats []string) ([]string, error) {
	var written []string
	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		var (
			paths []string
			err   error
		)
		switch format {
		case FormatCSV:
			paths, err = e.exportCSV(report, records)
		case FormatJSON:
			path := e.paths.GetReportPath(config.ReportJSONFile)
			paths, err = []string{path}, WriteJSONReport(report, path)
		case FormatXLSX:
			path := e.paths.GetReportPath(config.ResultsWorkbookFile)
			paths, err = []string{path}, WriteResultsWorkbook(report, records, path)
		case FormatSQLite:
			paths, err = e.exportHistory(ctx, report)
		default:
			continue
		}
		if err != nil {
			e.logger.ErrorContext(ctx, "export failed",
				slog.String("format", format),
				slog.String("error", err.Error()))
			return written, err
		}

		e.logger.InfoContext(ctx, "export written",
			slog.String("format", format),
			slog.Any("files", paths))
		written = append(written, paths...)
	}
	return written, nil
}

func (e *Exporter) exportCSV(report *domain.AnalysisReport, records []domain.EnrichedOrder) ([]string, error) {
	category := e.paths.GetReportPath(config.CategorySummaryCSV)
	price := e.paths.GetReportPath(config.PriceRangeSummaryCSV)
	products := e.paths.GetReportPath(config.ProductCategoriesCSV)

	if err := e.summaries.ExportCategorySummary(report.Categories, category); err != nil {
		return nil, err
	}
	if err := e.summaries.ExportPriceRangeSummary(report.PriceRanges, price); err != nil {
		return nil, err
	}
	if err := e.summaries.ExportProductCategories(records, products); err != nil {
		return nil, err
	}
	return []string{category, price, products}, nil
}

func (e *Exporter) exportHistory(ctx context.Context, report *domain.AnalysisReport) ([]string, error) {
	path := e.paths.GetReportPath(e.historyDB)
	store, err := OpenHistoryStore(ctx, path)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if err := store.RecordRun(ctx, report); err != nil {
		return nil, err
	}
	return []string{path}, nil
}
