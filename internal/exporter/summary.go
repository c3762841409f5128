package exporter

import (
	"log/slog"

	"returnscli/internal/config"
	apperrors "returnscli/internal/errors"
	"returnscli/pkg/contracts/domain"
)

// SummaryExporter writes the CSV summaries of one analysis run.
type SummaryExporter struct {
	csvWriter *CSVWriter
}

// NewSummaryExporter creates a new summary exporter
func NewSummaryExporter(paths *config.Paths, logger *slog.Logger) *SummaryExporter {
	return &SummaryExporter{csvWriter: NewCSVWriter(paths, logger)}
}

// ExportCategorySummary writes one row per category
func (s *SummaryExporter) ExportCategorySummary(groups []domain.GroupSummary, filePath string) error {
	return s.csvWriter.WriteSimpleCSV(filePath, groupHeaders("Category"), groupRows(groups))
}

// ExportPriceRangeSummary writes one row per price bucket
func (s *SummaryExporter) ExportPriceRangeSummary(groups []domain.GroupSummary, filePath string) error {
	return s.csvWriter.WriteSimpleCSV(filePath, groupHeaders("Price Range"), groupRows(groups))
}

// ExportProductCategories streams the categorized order records
func (s *SummaryExporter) ExportProductCategories(records []domain.EnrichedOrder, filePath string) error {
	stream, err := s.csvWriter.CreateStreamWriter(filePath, productHeaders())
	if err != nil {
		return err
	}

	for _, r := range records {
		if err := stream.WriteRecord(productRow(r)); err != nil {
			stream.Close()
			return apperrors.NewStorageError("failed to write product row", err).
				WithContext("sub_order_id", r.SubOrderID)
		}
	}
	return stream.Close()
}

func groupHeaders(key string) []string {
	return []string{
		key,
		"Total Orders",
		"Returns",
		"Delivered",
		"Cancelled",
		"Other",
		"Priced Orders",
		"Return Rate (%)",
		"% of Total Orders",
		"% of Total Returns",
		"Avg Price",
	}
}

func groupRows(groups []domain.GroupSummary) [][]string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			g.Key,
			formatInt(g.TotalOrders),
			formatInt(g.Returns),
			formatInt(g.Delivered),
			formatInt(g.Cancelled),
			formatInt(g.Other),
			formatInt(g.PricedOrders),
			formatFloat(g.ReturnRate),
			formatFloat(g.PctOfTotalOrders),
			formatFloat(g.PctOfTotalReturns),
			formatNull(g.AvgPrice),
		})
	}
	return rows
}

func productHeaders() []string {
	return []string{"Sub Order No", "Product Name", "Category", "Order Status", "Price", "Price Range", "Is Return"}
}

func productRow(r domain.EnrichedOrder) []string {
	return []string{
		r.SubOrderID,
		r.ProductName,
		r.Category,
		r.Status,
		formatNull(r.Price),
		r.PriceBucket,
		formatBool(r.IsReturn),
	}
}
