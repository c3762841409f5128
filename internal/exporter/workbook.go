package exporter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "returnscli/internal/errors"
	"returnscli/pkg/contracts/domain"
)

// Sheet names of the results workbook.
const (
	SheetCategories = "Category_Analysis"
	SheetPriceRange = "Price_Range_Analysis"
	SheetSummary    = "Summary"
	SheetProducts   = "Product_Categories"
	SheetCharts     = "Charts"
)

// Brand colours used for chart series.
const (
	ColorPrimary   = "580B48"
	ColorSecondary = "FFA500"
)

// Column positions (1-based) of the group sheets, matching groupHeaders.
const (
	colReturnRate       = 8
	colPctOfTotalOrders = 9
	colPctOfReturns     = 10
	colAvgPrice         = 11
)

// WriteResultsWorkbook writes the summary sheets, the categorized records
// and a chart sheet to path.
func WriteResultsWorkbook(report *domain.AnalysisReport, records []domain.EnrichedOrder, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetCategories); err != nil {
		return workbookError(err, path)
	}
	for _, name := range []string{SheetPriceRange, SheetSummary, SheetProducts, SheetCharts} {
		if _, err := f.NewSheet(name); err != nil {
			return workbookError(err, path)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{ColorPrimary}},
	})
	if err != nil {
		return workbookError(err, path)
	}

	if err := writeGroupSheet(f, SheetCategories, "Category", report.Categories, header); err != nil {
		return workbookError(err, path)
	}
	if err := writeGroupSheet(f, SheetPriceRange, "Price Range", report.PriceRanges, header); err != nil {
		return workbookError(err, path)
	}
	if err := writeSummarySheet(f, report, header); err != nil {
		return workbookError(err, path)
	}
	if err := writeProductSheet(f, records, header); err != nil {
		return workbookError(err, path)
	}

	if n := len(report.Categories); n > 0 {
		chart := barChart("Percentage of Total Orders by Category", SheetCategories, n, colPctOfTotalOrders, ColorPrimary)
		if err := f.AddChart(SheetCharts, "A1", chart); err != nil {
			return workbookError(err, path)
		}
	}
	if n := len(report.PriceRanges); n > 0 {
		chart := barChart("Return Rate by Price Range", SheetPriceRange, n, colReturnRate, ColorSecondary)
		if err := f.AddChart(SheetCharts, "A22", chart); err != nil {
			return workbookError(err, path)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return workbookError(err, path)
	}
	return nil
}

func writeGroupSheet(f *excelize.File, sheet, key string, groups []domain.GroupSummary, headerStyle int) error {
	headers := groupHeaders(key)
	if err := writeHeader(f, sheet, headers, headerStyle); err != nil {
		return err
	}
	for i, g := range groups {
		row := []interface{}{
			g.Key,
			g.TotalOrders,
			g.Returns,
			g.Delivered,
			g.Cancelled,
			g.Other,
			g.PricedOrders,
			round2(g.ReturnRate),
			round2(g.PctOfTotalOrders),
			round2(g.PctOfTotalReturns),
		}
		if g.AvgPrice.Valid {
			row = append(row, round2(g.AvgPrice.Value))
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "A", 22)
}

func writeSummarySheet(f *excelize.File, report *domain.AnalysisReport, headerStyle int) error {
	if err := writeHeader(f, SheetSummary, []string{"Metric", "Value"}, headerStyle); err != nil {
		return err
	}

	var rate interface{} = ""
	if report.OverallReturnRate.Valid {
		rate = round2(report.OverallReturnRate.Value)
	}
	rows := [][]interface{}{
		{"Run ID", report.RunID},
		{"Generated At", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Total Orders", report.TotalOrders},
		{"Total Returns", report.TotalReturns},
		{"Overall Return Rate (%)", rate},
		{"Orders Without Price", report.MissingPrices},
		{"Joined Rows", report.Join.JoinedRows},
		{"Unmatched Fulfillment Rows", report.Join.UnmatchedLeft},
		{"Unmatched Order Rows", report.Join.UnmatchedRight},
		{"Rows With Empty Key", report.Join.EmptyKeyLeft + report.Join.EmptyKeyRight},
	}
	for i, row := range rows {
		if err := setRow(f, SheetSummary, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetSummary, "A", "B", 30)
}

// writeProductSheet streams the records since the sheet can be large.
func writeProductSheet(f *excelize.File, records []domain.EnrichedOrder, headerStyle int) error {
	sw, err := f.NewStreamWriter(SheetProducts)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", toInterfaces(productHeaders()), excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return err
	}
	for i, r := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{r.SubOrderID, r.ProductName, r.Category, r.Status, "", r.PriceBucket, r.IsReturn}
		if r.Price.Valid {
			row[4] = r.Price.Value
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	if err := setRow(f, sheet, 1, toInterfaces(headers)); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// barChart plots one value column of a data sheet against its key column.
func barChart(title, sheet string, rows, valueCol int, color string) *excelize.Chart {
	return &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       title,
				Categories: columnRange(sheet, 1, rows),
				Values:     columnRange(sheet, valueCol, rows),
				Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
			},
		},
		Title:     []excelize.RichTextRun{{Text: title}},
		Legend:    excelize.ChartLegend{Position: "none"},
		Dimension: excelize.ChartDimension{Width: 720, Height: 400},
	}
}

// columnRange returns an absolute reference to data rows 2..rows+1 of col.
func columnRange(sheet string, col, rows int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, name, name, rows+1)
}

func workbookError(err error, path string) error {
	return apperrors.NewStorageError("failed to write workbook", err).WithContext("path", path)
}

// ResultsWorkbook is the part of a results workbook that can be read back.
type ResultsWorkbook struct {
	Categories  []domain.GroupSummary
	PriceRanges []domain.GroupSummary
}

// ReadResultsWorkbook reads the category and price range sheets of a
// workbook written by WriteResultsWorkbook.
func ReadResultsWorkbook(path string) (*ResultsWorkbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open results workbook", err).WithContext("path", path)
	}
	defer f.Close()

	categories, err := readGroupSheet(f, SheetCategories)
	if err != nil {
		return nil, err
	}
	prices, err := readGroupSheet(f, SheetPriceRange)
	if err != nil {
		return nil, err
	}
	return &ResultsWorkbook{Categories: categories, PriceRanges: prices}, nil
}

func readGroupSheet(f *excelize.File, sheet string) ([]domain.GroupSummary, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError("missing sheet", err).WithContext("sheet", sheet)
	}

	groups := make([]domain.GroupSummary, 0, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < colPctOfReturns {
			return nil, apperrors.NewParsingError("short row", nil).
				WithContext("sheet", sheet).WithContext("row", i+1)
		}

		ints := make([]int, 6)
		for j := range ints {
			v, err := strconv.Atoi(strings.TrimSpace(row[j+1]))
			if err != nil {
				return nil, cellError(sheet, i+1, j+2, err)
			}
			ints[j] = v
		}
		floats := make([]float64, 3)
		for j := range floats {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[colReturnRate-1+j]), 64)
			if err != nil {
				return nil, cellError(sheet, i+1, colReturnRate+j, err)
			}
			floats[j] = v
		}

		g := domain.GroupSummary{
			Key:               row[0],
			TotalOrders:       ints[0],
			Returns:           ints[1],
			Delivered:         ints[2],
			Cancelled:         ints[3],
			Other:             ints[4],
			PricedOrders:      ints[5],
			ReturnRate:        floats[0],
			PctOfTotalOrders:  floats[1],
			PctOfTotalReturns: floats[2],
		}
		if len(row) >= colAvgPrice && strings.TrimSpace(row[colAvgPrice-1]) != "" {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[colAvgPrice-1]), 64)
			if err != nil {
				return nil, cellError(sheet, i+1, colAvgPrice, err)
			}
			g.AvgPrice = domain.SomeFloat(v)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func cellError(sheet string, row, col int, err error) error {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return apperrors.NewParsingError("invalid cell value", err).
		WithContext("sheet", sheet).WithContext("cell", cell)
}
