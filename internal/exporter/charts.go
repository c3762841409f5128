package exporter

import (
	"github.com/xuri/excelize/v2"

	"returnscli/pkg/contracts/domain"
)

// Sheet names of the chart workbook.
const (
	SheetCategoryReturns   = "Category_Returns"
	SheetPriceRangeReturns = "Price_Range_Returns"
)

// WriteChartWorkbook renders, per grouping, a stacked bar of delivered
// (non-returned) versus returned orders and a bar of each group's share of
// all returns. Each sheet carries the plotted data in columns A to D.
func WriteChartWorkbook(categories, priceRanges []domain.GroupSummary, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetCategoryReturns); err != nil {
		return workbookError(err, path)
	}
	if _, err := f.NewSheet(SheetPriceRangeReturns); err != nil {
		return workbookError(err, path)
	}

	if err := writeChartSheet(f, SheetCategoryReturns, "Category", categories); err != nil {
		return workbookError(err, path)
	}
	if err := writeChartSheet(f, SheetPriceRangeReturns, "Price Range", priceRanges); err != nil {
		return workbookError(err, path)
	}

	if err := f.SaveAs(path); err != nil {
		return workbookError(err, path)
	}
	return nil
}

func writeChartSheet(f *excelize.File, sheet, key string, groups []domain.GroupSummary) error {
	if err := setRow(f, sheet, 1, []interface{}{key, "Delivered", "Returns", "Share of Returns (%)"}); err != nil {
		return err
	}
	for i, g := range groups {
		row := []interface{}{g.Key, g.NonReturns(), g.Returns, round2(g.PctOfTotalReturns)}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	if len(groups) == 0 {
		return nil
	}

	n := len(groups)
	stacked := &excelize.Chart{
		Type: excelize.ColStacked,
		Series: []excelize.ChartSeries{
			{
				Name:       "'" + sheet + "'!$B$1",
				Categories: columnRange(sheet, 1, n),
				Values:     columnRange(sheet, 2, n),
				Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{ColorPrimary}},
			},
			{
				Name:       "'" + sheet + "'!$C$1",
				Categories: columnRange(sheet, 1, n),
				Values:     columnRange(sheet, 3, n),
				Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{ColorSecondary}},
			},
		},
		Title:     []excelize.RichTextRun{{Text: "Orders vs Returns by " + key}},
		Legend:    excelize.ChartLegend{Position: "top"},
		Dimension: excelize.ChartDimension{Width: 720, Height: 400},
	}
	if err := f.AddChart(sheet, "F2", stacked); err != nil {
		return err
	}

	share := barChart("Share of Total Returns by "+key, sheet, n, 4, ColorSecondary)
	return f.AddChart(sheet, "F24", share)
}
