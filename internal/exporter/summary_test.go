package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(content), 3)
	assert.Equal(t, utf8BOM, content[:3])

	r := csv.NewReader(bytes.NewReader(content[3:]))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestSummaryExporter_Groups(t *testing.T) {
	paths := testPaths(t)
	exp := NewSummaryExporter(paths, nil)
	report := sampleReport()

	require.NoError(t, exp.ExportCategorySummary(report.Categories, "category_summary.csv"))
	rows := readCSV(t, paths.GetReportPath("category_summary.csv"))

	require.Len(t, rows, 4)
	assert.Equal(t, groupHeaders("Category"), rows[0])
	assert.Equal(t, []string{"Ethnic Wear", "1", "1", "0", "0", "0", "1", "100.00", "33.33", "50.00", "400.00"}, rows[1])
	assert.Equal(t, "", rows[2][10], "null average is an empty cell")

	require.NoError(t, exp.ExportPriceRangeSummary(report.PriceRanges, "price_range_summary.csv"))
	rows = readCSV(t, paths.GetReportPath("price_range_summary.csv"))
	require.Len(t, rows, 4)
	assert.Equal(t, "Price Range", rows[0][0])
	assert.Equal(t, []string{"0-500", "1000-1500", "missing"}, []string{rows[1][0], rows[2][0], rows[3][0]})
}

func TestSummaryExporter_Products(t *testing.T) {
	paths := testPaths(t)
	exp := NewSummaryExporter(paths, nil)

	require.NoError(t, exp.ExportProductCategories(sampleRecords(), "product_categories.csv"))
	rows := readCSV(t, paths.GetReportPath("product_categories.csv"))

	require.Len(t, rows, 4)
	assert.Equal(t, productHeaders(), rows[0])
	assert.Equal(t, []string{"S2", "denim jeans, blue", "Western Wear", "Delivered", "1200.00", "1000-1500", "false"}, rows[2])
	assert.Equal(t, []string{"S3", "xyz widget", "Other", "rto", "", "missing", "true"}, rows[3])
}
