package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "returnscli/internal/errors"
	"returnscli/pkg/contracts/domain"
)

func TestWriteJSONReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis_report.json")
	report := sampleReport()

	require.NoError(t, WriteJSONReport(report, path))
	assert.NoFileExists(t, path+".tmp")

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(content, &raw))
	assert.Contains(t, raw, "report")
	assert.JSONEq(t, `"return_analysis_v1"`, string(raw["format"]))
	assert.JSONEq(t, `"2024-05-01T12:00:00Z"`, string(raw["generated_at"]))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw["report"], &body))
	categories := body["categories"].([]interface{})
	other := categories[1].(map[string]interface{})
	assert.Nil(t, other["avg_price"])
	assert.Equal(t, 100.0, other["return_rate_within_group"])

	doc, err := ReadJSONReport(path)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportFormat, doc.Format)
	assert.Equal(t, report.RunID, doc.Report.RunID)
	assert.Equal(t, report.Categories, doc.Report.Categories)
	assert.Equal(t, report.Join, doc.Report.Join)
}

func TestWriteJSONReport_NullRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	report := &domain.AnalysisReport{RunID: "empty", Categories: []domain.GroupSummary{}, PriceRanges: []domain.GroupSummary{}}

	require.NoError(t, WriteJSONReport(report, path))
	doc, err := ReadJSONReport(path)
	require.NoError(t, err)
	assert.False(t, doc.Report.OverallReturnRate.Valid)
	assert.Empty(t, doc.Report.Categories)
}

func TestReadJSONReport_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadJSONReport(filepath.Join(dir, "absent.json"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("{not json"), 0644))
	_, err = ReadJSONReport(garbage)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))

	foreign := filepath.Join(dir, "foreign.json")
	require.NoError(t, os.WriteFile(foreign, []byte(`{"format":"other","report":{}}`), 0644))
	_, err = ReadJSONReport(foreign)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}
