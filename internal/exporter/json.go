package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	apperrors "returnscli/internal/errors"
	"returnscli/pkg/contracts/domain"
)

// ReportDocument is the on-disk layout of analysis_report.json.
type ReportDocument struct {
	Report      *domain.AnalysisReport `json:"report"`
	Format      string                 `json:"format"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// WriteJSONReport writes the report envelope with two-space indentation.
// The file is written to a temporary name and renamed so readers never
// observe a partial document.
func WriteJSONReport(report *domain.AnalysisReport, path string) error {
	doc := ReportDocument{
		Report:      report,
		Format:      domain.ReportFormat,
		GeneratedAt: report.GeneratedAt,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.NewStorageError("failed to encode report", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return apperrors.NewStorageError("failed to write report", err).WithContext("path", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return apperrors.NewStorageError("failed to replace report", err).WithContext("path", path)
	}
	return nil
}

// ReadJSONReport loads a report written by WriteJSONReport.
func ReadJSONReport(path string) (*ReportDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("report " + filepath.Base(path))
		}
		return nil, apperrors.NewStorageError("failed to read report", err).WithContext("path", path)
	}

	var doc ReportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewParsingError("failed to decode report", err).WithContext("path", path)
	}
	if doc.Format != domain.ReportFormat || doc.Report == nil {
		return nil, apperrors.NewParsingError("unsupported report format", nil).
			WithContext("format", doc.Format)
	}
	return &doc, nil
}
