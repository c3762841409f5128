package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"returnscli/internal/config"
	apperrors "returnscli/internal/errors"
	"returnscli/internal/exporter"
	"returnscli/pkg/contracts/domain"
)

// DefaultHistoryLimit bounds ListRuns when the caller passes no limit.
const DefaultHistoryLimit = 50

// ReportService serves the artifacts of the latest analysis run from the
// reports directory. The decoded report is cached until the file changes.
type ReportService struct {
	reportPath  string
	historyPath string
	logger      *slog.Logger

	mu      sync.Mutex
	cached  *exporter.ReportDocument
	modTime time.Time
	size    int64
}

// NewReportService creates a report service rooted at reportsDir.
func NewReportService(reportsDir string, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		reportPath:  filepath.Join(reportsDir, config.ReportJSONFile),
		historyPath: filepath.Join(reportsDir, config.HistoryDBFile),
		logger:      logger.With(slog.String("component", "report_service")),
	}
}

// WithHistoryDB overrides the history database location.
func (s *ReportService) WithHistoryDB(path string) *ReportService {
	if path != "" {
		s.historyPath = path
	}
	return s
}

// Report returns the latest report document.
func (s *ReportService) Report(ctx context.Context) (*exporter.ReportDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(s.reportPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("report " + filepath.Base(s.reportPath))
		}
		return nil, apperrors.NewStorageError("failed to stat report", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		return s.cached, nil
	}

	doc, err := exporter.ReadJSONReport(s.reportPath)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "report loaded",
		slog.String("run_id", doc.Report.RunID),
		slog.Time("generated_at", doc.GeneratedAt),
	)
	s.cached = doc
	s.modTime = info.ModTime()
	s.size = info.Size()
	return doc, nil
}

// Categories returns the category summaries of the latest report.
func (s *ReportService) Categories(ctx context.Context) ([]domain.GroupSummary, error) {
	doc, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(doc.Report.Categories), nil
}

// PriceRanges returns the price bucket summaries of the latest report.
func (s *ReportService) PriceRanges(ctx context.Context) ([]domain.GroupSummary, error) {
	doc, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(doc.Report.PriceRanges), nil
}

// History lists recorded runs, newest first. The database is opened per call
// and never created by the viewer.
func (s *ReportService) History(ctx context.Context, limit int) ([]exporter.RunRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	store, err := s.openHistory(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []exporter.RunRecord{}
	}
	return runs, nil
}

// CategoryHistory returns one category's summaries across recorded runs,
// oldest first. Each summary's Key is the run id.
func (s *ReportService) CategoryHistory(ctx context.Context, category string) ([]domain.GroupSummary, error) {
	store, err := s.openHistory(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	history, err := store.CategoryHistory(ctx, category)
	if err != nil {
		return nil, err
	}
	return nonNil(history), nil
}

func (s *ReportService) openHistory(ctx context.Context) (*exporter.HistoryStore, error) {
	if !config.FileExists(s.historyPath) {
		return nil, apperrors.NewNotFoundError("run history")
	}
	return exporter.OpenHistoryStore(ctx, s.historyPath)
}

// Available reports whether a report has been written.
func (s *ReportService) Available() bool {
	return config.FileExists(s.reportPath)
}

func nonNil(groups []domain.GroupSummary) []domain.GroupSummary {
	if groups == nil {
		return []domain.GroupSummary{}
	}
	return groups
}
