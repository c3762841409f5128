package http

import (
	"context"

	"returnscli/internal/exporter"
	"returnscli/internal/services"
	"returnscli/pkg/contracts/domain"
)

// ReportServiceInterface defines the read operations of the report viewer
type ReportServiceInterface interface {
	Report(ctx context.Context) (*exporter.ReportDocument, error)
	Categories(ctx context.Context) ([]domain.GroupSummary, error)
	PriceRanges(ctx context.Context) ([]domain.GroupSummary, error)
	History(ctx context.Context, limit int) ([]exporter.RunRecord, error)
	CategoryHistory(ctx context.Context, category string) ([]domain.GroupSummary, error)
}

// HealthServiceInterface defines the health check operation
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
}
