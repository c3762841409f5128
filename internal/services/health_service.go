package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// ReportAvailability is the subset of ReportService the health check needs.
type ReportAvailability interface {
	Available() bool
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	reports   ReportAvailability
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, reports ReportAvailability, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		reports:   reports,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck reports liveness together with whether a report can be served.
// A missing report is not a failure: the viewer may start before the first
// analysis run.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
		},
		Services: map[string]interface{}{
			"report": hs.checkReport(),
		},
	}

	hs.logger.DebugContext(ctx, "health check completed", slog.String("status", status.Status))
	return status
}

func (hs *HealthService) checkReport() ServiceHealth {
	if hs.reports == nil {
		return ServiceHealth{Status: "unknown"}
	}
	if !hs.reports.Available() {
		return ServiceHealth{Status: "empty", Message: "no analysis report written yet"}
	}
	return ServiceHealth{Status: "ready"}
}
