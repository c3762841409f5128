package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"returnscli/internal/config"
	apierrors "returnscli/internal/errors"
	"returnscli/internal/infrastructure"
	"returnscli/internal/middleware"
)

// RouterDeps are the collaborators of the viewer router. Telemetry is
// optional; without it no spans are recorded and /metrics is not mounted.
type RouterDeps struct {
	Reports   ReportServiceInterface
	Health    HealthServiceInterface
	Server    config.ServerConfig
	Telemetry *infrastructure.OTelProviders
	Logger    *slog.Logger
}

// NewRouter assembles the read-only report viewer.
//
//	GET /api/health
//	GET /api/report
//	GET /api/report/categories
//	GET /api/report/price-ranges
//	GET /api/report/history
//	GET /api/report/history/categories/{category}
//	GET /metrics
func NewRouter(deps RouterDeps) (http.Handler, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	errorHandler := apierrors.NewErrorHandler(logger, false)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(apierrors.RecoveryMiddleware(errorHandler))
	r.Use(middleware.StructuredLogger(logger))
	if deps.Telemetry != nil {
		otelMW, err := middleware.NewOTelMiddleware(deps.Telemetry)
		if err != nil {
			return nil, err
		}
		r.Use(otelMW.Handler)
	}
	if rl := deps.Server.RateLimit; rl.Enabled {
		r.Use(middleware.NewRateLimiter(rl.RPS, rl.Burst, logger).Handler)
	}
	if deps.Server.WriteTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout(deps.Server.WriteTimeout)))
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", NewHealthHandler(deps.Health, logger).HealthCheck)
		r.Mount("/report", NewReportHandler(deps.Reports, logger, errorHandler).Routes())
	})

	if deps.Telemetry != nil && deps.Telemetry.PrometheusHTTP != nil {
		r.Method(http.MethodGet, "/metrics", deps.Telemetry.PrometheusHTTP)
	}

	return r, nil
}

// requestTimeout leaves headroom below the server write timeout so the
// timeout response can still be written.
func requestTimeout(write time.Duration) time.Duration {
	if write > 2*time.Second {
		return write - time.Second
	}
	return write
}
