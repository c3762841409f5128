package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"returnscli/internal/config"
	"returnscli/internal/infrastructure"
	"returnscli/internal/services"
	handlers "returnscli/internal/transport/http"
	"returnscli/pkg/contracts"
)

const defaultShutdownTimeout = 10 * time.Second

// Application is the report viewer: services, router and HTTP server wired
// from one configuration.
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Server        *http.Server
	Reports       *services.ReportService
	Health        *services.HealthService
	OTelProviders *infrastructure.OTelProviders
	Logger        *slog.Logger

	listener net.Listener
}

// New builds the viewer. Relative report paths are resolved against the
// working directory.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	paths, err := config.ResolvePaths(cfg.Paths, "")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	reports := services.NewReportService(paths.ReportsDir, logger).
		WithHistoryDB(historyPath(paths, cfg.Export.HistoryDB))
	health := services.NewHealthService(contracts.Version, reports, logger)

	router, err := handlers.NewRouter(handlers.RouterDeps{
		Reports:   reports,
		Health:    health,
		Server:    cfg.Server,
		Telemetry: providers,
		Logger:    logger,
	})
	if err != nil {
		_ = providers.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to build router: %w", err)
	}

	return &Application{
		Config:  cfg,
		Paths:   paths,
		Reports: reports,
		Health:  health,
		Server: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		OTelProviders: providers,
		Logger:        logger,
	}, nil
}

// historyPath mirrors the exporter: relative names live in the reports dir.
func historyPath(paths *config.Paths, name string) string {
	if name == "" {
		name = config.HistoryDBFile
	}
	return paths.GetReportPath(name)
}

// Start binds the listener and serves in the background. Serve errors
// cancel the application context.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.listener = ln

	a.Logger.InfoContext(ctx, "report viewer started",
		slog.String("address", "http://"+ln.Addr().String()),
		slog.String("reports_dir", a.Paths.ReportsDir),
		slog.String("version", contracts.Version),
		slog.Bool("report_available", a.Reports.Available()),
	)

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (a *Application) Addr() string {
	if a.listener == nil {
		return a.Server.Addr
	}
	return a.listener.Addr().String()
}

// Stop gracefully stops the server and flushes telemetry.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down report viewer")

	timeout := a.Config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "report viewer stopped")
	return nil
}

// Run serves until SIGINT/SIGTERM or a serve error, then shuts down.
func (a *Application) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	return a.Stop(ctx)
}
