package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"returnscli/internal/app"
	"returnscli/internal/config"
	"returnscli/internal/infrastructure"
)

func main() {
	application, err := setup(os.Args[1:], os.Stderr)
	if err != nil {
		slog.Error("failed to start report viewer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := application.Run(); err != nil {
		application.Logger.Error("report viewer stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setup parses flags, loads configuration and builds the viewer.
func setup(args []string, stderr io.Writer) (*app.Application, error) {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config.yaml")
	reports := fs.String("reports", "", "reports directory written by the analyzer")
	addr := fs.String("addr", "", "listen address, e.g. 127.0.0.1:8090")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	if *reports != "" {
		cfg.Paths.ReportsDir = *reports
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return app.New(cfg, infrastructure.WithComponent(logger, "dashboard"))
}
