package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"returnscli/internal/categorizer"
	"returnscli/internal/config"
	"returnscli/internal/exporter"
	"returnscli/internal/infrastructure"
	"returnscli/internal/operations"
	"returnscli/internal/validation"
)

// options are the command-line overrides. Empty values keep the
// configuration.
type options struct {
	configPath string
	forward    string
	orders     string
	out        string
	categories string
	workers    int
	formats    string
	quiet      bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("analyzer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.StringVar(&o.configPath, "config", "", "path to config.yaml (defaults to ./config.yaml when present)")
	fs.StringVar(&o.forward, "forward", "", "fulfillment report (csv, tsv or xlsx)")
	fs.StringVar(&o.orders, "orders", "", "order export with product names (csv, tsv or xlsx)")
	fs.StringVar(&o.out, "out", "", "reports directory")
	fs.StringVar(&o.categories, "categories", "", "category keyword table (yaml)")
	fs.IntVar(&o.workers, "workers", -1, "categorization workers (0 = sequential)")
	fs.StringVar(&o.formats, "formats", "", "comma separated outputs: csv,json,xlsx,sqlite,console")
	fs.BoolVar(&o.quiet, "quiet", false, "suppress the console report")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &o, nil
}

// apply overlays the flags onto cfg and revalidates it.
func (o *options) apply(cfg *config.Config) error {
	if o.forward != "" {
		cfg.Input.ForwardFile = o.forward
	}
	if o.orders != "" {
		cfg.Input.OrdersFile = o.orders
	}
	if o.out != "" {
		cfg.Paths.ReportsDir = o.out
	}
	if o.categories != "" {
		cfg.Analysis.CategoriesFile = o.categories
	}
	if o.workers >= 0 {
		cfg.Analysis.Workers = o.workers
	}
	if o.formats != "" {
		cfg.Export.Formats = splitFormats(o.formats)
	}
	if o.quiet {
		kept := cfg.Export.Formats[:0:0]
		for _, f := range cfg.Export.Formats {
			if !strings.EqualFold(f, operations.FormatConsole) {
				kept = append(kept, f)
			}
		}
		cfg.Export.Formats = kept
	}
	return cfg.Validate()
}

func splitFormats(raw string) []string {
	var out []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run executes one analysis. The console report goes to stdout; logs go to
// the configured logger.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := opts.apply(cfg); err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	paths, err := config.ResolvePaths(cfg.Paths, "")
	if err != nil {
		return err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}
	paths.LogPathResolution(logger)

	forwardPath := paths.GetInputPath(cfg.Input.ForwardFile)
	ordersPath := paths.GetInputPath(cfg.Input.OrdersFile)
	validator := validation.NewFileValidator(infrastructure.WithComponent(logger, "validation"))
	if err := validator.ValidateInputs(forwardPath, ordersPath); err != nil {
		return err
	}
	if err := validator.ValidateOutputDirectory(paths.ReportsDir); err != nil {
		return err
	}

	table := categorizer.DefaultTable()
	if cfg.Analysis.CategoriesFile != "" {
		if table, err = categorizer.LoadTable(paths.GetInputPath(cfg.Analysis.CategoriesFile)); err != nil {
			return err
		}
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	tracer, err := operations.NewOperationTracer(providers)
	if err != nil {
		return fmt.Errorf("failed to create operation tracer: %w", err)
	}

	manager := operations.NewManager(nil, nil, tracer, infrastructure.WithComponent(logger, "operations"))
	steps := operations.NewAnalysisSteps(operations.AnalysisOptions{
		ForwardPath: forwardPath,
		OrdersPath:  ordersPath,
		Sheet:       cfg.Input.Sheet,
		Mapping:     cfg.Input.Columns,
		Table:       table,
		Workers:     cfg.Analysis.Workers,
		TopKeywords: cfg.Analysis.TopKeywords,
		Formats:     cfg.Export.Formats,
		Console:     stdout,
		Exporter:    exporter.New(paths, cfg.Export.HistoryDB, infrastructure.WithComponent(logger, "exporter")),
		Tracer:      tracer,
	}, logger)
	for _, step := range steps {
		if err := manager.RegisterStep(step); err != nil {
			return err
		}
	}

	state, err := manager.Execute(infrastructure.EnsureTraceID(ctx), "")
	if err != nil {
		return err
	}

	for _, path := range state.Data.Written {
		logger.Info("artifact written", slog.String("path", path))
	}
	return nil
}
