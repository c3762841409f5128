package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"returnscli/internal/config"
	"returnscli/internal/exporter"
	"returnscli/internal/infrastructure"
	"returnscli/pkg/contracts/domain"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		slog.Error("chart generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run reads the category and price range summaries from a results workbook
// (or a JSON report) and writes the chart workbook.
func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("charts", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config.yaml")
	in := fs.String("in", "", "results workbook or JSON report (defaults to the reports directory)")
	out := fs.String("out", "", "chart workbook to write (defaults to the reports directory)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
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
	if *in == "" {
		*in = paths.GetReportPath(config.ResultsWorkbookFile)
	}
	if *out == "" {
		*out = paths.GetReportPath(cfg.Export.ChartsFile)
	}

	categories, priceRanges, err := readSummaries(*in)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := exporter.WriteChartWorkbook(categories, priceRanges, *out); err != nil {
		return err
	}

	logger.Info("chart workbook written",
		slog.String("input", *in),
		slog.String("output", *out),
		slog.Int("categories", len(categories)),
		slog.Int("price_ranges", len(priceRanges)),
	)
	return nil
}

func readSummaries(path string) ([]domain.GroupSummary, []domain.GroupSummary, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		doc, err := exporter.ReadJSONReport(path)
		if err != nil {
			return nil, nil, err
		}
		return doc.Report.Categories, doc.Report.PriceRanges, nil
	}

	wb, err := exporter.ReadResultsWorkbook(path)
	if err != nil {
		return nil, nil, err
	}
	return wb.Categories, wb.PriceRanges, nil
}
