package operations

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"returnscli/internal/categorizer"
	"returnscli/internal/dataprocessing"
	"returnscli/internal/exporter"
	"returnscli/internal/report"
	"returnscli/pkg/contracts/domain"
)

// FormatConsole prints the report instead of writing a file.
const FormatConsole = "console"

// AnalysisOptions configures the analysis steps.
type AnalysisOptions struct {
	ForwardPath string
	OrdersPath  string
	Sheet       string
	Mapping     domain.ColumnMapping
	Table       *categorizer.Table
	Workers     int
	TopKeywords int
	Formats     []string
	Console     io.Writer
	Exporter    *exporter.Exporter
	Tracer      *OperationTracer
}

// NewAnalysisSteps builds the load, prepare, categorize, aggregate and
// export steps in execution order.
func NewAnalysisSteps(opts AnalysisOptions, logger *slog.Logger) []Step {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Table == nil {
		opts.Table = categorizer.DefaultTable()
	}
	return []Step{
		&LoadStep{BaseStep: NewBaseStep(StepIDLoad, StepNameLoad), opts: opts, loader: dataprocessing.NewLoader(logger)},
		&PrepareStep{BaseStep: NewBaseStep(StepIDPrepare, StepNamePrepare), tracer: opts.Tracer, pre: dataprocessing.NewPreprocessor(logger, opts.Mapping)},
		&CategorizeStep{BaseStep: NewBaseStep(StepIDCategorize, StepNameCategorize), categorizer: categorizer.New(opts.Table), workers: opts.Workers},
		&AggregateStep{BaseStep: NewBaseStep(StepIDAggregate, StepNameAggregate), table: opts.Table, topKeywords: opts.TopKeywords},
		&ExportStep{BaseStep: NewBaseStep(StepIDExport, StepNameExport), exporter: opts.Exporter, formats: opts.Formats, console: opts.Console},
	}
}

// LoadStep reads both input tables concurrently.
type LoadStep struct {
	BaseStep
	opts   AnalysisOptions
	loader *dataprocessing.Loader
}

// Validate requires both input paths.
func (s *LoadStep) Validate(*OperationState) error {
	if s.opts.ForwardPath == "" || s.opts.OrdersPath == "" {
		return fmt.Errorf("both input files are required")
	}
	return nil
}

// Execute loads the fulfillment and order tables
func (s *LoadStep) Execute(ctx context.Context, state *OperationState) error {
	var forward, orders *domain.Table
	loadOpts := dataprocessing.LoadOptions{Sheet: s.opts.Sheet}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.loader.Load(gctx, s.opts.ForwardPath, loadOpts)
		forward = t
		return err
	})
	g.Go(func() error {
		t, err := s.loader.Load(gctx, s.opts.OrdersPath, loadOpts)
		orders = t
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	state.Data.Forward = forward
	state.Data.Orders = orders

	st := state.GetStep(s.ID())
	st.SetMetadata(MetaForwardRows, forward.Len())
	st.SetMetadata(MetaOrderRows, orders.Len())
	st.SetMetadata(MetaRecords, forward.Len()+orders.Len())
	return nil
}

// PrepareStep joins and enriches the loaded tables.
type PrepareStep struct {
	BaseStep
	pre    *dataprocessing.Preprocessor
	tracer *OperationTracer
}

// Validate requires loaded tables.
func (s *PrepareStep) Validate(state *OperationState) error {
	if state.Data.Forward == nil || state.Data.Orders == nil {
		return fmt.Errorf("input tables not loaded")
	}
	return nil
}

// Execute runs the join
func (s *PrepareStep) Execute(ctx context.Context, state *OperationState) error {
	result, err := s.pre.Prepare(ctx, state.Data.Forward, state.Data.Orders)
	if err != nil {
		return err
	}
	state.Data.Prepared = result

	if s.tracer != nil {
		s.tracer.RecordDropped(ctx, result.Join.Dropped())
	}

	st := state.GetStep(s.ID())
	st.SetMetadata(MetaRecords, len(result.Records))
	st.SetMetadata(MetaDroppedRows, result.Join.Dropped())
	return nil
}

// CategorizeStep assigns a category to every record.
type CategorizeStep struct {
	BaseStep
	categorizer *categorizer.Categorizer
	workers     int
}

// Validate requires prepared records.
func (s *CategorizeStep) Validate(state *OperationState) error {
	if state.Data.Prepared == nil {
		return fmt.Errorf("orders not prepared")
	}
	return nil
}

// Execute categorizes the prepared records
func (s *CategorizeStep) Execute(ctx context.Context, state *OperationState) error {
	records, err := dataprocessing.Categorize(ctx, s.categorizer, state.Data.Prepared.Records, s.workers)
	if err != nil {
		return err
	}
	state.Data.Records = records
	state.GetStep(s.ID()).SetMetadata(MetaRecords, len(records))
	return nil
}

// AggregateStep builds the analysis report.
type AggregateStep struct {
	BaseStep
	table       *categorizer.Table
	topKeywords int
}

// Validate requires categorized records.
func (s *AggregateStep) Validate(state *OperationState) error {
	if state.Data.Prepared == nil {
		return fmt.Errorf("orders not prepared")
	}
	return nil
}

// Execute aggregates by category and price bucket
func (s *AggregateStep) Execute(ctx context.Context, state *OperationState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rep := dataprocessing.Analyze(state.Data.Records, s.table, state.Data.Prepared.Join, dataprocessing.AnalyzeOptions{
		RunID:       state.ID,
		TopKeywords: s.topKeywords,
	})
	state.Data.Report = rep

	st := state.GetStep(s.ID())
	st.SetMetadata(MetaRecords, rep.TotalOrders)
	st.SetMetadata(MetaCategories, len(rep.Categories))
	return nil
}

// ExportStep writes the configured formats.
type ExportStep struct {
	BaseStep
	exporter *exporter.Exporter
	formats  []string
	console  io.Writer
}

// Validate requires a report and an exporter for file formats.
func (s *ExportStep) Validate(state *OperationState) error {
	if state.Data.Report == nil {
		return fmt.Errorf("report not built")
	}
	for _, f := range s.formats {
		if f != FormatConsole && s.exporter == nil {
			return fmt.Errorf("no exporter configured for format %s", f)
		}
	}
	return nil
}

// Execute writes files and prints the console report
func (s *ExportStep) Execute(ctx context.Context, state *OperationState) error {
	console := false
	var files []string
	for _, f := range s.formats {
		if f == FormatConsole {
			console = true
			continue
		}
		files = append(files, f)
	}

	if len(files) > 0 {
		written, err := s.exporter.Export(ctx, state.Data.Report, state.Data.Records, files)
		state.Data.Written = written
		if err != nil {
			return err
		}
	}
	if console && s.console != nil {
		if err := report.NewPrinter(s.console).Print(state.Data.Report); err != nil {
			return err
		}
	}

	st := state.GetStep(s.ID())
	st.SetMetadata(MetaFilesWritten, len(state.Data.Written))
	st.SetMetadata(MetaRecords, len(state.Data.Written))
	return nil
}
