package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Config tunes the Manager
type Config struct {
	StepTimeout time.Duration
}

// NewConfig returns the default configuration
func NewConfig() *Config {
	return &Config{StepTimeout: DefaultStepTimeout}
}

// Manager runs registered steps one after another. A failing step fails
// the operation and every later step is marked skipped.
type Manager struct {
	registry *Registry
	config   *Config
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewManager creates a manager. Nil arguments select defaults.
func NewManager(registry *Registry, config *Config, tracer *OperationTracer, logger *slog.Logger) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if config == nil {
		config = NewConfig()
	}
	if tracer == nil {
		tracer, _ = NewOperationTracer(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{registry: registry, config: config, tracer: tracer, logger: logger}
}

// RegisterStep adds a step to the end of the operation
func (m *Manager) RegisterStep(step Step) error {
	return m.registry.Register(step)
}

// GetRegistry returns the step registry
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// Execute runs every registered step against a fresh state. The returned
// state is complete even when err is non-nil.
func (m *Manager) Execute(ctx context.Context, id string) (*OperationState, error) {
	if id == "" {
		id = uuid.NewString()
	}
	state := NewOperationState(id)
	steps := m.registry.Steps()
	for _, step := range steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	ctx, span := m.tracer.TraceOperationExecution(ctx, id, len(steps))
	defer span.End()

	logger := m.logger.With(slog.String("operation_id", id))
	logger.InfoContext(ctx, "operation started", slog.Int("step_count", len(steps)))

	state.Start()
	err := m.executeSequential(ctx, state, steps, logger)
	switch {
	case err == nil:
		state.Complete()
	case IsCancellation(err):
		state.Cancel(err)
	default:
		state.Fail(err)
	}

	duration := state.Duration()
	m.tracer.RecordOperationCompletion(ctx, span, duration, err)

	if err != nil {
		logger.ErrorContext(ctx, "operation failed",
			slog.String("status", string(state.Status)),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return state, err
	}
	logger.InfoContext(ctx, "operation completed", slog.Duration("duration", duration))
	return state, nil
}

func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step, logger *slog.Logger) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			opErr := NewCancellationError(step.ID(), err)
			m.skipRemaining(state, steps[i:], "operation cancelled")
			return opErr
		}

		logger.InfoContext(ctx, "executing step",
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(steps)))

		if err := m.executeStep(ctx, state, step, logger); err != nil {
			m.skipRemaining(state, steps[i+1:], fmt.Sprintf("previous step %s did not complete", step.ID()))
			return err
		}
	}
	return nil
}

func (m *Manager) executeStep(ctx context.Context, state *OperationState, step Step, logger *slog.Logger) error {
	stepState := state.GetStep(step.ID())
	if stepState == nil {
		return NewFatalError("step state not found", fmt.Errorf("step %s", step.ID()))
	}

	if err := step.Validate(state); err != nil {
		stepState.Fail(err)
		logger.WarnContext(ctx, "step validation failed",
			slog.String("step", step.ID()),
			slog.String("error", err.Error()))
		return NewValidationError(step.ID(), err.Error())
	}

	stepCtx, span := m.tracer.TraceStepExecution(ctx, state.ID, step.ID())
	defer span.End()
	stepCtx, cancel := context.WithTimeout(stepCtx, m.config.StepTimeout)
	defer cancel()

	stepState.Start()
	start := time.Now()
	err := step.Execute(stepCtx, state)
	duration := time.Since(start)

	var records int
	if v, ok := stepState.GetMetadata(MetaRecords); ok {
		records, _ = v.(int)
	}
	if err != nil {
		opErr := classify(ctx, step.ID(), err)
		stepState.Fail(opErr)
		m.tracer.RecordStepCompletion(stepCtx, span, state.ID, step.ID(), duration, records, opErr)
		logger.ErrorContext(stepCtx, "step failed",
			slog.String("step", step.ID()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return opErr
	}

	stepState.Complete()
	m.tracer.RecordStepCompletion(stepCtx, span, state.ID, step.ID(), duration, records, nil)
	logger.InfoContext(stepCtx, "step completed",
		slog.String("step", step.ID()),
		slog.Duration("duration", duration),
		slog.Int("records", records))
	return nil
}

func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		if s := state.GetStep(step.ID()); s != nil && s.GetStatus() == StepStatusPending {
			s.Skip(reason)
		}
	}
}
