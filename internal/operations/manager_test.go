package operations_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"returnscli/internal/infrastructure"
	"returnscli/internal/operations"
	"returnscli/internal/operations/testutil"
)

func newManager(t *testing.T, steps ...operations.Step) *operations.Manager {
	t.Helper()
	m := operations.NewManager(nil, nil, nil, nil)
	for _, s := range steps {
		require.NoError(t, m.RegisterStep(s))
	}
	return m
}

func TestManager_ExecuteSequential(t *testing.T) {
	var order []string
	record := func(id string) *testutil.MockStep {
		s := testutil.NewMockStep(id)
		s.ExecuteFunc = func(_ context.Context, state *operations.OperationState) error {
			order = append(order, id)
			state.GetStep(id).SetMetadata(operations.MetaRecords, len(order))
			return nil
		}
		return s
	}

	m := newManager(t, record("one"), record("two"), record("three"))
	state, err := m.Execute(context.Background(), "op-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"one", "two", "three"}, order)
	assert.Equal(t, operations.OperationStatusCompleted, state.Status)
	assert.False(t, state.HasFailures())

	resp := state.ToResponse()
	assert.Equal(t, "op-1", resp.ID)
	assert.Equal(t, []string{"one", "two", "three"}, resp.Order)
	for _, id := range resp.Order {
		assert.Equal(t, operations.StepStatusCompleted, resp.Steps[id].Status)
		assert.NotNil(t, resp.Steps[id].StartTime)
	}
	assert.Equal(t, 3, resp.Steps["three"].Metadata[operations.MetaRecords])
}

func TestManager_FailureSkipsRemaining(t *testing.T) {
	boom := errors.New("boom")
	first := testutil.NewMockStep("first")
	failing := testutil.NewFailingStep("failing", boom)
	last := testutil.NewMockStep("last")

	state, err := newManager(t, first, failing, last).Execute(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var opErr *operations.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, operations.ErrorTypeExecution, opErr.Type)
	assert.Equal(t, "failing", opErr.Step)

	assert.NotEmpty(t, state.ID)
	assert.Equal(t, operations.OperationStatusFailed, state.Status)
	assert.Equal(t, operations.StepStatusCompleted, state.GetStep("first").GetStatus())
	assert.Equal(t, operations.StepStatusFailed, state.GetStep("failing").GetStatus())
	assert.Equal(t, operations.StepStatusSkipped, state.GetStep("last").GetStatus())
	assert.Zero(t, last.Calls())
	assert.Contains(t, state.ToResponse().Error, "boom")
}

func TestManager_ValidationFailure(t *testing.T) {
	invalid := testutil.NewMockStep("invalid")
	invalid.ValidateFunc = func(*operations.OperationState) error { return errors.New("missing input") }

	state, err := newManager(t, invalid).Execute(context.Background(), "op")
	var opErr *operations.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, operations.ErrorTypeValidation, opErr.Type)
	assert.Zero(t, invalid.Calls())
	assert.Equal(t, operations.StepStatusFailed, state.GetStep("invalid").GetStatus())
}

func TestManager_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	first := testutil.NewMockStep("first")
	first.ExecuteFunc = func(context.Context, *operations.OperationState) error {
		cancel()
		return nil
	}
	second := testutil.NewMockStep("second")

	state, err := newManager(t, first, second).Execute(ctx, "op")
	require.Error(t, err)
	assert.True(t, operations.IsCancellation(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, operations.OperationStatusCancelled, state.Status)
	assert.Equal(t, operations.StepStatusSkipped, state.GetStep("second").GetStatus())
	assert.Zero(t, second.Calls())
}

func TestManager_StepTimeout(t *testing.T) {
	slow := testutil.NewMockStep("slow")
	slow.ExecuteFunc = func(ctx context.Context, _ *operations.OperationState) error {
		<-ctx.Done()
		return ctx.Err()
	}

	m := operations.NewManager(nil, &operations.Config{StepTimeout: 10 * time.Millisecond}, nil, nil)
	require.NoError(t, m.RegisterStep(slow))

	state, err := m.Execute(context.Background(), "op")
	var opErr *operations.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, operations.ErrorTypeTimeout, opErr.Type)
	assert.Equal(t, operations.OperationStatusFailed, state.Status)
}

func TestManager_RegisterDuplicate(t *testing.T) {
	m := newManager(t, testutil.NewMockStep("a"))
	assert.Error(t, m.RegisterStep(testutil.NewMockStep("a")))
	assert.Error(t, m.RegisterStep(testutil.NewMockStep("")))
	assert.Error(t, m.RegisterStep(nil))
	assert.Equal(t, 1, m.GetRegistry().Count())
	assert.True(t, m.GetRegistry().Has("a"))

	_, err := m.GetRegistry().Get("missing")
	assert.Error(t, err)
}

func TestManager_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	providers, err := infrastructure.InitializeOTel(&infrastructure.OTelConfig{
		ServiceName:   "test",
		TraceExporter: "none",
		EnableMetrics: true,
	}, nil)
	require.NoError(t, err)
	providers.Tracer = tp.Tracer("test")

	tracer, err := operations.NewOperationTracer(providers)
	require.NoError(t, err)

	m := operations.NewManager(nil, nil, tracer, nil)
	require.NoError(t, m.RegisterStep(testutil.NewMockStep("a")))
	require.NoError(t, m.RegisterStep(testutil.NewFailingStep("b", errors.New("bad"))))

	_, err = m.Execute(context.Background(), "op")
	require.Error(t, err)

	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	assert.ElementsMatch(t, []string{"operation.step.a", "operation.step.b", "operation.execute"}, names)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "analysis_steps_total")
	assert.Contains(t, rec.Body.String(), "analysis_runs_total")
}
