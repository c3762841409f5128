package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"returnscli/internal/config"
	apierrors "returnscli/internal/errors"
	"returnscli/internal/exporter"
	"returnscli/internal/infrastructure"
	"returnscli/internal/services"
	"returnscli/pkg/contracts/domain"
)

// MockReportService is a mock implementation of ReportServiceInterface
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Report(ctx context.Context) (*exporter.ReportDocument, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exporter.ReportDocument), args.Error(1)
}

func (m *MockReportService) Categories(ctx context.Context) ([]domain.GroupSummary, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GroupSummary), args.Error(1)
}

func (m *MockReportService) PriceRanges(ctx context.Context) ([]domain.GroupSummary, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GroupSummary), args.Error(1)
}

func (m *MockReportService) History(ctx context.Context, limit int) ([]exporter.RunRecord, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]exporter.RunRecord), args.Error(1)
}

func (m *MockReportService) CategoryHistory(ctx context.Context, category string) ([]domain.GroupSummary, error) {
	args := m.Called(category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GroupSummary), args.Error(1)
}

type stubHealth struct{}

func (stubHealth) HealthCheck(ctx context.Context) services.HealthStatus {
	return services.HealthStatus{Status: "ok", Version: "test"}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleDocument() *exporter.ReportDocument {
	generated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &exporter.ReportDocument{
		Format:      domain.ReportFormat,
		GeneratedAt: generated,
		Report: &domain.AnalysisReport{
			RunID:             "run-7",
			GeneratedAt:       generated,
			TotalOrders:       3,
			TotalReturns:      2,
			OverallReturnRate: domain.SomeFloat(66.67),
			Categories: []domain.GroupSummary{
				{Key: "Ethnic Wear", TotalOrders: 1, Returns: 1, ReturnRate: 100},
				{Key: "Other", TotalOrders: 1, Returns: 1, ReturnRate: 100},
				{Key: "Western Wear", TotalOrders: 1, Delivered: 1},
			},
			PriceRanges: []domain.GroupSummary{
				{Key: "0-500", TotalOrders: 2, Returns: 2, ReturnRate: 100},
				{Key: "1000-1500", TotalOrders: 1, Delivered: 1},
			},
		},
	}
}

func newTestRouter(t *testing.T, svc ReportServiceInterface, server config.ServerConfig, telemetry *infrastructure.OTelProviders) http.Handler {
	t.Helper()
	router, err := NewRouter(RouterDeps{
		Reports:   svc,
		Health:    stubHealth{},
		Server:    server,
		Telemetry: telemetry,
		Logger:    discardLogger(),
	})
	require.NoError(t, err)
	return router
}

func serve(h http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestReportHandler_GetReport(t *testing.T) {
	svc := new(MockReportService)
	svc.On("Report").Return(sampleDocument(), nil)
	router := newTestRouter(t, svc, config.ServerConfig{}, nil)

	w := serve(router, "/api/report")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	body := decode(t, w)
	assert.Equal(t, domain.ReportFormat, body["format"])
	report := body["report"].(map[string]interface{})
	assert.Equal(t, "run-7", report["run_id"])
	assert.Equal(t, 66.67, report["overall_return_rate"])
	svc.AssertExpectations(t)
}

func TestReportHandler_Groups(t *testing.T) {
	doc := sampleDocument()
	tests := []struct {
		name     string
		target   string
		method   string
		groups   []domain.GroupSummary
		wantKeys []string
	}{
		{
			name:     "categories",
			target:   "/api/report/categories",
			method:   "Categories",
			groups:   doc.Report.Categories,
			wantKeys: []string{"Ethnic Wear", "Other", "Western Wear"},
		},
		{
			name:     "price ranges",
			target:   "/api/report/price-ranges",
			method:   "PriceRanges",
			groups:   doc.Report.PriceRanges,
			wantKeys: []string{"0-500", "1000-1500"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReportService)
			svc.On("Report").Return(doc, nil)
			svc.On(tt.method).Return(tt.groups, nil)
			router := newTestRouter(t, svc, config.ServerConfig{}, nil)

			w := serve(router, tt.target)

			require.Equal(t, http.StatusOK, w.Code)
			var resp GroupsResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "run-7", resp.RunID)
			var keys []string
			for _, g := range resp.Groups {
				keys = append(keys, g.Key)
			}
			assert.Equal(t, tt.wantKeys, keys)
			svc.AssertExpectations(t)
		})
	}
}

func TestReportHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "no report yet",
			err:        apierrors.NewNotFoundError("report analysis_report.json"),
			wantStatus: http.StatusNotFound,
			wantCode:   "REPORT_NOT_FOUND",
		},
		{
			name:       "corrupt report",
			err:        apierrors.NewParsingError("failed to decode report", errors.New("eof")),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "PARSING",
		},
		{
			name:       "unexpected failure",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReportService)
			svc.On("Report").Return(nil, tt.err)
			router := newTestRouter(t, svc, config.ServerConfig{}, nil)

			w := serve(router, "/api/report/categories")

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.NotEmpty(t, body["trace_id"])
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["error_code"])
			}
			svc.AssertNotCalled(t, "Categories")
		})
	}
}

func TestReportHandler_History(t *testing.T) {
	runs := []exporter.RunRecord{
		{RunID: "run-2", TotalOrders: 10, TotalReturns: 4, OverallReturnRate: domain.SomeFloat(40)},
		{RunID: "run-1", TotalOrders: 5, TotalReturns: 1, OverallReturnRate: domain.SomeFloat(20)},
	}

	t.Run("default limit", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("History", 0).Return(runs, nil)
		w := serve(newTestRouter(t, svc, config.ServerConfig{}, nil), "/api/report/history")

		require.Equal(t, http.StatusOK, w.Code)
		var got []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "run-2", got[0]["run_id"])
		assert.Equal(t, 40.0, got[0]["overall_return_rate"])
	})

	t.Run("explicit limit", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("History", 1).Return(runs[:1], nil)
		w := serve(newTestRouter(t, svc, config.ServerConfig{}, nil), "/api/report/history?limit=1")
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		for _, raw := range []string{"abc", "0", "5000"} {
			svc := new(MockReportService)
			w := serve(newTestRouter(t, svc, config.ServerConfig{}, nil), "/api/report/history?limit="+raw)
			assert.Equal(t, http.StatusBadRequest, w.Code, raw)
			assert.Equal(t, "INVALID_LIMIT", decode(t, w)["error_code"])
			svc.AssertNotCalled(t, "History", mock.Anything)
		}
	})

	t.Run("no history", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("History", 0).Return(nil, apierrors.NewNotFoundError("run history"))
		w := serve(newTestRouter(t, svc, config.ServerConfig{}, nil), "/api/report/history")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND", decode(t, w)["error_code"])
	})
}

func TestReportHandler_CategoryHistory(t *testing.T) {
	svc := new(MockReportService)
	svc.On("CategoryHistory", "Beauty & Grooming").Return([]domain.GroupSummary{
		{Key: "run-1", TotalOrders: 4, Returns: 1, ReturnRate: 25},
		{Key: "run-2", TotalOrders: 8, Returns: 4, ReturnRate: 50},
	}, nil)
	svc.On("CategoryHistory", "Unknown").Return(nil, apierrors.NewNotFoundError("run history"))
	router := newTestRouter(t, svc, config.ServerConfig{}, nil)

	w := serve(router, "/api/report/history/categories/Beauty%20&%20Grooming")
	require.Equal(t, http.StatusOK, w.Code)
	var got CategoryHistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Beauty & Grooming", got.Category)
	require.Len(t, got.Runs, 2)
	assert.Equal(t, "run-2", got.Runs[1].Key)
	assert.Equal(t, 50.0, got.Runs[1].ReturnRate)

	w = serve(router, "/api/report/history/categories/Unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}

func TestRouter_HealthAndUnknownRoutes(t *testing.T) {
	router := newTestRouter(t, new(MockReportService), config.ServerConfig{}, nil)

	w := serve(router, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	w = serve(router, "/api/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/report", strings.NewReader("{}"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_PreservesInboundRequestID(t *testing.T) {
	router := newTestRouter(t, new(MockReportService), config.ServerConfig{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestRouter_RateLimit(t *testing.T) {
	server := config.ServerConfig{RateLimit: config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2}}
	router := newTestRouter(t, new(MockReportService), server, nil)

	assert.Equal(t, http.StatusOK, serve(router, "/api/health").Code)
	assert.Equal(t, http.StatusOK, serve(router, "/api/health").Code)

	w := serve(router, "/api/health")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, apierrors.TypeRateLimit, decode(t, w)["type"])
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	providers, err := infrastructure.InitializeOTel(&infrastructure.OTelConfig{
		ServiceName:   "viewer-test",
		TraceExporter: "none",
		EnableMetrics: true,
	}, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	svc := new(MockReportService)
	svc.On("Report").Return(sampleDocument(), nil)
	router := newTestRouter(t, svc, config.ServerConfig{}, providers)

	require.Equal(t, http.StatusOK, serve(router, "/api/report").Code)

	w := serve(router, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
	assert.Contains(t, w.Body.String(), `method="GET"`)
}
