package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "returnscli/internal/errors"
	"returnscli/pkg/contracts/domain"
)

// maxHistoryLimit caps the ?limit= query of the history endpoint.
const maxHistoryLimit = 1000

// ReportHandler serves the latest analysis report read-only.
type ReportHandler struct {
	service      ReportServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes, mounted under /api/report.
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetReport)
	r.Get("/categories", h.GetCategories)
	r.Get("/price-ranges", h.GetPriceRanges)
	r.Get("/history", h.GetHistory)
	r.Get("/history/categories/{category}", h.GetCategoryHistory)

	return r
}

// GroupsResponse wraps a list of group summaries with the run they came from.
type GroupsResponse struct {
	RunID  string                `json:"run_id"`
	Groups []domain.GroupSummary `json:"groups"`
}

// GetReport handles GET /api/report
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Report(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, doc)
}

// GetCategories handles GET /api/report/categories
func (h *ReportHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Report(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	groups, err := h.service.Categories(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, GroupsResponse{RunID: doc.Report.RunID, Groups: groups})
}

// GetPriceRanges handles GET /api/report/price-ranges
func (h *ReportHandler) GetPriceRanges(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Report(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	groups, err := h.service.PriceRanges(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, GroupsResponse{RunID: doc.Report.RunID, Groups: groups})
}

// GetHistory handles GET /api/report/history?limit=N
func (h *ReportHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusBadRequest, "INVALID_LIMIT", "limit must be an integer between 1 and 1000", raw))
			return
		}
		limit = n
	}

	runs, err := h.service.History(r.Context(), limit)
	if err != nil {
		if apierrors.IsType(err, apierrors.ErrTypeNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.NotFoundError("run history"))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, runs)
}

// CategoryHistoryResponse is one category's trend across runs.
type CategoryHistoryResponse struct {
	Category string                `json:"category"`
	Runs     []domain.GroupSummary `json:"runs"`
}

// GetCategoryHistory handles GET /api/report/history/categories/{category}
func (h *ReportHandler) GetCategoryHistory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if decoded, err := url.PathUnescape(category); err == nil {
		category = decoded
	}

	runs, err := h.service.CategoryHistory(r.Context(), category)
	if err != nil {
		if apierrors.IsType(err, apierrors.ErrTypeNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.NotFoundError("run history"))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, CategoryHistoryResponse{Category: category, Runs: runs})
}

// handleError maps a missing report to REPORT_NOT_FOUND and everything else
// through the shared problem-details handler.
func (h *ReportHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if apierrors.IsType(err, apierrors.ErrTypeNotFound) {
		h.logger.DebugContext(r.Context(), "report not available", slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.ErrReportNotFound)
		return
	}
	h.errorHandler.HandleError(w, r, err)
}
