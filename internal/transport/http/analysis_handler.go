package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "classpulse/internal/errors"
	"classpulse/internal/middleware"
	api "classpulse/pkg/contracts/api/v1"
)

// AnalysisHandler exposes the scoring pipeline over HTTP
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	validation   *middleware.ValidationMiddleware
	query        *middleware.QueryParamValidator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		validation:   middleware.NewValidationMiddleware(logger, errorHandler),
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "analysis_handler")),
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(middleware.ContentTypeValidator(h.errorHandler, "application/json"))
	r.Use(h.validation.ValidateRequest)

	r.Get("/periods", h.ListPeriods)

	r.Route("/analysis", func(r chi.Router) {
		r.Post("/trend", h.Trend)
		r.Post("/export", h.Export)

		r.Get("/ranking", h.Ranking)
		r.Get("/ranking/{period}", h.Ranking)
		r.Get("/items/{period}", h.Items)
		r.Get("/item-trend", h.ItemTrend)
		r.Get("/quality/{period}", h.Quality)
		r.Get("/deductions/{period}", h.Deductions)
		r.Get("/pivot", h.Pivot)
	})

	return r
}

// ListPeriods handles GET /api/periods
func (h *AnalysisHandler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.service.ListPeriods(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.PeriodsResponse{
		Periods: periods,
		Count:   len(periods),
	})
}

// Trend handles POST /api/analysis/trend
func (h *AnalysisHandler) Trend(w http.ResponseWriter, r *http.Request) {
	req := &api.TrendRequest{}
	if r.ContentLength != 0 {
		if err := render.DecodeJSON(r.Body, req); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
	}
	req.Normalize()
	if err := h.validation.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.RunTrend(r.Context(), req.Periods)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "trend analysis served",
		slog.String("run_id", report.RunID),
		slog.Int("at_risk", len(report.Risks)),
		slog.Int("skipped", len(report.Skipped)))
	render.JSON(w, r, report)
}

// Ranking handles GET /api/analysis/ranking/{period}. Without a period the
// latest one is ranked.
func (h *AnalysisHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.RunRanking(r.Context(), pathParam(r, "period"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// Items handles GET /api/analysis/items/{period}
func (h *AnalysisHandler) Items(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.RunItems(r.Context(), pathParam(r, "period"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// ItemTrend handles GET /api/analysis/item-trend?item=...&periods=...
func (h *AnalysisHandler) ItemTrend(w http.ResponseWriter, r *http.Request) {
	item := strings.TrimSpace(r.URL.Query().Get("item"))
	if item == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrMissingParameter)
		return
	}
	periods, ok := h.query.ValidateList(w, r, "periods", api.MaxSelection)
	if !ok {
		return
	}

	report, err := h.service.RunItemTrend(r.Context(), periods, item)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// Quality handles GET /api/analysis/quality/{period}
func (h *AnalysisHandler) Quality(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.RunQuality(r.Context(), pathParam(r, "period"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// Deductions handles GET /api/analysis/deductions/{period}
func (h *AnalysisHandler) Deductions(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.RunDeductions(r.Context(), pathParam(r, "period"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// Pivot handles GET /api/analysis/pivot?periods=...
func (h *AnalysisHandler) Pivot(w http.ResponseWriter, r *http.Request) {
	periods, ok := h.query.ValidateList(w, r, "periods", api.MaxSelection)
	if !ok {
		return
	}

	report, err := h.service.RunPivot(r.Context(), periods)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// Export handles POST /api/analysis/export
func (h *AnalysisHandler) Export(w http.ResponseWriter, r *http.Request) {
	req := &api.ExportRequest{}
	if r.ContentLength != 0 {
		if err := render.DecodeJSON(r.Body, req); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
	}
	req.Normalize()
	if err := h.validation.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Export(r.Context(), req.Periods, "")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, result)
}

// pathParam returns the unescaped URL parameter. Month labels arrive
// percent-encoded.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(raw)
}
