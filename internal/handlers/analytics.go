package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/middleware"
	"github.com/expensevista/expensevista-backend/internal/response"
)

type summaryService interface {
	GetPeriodicSummary(ctx context.Context, uid, period string) (*dto.PeriodicSummary, error)
}

type analyticsService interface {
	GetAnalytics(ctx context.Context, uid, period string) (*dto.FinancialData, error)
}

type analyticsHandlers struct {
	ResponseHandler response.ResponseHandler
	SummarySvc      summaryService
	AnalyticsSvc    analyticsService
}

func NewAnalyticsHandlers(deps *Deps) *analyticsHandlers {
	return &analyticsHandlers{
		ResponseHandler: deps.ResponseHandler,
		SummarySvc:      deps.SummarySvc,
		AnalyticsSvc:    deps.AnalyticsSvc,
	}
}

func (h *analyticsHandlers) AnalyticsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/summary", h.GetSummary)
	r.Get("/financial-data", h.GetFinancialData)
	return r
}

// GetSummary returns income/expense totals and transactions for the period in
// ?period=. Unrecognized periods resolve to "Last Month".
func (h *analyticsHandlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	summary, err := h.SummarySvc.GetPeriodicSummary(r.Context(), uid, r.URL.Query().Get("period"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, summary)
}

func (h *analyticsHandlers) GetFinancialData(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	data, err := h.AnalyticsSvc.GetAnalytics(r.Context(), uid, r.URL.Query().Get("period"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, data)
}
