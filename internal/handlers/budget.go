package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/middleware"
	"github.com/expensevista/expensevista-backend/internal/models"
	"github.com/expensevista/expensevista-backend/internal/response"
)

type budgetService interface {
	List(ctx context.Context, uid string) ([]models.Budget, error)
	Create(ctx context.Context, uid string, req dto.CreateBudgetRequest) (*models.Budget, error)
	Update(ctx context.Context, budgetID, uid string, req dto.UpdateBudgetRequest) (*models.Budget, error)
	Delete(ctx context.Context, budgetID, uid string) error
	GetStatus(ctx context.Context, uid string, ref time.Time) (*dto.BudgetStatus, error)
}

type budgetHandlers struct {
	ResponseHandler response.ResponseHandler
	BudgetSvc       budgetService
}

func NewBudgetHandlers(deps *Deps) *budgetHandlers {
	return &budgetHandlers{
		ResponseHandler: deps.ResponseHandler,
		BudgetSvc:       deps.BudgetSvc,
	}
}

func (h *budgetHandlers) BudgetRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListBudgets)
	r.Post("/", h.CreateBudget)
	r.Get("/status", h.GetBudgetStatus) // must be before /{budgetId}
	r.Put("/{budgetId}", h.UpdateBudget)
	r.Delete("/{budgetId}", h.DeleteBudget)
	return r
}

func (h *budgetHandlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	budgets, err := h.BudgetSvc.List(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, budgets)
}

func (h *budgetHandlers) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	budget, err := h.BudgetSvc.Create(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, budget)
}

func (h *budgetHandlers) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "budgetId")
	var req dto.UpdateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	budget, err := h.BudgetSvc.Update(r.Context(), budgetID, uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, budget)
}

func (h *budgetHandlers) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "budgetId")
	uid := middleware.UID(r.Context())
	if err := h.BudgetSvc.Delete(r.Context(), budgetID, uid); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

// GetBudgetStatus reports usage for the month named by ?month=YYYY-MM, or the
// current month when absent.
func (h *budgetHandlers) GetBudgetStatus(w http.ResponseWriter, r *http.Request) {
	var ref time.Time
	if v := r.URL.Query().Get("month"); v != "" {
		parsed, err := time.Parse("2006-01", v)
		if err != nil {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("month must be formatted YYYY-MM"))
			return
		}
		ref = parsed
	}

	uid := middleware.UID(r.Context())
	status, err := h.BudgetSvc.GetStatus(r.Context(), uid, ref)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, status)
}
