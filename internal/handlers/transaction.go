package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/middleware"
	"github.com/expensevista/expensevista-backend/internal/models"
	"github.com/expensevista/expensevista-backend/internal/response"
	"github.com/expensevista/expensevista-backend/pkg/helpers"
)

type transactionService interface {
	List(ctx context.Context, uid string, filter dto.TransactionFilter) (dto.PagedResponse[models.Transaction], error)
	GetByID(ctx context.Context, transactionID, uid string) (*models.Transaction, error)
	Create(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*models.Transaction, error)
	Update(ctx context.Context, transactionID, uid string, req dto.UpdateTransactionRequest) (*models.Transaction, error)
	Delete(ctx context.Context, transactionID, uid string) error
}

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	TransactionSvc  transactionService
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: deps.ResponseHandler,
		TransactionSvc:  deps.TransactionSvc,
	}
}

func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTransactions)
	r.Post("/", h.CreateTransaction)
	r.Get("/{transactionId}", h.GetTransaction)
	r.Put("/{transactionId}", h.UpdateTransaction)
	r.Delete("/{transactionId}", h.DeleteTransaction)
	return r
}

func (h *transactionHandlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	page, err := h.TransactionSvc.List(r.Context(), uid, filter)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, page)
}

func (h *transactionHandlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	uid := middleware.UID(r.Context())
	t, err := h.TransactionSvc.GetByID(r.Context(), transactionID, uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, t)
}

func (h *transactionHandlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	t, err := h.TransactionSvc.Create(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, t)
}

func (h *transactionHandlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	var req dto.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	t, err := h.TransactionSvc.Update(r.Context(), transactionID, uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, t)
}

func (h *transactionHandlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	uid := middleware.UID(r.Context())
	if err := h.TransactionSvc.Delete(r.Context(), transactionID, uid); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

// parseTransactionFilter reads the list query string. Dates are RFC 3339 and
// type is the numeric enum (0=expense, 1=income).
func parseTransactionFilter(r *http.Request) (dto.TransactionFilter, error) {
	q := r.URL.Query()
	filter := dto.TransactionFilter{
		SearchTerm:   q.Get("searchTerm"),
		CategoryName: q.Get("categoryName"),
	}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, errs.NewValidationError("page must be a number")
		}
		filter.Page = n
	}
	if v := q.Get("recordsPerPage"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, errs.NewValidationError("recordsPerPage must be a number")
		}
		filter.RecordsPerPage = n
	}
	if v := q.Get("type"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || (n != int(models.Expense) && n != int(models.Income)) {
			return filter, errs.NewValidationError("type must be 0 (expense) or 1 (income)")
		}
		filter.Type = helpers.Ptr(models.TransactionType(n))
	}
	if v := q.Get("startDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errs.NewValidationError("startDate must be RFC 3339")
		}
		filter.StartDate = &t
	}
	if v := q.Get("endDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errs.NewValidationError("endDate must be RFC 3339")
		}
		filter.EndDate = &t
	}
	return filter, nil
}
