package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/response"
)

type currencyService interface {
	GetRate(ctx context.Context, from, to string) (float64, error)
	GetSupportedCurrencies(ctx context.Context) ([]string, error)
}

type currencyHandlers struct {
	ResponseHandler response.ResponseHandler
	CurrencySvc     currencyService
}

func NewCurrencyHandlers(deps *Deps) *currencyHandlers {
	return &currencyHandlers{
		ResponseHandler: deps.ResponseHandler,
		CurrencySvc:     deps.CurrencySvc,
	}
}

func (h *currencyHandlers) CurrencyRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListCurrencies)
	r.Get("/rate", h.GetRate)
	return r
}

func (h *currencyHandlers) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.CurrencySvc.GetSupportedCurrencies(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, currencies)
}

func (h *currencyHandlers) GetRate(w http.ResponseWriter, r *http.Request) {
	from := strings.ToUpper(r.URL.Query().Get("from"))
	to := strings.ToUpper(r.URL.Query().Get("to"))
	if from == "" || to == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("from and to currencies are required"))
		return
	}

	rate, err := h.CurrencySvc.GetRate(r.Context(), from, to)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.RateResponse{From: from, To: to, Rate: rate})
}
