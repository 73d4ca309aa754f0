package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/middleware"
	"github.com/expensevista/expensevista-backend/internal/models"
	"github.com/expensevista/expensevista-backend/internal/response"
)

type walletService interface {
	GetWallet(ctx context.Context, uid string) (*dto.WalletResponse, error)
	GetHistory(ctx context.Context, uid string) ([]models.WalletTransaction, error)
}

type walletHandlers struct {
	ResponseHandler response.ResponseHandler
	WalletSvc       walletService
	PaystackSvc     paystackService
}

func NewWalletHandlers(deps *Deps) *walletHandlers {
	return &walletHandlers{
		ResponseHandler: deps.ResponseHandler,
		WalletSvc:       deps.WalletSvc,
		PaystackSvc:     deps.PaystackSvc,
	}
}

func (h *walletHandlers) WalletRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetWallet)
	r.Get("/transactions", h.GetWalletHistory)
	r.Post("/transfer", h.Transfer)
	return r
}

func (h *walletHandlers) GetWallet(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	wallet, err := h.WalletSvc.GetWallet(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, wallet)
}

func (h *walletHandlers) GetWalletHistory(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	entries, err := h.WalletSvc.GetHistory(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, entries)
}

// Transfer moves wallet funds to a bank account through the payment gateway.
func (h *walletHandlers) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	if err := h.PaystackSvc.Transfer(r.Context(), uid, req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
