package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/middleware"
	"github.com/expensevista/expensevista-backend/internal/response"
)

// maxWebhookBody caps webhook reads; Paystack payloads are small.
const maxWebhookBody = 1 << 20

type paystackService interface {
	InitializeTopUp(ctx context.Context, uid string, req dto.InitializeTopUpRequest) (*dto.InitializeTopUpResponse, error)
	VerifyTopUp(ctx context.Context, uid, reference string) error
	HandleWebhook(ctx context.Context, rawBody []byte, signatureHeader string) error
	Transfer(ctx context.Context, uid string, req dto.TransferRequest) error
}

type paystackHandlers struct {
	ResponseHandler response.ResponseHandler
	PaystackSvc     paystackService
}

func NewPaystackHandlers(deps *Deps) *paystackHandlers {
	return &paystackHandlers{
		ResponseHandler: deps.ResponseHandler,
		PaystackSvc:     deps.PaystackSvc,
	}
}

// TopUpRoutes are authenticated endpoints for starting and confirming
// checkout sessions.
func (h *paystackHandlers) TopUpRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/initialize", h.InitializeTopUp)
	r.Get("/verify/{reference}", h.VerifyTopUp)
	return r
}

func (h *paystackHandlers) InitializeTopUp(w http.ResponseWriter, r *http.Request) {
	var req dto.InitializeTopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	resp, err := h.PaystackSvc.InitializeTopUp(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *paystackHandlers) VerifyTopUp(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	uid := middleware.UID(r.Context())
	if err := h.PaystackSvc.VerifyTopUp(r.Context(), uid, reference); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

// Webhook is the unauthenticated gateway callback. The raw body must reach
// the service untouched: the HMAC signature covers the exact bytes sent.
func (h *paystackHandlers) Webhook(w http.ResponseWriter, r *http.Request) {
	rawBody, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("failed to read webhook body"))
		return
	}

	signature := r.Header.Get("x-paystack-signature")
	if err := h.PaystackSvc.HandleWebhook(r.Context(), rawBody, signature); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
