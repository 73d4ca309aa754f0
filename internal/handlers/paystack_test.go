package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/response"
	"github.com/expensevista/expensevista-backend/pkg/logger"
)

type fakePaystackService struct {
	webhookErr    error
	lastBody      []byte
	lastSignature string
}

func (f *fakePaystackService) InitializeTopUp(ctx context.Context, uid string, req dto.InitializeTopUpRequest) (*dto.InitializeTopUpResponse, error) {
	return &dto.InitializeTopUpResponse{AuthorizationURL: "https://checkout.example", Reference: "ref"}, nil
}

func (f *fakePaystackService) VerifyTopUp(ctx context.Context, uid, reference string) error {
	return nil
}

func (f *fakePaystackService) HandleWebhook(ctx context.Context, rawBody []byte, signatureHeader string) error {
	f.lastBody = rawBody
	f.lastSignature = signatureHeader
	return f.webhookErr
}

func (f *fakePaystackService) Transfer(ctx context.Context, uid string, req dto.TransferRequest) error {
	return nil
}

func testDeps(svc paystackService) *Deps {
	log := slog.New(logger.NewTestHandler(slog.LevelInfo))
	return &Deps{
		Log:             log,
		ResponseHandler: response.New(log),
		PaystackSvc:     svc,
	}
}

func TestWebhookPassesRawBodyAndSignature(t *testing.T) {
	svc := &fakePaystackService{}
	h := NewPaystackHandlers(testDeps(svc))

	body := []byte(`{"event":"charge.success"}`)
	req := httptest.NewRequest(http.MethodPost, "/paystack/webhook", bytes.NewReader(body))
	req.Header.Set("x-paystack-signature", "abc123")
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status mismatch: got %d", rec.Code)
	}
	if !bytes.Equal(svc.lastBody, body) {
		t.Fatalf("raw body altered: %q", svc.lastBody)
	}
	if svc.lastSignature != "abc123" {
		t.Fatalf("signature header mismatch: %q", svc.lastSignature)
	}
}

func TestWebhookBadSignatureIsForbidden(t *testing.T) {
	svc := &fakePaystackService{webhookErr: errs.NewUnauthorizedError("signature mismatch")}
	h := NewPaystackHandlers(testDeps(svc))

	req := httptest.NewRequest(http.MethodPost, "/paystack/webhook", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status mismatch: got %d", rec.Code)
	}
}

func TestWebhookValidationFailureIsBadRequest(t *testing.T) {
	svc := &fakePaystackService{webhookErr: errs.NewValidationError("missing user id")}
	h := NewPaystackHandlers(testDeps(svc))

	req := httptest.NewRequest(http.MethodPost, "/paystack/webhook", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status mismatch: got %d", rec.Code)
	}
}
