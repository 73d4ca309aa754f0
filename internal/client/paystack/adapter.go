package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/errs"
)

const requestTimeout = 15 * time.Second

// Adapter wraps the Paystack REST API. Amounts cross the wire in kobo.
type Adapter struct {
	baseURL       string
	secretKey     string
	webhookSecret string
	client        *http.Client
}

func NewAdapter(baseURL, secretKey, webhookSecret string) *Adapter {
	// Paystack signs webhooks with the account secret key unless a separate
	// webhook secret is configured.
	if webhookSecret == "" {
		webhookSecret = secretKey
	}
	return &Adapter{
		baseURL:       strings.TrimRight(baseURL, "/"),
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		client:        &http.Client{Timeout: requestTimeout},
	}
}

// InitializePayment starts a hosted checkout and returns the redirect URL and
// the gateway reference for later reconciliation.
func (a *Adapter) InitializePayment(ctx context.Context, email string, amount float64, callbackURL string, metadata map[string]string) (authorizationURL, reference string, err error) {
	body := map[string]any{
		"email":  email,
		"amount": toKobo(amount),
	}
	if callbackURL != "" {
		body["callback_url"] = callbackURL
	}
	if len(metadata) > 0 {
		body["metadata"] = metadata
	}

	var out struct {
		Data struct {
			AuthorizationURL string `json:"authorization_url"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}
	if err := a.post(ctx, "/transaction/initialize", body, &out); err != nil {
		return "", "", err
	}
	return out.Data.AuthorizationURL, out.Data.Reference, nil
}

// VerifyPayment looks up a payment by reference.
func (a *Adapter) VerifyPayment(ctx context.Context, reference string) (dto.PaystackVerification, error) {
	var out struct {
		Data dto.PaystackVerification `json:"data"`
	}
	if err := a.get(ctx, "/transaction/verify/"+reference, &out); err != nil {
		return dto.PaystackVerification{}, err
	}
	return out.Data, nil
}

// CreateTransferRecipient registers a bank account for outbound transfers and
// returns its recipient code.
func (a *Adapter) CreateTransferRecipient(ctx context.Context, name, accountNumber, bankCode, currency string) (string, error) {
	body := map[string]any{
		"type":           "nuban",
		"name":           name,
		"account_number": accountNumber,
		"bank_code":      bankCode,
		"currency":       currency,
	}
	var out struct {
		Data struct {
			RecipientCode string `json:"recipient_code"`
		} `json:"data"`
	}
	if err := a.post(ctx, "/transferrecipient", body, &out); err != nil {
		return "", err
	}
	return out.Data.RecipientCode, nil
}

// InitiateTransfer pushes funds from the gateway balance to a recipient.
func (a *Adapter) InitiateTransfer(ctx context.Context, recipientCode string, amount float64, reason string) (string, error) {
	body := map[string]any{
		"source":    "balance",
		"amount":    toKobo(amount),
		"recipient": recipientCode,
		"reason":    reason,
	}
	var out struct {
		Data struct {
			TransferCode string `json:"transfer_code"`
		} `json:"data"`
	}
	if err := a.post(ctx, "/transfer", body, &out); err != nil {
		return "", err
	}
	return out.Data.TransferCode, nil
}

// VerifyWebhookSignature checks the x-paystack-signature header: an
// HMAC-SHA512 of the raw body, hex encoded, compared case-insensitively.
func (a *Adapter) VerifyWebhookSignature(rawBody []byte, signatureHeader string) bool {
	mac := hmac.New(sha512.New, []byte(a.webhookSecret))
	mac.Write(rawBody)
	computed := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(computed), []byte(strings.ToLower(signatureHeader)))
}

// --- HTTP plumbing ---

func (a *Adapter) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return err
	}
	return a.do(req, out)
}

func (a *Adapter) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, out)
}

func (a *Adapter) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+a.secretKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return errs.NewExternalServiceError("paystack", "request failed: "+err.Error(), true)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewExternalServiceError("paystack", "response read failed: "+err.Error(), true)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.NewExternalServiceError("paystack",
			fmt.Sprintf("gateway returned status %d: %s", resp.StatusCode, string(raw)), resp.StatusCode >= 500)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errs.NewExternalServiceError("paystack", "response malformed: "+err.Error(), false)
	}
	return nil
}

func toKobo(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
