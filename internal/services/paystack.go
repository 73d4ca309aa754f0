package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/models"
	"github.com/expensevista/expensevista-backend/pkg/helpers"
	"github.com/expensevista/expensevista-backend/pkg/logger"
)

const walletSource = "paystack"

// paymentGateway is the Paystack HTTP adapter surface the reconciler uses.
type paymentGateway interface {
	InitializePayment(ctx context.Context, email string, amount float64, callbackURL string, metadata map[string]string) (authorizationURL, reference string, err error)
	VerifyPayment(ctx context.Context, reference string) (dto.PaystackVerification, error)
	CreateTransferRecipient(ctx context.Context, name, accountNumber, bankCode, currency string) (string, error)
	InitiateTransfer(ctx context.Context, recipientCode string, amount float64, reason string) (string, error)
	VerifyWebhookSignature(rawBody []byte, signatureHeader string) bool
}

// walletMover applies reconciled money movements to a user's wallet.
type walletMover interface {
	Credit(ctx context.Context, uid string, amount float64, categoryName, description, source, reference string) error
	Debit(ctx context.Context, uid string, amount float64, categoryName, description, source, reference string) error
}

// webhookAuditor records verified webhook deliveries for the retention sweep.
type webhookAuditor interface {
	Record(ctx context.Context, e *models.WebhookEvent) error
}

type paystackService struct {
	gateway      paymentGateway
	wallet       walletMover
	audit        webhookAuditor
	baseCurrency string
}

func NewPaystackService(gateway paymentGateway, wallet walletMover, audit webhookAuditor, baseCurrency string) *paystackService {
	return &paystackService{
		gateway:      gateway,
		wallet:       wallet,
		audit:        audit,
		baseCurrency: strings.ToUpper(baseCurrency),
	}
}

// InitializeTopUp starts a hosted checkout for a wallet top-up. The user id
// travels in the payment metadata so the webhook can attribute the credit.
func (s *paystackService) InitializeTopUp(ctx context.Context, uid string, req dto.InitializeTopUpRequest) (*dto.InitializeTopUpResponse, error) {
	if req.Amount <= 0 {
		return nil, errs.NewValidationError("amount must be positive")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, errs.NewValidationError("email is required")
	}

	authURL, reference, err := s.gateway.InitializePayment(ctx, req.Email, req.Amount, req.CallbackURL,
		map[string]string{"userId": uid})
	if err != nil {
		return nil, err
	}
	return &dto.InitializeTopUpResponse{AuthorizationURL: authURL, Reference: reference}, nil
}

// VerifyTopUp reconciles a payment by reference on the caller's behalf, for
// clients that poll instead of waiting for the webhook. A payment already
// credited by the webhook verifies as success without a second credit.
func (s *paystackService) VerifyTopUp(ctx context.Context, uid, reference string) error {
	if strings.TrimSpace(reference) == "" {
		return errs.NewValidationError("reference is required")
	}

	verification, err := s.gateway.VerifyPayment(ctx, reference)
	if err != nil {
		return err
	}
	if verification.Status != "success" {
		return errs.NewValidationError("payment has not completed successfully")
	}

	// Metadata attribution wins; the authenticated caller is the fallback on
	// this path only, since the gateway is vouching for the reference.
	owner := verification.Metadata["userId"]
	if owner == "" {
		owner = uid
	}
	if owner != uid {
		return errs.NewUnauthorizedError("payment belongs to another user")
	}

	return s.credit(ctx, owner, verification)
}

// HandleWebhook processes a raw Paystack webhook delivery. Signature failures
// are Unauthorized and nothing else is inspected. Redeliveries of an already
// credited reference are acknowledged without a second credit.
func (s *paystackService) HandleWebhook(ctx context.Context, rawBody []byte, signatureHeader string) error {
	log := logger.FromContext(ctx)

	if !s.gateway.VerifyWebhookSignature(rawBody, signatureHeader) {
		return errs.NewUnauthorizedError("webhook signature verification failed")
	}

	var event dto.PaystackWebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return errs.NewValidationError("webhook payload is not valid JSON")
	}

	// Audit is best effort: a failed write must not reject the delivery.
	if err := s.audit.Record(ctx, &models.WebhookEvent{
		EventID:   auditEventID(event),
		Event:     event.Event,
		Reference: event.Data.Reference,
		Status:    event.Data.Status,
	}); err != nil {
		log.Warn("failed to record webhook audit event", "error", err)
	}

	if event.Event != "charge.success" {
		log.Info("ignoring paystack webhook event", "event", event.Event)
		return nil
	}
	if event.Data.Status != "success" {
		log.Info("ignoring charge.success webhook with non-success status",
			"status", event.Data.Status, "reference", event.Data.Reference)
		return nil
	}

	uid := event.Data.Metadata["userId"]
	if uid == "" {
		// Without attribution the credit cannot be applied to anyone.
		return errs.NewValidationError("webhook metadata is missing the user id")
	}

	if err := s.credit(ctx, uid, event.Data); err != nil {
		return err
	}
	log.Info("wallet credited from webhook", "reference", event.Data.Reference)
	return nil
}

// Transfer debits the wallet and pushes the funds out through the gateway.
// When the gateway leg fails after the debit, the debit is reversed with a
// compensating credit so the wallet never loses money the gateway kept.
func (s *paystackService) Transfer(ctx context.Context, uid string, req dto.TransferRequest) error {
	if req.Amount <= 0 {
		return errs.NewValidationError("amount must be positive")
	}
	if req.AccountNumber == "" || req.BankCode == "" || req.AccountName == "" {
		return errs.NewValidationError("account name, account number and bank code are required")
	}

	reference := uuid.New().String()
	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Transfer to %s", req.AccountName)
	}

	if err := s.wallet.Debit(ctx, uid, req.Amount, "Transfer", description, "transfer", reference); err != nil {
		return err
	}

	recipient, err := s.gateway.CreateTransferRecipient(ctx, req.AccountName, req.AccountNumber, req.BankCode, s.baseCurrency)
	if err == nil {
		_, err = s.gateway.InitiateTransfer(ctx, recipient, req.Amount, description)
	}
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error("outbound transfer failed after debit, reversing",
			"reference", reference, "error", err)
		reversal := s.wallet.Credit(ctx, uid, req.Amount, "Reversal",
			"Reversal of failed transfer "+reference, "reversal", reference)
		if reversal != nil {
			log.Error("transfer reversal failed, wallet debit is stranded",
				"reference", reference, "error", reversal)
		}
		return err
	}
	return nil
}

// auditEventID keys the audit record so a redelivery overwrites rather than
// duplicates. Deliveries without a reference get a random id.
func auditEventID(event dto.PaystackWebhookEvent) string {
	if event.Data.Reference == "" {
		return uuid.New().String()
	}
	return strings.ToLower(event.Event) + "_" + event.Data.Reference
}

// credit applies a verified gateway payment to the wallet, converting from
// the gateway's minor unit. An AlreadyExists from the wallet means the
// reference was reconciled before and counts as success.
func (s *paystackService) credit(ctx context.Context, uid string, v dto.PaystackVerification) error {
	amount := helpers.Round2(float64(v.Amount) / 100)
	if amount <= 0 {
		return errs.NewValidationError("payment amount must be positive")
	}

	err := s.wallet.Credit(ctx, uid, amount, "Funding", "Wallet top-up via Paystack", walletSource, v.Reference)
	if err != nil {
		var exists *errs.AlreadyExistsError
		if errors.As(err, &exists) {
			return nil
		}
		return err
	}
	return nil
}
