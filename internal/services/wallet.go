package services

import (
	"context"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/models"
	"github.com/expensevista/expensevista-backend/pkg/helpers"
)

// walletWSStore is the Firestore storage interface for wallets. Credit and
// Debit commit the balance change, the history entry and the mirrored ledger
// transaction in a single Firestore transaction.
type walletWSStore interface {
	GetOrCreate(ctx context.Context, uid string) (*models.Wallet, error)
	ListEntries(ctx context.Context, uid string) ([]models.WalletTransaction, error)
	Credit(ctx context.Context, uid string, entry *models.WalletTransaction, mirror *models.Transaction) error
	Debit(ctx context.Context, uid string, entry *models.WalletTransaction, mirror *models.Transaction) error
}

// mirrorBuilder constructs the automatic ledger transaction that accompanies
// every wallet movement.
type mirrorBuilder interface {
	NewWalletMirror(ctx context.Context, uid string, amount float64, categoryName string, txType models.TransactionType, description, source, reference string) (*models.Transaction, error)
}

type walletService struct {
	store   walletWSStore
	mirrors mirrorBuilder
}

func NewWalletService(store walletWSStore, mirrors mirrorBuilder) *walletService {
	return &walletService{store: store, mirrors: mirrors}
}

// GetWallet returns the balance and full movement history, creating an empty
// wallet on first access.
func (s *walletService) GetWallet(ctx context.Context, uid string) (*dto.WalletResponse, error) {
	w, err := s.store.GetOrCreate(ctx, uid)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.ListEntries(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &dto.WalletResponse{Balance: w.Balance, Transactions: entries}, nil
}

// GetHistory returns the movement history alone, newest first.
func (s *walletService) GetHistory(ctx context.Context, uid string) ([]models.WalletTransaction, error) {
	return s.store.ListEntries(ctx, uid)
}

// Credit adds funds to the wallet. The (source, reference) pair is the
// idempotency key: a repeat call fails with AlreadyExists and leaves the
// balance untouched.
func (s *walletService) Credit(ctx context.Context, uid string, amount float64, categoryName, description, source, reference string) error {
	if err := validateMovement(amount, source, reference); err != nil {
		return err
	}
	if _, err := s.store.GetOrCreate(ctx, uid); err != nil {
		return err
	}

	amount = helpers.Round2(amount)
	mirror, err := s.mirrors.NewWalletMirror(ctx, uid, amount, categoryName, models.Income, description, source, reference)
	if err != nil {
		return err
	}
	entry := &models.WalletTransaction{
		Amount:      amount,
		Type:        models.WalletCredit,
		Source:      source,
		Reference:   reference,
		Description: description,
	}
	return s.store.Credit(ctx, uid, entry, mirror)
}

// Debit removes funds from the wallet under the same idempotency and
// atomicity rules as Credit, and fails with InsufficientFunds when the
// balance cannot cover the amount.
func (s *walletService) Debit(ctx context.Context, uid string, amount float64, categoryName, description, source, reference string) error {
	if err := validateMovement(amount, source, reference); err != nil {
		return err
	}
	if _, err := s.store.GetOrCreate(ctx, uid); err != nil {
		return err
	}

	amount = helpers.Round2(amount)
	mirror, err := s.mirrors.NewWalletMirror(ctx, uid, amount, categoryName, models.Expense, description, source, reference)
	if err != nil {
		return err
	}
	entry := &models.WalletTransaction{
		Amount:      amount,
		Type:        models.WalletDebit,
		Source:      source,
		Reference:   reference,
		Description: description,
	}
	return s.store.Debit(ctx, uid, entry, mirror)
}

func validateMovement(amount float64, source, reference string) error {
	if amount <= 0 {
		return errs.NewValidationError("amount must be positive")
	}
	if source == "" || reference == "" {
		return errs.NewValidationError("source and reference are required")
	}
	return nil
}
