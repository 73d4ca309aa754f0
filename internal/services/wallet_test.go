package services

import (
	"context"
	"errors"
	"testing"

	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/models"
	"github.com/expensevista/expensevista-backend/pkg/helpers"
)

// fakeWalletStore reproduces the storage semantics in memory: atomic apply,
// reference idempotency and the balance check.
type fakeWalletStore struct {
	balance float64
	entries []models.WalletTransaction
	mirrors []*models.Transaction
	applied map[string]bool
}

func newFakeWalletStore() *fakeWalletStore {
	return &fakeWalletStore{applied: map[string]bool{}}
}

func (f *fakeWalletStore) GetOrCreate(ctx context.Context, uid string) (*models.Wallet, error) {
	return &models.Wallet{UserID: uid, Balance: f.balance}, nil
}

func (f *fakeWalletStore) ListEntries(ctx context.Context, uid string) ([]models.WalletTransaction, error) {
	return f.entries, nil
}

func (f *fakeWalletStore) Credit(ctx context.Context, uid string, entry *models.WalletTransaction, mirror *models.Transaction) error {
	key := entry.Source + "_" + entry.Reference
	if f.applied[key] {
		return errs.NewAlreadyExistsError("wallet transaction with this reference already exists")
	}
	f.applied[key] = true
	f.balance = helpers.Round2(f.balance + entry.Amount)
	f.entries = append(f.entries, *entry)
	f.mirrors = append(f.mirrors, mirror)
	return nil
}

func (f *fakeWalletStore) Debit(ctx context.Context, uid string, entry *models.WalletTransaction, mirror *models.Transaction) error {
	key := entry.Source + "_" + entry.Reference
	if f.applied[key] {
		return errs.NewAlreadyExistsError("wallet transaction with this reference already exists")
	}
	if f.balance < entry.Amount {
		return errs.NewInsufficientFundsError("wallet balance is insufficient for this debit")
	}
	f.applied[key] = true
	f.balance = helpers.Round2(f.balance - entry.Amount)
	f.entries = append(f.entries, *entry)
	f.mirrors = append(f.mirrors, mirror)
	return nil
}

type fakeMirrorBuilder struct {
	err  error
	last *models.Transaction
}

func (f *fakeMirrorBuilder) NewWalletMirror(ctx context.Context, uid string, amount float64, categoryName string, txType models.TransactionType, description, source, reference string) (*models.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.last = &models.Transaction{
		TransactionID:   "mirror_" + reference,
		Amount:          amount,
		ConvertedAmount: amount,
		Type:            txType,
		CategoryName:    categoryName,
		Description:     description,
		IsAutomatic:     true,
		Source:          source,
		Reference:       reference,
	}
	return f.last, nil
}

func TestCreditThenDebitNetsToZero(t *testing.T) {
	store := newFakeWalletStore()
	svc := NewWalletService(store, &fakeMirrorBuilder{})

	if err := svc.Credit(helpers.TestCtx(), "user", 100, "Funding", "Wallet top-up", "paystack", "ref_1"); err != nil {
		t.Fatalf("Credit error: %v", err)
	}
	if err := svc.Debit(helpers.TestCtx(), "user", 100, "Transfer", "Transfer out", "transfer", "ref_2"); err != nil {
		t.Fatalf("Debit error: %v", err)
	}

	if store.balance != 0 {
		t.Fatalf("balance mismatch: got %v", store.balance)
	}
	if len(store.entries) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(store.entries))
	}
	if len(store.mirrors) != 2 {
		t.Fatalf("expected 2 mirrored transactions, got %d", len(store.mirrors))
	}
	if store.mirrors[0].Type != models.Income || store.mirrors[1].Type != models.Expense {
		t.Fatalf("mirror types mismatch: %+v", store.mirrors)
	}
	if store.mirrors[0].CategoryName != "Funding" || store.mirrors[1].CategoryName != "Transfer" {
		t.Fatalf("mirror categories mismatch: %+v", store.mirrors)
	}
}

func TestDebitInsufficientFunds(t *testing.T) {
	store := newFakeWalletStore()
	store.balance = 50
	svc := NewWalletService(store, &fakeMirrorBuilder{})

	err := svc.Debit(helpers.TestCtx(), "user", 100, "Transfer", "Transfer out", "transfer", "ref_1")
	var insufficient *errs.InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientFundsError, got %v", err)
	}
	if store.balance != 50 {
		t.Fatalf("failed debit must not change balance: got %v", store.balance)
	}
	if len(store.entries) != 0 || len(store.mirrors) != 0 {
		t.Fatal("failed debit must not record entries or mirrors")
	}
}

func TestCreditDuplicateReference(t *testing.T) {
	store := newFakeWalletStore()
	svc := NewWalletService(store, &fakeMirrorBuilder{})

	if err := svc.Credit(helpers.TestCtx(), "user", 100, "Funding", "Wallet top-up", "paystack", "ref_1"); err != nil {
		t.Fatalf("Credit error: %v", err)
	}
	err := svc.Credit(helpers.TestCtx(), "user", 100, "Funding", "Wallet top-up", "paystack", "ref_1")
	var exists *errs.AlreadyExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("expected AlreadyExistsError, got %v", err)
	}
	if store.balance != 100 {
		t.Fatalf("duplicate credit must not apply twice: got %v", store.balance)
	}
}

func TestCreditValidation(t *testing.T) {
	svc := NewWalletService(newFakeWalletStore(), &fakeMirrorBuilder{})

	cases := []struct {
		name               string
		amount             float64
		source, reference  string
	}{
		{"zero amount", 0, "paystack", "ref"},
		{"negative amount", -5, "paystack", "ref"},
		{"missing source", 5, "", "ref"},
		{"missing reference", 5, "paystack", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Credit(helpers.TestCtx(), "user", tc.amount, "Funding", "", tc.source, tc.reference)
			var validation *errs.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestGetWalletReturnsBalanceAndHistory(t *testing.T) {
	store := newFakeWalletStore()
	store.balance = 75.25
	store.entries = []models.WalletTransaction{{Reference: "ref_1", Amount: 75.25, Type: models.WalletCredit}}
	svc := NewWalletService(store, &fakeMirrorBuilder{})

	wallet, err := svc.GetWallet(helpers.TestCtx(), "user")
	if err != nil {
		t.Fatalf("GetWallet error: %v", err)
	}
	if wallet.Balance != 75.25 {
		t.Fatalf("balance mismatch: got %v", wallet.Balance)
	}
	if len(wallet.Transactions) != 1 {
		t.Fatalf("history mismatch: got %d entries", len(wallet.Transactions))
	}

	entries, err := svc.GetHistory(helpers.TestCtx(), "user")
	if err != nil {
		t.Fatalf("GetHistory error: %v", err)
	}
	if len(entries) != 1 || entries[0].Reference != "ref_1" {
		t.Fatalf("GetHistory mismatch: %+v", entries)
	}
}
