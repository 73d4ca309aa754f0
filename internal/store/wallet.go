package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/models"
	"github.com/expensevista/expensevista-backend/pkg/helpers"
)

type walletStore struct {
	client *firestore.Client
}

func NewWalletStore(client *firestore.Client) *walletStore {
	return &walletStore{client: client}
}

func (s *walletStore) walletDoc(uid string) *firestore.DocumentRef {
	return s.client.Collection("wallets").Doc(uid)
}

func (s *walletStore) entries(uid string) *firestore.CollectionRef {
	return s.walletDoc(uid).Collection("entries")
}

func (s *walletStore) mirrorDoc(uid, transactionID string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(uid).Collection("transactions").Doc(transactionID)
}

// entryDocID derives the append-only entry's id from the gateway source and
// reference. A redelivered webhook therefore collides on Create instead of
// crediting twice.
func entryDocID(source, reference string) string {
	return strings.ToLower(source) + "_" + reference
}

// GetOrCreate lazily materializes the wallet with a zero balance on first
// touch.
func (s *walletStore) GetOrCreate(ctx context.Context, uid string) (*models.Wallet, error) {
	doc, err := s.walletDoc(uid).Get(ctx)
	if err == nil {
		var w models.Wallet
		if err := doc.DataTo(&w); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse wallet data", err)
		}
		return &w, nil
	}
	if status.Code(err) != codes.NotFound {
		return nil, errs.NewDatabaseError("read", "failed to get wallet", err)
	}

	now := time.Now()
	w := &models.Wallet{UserID: uid, Balance: 0, CreatedAt: now, UpdatedAt: now}
	if _, err := s.walletDoc(uid).Create(ctx, w); err != nil {
		// Lost a create race; the other request's wallet is just as good.
		if status.Code(err) == codes.AlreadyExists {
			return s.GetOrCreate(ctx, uid)
		}
		return nil, errs.NewDatabaseError("create", "failed to create wallet", err)
	}
	return w, nil
}

func (s *walletStore) ListEntries(ctx context.Context, uid string) ([]models.WalletTransaction, error) {
	docs, err := s.entries(uid).OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list wallet transactions", err)
	}
	entries := make([]models.WalletTransaction, 0, len(docs))
	for _, d := range docs {
		var e models.WalletTransaction
		if err := d.DataTo(&e); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse wallet transaction", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Credit applies a wallet credit atomically: balance update, append-only
// entry and mirrored ledger transaction commit together or not at all.
// A duplicate (source, reference) pair fails with AlreadyExists before any
// balance change.
func (s *walletStore) Credit(ctx context.Context, uid string, entry *models.WalletTransaction, mirror *models.Transaction) error {
	return s.apply(ctx, uid, entry, mirror, false)
}

// Debit is Credit's counterpart; it additionally rejects the mutation with
// InsufficientFunds when the balance cannot cover the amount.
func (s *walletStore) Debit(ctx context.Context, uid string, entry *models.WalletTransaction, mirror *models.Transaction) error {
	return s.apply(ctx, uid, entry, mirror, true)
}

func (s *walletStore) apply(ctx context.Context, uid string, entry *models.WalletTransaction, mirror *models.Transaction, debit bool) error {
	entry.EntryID = entryDocID(entry.Source, entry.Reference)
	entryRef := s.entries(uid).Doc(entry.EntryID)
	walletRef := s.walletDoc(uid)
	now := time.Now()

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var wallet models.Wallet
		walletSnap, err := tx.Get(walletRef)
		switch {
		case err == nil:
			if err := walletSnap.DataTo(&wallet); err != nil {
				return err
			}
		case status.Code(err) == codes.NotFound:
			wallet = models.Wallet{UserID: uid, Balance: 0, CreatedAt: now}
		default:
			return err
		}

		// Idempotency check: the reference must not have been applied yet.
		if _, err := tx.Get(entryRef); err == nil {
			return status.Error(codes.AlreadyExists, "wallet entry already recorded")
		} else if status.Code(err) != codes.NotFound {
			return err
		}

		if debit {
			if wallet.Balance < entry.Amount {
				return errs.NewInsufficientFundsError("wallet balance is insufficient for this debit")
			}
			wallet.Balance = helpers.Round2(wallet.Balance - entry.Amount)
		} else {
			wallet.Balance = helpers.Round2(wallet.Balance + entry.Amount)
		}
		wallet.UpdatedAt = now
		entry.CreatedAt = now
		mirror.CreatedAt = now
		mirror.UpdatedAt = now

		if err := tx.Set(walletRef, wallet); err != nil {
			return err
		}
		if err := tx.Create(entryRef, entry); err != nil {
			return err
		}
		return tx.Create(s.mirrorDoc(uid, mirror.TransactionID), mirror)
	})
	if err != nil {
		var insufficient *errs.InsufficientFundsError
		if errors.As(err, &insufficient) {
			return insufficient
		}
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("wallet transaction with this reference already exists")
		}
		op := "credit"
		if debit {
			op = "debit"
		}
		return errs.NewDatabaseError(op, "failed to apply wallet "+op, err)
	}
	return nil
}
