package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/models"
)

func emulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "test-project")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestTransactionQueryWithEmulator(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	store := NewTransactionStore(client)
	uid := "tx-query-user"

	feb10 := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
	mar05 := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	mar20 := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)

	seed := []models.Transaction{
		{TransactionID: "t1", Amount: 20, Currency: "NGN", ExchangeRate: 1, ConvertedAmount: 20, Type: models.Expense, CategoryID: "cat_food", CategoryName: "Food & Drinks", TransactionDate: feb10},
		{TransactionID: "t2", Amount: 35, Currency: "NGN", ExchangeRate: 1, ConvertedAmount: 35, Type: models.Expense, CategoryName: "Shopping", TransactionDate: mar05},
		{TransactionID: "t3", Amount: 900, Currency: "NGN", ExchangeRate: 1, ConvertedAmount: 900, Type: models.Income, CategoryName: "Salary", TransactionDate: mar20},
	}
	for i := range seed {
		if err := store.Create(ctx, uid, &seed[i]); err != nil {
			t.Fatalf("seed error: %v", err)
		}
	}

	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	var got []string
	err := store.Query(ctx, uid, dto.TransactionQuery{StartDate: &start, EndDate: &end}, func(tx *models.Transaction) error {
		got = append(got, tx.TransactionID)
		return nil
	})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	// Newest first within the window.
	if len(got) != 2 || got[0] != "t3" || got[1] != "t2" {
		t.Fatalf("query result mismatch: %v", got)
	}

	expense := models.Expense
	got = got[:0]
	err = store.Query(ctx, uid, dto.TransactionQuery{Type: &expense, CategoryName: "Shopping"}, func(tx *models.Transaction) error {
		got = append(got, tx.TransactionID)
		return nil
	})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(got) != 1 || got[0] != "t2" {
		t.Fatalf("filtered query mismatch: %v", got)
	}

	count, err := store.CountByCategory(ctx, uid, "cat_food")
	if err != nil {
		t.Fatalf("CountByCategory error: %v", err)
	}
	if count != 1 {
		t.Fatalf("count mismatch: got %d", count)
	}
}

func TestTransactionGetNotFoundWithEmulator(t *testing.T) {
	client := emulatorClient(t)
	store := NewTransactionStore(client)

	_, err := store.Get(context.Background(), "tx-missing-user", "nope")
	var notFound *errs.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
