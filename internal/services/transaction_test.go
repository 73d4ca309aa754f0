package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/models"
	"github.com/expensevista/expensevista-backend/pkg/helpers"
)

type fakeTransactionStore struct {
	byID    map[string]*models.Transaction
	stream  []*models.Transaction
	created []*models.Transaction
	updated []*models.Transaction
	deleted []string
}

func newFakeTransactionStore() *fakeTransactionStore {
	return &fakeTransactionStore{byID: map[string]*models.Transaction{}}
}

func (f *fakeTransactionStore) Create(ctx context.Context, uid string, t *models.Transaction) error {
	f.created = append(f.created, t)
	f.byID[t.TransactionID] = t
	return nil
}

func (f *fakeTransactionStore) Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error) {
	t, ok := f.byID[transactionID]
	if !ok {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTransactionStore) Update(ctx context.Context, uid string, t *models.Transaction) error {
	f.updated = append(f.updated, t)
	f.byID[t.TransactionID] = t
	return nil
}

func (f *fakeTransactionStore) Delete(ctx context.Context, uid, transactionID string) error {
	f.deleted = append(f.deleted, transactionID)
	delete(f.byID, transactionID)
	return nil
}

func (f *fakeTransactionStore) Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error {
	for _, t := range f.stream {
		if err := handle(t); err != nil {
			return err
		}
	}
	return nil
}

type fakeCategoryResolver struct {
	category *models.Category
	err      error
}

func (f *fakeCategoryResolver) GetByID(ctx context.Context, categoryID, uid string) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.category, nil
}

func (f *fakeCategoryResolver) DefaultByName(ctx context.Context, name string) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.category, nil
}

type fakeRates struct {
	rate       float64
	err        error
	cached     float64
	cachedOK   bool
	liveCalls  int
	cacheCalls int
}

func (f *fakeRates) GetRate(ctx context.Context, from, to string) (float64, error) {
	f.liveCalls++
	if f.err != nil {
		return 0, f.err
	}
	return f.rate, nil
}

func (f *fakeRates) GetCachedRate(from, to string) (float64, bool) {
	f.cacheCalls++
	return f.cached, f.cachedOK
}

func testCategory() *models.Category {
	return &models.Category{CategoryID: "cat1", Name: "Food & Drinks", IsDefault: true}
}

func pastDate() time.Time {
	return time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
}

func TestCreateTransactionConvertsCurrency(t *testing.T) {
	store := newFakeTransactionStore()
	rates := &fakeRates{rate: 1500}
	svc := NewTransactionService(store, &fakeCategoryResolver{category: testCategory()}, rates, "NGN")

	got, err := svc.Create(helpers.TestCtx(), "user", dto.CreateTransactionRequest{
		Amount:          100,
		Currency:        "usd",
		Type:            models.Expense,
		TransactionDate: pastDate(),
		CategoryID:      "cat1",
		Description:     "Groceries",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if got.Amount != 100.00 {
		t.Fatalf("amount mismatch: got %v", got.Amount)
	}
	if got.ExchangeRate != 1500.000000 {
		t.Fatalf("rate mismatch: got %v", got.ExchangeRate)
	}
	if got.ConvertedAmount != 150000.00 {
		t.Fatalf("converted amount mismatch: got %v", got.ConvertedAmount)
	}
	if got.Currency != "USD" {
		t.Fatalf("currency not normalized: got %q", got.Currency)
	}
	if got.CategoryName != "Food & Drinks" {
		t.Fatalf("category name not denormalized: got %q", got.CategoryName)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected 1 persisted transaction, got %d", len(store.created))
	}
}

func TestCreateTransactionBaseCurrencySkipsFetch(t *testing.T) {
	store := newFakeTransactionStore()
	rates := &fakeRates{}
	svc := NewTransactionService(store, &fakeCategoryResolver{category: testCategory()}, rates, "NGN")

	got, err := svc.Create(helpers.TestCtx(), "user", dto.CreateTransactionRequest{
		Amount:          250.509,
		Currency:        "NGN",
		Type:            models.Income,
		TransactionDate: pastDate(),
		CategoryID:      "cat1",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rates.liveCalls != 0 {
		t.Fatalf("base currency must not hit the rate provider, got %d calls", rates.liveCalls)
	}
	if got.ExchangeRate != 1 {
		t.Fatalf("base currency rate must be 1, got %v", got.ExchangeRate)
	}
	if got.Amount != 250.51 || got.ConvertedAmount != 250.51 {
		t.Fatalf("rounding mismatch: amount %v converted %v", got.Amount, got.ConvertedAmount)
	}
}

func TestCreateTransactionFallsBackToCachedRate(t *testing.T) {
	store := newFakeTransactionStore()
	rates := &fakeRates{err: errors.New("upstream down"), cached: 1480, cachedOK: true}
	svc := NewTransactionService(store, &fakeCategoryResolver{category: testCategory()}, rates, "NGN")

	got, err := svc.Create(helpers.TestCtx(), "user", dto.CreateTransactionRequest{
		Amount:          10,
		Currency:        "USD",
		Type:            models.Expense,
		TransactionDate: pastDate(),
		CategoryID:      "cat1",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ExchangeRate != 1480 {
		t.Fatalf("expected cached rate, got %v", got.ExchangeRate)
	}
	if got.ConvertedAmount != 14800.00 {
		t.Fatalf("converted amount mismatch: got %v", got.ConvertedAmount)
	}
}

func TestCreateTransactionRateUnavailable(t *testing.T) {
	store := newFakeTransactionStore()
	rates := &fakeRates{err: errors.New("upstream down"), cachedOK: false}
	svc := NewTransactionService(store, &fakeCategoryResolver{category: testCategory()}, rates, "NGN")

	_, err := svc.Create(helpers.TestCtx(), "user", dto.CreateTransactionRequest{
		Amount:          10,
		Currency:        "USD",
		Type:            models.Expense,
		TransactionDate: pastDate(),
		CategoryID:      "cat1",
	})
	var external *errs.ExternalServiceError
	if !errors.As(err, &external) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
	if len(store.created) != 0 {
		t.Fatal("nothing must be persisted when the rate is unavailable")
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	store := newFakeTransactionStore()
	svc := NewTransactionService(store, &fakeCategoryResolver{category: testCategory()}, &fakeRates{rate: 1}, "NGN")

	cases := []struct {
		name string
		req  dto.CreateTransactionRequest
	}{
		{"zero amount", dto.CreateTransactionRequest{Amount: 0, Currency: "NGN", TransactionDate: pastDate(), CategoryID: "cat1"}},
		{"negative amount", dto.CreateTransactionRequest{Amount: -5, Currency: "NGN", TransactionDate: pastDate(), CategoryID: "cat1"}},
		{"missing currency", dto.CreateTransactionRequest{Amount: 5, Currency: " ", TransactionDate: pastDate(), CategoryID: "cat1"}},
		{"future date", dto.CreateTransactionRequest{Amount: 5, Currency: "NGN", TransactionDate: time.Now().Add(48 * time.Hour), CategoryID: "cat1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(helpers.TestCtx(), "user", tc.req)
			var validation *errs.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestListTransactionsSearchAndPagination(t *testing.T) {
	store := newFakeTransactionStore()
	for i := 0; i < 30; i++ {
		store.stream = append(store.stream, &models.Transaction{
			TransactionID: "t",
			Description:   "Lunch at work",
			CategoryName:  "Food & Drinks",
		})
	}
	store.stream = append(store.stream, &models.Transaction{
		TransactionID: "other",
		Description:   "Fuel",
		CategoryName:  "Transportation",
	})
	svc := NewTransactionService(store, &fakeCategoryResolver{category: testCategory()}, &fakeRates{}, "NGN")

	page, err := svc.List(helpers.TestCtx(), "user", dto.TransactionFilter{
		Pagination: dto.Pagination{Page: 1, RecordsPerPage: 100},
		SearchTerm: "lunch",
	})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if page.TotalRecords != 30 {
		t.Fatalf("total mismatch: got %d", page.TotalRecords)
	}
	// 100 requested, clamped to the server maximum.
	if len(page.Data) != 20 || page.RecordsPerPage != 20 {
		t.Fatalf("page size not clamped: got %d records, size %d", len(page.Data), page.RecordsPerPage)
	}
	if page.TotalPages != 2 {
		t.Fatalf("total pages mismatch: got %d", page.TotalPages)
	}
}

func TestListTransactionsPageBeyondEnd(t *testing.T) {
	store := newFakeTransactionStore()
	store.stream = append(store.stream, &models.Transaction{Description: "One"})
	svc := NewTransactionService(store, &fakeCategoryResolver{category: testCategory()}, &fakeRates{}, "NGN")

	page, err := svc.List(helpers.TestCtx(), "user", dto.TransactionFilter{
		Pagination: dto.Pagination{Page: 5, RecordsPerPage: 10},
	})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(page.Data) != 0 {
		t.Fatalf("expected empty page, got %d records", len(page.Data))
	}
	if page.TotalRecords != 1 {
		t.Fatalf("total mismatch: got %d", page.TotalRecords)
	}
}

func TestUpdateTransactionRejectsAutomatic(t *testing.T) {
	store := newFakeTransactionStore()
	store.byID["auto"] = &models.Transaction{TransactionID: "auto", IsAutomatic: true}
	svc := NewTransactionService(store, &fakeCategoryResolver{category: testCategory()}, &fakeRates{}, "NGN")

	_, err := svc.Update(helpers.TestCtx(), "auto", "user", dto.UpdateTransactionRequest{
		Amount: 5, Currency: "NGN", TransactionDate: pastDate(), CategoryID: "cat1",
	})
	var validation *errs.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for automatic transaction, got %v", err)
	}
}

func TestUpdateTransactionRefetchesRateLive(t *testing.T) {
	store := newFakeTransactionStore()
	store.byID["t1"] = &models.Transaction{
		TransactionID:   "t1",
		Amount:          100,
		Currency:        "USD",
		ExchangeRate:    1500,
		ConvertedAmount: 150000,
	}
	rates := &fakeRates{err: errors.New("upstream down"), cached: 1480, cachedOK: true}
	svc := NewTransactionService(store, &fakeCategoryResolver{category: testCategory()}, rates, "NGN")

	// The update path never uses the cache fallback.
	_, err := svc.Update(helpers.TestCtx(), "t1", "user", dto.UpdateTransactionRequest{
		Amount: 200, Currency: "USD", TransactionDate: pastDate(), CategoryID: "cat1",
	})
	if err == nil {
		t.Fatal("expected live fetch failure to surface")
	}
	if rates.cacheCalls != 0 {
		t.Fatalf("update must not consult the cache, got %d calls", rates.cacheCalls)
	}
	if len(store.updated) != 0 {
		t.Fatal("nothing must be persisted when the live fetch fails")
	}
}

func TestUpdateTransactionUnchangedMoneySkipsRate(t *testing.T) {
	store := newFakeTransactionStore()
	store.byID["t1"] = &models.Transaction{
		TransactionID:   "t1",
		Amount:          100,
		Currency:        "USD",
		ExchangeRate:    1500,
		ConvertedAmount: 150000,
	}
	rates := &fakeRates{}
	svc := NewTransactionService(store, &fakeCategoryResolver{category: testCategory()}, rates, "NGN")

	got, err := svc.Update(helpers.TestCtx(), "t1", "user", dto.UpdateTransactionRequest{
		Amount: 100, Currency: "USD", TransactionDate: pastDate(), CategoryID: "cat1", Description: "renamed",
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if rates.liveCalls != 0 {
		t.Fatalf("unchanged amount/currency must not refetch, got %d calls", rates.liveCalls)
	}
	if got.ExchangeRate != 1500 || got.ConvertedAmount != 150000 {
		t.Fatalf("stored conversion must be preserved: %+v", got)
	}
	if got.Description != "renamed" {
		t.Fatalf("description not updated: %q", got.Description)
	}
}

func TestDeleteTransactionNotFound(t *testing.T) {
	store := newFakeTransactionStore()
	svc := NewTransactionService(store, &fakeCategoryResolver{category: testCategory()}, &fakeRates{}, "NGN")

	err := svc.Delete(helpers.TestCtx(), "missing", "user")
	var notFound *errs.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestNewWalletMirror(t *testing.T) {
	store := newFakeTransactionStore()
	svc := NewTransactionService(store, &fakeCategoryResolver{category: &models.Category{CategoryID: "fund", Name: "Funding", IsDefault: true}}, &fakeRates{}, "NGN")
	svc.now = func() time.Time { return pastDate() }

	mirror, err := svc.NewWalletMirror(helpers.TestCtx(), "user", 50.005, "Funding", models.Income, "Wallet top-up", "paystack", "ref_1")
	if err != nil {
		t.Fatalf("NewWalletMirror error: %v", err)
	}
	if !mirror.IsAutomatic {
		t.Fatal("mirror must be flagged automatic")
	}
	if mirror.Amount != 50.01 || mirror.ConvertedAmount != 50.01 || mirror.ExchangeRate != 1 {
		t.Fatalf("mirror money mismatch: %+v", mirror)
	}
	if mirror.Currency != "NGN" {
		t.Fatalf("mirror currency mismatch: %q", mirror.Currency)
	}
	if mirror.Source != "paystack" || mirror.Reference != "ref_1" {
		t.Fatalf("mirror provenance mismatch: %+v", mirror)
	}
	if len(store.created) != 0 {
		t.Fatal("mirror must not be persisted by the builder")
	}
}
