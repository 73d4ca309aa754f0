package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/models"
	"github.com/expensevista/expensevista-backend/pkg/helpers"
	"github.com/expensevista/expensevista-backend/pkg/logger"
)

// transactionTSStore is the Firestore storage interface for transactions.
type transactionTSStore interface {
	Create(ctx context.Context, uid string, t *models.Transaction) error
	Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error)
	Update(ctx context.Context, uid string, t *models.Transaction) error
	Delete(ctx context.Context, uid, transactionID string) error
	Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error
}

// transactionCategories resolves the categories a transaction may reference.
type transactionCategories interface {
	GetByID(ctx context.Context, categoryID, uid string) (*models.Category, error)
	DefaultByName(ctx context.Context, name string) (*models.Category, error)
}

// transactionRates supplies exchange rates with a cache fallback.
type transactionRates interface {
	GetRate(ctx context.Context, from, to string) (float64, error)
	GetCachedRate(from, to string) (float64, bool)
}

type transactionService struct {
	store        transactionTSStore
	categories   transactionCategories
	rates        transactionRates
	baseCurrency string
	now          func() time.Time
}

func NewTransactionService(store transactionTSStore, categories transactionCategories, rates transactionRates, baseCurrency string) *transactionService {
	return &transactionService{
		store:        store,
		categories:   categories,
		rates:        rates,
		baseCurrency: strings.ToUpper(baseCurrency),
		now:          time.Now,
	}
}

// List returns a filtered, newest-first page of the user's transactions plus
// the total match count. The page size is clamped server-side.
func (s *transactionService) List(ctx context.Context, uid string, filter dto.TransactionFilter) (dto.PagedResponse[models.Transaction], error) {
	filter.Normalize()

	term := strings.ToLower(strings.TrimSpace(filter.SearchTerm))
	var matched []models.Transaction
	err := s.store.Query(ctx, uid, dto.TransactionQuery{
		CategoryName: filter.CategoryName,
		Type:         filter.Type,
		StartDate:    filter.StartDate,
		EndDate:      filter.EndDate,
	}, func(t *models.Transaction) error {
		if term != "" &&
			!strings.Contains(strings.ToLower(t.Description), term) &&
			!strings.Contains(strings.ToLower(t.CategoryName), term) {
			return nil
		}
		matched = append(matched, *t)
		return nil
	})
	if err != nil {
		return dto.PagedResponse[models.Transaction]{}, err
	}

	total := len(matched)
	start := (filter.Page - 1) * filter.RecordsPerPage
	if start > total {
		start = total
	}
	end := start + filter.RecordsPerPage
	if end > total {
		end = total
	}

	return dto.NewPagedResponse(matched[start:end], filter.Page, filter.RecordsPerPage, total), nil
}

func (s *transactionService) GetByID(ctx context.Context, transactionID, uid string) (*models.Transaction, error) {
	return s.store.Get(ctx, uid, transactionID)
}

func (s *transactionService) Create(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*models.Transaction, error) {
	if err := s.validateInput(req.Amount, req.Currency, req.TransactionDate); err != nil {
		return nil, err
	}

	category, err := s.categories.GetByID(ctx, req.CategoryID, uid)
	if err != nil {
		return nil, err
	}

	rate, err := s.resolveRate(ctx, req.Currency)
	if err != nil {
		return nil, err
	}

	amount := helpers.Round2(req.Amount)
	t := &models.Transaction{
		TransactionID:   uuid.New().String(),
		Amount:          amount,
		Currency:        strings.ToUpper(req.Currency),
		ExchangeRate:    helpers.Round6(rate),
		ConvertedAmount: helpers.Round2(amount * rate),
		Type:            req.Type,
		TransactionDate: req.TransactionDate,
		Description:     req.Description,
		CategoryID:      category.CategoryID,
		CategoryName:    category.Name,
	}
	if err := s.store.Create(ctx, uid, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *transactionService) Update(ctx context.Context, transactionID, uid string, req dto.UpdateTransactionRequest) (*models.Transaction, error) {
	t, err := s.store.Get(ctx, uid, transactionID)
	if err != nil {
		return nil, err
	}
	if t.IsAutomatic {
		return nil, errs.NewValidationError("wallet-generated transactions cannot be edited")
	}
	if err := s.validateInput(req.Amount, req.Currency, req.TransactionDate); err != nil {
		return nil, err
	}

	category, err := s.categories.GetByID(ctx, req.CategoryID, uid)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(req.Currency)
	if currency != t.Currency || helpers.Round2(req.Amount) != t.Amount {
		// Rate is re-resolved live on the update path; no cache fallback.
		var rate float64
		if currency == s.baseCurrency {
			rate = 1
		} else {
			rate, err = s.rates.GetRate(ctx, currency, s.baseCurrency)
			if err != nil {
				return nil, err
			}
		}
		t.Currency = currency
		t.Amount = helpers.Round2(req.Amount)
		t.ExchangeRate = helpers.Round6(rate)
		t.ConvertedAmount = helpers.Round2(t.Amount * rate)
	}

	t.Type = req.Type
	t.TransactionDate = req.TransactionDate
	t.CategoryID = category.CategoryID
	t.CategoryName = category.Name
	t.Description = req.Description

	if err := s.store.Update(ctx, uid, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *transactionService) Delete(ctx context.Context, transactionID, uid string) error {
	if _, err := s.store.Get(ctx, uid, transactionID); err != nil {
		return err
	}
	return s.store.Delete(ctx, uid, transactionID)
}

// ListLite streams the minimal projection used by budget and summary
// aggregation. Amounts are the base-currency converted values.
func (s *transactionService) ListLite(ctx context.Context, uid string) ([]dto.TransactionLite, error) {
	var lite []dto.TransactionLite
	err := s.store.Query(ctx, uid, dto.TransactionQuery{}, func(t *models.Transaction) error {
		lite = append(lite, dto.TransactionLite{
			ID:              t.TransactionID,
			Amount:          t.ConvertedAmount,
			Type:            t.Type,
			TransactionDate: t.TransactionDate,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lite, nil
}

// NewWalletMirror builds the automatic ledger entry that keeps reporting in
// step with a wallet movement. The wallet store persists it atomically with
// the balance change; it is never written here.
func (s *transactionService) NewWalletMirror(ctx context.Context, uid string, amount float64, categoryName string, txType models.TransactionType, description, source, reference string) (*models.Transaction, error) {
	category, err := s.categories.DefaultByName(ctx, categoryName)
	if err != nil {
		return nil, err
	}

	// Wallet balances are already in the base currency.
	amount = helpers.Round2(amount)
	return &models.Transaction{
		TransactionID:   uuid.New().String(),
		Amount:          amount,
		Currency:        s.baseCurrency,
		ExchangeRate:    1,
		ConvertedAmount: amount,
		Type:            txType,
		TransactionDate: s.now(),
		Description:     description,
		CategoryID:      category.CategoryID,
		CategoryName:    category.Name,
		IsAutomatic:     true,
		Source:          source,
		Reference:       reference,
	}, nil
}

func (s *transactionService) validateInput(amount float64, currency string, date time.Time) error {
	if amount <= 0 {
		return errs.NewValidationError("amount must be positive")
	}
	if strings.TrimSpace(currency) == "" {
		return errs.NewValidationError("currency is required")
	}
	if date.After(s.now()) {
		return errs.NewValidationError("transaction date cannot be in the future")
	}
	return nil
}

// resolveRate determines the exchange rate for the create path: exact 1 for
// the base currency, otherwise live fetch with a cached-rate fallback. When
// both are exhausted the failure is hard — a silent 1.0 would corrupt totals.
func (s *transactionService) resolveRate(ctx context.Context, currency string) (float64, error) {
	currency = strings.ToUpper(currency)
	if currency == s.baseCurrency {
		return 1, nil
	}

	rate, err := s.rates.GetRate(ctx, currency, s.baseCurrency)
	if err == nil {
		return rate, nil
	}

	log := logger.FromContext(ctx)
	log.Warn("live exchange rate fetch failed, falling back to cache",
		"currency", currency, "error", err)

	if cached, ok := s.rates.GetCachedRate(currency, s.baseCurrency); ok {
		return cached, nil
	}
	return 0, errs.NewExternalServiceError("exchange-rate",
		"could not determine the exchange rate for "+currency, false)
}
