package services

import (
	"context"
	"errors"
	"time"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/models"
	"github.com/expensevista/expensevista-backend/pkg/helpers"
)

// budgetBSStore is the Firestore storage interface for budgets. Create's
// AlreadyExists failure is the uniqueness authority for one-budget-per-month.
type budgetBSStore interface {
	Create(ctx context.Context, uid string, b *models.Budget) error
	Get(ctx context.Context, uid, budgetID string) (*models.Budget, error)
	Update(ctx context.Context, uid, oldID string, b *models.Budget) error
	Delete(ctx context.Context, uid, budgetID string) error
	List(ctx context.Context, uid string) ([]models.Budget, error)
}

// budgetTransactions streams the converted-amount projection used to compute
// monthly usage.
type budgetTransactions interface {
	ListLite(ctx context.Context, uid string) ([]dto.TransactionLite, error)
}

type budgetService struct {
	store budgetBSStore
	txs   budgetTransactions
	now   func() time.Time
}

func NewBudgetService(store budgetBSStore, txs budgetTransactions) *budgetService {
	return &budgetService{store: store, txs: txs, now: time.Now}
}

func (s *budgetService) Create(ctx context.Context, uid string, req dto.CreateBudgetRequest) (*models.Budget, error) {
	if err := validateBudget(req.MonthlyLimit, req.BudgetMonth); err != nil {
		return nil, err
	}

	month := normalizeMonth(req.BudgetMonth)
	b := &models.Budget{
		BudgetID:     models.MonthKey(month),
		MonthlyLimit: helpers.Round2(req.MonthlyLimit),
		BudgetMonth:  month,
	}
	// Uniqueness is enforced at the storage layer: the document id is the
	// month key and Create fails on collision, so concurrent requests for the
	// same month cannot both win.
	if err := s.store.Create(ctx, uid, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *budgetService) Update(ctx context.Context, budgetID, uid string, req dto.UpdateBudgetRequest) (*models.Budget, error) {
	if err := validateBudget(req.MonthlyLimit, req.BudgetMonth); err != nil {
		return nil, err
	}

	b, err := s.store.Get(ctx, uid, budgetID)
	if err != nil {
		return nil, err
	}

	month := normalizeMonth(req.BudgetMonth)
	b.MonthlyLimit = helpers.Round2(req.MonthlyLimit)
	b.BudgetMonth = month
	b.BudgetID = models.MonthKey(month)

	if err := s.store.Update(ctx, uid, budgetID, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *budgetService) Delete(ctx context.Context, budgetID, uid string) error {
	if _, err := s.store.Get(ctx, uid, budgetID); err != nil {
		return err
	}
	return s.store.Delete(ctx, uid, budgetID)
}

func (s *budgetService) List(ctx context.Context, uid string) ([]models.Budget, error) {
	return s.store.List(ctx, uid)
}

// GetStatus reports the budget status for the month containing ref (the
// current month when ref is zero). An unset budget is a normal outcome and
// yields a zero-valued status with BudgetSet=false rather than an error.
func (s *budgetService) GetStatus(ctx context.Context, uid string, ref time.Time) (*dto.BudgetStatus, error) {
	if ref.IsZero() {
		ref = s.now()
	}
	monthStart := normalizeMonth(ref)
	monthEnd := monthStart.AddDate(0, 1, 0)

	b, err := s.store.Get(ctx, uid, models.MonthKey(monthStart))
	if err != nil {
		var notFound *errs.NotFoundError
		if errors.As(err, &notFound) {
			return &dto.BudgetStatus{BudgetSet: false, BudgetMonth: monthStart}, nil
		}
		return nil, err
	}

	lite, err := s.txs.ListLite(ctx, uid)
	if err != nil {
		return nil, err
	}

	var usage, income float64
	for _, t := range lite {
		if t.TransactionDate.Before(monthStart) || !t.TransactionDate.Before(monthEnd) {
			continue
		}
		switch t.Type {
		case models.Expense:
			usage += t.Amount
		case models.Income:
			income += t.Amount
		}
	}
	usage = helpers.Round2(usage)
	income = helpers.Round2(income)

	// Remaining never goes negative; overspend shows through the percentage.
	remaining := helpers.Round2(b.MonthlyLimit - usage)
	if remaining < 0 {
		remaining = 0
	}
	var pct float64
	if b.MonthlyLimit > 0 {
		pct = helpers.Round2(usage / b.MonthlyLimit * 100)
	}

	return &dto.BudgetStatus{
		BudgetSet:       true,
		BudgetMonth:     b.BudgetMonth,
		MonthlyLimit:    b.MonthlyLimit,
		CurrentUsage:    usage,
		TotalIncome:     income,
		RemainingAmount: remaining,
		PercentageUsed:  pct,
	}, nil
}

func validateBudget(limit float64, month time.Time) error {
	if limit < 0 {
		return errs.NewValidationError("monthly limit cannot be negative")
	}
	if month.IsZero() {
		return errs.NewValidationError("budget month is required")
	}
	return nil
}

// normalizeMonth truncates to midnight UTC on the first of the month.
func normalizeMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
