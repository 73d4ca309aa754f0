package services

import (
	"context"
	"time"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/models"
	"github.com/expensevista/expensevista-backend/pkg/helpers"
)

// summaryTransactions is the slice of the transaction store the aggregator
// needs: a date-bounded, newest-first stream.
type summaryTransactions interface {
	Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error
}

type summaryService struct {
	txs summaryTransactions
	now func() time.Time
}

func NewSummaryService(txs summaryTransactions) *summaryService {
	return &summaryService{txs: txs, now: time.Now}
}

// GetPeriodicSummary totals income and expenses over a named period and
// returns the matching transactions. Totals use base-currency converted
// amounts so mixed-currency histories aggregate correctly.
func (s *summaryService) GetPeriodicSummary(ctx context.Context, uid, period string) (*dto.PeriodicSummary, error) {
	name, start, end := s.resolvePeriod(period)

	var (
		transactions []models.Transaction
		income       float64
		expenses     float64
	)
	err := s.txs.Query(ctx, uid, dto.TransactionQuery{StartDate: &start, EndDate: &end}, func(t *models.Transaction) error {
		switch t.Type {
		case models.Income:
			income += t.ConvertedAmount
		case models.Expense:
			expenses += t.ConvertedAmount
		}
		transactions = append(transactions, *t)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.PeriodicSummary{
		Period:        name,
		StartDate:     start,
		EndDate:       end,
		TotalIncome:   helpers.Round2(income),
		TotalExpenses: helpers.Round2(expenses),
		Transactions:  transactions,
	}, nil
}

// resolvePeriod maps a period name to [start, end). Only "Last Month" has a
// bounded end; the other periods run up to now. Unrecognized names fall back
// to "Last Month".
func (s *summaryService) resolvePeriod(period string) (string, time.Time, time.Time) {
	now := s.now()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	switch period {
	case dto.PeriodThisMonth:
		return period, currentMonth, now
	case dto.PeriodLast3Months:
		return period, now.AddDate(0, -3, 0), now
	case dto.PeriodLast6Months:
		return period, now.AddDate(0, -6, 0), now
	case dto.PeriodThisYear:
		return period, time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), now
	default:
		return dto.PeriodLastMonth, currentMonth.AddDate(0, -1, 0), currentMonth
	}
}
