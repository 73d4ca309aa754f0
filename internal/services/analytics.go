package services

import (
	"context"
	"sort"
	"time"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/models"
	"github.com/expensevista/expensevista-backend/pkg/helpers"
)

// analyticsBudgets lists the budgets whose month falls inside the analyzed
// window, so the progress bar reflects every limit the user set for it.
type analyticsBudgets interface {
	ListRange(ctx context.Context, uid string, start, end time.Time) ([]models.Budget, error)
}

type analyticsService struct {
	txs     summaryTransactions
	budgets analyticsBudgets
	now     func() time.Time
}

func NewAnalyticsService(txs summaryTransactions, budgets analyticsBudgets) *analyticsService {
	return &analyticsService{txs: txs, budgets: budgets, now: time.Now}
}

// GetAnalytics aggregates a full dashboard dataset for a named period in one
// pass over the transaction stream.
func (s *analyticsService) GetAnalytics(ctx context.Context, uid, period string) (*dto.FinancialData, error) {
	name, start, end := (&summaryService{now: s.now}).resolvePeriod(period)

	var (
		totalIncome   float64
		totalExpenses float64
		incomeCount   int
		expenseCount  int
		byCategory    = map[string]float64{}
		byMonth       = map[string]*dto.IncomeExpenseData{}
		monthOrder    []string
	)
	err := s.txs.Query(ctx, uid, dto.TransactionQuery{StartDate: &start, EndDate: &end}, func(t *models.Transaction) error {
		label := t.TransactionDate.Format("Jan 2006")
		bucket, ok := byMonth[label]
		if !ok {
			bucket = &dto.IncomeExpenseData{Month: label}
			byMonth[label] = bucket
			monthOrder = append(monthOrder, label)
		}
		switch t.Type {
		case models.Income:
			totalIncome += t.ConvertedAmount
			incomeCount++
			bucket.Income += t.ConvertedAmount
		case models.Expense:
			totalExpenses += t.ConvertedAmount
			expenseCount++
			bucket.Expenses += t.ConvertedAmount
			byCategory[t.CategoryName] += t.ConvertedAmount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	totalIncome = helpers.Round2(totalIncome)
	totalExpenses = helpers.Round2(totalExpenses)
	net := helpers.Round2(totalIncome - totalExpenses)
	var savingsRate float64
	if totalIncome > 0 {
		savingsRate = helpers.Round2(net / totalIncome * 100)
	}

	progress, err := s.budgetProgress(ctx, uid, start, end, totalExpenses)
	if err != nil {
		return nil, err
	}

	spending := make([]dto.SpendingCategory, 0, len(byCategory))
	for categoryName, value := range byCategory {
		var pct float64
		if totalExpenses > 0 {
			pct = helpers.Round2(value / totalExpenses * 100)
		}
		spending = append(spending, dto.SpendingCategory{
			Name:       categoryName,
			Value:      helpers.Round2(value),
			Percentage: pct,
		})
	}
	sort.Slice(spending, func(i, j int) bool { return spending[i].Value > spending[j].Value })

	// The stream is newest-first; charts want chronological order.
	trend := make([]dto.IncomeExpenseData, 0, len(monthOrder))
	for i := len(monthOrder) - 1; i >= 0; i-- {
		bucket := byMonth[monthOrder[i]]
		bucket.Income = helpers.Round2(bucket.Income)
		bucket.Expenses = helpers.Round2(bucket.Expenses)
		trend = append(trend, *bucket)
	}

	insights := dto.KeyInsights{
		TotalTransactions:        incomeCount + expenseCount,
		TotalIncomeTransactions:  incomeCount,
		TotalExpenseTransactions: expenseCount,
	}
	if len(spending) > 0 {
		insights.TopSpendingCategory = spending[0].Name
		insights.TopSpendingAmount = spending[0].Value
	}

	return &dto.FinancialData{
		TimePeriod: name,
		Summary: dto.AnalyticsSummary{
			TotalIncome:   totalIncome,
			TotalExpenses: totalExpenses,
			NetBalance:    net,
			SavingsRate:   savingsRate,
		},
		BudgetProgress:     progress,
		SpendingByCategory: spending,
		IncomeVsExpenses:   trend,
		FinancialTrend:     trend,
		KeyInsights:        insights,
	}, nil
}

func (s *analyticsService) budgetProgress(ctx context.Context, uid string, start, end time.Time, spent float64) (dto.BudgetProgress, error) {
	budgets, err := s.budgets.ListRange(ctx, uid, start, end)
	if err != nil {
		return dto.BudgetProgress{}, err
	}
	var total float64
	for _, b := range budgets {
		total += b.MonthlyLimit
	}
	total = helpers.Round2(total)

	var pct float64
	if total > 0 {
		pct = helpers.Round2(spent / total * 100)
	}
	return dto.BudgetProgress{Spent: spent, Total: total, Percentage: pct}, nil
}
