package services

import (
	"context"
	"testing"
	"time"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/models"
	"github.com/expensevista/expensevista-backend/pkg/helpers"
)

type fakeSummaryStore struct {
	txs       []*models.Transaction
	lastQuery dto.TransactionQuery
}

func (f *fakeSummaryStore) Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error {
	f.lastQuery = q
	for _, t := range f.txs {
		if err := handle(t); err != nil {
			return err
		}
	}
	return nil
}

func TestResolvePeriodBounds(t *testing.T) {
	now := time.Date(2025, time.June, 18, 14, 30, 0, 0, time.UTC)
	svc := NewSummaryService(&fakeSummaryStore{})
	svc.now = func() time.Time { return now }

	june1 := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	may1 := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		period    string
		wantName  string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{dto.PeriodThisMonth, dto.PeriodThisMonth, june1, now},
		{dto.PeriodLastMonth, dto.PeriodLastMonth, may1, june1},
		{dto.PeriodLast3Months, dto.PeriodLast3Months, now.AddDate(0, -3, 0), now},
		{dto.PeriodLast6Months, dto.PeriodLast6Months, now.AddDate(0, -6, 0), now},
		{dto.PeriodThisYear, dto.PeriodThisYear, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), now},
		{"bogus", dto.PeriodLastMonth, may1, june1},
		{"", dto.PeriodLastMonth, may1, june1},
	}
	for _, tc := range cases {
		t.Run(tc.period, func(t *testing.T) {
			name, start, end := svc.resolvePeriod(tc.period)
			if name != tc.wantName {
				t.Fatalf("name mismatch: got %q", name)
			}
			if !start.Equal(tc.wantStart) {
				t.Fatalf("start mismatch: got %v want %v", start, tc.wantStart)
			}
			if !end.Equal(tc.wantEnd) {
				t.Fatalf("end mismatch: got %v want %v", end, tc.wantEnd)
			}
		})
	}
}

func TestGetPeriodicSummaryTotals(t *testing.T) {
	store := &fakeSummaryStore{txs: []*models.Transaction{
		{Type: models.Income, ConvertedAmount: 1000.50},
		{Type: models.Income, ConvertedAmount: 200},
		{Type: models.Expense, ConvertedAmount: 350.25},
	}}
	svc := NewSummaryService(store)
	svc.now = func() time.Time { return time.Date(2025, time.June, 18, 14, 30, 0, 0, time.UTC) }

	summary, err := svc.GetPeriodicSummary(helpers.TestCtx(), "user", dto.PeriodThisMonth)
	if err != nil {
		t.Fatalf("GetPeriodicSummary error: %v", err)
	}
	if summary.TotalIncome != 1200.50 {
		t.Fatalf("income mismatch: got %v", summary.TotalIncome)
	}
	if summary.TotalExpenses != 350.25 {
		t.Fatalf("expenses mismatch: got %v", summary.TotalExpenses)
	}
	if len(summary.Transactions) != 3 {
		t.Fatalf("transactions length mismatch: got %d", len(summary.Transactions))
	}
	if store.lastQuery.StartDate == nil || store.lastQuery.EndDate == nil {
		t.Fatal("period bounds must be pushed into the store query")
	}
}

func TestGetPeriodicSummaryEmpty(t *testing.T) {
	svc := NewSummaryService(&fakeSummaryStore{})

	summary, err := svc.GetPeriodicSummary(helpers.TestCtx(), "user", dto.PeriodThisYear)
	if err != nil {
		t.Fatalf("GetPeriodicSummary error: %v", err)
	}
	if summary.TotalIncome != 0 || summary.TotalExpenses != 0 {
		t.Fatalf("empty summary must be zero: %+v", summary)
	}
}
