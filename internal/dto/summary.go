package dto

import (
	"time"

	"github.com/expensevista/expensevista-backend/internal/models"
)

// Named aggregation periods. Anything unrecognized resolves to PeriodLastMonth.
const (
	PeriodThisMonth   = "This Month"
	PeriodLastMonth   = "Last Month"
	PeriodLast3Months = "Last 3 Months"
	PeriodLast6Months = "Last 6 Months"
	PeriodThisYear    = "This Year"
)

type PeriodicSummary struct {
	Period        string               `json:"period"`
	StartDate     time.Time            `json:"startDate"`
	EndDate       time.Time            `json:"endDate"`
	TotalIncome   float64              `json:"totalIncome"`
	TotalExpenses float64              `json:"totalExpenses"`
	Transactions  []models.Transaction `json:"transactions"`
}
