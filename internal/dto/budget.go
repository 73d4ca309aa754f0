package dto

import (
	"time"
)

type CreateBudgetRequest struct {
	MonthlyLimit float64   `json:"monthlyLimit"`
	BudgetMonth  time.Time `json:"budgetMonth"`
}

type UpdateBudgetRequest struct {
	MonthlyLimit float64   `json:"monthlyLimit"`
	BudgetMonth  time.Time `json:"budgetMonth"`
}

// BudgetStatus is always a valid, displayable object: an unset budget is
// reported with BudgetSet=false, never as an error.
type BudgetStatus struct {
	BudgetSet       bool      `json:"budgetSet"`
	BudgetMonth     time.Time `json:"budgetMonth"`
	MonthlyLimit    float64   `json:"monthlyLimit"`
	CurrentUsage    float64   `json:"currentUsage"`
	TotalIncome     float64   `json:"totalIncome"`
	RemainingAmount float64   `json:"remainingAmount"`
	PercentageUsed  float64   `json:"percentageUsed"`
}
