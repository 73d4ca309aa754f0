package models

import (
	"time"
)

// Budget holds a user's monthly spending limit. BudgetID doubles as the
// Firestore document id and is always the month key (YYYY-MM), which is what
// makes (user, month) unique at the storage layer.
type Budget struct {
	BudgetID     string    `firestore:"budgetId" json:"id"`
	MonthlyLimit float64   `firestore:"monthlyLimit" json:"monthlyLimit"`
	BudgetMonth  time.Time `firestore:"budgetMonth" json:"budgetMonth"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// MonthKey renders the calendar month a time falls in as a budget id.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
