package dto

import (
	"time"

	"github.com/expensevista/expensevista-backend/internal/models"
)

type CreateTransactionRequest struct {
	Amount          float64                `json:"amount"`
	Currency        string                 `json:"currency"`
	Type            models.TransactionType `json:"type"`
	TransactionDate time.Time              `json:"transactionDate"`
	CategoryID      string                 `json:"categoryId"`
	Description     string                 `json:"description"`
}

type UpdateTransactionRequest struct {
	Amount          float64                `json:"amount"`
	Currency        string                 `json:"currency"`
	Type            models.TransactionType `json:"type"`
	TransactionDate time.Time              `json:"transactionDate"`
	CategoryID      string                 `json:"categoryId"`
	Description     string                 `json:"description"`
}

// TransactionFilter carries the list-endpoint query parameters.
// SearchTerm matches description or category name, CategoryName is an exact
// match, Type is 0=Expense / 1=Income.
type TransactionFilter struct {
	Pagination
	SearchTerm   string
	CategoryName string
	Type         *models.TransactionType
	StartDate    *time.Time
	EndDate      *time.Time
}

// TransactionQuery is the store-level subset of TransactionFilter: only the
// predicates Firestore can evaluate server-side.
type TransactionQuery struct {
	CategoryName string
	Type         *models.TransactionType
	StartDate    *time.Time
	EndDate      *time.Time
}

// TransactionLite is the minimal projection used by budget and summary
// aggregation. Amount is already in the base currency.
type TransactionLite struct {
	ID              string                 `json:"id"`
	Amount          float64                `json:"amount"`
	Type            models.TransactionType `json:"type"`
	TransactionDate time.Time              `json:"transactionDate"`
}
