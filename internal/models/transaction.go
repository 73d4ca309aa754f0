package models

import (
	"time"
)

type TransactionType int

const (
	Expense TransactionType = 0
	Income  TransactionType = 1
)

// Transaction is a single ledger entry. Amount is stored in the currency the
// user entered it in; ConvertedAmount carries the base-currency value computed
// with the ExchangeRate snapshot taken at write time. The rate is never
// recomputed afterwards.
type Transaction struct {
	TransactionID   string          `firestore:"transactionId" json:"id"`
	Amount          float64         `firestore:"amount" json:"amount"`
	Currency        string          `firestore:"currency" json:"currency"`
	ExchangeRate    float64         `firestore:"exchangeRate" json:"exchangeRate"`
	ConvertedAmount float64         `firestore:"convertedAmount" json:"convertedAmount"`
	Type            TransactionType `firestore:"type" json:"type"`
	TransactionDate time.Time       `firestore:"transactionDate" json:"transactionDate"`
	Description     string          `firestore:"description" json:"description,omitempty"`
	CategoryID      string          `firestore:"categoryId" json:"categoryId"`
	CategoryName    string          `firestore:"categoryName" json:"categoryName"`
	IsAutomatic     bool            `firestore:"isAutomatic" json:"isAutomatic"`
	Source          string          `firestore:"source,omitempty" json:"source,omitempty"`
	Reference       string          `firestore:"reference,omitempty" json:"reference,omitempty"`
	CreatedAt       time.Time       `firestore:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `firestore:"updatedAt" json:"updatedAt"`
}
