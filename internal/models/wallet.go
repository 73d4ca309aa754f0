package models

import (
	"time"
)

type Wallet struct {
	UserID    string    `firestore:"userId" json:"userId"`
	Balance   float64   `firestore:"balance" json:"balance"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

type WalletEntryType string

const (
	WalletCredit WalletEntryType = "Credit"
	WalletDebit  WalletEntryType = "Debit"
)

// WalletTransaction is an append-only history entry. Its document id is
// derived from Source and Reference, so a gateway reference can never be
// recorded (and therefore credited) twice.
type WalletTransaction struct {
	EntryID     string          `firestore:"entryId" json:"id"`
	Amount      float64         `firestore:"amount" json:"amount"`
	Type        WalletEntryType `firestore:"type" json:"type"`
	Source      string          `firestore:"source" json:"source"`
	Reference   string          `firestore:"reference" json:"reference"`
	Description string          `firestore:"description" json:"description,omitempty"`
	CreatedAt   time.Time       `firestore:"createdAt" json:"createdAt"`
}
