package models

import (
	"time"
)

// Category is either a system default (IsDefault, empty UserID) or a
// user-owned custom category. NameLower backs the case-insensitive name
// uniqueness checks within each scope.
type Category struct {
	CategoryID string    `firestore:"categoryId" json:"id"`
	Name       string    `firestore:"name" json:"name"`
	NameLower  string    `firestore:"nameLower" json:"-"`
	Type       string    `firestore:"type" json:"type,omitempty"`
	IsDefault  bool      `firestore:"isDefault" json:"isDefault"`
	UserID     string    `firestore:"userId" json:"-"`
	CreatedAt  time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `firestore:"updatedAt" json:"updatedAt"`
}
