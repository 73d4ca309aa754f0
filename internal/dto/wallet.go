package dto

import (
	"github.com/expensevista/expensevista-backend/internal/models"
)

type WalletResponse struct {
	Balance      float64                    `json:"balance"`
	Transactions []models.WalletTransaction `json:"transactions"`
}

type TransferRequest struct {
	Amount        float64 `json:"amount"`
	AccountNumber string  `json:"accountNumber"`
	BankCode      string  `json:"bankCode"`
	AccountName   string  `json:"accountName"`
	Description   string  `json:"description"`
}
