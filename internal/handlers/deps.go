package handlers

import (
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/expensevista/expensevista-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Firebase        *auth.Client

	TransactionSvc transactionService
	CategorySvc    categoryService
	BudgetSvc      budgetService
	SummarySvc     summaryService
	AnalyticsSvc   analyticsService
	WalletSvc      walletService
	PaystackSvc    paystackService
	CurrencySvc    currencyService
}
