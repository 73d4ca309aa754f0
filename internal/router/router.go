package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/expensevista/expensevista-backend/internal/handlers"
	"github.com/expensevista/expensevista-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	th := handlers.NewTransactionHandlers(deps)
	ch := handlers.NewCategoryHandlers(deps)
	bh := handlers.NewBudgetHandlers(deps)
	ah := handlers.NewAnalyticsHandlers(deps)
	wh := handlers.NewWalletHandlers(deps)
	ph := handlers.NewPaystackHandlers(deps)
	cuh := handlers.NewCurrencyHandlers(deps)

	auth := middleware.NewMiddleware(deps.Firebase)

	// The webhook authenticates by HMAC signature, not by bearer token.
	r.Post("/paystack/webhook", ph.Webhook)

	r.Group(func(r chi.Router) {
		r.Use(auth.FirebaseAuth)

		r.Mount("/transactions", th.TransactionRoutes())
		r.Mount("/categories", ch.CategoryRoutes())
		r.Mount("/budgets", bh.BudgetRoutes())
		r.Mount("/analytics", ah.AnalyticsRoutes())
		r.Mount("/wallet", wh.WalletRoutes())
		r.Mount("/paystack/topup", ph.TopUpRoutes())
		r.Mount("/currencies", cuh.CurrencyRoutes())
	})

	return r
}
