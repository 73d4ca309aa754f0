package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/expensevista/expensevista-backend/internal/background"
	"github.com/expensevista/expensevista-backend/internal/bootstrap"
	"github.com/expensevista/expensevista-backend/internal/client/exchangerate"
	"github.com/expensevista/expensevista-backend/internal/client/paystack"
	"github.com/expensevista/expensevista-backend/internal/config"
	"github.com/expensevista/expensevista-backend/internal/handlers"
	"github.com/expensevista/expensevista-backend/internal/response"
	"github.com/expensevista/expensevista-backend/internal/router"
	"github.com/expensevista/expensevista-backend/internal/services"
	"github.com/expensevista/expensevista-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// external clients
	rateClient := exchangerate.NewAdapter(cfg.ExchangeRateAPIURL)
	paystackClient := paystack.NewAdapter(cfg.PaystackBaseURL, cfg.PaystackSecretKey, cfg.PaystackWebhookSecret)

	// stores
	tstore := store.NewTransactionStore(bs.Firestore)
	cstore := store.NewCategoryStore(bs.Firestore)
	bstore := store.NewBudgetStore(bs.Firestore)
	wstore := store.NewWalletStore(bs.Firestore)
	whstore := store.NewWebhookEventStore(bs.Firestore)

	// services
	cuserv := services.NewCurrencyService(rateClient)
	caserv := services.NewCategoryService(cstore, tstore)
	tserv := services.NewTransactionService(tstore, caserv, cuserv, cfg.BaseCurrency)
	buserv := services.NewBudgetService(bstore, tserv)
	suserv := services.NewSummaryService(tstore)
	anserv := services.NewAnalyticsService(tstore, bstore)
	waserv := services.NewWalletService(wstore, tserv)
	paserv := services.NewPaystackService(paystackClient, waserv, whstore, cfg.BaseCurrency)

	// seed system categories
	err = caserv.SeedDefaults(context.Background())
	exitOnError("category seeding failed", err, bs.Log)

	// background cleanup
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	sweeper := background.NewSweeper(whstore, bs.Log, cfg.CleanupInterval, cfg.CleanupRetention)
	go sweeper.Run(sweepCtx)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.TransactionSvc = tserv
	deps.CategorySvc = caserv
	deps.BudgetSvc = buserv
	deps.SummarySvc = suserv
	deps.AnalyticsSvc = anserv
	deps.WalletSvc = waserv
	deps.PaystackSvc = paserv
	deps.CurrencySvc = cuserv

	// router
	r := router.NewRouter(deps)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
