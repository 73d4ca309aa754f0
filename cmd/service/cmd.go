// Maintenance binary for scheduled jobs: runs a single cleanup sweep and
// exits. The API binary runs the same sweep on a ticker; this entrypoint
// suits Cloud Run Jobs deployments where background goroutines are not
// reliable.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/expensevista/expensevista-backend/internal/bootstrap"
	"github.com/expensevista/expensevista-backend/internal/config"
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

	whstore := store.NewWebhookEventStore(bs.Firestore)

	ctx := context.Background()
	cutoff := time.Now().Add(-cfg.CleanupRetention)
	count, err := whstore.DeleteOlderThan(ctx, cutoff)
	exitOnError("cleanup sweep failed", err, bs.Log)

	bs.Log.Info("cleanup sweep complete", "deleted", count, "cutoff", cutoff)
}
