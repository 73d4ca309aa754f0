package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/models"
)

type webhookEventStore struct {
	client *firestore.Client
}

func NewWebhookEventStore(client *firestore.Client) *webhookEventStore {
	return &webhookEventStore{client: client}
}

func (s *webhookEventStore) collection() *firestore.CollectionRef {
	return s.client.Collection("webhook_events")
}

// Record writes the delivery audit record. Redeliveries overwrite the same
// document; the audit trail tracks the latest delivery per event.
func (s *webhookEventStore) Record(ctx context.Context, e *models.WebhookEvent) error {
	e.ReceivedAt = time.Now()
	if _, err := s.collection().Doc(e.EventID).Set(ctx, e); err != nil {
		return errs.NewDatabaseError("create", "failed to record webhook event", err)
	}
	return nil
}

// DeleteOlderThan removes audit records received before the cutoff and
// returns how many were deleted.
func (s *webhookEventStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	iter := s.collection().Where("receivedAt", "<", cutoff).Documents(ctx)
	defer iter.Stop()

	bw := s.client.BulkWriter(ctx)
	count := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return count, errs.NewDatabaseError("read", "failed to scan webhook events", err)
		}
		if _, err := bw.Delete(doc.Ref); err != nil {
			return count, errs.NewDatabaseError("delete", "failed to queue webhook event deletion", err)
		}
		count++
	}
	bw.End()
	return count, nil
}
