package models

import (
	"time"
)

// WebhookEvent is an audit record of a gateway webhook delivery. Records are
// pruned by the background sweeper after the retention window.
type WebhookEvent struct {
	EventID    string    `firestore:"eventId" json:"eventId"`
	Event      string    `firestore:"event" json:"event"`
	Reference  string    `firestore:"reference" json:"reference"`
	Status     string    `firestore:"status" json:"status"`
	ReceivedAt time.Time `firestore:"receivedAt" json:"receivedAt"`
}
