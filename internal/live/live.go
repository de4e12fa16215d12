// Package live delivers ticket change events to connected client sessions.
//
// Events are published on a per-user topic. Delivery is best-effort: the persisted
// notification row is the durable record, a live event only reduces latency for
// clients that happen to be connected.
package live

import (
	"context"
	"fmt"
	"time"
)

// Event is the payload pushed to a user's topic.
type Event struct {
	Message      string `json:"message"`
	RequestID    int64  `json:"request_id"`
	RequestTitle string `json:"request_title"`
	CreatedAt    string `json:"created_at"`
}

func NewEvent(message string, requestID int64, title string, at time.Time) Event {
	return Event{
		Message:      message,
		RequestID:    requestID,
		RequestTitle: title,
		CreatedAt:    at.UTC().Format(time.RFC3339Nano),
	}
}

// Publisher pushes an event to a topic. Implementations must not panic; failures are
// reported through the returned error only.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
}

func Topic(userID int64) string {
	return fmt.Sprintf("user_%d", userID)
}

// NopPublisher is used when no live backend is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Event) error {
	return nil
}
