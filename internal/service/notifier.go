package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/request-tracker/backend/internal/live"
	"github.com/request-tracker/backend/internal/models"
)

// TicketChange describes a committed ticket write. Prev is nil for a newly created ticket.
type TicketChange struct {
	Prev  *models.Ticket
	Next  models.Ticket
	Owner models.User
}

// TicketObserver is told about every committed ticket write. Observers cannot fail the write.
type TicketObserver interface {
	TicketChanged(ctx context.Context, change TicketChange)
}

// ApplyResolution keeps ResolvedAt set exactly while the ticket is resolved.
func ApplyResolution(t *models.Ticket, now time.Time) {
	if t.Status == models.StatusResolved {
		if t.ResolvedAt == nil {
			resolvedAt := now
			t.ResolvedAt = &resolvedAt
		}
		return
	}
	t.ResolvedAt = nil
}

// NotificationMessage decides whether a change must be reported to the ticket owner and
// builds the message. Only updates to existing tickets owned by non-admin users qualify,
// and only when the status changed or a new non-empty admin comment was written.
func NotificationMessage(change TicketChange) (string, bool) {
	prev, next := change.Prev, change.Next
	if prev == nil || change.Owner.IsAdmin() {
		return "", false
	}
	statusChanged := prev.Status != next.Status
	commentChanged := next.AdminComment != "" && prev.AdminComment != next.AdminComment
	if !statusChanged && !commentChanged {
		return "", false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your request '%s' has been updated:", next.Title)
	if statusChanged {
		fmt.Fprintf(&b, " status changed to '%s'.", next.Status.Label())
	}
	if commentChanged {
		fmt.Fprintf(&b, " Admin comment: %s", next.AdminComment)
	}
	return b.String(), true
}

// Notifier persists a notification for notification-worthy changes and pushes a live
// event to the owner's topic without waiting for delivery.
type Notifier struct {
	Notifications  NotificationRepository
	Publisher      live.Publisher
	Logger         zerolog.Logger
	PublishTimeout time.Duration
}

func (n *Notifier) TicketChanged(ctx context.Context, change TicketChange) {
	message, ok := NotificationMessage(change)
	if !ok {
		return
	}
	next := change.Next

	note := models.Notification{
		UserID:       change.Owner.ID,
		RequestID:    next.ID,
		RequestTitle: next.Title,
		Message:      message,
	}
	if err := n.Notifications.CreateNotification(ctx, &note); err != nil {
		n.Logger.Error().Err(err).Int64("request_id", next.ID).Msg("failed to persist notification")
	}

	n.publish(live.Topic(change.Owner.ID), live.NewEvent(message, next.ID, next.Title, next.UpdatedAt))
}

func (n *Notifier) publish(topic string, event live.Event) {
	if n.Publisher == nil {
		return
	}
	timeout := n.PublishTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				n.Logger.Error().Interface("panic", r).Str("topic", topic).Msg("live publish panicked")
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := n.Publisher.Publish(ctx, topic, event); err != nil {
			n.Logger.Warn().Err(err).Str("topic", topic).Msg("live publish failed")
		}
	}()
}
