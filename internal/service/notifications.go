package service

import (
	"context"

	"github.com/request-tracker/backend/internal/models"
)

// NotificationService scopes every operation to the caller's own notifications.
type NotificationService struct {
	Notifications NotificationRepository
}

func (s *NotificationService) List(ctx context.Context, actor Actor) ([]models.Notification, error) {
	return s.Notifications.ListNotifications(ctx, actor.UserID)
}

func (s *NotificationService) MarkRead(ctx context.Context, actor Actor, id int64) (models.Notification, error) {
	n, err := s.Notifications.MarkNotificationRead(ctx, id, actor.UserID)
	return n, mapStoreErr(err)
}

func (s *NotificationService) Delete(ctx context.Context, actor Actor, id int64) error {
	return mapStoreErr(s.Notifications.DeleteNotification(ctx, id, actor.UserID))
}
