package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/request-tracker/backend/internal/models"
)

func scanNotification(row pgx.Row) (models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.RequestID, &n.RequestTitle, &n.Message, &n.IsRead, &n.CreatedAt)
	return n, mapErr(err)
}

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO notifications (user_id, request_id, message)
		VALUES ($1, $2, $3)
		RETURNING id, is_read, created_at
	`, n.UserID, n.RequestID, n.Message).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	return mapErr(err)
}

func (s *Store) ListNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT n.id, n.user_id, n.request_id, r.title, n.message, n.is_read, n.created_at
		FROM notifications n
		JOIN requests r ON r.id = n.request_id
		WHERE n.user_id = $1
		ORDER BY n.created_at DESC, n.id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) MarkNotificationRead(ctx context.Context, id, userID int64) (models.Notification, error) {
	return scanNotification(s.Pool.QueryRow(ctx, `
		WITH updated AS (
			UPDATE notifications SET is_read = TRUE
			WHERE id = $1 AND user_id = $2
			RETURNING id, user_id, request_id, message, is_read, created_at
		)
		SELECT u.id, u.user_id, u.request_id, r.title, u.message, u.is_read, u.created_at
		FROM updated u
		JOIN requests r ON r.id = u.request_id
	`, id, userID))
}

func (s *Store) DeleteNotification(ctx context.Context, id, userID int64) error {
	return expectAffected(s.Pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID))
}
