package db

import (
	"context"

	"github.com/request-tracker/backend/internal/models"
)

func (s *Store) AppendConversation(ctx context.Context, c *models.AIConversation) error {
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO ai_conversations (user_id, message, sender)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, c.UserID, c.Message, c.Sender).Scan(&c.ID, &c.CreatedAt)
	return mapErr(err)
}

func (s *Store) ListConversation(ctx context.Context, userID int64) ([]models.AIConversation, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, user_id, message, sender, created_at
		FROM ai_conversations
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.AIConversation{}
	for rows.Next() {
		var c models.AIConversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Message, &c.Sender, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
