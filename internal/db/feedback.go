package db

import (
	"context"

	"github.com/request-tracker/backend/internal/models"
)

// CreateFeedback relies on the unique request_id constraint: a second insert for the
// same ticket fails with ErrConflict even under concurrent requests.
func (s *Store) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO feedback (request_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, f.RequestID, f.UserID, f.Rating, f.Comment).Scan(&f.ID, &f.CreatedAt)
	return mapErr(err)
}

func (s *Store) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT f.id, f.request_id, f.user_id, f.rating, f.comment, f.created_at, r.title, COALESCE(u.name, '')
		FROM feedback f
		JOIN requests r ON r.id = f.request_id
		LEFT JOIN users u ON u.id = f.user_id
		ORDER BY f.created_at DESC, f.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Feedback{}
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.RequestID, &f.UserID, &f.Rating, &f.Comment, &f.CreatedAt, &f.RequestTitle, &f.ClientName); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
