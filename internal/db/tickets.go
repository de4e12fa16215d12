package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/request-tracker/backend/internal/models"
)

const ticketSelect = `
	SELECT r.id, r.user_id, u.name, r.status, r.category, r.title, r.description, r.admin_comment,
		r.rating, r.created_at, r.updated_at, r.resolved_at,
		f.id, f.rating, f.comment, f.created_at
	FROM requests r
	JOIN users u ON u.id = r.user_id
	LEFT JOIN feedback f ON f.request_id = r.id`

func scanTicket(row pgx.Row) (models.Ticket, error) {
	var (
		t               models.Ticket
		feedbackID      *int64
		feedbackRating  *int
		feedbackComment *string
		feedbackAt      *time.Time
	)
	err := row.Scan(&t.ID, &t.UserID, &t.UserName, &t.Status, &t.Category, &t.Title, &t.Description, &t.AdminComment,
		&t.Rating, &t.CreatedAt, &t.UpdatedAt, &t.ResolvedAt,
		&feedbackID, &feedbackRating, &feedbackComment, &feedbackAt)
	if err != nil {
		return models.Ticket{}, mapErr(err)
	}
	if feedbackID != nil {
		t.Feedback = &models.Feedback{
			ID:           *feedbackID,
			RequestID:    t.ID,
			Rating:       derefInt(feedbackRating),
			Comment:      derefString(feedbackComment),
			RequestTitle: t.Title,
			ClientName:   t.UserName,
		}
		if feedbackAt != nil {
			t.Feedback.CreatedAt = *feedbackAt
		}
	}
	return t, nil
}

func (s *Store) queryTickets(ctx context.Context, query string, args ...any) ([]models.Ticket, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) CreateTicket(ctx context.Context, t *models.Ticket) error {
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO requests (user_id, status, category, title, description, admin_comment, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, t.UserID, t.Status, t.Category, t.Title, t.Description, t.AdminComment, t.ResolvedAt).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return mapErr(err)
}

func (s *Store) GetTicket(ctx context.Context, id int64) (models.Ticket, error) {
	return scanTicket(s.Pool.QueryRow(ctx, ticketSelect+` WHERE r.id = $1`, id))
}

func (s *Store) ListTicketsByUser(ctx context.Context, userID int64) ([]models.Ticket, error) {
	return s.queryTickets(ctx, ticketSelect+` WHERE r.user_id = $1 ORDER BY r.created_at DESC, r.id DESC`, userID)
}

func (s *Store) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	return s.queryTickets(ctx, ticketSelect+` ORDER BY r.created_at DESC, r.id DESC`)
}

// MutateTicket locks the ticket row, hands a copy to fn and persists the result in the
// same transaction. It returns the state before and after the write.
func (s *Store) MutateTicket(ctx context.Context, id int64, fn func(t *models.Ticket) error) (models.Ticket, models.Ticket, error) {
	var prev, next models.Ticket
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		prev, err = scanTicket(tx.QueryRow(ctx, ticketSelect+` WHERE r.id = $1 FOR UPDATE OF r`, id))
		if err != nil {
			return err
		}
		next = prev
		if err := fn(&next); err != nil {
			return err
		}
		err = tx.QueryRow(ctx, `
			UPDATE requests
			SET title = $2, description = $3, category = $4, status = $5, admin_comment = $6,
				resolved_at = $7, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at
		`, id, next.Title, next.Description, next.Category, next.Status, next.AdminComment, next.ResolvedAt).Scan(&next.UpdatedAt)
		return mapErr(err)
	})
	if err != nil {
		return models.Ticket{}, models.Ticket{}, err
	}
	return prev, next, nil
}

func (s *Store) DeleteTicket(ctx context.Context, id int64) error {
	return expectAffected(s.Pool.Exec(ctx, `DELETE FROM requests WHERE id = $1`, id))
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
