package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/request-tracker/backend/internal/models"
)

const userColumns = `id, email, name, role, password_hash, created_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.CreatedAt)
	return u, mapErr(err)
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name, role, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, u.Email, u.Name, u.Role, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	return mapErr(err)
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	return scanUser(s.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(s.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, u models.User) error {
	return expectAffected(s.Pool.Exec(ctx, `UPDATE users SET email = $2, name = $3, role = $4 WHERE id = $1`, u.ID, u.Email, u.Name, u.Role))
}

func (s *Store) UpdatePassword(ctx context.Context, userID int64, hash string) error {
	return expectAffected(s.Pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, userID, hash))
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	return expectAffected(s.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id))
}
