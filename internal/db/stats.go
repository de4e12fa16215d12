package db

import (
	"context"

	"github.com/request-tracker/backend/internal/models"
)

// GetStats returns raw aggregates: AvgResolutionTime is in seconds and nothing is rounded.
func (s *Store) GetStats(ctx context.Context) (models.Stats, error) {
	stats := models.Stats{StatusCounts: map[models.Status]int{}}

	rows, err := s.Pool.Query(ctx, `SELECT status, COUNT(*) FROM requests GROUP BY status`)
	if err != nil {
		return models.Stats{}, err
	}
	for rows.Next() {
		var (
			status models.Status
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return models.Stats{}, err
		}
		stats.StatusCounts[status] = count
		stats.Total += count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return models.Stats{}, err
	}

	if err := s.Pool.QueryRow(ctx, `SELECT COALESCE(AVG(rating), 0)::float8 FROM feedback`).Scan(&stats.AvgRating); err != nil {
		return models.Stats{}, err
	}

	err = s.Pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (resolved_at - created_at))), 0)::float8
		FROM requests
		WHERE status = 'resolue' AND resolved_at IS NOT NULL
	`).Scan(&stats.AvgResolutionTime)
	if err != nil {
		return models.Stats{}, err
	}

	recent, err := s.Pool.Query(ctx, `SELECT id, title, status, created_at, category FROM requests ORDER BY created_at DESC, id DESC LIMIT 5`)
	if err != nil {
		return models.Stats{}, err
	}
	defer recent.Close()
	stats.RecentRequests = []models.RecentTicket{}
	for recent.Next() {
		var r models.RecentTicket
		if err := recent.Scan(&r.ID, &r.Title, &r.Status, &r.CreatedAt, &r.Category); err != nil {
			return models.Stats{}, err
		}
		stats.RecentRequests = append(stats.RecentRequests, r)
	}
	return stats, recent.Err()
}
