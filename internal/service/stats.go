package service

import (
	"context"
	"math"

	"github.com/request-tracker/backend/internal/models"
)

const secondsPerDay = 24 * 60 * 60

type StatsService struct {
	Stats StatsRepository
}

// Get returns dashboard aggregates with every status present, ratings rounded to one
// decimal and resolution time expressed in days.
func (s *StatsService) Get(ctx context.Context) (models.Stats, error) {
	raw, err := s.Stats.GetStats(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	counts := make(map[models.Status]int, len(models.AllStatuses))
	for _, st := range models.AllStatuses {
		counts[st] = raw.StatusCounts[st]
	}
	raw.StatusCounts = counts
	raw.AvgRating = round1(raw.AvgRating)
	raw.AvgResolutionTime = round1(raw.AvgResolutionTime / secondsPerDay)
	if raw.RecentRequests == nil {
		raw.RecentRequests = []models.RecentTicket{}
	}
	return raw, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
