package service

import (
	"context"
	"errors"

	"github.com/request-tracker/backend/internal/db"
	"github.com/request-tracker/backend/internal/models"
)

type FeedbackInput struct {
	Rating  int
	Comment string
}

type FeedbackService struct {
	Tickets  TicketRepository
	Feedback FeedbackRepository
}

// Add records the owner's single rating of a resolved ticket and returns the ticket with
// its feedback attached. The storage unique constraint settles concurrent submissions.
func (s *FeedbackService) Add(ctx context.Context, actor Actor, ticketID int64, in FeedbackInput) (models.Ticket, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return models.Ticket{}, &ValidationError{Field: "rating", Message: "must be between 1 and 5"}
	}
	t, err := s.Tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return models.Ticket{}, mapStoreErr(err)
	}
	if t.UserID != actor.UserID {
		return models.Ticket{}, ErrNotFound
	}
	if t.Status != models.StatusResolved {
		return models.Ticket{}, ErrTicketNotResolved
	}
	if t.Feedback != nil {
		return models.Ticket{}, ErrFeedbackExists
	}

	userID := actor.UserID
	f := models.Feedback{
		RequestID: ticketID,
		UserID:    &userID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	if err := s.Feedback.CreateFeedback(ctx, &f); err != nil {
		if errors.Is(err, db.ErrConflict) {
			return models.Ticket{}, ErrFeedbackExists
		}
		return models.Ticket{}, err
	}

	t, err = s.Tickets.GetTicket(ctx, ticketID)
	return t, mapStoreErr(err)
}

func (s *FeedbackService) List(ctx context.Context) ([]models.Feedback, error) {
	return s.Feedback.ListFeedback(ctx)
}
