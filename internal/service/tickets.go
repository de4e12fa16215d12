package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/request-tracker/backend/internal/models"
)

type TicketInput struct {
	Title       string
	Description string
	Category    string
}

// TicketContentUpdate carries owner-editable fields; nil leaves a field unchanged.
type TicketContentUpdate struct {
	Title       *string
	Description *string
	Category    *string
}

// TicketStatusUpdate carries admin-editable fields; nil leaves a field unchanged.
type TicketStatusUpdate struct {
	Status       *models.Status
	AdminComment *string
}

// TicketService commits ticket writes and then fans the change out to its observers.
type TicketService struct {
	Tickets   TicketRepository
	Users     UserRepository
	Observers []TicketObserver
	Logger    zerolog.Logger
	Now       func() time.Time
}

func (s *TicketService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *TicketService) Create(ctx context.Context, actor Actor, in TicketInput) (models.Ticket, error) {
	t := models.Ticket{
		UserID:      actor.UserID,
		Status:      models.StatusPending,
		Category:    strings.TrimSpace(in.Category),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
	}
	if t.Title == "" {
		return models.Ticket{}, errBlankTitle()
	}
	if t.Category == "" {
		t.Category = models.DefaultCategory
	}
	ApplyResolution(&t, s.now())
	if err := s.Tickets.CreateTicket(ctx, &t); err != nil {
		return models.Ticket{}, err
	}

	created, err := s.Tickets.GetTicket(ctx, t.ID)
	if err != nil {
		return models.Ticket{}, mapStoreErr(err)
	}
	s.notify(ctx, nil, created)
	return created, nil
}

func errBlankTitle() error {
	return &ValidationError{Field: "title", Message: "may not be blank"}
}

func (s *TicketService) Get(ctx context.Context, id int64) (models.Ticket, error) {
	t, err := s.Tickets.GetTicket(ctx, id)
	return t, mapStoreErr(err)
}

// ListMine returns the caller's tickets. An anonymous caller owns no tickets and gets an
// empty list rather than an error.
func (s *TicketService) ListMine(ctx context.Context, actor *Actor) ([]models.Ticket, error) {
	if actor == nil {
		return []models.Ticket{}, nil
	}
	return s.Tickets.ListTicketsByUser(ctx, actor.UserID)
}

func (s *TicketService) ListAll(ctx context.Context) ([]models.Ticket, error) {
	return s.Tickets.ListTickets(ctx)
}

func (s *TicketService) UpdateContent(ctx context.Context, actor Actor, id int64, in TicketContentUpdate) (models.Ticket, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return models.Ticket{}, errBlankTitle()
	}
	return s.mutate(ctx, id, func(t *models.Ticket) error {
		if t.UserID != actor.UserID {
			return ErrNotFound
		}
		if in.Title != nil {
			t.Title = strings.TrimSpace(*in.Title)
		}
		if in.Description != nil {
			t.Description = *in.Description
		}
		if in.Category != nil {
			t.Category = strings.TrimSpace(*in.Category)
			if t.Category == "" {
				t.Category = models.DefaultCategory
			}
		}
		return nil
	})
}

func (s *TicketService) UpdateStatus(ctx context.Context, actor Actor, id int64, in TicketStatusUpdate) (models.Ticket, error) {
	if !actor.IsAdmin() {
		return models.Ticket{}, ErrForbidden
	}
	return s.mutate(ctx, id, func(t *models.Ticket) error {
		if in.Status != nil {
			if !t.Status.CanTransitionTo(*in.Status) {
				return ErrInvalidTransition
			}
			t.Status = *in.Status
		}
		if in.AdminComment != nil {
			t.AdminComment = *in.AdminComment
		}
		return nil
	})
}

func (s *TicketService) Delete(ctx context.Context, actor Actor, id int64) error {
	t, err := s.Tickets.GetTicket(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	if !actor.IsAdmin() && t.UserID != actor.UserID {
		return ErrNotFound
	}
	return mapStoreErr(s.Tickets.DeleteTicket(ctx, id))
}

func (s *TicketService) mutate(ctx context.Context, id int64, fn func(t *models.Ticket) error) (models.Ticket, error) {
	now := s.now()
	prev, next, err := s.Tickets.MutateTicket(ctx, id, func(t *models.Ticket) error {
		if err := fn(t); err != nil {
			return err
		}
		ApplyResolution(t, now)
		return nil
	})
	if err != nil {
		return models.Ticket{}, mapStoreErr(err)
	}
	s.notify(ctx, &prev, next)
	return next, nil
}

// notify runs after the commit. Nothing it does can undo or fail the write: observer
// errors are logged by the observers and panics are recovered here.
func (s *TicketService) notify(ctx context.Context, prev *models.Ticket, next models.Ticket) {
	if len(s.Observers) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	owner, err := s.Users.GetUserByID(ctx, next.UserID)
	if err != nil {
		s.Logger.Error().Err(err).Int64("request_id", next.ID).Msg("failed to load ticket owner for observers")
		return
	}
	change := TicketChange{Prev: prev, Next: next, Owner: owner}
	for _, obs := range s.Observers {
		s.dispatch(ctx, obs, change)
	}
}

func (s *TicketService) dispatch(ctx context.Context, obs TicketObserver, change TicketChange) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error().Interface("panic", r).Int64("request_id", change.Next.ID).Msg("ticket observer panicked")
		}
	}()
	obs.TicketChanged(ctx, change)
}
