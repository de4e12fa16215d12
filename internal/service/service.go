package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/request-tracker/backend/internal/db"
	"github.com/request-tracker/backend/internal/models"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or revoked token")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrPasswordMismatch   = errors.New("current password is incorrect")
	ErrTicketNotResolved  = errors.New("the request must be resolved before it can be rated")
	ErrFeedbackExists     = errors.New("feedback already provided for this request")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrAssistantDisabled  = errors.New("assistant is not configured")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID int64
	Email  string
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, u models.User) error
	UpdatePassword(ctx context.Context, userID int64, hash string) error
	DeleteUser(ctx context.Context, id int64) error
}

type TicketRepository interface {
	CreateTicket(ctx context.Context, t *models.Ticket) error
	GetTicket(ctx context.Context, id int64) (models.Ticket, error)
	ListTicketsByUser(ctx context.Context, userID int64) ([]models.Ticket, error)
	ListTickets(ctx context.Context) ([]models.Ticket, error)
	MutateTicket(ctx context.Context, id int64, fn func(t *models.Ticket) error) (models.Ticket, models.Ticket, error)
	DeleteTicket(ctx context.Context, id int64) error
}

type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, f *models.Feedback) error
	ListFeedback(ctx context.Context) ([]models.Feedback, error)
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID int64) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID int64) (models.Notification, error)
	DeleteNotification(ctx context.Context, id, userID int64) error
}

type ConversationRepository interface {
	AppendConversation(ctx context.Context, c *models.AIConversation) error
	ListConversation(ctx context.Context, userID int64) ([]models.AIConversation, error)
}

type StatsRepository interface {
	GetStats(ctx context.Context) (models.Stats, error)
}

type TokenRepository interface {
	RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

func mapStoreErr(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
