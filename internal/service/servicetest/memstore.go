// Package servicetest provides an in-memory repository for service and handler tests.
// It enforces the same uniqueness rules as the Postgres schema.
package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/request-tracker/backend/internal/db"
	"github.com/request-tracker/backend/internal/models"
)

type Store struct {
	mu sync.Mutex

	nextID        int64
	users         map[int64]models.User
	tickets       map[int64]models.Ticket
	feedback      map[int64]models.Feedback // keyed by request id
	notifications map[int64]models.Notification
	conversations []models.AIConversation
	revoked       map[string]time.Time

	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:         map[int64]models.User{},
		tickets:       map[int64]models.Ticket{},
		feedback:      map[int64]models.Feedback{},
		notifications: map[int64]models.Notification{},
		revoked:       map[string]time.Time{},
		Now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return db.ErrConflict
		}
	}
	u.ID = s.id()
	u.CreatedAt = s.Now()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, db.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, db.ErrNotFound
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateUser(_ context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[u.ID]
	if !ok {
		return db.ErrNotFound
	}
	for id, other := range s.users {
		if id != u.ID && other.Email == u.Email {
			return db.ErrConflict
		}
	}
	existing.Email, existing.Name, existing.Role = u.Email, u.Name, u.Role
	s.users[u.ID] = existing
	return nil
}

func (s *Store) UpdatePassword(_ context.Context, userID int64, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	u.PasswordHash = hash
	s.users[userID] = u
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.users, id)
	for tid, t := range s.tickets {
		if t.UserID == id {
			s.deleteTicketLocked(tid)
		}
	}
	for nid, n := range s.notifications {
		if n.UserID == id {
			delete(s.notifications, nid)
		}
	}
	kept := s.conversations[:0]
	for _, c := range s.conversations {
		if c.UserID != id {
			kept = append(kept, c)
		}
	}
	s.conversations = kept
	return nil
}

func (s *Store) CreateTicket(_ context.Context, t *models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[t.UserID]; !ok {
		return db.ErrNotFound
	}
	now := s.Now()
	t.ID = s.id()
	t.CreatedAt = now
	t.UpdatedAt = now
	s.tickets[t.ID] = *t
	return nil
}

func (s *Store) hydrate(t models.Ticket) models.Ticket {
	t.UserName = s.users[t.UserID].Name
	t.Feedback = nil
	if f, ok := s.feedback[t.ID]; ok {
		f := f
		t.Feedback = &f
	}
	return t
}

func (s *Store) GetTicket(_ context.Context, id int64) (models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return models.Ticket{}, db.ErrNotFound
	}
	return s.hydrate(t), nil
}

func (s *Store) listTickets(keep func(models.Ticket) bool) []models.Ticket {
	out := []models.Ticket{}
	for _, t := range s.tickets {
		if keep(t) {
			out = append(out, s.hydrate(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Store) ListTicketsByUser(_ context.Context, userID int64) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listTickets(func(t models.Ticket) bool { return t.UserID == userID }), nil
}

func (s *Store) ListTickets(_ context.Context) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listTickets(func(models.Ticket) bool { return true }), nil
}

func (s *Store) MutateTicket(_ context.Context, id int64, fn func(t *models.Ticket) error) (models.Ticket, models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tickets[id]
	if !ok {
		return models.Ticket{}, models.Ticket{}, db.ErrNotFound
	}
	prev := s.hydrate(stored)
	next := prev
	if err := fn(&next); err != nil {
		return models.Ticket{}, models.Ticket{}, err
	}
	next.UpdatedAt = s.Now()
	stored = next
	stored.Feedback = nil
	s.tickets[id] = stored
	return prev, s.hydrate(stored), nil
}

func (s *Store) DeleteTicket(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tickets[id]; !ok {
		return db.ErrNotFound
	}
	s.deleteTicketLocked(id)
	return nil
}

func (s *Store) deleteTicketLocked(id int64) {
	delete(s.tickets, id)
	delete(s.feedback, id)
	for nid, n := range s.notifications {
		if n.RequestID == id {
			delete(s.notifications, nid)
		}
	}
}

func (s *Store) CreateFeedback(_ context.Context, f *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tickets[f.RequestID]; !ok {
		return db.ErrNotFound
	}
	if _, exists := s.feedback[f.RequestID]; exists {
		return db.ErrConflict
	}
	f.ID = s.id()
	f.CreatedAt = s.Now()
	s.feedback[f.RequestID] = *f
	return nil
}

func (s *Store) ListFeedback(_ context.Context) ([]models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Feedback{}
	for _, f := range s.feedback {
		t := s.tickets[f.RequestID]
		f.RequestTitle = t.Title
		f.ClientName = s.users[t.UserID].Name
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) CreateNotification(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.id()
	n.CreatedAt = s.Now()
	s.notifications[n.ID] = *n
	return nil
}

func (s *Store) ListNotifications(_ context.Context, userID int64) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Notification{}
	for _, n := range s.notifications {
		if n.UserID == userID {
			n.RequestTitle = s.tickets[n.RequestID].Title
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) MarkNotificationRead(_ context.Context, id, userID int64) (models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return models.Notification{}, db.ErrNotFound
	}
	n.IsRead = true
	s.notifications[id] = n
	n.RequestTitle = s.tickets[n.RequestID].Title
	return n, nil
}

func (s *Store) DeleteNotification(_ context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return db.ErrNotFound
	}
	delete(s.notifications, id)
	return nil
}

// Notifications returns every stored notification regardless of owner.
func (s *Store) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) AppendConversation(_ context.Context, c *models.AIConversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	c.CreatedAt = s.Now()
	s.conversations = append(s.conversations, *c)
	return nil
}

func (s *Store) ListConversation(_ context.Context, userID int64) ([]models.AIConversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.AIConversation{}
	for _, c := range s.conversations {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) GetStats(_ context.Context) (models.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := models.Stats{StatusCounts: map[models.Status]int{}}
	var resolvedSecs float64
	var resolved int
	for _, t := range s.tickets {
		stats.Total++
		stats.StatusCounts[t.Status]++
		if t.Status == models.StatusResolved && t.ResolvedAt != nil {
			resolvedSecs += t.ResolvedAt.Sub(t.CreatedAt).Seconds()
			resolved++
		}
	}
	if resolved > 0 {
		stats.AvgResolutionTime = resolvedSecs / float64(resolved)
	}
	if len(s.feedback) > 0 {
		var sum int
		for _, f := range s.feedback {
			sum += f.Rating
		}
		stats.AvgRating = float64(sum) / float64(len(s.feedback))
	}
	recent := s.listTickets(func(models.Ticket) bool { return true })
	if len(recent) > 5 {
		recent = recent[:5]
	}
	stats.RecentRequests = []models.RecentTicket{}
	for _, t := range recent {
		stats.RecentRequests = append(stats.RecentRequests, models.RecentTicket{
			ID: t.ID, Title: t.Title, Status: t.Status, CreatedAt: t.CreatedAt, Category: t.Category,
		})
	}
	return stats, nil
}

func (s *Store) RevokeToken(_ context.Context, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = expiresAt
	return nil
}

func (s *Store) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[jti]
	return ok, nil
}
