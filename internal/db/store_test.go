package db

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/request-tracker/backend/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	store, err := New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, store.EnsureSchema(ctx))
	return store
}

func createTestUser(t *testing.T, store *Store) models.User {
	t.Helper()
	u := models.User{
		Email:        fmt.Sprintf("user-%d@example.com", time.Now().UnixNano()),
		Name:         "Test User",
		Role:         models.RoleClient,
		PasswordHash: "x",
	}
	require.NoError(t, store.CreateUser(context.Background(), &u))
	return u
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	u := createTestUser(t, store)

	dup := models.User{Email: u.Email, Name: "Other", Role: models.RoleClient, PasswordHash: "y"}
	err := store.CreateUser(context.Background(), &dup)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestMutateTicketReturnsPriorState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, store)

	ticket := models.Ticket{UserID: u.ID, Status: models.StatusPending, Category: models.DefaultCategory, Title: "Printer"}
	require.NoError(t, store.CreateTicket(ctx, &ticket))

	now := time.Now().UTC()
	prev, next, err := store.MutateTicket(ctx, ticket.ID, func(t *models.Ticket) error {
		t.Status = models.StatusResolved
		t.ResolvedAt = &now
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, prev.Status)
	assert.Equal(t, models.StatusResolved, next.Status)

	got, err := store.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.ResolvedAt)
}

func TestResolvedAtCheckConstraint(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, store)

	ticket := models.Ticket{UserID: u.ID, Status: models.StatusResolved, Category: models.DefaultCategory, Title: "No timestamp"}
	assert.Error(t, store.CreateTicket(ctx, &ticket))
}

func TestConcurrentFeedbackSingleWinner(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, store)

	now := time.Now().UTC()
	ticket := models.Ticket{UserID: u.ID, Status: models.StatusResolved, ResolvedAt: &now, Category: models.DefaultCategory, Title: "Race"}
	require.NoError(t, store.CreateTicket(ctx, &ticket))

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f := models.Feedback{RequestID: ticket.ID, UserID: &u.ID, Rating: 4}
			err := store.CreateFeedback(ctx, &f)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if assert.ErrorIs(t, err, ErrConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}
