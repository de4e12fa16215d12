package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/request-tracker/backend/internal/models"
)

func TestFeedbackRequiresResolvedOwnedTicket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket, err := f.tickets.Create(ctx, f.client, TicketInput{Title: "Screen"})
	require.NoError(t, err)

	_, err = f.feedback.Add(ctx, f.client, ticket.ID, FeedbackInput{Rating: 3})
	assert.ErrorIs(t, err, ErrTicketNotResolved)

	_, err = f.tickets.UpdateStatus(ctx, f.admin, ticket.ID, TicketStatusUpdate{Status: statusPtr(models.StatusResolved)})
	require.NoError(t, err)

	_, err = f.feedback.Add(ctx, f.admin, ticket.ID, FeedbackInput{Rating: 3})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.feedback.Add(ctx, f.client, 12345, FeedbackInput{Rating: 3})
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := f.feedback.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestConcurrentFeedbackOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket, err := f.tickets.Create(ctx, f.client, TicketInput{Title: "Race"})
	require.NoError(t, err)
	_, err = f.tickets.UpdateStatus(ctx, f.admin, ticket.ID, TicketStatusUpdate{Status: statusPtr(models.StatusResolved)})
	require.NoError(t, err)

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(rating int) {
			defer wg.Done()
			_, err := f.feedback.Add(ctx, f.client, ticket.ID, FeedbackInput{Rating: rating})
			errs <- err
		}(i%5 + 1)
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, ErrFeedbackExists), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, ok)

	list, err := f.feedback.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Race", list[0].RequestTitle)
	assert.Equal(t, "Alice", list[0].ClientName)
}
