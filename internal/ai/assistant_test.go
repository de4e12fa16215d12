package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMistralAssistantAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var body completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "mistral-large-latest", body.Model)
		assert.Equal(t, 200, body.MaxTokens)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "hello", body.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hi there"}}]}`))
	}))
	defer srv.Close()

	a := NewMistralAssistant(srv.URL+"/", "key", "mistral-large-latest", time.Second)
	got, err := a.Ask(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", got)
}

func TestMistralAssistantErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		check  func(t *testing.T, err error)
	}{
		{http.StatusBadRequest, func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrBadRequest) }},
		{http.StatusUnauthorized, func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrUnauthorized) }},
		{http.StatusServiceUnavailable, func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrUnavailable) }},
		{http.StatusInternalServerError, func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrUpstream) }},
		{http.StatusTooManyRequests, func(t *testing.T, err error) {
			var rl RateLimitError
			require.ErrorAs(t, err, &rl)
			assert.Equal(t, 2*time.Second, rl.RetryAfter)
		}},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "2")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			}))
			defer srv.Close()

			_, err := NewMistralAssistant(srv.URL, "key", "m", time.Second).Ask(context.Background(), "x")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestMistralAssistantTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewMistralAssistant(srv.URL, "key", "m", 50*time.Millisecond).Ask(context.Background(), "x")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestMistralAssistantEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewMistralAssistant(srv.URL, "key", "m", time.Second).Ask(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUpstream)
}
