package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopic(t *testing.T) {
	assert.Equal(t, "user_42", Topic(42))
}

func TestNewEventFormatsTimestamp(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	e := NewEvent("updated", 9, "Printer", at)
	assert.Equal(t, "2024-05-01T10:30:00Z", e.CreatedAt)
	assert.Equal(t, int64(9), e.RequestID)
}

func TestRedisBrokerPublishSubscribe(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	broker := NewRedisBroker(client, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Event, 1)
	go func() {
		_ = broker.Subscribe(ctx, Topic(1), func(e Event) { got <- e })
	}()

	channel := channelPrefix + Topic(1)
	require.Eventually(t, func() bool {
		return client.PubSubNumSub(ctx, channel).Val()[channel] == 1
	}, 2*time.Second, 10*time.Millisecond)

	want := NewEvent("status changed", 5, "VPN", time.Now())
	require.NoError(t, broker.Publish(ctx, Topic(1), want))

	select {
	case e := <-got:
		assert.Equal(t, want, e)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestRedisBrokerPublishFailsWhenDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	err = NewRedisBroker(client, zerolog.Nop()).Publish(context.Background(), Topic(1), Event{})
	assert.Error(t, err)
}

type stubSubscriber struct {
	ready chan func(Event)
}

func (s *stubSubscriber) Subscribe(ctx context.Context, topic string, handler func(Event)) error {
	s.ready <- handler
	<-ctx.Done()
	return ctx.Err()
}

func TestHubForwardsEvents(t *testing.T) {
	sub := &stubSubscriber{ready: make(chan func(Event), 1)}
	hub := NewHub(sub, "*", zerolog.Nop())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, 3)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	var handler func(Event)
	select {
	case handler = <-sub.ready:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not subscribe")
	}

	want := NewEvent("hello", 1, "Title", time.Now())
	handler(want)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, want, got)
}
