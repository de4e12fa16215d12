package live

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Subscriber is the receiving side of a live broker.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler func(Event)) error
}

// Hub bridges a user's topic to a websocket connection.
type Hub struct {
	subscriber Subscriber
	upgrader   websocket.Upgrader
	logger     zerolog.Logger
}

func NewHub(subscriber Subscriber, allowedOrigin string, logger zerolog.Logger) *Hub {
	return &Hub{
		subscriber: subscriber,
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// Serve upgrades the request and streams events for userID until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID int64) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Int64("user_id", userID).Msg("failed to upgrade to websocket")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan Event, 16)
	go func() {
		topic := Topic(userID)
		if err := h.subscriber.Subscribe(ctx, topic, func(e Event) {
			select {
			case events <- e:
			default:
				h.logger.Warn().Str("topic", topic).Msg("live session too slow, dropping event")
			}
		}); err != nil && ctx.Err() == nil {
			h.logger.Warn().Err(err).Str("topic", topic).Msg("live subscription ended")
		}
		cancel()
	}()

	go h.readPump(conn, cancel)

	h.logger.Info().Int64("user_id", userID).Msg("live session connected")
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Int64("user_id", userID).Msg("live session closed")
			return
		case e := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so control messages are processed and a closed
// connection is noticed.
func (h *Hub) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
