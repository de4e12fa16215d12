package live

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const channelPrefix = "tracker:live:"

// RedisBroker fans events out through Redis Pub/Sub so every server instance can
// reach the sessions it holds.
type RedisBroker struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewRedisBroker(client *redis.Client, logger zerolog.Logger) *RedisBroker {
	return &RedisBroker{client: client, logger: logger}
}

func (b *RedisBroker) Publish(ctx context.Context, topic string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal live event: %w", err)
	}
	if err := b.client.Publish(ctx, channelPrefix+topic, data).Err(); err != nil {
		return fmt.Errorf("failed to publish live event: %w", err)
	}
	b.logger.Debug().Str("topic", topic).Int64("request_id", event.RequestID).Msg("live event published")
	return nil
}

// Subscribe delivers events published on topic until ctx is cancelled or the
// subscription breaks. Malformed payloads are skipped.
func (b *RedisBroker) Subscribe(ctx context.Context, topic string, handler func(Event)) error {
	sub := b.client.Subscribe(ctx, channelPrefix+topic)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warn().Err(err).Str("topic", topic).Msg("skipping malformed live event")
				continue
			}
			handler(event)
		}
	}
}
