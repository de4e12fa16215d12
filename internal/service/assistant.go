package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/request-tracker/backend/internal/ai"
	"github.com/request-tracker/backend/internal/models"
)

// AssistantService proxies chat turns to the AI provider and records both sides of the
// conversation. A nil Assistant means the provider is not configured.
type AssistantService struct {
	Assistant     ai.Assistant
	Conversations ConversationRepository
	MaxAttempts   int
	Backoff       time.Duration
	Logger        zerolog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

func (s *AssistantService) Send(ctx context.Context, actor Actor, message string) (models.AIConversation, error) {
	if s.Assistant == nil {
		return models.AIConversation{}, ErrAssistantDisabled
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return models.AIConversation{}, &ValidationError{Field: "message", Message: "is required"}
	}

	turn := models.AIConversation{UserID: actor.UserID, Message: message, Sender: models.SenderUser}
	if err := s.Conversations.AppendConversation(ctx, &turn); err != nil {
		return models.AIConversation{}, err
	}

	reply, err := s.ask(ctx, message)
	if err != nil {
		return models.AIConversation{}, err
	}

	answer := models.AIConversation{UserID: actor.UserID, Message: reply, Sender: models.SenderAI}
	if err := s.Conversations.AppendConversation(ctx, &answer); err != nil {
		return models.AIConversation{}, err
	}
	return answer, nil
}

// ask retries only rate-limited calls, doubling the wait after each one.
func (s *AssistantService) ask(ctx context.Context, prompt string) (string, error) {
	attempts := s.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	wait := s.Backoff
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		reply, err := s.Assistant.Ask(ctx, prompt)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		if !ai.IsRateLimited(err) || attempt == attempts {
			break
		}
		s.Logger.Warn().Int("attempt", attempt).Dur("backoff", wait).Msg("assistant rate limited, retrying")
		if err := s.pause(ctx, wait); err != nil {
			return "", err
		}
		wait *= 2
	}
	return "", lastErr
}

func (s *AssistantService) pause(ctx context.Context, d time.Duration) error {
	if s.sleep != nil {
		return s.sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *AssistantService) History(ctx context.Context, actor Actor) ([]models.AIConversation, error) {
	return s.Conversations.ListConversation(ctx, actor.UserID)
}
