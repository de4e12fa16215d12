package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultMaxTokens   = 200
	defaultTemperature = 0.7
)

// MistralAssistant talks to an OpenAI-compatible chat completions endpoint.
type MistralAssistant struct {
	client      *resty.Client
	model       string
	maxTokens   int
	temperature float64
}

func NewMistralAssistant(baseURL, apiKey, model string, timeout time.Duration) *MistralAssistant {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Accept", "application/json")
	return &MistralAssistant{
		client:      client,
		model:       model,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (a *MistralAssistant) Ask(ctx context.Context, prompt string) (string, error) {
	payload := completionRequest{
		Model:       a.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	}

	var res completionResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		SetResult(&res).
		Post("/chat/completions")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return "", fmt.Errorf("%w: %s", ErrBadRequest, resp.String())
	case http.StatusUnauthorized:
		return "", ErrUnauthorized
	case http.StatusTooManyRequests:
		return "", RateLimitError{RetryAfter: parseRetryAfter(resp.Header().Get("Retry-After"))}
	case http.StatusServiceUnavailable:
		return "", ErrUnavailable
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: %s", ErrUpstream, resp.Status())
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("%w: empty assistant response", ErrUpstream)
	}
	return res.Choices[0].Message.Content, nil
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
