package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Assistant answers a single user prompt.
type Assistant interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

var (
	ErrBadRequest   = errors.New("assistant rejected the request")
	ErrUnauthorized = errors.New("assistant api key rejected")
	ErrUnavailable  = errors.New("assistant service unavailable")
	ErrTimeout      = errors.New("assistant request timed out")
	ErrUpstream     = errors.New("assistant request failed")
)

type RateLimitError struct {
	RetryAfter time.Duration
}

func (r RateLimitError) Error() string {
	if r.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", r.RetryAfter)
	}
	return "rate limited"
}

func IsRateLimited(err error) bool {
	var rl RateLimitError
	return errors.As(err, &rl)
}
