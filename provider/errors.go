package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Fatal LLM capability error categories. Tool-level failures are folded back
// into the conversation and never surface here; these four end the turn.
var (
	ErrAuth             = errors.New("authentication failed")
	ErrRateLimit        = errors.New("rate limit exceeded")
	ErrNetwork          = errors.New("network error")
	ErrUnexpectedFormat = errors.New("unexpected response format")
)

// categorize maps a raw SDK error to one of the fatal categories using the
// HTTP status when available, falling back to message inspection for
// transport-level failures that carry no status.
func categorize(err error, statusCode int) error {
	if err == nil {
		return nil
	}

	switch statusCode {
	case 401, 403:
		return fmt.Errorf("%w: %v", ErrAuth, err)
	case 429:
		return fmt.Errorf("%w: %v", ErrRateLimit, err)
	case 400, 422:
		return fmt.Errorf("%w: %v", ErrUnexpectedFormat, err)
	}
	if statusCode >= 500 {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "authentication") || strings.Contains(msg, "unauthorized"):
		return fmt.Errorf("%w: %v", ErrAuth, err)
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests"):
		return fmt.Errorf("%w: %v", ErrRateLimit, err)
	default:
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
}

// UserMessage converts a fatal turn error into the human-readable message
// shown in the chat error banner.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrAuth):
		return "Invalid API key. Please check your API key and try again."
	case errors.Is(err, ErrRateLimit):
		return "Rate limit exceeded. Please wait a moment and try again."
	case errors.Is(err, ErrNetwork):
		return "Network error. Please check your connection and try again."
	case errors.Is(err, ErrUnexpectedFormat):
		return "The model returned a response in an unexpected format. Please try again."
	default:
		return "Failed to get a response. Please try again."
	}
}
