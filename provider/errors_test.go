package provider

import (
	"context"
	"errors"
	"testing"
)

func TestCategorize(t *testing.T) {
	raw := errors.New("boom")

	tests := []struct {
		name       string
		err        error
		statusCode int
		want       error
	}{
		{"nil passes through", nil, 500, nil},
		{"401 is auth", raw, 401, ErrAuth},
		{"403 is auth", raw, 403, ErrAuth},
		{"429 is rate limit", raw, 429, ErrRateLimit},
		{"400 is format", raw, 400, ErrUnexpectedFormat},
		{"422 is format", raw, 422, ErrUnexpectedFormat},
		{"500 is network", raw, 500, ErrNetwork},
		{"503 is network", raw, 503, ErrNetwork},
		{"deadline is network", context.DeadlineExceeded, 0, ErrNetwork},
		{"canceled is network", context.Canceled, 0, ErrNetwork},
		{"api key message is auth", errors.New("invalid API key provided"), 0, ErrAuth},
		{"unauthorized message is auth", errors.New("401 Unauthorized"), 0, ErrAuth},
		{"rate limit message", errors.New("Rate limit reached for requests"), 0, ErrRateLimit},
		{"unknown defaults to network", errors.New("connection refused"), 0, ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := categorize(tt.err, tt.statusCode)

			if tt.want == nil {
				if got != nil {
					t.Errorf("got %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("got %v, want category %v", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"auth", categorize(errors.New("x"), 401), "Invalid API key. Please check your API key and try again."},
		{"rate limit", categorize(errors.New("x"), 429), "Rate limit exceeded. Please wait a moment and try again."},
		{"network", categorize(errors.New("x"), 500), "Network error. Please check your connection and try again."},
		{"format", categorize(errors.New("x"), 422), "The model returned a response in an unexpected format. Please try again."},
		{"unknown", errors.New("mystery"), "Failed to get a response. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
