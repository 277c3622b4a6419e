package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRateLimited is returned once the upstream kept rate limiting past the retry budget.
	ErrRateLimited = errors.New("rate limited")

	// ErrMalformedRequest marks a conversation that cannot be sent upstream.
	ErrMalformedRequest = errors.New("malformed request")
)

// UpstreamError wraps a non-200 answer of the model API.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return "upstream error"
	}
	if e.Body != "" {
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s API error (status %d)", e.Provider, e.StatusCode)
}

// IsRateLimit reports whether the upstream signalled HTTP 429.
func (e *UpstreamError) IsRateLimit() bool {
	return e != nil && e.StatusCode == http.StatusTooManyRequests
}

// IsRateLimited reports whether err is a rate-limit signal from the upstream,
// either a single 429 answer or an exhausted retry budget.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.IsRateLimit()
	}
	return false
}
