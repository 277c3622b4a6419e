package relay

import (
	"errors"
	"fmt"
)

var (
	// ErrNetworkFailure reports that the relay could not be reached.
	ErrNetworkFailure = errors.New("relay unreachable")
	// ErrNoBody reports a successful response without a readable body.
	ErrNoBody = errors.New("relay response had no body")
)

// HTTPError wraps non-2xx relay responses.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error"
	}
	if e.Body != "" {
		return fmt.Sprintf("request failed: %s (%d): %s", e.Status, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("request failed: %s (%d)", e.Status, e.StatusCode)
}
