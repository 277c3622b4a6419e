package relay

import (
	"net/http"
	"time"
)

// Option customizes the relay client.
type Option func(c *Client)

// WithHTTPClient supplies a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the HTTP client timeout. It bounds the whole stream, not
// only the connect.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if c.http == nil {
			c.http = &http.Client{}
		}
		c.http.Timeout = d
	}
}

// WithHeader sets a static header on all requests.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if c.headers == nil {
			c.headers = map[string]string{}
		}
		c.headers[key] = value
	}
}
