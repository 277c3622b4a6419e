package base

import (
	"net/http"
	"time"
)

// Config aggregates common client parameters used by all LLM providers.  It is
// embedded into every concrete provider.Client to remove the need for
// per-package boiler-plate.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Model      string
	Timeout    time.Duration
	TopP       float64

	// UsageListener, when set, receives token usage information for each
	// completed stream.
	UsageListener UsageListener

	// Retry governs how the connect phase of a request reacts to rate limits.
	Retry RetryPolicy
}

// ClientOption mutates Config; providers expose it via type alias so that users
// can continue to call e.g. *mistral.WithBaseURL(...)*.
type ClientOption func(*Config)

// WithBaseURL overrides the default endpoint of the provider.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Config) {
		if baseURL != "" {
			c.BaseURL = baseURL
		}
	}
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Config) {
		if client != nil {
			c.HTTPClient = client
		}
	}
}

// WithModel selects the model name.
func WithModel(model string) ClientOption {
	return func(c *Config) {
		if model != "" {
			c.Model = model
		}
	}
}

// WithTimeout sets request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Config) {
		if timeout > 0 {
			c.Timeout = timeout
		}
	}
}

// WithTopP sets the default nucleus sampling parameter.
func WithTopP(topP float64) ClientOption {
	return func(c *Config) {
		if topP > 0 {
			c.TopP = topP
		}
	}
}

// WithUsageListener registers a callback to receive token usage metrics.
func WithUsageListener(l UsageListener) ClientOption {
	return func(c *Config) {
		c.UsageListener = l
	}
}

// WithRetryPolicy replaces the rate-limit retry policy.
func WithRetryPolicy(p RetryPolicy) ClientOption {
	return func(c *Config) {
		c.Retry = p
	}
}
