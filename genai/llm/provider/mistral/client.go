package mistral

import (
	"net/http"
	"os"
	"time"

	"github.com/go-logr/logr"
	basecfg "github.com/viant/divinity/genai/llm/provider/base"
)

const (
	// Default endpoint for the Mistral API
	defaultBaseURL = "https://api.mistral.ai/v1"
	// DefaultModel is used when neither the client nor the request names one.
	DefaultModel = "mistral-medium-latest"
	// DefaultTopP matches the sampling the personas were tuned with.
	DefaultTopP = 0.6
	// APIKeyEnv is the environment variable consulted when no key is given.
	APIKeyEnv = "MISTRAL_API_KEY"
)

// Client represents a Mistral API client
type Client struct {
	basecfg.Config
	APIKey string
	logger logr.Logger
}

// ClientOption mutates the client.
type ClientOption func(*Client)

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { basecfg.WithHTTPClient(httpClient)(&c.Config) }
}

// WithBaseURL overrides the default API base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { basecfg.WithBaseURL(baseURL)(&c.Config) }
}

// WithModel selects the model name.
func WithModel(model string) ClientOption {
	return func(c *Client) { basecfg.WithModel(model)(&c.Config) }
}

// WithTopP overrides the default top_p.
func WithTopP(topP float64) ClientOption {
	return func(c *Client) { basecfg.WithTopP(topP)(&c.Config) }
}

// WithTimeout sets the HTTP timeout used for streaming calls.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { basecfg.WithTimeout(timeout)(&c.Config) }
}

// WithUsageListener registers a usage listener.
func WithUsageListener(l basecfg.UsageListener) ClientOption {
	return func(c *Client) { c.UsageListener = l }
}

// WithRetryPolicy replaces the default rate-limit retry policy.
func WithRetryPolicy(p basecfg.RetryPolicy) ClientOption {
	return func(c *Client) { basecfg.WithRetryPolicy(p)(&c.Config) }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(logger logr.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a new Mistral client with the given API key and model.
// An empty key falls back to MISTRAL_API_KEY; a missing key is not an error
// here, the upstream rejects the call instead.
func NewClient(apiKey, model string, options ...ClientOption) *Client {
	if model == "" {
		model = DefaultModel
	}
	client := &Client{
		Config: basecfg.Config{
			HTTPClient: &http.Client{},
			BaseURL:    defaultBaseURL,
			Model:      model,
			TopP:       DefaultTopP,
			Retry:      basecfg.DefaultRetryPolicy(),
		},
		APIKey: apiKey,
		logger: logr.Discard(),
	}
	for _, opt := range options {
		opt(client)
	}
	if client.APIKey == "" {
		client.APIKey = os.Getenv(APIKeyEnv)
	}
	return client
}
