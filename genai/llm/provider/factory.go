package provider

import (
	"context"
	"fmt"
	"os"

	"github.com/viant/divinity/genai/llm"
	"github.com/viant/divinity/genai/llm/provider/mistral"
	"github.com/viant/scy/cred/secret"
)

type Factory struct {
	secrets *secret.Service
}

// CreateModel creates a new streaming language model instance
func (f *Factory) CreateModel(ctx context.Context, options *Options) (llm.StreamingModel, error) {
	if options == nil {
		return nil, fmt.Errorf("options were nil")
	}
	if options.Provider == "" {
		options.Provider = ProviderMistral
	}
	switch options.Provider {
	case ProviderMistral:
		apiKey, err := f.apiKey(ctx, options)
		if err != nil {
			return nil, err
		}
		clientOptions := []mistral.ClientOption{
			mistral.WithBaseURL(options.URL),
			mistral.WithTopP(options.TopP),
			mistral.WithTimeout(options.Timeout),
			mistral.WithRetryPolicy(options.RetryPolicy()),
			mistral.WithUsageListener(options.UsageListener),
		}
		if options.Logger.GetSink() != nil {
			clientOptions = append(clientOptions, mistral.WithLogger(options.Logger))
		}
		return mistral.NewClient(apiKey, options.Model, clientOptions...), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %v", options.Provider)
	}
}

// apiKey resolves the key from, in order: the explicit value, the secret URL,
// the configured environment variable.
func (f *Factory) apiKey(ctx context.Context, options *Options) (string, error) {
	if options.APIKey != "" {
		return options.APIKey, nil
	}
	if options.APIKeyURL != "" {
		key, err := f.secrets.GeyKey(ctx, options.APIKeyURL)
		if err != nil {
			return "", fmt.Errorf("failed to load API key from %v: %w", options.APIKeyURL, err)
		}
		return key.Secret, nil
	}
	if options.EnvKey != "" {
		return os.Getenv(options.EnvKey), nil
	}
	return "", nil
}

func New() *Factory {
	return &Factory{secrets: secret.New()}
}
