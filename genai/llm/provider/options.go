package provider

import (
	"time"

	"github.com/go-logr/logr"
	basecfg "github.com/viant/divinity/genai/llm/provider/base"
)

type Options struct {
	Model         string                `yaml:"model,omitempty" json:"model,omitempty"`
	Provider      string                `yaml:"provider,omitempty" json:"provider,omitempty"`
	APIKey        string                `yaml:"-" json:"-"`
	APIKeyURL     string                `yaml:"apiKeyURL,omitempty" json:"APIKeyURL,omitempty"`
	EnvKey        string                `yaml:"envKey,omitempty" json:"envKey,omitempty"` // environment variable key to use for API key
	URL           string                `yaml:"url,omitempty" json:"url,omitempty"`
	TopP          float64               `yaml:"topP,omitempty" json:"topP,omitempty"`
	Timeout       time.Duration         `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	MaxRetries    *int                  `yaml:"maxRetries,omitempty" json:"maxRetries,omitempty"`
	RetryDelay    time.Duration         `yaml:"retryDelay,omitempty" json:"retryDelay,omitempty"`
	UsageListener basecfg.UsageListener `yaml:"-" json:"-"`
	Logger        logr.Logger           `yaml:"-" json:"-"`
}

// RetryPolicy returns the default policy adjusted by the configured overrides.
func (o *Options) RetryPolicy() basecfg.RetryPolicy {
	policy := basecfg.DefaultRetryPolicy()
	if o.MaxRetries != nil && *o.MaxRetries >= 0 {
		policy.MaxRetries = *o.MaxRetries
	}
	if o.RetryDelay > 0 {
		policy.Delay = o.RetryDelay
	}
	return policy
}
