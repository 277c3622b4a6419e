package divinity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/gops/agent"
	adapterhttp "github.com/viant/divinity/adapter/http"
	"github.com/viant/divinity/genai/llm"
	"github.com/viant/divinity/genai/llm/provider"
	"github.com/viant/divinity/genai/llm/provider/mistral"
	"github.com/viant/divinity/genai/usage"
)

// ServeCmd starts the chat relay server.
// Usage: divinity serve --addr :8080
type ServeCmd struct {
	Addr       string        `short:"a" long:"addr" description:"listen address" default:":8080"`
	Model      string        `short:"m" long:"model" description:"upstream model" default:"mistral-medium-latest"`
	BaseURL    string        `long:"base-url" description:"upstream API base URL"`
	TopP       float64       `long:"top-p" description:"nucleus sampling" default:"0.6"`
	MaxRetries int           `long:"max-retries" description:"retries after a rate limited connect" default:"5"`
	RetryDelay time.Duration `long:"retry-delay" description:"wait between retries" default:"1.1s"`
	APIKeyURL  string        `long:"api-key-url" description:"scy secret URL holding the API key"`
	Gops       bool          `long:"gops" description:"start the gops diagnostics agent"`
}

func (s *ServeCmd) Execute(_ []string) error {
	if err := loadEnv(); err != nil {
		return err
	}
	logger := newLogger(os.Stderr)
	if s.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			return fmt.Errorf("failed to start gops agent: %w", err)
		}
		defer agent.Close()
	}

	ctx := context.Background()
	agg := &usage.Aggregator{}
	model, err := provider.New().CreateModel(ctx, s.providerOptions(logger, agg))
	if err != nil {
		return err
	}
	if os.Getenv(mistral.APIKeyEnv) == "" && s.APIKeyURL == "" {
		logger.Info("no API key configured; upstream calls will be unauthorized", "env", mistral.APIKeyEnv)
	}

	handler := adapterhttp.NewServer(model,
		adapterhttp.WithLogger(logger.WithName("relay")),
		adapterhttp.WithUsage(agg),
		adapterhttp.WithOptions(&llm.Options{Model: s.Model, TopP: s.TopP}))
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("relay listening", "addr", s.Addr, "model", s.Model)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("initiating graceful shutdown", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	case err := <-errCh:
		return err
	}
}

func (s *ServeCmd) providerOptions(logger logr.Logger, agg *usage.Aggregator) *provider.Options {
	maxRetries := s.MaxRetries
	return &provider.Options{
		Provider:   provider.ProviderMistral,
		Model:      s.Model,
		APIKeyURL:  s.APIKeyURL,
		EnvKey:     mistral.APIKeyEnv,
		URL:        s.BaseURL,
		TopP:       s.TopP,
		MaxRetries: &maxRetries,
		RetryDelay: s.RetryDelay,
		Logger:     logger.WithName("mistral"),
		UsageListener: func(model string, u *llm.Usage) {
			agg.OnUsage(model, u)
			logger.V(1).Info("token usage", "model", model, "prompt", u.PromptTokens, "completion", u.CompletionTokens)
		},
	}
}
