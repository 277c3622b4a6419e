package divinity

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/viant/divinity/client/duet"
	"github.com/viant/divinity/client/relay"
	"github.com/viant/divinity/client/tui"
)

// relayOptions are shared by chat and ask.
type relayOptions struct {
	URL      string        `short:"u" long:"url" description:"relay base URL" default:"http://localhost:8080"`
	Pair     string        `short:"p" long:"pair" description:"persona pair id" default:"good-evil"`
	Personas string        `long:"personas" description:"persona catalog URL (file, gs://, s3://)"`
	Timeout  time.Duration `long:"timeout" description:"per reply stream timeout, 0 disables"`
}

func (o *relayOptions) relay() *relay.Client {
	var opts []relay.Option
	if o.Timeout > 0 {
		opts = append(opts, relay.WithTimeout(o.Timeout))
	}
	opts = append(opts, relay.WithHeader("User-Agent", "divinity/"+Version()))
	return relay.New(o.URL, opts...)
}

// ChatCmd runs the interactive terminal chat.
type ChatCmd struct {
	relayOptions
	LogFile string `long:"log" description:"write logs to this file; the screen is owned by the UI"`
}

func (c *ChatCmd) Execute(_ []string) error {
	if err := loadEnv(); err != nil {
		return err
	}
	ctx := context.Background()
	catalog, pair, err := resolvePair(ctx, c.Personas, c.Pair)
	if err != nil {
		return err
	}

	logger := logr.Discard()
	if c.LogFile != "" {
		file, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer file.Close()
		logger = newLogger(file)
	}

	notifier := tui.NewNotifier()
	orchestrator := duet.New(c.relay(), pair,
		duet.WithLogger(logger.WithName("duet")),
		duet.WithListener(notifier.Notify))
	model := tui.New(orchestrator, catalog, notifier,
		tui.WithLogger(logger.WithName("tui")),
		tui.WithContext(ctx))
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("chat ui failed: %w", err)
	}
	return nil
}
