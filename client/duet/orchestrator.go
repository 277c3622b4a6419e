// Package duet sends each user turn to two personas at once and keeps their
// streamed replies side by side.
package duet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/viant/divinity/genai/llm"
	"github.com/viant/divinity/genai/persona"
	"github.com/viant/divinity/genai/streaming"
	"github.com/viant/divinity/genai/transcript"
	"golang.org/x/sync/errgroup"
)

// ErrBusy is returned when a turn is submitted while another is in flight.
var ErrBusy = errors.New("a turn is already in flight")

// Opener opens one reply stream for a conversation.
type Opener interface {
	Open(ctx context.Context, messages llm.Messages) (io.ReadCloser, error)
}

// Orchestrator owns the shared user history and both persona histories.
type Orchestrator struct {
	relay    Opener
	logger   logr.Logger
	listener func()

	mu      sync.Mutex
	pair    persona.Pair
	users   []llm.Message
	a       *transcript.History
	b       *transcript.History
	loading bool
}

// New creates an orchestrator for the given pair.
func New(relay Opener, pair persona.Pair, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		relay:  relay,
		logger: logr.Discard(),
		pair:   pair,
		a:      transcript.NewHistory(pair.A.Directive),
		b:      transcript.NewHistory(pair.B.Directive),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Submit runs one turn: it requests both personas concurrently and streams
// their replies into the histories. It returns once both replies are terminal,
// with the joined per-persona failures.
func (o *Orchestrator) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	o.mu.Lock()
	if o.loading {
		o.mu.Unlock()
		return ErrBusy
	}
	pair := o.pair
	o.users = append(o.users, llm.NewUserMessage(text))
	convA := transcript.Conversation(o.a.Messages(), o.users)
	convB := transcript.Conversation(o.b.Messages(), o.users)
	o.a.Begin()
	o.b.Begin()
	o.loading = true
	o.mu.Unlock()
	o.notify()

	bodyA, bodyB, err := o.open(ctx, pair, convA, convB)
	if err != nil {
		o.mu.Lock()
		o.a.Fail(err)
		o.b.Fail(err)
		o.loading = false
		o.mu.Unlock()
		o.notify()
		o.logger.Error(err, "failed to start turn", "pair", pair.ID)
		return err
	}

	var errA, errB error
	wg := sync.WaitGroup{}
	wg.Go(func() { errA = o.drain(bodyA, o.a) })
	wg.Go(func() { errB = o.drain(bodyB, o.b) })
	wg.Wait()

	o.mu.Lock()
	o.loading = false
	o.mu.Unlock()
	o.notify()

	if errA != nil {
		errA = fmt.Errorf("%v: %w", pair.A.ID, errA)
		o.logger.Error(errA, "persona reply failed", "persona", pair.A.ID)
	}
	if errB != nil {
		errB = fmt.Errorf("%v: %w", pair.B.ID, errB)
		o.logger.Error(errB, "persona reply failed", "persona", pair.B.ID)
	}
	return errors.Join(errA, errB)
}

// open starts both requests. If either fails, any opened body is closed.
func (o *Orchestrator) open(ctx context.Context, pair persona.Pair, convA, convB llm.Messages) (io.ReadCloser, io.ReadCloser, error) {
	var bodyA, bodyB io.ReadCloser
	g := errgroup.Group{}
	g.Go(func() (err error) {
		if bodyA, err = o.relay.Open(ctx, convA); err != nil {
			return fmt.Errorf("%v: %w", pair.A.ID, err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if bodyB, err = o.relay.Open(ctx, convB); err != nil {
			return fmt.Errorf("%v: %w", pair.B.ID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		for _, body := range []io.ReadCloser{bodyA, bodyB} {
			if body != nil {
				_ = body.Close()
			}
		}
		return nil, nil, err
	}
	return bodyA, bodyB, nil
}

func (o *Orchestrator) drain(body io.ReadCloser, history *transcript.History) error {
	defer body.Close()
	err := streaming.Drain(body, func(msg llm.Message) {
		o.mu.Lock()
		history.Replace(msg.Content)
		o.mu.Unlock()
		o.notify()
	})
	o.mu.Lock()
	if err != nil {
		history.Fail(err)
	} else {
		history.Complete()
	}
	o.mu.Unlock()
	return err
}

// SetPair switches personas. Only the leading system entries change; past
// replies and the user history are kept.
func (o *Orchestrator) SetPair(pair persona.Pair) {
	o.mu.Lock()
	o.pair = pair
	o.a.SetSystem(pair.A.SystemMessage())
	o.b.SetSystem(pair.B.SystemMessage())
	o.mu.Unlock()
	o.notify()
}

// Pair returns the active pair.
func (o *Orchestrator) Pair() persona.Pair {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pair
}

// Transcript returns the merged three-way view.
func (o *Orchestrator) Transcript() transcript.Transcript {
	o.mu.Lock()
	defer o.mu.Unlock()
	return transcript.Merge(o.users, o.a.Messages(), o.b.Messages())
}

// Histories returns copies of both persona histories.
func (o *Orchestrator) Histories() (a, b *transcript.History) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.a.Clone(), o.b.Clone()
}

// Users returns a copy of the user history.
func (o *Orchestrator) Users() []llm.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]llm.Message(nil), o.users...)
}

// Loading reports whether a turn is in flight.
func (o *Orchestrator) Loading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loading
}

func (o *Orchestrator) notify() {
	if o.listener != nil {
		o.listener()
	}
}
