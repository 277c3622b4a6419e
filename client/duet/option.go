package duet

import "github.com/go-logr/logr"

// Option customizes the orchestrator.
type Option func(o *Orchestrator)

// WithLogger sets the logger used for failed turns.
func WithLogger(logger logr.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithListener sets a callback invoked after every state change. It runs
// without the orchestrator lock held, so it may read state back.
func WithListener(fn func()) Option {
	return func(o *Orchestrator) {
		o.listener = fn
	}
}
