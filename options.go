package hsmx

import "github.com/statomat/hsmx/pkg/log"

// Option applies configuration to a Scheduler via functional options.
type Option func(*Scheduler)

// WithQueue replaces the default unbounded FIFO queue with a custom
// collaborator, e.g. NewBoundedQueue for backpressure.
func WithQueue(q Queue) Option {
	return func(s *Scheduler) {
		s.queue = q
	}
}

// WithLogger injects the logger used for delivery and transition tracing.
// The default discards everything.
func WithLogger(logger log.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}
