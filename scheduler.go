package hsmx

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/statomat/hsmx/pkg/log"
)

// Scheduler owns the active-state pointer and the pending-event queue, and
// enforces run-to-completion: one event is fully processed, including any
// cascade of transitions, before the next begins.
//
// Any number of goroutines may call Deliver concurrently. Exactly one of
// them holds the execution claim and drains the queue at a time; the others
// enqueue and return immediately.
type Scheduler struct {
	queue   Queue
	logger  log.Logger
	running atomic.Bool

	mu      sync.RWMutex
	current Node
}

// New creates a scheduler resting at start and runs the start node's entry
// action immediately — for a substate machine start node this enters the
// initial child chain before any event can arrive.
func New(start Node, opts ...Option) (*Scheduler, error) {
	if start == nil {
		return nil, ErrNilStartState
	}

	s := &Scheduler{
		queue:   NewQueue(),
		logger:  log.NewNop(),
		current: start,
	}
	for _, opt := range opts {
		opt(s)
	}

	ctx := log.IntoContext(context.Background(), s.logger)
	if err := start.enter(ctx); err != nil {
		return nil, fmt.Errorf("enter start state %q: %w", start.Name(), err)
	}
	return s, nil
}

// Current returns the active state. Only settled resting states are ever
// observable: the pointer is updated after a delivered event's cascade has
// fully resolved, never mid-cascade.
func (s *Scheduler) Current() Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Scheduler) setCurrent(n Node) {
	s.mu.Lock()
	s.current = n
	s.mu.Unlock()
}

// Deliver appends evt to the queue and, if no other goroutine is draining,
// claims execution and processes events until the queue is empty. When the
// claim is already held the event is left for the owning goroutine — which
// is guaranteed to process it before its drain session ends — and Deliver
// returns immediately. Handlers may call Deliver re-entrantly; the event
// joins the same drain session without recursion.
//
// A handler, action or guard-side error stops the drain and is returned on
// the draining goroutine; remaining events stay queued for the next
// delivery. Context cancellation between events likewise stops the drain
// and returns ctx.Err(). The execution claim is released on every exit
// path.
func (s *Scheduler) Deliver(ctx context.Context, evt Event) error {
	if err := s.queue.Enqueue(evt); err != nil {
		return fmt.Errorf("enqueue %q: %w", evt.Type, err)
	}

	if !s.running.CompareAndSwap(false, true) {
		s.logger.Trace("queued event for later delivery", log.String("event", string(evt.Type)))
		return nil
	}

	ctx = log.IntoContext(ctx, s.logger)
	for {
		if err := s.drain(ctx); err != nil {
			return err
		}
		if s.queue.Len() == 0 {
			return nil
		}
		// An event landed between the final emptiness check and the claim
		// release. Re-claim and keep draining unless a newer producer beat
		// us to it.
		if !s.running.CompareAndSwap(false, true) {
			return nil
		}
	}
}

// drain processes queued events until the queue is empty or ctx is
// cancelled. The execution claim is released on return, including when a
// callback panics.
func (s *Scheduler) drain(ctx context.Context) error {
	defer s.running.Store(false)

	for {
		if err := ctx.Err(); err != nil {
			s.logger.Debug("drain interrupted", log.Err(err))
			return err
		}

		evt, ok := s.queue.Dequeue()
		if !ok {
			return nil
		}

		cur := s.Current()
		s.logger.Trace("delivering event",
			log.String("event", string(evt.Type)),
			log.String("state", cur.Name()))

		next, err := cur.handleEvent(ctx, evt)
		s.setCurrent(next)
		if err != nil {
			return fmt.Errorf("event %q in state %q: %w", evt.Type, cur.Name(), err)
		}
	}
}
