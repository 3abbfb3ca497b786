// Package testutil provides test doubles shared by the engine's test
// suites: invocation probes usable as guards, handlers and actions, and a
// recording logger for asserting on emitted trace events.
package testutil

import (
	"context"
	"sync"

	"github.com/statomat/hsmx"
)

// Probe counts invocations and doubles as a guard, handler, and entry/exit
// action. As a guard it returns its Pass value. Safe for concurrent use.
type Probe struct {
	mu   sync.Mutex
	hits int
	pass bool
}

// NewProbe returns a probe whose guard rejects until SetPass(true).
func NewProbe() *Probe {
	return &Probe{}
}

// Guard returns a hsmx.Guard that records a hit and returns the probe's
// pass flag.
func (p *Probe) Guard() hsmx.Guard {
	return func(hsmx.Event) bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.hits++
		return p.pass
	}
}

// Handler returns a hsmx.Handler that records a hit and succeeds.
func (p *Probe) Handler() hsmx.Handler {
	return func(context.Context, hsmx.Event) error {
		p.touch()
		return nil
	}
}

// Action returns a hsmx.Action that records a hit and succeeds.
func (p *Probe) Action() hsmx.Action {
	return func(context.Context) error {
		p.touch()
		return nil
	}
}

func (p *Probe) touch() {
	p.mu.Lock()
	p.hits++
	p.mu.Unlock()
}

// SetPass sets the value the probe's guard returns.
func (p *Probe) SetPass(pass bool) {
	p.mu.Lock()
	p.pass = pass
	p.mu.Unlock()
}

// Hit reports whether the probe was invoked at least once.
func (p *Probe) Hit() bool {
	return p.Hits() > 0
}

// Hits returns the invocation count.
func (p *Probe) Hits() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hits
}

// Reset clears the invocation count, keeping the pass flag.
func (p *Probe) Reset() {
	p.mu.Lock()
	p.hits = 0
	p.mu.Unlock()
}
