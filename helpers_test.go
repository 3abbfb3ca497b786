package hsmx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/statomat/hsmx"
)

// Event types shared across the engine test suites.
const (
	evA hsmx.EventType = "a"
	evB hsmx.EventType = "b"
	evC hsmx.EventType = "c"

	evGo      hsmx.EventType = "go"
	evStop    hsmx.EventType = "stop"
	evCleaned hsmx.EventType = "cleaned"
)

// mustScheduler builds a scheduler or fails the test.
func mustScheduler(t *testing.T, start hsmx.Node, opts ...hsmx.Option) *hsmx.Scheduler {
	t.Helper()
	sched, err := hsmx.New(start, opts...)
	require.NoError(t, err)
	return sched
}

// deliver sends one event with a background context and requires success.
func deliver(t *testing.T, sched *hsmx.Scheduler, evt hsmx.Event) {
	t.Helper()
	require.NoError(t, sched.Deliver(context.Background(), evt))
}

// requireConfigPanic runs fn and requires it to panic with a *ConfigError
// wrapping sentinel.
func requireConfigPanic(t *testing.T, sentinel error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a configuration panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		var cfgErr *hsmx.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		require.ErrorIs(t, err, sentinel)
	}()
	fn()
}

// recordHandler appends tag to out when invoked.
func recordHandler(out *[]string, tag string) hsmx.Handler {
	return func(context.Context, hsmx.Event) error {
		*out = append(*out, tag)
		return nil
	}
}

// recordAction appends tag to out when invoked.
func recordAction(out *[]string, tag string) hsmx.Action {
	return func(context.Context) error {
		*out = append(*out, tag)
		return nil
	}
}
