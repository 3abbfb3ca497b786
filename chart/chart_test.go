package chart_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statomat/hsmx"
	"github.com/statomat/hsmx/chart"
	"github.com/statomat/hsmx/testutil"
)

const sessionYAML = `
name: session
initial: init
states:
  - name: init
    transitions:
      - to: running
        on: go
  - name: running
    default: log
    transitions:
      - to: done
        on: stop
        guard: clean
      - to: aborting
        on: stop
        guard: dirty
  - name: aborting
    entry: cleanup
    transitions:
      - to: done
        on: cleaned
        action: notify
  - name: done
`

func sessionRegistry(cleanup, notify, fallback *testutil.Probe) *chart.Registry {
	clean := hsmx.Guard(func(evt hsmx.Event) bool {
		ok, is := evt.Payload.(bool)
		return is && ok
	})
	return chart.NewRegistry().
		RegisterGuard("clean", clean).
		RegisterGuard("dirty", hsmx.Not(clean)).
		RegisterAction("cleanup", cleanup.Action()).
		RegisterHandler("notify", notify.Handler()).
		RegisterHandler("log", fallback.Handler())
}

func TestBuildAndRunSessionChart(t *testing.T) {
	t.Parallel()

	cleanup, notify, fallback := testutil.NewProbe(), testutil.NewProbe(), testutil.NewProbe()

	def, err := chart.Parse([]byte(sessionYAML))
	require.NoError(t, err)
	c, err := chart.Build(def, sessionRegistry(cleanup, notify, fallback))
	require.NoError(t, err)

	assert.Equal(t, "session", c.Name())
	running, ok := c.Node("running")
	require.True(t, ok)

	sched, err := c.Scheduler()
	require.NoError(t, err)
	assert.Equal(t, c.Start(), sched.Current())

	ctx := context.Background()
	require.NoError(t, sched.Deliver(ctx, hsmx.NewEvent("go", nil)))
	assert.Equal(t, running, sched.Current())

	// Unhandled events in running reach the default handler.
	require.NoError(t, sched.Deliver(ctx, hsmx.NewEvent("ping", nil)))
	assert.Equal(t, 1, fallback.Hits())

	require.NoError(t, sched.Deliver(ctx, hsmx.NewEvent("stop", false)))
	assert.Equal(t, 1, cleanup.Hits(), "entering aborting runs its entry action")

	require.NoError(t, sched.Deliver(ctx, hsmx.NewEvent("cleaned", nil)))
	done, _ := c.Node("done")
	assert.Equal(t, done, sched.Current())
	assert.Equal(t, 1, notify.Hits())
}

func TestBuildNestedComposite(t *testing.T) {
	t.Parallel()

	def, err := chart.Parse([]byte(`
name: worker
initial: active
states:
  - name: active
    initial: polling
    states:
      - name: polling
        transitions:
          - to: busy
            on: job
      - name: busy
        transitions:
          - to: polling
            on: idle
    transitions:
      - to: stopped
        on: shutdown
  - name: stopped
`))
	require.NoError(t, err)

	c, err := chart.Build(def, nil)
	require.NoError(t, err)

	active, ok := c.Node("active")
	require.True(t, ok)
	m, ok := active.(*hsmx.SubstateMachine)
	require.True(t, ok, "nested states build a composite")

	sched, err := c.Scheduler()
	require.NoError(t, err)

	ctx := context.Background()
	polling, _ := c.Node("polling")
	busy, _ := c.Node("busy")
	assert.Equal(t, polling, m.Current())

	require.NoError(t, sched.Deliver(ctx, hsmx.NewEvent("job", nil)))
	assert.Equal(t, busy, m.Current())
	assert.Equal(t, active, sched.Current())

	require.NoError(t, sched.Deliver(ctx, hsmx.NewEvent("shutdown", nil)))
	stopped, _ := c.Node("stopped")
	assert.Equal(t, stopped, sched.Current())
	assert.Nil(t, m.Current())
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sessionYAML), 0o644))

	probes := []*testutil.Probe{testutil.NewProbe(), testutil.NewProbe(), testutil.NewProbe()}
	c, err := chart.Load(path, sessionRegistry(probes[0], probes[1], probes[2]))
	require.NoError(t, err)
	assert.Equal(t, "session", c.Name())

	_, err = chart.Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := chart.Parse([]byte("states: [unclosed"))
	require.Error(t, err)
}

func TestBuildValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "no states",
			yaml: "name: empty\ninitial: a\nstates: []",
			want: chart.ErrNoStates,
		},
		{
			name: "missing chart initial",
			yaml: "name: x\nstates:\n  - name: a",
			want: chart.ErrMissingInitial,
		},
		{
			name: "unknown chart initial",
			yaml: "name: x\ninitial: ghost\nstates:\n  - name: a",
			want: chart.ErrUnknownState,
		},
		{
			name: "duplicate state name",
			yaml: "name: x\ninitial: a\nstates:\n  - name: a\n  - name: a",
			want: chart.ErrDuplicateState,
		},
		{
			name: "composite without initial",
			yaml: "name: x\ninitial: a\nstates:\n  - name: a\n    states:\n      - name: b",
			want: chart.ErrMissingInitial,
		},
		{
			name: "leaf with initial",
			yaml: "name: x\ninitial: a\nstates:\n  - name: a\n    initial: ghost",
			want: chart.ErrUnknownState,
		},
		{
			name: "transition to unknown state",
			yaml: "name: x\ninitial: a\nstates:\n  - name: a\n    transitions:\n      - to: ghost\n        on: e",
			want: chart.ErrUnknownState,
		},
		{
			name: "unguarded self loop",
			yaml: "name: x\ninitial: a\nstates:\n  - name: a\n    transitions:\n      - to: a\n        on: e",
			want: hsmx.ErrUnguardedSelfTransition,
		},
		{
			name: "unknown guard",
			yaml: "name: x\ninitial: a\nstates:\n  - name: a\n  - name: b\n    transitions:\n      - to: a\n        on: e\n        guard: ghost",
			want: chart.ErrUnknownRef,
		},
		{
			name: "unknown handler",
			yaml: "name: x\ninitial: a\nstates:\n  - name: a\n    handlers:\n      e: ghost",
			want: chart.ErrUnknownRef,
		},
		{
			name: "unknown entry action",
			yaml: "name: x\ninitial: a\nstates:\n  - name: a\n    entry: ghost",
			want: chart.ErrUnknownRef,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			def, err := chart.Parse([]byte(tc.yaml))
			require.NoError(t, err)
			_, err = chart.Build(def, chart.NewRegistry())
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRegistryNamespacesAreIndependent(t *testing.T) {
	t.Parallel()

	guard := testutil.NewProbe()
	action := testutil.NewProbe()
	reg := chart.NewRegistry().
		RegisterGuard("check", guard.Guard()).
		RegisterAction("check", action.Action())

	def, err := chart.Parse([]byte(`
name: x
initial: a
states:
  - name: a
    entry: check
    transitions:
      - to: b
        on: e
        guard: check
  - name: b
`))
	require.NoError(t, err)
	c, err := chart.Build(def, reg)
	require.NoError(t, err)

	_, err = c.Scheduler()
	require.NoError(t, err)
	assert.Equal(t, 1, action.Hits(), "entry action bound despite sharing a guard's name")
}
