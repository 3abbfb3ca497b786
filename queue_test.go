package hsmx_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statomat/hsmx"
)

func TestQueueFIFO(t *testing.T) {
	t.Parallel()

	q := hsmx.NewQueue()
	require.NoError(t, q.Enqueue(hsmx.NewEvent(evA, 1)))
	require.NoError(t, q.Enqueue(hsmx.NewEvent(evB, 2)))
	require.NoError(t, q.Enqueue(hsmx.NewEvent(evC, 3)))
	assert.Equal(t, 3, q.Len())

	for i, want := range []hsmx.EventType{evA, evB, evC} {
		evt, ok := q.Dequeue()
		require.True(t, ok)
		assert.Equal(t, want, evt.Type)
		assert.Equal(t, i+1, evt.Payload)
	}
	assert.Equal(t, 0, q.Len())
}

func TestQueueDequeueEmpty(t *testing.T) {
	t.Parallel()

	q := hsmx.NewQueue()
	_, ok := q.Dequeue()
	assert.False(t, ok)
}

func TestBoundedQueueRejectsWhenFull(t *testing.T) {
	t.Parallel()

	q := hsmx.NewBoundedQueue(2)
	require.NoError(t, q.Enqueue(hsmx.NewEvent(evA, nil)))
	require.NoError(t, q.Enqueue(hsmx.NewEvent(evB, nil)))
	assert.ErrorIs(t, q.Enqueue(hsmx.NewEvent(evC, nil)), hsmx.ErrQueueFull)

	// Draining frees capacity again.
	_, ok := q.Dequeue()
	require.True(t, ok)
	assert.NoError(t, q.Enqueue(hsmx.NewEvent(evC, nil)))
}

func TestQueueConcurrentEnqueue(t *testing.T) {
	t.Parallel()

	const n = 64
	q := hsmx.NewQueue()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = q.Enqueue(hsmx.NewEvent(hsmx.EventType(fmt.Sprint(i)), nil))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, q.Len())
	seen := make(map[hsmx.EventType]bool, n)
	for {
		evt, ok := q.Dequeue()
		if !ok {
			break
		}
		seen[evt.Type] = true
	}
	assert.Len(t, seen, n, "every enqueued event comes back exactly once")
}
