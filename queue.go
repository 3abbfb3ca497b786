package hsmx

import "sync"

// Queue buffers pending events between producers and the single draining
// goroutine. Implementations must be safe for concurrent Enqueue from many
// goroutines with one concurrent Dequeue consumer, and must preserve FIFO
// order for events enqueued by a single producer.
//
// A custom Queue can be injected via WithQueue to impose a capacity or
// fairness policy; Enqueue errors surface unchanged from Deliver.
type Queue interface {
	// Enqueue appends an event at the tail.
	Enqueue(evt Event) error

	// Dequeue removes and returns the head event, reporting false when the
	// queue is empty.
	Dequeue() (Event, bool)

	// Len returns the number of pending events.
	Len() int
}

// fifoQueue is the default unbounded FIFO queue.
type fifoQueue struct {
	mu     sync.Mutex
	events []Event
}

// NewQueue returns an unbounded FIFO queue.
func NewQueue() Queue {
	return &fifoQueue{}
}

func (q *fifoQueue) Enqueue(evt Event) error {
	q.mu.Lock()
	q.events = append(q.events, evt)
	q.mu.Unlock()
	return nil
}

func (q *fifoQueue) Dequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return Event{}, false
	}
	evt := q.events[0]
	q.events = q.events[1:]
	if len(q.events) == 0 {
		q.events = nil // let the drained backing array go
	}
	return evt, true
}

func (q *fifoQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// boundedQueue rejects enqueues beyond a fixed capacity with ErrQueueFull.
type boundedQueue struct {
	mu       sync.Mutex
	events   []Event
	capacity int
}

// NewBoundedQueue returns a FIFO queue holding at most capacity events.
// Enqueue returns ErrQueueFull when the queue is at capacity; queued events
// are never dropped or reordered.
func NewBoundedQueue(capacity int) Queue {
	return &boundedQueue{capacity: capacity}
}

func (q *boundedQueue) Enqueue(evt Event) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) >= q.capacity {
		return ErrQueueFull
	}
	q.events = append(q.events, evt)
	return nil
}

func (q *boundedQueue) Dequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return Event{}, false
	}
	evt := q.events[0]
	q.events = q.events[1:]
	if len(q.events) == 0 {
		q.events = nil
	}
	return evt, true
}

func (q *boundedQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
