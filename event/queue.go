package event

import (
	"sync"
	"sync/atomic"
)

// QueueSize is the soft capacity of the input queue
const QueueSize = 1024

// Queue is a bounded MPSC queue of input events
// Thread-Safety:
//   - Push: any goroutine (terminal poller, other modules)
//   - Consume: single consumer (main loop)
//
// Overflow: the newest droppable event is discarded and counted in Dropped.
// Non-droppable events (releases, focus, close) always get in, evicting the newest
// droppable pending event, so a key is never left held by overload.
type Queue struct {
	mu      sync.Mutex
	pending []Input
	dropped atomic.Uint64
}

func NewQueue() *Queue {
	return &Queue{pending: make([]Input, 0, QueueSize)}
}

// Push appends ev, applying the overflow policy when full
func (q *Queue) Push(ev Input) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) < QueueSize {
		q.pending = append(q.pending, ev)
		return
	}
	if ev.Type.Droppable() {
		q.dropped.Add(1)
		return
	}

	for i := len(q.pending) - 1; i >= 0; i-- {
		if q.pending[i].Type.Droppable() {
			copy(q.pending[i:], q.pending[i+1:])
			q.pending[len(q.pending)-1] = ev
			q.dropped.Add(1)
			return
		}
	}
	// Only undroppable events pending: grow past the soft capacity
	q.pending = append(q.pending, ev)
}

// Consume returns all pending events in FIFO order, nil when empty
func (q *Queue) Consume() []Input {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = make([]Input, 0, QueueSize)
	return out
}

// Len returns the pending event count
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Dropped returns the number of events lost to overflow
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
