package pool

import (
	"sync"
	"sync/atomic"
)

// compactThreshold is the number of consumed slots at the head of the queue
// after which the backing slice is shifted down.
const compactThreshold = 1024

// taskQueue is an unbounded FIFO of closures shared by every worker of a pool.
//
// Producers push under mu and post a token on notifyC. A consumer that pops an
// item while more remain posts the token again, so a burst of submissions
// wakes idle workers one after another instead of leaving them parked.
type taskQueue struct {
	mu    sync.Mutex
	items []func()
	head  int

	closed atomic.Bool

	// Notification channel for data (BUFFERED, NEVER CLOSED)
	notifyC chan struct{}
}

func newTaskQueue() *taskQueue {
	return &taskQueue{
		notifyC: make(chan struct{}, 1),
	}
}

// push appends a task. The closed check happens under the same lock as close,
// so a task accepted here is never silently stranded by a concurrent close.
func (q *taskQueue) push(task func()) error {
	q.mu.Lock()
	if q.closed.Load() {
		q.mu.Unlock()
		return ErrPoolClosed
	}
	q.items = append(q.items, task)
	q.mu.Unlock()

	q.signal()
	return nil
}

// pop removes the oldest task. The second result is false when the queue is empty.
func (q *taskQueue) pop() (func(), bool) {
	q.mu.Lock()
	if q.head == len(q.items) {
		q.mu.Unlock()
		return nil, false
	}

	task := q.items[q.head]
	q.items[q.head] = nil
	q.head++

	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= compactThreshold && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	more := q.head < len(q.items)
	q.mu.Unlock()

	if more {
		q.signal()
	}
	return task, true
}

// close marks the queue closed and discards everything still pending.
// It reports the number of discarded tasks and false if the queue was
// already closed.
func (q *taskQueue) close() (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed.Load() {
		return 0, false
	}
	q.closed.Store(true)

	dropped := len(q.items) - q.head
	clear(q.items)
	q.items = nil
	q.head = 0
	return dropped, true
}

func (q *taskQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

func (q *taskQueue) isClosed() bool {
	return q.closed.Load()
}

func (q *taskQueue) signal() {
	select {
	case q.notifyC <- struct{}{}:
	default:
	}
}
