package pool

import (
	"context"
	"fmt"
	"sync"
)

// Map applies f to every element of args on the pool's workers and returns
// the results in input order, regardless of the order in which tasks finish.
//
// Map blocks until every task has completed. Failures do not stop the other
// tasks: they are collected and, after the barrier, returned as a single
// *GroupError whose entries are *TaskError values. A panic inside f is
// recovered and recorded as a *PanicError. On any failure no results are
// returned.
//
// Parameters:
//   - ctx: Bounds the wait only; tasks already queued still run
//   - p: The pool to run on; it may be shared with other Map calls
//   - f: Function applied to each element
//   - args: Inputs; an empty slice returns immediately without using the pool
//
// Returns:
//   - results: f(args[i]) at index i
//   - error: ErrPoolClosed if submission failed, a *GroupError if any task
//     failed (including tasks cut short by Close), or ErrInterrupted wrapping
//     the context's cause
//
// Example:
//
//	lengths, err := pool.Map(ctx, p, func(s string) (int, error) {
//	    return len(s), nil
//	}, []string{"a", "bb", "ccc"})
//	// lengths: []int{1, 2, 3}
func Map[T, R any](
	ctx context.Context,
	p *Pool,
	f func(T) (R, error),
	args []T,
) ([]R, error) {
	if len(args) == 0 {
		return []R{}, nil
	}
	if f == nil {
		return nil, fmt.Errorf("%w: nil function", ErrInvalidConfiguration)
	}

	g := newTaskGroup[R](len(args))
	for i, arg := range args {
		err := p.Submit(g.task(p, i, func() (R, error) {
			return f(arg)
		}))
		if err != nil {
			return nil, fmt.Errorf("submit task %d of %d: %w", i, len(args), err)
		}
	}

	return g.wait(ctx, p)
}

// taskGroup coordinates the tasks of one Map call. Slots of results are only
// ever written by the task owning them; completion bookkeeping and failures
// share mu.
type taskGroup[R any] struct {
	results []R

	mu        sync.Mutex
	finished  []bool
	completed int
	failures  []error
	done      chan struct{}
}

func newTaskGroup[R any](size int) *taskGroup[R] {
	return &taskGroup[R]{
		results:  make([]R, size),
		finished: make([]bool, size),
		done:     make(chan struct{}),
	}
}

// task builds the closure submitted for slot i. The pool is checked before the
// call and again before publishing so that work racing with Close reports
// ErrPoolClosed rather than a result the caller can no longer trust.
func (g *taskGroup[R]) task(p *Pool, i int, call func() (R, error)) func() {
	return func() {
		if p.Closed() {
			g.fail(i, ErrPoolClosed)
			return
		}

		result, err := invoke(call)

		if p.Closed() {
			g.fail(i, ErrPoolClosed)
			return
		}
		if err != nil {
			g.fail(i, err)
			return
		}

		g.results[i] = result
		g.mu.Lock()
		g.finish(i)
		g.mu.Unlock()
	}
}

func (g *taskGroup[R]) fail(i int, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.finished[i] {
		return
	}
	g.failures = append(g.failures, &TaskError{Index: i, Err: err})
	g.finish(i)
}

// finish marks slot i complete and releases the waiter on the last one.
// Callers hold mu.
func (g *taskGroup[R]) finish(i int) {
	if g.finished[i] {
		return
	}
	g.finished[i] = true
	g.completed++
	if g.completed == len(g.finished) {
		close(g.done)
	}
}

// abandon records ErrPoolClosed for every slot that has not completed.
// It must only run after the pool's workers have stopped.
func (g *taskGroup[R]) abandon() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, ok := range g.finished {
		if !ok {
			g.failures = append(g.failures, &TaskError{Index: i, Err: ErrPoolClosed})
			g.finish(i)
		}
	}
}

// wait is the barrier of a Map call.
func (g *taskGroup[R]) wait(ctx context.Context, p *Pool) ([]R, error) {
	select {
	case <-g.done:
	case <-p.closing():
		// Running tasks finish on their own; queued ones were dropped.
		select {
		case <-g.done:
		case <-p.stopped():
			g.abandon()
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrInterrupted, context.Cause(ctx))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := newGroupError(g.failures); err != nil {
		return nil, err
	}
	return g.results, nil
}

// invoke calls fn, converting a panic into a *PanicError.
func invoke[R any](fn func() (R, error)) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(r)
		}
	}()
	return fn()
}
