// Package pool provides a fixed-size worker pool with a shared, unbounded
// task queue, and Map, an ordered fan-out/fan-in over that pool.
//
// The primary type is Pool, a set of worker goroutines created up front which
// run submitted closures until the pool is closed. Map builds one task per
// input element, submits them as a group, blocks until all of them have
// completed and returns the results in input order.
//
// # Basic Usage
//
//	p, err := pool.New(4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	doubled, err := pool.Map(ctx, p, func(n int) (int, error) {
//	    return n * 2, nil
//	}, []int{1, 2, 3, 4})
//	// doubled: []int{2, 4, 6, 8}
//
// # Raw Submission
//
// Submit enqueues a closure without any result tracking:
//
//	if err := p.Submit(func() { flush(buf) }); errors.Is(err, pool.ErrPoolClosed) {
//	    // the closure will never run
//	}
//
// # Shutdown
//
// Close may be called once; later calls return ErrPoolClosed. It drops the
// tasks still waiting in the queue, lets running tasks finish and joins the
// workers. Map calls in flight are released: every task that did not finish
// is reported as ErrPoolClosed.
//
// # Error Handling
//
// A Map call never stops early on a failing task. All failures are collected
// and returned after the barrier as one *GroupError; each entry is a
// *TaskError naming the input index. Panics are recovered and reported as
// *PanicError, so a misbehaving function never takes a worker down.
// Cancelling the context passed to Map abandons the wait with ErrInterrupted.
//
// # Configuration Options
//
//   - WithRateLimit(tasksPerSecond, burst): Throttle task starts across workers
//   - WithCPUAffinity(): Pin each worker to an OS thread and CPU core
//   - WithBeforeTaskStart(fn), WithOnTaskEnd(fn): Per-task worker hooks
//
// Build with -tags debug to log worker lifecycle and recovered panics to stderr.
package pool
