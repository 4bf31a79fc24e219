package pool

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Pool is a fixed-size set of worker goroutines fed by one shared, unbounded
// task queue. Tasks are plain closures; typed, ordered fan-out over a slice
// is provided on top of it by Map.
//
// A Pool is safe for concurrent use. Any number of Map calls may share one
// Pool; each gets its own task group and never observes another's results.
type Pool struct {
	conf    *config
	workers int
	queue   *taskQueue

	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group

	closeC   chan struct{} // closed when Close starts
	stoppedC chan struct{} // closed once every worker has returned

	submitted atomic.Int64
	completed atomic.Int64
	panicked  atomic.Int64
	inFlight  atomic.Int64
	dropped   atomic.Int64
}

// Stats is a point-in-time snapshot of pool activity.
type Stats struct {
	Submitted  int64 // tasks accepted by Submit
	Completed  int64 // tasks that returned or panicked
	Panicked   int64 // tasks that panicked
	InFlight   int64 // tasks currently executing
	Dropped    int64 // tasks discarded from the queue by Close
	QueueDepth int   // tasks waiting in the queue
	Workers    int   // worker count, fixed at construction
}

// New creates a pool with exactly threads workers, all started before New returns.
//
// Parameters:
//   - threads: Number of worker goroutines, must be positive
//   - opts: Functional options such as WithRateLimit or WithCPUAffinity
//
// Returns:
//   - *Pool: A running pool; call Close to stop it
//   - error: ErrInvalidConfiguration if threads <= 0
//
// Example:
//
//	p, err := pool.New(8)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	squares, err := pool.Map(ctx, p, func(n int) (int, error) {
//	    return n * n, nil
//	}, []int{1, 2, 3})
func New(threads int, opts ...Option) (*Pool, error) {
	if threads <= 0 {
		return nil, fmt.Errorf("%w: thread count must be positive, got %d", ErrInvalidConfiguration, threads)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		conf:     newConfig(opts...),
		workers:  threads,
		queue:    newTaskQueue(),
		ctx:      ctx,
		cancel:   cancel,
		closeC:   make(chan struct{}),
		stoppedC: make(chan struct{}),
	}

	for i := range threads {
		p.group.Go(func() error {
			return p.worker(i)
		})
	}

	debugLog("pool started with %d workers", threads)
	return p, nil
}

// Submit appends a task to the queue and wakes one idle worker.
// It never blocks on queue capacity.
//
// Returns ErrPoolClosed if Close has been called; the task is then not queued
// and will never run.
func (p *Pool) Submit(task func()) error {
	if task == nil {
		return fmt.Errorf("%w: nil task", ErrInvalidConfiguration)
	}
	if err := p.queue.push(task); err != nil {
		return err
	}
	p.submitted.Add(1)
	return nil
}

// Close shuts the pool down. It stops accepting tasks, discards those still
// queued, wakes every worker and every Map call waiting on this pool, and
// waits for the workers to return. A task already running is not
// interrupted; Close waits for it.
//
// Close may be called once. Every later call returns ErrPoolClosed.
func (p *Pool) Close() error {
	dropped, ok := p.queue.close()
	if !ok {
		return ErrPoolClosed
	}
	p.dropped.Add(int64(dropped))
	debugLog("pool closing, %d queued tasks dropped", dropped)

	p.cancel()
	close(p.closeC)
	err := p.group.Wait()
	close(p.stoppedC)

	debugLog("pool closed")
	return err
}

// Closed reports whether Close has been called.
func (p *Pool) Closed() bool {
	return p.queue.isClosed()
}

// Workers returns the number of workers the pool was created with.
func (p *Pool) Workers() int {
	return p.workers
}

// Stats returns a point-in-time snapshot of pool activity.
// Safe to call concurrently, including after Close.
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted:  p.submitted.Load(),
		Completed:  p.completed.Load(),
		Panicked:   p.panicked.Load(),
		InFlight:   p.inFlight.Load(),
		Dropped:    p.dropped.Load(),
		QueueDepth: p.queue.len(),
		Workers:    p.workers,
	}
}

// closing is closed as soon as Close starts.
func (p *Pool) closing() <-chan struct{} {
	return p.closeC
}

// stopped is closed once all workers have returned.
func (p *Pool) stopped() <-chan struct{} {
	return p.stoppedC
}
