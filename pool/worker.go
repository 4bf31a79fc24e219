package pool

import (
	"github.com/utkarsh5026/iterpool/internal/cpu"
)

// worker is the loop run by each pool goroutine. It pops and runs tasks until
// the pool closes. A panicking task is recovered in execute so the loop only
// ever ends through Close.
func (p *Pool) worker(id int) error {
	if p.conf.pinWorkers {
		defer cpu.SetupWorkerAffinity(id)()
	}

	debugLog("worker %d started", id)
	defer debugLog("worker %d stopped", id)

	for {
		task, ok := p.queue.pop()
		if !ok {
			select {
			case <-p.queue.notifyC:
				continue
			case <-p.closeC:
				return nil
			}
		}

		if p.conf.rateLimiter != nil {
			// Wait only fails once the pool is closing. The task still runs so
			// that its owner is told about the shutdown instead of waiting forever.
			_ = p.conf.rateLimiter.Wait(p.ctx)
		}

		p.execute(id, task)
	}
}

// execute runs a single task with panic recovery and bookkeeping.
func (p *Pool) execute(id int, task func()) {
	p.inFlight.Add(1)
	if p.conf.beforeTaskStart != nil {
		p.conf.beforeTaskStart(id)
	}

	panicked := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicked = true
				debugLog("worker %d recovered: %v", id, newPanicError(r))
			}
		}()
		task()
	}()

	if panicked {
		p.panicked.Add(1)
	}
	p.inFlight.Add(-1)
	p.completed.Add(1)

	if p.conf.onTaskEnd != nil {
		p.conf.onTaskEnd(id, panicked)
	}
}
