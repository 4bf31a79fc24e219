package pool

import (
	"golang.org/x/time/rate"
)

// Option is a functional option for configuring a Pool.
type Option func(*config)

type config struct {
	rateLimiter     *rate.Limiter
	pinWorkers      bool
	beforeTaskStart func(workerID int)
	onTaskEnd       func(workerID int, panicked bool)
}

// WithRateLimit sets a rate limiter for controlling task throughput.
// tasksPerSecond specifies the maximum number of tasks started per second
// across all workers, burst the number that may start back to back.
// If not specified, no rate limiting is applied.
//
// Example:
//
//	WithRateLimit(10, 5) // Allow 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *config) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithCPUAffinity locks every worker goroutine to its own OS thread and pins
// that thread to core workerID % NumCPU where the platform supports it.
// Only worth enabling for CPU bound chunks with at most one worker per core.
func WithCPUAffinity() Option {
	return func(cfg *config) {
		cfg.pinWorkers = true
	}
}

// WithBeforeTaskStart registers a hook called by a worker right before it runs a task.
// The hook runs on the worker goroutine and must not block.
func WithBeforeTaskStart(fn func(workerID int)) Option {
	return func(cfg *config) {
		cfg.beforeTaskStart = fn
	}
}

// WithOnTaskEnd registers a hook called by a worker after a task returns or panics.
func WithOnTaskEnd(fn func(workerID int, panicked bool)) Option {
	return func(cfg *config) {
		cfg.onTaskEnd = fn
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
