// Package backoff computes delays between attempts of an operation that is
// retried, such as dialing the benchmark history database.
package backoff

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// maxShift keeps 1<<attempt from overflowing int64.
const maxShift = 62

// Kind selects the delay algorithm returned by New.
type Kind int

const (
	// Exponential doubles the delay on every attempt.
	Exponential Kind = iota
	// Jittered is Exponential with each delay scaled by a random factor in
	// [1-jitter, 1+jitter].
	Jittered
	// DecorrelatedJitter picks each delay uniformly between the initial delay
	// and three times the previous one.
	DecorrelatedJitter
)

func (k Kind) String() string {
	switch k {
	case Exponential:
		return "exponential"
	case Jittered:
		return "jittered"
	case DecorrelatedJitter:
		return "decorrelated"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps the names accepted in configuration files to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "exponential":
		return Exponential, nil
	case "jittered":
		return Jittered, nil
	case "decorrelated":
		return DecorrelatedJitter, nil
	}
	return 0, fmt.Errorf("unknown backoff kind %q", s)
}

// Strategy yields the delay to sleep before retry number attempt (0 based).
// Implementations are safe for concurrent use.
type Strategy interface {
	NextDelay(attempt int) time.Duration
	// Reset forgets state carried between attempts.
	Reset()
}

// New builds a Strategy. Every delay it returns lies in [0, maxDelay].
// jitter is only used by Jittered and is clamped to [0, 1].
func New(kind Kind, initial, maxDelay time.Duration, jitter float64) Strategy {
	switch kind {
	case Jittered:
		return &jittered{
			initial: initial,
			max:     maxDelay,
			factor:  clamp(jitter, 0, 1),
			rng:     newRand(),
		}
	case DecorrelatedJitter:
		return &decorrelated{
			initial: initial,
			max:     maxDelay,
			prev:    initial,
			rng:     newRand(),
		}
	default:
		return &exponential{initial: initial, max: maxDelay}
	}
}

// Retry calls fn up to attempts times, sleeping s.NextDelay between failures.
// It returns nil on the first success, the context's error if ctx ends while
// sleeping, and otherwise the last error of fn.
func Retry(ctx context.Context, attempts int, s Strategy, fn func(context.Context) error) error {
	if attempts <= 0 {
		attempts = 1
	}
	s.Reset()

	var err error
	for attempt := range attempts {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}

		timer := time.NewTimer(s.NextDelay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted after %d attempts: %w", attempt+1, context.Cause(ctx))
		case <-timer.C:
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", attempts, err)
}

type exponential struct {
	initial, max time.Duration
}

func (e *exponential) NextDelay(attempt int) time.Duration {
	return exponentialDelay(attempt, e.initial, e.max)
}

func (e *exponential) Reset() {}

type jittered struct {
	initial, max time.Duration
	factor       float64

	mu  sync.Mutex
	rng *rand.Rand
}

func (j *jittered) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		return 0
	}
	base := exponentialDelay(attempt, j.initial, j.max)

	j.mu.Lock()
	scale := 1 + (j.rng.Float64()*2-1)*j.factor
	j.mu.Unlock()

	return clamp(time.Duration(float64(base)*scale), 0, j.max)
}

func (j *jittered) Reset() {}

// decorrelated follows "sleep = min(max, random(initial, prev*3))"; the delay
// depends on the previous one rather than on the attempt number.
type decorrelated struct {
	initial, max time.Duration

	mu   sync.Mutex
	prev time.Duration
	rng  *rand.Rand
}

func (d *decorrelated) NextDelay(attempt int) time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	if attempt <= 0 {
		d.prev = d.initial
		return clamp(d.initial, 0, d.max)
	}

	upper := min(3*d.prev, d.max)
	span := upper - d.initial
	if span <= 0 {
		d.prev = d.initial
		return clamp(d.initial, 0, d.max)
	}

	d.prev = d.initial + time.Duration(d.rng.Int63n(int64(span)))
	return d.prev
}

func (d *decorrelated) Reset() {
	d.mu.Lock()
	d.prev = d.initial
	d.mu.Unlock()
}

func exponentialDelay(attempt int, initial, maxDelay time.Duration) time.Duration {
	if attempt < 0 {
		return 0
	}
	if attempt > maxShift {
		return maxDelay
	}

	delay := time.Duration(int64(1)<<uint(attempt)) * initial
	if delay > maxDelay || delay < 0 {
		return maxDelay
	}
	return delay
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- jitter does not need crypto rand
}

func clamp[T int64 | float64 | time.Duration](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
