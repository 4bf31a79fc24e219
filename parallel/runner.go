package parallel

import (
	"context"
	"errors"
	"fmt"

	"github.com/utkarsh5026/iterpool/internal/chunk"
	"github.com/utkarsh5026/iterpool/pool"
)

// DefaultThreads is the worker count used by NewDefault.
const DefaultThreads = 32

// ErrEmptyInput is returned by the extremum algorithms on an empty slice.
var ErrEmptyInput = errors.New("empty input")

// Runner executes the algorithms of this package on a pool.
type Runner struct {
	pool  *pool.Pool
	owned bool
}

// New returns a Runner on an existing pool. The pool stays owned by the
// caller: Runner.Close leaves it running.
func New(p *pool.Pool) *Runner {
	return &Runner{pool: p}
}

// NewWithThreads creates a Runner with its own pool of threads workers.
func NewWithThreads(threads int, opts ...pool.Option) (*Runner, error) {
	p, err := pool.New(threads, opts...)
	if err != nil {
		return nil, err
	}
	return &Runner{pool: p, owned: true}, nil
}

// NewDefault creates a Runner with its own pool of DefaultThreads workers.
func NewDefault() (*Runner, error) {
	return NewWithThreads(DefaultThreads)
}

// Pool returns the pool the Runner submits to.
func (r *Runner) Pool() *pool.Pool {
	return r.pool
}

// Close closes the pool if the Runner created it.
func (r *Runner) Close() error {
	if !r.owned {
		return nil
	}
	return r.pool.Close()
}

// work is the skeleton shared by every algorithm: split items into at most
// parts chunks, run perChunk on each as one pool task, then combine the
// partial results in chunk order on the calling goroutine. An empty input
// never reaches the pool; combine is called with no partials instead.
func work[T, P, R any](
	ctx context.Context,
	r *Runner,
	parts int,
	items []T,
	perChunk func(chunk.Chunk[T]) (P, error),
	combine func([]P) (R, error),
) (R, error) {
	chunks, err := chunk.Split(parts, items)
	if err != nil {
		var zero R
		return zero, fmt.Errorf("parallel: %w", err)
	}
	if len(chunks) == 0 {
		return combine(nil)
	}

	partials, err := pool.Map(ctx, r.pool, perChunk, chunks)
	if err != nil {
		var zero R
		return zero, err
	}
	return combine(partials)
}

// concat joins chunk-local slices in chunk order.
func concat[T any](lists [][]T) []T {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	out := make([]T, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
