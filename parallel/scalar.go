package parallel

import (
	"context"

	"github.com/utkarsh5026/iterpool/internal/chunk"
)

// Reduce folds values with op, starting every chunk and the final combine at identity.
func Reduce[T any](ctx context.Context, r *Runner, parts int, values []T, identity T, op func(T, T) T) (T, error) {
	return MapReduce(ctx, r, parts, values, func(v T) T { return v }, identity, op)
}

// MapReduce lifts every element with lift and folds the lifted values with op.
func MapReduce[T, R any](
	ctx context.Context,
	r *Runner,
	parts int,
	values []T,
	lift func(T) R,
	identity R,
	op func(R, R) R,
) (R, error) {
	return work(ctx, r, parts, values,
		func(c chunk.Chunk[T]) (R, error) {
			acc := identity
			for _, v := range c.Items {
				acc = op(acc, lift(v))
			}
			return acc, nil
		},
		func(partials []R) (R, error) {
			acc := identity
			for _, p := range partials {
				acc = op(acc, p)
			}
			return acc, nil
		},
	)
}

// indexed pairs an element with its absolute position.
type indexed[T any] struct {
	index int
	value T
}

// ArgMax returns the index of the greatest element according to cmp, which
// must define a total order (negative, zero, positive as for cmp.Compare).
// Among equal elements the earliest index wins. Empty input fails with
// ErrEmptyInput.
func ArgMax[T any](ctx context.Context, r *Runner, parts int, values []T, cmp func(a, b T) int) (int, error) {
	best, err := extremum(ctx, r, parts, values, cmp)
	if err != nil {
		return -1, err
	}
	return best.index, nil
}

// ArgMin returns the index of the least element according to cmp, earliest index on ties.
func ArgMin[T any](ctx context.Context, r *Runner, parts int, values []T, cmp func(a, b T) int) (int, error) {
	return ArgMax(ctx, r, parts, values, reversed(cmp))
}

// Maximum returns the greatest element according to cmp.
func Maximum[T any](ctx context.Context, r *Runner, parts int, values []T, cmp func(a, b T) int) (T, error) {
	best, err := extremum(ctx, r, parts, values, cmp)
	return best.value, err
}

// Minimum returns the least element according to cmp.
func Minimum[T any](ctx context.Context, r *Runner, parts int, values []T, cmp func(a, b T) int) (T, error) {
	return Maximum(ctx, r, parts, values, reversed(cmp))
}

// extremum only replaces the current best on a strictly greater element,
// both inside a chunk and across chunks, which yields the earliest index.
func extremum[T any](ctx context.Context, r *Runner, parts int, values []T, cmp func(a, b T) int) (indexed[T], error) {
	return work(ctx, r, parts, values,
		func(c chunk.Chunk[T]) (indexed[T], error) {
			best := indexed[T]{index: c.Offset, value: c.Items[0]}
			for j := 1; j < len(c.Items); j++ {
				if cmp(c.Items[j], best.value) > 0 {
					best = indexed[T]{index: c.Offset + j, value: c.Items[j]}
				}
			}
			return best, nil
		},
		func(partials []indexed[T]) (indexed[T], error) {
			if len(partials) == 0 {
				return indexed[T]{index: -1}, ErrEmptyInput
			}
			best := partials[0]
			for _, p := range partials[1:] {
				if cmp(p.value, best.value) > 0 {
					best = p
				}
			}
			return best, nil
		},
	)
}

func reversed[T any](cmp func(a, b T) int) func(a, b T) int {
	return func(a, b T) int {
		return cmp(b, a)
	}
}

// IndexOf returns the index of the first element satisfying pred, or -1.
func IndexOf[T any](ctx context.Context, r *Runner, parts int, values []T, pred func(T) bool) (int, error) {
	return firstMatch(ctx, r, parts, values, pred, false)
}

// LastIndexOf returns the index of the last element satisfying pred, or -1.
func LastIndexOf[T any](ctx context.Context, r *Runner, parts int, values []T, pred func(T) bool) (int, error) {
	return firstMatch(ctx, r, parts, values, pred, true)
}

// firstMatch searches a reindexed view of values: view position p refers to
// values[p], or to values[len-1-p] when fromEnd is set, so that the first
// match in the view is the last match in values. Each chunk reports its
// first matching view position and the smallest one wins.
func firstMatch[T any](ctx context.Context, r *Runner, parts int, values []T, pred func(T) bool, fromEnd bool) (int, error) {
	view := make([]int, len(values))
	for p := range view {
		if fromEnd {
			view[p] = len(values) - 1 - p
		} else {
			view[p] = p
		}
	}

	pos, err := work(ctx, r, parts, view,
		func(c chunk.Chunk[int]) (int, error) {
			for j, i := range c.Items {
				if pred(values[i]) {
					return c.Offset + j, nil
				}
			}
			return -1, nil
		},
		func(partials []int) (int, error) {
			found := -1
			for _, p := range partials {
				if p >= 0 && (found < 0 || p < found) {
					found = p
				}
			}
			return found, nil
		},
	)
	if err != nil || pos < 0 {
		return -1, err
	}
	return view[pos], nil
}

// SumIndices returns the sum of the indices of the elements satisfying pred.
func SumIndices[T any](ctx context.Context, r *Runner, parts int, values []T, pred func(T) bool) (int64, error) {
	return work(ctx, r, parts, values,
		func(c chunk.Chunk[T]) (int64, error) {
			var sum int64
			for j, v := range c.Items {
				if pred(v) {
					sum += int64(c.Offset + j)
				}
			}
			return sum, nil
		},
		func(partials []int64) (int64, error) {
			var sum int64
			for _, p := range partials {
				sum += p
			}
			return sum, nil
		},
	)
}

// Count returns the number of elements satisfying pred.
func Count[T any](ctx context.Context, r *Runner, parts int, values []T, pred func(T) bool) (int, error) {
	return MapReduce(ctx, r, parts, values, func(v T) int {
		if pred(v) {
			return 1
		}
		return 0
	}, 0, func(a, b int) int { return a + b })
}

// All reports whether every element satisfies pred. It is true for an empty slice.
func All[T any](ctx context.Context, r *Runner, parts int, values []T, pred func(T) bool) (bool, error) {
	return MapReduce(ctx, r, parts, values, pred, true, func(a, b bool) bool { return a && b })
}

// Any reports whether at least one element satisfies pred.
func Any[T any](ctx context.Context, r *Runner, parts int, values []T, pred func(T) bool) (bool, error) {
	return MapReduce(ctx, r, parts, values, pred, false, func(a, b bool) bool { return a || b })
}
