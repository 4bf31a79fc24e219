package parallel

import (
	"context"
	"slices"

	"github.com/utkarsh5026/iterpool/internal/chunk"
)

// Filter returns the elements of values that satisfy pred, in their original order.
func Filter[T any](ctx context.Context, r *Runner, parts int, values []T, pred func(T) bool) ([]T, error) {
	return work(ctx, r, parts, values,
		func(c chunk.Chunk[T]) ([]T, error) {
			var kept []T
			for _, v := range c.Items {
				if pred(v) {
					kept = append(kept, v)
				}
			}
			return kept, nil
		},
		func(lists [][]T) ([]T, error) {
			return concat(lists), nil
		},
	)
}

// Map returns f applied to every element of values, in order.
func Map[T, U any](ctx context.Context, r *Runner, parts int, values []T, f func(T) U) ([]U, error) {
	return TryMap(ctx, r, parts, values, func(v T) (U, error) {
		return f(v), nil
	})
}

// TryMap is Map for functions that can fail. A chunk stops at its first
// error; other chunks run to completion and all chunk errors are reported
// together.
func TryMap[T, U any](ctx context.Context, r *Runner, parts int, values []T, f func(T) (U, error)) ([]U, error) {
	return work(ctx, r, parts, values,
		func(c chunk.Chunk[T]) ([]U, error) {
			out := make([]U, len(c.Items))
			for j, v := range c.Items {
				u, err := f(v)
				if err != nil {
					return nil, err
				}
				out[j] = u
			}
			return out, nil
		},
		func(lists [][]U) ([]U, error) {
			return concat(lists), nil
		},
	)
}

// Indices returns the ascending positions of the elements that satisfy pred.
func Indices[T any](ctx context.Context, r *Runner, parts int, values []T, pred func(T) bool) ([]int, error) {
	return work(ctx, r, parts, values,
		func(c chunk.Chunk[T]) ([]int, error) {
			var idx []int
			for j, v := range c.Items {
				if pred(v) {
					idx = append(idx, c.Offset+j)
				}
			}
			return idx, nil
		},
		func(lists [][]int) ([]int, error) {
			// Chunks are contiguous and ascending, so this is already sorted;
			// the sort keeps the result independent of that layout.
			all := concat(lists)
			slices.Sort(all)
			return all, nil
		},
	)
}
