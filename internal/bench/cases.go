package bench

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/utkarsh5026/iterpool/parallel"
)

// Case is one algorithm timed against its sequential baseline. Both
// functions receive the same input and must produce equal results.
type Case struct {
	Name        string
	Description string
	Parallel    func(ctx context.Context, r *parallel.Runner, parts int, data []int) (any, error)
	Sequential  func(data []int) any
}

func isEven(v int) bool { return v%2 == 0 }

func square(v int) int64 { return int64(v) * int64(v) }

// needle picks a value that exists in data so the searches have a hit.
func needle(data []int, at float64) int {
	if len(data) == 0 {
		return -1
	}
	return data[int(float64(len(data)-1)*at)]
}

// Cases lists every workload in display order.
func Cases() []Case {
	return []Case{
		{
			Name:        "sum",
			Description: "reduce with +",
			Parallel: func(ctx context.Context, r *parallel.Runner, parts int, data []int) (any, error) {
				return parallel.MapReduce(ctx, r, parts, data, func(v int) int64 { return int64(v) }, 0, func(a, b int64) int64 { return a + b })
			},
			Sequential: func(data []int) any {
				var sum int64
				for _, v := range data {
					sum += int64(v)
				}
				return sum
			},
		},
		{
			Name:        "filter",
			Description: "keep even values",
			Parallel: func(ctx context.Context, r *parallel.Runner, parts int, data []int) (any, error) {
				return parallel.Filter(ctx, r, parts, data, isEven)
			},
			Sequential: func(data []int) any {
				out := []int{}
				for _, v := range data {
					if isEven(v) {
						out = append(out, v)
					}
				}
				return out
			},
		},
		{
			Name:        "map",
			Description: "square every value",
			Parallel: func(ctx context.Context, r *parallel.Runner, parts int, data []int) (any, error) {
				return parallel.Map(ctx, r, parts, data, square)
			},
			Sequential: func(data []int) any {
				out := make([]int64, len(data))
				for i, v := range data {
					out[i] = square(v)
				}
				return out
			},
		},
		{
			Name:        "indices",
			Description: "positions of even values",
			Parallel: func(ctx context.Context, r *parallel.Runner, parts int, data []int) (any, error) {
				return parallel.Indices(ctx, r, parts, data, isEven)
			},
			Sequential: func(data []int) any {
				out := []int{}
				for i, v := range data {
					if isEven(v) {
						out = append(out, i)
					}
				}
				return out
			},
		},
		{
			Name:        "argmax",
			Description: "index of the largest value",
			Parallel: func(ctx context.Context, r *parallel.Runner, parts int, data []int) (any, error) {
				return parallel.ArgMax(ctx, r, parts, data, cmp.Compare[int])
			},
			Sequential: func(data []int) any {
				best := 0
				for i, v := range data {
					if v > data[best] {
						best = i
					}
				}
				return best
			},
		},
		{
			Name:        "argmin",
			Description: "index of the smallest value",
			Parallel: func(ctx context.Context, r *parallel.Runner, parts int, data []int) (any, error) {
				return parallel.ArgMin(ctx, r, parts, data, cmp.Compare[int])
			},
			Sequential: func(data []int) any {
				best := 0
				for i, v := range data {
					if v < data[best] {
						best = i
					}
				}
				return best
			},
		},
		{
			Name:        "indexof",
			Description: "first position of a value from the last quarter",
			Parallel: func(ctx context.Context, r *parallel.Runner, parts int, data []int) (any, error) {
				target := needle(data, 0.75)
				return parallel.IndexOf(ctx, r, parts, data, func(v int) bool { return v == target })
			},
			Sequential: func(data []int) any {
				return slices.Index(data, needle(data, 0.75))
			},
		},
		{
			Name:        "lastindexof",
			Description: "last position of a value from the first quarter",
			Parallel: func(ctx context.Context, r *parallel.Runner, parts int, data []int) (any, error) {
				target := needle(data, 0.25)
				return parallel.LastIndexOf(ctx, r, parts, data, func(v int) bool { return v == target })
			},
			Sequential: func(data []int) any {
				target := needle(data, 0.25)
				for i := len(data) - 1; i >= 0; i-- {
					if data[i] == target {
						return i
					}
				}
				return -1
			},
		},
		{
			Name:        "sumindices",
			Description: "sum of positions of even values",
			Parallel: func(ctx context.Context, r *parallel.Runner, parts int, data []int) (any, error) {
				return parallel.SumIndices(ctx, r, parts, data, isEven)
			},
			Sequential: func(data []int) any {
				var sum int64
				for i, v := range data {
					if isEven(v) {
						sum += int64(i)
					}
				}
				return sum
			},
		},
	}
}

// Select returns the cases named in names, in display order. No names
// selects every case.
func Select(names []string) ([]Case, error) {
	all := Cases()
	if len(names) == 0 {
		return all, nil
	}

	selected := make([]Case, 0, len(names))
	for _, c := range all {
		if slices.Contains(names, c.Name) {
			selected = append(selected, c)
		}
	}

	for _, name := range names {
		if !slices.ContainsFunc(all, func(c Case) bool { return c.Name == name }) {
			return nil, fmt.Errorf("bench: unknown case %q", name)
		}
	}
	return selected, nil
}
