package bench

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/iterpool/internal/chunk"
)

// MaxValue bounds the generated integers: every value lies in [0, MaxValue).
const MaxValue = 1_000_000

// Generate builds size pseudo random integers. The slice is filled in
// segments on separate goroutines; segment i draws from its own source
// seeded with seed+i, so the output depends only on size, seed and segments.
func Generate(ctx context.Context, size int, seed int64, segments int) ([]int, error) {
	if size < 0 {
		return nil, fmt.Errorf("bench: negative size %d", size)
	}
	if segments <= 0 {
		segments = runtime.NumCPU()
	}

	data := make([]int, size)
	ranges, err := chunk.Bounds(segments, size)
	if err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, r := range ranges {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(i))) // #nosec G404 -- benchmark input, not secrets
			for j := r.Start; j < r.End; j++ {
				if j%65536 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				data[j] = rng.Intn(MaxValue)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("bench: generating input: %w", err)
	}
	return data, nil
}
