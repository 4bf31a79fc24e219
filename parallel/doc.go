// Package parallel implements data-parallel list algorithms on top of a
// worker pool.
//
// Every algorithm follows the same shape: the input slice is split into at
// most parts contiguous chunks of near-equal length, each chunk is reduced
// sequentially inside one pool task, and the per-chunk results are combined
// sequentially by the caller once all tasks have finished. Results never
// depend on which worker finishes first.
//
//	r, err := parallel.NewWithThreads(4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	sum, err := parallel.Reduce(ctx, r, 4, []int{1, 2, 3, 4, 5, 6, 7}, 0, func(a, b int) int {
//	    return a + b
//	})
//	// sum: 28
//
// Functions passed to the algorithms run concurrently on pool workers and
// must be safe for that. Reduction operators must be associative, and the
// identity must be a true identity for the operator.
//
// A panic in a supplied function fails the whole call with a
// *pool.GroupError; the other chunks still run to completion first.
package parallel
