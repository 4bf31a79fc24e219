package benchmarks

import (
	"math/rand"
	"slices"
	"time"
)

// cpuBoundWork simulates a CPU-intensive operation
func cpuBoundWork(iterations int) func(task int) (int, error) {
	return func(task int) (int, error) {
		result := 0
		for i := 0; i < iterations; i++ {
			result += i * task
		}
		return result, nil
	}
}

// ioBoundWork simulates an I/O operation with a delay
func ioBoundWork(delay time.Duration) func(task int) (int, error) {
	return func(task int) (int, error) {
		time.Sleep(delay)
		return task * 2, nil
	}
}

func sequentialTasks(n int) []int {
	tasks := make([]int, n)
	for i := range tasks {
		tasks[i] = i
	}
	return tasks
}

func randomInts(n int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))
	out := make([]int, n)
	for i := range out {
		out[i] = rng.Intn(1_000_000)
	}
	return out
}

func percentile(latencies []time.Duration, p float64) time.Duration {
	if len(latencies) == 0 {
		return 0
	}
	sorted := slices.Clone(latencies)
	slices.Sort(sorted)
	idx := min(int(float64(len(sorted))*p), len(sorted)-1)
	return sorted[idx]
}
