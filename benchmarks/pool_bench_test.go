package benchmarks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/utkarsh5026/iterpool/pool"
)

// =============================================================================
// Throughput
// =============================================================================

func BenchmarkPool_ThroughputWorkerScaling(b *testing.B) {
	workerCounts := []int{2, 4, 8, 16, 32, 64}
	taskCount := 10000

	for _, workers := range workerCounts {
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			p, err := pool.New(workers)
			if err != nil {
				b.Fatal(err)
			}
			defer p.Close()

			processFunc := cpuBoundWork(100)
			tasks := sequentialTasks(taskCount)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := pool.Map(context.Background(), p, processFunc, tasks); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()

			nsPerOp := float64(b.Elapsed().Nanoseconds()) / float64(b.N)
			tasksPerSec := (float64(taskCount) / nsPerOp) * 1e9

			b.ReportMetric(tasksPerSec, "tasks/sec")
			b.ReportMetric(tasksPerSec/float64(workers), "tasks/sec/worker")
		})
	}
}

func BenchmarkPool_ThroughputLoadScaling(b *testing.B) {
	taskCounts := []int{100, 1000, 10000, 100000}

	p, err := pool.New(8)
	if err != nil {
		b.Fatal(err)
	}
	defer p.Close()

	for _, taskCount := range taskCounts {
		b.Run(fmt.Sprintf("tasks_%d", taskCount), func(b *testing.B) {
			processFunc := cpuBoundWork(100)
			tasks := sequentialTasks(taskCount)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := pool.Map(context.Background(), p, processFunc, tasks); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()

			nsPerOp := float64(b.Elapsed().Nanoseconds()) / float64(b.N)
			b.ReportMetric((float64(taskCount)/nsPerOp)*1e9, "tasks/sec")
		})
	}
}

func BenchmarkPool_SubmitRaw(b *testing.B) {
	p, err := pool.New(8)
	if err != nil {
		b.Fatal(err)
	}
	defer p.Close()

	var wg sync.WaitGroup
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		wg.Add(1)
		if err := p.Submit(wg.Done); err != nil {
			b.Fatal(err)
		}
	}
	wg.Wait()
}

// BenchmarkPool_ConcurrentGroups measures several Map calls sharing one pool.
func BenchmarkPool_ConcurrentGroups(b *testing.B) {
	for _, groups := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("groups_%d", groups), func(b *testing.B) {
			p, err := pool.New(8)
			if err != nil {
				b.Fatal(err)
			}
			defer p.Close()

			tasks := sequentialTasks(1000)
			processFunc := cpuBoundWork(50)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				var wg sync.WaitGroup
				for range groups {
					wg.Add(1)
					go func() {
						defer wg.Done()
						if _, err := pool.Map(context.Background(), p, processFunc, tasks); err != nil {
							b.Error(err)
						}
					}()
				}
				wg.Wait()
			}
		})
	}
}

// =============================================================================
// Features
// =============================================================================

func BenchmarkPool_FeaturesBaseline(b *testing.B) {
	benchmarkWithOptions(b)
}

func BenchmarkPool_FeaturesWithRateLimit(b *testing.B) {
	benchmarkWithOptions(b, pool.WithRateLimit(1_000_000, 1000))
}

func BenchmarkPool_FeaturesWithHooks(b *testing.B) {
	var started, ended atomic.Int64
	benchmarkWithOptions(b,
		pool.WithBeforeTaskStart(func(int) { started.Add(1) }),
		pool.WithOnTaskEnd(func(int, bool) { ended.Add(1) }),
	)
}

func BenchmarkPool_FeaturesWithCPUAffinity(b *testing.B) {
	benchmarkWithOptions(b, pool.WithCPUAffinity())
}

func benchmarkWithOptions(b *testing.B, opts ...pool.Option) {
	b.Helper()
	p, err := pool.New(8, opts...)
	if err != nil {
		b.Fatal(err)
	}
	defer p.Close()

	tasks := sequentialTasks(1000)
	processFunc := cpuBoundWork(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pool.Map(context.Background(), p, processFunc, tasks); err != nil {
			b.Fatal(err)
		}
	}
}

// =============================================================================
// Workloads
// =============================================================================

func BenchmarkPool_WorkloadIOBound(b *testing.B) {
	for _, workers := range []int{4, 16, 64} {
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			p, err := pool.New(workers)
			if err != nil {
				b.Fatal(err)
			}
			defer p.Close()

			tasks := sequentialTasks(200)
			processFunc := ioBoundWork(time.Millisecond)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := pool.Map(context.Background(), p, processFunc, tasks); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkPool_LatencyDistribution(b *testing.B) {
	p, err := pool.New(8)
	if err != nil {
		b.Fatal(err)
	}
	defer p.Close()

	tasks := sequentialTasks(100)
	latencies := make([]time.Duration, 0, b.N)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		start := time.Now()
		if _, err := pool.Map(context.Background(), p, cpuBoundWork(200), tasks); err != nil {
			b.Fatal(err)
		}
		latencies = append(latencies, time.Since(start))
	}
	b.StopTimer()

	b.ReportMetric(float64(percentile(latencies, 0.50).Nanoseconds()), "p50-ns")
	b.ReportMetric(float64(percentile(latencies, 0.95).Nanoseconds()), "p95-ns")
	b.ReportMetric(float64(percentile(latencies, 0.99).Nanoseconds()), "p99-ns")
}

// =============================================================================
// Comparison
// =============================================================================

func BenchmarkComparison_Sequential(b *testing.B) {
	tasks := sequentialTasks(1000)
	processFunc := cpuBoundWork(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		results := make([]int, len(tasks))
		for j, task := range tasks {
			result, err := processFunc(task)
			if err != nil {
				b.Fatal(err)
			}
			results[j] = result
		}
	}
}

func BenchmarkComparison_Pool(b *testing.B) {
	p, err := pool.New(8)
	if err != nil {
		b.Fatal(err)
	}
	defer p.Close()

	tasks := sequentialTasks(1000)
	processFunc := cpuBoundWork(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pool.Map(context.Background(), p, processFunc, tasks); err != nil {
			b.Fatal(err)
		}
	}
}
