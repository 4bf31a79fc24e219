// Package bench times the parallel algorithms against straightforward
// sequential loops over the same generated input.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/utkarsh5026/iterpool/internal/config"
	"github.com/utkarsh5026/iterpool/internal/history"
	"github.com/utkarsh5026/iterpool/parallel"
)

// ErrMismatch is returned when a parallel result differs from its baseline.
var ErrMismatch = errors.New("parallel result differs from sequential baseline")

// Result holds the best timings of one case.
type Result struct {
	Case       string
	Parallel   time.Duration
	Sequential time.Duration
	Speedup    float64 // Sequential / Parallel
}

// Runner executes cases. The zero value runs silently without recording.
type Runner struct {
	// Recorder receives one history.Run per case. Nil means history.Discard.
	Recorder history.Recorder
	// Progress, when set, gets a progress bar advanced once per timed round.
	Progress io.Writer
}

// Run generates the input described by cfg and times every selected case.
// Each case runs cfg.Rounds times; the fastest parallel and sequential
// rounds are kept. The first round also checks that both produce the same
// result.
func (b *Runner) Run(ctx context.Context, cfg config.Config) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cases, err := Select(cfg.Cases)
	if err != nil {
		return nil, err
	}

	data, err := Generate(ctx, cfg.Size, cfg.Seed, 0)
	if err != nil {
		return nil, err
	}

	runner, err := parallel.NewWithThreads(cfg.Threads)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	recorder := b.Recorder
	if recorder == nil {
		recorder = history.Discard
	}

	bar := b.progressBar(len(cases) * cfg.Rounds)

	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		if bar != nil {
			bar.Describe(fmt.Sprintf("Testing: %s", c.Name))
		}

		res, err := b.runCase(ctx, runner, cfg, c, data, bar)
		if err != nil {
			return results, err
		}
		results = append(results, res)

		err = recorder.Record(ctx, history.Run{
			Algorithm:  res.Case,
			Threads:    cfg.Threads,
			Parts:      cfg.Parts,
			Size:       cfg.Size,
			Parallel:   res.Parallel,
			Sequential: res.Sequential,
			Speedup:    res.Speedup,
			CreatedAt:  time.Now(),
		})
		if err != nil {
			return results, fmt.Errorf("recording %s: %w", res.Case, err)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}
	return results, nil
}

func (b *Runner) runCase(
	ctx context.Context,
	runner *parallel.Runner,
	cfg config.Config,
	c Case,
	data []int,
	bar *progressbar.ProgressBar,
) (Result, error) {
	res := Result{Case: c.Name}

	for round := range cfg.Rounds {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		start := time.Now()
		got, err := c.Parallel(ctx, runner, cfg.Parts, data)
		par := time.Since(start)
		if err != nil {
			return res, fmt.Errorf("%s: %w", c.Name, err)
		}

		start = time.Now()
		want := c.Sequential(data)
		seq := time.Since(start)

		if round == 0 && !reflect.DeepEqual(got, want) {
			return res, fmt.Errorf("%s: %w", c.Name, ErrMismatch)
		}

		if round == 0 || par < res.Parallel {
			res.Parallel = par
		}
		if round == 0 || seq < res.Sequential {
			res.Sequential = seq
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	res.Speedup = speedup(res.Sequential, res.Parallel)
	return res, nil
}

func speedup(sequential, parallel time.Duration) float64 {
	if parallel <= 0 {
		return 0
	}
	return float64(sequential) / float64(parallel)
}

func (b *Runner) progressBar(total int) *progressbar.ProgressBar {
	if b.Progress == nil {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Running cases"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(b.Progress),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
