// Command iterbench times the parallel algorithms against sequential loops
// and optionally stores the results in Postgres.
//
// Settings come from a TOML file, then a .env file and the environment,
// then flags:
//
//	iterbench -config iterbench.toml -threads 8 -parts 64 -size 5000000
//	iterbench -record            # store results in DATABASE_URL
//	iterbench -history 20        # show the 20 most recent stored runs
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/fatih/color"

	"github.com/utkarsh5026/iterpool/internal/bench"
	"github.com/utkarsh5026/iterpool/internal/config"
	"github.com/utkarsh5026/iterpool/internal/history"
)

var (
	bold  = color.New(color.Bold)
	red   = color.New(color.FgRed)
	green = color.New(color.FgGreen)
)

type options struct {
	configPath string
	writeTo    string
	threads    int
	parts      int
	size       int
	seed       int64
	rounds     int
	cases      string
	ci         bool
	record     bool
	history    int
	cpuProfile string
}

func parseFlags(args []string) (options, *flag.FlagSet, error) {
	var o options
	fs := flag.NewFlagSet("iterbench", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", config.DefaultPath, "TOML configuration file (optional)")
	fs.StringVar(&o.writeTo, "write-config", "", "Write the effective configuration to this file and exit")
	fs.IntVar(&o.threads, "threads", 0, "Worker count (0 = from config)")
	fs.IntVar(&o.parts, "parts", 0, "Chunks per algorithm call (0 = from config)")
	fs.IntVar(&o.size, "size", 0, "Number of generated integers (0 = from config)")
	fs.Int64Var(&o.seed, "seed", 0, "Input seed (0 = from config)")
	fs.IntVar(&o.rounds, "rounds", 0, "Timed rounds per case (0 = from config)")
	fs.StringVar(&o.cases, "cases", "", "Comma separated case names (empty = from config)")
	fs.BoolVar(&o.ci, "ci", false, "CI mode: no colors, no progress bar")
	fs.BoolVar(&o.record, "record", false, "Store results in the history database")
	fs.IntVar(&o.history, "history", 0, "Print the N most recent stored runs and exit")
	fs.StringVar(&o.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	err := fs.Parse(args)
	return o, fs, err
}

// apply overrides cfg with every flag that was set explicitly.
func (o options) apply(cfg *config.Config, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "threads":
			cfg.Threads = o.threads
		case "parts":
			cfg.Parts = o.parts
		case "size":
			cfg.Size = o.size
		case "seed":
			cfg.Seed = o.seed
		case "rounds":
			cfg.Rounds = o.rounds
		case "cases":
			cfg.Cases = splitList(o.cases)
		}
	})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// isCIMode detects if running in CI environment
func isCIMode(ciFlag bool) bool {
	if ciFlag {
		return true
	}
	for _, env := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "CIRCLECI", "JENKINS_HOME"} {
		if v := os.Getenv(env); v == "true" || v == "1" {
			return true
		}
	}
	return false
}

func loadConfig(o options, fs *flag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	if err := config.LoadDotEnv(".env"); err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	o.apply(&cfg, fs)
	return cfg, cfg.Validate()
}

func connect(ctx context.Context, cfg config.Config) (*history.Store, error) {
	if !cfg.History.Enabled() {
		return nil, fmt.Errorf("no database configured: set %s or history.database_url", config.EnvDatabaseURL)
	}
	strategy, err := cfg.History.Strategy()
	if err != nil {
		return nil, err
	}
	store, err := history.Connect(ctx, cfg.History.DatabaseURL, cfg.History.Attempts, strategy)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func printConfiguration(w io.Writer, cfg config.Config) {
	_, _ = bold.Fprintln(w, "Configuration:")
	fmt.Fprintf(w, "  Threads:  %d (using %d CPU cores)\n", cfg.Threads, runtime.NumCPU())
	fmt.Fprintf(w, "  Parts:    %d\n", cfg.Parts)
	fmt.Fprintf(w, "  Input:    %s integers (seed %d)\n", bench.FormatNumber(cfg.Size), cfg.Seed)
	fmt.Fprintf(w, "  Rounds:   %d\n", cfg.Rounds)
	if len(cfg.Cases) > 0 {
		fmt.Fprintf(w, "  Cases:    %s\n", strings.Join(cfg.Cases, ", "))
	}
	fmt.Fprintln(w)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, fs, err := parseFlags(args)
	if err != nil {
		return err
	}
	if isCIMode(o.ci) {
		color.NoColor = true
	}

	cfg, err := loadConfig(o, fs)
	if err != nil {
		return err
	}

	if o.writeTo != "" {
		if err := config.Save(o.writeTo, cfg); err != nil {
			return err
		}
		_, _ = green.Fprintf(stdout, "Configuration written to %s\n", o.writeTo)
		return nil
	}

	if o.history > 0 {
		store, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Recent(ctx, o.history)
		if err != nil {
			return err
		}
		return bench.RenderHistory(stdout, runs)
	}

	if o.cpuProfile != "" {
		f, err := os.Create(o.cpuProfile)
		if err != nil {
			return fmt.Errorf("creating CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("starting CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	runner := bench.Runner{}
	if !isCIMode(o.ci) {
		runner.Progress = stderr
	}
	if o.record {
		store, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		runner.Recorder = store
	}

	printConfiguration(stdout, cfg)
	_, _ = bold.Fprintln(stdout, "Running benchmarks...")

	results, err := runner.Run(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout)
	_, _ = bold.Fprintln(stdout, "Results")
	if err := bench.Render(stdout, results); err != nil {
		return err
	}
	if o.record {
		_, _ = green.Fprintf(stdout, "Recorded %d runs\n", len(results))
	}
	return nil
}

func main() {
	enableWindowsANSI()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.SetFlags(0)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	default:
		log.Print(red.Sprintf("iterbench: %v", err))
		stop()
		os.Exit(1)
	}
}
