// Package config holds the settings of the iterbench command: workload size,
// pool shape and the optional run history database.
//
// Values are layered: defaults, then the TOML file, then environment
// variables (a .env file is loaded first when present), then command line
// flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/utkarsh5026/iterpool/internal/backoff"
)

// Environment variables read by ApplyEnv.
const (
	EnvThreads     = "ITERBENCH_THREADS"
	EnvParts       = "ITERBENCH_PARTS"
	EnvSize        = "ITERBENCH_SIZE"
	EnvDatabaseURL = "DATABASE_URL"
)

// DefaultPath is used when no -config flag is given.
const DefaultPath = "iterbench.toml"

// Config is the full iterbench configuration.
type Config struct {
	Threads int   `toml:"threads"`
	Parts   int   `toml:"parts"`
	Size    int   `toml:"size"`
	Seed    int64 `toml:"seed"`
	Rounds  int   `toml:"rounds"` // timed repetitions per case; the fastest is kept

	// Cases limits the run to the named workloads. Empty means all.
	Cases []string `toml:"cases"`

	History History `toml:"history"`
}

// History configures the Postgres run store. It is disabled when
// DatabaseURL is empty.
type History struct {
	DatabaseURL  string        `toml:"database_url"`
	Attempts     int           `toml:"connect_attempts"`
	Backoff      string        `toml:"backoff"`
	InitialDelay time.Duration `toml:"initial_delay"`
	MaxDelay     time.Duration `toml:"max_delay"`
}

// Enabled reports whether a database is configured.
func (h History) Enabled() bool {
	return h.DatabaseURL != ""
}

// Strategy builds the retry strategy used when connecting.
func (h History) Strategy() (backoff.Strategy, error) {
	kind, err := backoff.ParseKind(h.Backoff)
	if err != nil {
		return nil, err
	}
	return backoff.New(kind, h.InitialDelay, h.MaxDelay, 0.2), nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Threads: 8,
		Parts:   32,
		Size:    2_000_000,
		Seed:    1,
		Rounds:  3,
		History: History{
			Attempts:     5,
			Backoff:      "exponential",
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     5 * time.Second,
		},
	}
}

// Load reads a TOML file on top of Default. A missing file is not an
// error; keys absent from the file keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as TOML, creating parent directories as needed.
func Save(path string, cfg Config) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", cerr)
		}
	}()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with values found through lookup, normally
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	ints := []struct {
		key string
		dst *int
	}{
		{EnvThreads, &c.Threads},
		{EnvParts, &c.Parts},
		{EnvSize, &c.Size},
	}
	for _, v := range ints {
		raw, ok := lookup(v.key)
		if !ok || raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", v.key, err)
		}
		*v.dst = n
	}

	if dsn, ok := lookup(EnvDatabaseURL); ok && dsn != "" {
		c.History.DatabaseURL = dsn
	}
	return nil
}

// Validate rejects settings the pool or the partitioner would refuse.
func (c Config) Validate() error {
	var errs []error
	if c.Threads <= 0 {
		errs = append(errs, fmt.Errorf("threads must be positive, got %d", c.Threads))
	}
	if c.Parts <= 0 {
		errs = append(errs, fmt.Errorf("parts must be positive, got %d", c.Parts))
	}
	if c.Size <= 0 {
		errs = append(errs, fmt.Errorf("size must be positive, got %d", c.Size))
	}
	if c.Rounds <= 0 {
		errs = append(errs, fmt.Errorf("rounds must be positive, got %d", c.Rounds))
	}
	if c.History.Enabled() {
		if c.History.Attempts <= 0 {
			errs = append(errs, fmt.Errorf("history.connect_attempts must be positive, got %d", c.History.Attempts))
		}
		if _, err := backoff.ParseKind(c.History.Backoff); err != nil {
			errs = append(errs, fmt.Errorf("history.backoff: %w", err))
		}
	}
	return errors.Join(errs...)
}
