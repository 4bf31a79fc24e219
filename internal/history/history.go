// Package history persists benchmark runs to Postgres so that speedups can be
// compared across machines and commits.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/utkarsh5026/iterpool/internal/backoff"
)

// ErrInvalidLimit is returned by Recent for a non-positive limit.
var ErrInvalidLimit = errors.New("history: limit must be positive")

const schema = `
CREATE TABLE IF NOT EXISTS bench_runs (
	id          BIGSERIAL PRIMARY KEY,
	algorithm   TEXT        NOT NULL,
	threads     INTEGER     NOT NULL,
	parts       INTEGER     NOT NULL,
	size        INTEGER     NOT NULL,
	parallel_ns BIGINT      NOT NULL,
	sequential_ns BIGINT    NOT NULL,
	speedup     DOUBLE PRECISION NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Run is one timed comparison of a parallel algorithm against its
// sequential baseline.
type Run struct {
	Algorithm  string
	Threads    int
	Parts      int
	Size       int
	Parallel   time.Duration
	Sequential time.Duration
	Speedup    float64
	CreatedAt  time.Time
}

// Recorder accepts finished runs. The bench runner only depends on this.
type Recorder interface {
	Record(ctx context.Context, run Run) error
}

// Discard is a Recorder that drops every run.
var Discard Recorder = discard{}

type discard struct{}

func (discard) Record(context.Context, Run) error { return nil }

// Store is a Recorder backed by a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool for dsn and pings the server, retrying the ping up to
// attempts times with delays taken from strategy.
func Connect(ctx context.Context, dsn string, attempts int, strategy backoff.Strategy) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("history: database url is not set")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	err = backoff.Retry(ctx, attempts, strategy, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Init creates the bench_runs table if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create bench_runs: %w", err)
	}
	return nil
}

// Record inserts run. A zero CreatedAt is filled in by the database.
func (s *Store) Record(ctx context.Context, run Run) error {
	var createdAt any
	if !run.CreatedAt.IsZero() {
		createdAt = run.CreatedAt
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO bench_runs (algorithm, threads, parts, size, parallel_ns, sequential_ns, speedup, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()))
	`,
		run.Algorithm,
		run.Threads,
		run.Parts,
		run.Size,
		run.Parallel.Nanoseconds(),
		run.Sequential.Nanoseconds(),
		run.Speedup,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting bench run %s: %w", run.Algorithm, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	rows, err := s.pool.Query(ctx, `
		SELECT algorithm, threads, parts, size, parallel_ns, sequential_ns, speedup, created_at
		FROM bench_runs
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying bench runs: %w", err)
	}

	runs, err := pgx.CollectRows(rows, scanRun)
	if err != nil {
		return nil, fmt.Errorf("error reading bench runs: %w", err)
	}
	return runs, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

func scanRun(row pgx.CollectableRow) (Run, error) {
	var (
		r          Run
		parallel   int64
		sequential int64
	)
	err := row.Scan(&r.Algorithm, &r.Threads, &r.Parts, &r.Size, &parallel, &sequential, &r.Speedup, &r.CreatedAt)
	r.Parallel = time.Duration(parallel)
	r.Sequential = time.Duration(sequential)
	return r, err
}
