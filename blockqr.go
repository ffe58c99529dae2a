// SPDX-License-Identifier: MIT
// Package blockqr performs a blocked, in-place Householder QR factorization
// of a dense real matrix using a dependency-driven task-graph scheduler and
// a worker pool (see the scheduler, task, dependency, kernel, and reflector
// packages). Factorize is the sole entry point; everything else in this
// package is configuration.
package blockqr

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/blockqr/blockqr/dependency"
	"github.com/blockqr/blockqr/matrix"
	"github.com/blockqr/blockqr/reflector"
	"github.com/blockqr/blockqr/scheduler"
	"github.com/blockqr/blockqr/task"
)

// Default block and concurrency parameters, named per spec §6's "compile-time
// or config constants" (ALPHA, BETA, NUM_THREADS, USE_PRIORITY_MAIN_QUEUE).
// Carried over from the reference implementation's #define values.
const (
	DefaultAlpha         = 11
	DefaultBeta          = 11
	DefaultWorkers       = 26
	DefaultPriorityQueue = false
)

// Sentinel errors surfaced by Factorize. Configuration is validated at
// entry and fails fast per spec §7; there are no recoverable per-task
// errors past this point.
var (
	ErrInvalidDimensions = errors.New("blockqr: matrix dimensions must be > 0")
	ErrAlphaBetaMismatch = errors.New("blockqr: beta must be a positive multiple of alpha")
	ErrInvalidWorkers    = errors.New("blockqr: worker count must be > 0")
)

// config holds resolved Factorize settings, gathered from defaults plus
// user Option setters — the teacher's matrix.Options / dijkstra.Options
// pattern, applied here instead of ad hoc parameter lists.
type config struct {
	alpha, beta int
	workers     int
	priority    bool
	logger      *zap.Logger
	metrics     scheduler.Metrics
}

func defaultConfig() config {
	return config{
		alpha:    DefaultAlpha,
		beta:     DefaultBeta,
		workers:  DefaultWorkers,
		priority: DefaultPriorityQueue,
		logger:   zap.NewNop(),
		metrics:  scheduler.NoOpMetrics{},
	}
}

// Option configures a Factorize call.
type Option func(*config)

// WithAlpha sets the column-block height (ALPHA).
func WithAlpha(alpha int) Option {
	return func(c *config) { c.alpha = alpha }
}

// WithBeta sets the row-panel height (BETA).
func WithBeta(beta int) Option {
	return func(c *config) { c.beta = beta }
}

// WithWorkers sets the worker pool size.
func WithWorkers(workers int) Option {
	return func(c *config) { c.workers = workers }
}

// WithPriorityQueue enables the priority-ordered ready queue (spec §4.6).
func WithPriorityQueue() Option {
	return func(c *config) { c.priority = true }
}

// WithLogger attaches a structured logger to the scheduler and driver.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics attaches a metrics sink to the scheduler.
func WithMetrics(m scheduler.Metrics) Option {
	return func(c *config) {
		if m != nil {
			c.metrics = m
		}
	}
}

// Result carries the public output of a factorization beyond the
// in-place-mutated matrix: the Householder up-scalars, per spec §6
// ("receive the factored matrix, the Householder scalar vectors").
type Result struct {
	Up []float64
}

// Factorize performs a blocked Householder QR factorization of mat in
// place. The kernels reduce mat row by row, so mat is mutated to hold the
// packed factorization of its transpose: the diagonal and lower triangle
// hold Rᵀ, where matᵀ = Q·R (with the sign convention of
// kernel.PanelFactor), and the strict upper triangle of row p holds the
// tail of pivot p's reflector vector, whose leading entry is the returned
// Up[p]. Only the
// reflectors are retained; the explicit Q factor is never formed (spec §1,
// Non-goals).
//
// mat's dimensions need not be square, but the kernels' inner loops iterate
// to mat.Cols() regardless of row count — spec §9's open question about an
// implicit M==N assumption applies unchanged here; callers passing
// non-square matrices get the reference implementation's exact behavior,
// not a "corrected" generalization.
func Factorize(mat *matrix.Dense, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	m, n := mat.Rows(), mat.Cols()
	if m <= 0 || n <= 0 {
		return nil, ErrInvalidDimensions
	}
	if cfg.alpha <= 0 || cfg.beta <= 0 || cfg.beta%cfg.alpha != 0 {
		return nil, ErrAlphaBetaMismatch
	}
	if cfg.workers <= 0 {
		return nil, ErrInvalidWorkers
	}

	tt, err := task.NewTable(m, n, cfg.alpha, cfg.beta)
	if err != nil {
		return nil, fmt.Errorf("Factorize: %w", err)
	}
	dep := dependency.NewTable(tt.Rows(), tt.Cols())
	refl := reflector.NewStore(m)

	schedOpts := []scheduler.Option{
		scheduler.WithLogger(cfg.logger),
		scheduler.WithMetrics(cfg.metrics),
	}
	if cfg.priority {
		schedOpts = append(schedOpts, scheduler.WithPriorityQueue())
	}

	pool := scheduler.New(mat, refl, tt, dep, cfg.workers, schedOpts...)
	if err := pool.Run(); err != nil {
		return nil, fmt.Errorf("Factorize: %w", err)
	}

	return &Result{Up: refl.UpSlice()}, nil
}
