// SPDX-License-Identifier: MIT
// Package scheduler implements the dependency-driven task-graph worker pool
// described in spec §4.6: a ready queue (FIFO or priority), a wait queue for
// tasks whose left-neighbor (same panel row) or above-neighbor (same
// column-block, prior panel row) dependency is not yet satisfied, and the
// enqueue rules that drive tasks from one to the other and finally to
// execution. Workers never sleep — they spin — matching the reference
// design's target of fully-loaded HPC nodes (spec §4.6, §9).
package scheduler

import (
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/blockqr/blockqr/dependency"
	"github.com/blockqr/blockqr/kernel"
	"github.com/blockqr/blockqr/reflector"
	"github.com/blockqr/blockqr/task"
)

// options collects Pool construction settings resolved before the queues
// are built, mirroring the teacher's gatherOptions/finalizeOptions pattern
// (matrix.Options) rather than mutating a half-built Pool in place.
type options struct {
	priority bool
	logger   *zap.Logger
	metrics  Metrics
}

// Option configures a Pool at construction time.
type Option func(*options)

// WithPriorityQueue selects the priority-ordered ready queue (spec §4.6,
// "Priority mode") instead of the default FIFO.
func WithPriorityQueue() Option {
	return func(o *options) { o.priority = true }
}

// WithLogger attaches a structured logger for per-task lifecycle events.
// The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics attaches a Metrics sink. The default discards everything.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

func defaultOptions() options {
	return options{logger: zap.NewNop(), metrics: NoOpMetrics{}}
}

// Pool drives a fixed number of worker goroutines over one task table,
// dependency table, matrix, and reflector store.
type Pool struct {
	mat  kernel.Matrix
	refl *reflector.Store
	tt   *task.Table
	dep  *dependency.Table

	ready readyQueue
	wait  *fifoQueue

	// claimed guards against a cell being pushed to ready/wait more than
	// once: the same-row and cross-row enqueue paths can both independently
	// decide the same cell is now eligible (most commonly a row's own
	// factor task, reachable both by the row above finishing its last
	// local-range column and by that row's own left-neighbor chain reaching
	// it). A cell pushed twice would have its kernel run twice, corrupting
	// the second run's input. Swap makes "am I the first to reach this
	// cell" atomic across whichever goroutines race for it.
	claimed []atomic.Bool

	// completed counts finished tasks. Every cell of the tr*tc grid is
	// eventually claimed and queued exactly once (see claimed), so a count
	// reaching tr*tc is the true completion signal — checking only the
	// final panel's own factor task is not enough, since that task's
	// readiness depends only on its own row's chain and says nothing about
	// whether other rows' trailing-update tasks have run yet.
	completed atomic.Int64
	total     int64

	// aborted is set by a worker that recovered from a panic. The task it was
	// running never completes, so done also ends the other workers on it.
	aborted atomic.Bool

	workers int
	logger  *zap.Logger
	metrics Metrics
}

// claim reports whether the caller is the first to make (i, j) eligible for
// execution. Only the caller for whom claim returns true may push the task.
func (p *Pool) claim(i, j int) bool {
	return !p.claimed[i*p.tt.Cols()+j].Swap(true)
}

// New builds a Pool ready to run over the given tables. workers must be > 0;
// the caller (the driver) validates this before construction per spec §7.
func New(mat kernel.Matrix, refl *reflector.Store, tt *task.Table, dep *dependency.Table, workers int, opts ...Option) *Pool {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	capacity := tt.Rows() * tt.Cols()
	var ready readyQueue
	if o.priority {
		ready = newPriorityQueue(capacity)
	} else {
		ready = newFIFOQueue(capacity)
	}

	return &Pool{
		mat:     mat,
		refl:    refl,
		tt:      tt,
		dep:     dep,
		ready:   ready,
		wait:    newFIFOQueue(capacity),
		claimed: make([]atomic.Bool, capacity),
		total:   int64(capacity),
		workers: workers,
		logger:  o.logger,
		metrics: o.metrics,
	}
}

// Run seeds the ready queue with task (0,0), spawns Pool.workers goroutines,
// and blocks until every worker observes the global termination predicate.
// A kernel panic in one worker (a program defect, never a spec'd numerical
// condition — see spec §7) is recovered per-worker and every recovered
// panic is joined into the returned error via multierr, rather than
// crashing the whole process silently on one bad goroutine.
func (p *Pool) Run() error {
	p.logger.Info("factorization starting",
		zap.Int("panel_rows", p.tt.Rows()),
		zap.Int("column_blocks", p.tt.Cols()),
		zap.Int("workers", p.workers),
	)

	seed := p.tt.Seed()
	p.claim(seed.I, seed.J)
	p.ready.Push(seed)

	errCh := make(chan error, p.workers)
	for id := 0; id < p.workers; id++ {
		go func(id int) {
			errCh <- p.runWorker(id)
		}(id)
	}

	var err error
	for i := 0; i < p.workers; i++ {
		err = multierr.Append(err, <-errCh)
	}

	if err != nil {
		p.logger.Error("factorization finished with worker errors", zap.Error(err))
		return err
	}

	p.logger.Info("factorization complete")

	return nil
}

// runWorker is the per-goroutine loop of spec §4.6: try the ready queue,
// try the wait queue, check termination. It never blocks or sleeps.
func (p *Pool) runWorker(id int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.aborted.Store(true)
			err = fmt.Errorf("scheduler: worker %d panicked: %v", id, r)
		}
	}()

	for {
		if t, ok := p.ready.Pop(); ok {
			p.execute(id, t)
			p.dep.Set(t.I, t.J)
			p.metrics.TaskCompleted(int(t.Type))
			p.enqueueSuccessors(t)
			p.completed.Add(1)
		}

		if u, ok := p.wait.Pop(); ok {
			leftOK := u.J == 0 || p.dep.Get(u.I, u.J-1)
			if leftOK && p.crossRowSatisfied(u) {
				p.ready.Push(u)
			} else {
				p.wait.Push(u)
			}
		}

		if p.done() {
			return nil
		}
	}
}

// execute runs the kernel for t and records its duration.
func (p *Pool) execute(workerID int, t *task.Descriptor) {
	start := time.Now()

	switch t.Type {
	case task.Factor:
		kernel.PanelFactor(p.mat, p.refl, t.RowStart, t.RowEnd, t.ColStart, t.ColEnd)
	case task.Update:
		kernel.PanelUpdate(p.mat, p.refl, t.RowStart, t.RowEnd, t.ColStart, t.ColEnd)
	}

	p.metrics.ObserveKernelDuration(int(t.Type), time.Since(start))
	p.logger.Debug("task complete",
		zap.Int("worker", workerID),
		zap.Int("i", t.I), zap.Int("j", t.J),
		zap.String("type", t.Type.String()),
	)
}

// crossRowSatisfied reports whether succ's dependency on the panel row above
// it is met. Every column-block is written by every panel row at or below
// its own local range — a panel row left of its own factor column writes a
// mathematical no-op there (its reflectors are still zeroed), but it is a
// real write to the same physical rows another panel row also writes, and
// two panel rows racing to write the same block is exactly what spec §5
// forbids regardless of whether the values involved happen to cancel out.
// The panel's own factor task additionally *reads* its entire local range as
// pivots (PanelFactor), so it needs the row above to have finished writing
// every column in that range, not just the matching one. Panel row 0 has no
// row above it and is trivially satisfied.
func (p *Pool) crossRowSatisfied(succ *task.Descriptor) bool {
	if succ.I == 0 {
		return true
	}
	if succ.Type == task.Factor {
		r := p.tt.R()
		target := (succ.I+1)*r - 1
		if last := p.tt.Cols() - 1; target > last {
			target = last
		}
		return p.dep.Get(succ.I-1, target)
	}
	return p.dep.Get(succ.I-1, succ.J)
}

// tryEnqueue is the only path by which a cell is made eligible: claim first,
// so at most one caller ever queues it, then route it to ready or wait based
// on whether both of its dependencies — the same-row left neighbor and the
// cross-row dependency above it — already hold. If either is still missing,
// the cell parks in the wait queue and runWorker's drain loop promotes it
// once both become true, however they arrive.
func (p *Pool) tryEnqueue(succ *task.Descriptor) {
	if !p.claim(succ.I, succ.J) {
		return
	}
	leftOK := succ.J == 0 || p.dep.Get(succ.I, succ.J-1)
	if leftOK && p.crossRowSatisfied(succ) {
		p.ready.Push(succ)
		return
	}
	p.wait.Push(succ)
	p.metrics.WaitQueueDepth(p.wait.Len())
}

// enqueueSuccessors reacts to t's completion along the two axes a task can
// unblock a neighbor: sideways, into the next column of its own panel row,
// and downward, into the panel row below it.
//
// Sideways: t.J's dependency flag was just set, so the next column in the
// same row can be tried immediately (it may still have to park on its
// cross-row dependency, which tryEnqueue checks). This is what carries a
// panel's reflectors across every trailing column block (spec §4.6:
// "columns > i*R"), not just the panel's own local range.
//
// Downward, ordinary case: the panel row below writes this same column-block
// too (whether or not the column is inside its own local range — see
// crossRowSatisfied), so its task at this column can be tried once this
// column's own write has landed. The row below's own factor column is
// excluded here; it has a wider dependency, handled next.
//
// Downward, factor case: the panel row below's own Factor task reads its
// entire local range as pivots (see crossRowSatisfied), so it can only be
// tried once t.J reaches the *last* column of that range, not the first —
// exactly the column task.NewTable marks via EnqueueNextFactor.
func (p *Pool) enqueueSuccessors(t *task.Descriptor) {
	r := p.tt.R()

	if t.J+1 < p.tt.Cols() {
		p.tryEnqueue(p.tt.Get(t.I, t.J+1))
	}

	nextRow := t.I + 1
	if nextRow < p.tt.Rows() {
		if t.J != nextRow*r {
			p.tryEnqueue(p.tt.Get(nextRow, t.J))
		}
		if t.EnqueueNextFactor {
			p.tryEnqueue(p.tt.Get(nextRow, nextRow*r))
		}
	}
}

// done evaluates the global termination predicate of spec §4.6: every task
// in the grid has run. A worker only ever observes this once every row's
// sideways and downward cascades have fully drained, since claim guarantees
// every cell is pushed to a queue exactly once and every queued cell
// eventually runs. It also holds once a worker has panicked (see aborted),
// so Run can return that worker's error.
func (p *Pool) done() bool {
	return p.aborted.Load() || p.completed.Load() == p.total
}
