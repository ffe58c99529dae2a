// SPDX-License-Identifier: MIT
// Package dependency provides the atomic TR×TC grid of task-completion
// flags the scheduler uses to decide when a successor task's inputs are
// ready. Flags transition false→true exactly once, by the worker that
// executes the corresponding task, and never transition back.
package dependency

import "sync/atomic"

// Table is a TR×TC grid of atomic completion flags, initially false.
type Table struct {
	tc    int
	flags []atomic.Bool
}

// NewTable allocates a dependency table for a tr×tc task grid, all flags false.
func NewTable(tr, tc int) *Table {
	return &Table{tc: tc, flags: make([]atomic.Bool, tr*tc)}
}

// Set stores true (release) for (i, j). A worker must call Set for its own
// task after all of that task's writes to the matrix and reflector store,
// and before enqueuing any successor — the release pairs with the acquire
// in Get so a later true read makes those writes visible.
func (t *Table) Set(i, j int) {
	t.flags[i*t.tc+j].Store(true)
}

// Get loads (acquire) the completion flag for (i, j).
func (t *Table) Get(i, j int) bool {
	return t.flags[i*t.tc+j].Load()
}
