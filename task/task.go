// SPDX-License-Identifier: MIT
// Package task defines the immutable 2D grid of panel-factor and
// panel-update task descriptors that the scheduler executes.
//
// A Table is built once, before any worker starts, and is never mutated
// afterward — the same "construct once, share by reference" discipline the
// rest of this codebase uses for its immutable configuration values.
package task

import (
	"errors"
	"fmt"
)

// Sentinel errors for task table construction.
var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("task: dimensions must be > 0")

	// ErrAlphaBetaMismatch indicates alpha/beta are not positive, or beta is
	// not a positive multiple of alpha.
	ErrAlphaBetaMismatch = errors.New("task: beta must be a positive multiple of alpha")
)

// Type identifies the two kinds of task the scheduler executes.
type Type int

const (
	// Factor (type 1) computes reflectors for a row-panel and updates the
	// panel's own column-block.
	Factor Type = 1
	// Update (type 2) applies a panel's already-computed reflectors to one
	// trailing column-block.
	Update Type = 2
)

func (t Type) String() string {
	switch t {
	case Factor:
		return "factor"
	case Update:
		return "update"
	default:
		return fmt.Sprintf("task.Type(%d)", int(t))
	}
}

// Descriptor is an immutable task in the (I, J) task grid.
type Descriptor struct {
	Type Type
	I, J int

	RowStart, RowEnd int
	ColStart, ColEnd int

	// Priority ranks this task for the priority-ordered ready queue; larger
	// runs first. Meaningless when the scheduler uses a plain FIFO queue.
	Priority int

	// EnqueueNextFactor marks the task whose completion is the last piece of
	// data the next panel row's own Factor task needs: the last column of
	// *that* row's local range, on *this* row. PanelFactor reads its entire
	// local range as pivots, so the next panel's factor cannot start until
	// every column in its own range has received this row's contribution,
	// not merely the column at its own diagonal.
	EnqueueNextFactor bool
}

// Table is the immutable TR×TC grid of task descriptors, indexed by
// (panel-row, column-block).
type Table struct {
	tr, tc      int
	alpha, beta int
	tasks       []Descriptor // row-major, tr*tc entries
}

// NewTable builds the full task grid for an M×N matrix with the given block
// parameters. alpha is the column-block height, beta is the row-panel
// height; beta must be a positive multiple of alpha.
func NewTable(m, n, alpha, beta int) (*Table, error) {
	if m <= 0 || n <= 0 {
		return nil, ErrInvalidDimensions
	}
	if alpha <= 0 || beta <= 0 || beta%alpha != 0 {
		return nil, ErrAlphaBetaMismatch
	}

	r := beta / alpha
	tr := ceilDiv(m, beta)
	tc := ceilDiv(m, alpha) // column-blocks partition M, not N; see spec Open Question 2.

	t := &Table{tr: tr, tc: tc, alpha: alpha, beta: beta, tasks: make([]Descriptor, tr*tc)}

	for i := 0; i < tr; i++ {
		rowStart := i * beta
		rowEnd := min(rowStart+beta, m)
		for j := 0; j < tc; j++ {
			colStart := j * alpha
			colEnd := min(colStart+alpha, m)

			typ := Update
			if j == i*r {
				typ = Factor
			}

			nextLocalEnd := (i+2)*r - 1
			if nextLocalEnd > tc-1 {
				nextLocalEnd = tc - 1
			}
			enqNext := i+1 < tr && j == nextLocalEnd

			priority := (tr-i)*2 + 1
			if typ != Factor {
				priority = (tr - i) * 2
			}

			t.tasks[i*tc+j] = Descriptor{
				Type:              typ,
				I:                 i,
				J:                 j,
				RowStart:          rowStart,
				RowEnd:            rowEnd,
				ColStart:          colStart,
				ColEnd:            colEnd,
				Priority:          priority,
				EnqueueNextFactor: enqNext,
			}
		}
	}

	return t, nil
}

// Rows returns TR, the number of panel-row blocks.
func (t *Table) Rows() int { return t.tr }

// Cols returns TC, the number of column-blocks.
func (t *Table) Cols() int { return t.tc }

// R returns BETA/ALPHA, the number of column-blocks per panel.
func (t *Table) R() int { return t.beta / t.alpha }

// Get returns the (read-only) descriptor for (i, j).
func (t *Table) Get(i, j int) *Descriptor {
	return &t.tasks[i*t.tc+j]
}

// Seed returns the first task the driver pushes onto the ready queue: the
// factor task of panel 0.
func (t *Table) Seed() *Descriptor { return t.Get(0, 0) }

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
