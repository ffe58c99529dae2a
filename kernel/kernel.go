// SPDX-License-Identifier: MIT
// Package kernel implements the two numerical routines the scheduler
// dispatches: PanelFactor (task type 1) and PanelUpdate (task type 2).
// Both apply Householder reflections following LINPACK's classic
// Householder recurrence, walked along rows rather than columns: pivot row p
// defines the reflector, and a block [colStart, colEnd) names the matrix
// rows the reflector is applied to. The exact loop bounds and the
// "row_start/col_start == 1 means 0" boundary sentinel are carried over
// from the reference implementation this package was ported from (see
// DESIGN.md) and must not be "corrected" — they encode the assumption,
// documented as an open question, that the matrix is square (N == M).
package kernel

import "math"

// Matrix is the minimal contract the kernels need from a shared matrix
// buffer: unchecked indexed access plus the column count that bounds the
// inner reflector-application loop. matrix.Dense satisfies this directly.
type Matrix interface {
	Cols() int
	Get(row, col int) float64
	Set(row, col int, v float64)
}

// Reflectors is the minimal contract the kernels need from a reflector
// store. reflector.Store satisfies this directly.
type Reflectors interface {
	Set(row int, up, b float64)
	Up(row int) float64
	B(row int) float64
}

// PanelFactor computes Householder reflectors for pivot rows
// [rowStart, rowEnd) and applies each one to the remainder of the task's own
// column-block, rows [pivot+1, colEnd). A pivot is skipped (no reflector
// written) when pivot row p is all zero from column p onward (cl <= 0) or
// the resulting b is non-negative —
// this is not an error, per spec §7; the reflector slot for that row stays
// zeroed and later reads of it are no-ops.
func PanelFactor(mat Matrix, refl Reflectors, rowStart, rowEnd, colStart, colEnd int) {
	n := mat.Cols()
	start := rowStart
	if start == 1 {
		start = 0
	}
	if start < 0 {
		start = 0
	}

	for p := start; p < rowEnd; p++ {
		cl := math.Abs(mat.Get(p, p))
		sm1 := 0.0
		for k := p + 1; k < n; k++ {
			v := math.Abs(mat.Get(p, k))
			sm1 += v * v
			if v > cl {
				cl = v
			}
		}
		if cl <= 0 {
			continue
		}

		clinv := 1.0 / cl
		d := mat.Get(p, p) * clinv
		sm := d*d + sm1*clinv*clinv
		cl *= math.Sqrt(sm)
		if mat.Get(p, p) > 0 {
			cl = -cl
		}

		up := mat.Get(p, p) - cl
		mat.Set(p, p, cl)

		b := up * mat.Get(p, p)
		if b >= 0 {
			continue
		}
		b = 1.0 / b
		refl.Set(p, up, b)

		for j := p + 1; j < colEnd; j++ {
			sm := mat.Get(j, p) * up
			for i := p + 1; i < n; i++ {
				sm += mat.Get(j, i) * mat.Get(p, i)
			}
			if sm == 0 {
				continue
			}
			sm *= b
			mat.Set(j, p, mat.Get(j, p)+sm*up)
			for i := p + 1; i < n; i++ {
				mat.Set(j, i, mat.Get(j, i)+sm*mat.Get(p, i))
			}
		}
	}
}

// PanelUpdate applies the already-computed reflectors for pivot rows
// [rowStart, rowEnd) to a distinct trailing column-block [colStart, colEnd).
// It must run strictly after the panel-factor task that produced those
// reflectors has set its dependency flag; the scheduler's enqueue rules
// enforce that ordering, not this function.
func PanelUpdate(mat Matrix, refl Reflectors, rowStart, rowEnd, colStart, colEnd int) {
	n := mat.Cols()
	rowFrom := rowStart
	if rowFrom == 1 {
		rowFrom = 0
	}
	if rowFrom < 0 {
		rowFrom = 0
	}
	colFrom := colStart
	if colFrom == 1 {
		colFrom = 0
	}
	if colFrom < 0 {
		colFrom = 0
	}

	for p := rowFrom; p < rowEnd; p++ {
		up := refl.Up(p)
		b := refl.B(p)

		for j := colFrom; j < colEnd; j++ {
			sm := mat.Get(j, p) * up
			for i := p + 1; i < n; i++ {
				sm += mat.Get(j, i) * mat.Get(p, i)
			}
			if sm == 0 {
				continue
			}
			sm *= b
			mat.Set(j, p, mat.Get(j, p)+sm*up)
			for i := p + 1; i < n; i++ {
				mat.Set(j, i, mat.Get(j, i)+sm*mat.Get(p, i))
			}
		}
	}
}
