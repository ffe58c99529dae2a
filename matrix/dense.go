// SPDX-License-Identifier: MIT
// Package matrix provides the dense row-major buffer shared, in place, by
// every worker in a blocked QR factorization. Dense is the sole shared
// mutable state of size O(rows*cols) in the scheduler: correctness of
// concurrent access rests entirely on the task-graph's disjoint-write
// invariant (see the scheduler package), not on any lock held here.
package matrix

import "fmt"

// denseErrorf wraps an underlying error with Dense method context.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a row-major matrix of float64 values.
// r is rows, c is columns, and data holds r*c elements in row-major order.
//
// Concurrency contract: Dense performs no locking. Get/Set are the unchecked
// fast path used by the numerical kernels on the hot path; At/SetChecked are the
// bounds-checked entry points used by callers assembling or inspecting a
// matrix outside the scheduler's disjoint-write discipline.
type Dense struct {
	r, c int       // number of rows and columns
	data []float64 // flat backing storage, length == r*c
}

// NewDense creates an r×c Dense matrix initialized to zeros.
// Complexity: O(r*c) time and memory.
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	data := make([]float64, rows*cols)

	return &Dense{r: rows, c: cols, data: data}, nil
}

// FromRows builds a Dense matrix from a slice of equal-length rows.
// Returns ErrRowLengthMismatch if the rows are ragged.
func FromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrInvalidDimensions
	}
	cols := len(rows[0])
	m, err := NewDense(len(rows), cols)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("FromRows: row %d: %w", i, ErrRowLengthMismatch)
		}
		copy(m.data[i*cols:(i+1)*cols], row)
	}

	return m, nil
}

// Rows returns the number of rows in the matrix.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns in the matrix.
func (m *Dense) Cols() int { return m.c }

// indexOf computes the flat index for (row, col) or returns ErrIndexOutOfBounds.
func (m *Dense) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r {
		return 0, denseErrorf("At", row, col, ErrIndexOutOfBounds)
	}
	if col < 0 || col >= m.c {
		return 0, denseErrorf("At", row, col, ErrIndexOutOfBounds)
	}

	return row*m.c + col, nil
}

// At retrieves the element at (row, col), bounds-checked.
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// SetChecked assigns value v at (row, col), bounds-checked.
func (m *Dense) SetChecked(row, col int, v float64) error {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return err
	}
	m.data[idx] = v

	return nil
}

// Get reads the element at (row, col) without bounds checking. Callers on the
// scheduler's hot path must stay within the task descriptor's row/col range;
// the task-graph's disjointness invariant is what makes this safe under
// concurrent access, not any check performed here.
func (m *Dense) Get(row, col int) float64 {
	return m.data[row*m.c+col]
}

// Set writes v at (row, col) without bounds checking. See Get.
func (m *Dense) Set(row, col int, v float64) {
	m.data[row*m.c+col] = v
}

// Clone returns a deep copy of the Dense matrix.
func (m *Dense) Clone() *Dense {
	copyData := make([]float64, len(m.data))
	copy(copyData, m.data)

	return &Dense{r: m.r, c: m.c, data: copyData}
}

// Rows2D materializes the matrix as a slice of row slices, chiefly for I/O
// and test assertions; the hot path never allocates like this.
func (m *Dense) Rows2D() [][]float64 {
	out := make([][]float64, m.r)
	for i := 0; i < m.r; i++ {
		row := make([]float64, m.c)
		copy(row, m.data[i*m.c:(i+1)*m.c])
		out[i] = row
	}

	return out
}

// String implements fmt.Stringer for easy debugging.
func (m *Dense) String() string {
	return fmt.Sprintf("Dense(%dx%d)", m.r, m.c)
}
