// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the matrix
// package. Algorithms MUST return these sentinels and tests MUST check them
// via errors.Is. Panics are reserved for programmer errors in unexported
// helpers (index arithmetic on the unchecked fast path), never for
// user-triggered conditions.
package matrix

import "errors"

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrIndexOutOfBounds indicates that a row or column index is outside valid range.
	ErrIndexOutOfBounds = errors.New("matrix: index out of bounds")

	// ErrRowLengthMismatch indicates that FromRows was given ragged input rows.
	ErrRowLengthMismatch = errors.New("matrix: rows have inconsistent lengths")
)
