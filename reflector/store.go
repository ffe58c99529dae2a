// SPDX-License-Identifier: MIT
// Package reflector holds the Householder scalar pairs produced by panel
// factorization tasks and consumed by panel update tasks.
//
// Write discipline: single producer per index — the panel-factor task
// covering that row. Read discipline: only after the producing task's
// dependency flag has been observed true by the reader (see the dependency
// package for the acquire/release pairing). Store itself performs no
// synchronization; its safety rests entirely on that external discipline,
// mirroring the no-lock, invariant-derived safety of the matrix package.
package reflector

// Store is a pair of length-M float64 arrays: Up and B. Slot r is written
// exactly once, by the panel-factor task that owns pivot row r. Rows whose
// pivot was numerically degenerate (see kernel.PanelFactor) are left zeroed,
// which downstream panel-update reads treat as an identity transform.
type Store struct {
	up []float64
	b  []float64
}

// NewStore allocates a zeroed reflector store for m pivot rows.
func NewStore(m int) *Store {
	return &Store{
		up: make([]float64, m),
		b:  make([]float64, m),
	}
}

// Len returns the number of pivot-row slots.
func (s *Store) Len() int { return len(s.up) }

// Set records the reflector scalar pair for pivot row.
func (s *Store) Set(row int, up, b float64) {
	s.up[row] = up
	s.b[row] = b
}

// Up returns the stored up scalar for pivot row.
func (s *Store) Up(row int) float64 { return s.up[row] }

// B returns the stored b scalar for pivot row.
func (s *Store) B(row int) float64 { return s.b[row] }

// UpSlice returns a defensive copy of the Up array, the public result of a
// factorization per the core entry point's contract.
func (s *Store) UpSlice() []float64 {
	out := make([]float64, len(s.up))
	copy(out, s.up)

	return out
}

// BSlice returns a defensive copy of the B array. Not part of the published
// external result (see spec §6) but useful for tests and diagnostics.
func (s *Store) BSlice() []float64 {
	out := make([]float64, len(s.b))
	copy(out, s.b)

	return out
}
