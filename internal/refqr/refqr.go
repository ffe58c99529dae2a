// SPDX-License-Identifier: MIT
// Package refqr is a test-only reference oracle: an unblocked Householder
// QR decomposition ported from the teacher's matrix/ops/qr.go. It exists
// so scheduler/kernel tests can check the blocked, task-scheduled
// factorization's R against an independently-computed R and reconstruct
// Q·R to compare against the original input, per spec §8's "QR equivalence
// to reference" property. It is deliberately not the algorithm under test —
// this package makes no attempt to be blocked, concurrent, or in-place.
package refqr

import (
	"fmt"
	"math"

	"github.com/blockqr/blockqr/matrix"
)

// QR returns Q and R for the decomposition m = Q×R, m square.
func QR(m *matrix.Dense) (*matrix.Dense, *matrix.Dense, error) {
	rows, cols := m.Rows(), m.Cols()
	if rows != cols {
		return nil, nil, fmt.Errorf("refqr.QR: non-square %dx%d", rows, cols)
	}
	n := rows

	A := m.Clone()
	Q, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, nil, err
	}
	for i := 0; i < n; i++ {
		Q.Set(i, i, 1.0)
	}

	v := make([]float64, n)

	for k := 0; k < n; k++ {
		norm := 0.0
		for i := k; i < n; i++ {
			val := A.Get(i, k)
			norm += val * val
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			continue
		}

		alpha := -math.Copysign(norm, A.Get(k, k))

		for i := 0; i < n; i++ {
			v[i] = 0
		}
		for i := k; i < n; i++ {
			v[i] = A.Get(i, k)
		}
		v[k] -= alpha

		beta := 0.0
		for i := k; i < n; i++ {
			beta += v[i] * v[i]
		}
		if beta == 0 {
			continue
		}
		tau := 2.0 / beta

		for j := k; j < n; j++ {
			sum := 0.0
			for i := k; i < n; i++ {
				sum += v[i] * A.Get(i, j)
			}
			for i := k; i < n; i++ {
				A.Set(i, j, A.Get(i, j)-tau*v[i]*sum)
			}
		}

		// Q is accumulated by right-multiplication, Q <- Q*H_k, so that after
		// the last k it equals H_0*H_1*...*H_{n-1} and A = Q*R holds. Each
		// H_k is symmetric, so left-multiplying here (Q <- H_k*Q) would
		// instead build H_{n-1}*...*H_0, which is Q's transpose, not Q.
		for i := 0; i < n; i++ {
			sum := 0.0
			for j := k; j < n; j++ {
				sum += Q.Get(i, j) * v[j]
			}
			for j := k; j < n; j++ {
				Q.Set(i, j, Q.Get(i, j)-tau*sum*v[j])
			}
		}
	}

	return Q, A, nil
}

// MatMul returns a×b for square matrices of the same size, used by tests to
// reconstruct Q·R.
func MatMul(a, b *matrix.Dense) (*matrix.Dense, error) {
	n := a.Rows()
	if a.Cols() != n || b.Rows() != n || b.Cols() != n {
		return nil, fmt.Errorf("refqr.MatMul: dimension mismatch")
	}
	out, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			for k := 0; k < n; k++ {
				sum += a.Get(i, k) * b.Get(k, j)
			}
			out.Set(i, j, sum)
		}
	}

	return out, nil
}
