// Package blockqr factors a dense real matrix into Q and R using blocked
// Householder reflections, driven by a dependency-driven task-graph
// scheduler and a worker pool.
//
// What is blockqr?
//
//	A concurrent, dependency-scheduled QR factorization that brings together:
//		• A shared row-major matrix buffer mutated in place by many workers
//		• An immutable task grid of panel-factor / panel-update descriptors
//		• Atomic per-task dependency flags with release/acquire discipline
//		• A ready queue (FIFO or priority) and a wait queue with a
//		  cooperative-backoff requeue protocol
//		• Numerical kernels applying Householder reflectors in the exact
//		  order blocked QR requires
//
// Only the reflectors are retained; the explicit orthogonal factor Q is
// never formed. Pivoting, sparse or distributed matrices, and cross-machine
// scheduling are out of scope.
//
// Packages:
//
//	matrix/     — the shared dense matrix buffer
//	reflector/  — the Householder scalar store
//	task/       — the immutable task descriptor grid
//	dependency/ — the atomic completion-flag grid
//	kernel/     — panel_factor and panel_update
//	scheduler/  — the worker pool and its ready/wait queues
//	metrics/    — an optional Prometheus-backed scheduler.Metrics
//	cmd/blockqr — a thin CLI front end
//
// Quick usage:
//
//	mat, _ := matrix.NewDense(100, 100)
//	// ... fill mat ...
//	result, err := blockqr.Factorize(mat, blockqr.WithAlpha(4), blockqr.WithBeta(8))
//
//	go get github.com/blockqr/blockqr
package blockqr
