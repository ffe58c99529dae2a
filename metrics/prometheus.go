// SPDX-License-Identifier: MIT
// Package metrics provides a Prometheus-backed implementation of
// scheduler.Metrics, grounded on the client_golang usage found across the
// retrieval pack (jinterlante1206-AleutianLocal, kubernetes/kubernetes). The
// scheduler itself has no dependency on this package or on Prometheus; it
// only depends on the scheduler.Metrics interface, so callers who don't
// want the dependency never import this package.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/blockqr/blockqr/scheduler"
)

// Prometheus implements scheduler.Metrics by recording task completions,
// wait-queue depth, and kernel duration into Prometheus collectors.
type Prometheus struct {
	tasksCompleted *prometheus.CounterVec
	waitDepth      prometheus.Gauge
	kernelDuration *prometheus.HistogramVec
}

// NewPrometheus registers the collectors against reg and returns a ready
// Prometheus metrics sink. reg is typically prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		tasksCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blockqr",
			Name:      "tasks_completed_total",
			Help:      "Number of scheduler tasks completed, by task type.",
		}, []string{"type"}),
		waitDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "blockqr",
			Name:      "wait_queue_depth",
			Help:      "Current number of tasks parked in the wait queue.",
		}),
		kernelDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "blockqr",
			Name:      "kernel_duration_seconds",
			Help:      "Duration of a single panel_factor/panel_update kernel invocation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
	}

	reg.MustRegister(p.tasksCompleted, p.waitDepth, p.kernelDuration)

	return p
}

// TaskCompleted implements scheduler.Metrics.
func (p *Prometheus) TaskCompleted(taskType int) {
	p.tasksCompleted.WithLabelValues(strconv.Itoa(taskType)).Inc()
}

// WaitQueueDepth implements scheduler.Metrics.
func (p *Prometheus) WaitQueueDepth(depth int) {
	p.waitDepth.Set(float64(depth))
}

// ObserveKernelDuration implements scheduler.Metrics.
func (p *Prometheus) ObserveKernelDuration(taskType int, d time.Duration) {
	p.kernelDuration.WithLabelValues(strconv.Itoa(taskType)).Observe(d.Seconds())
}

var _ scheduler.Metrics = (*Prometheus)(nil)
