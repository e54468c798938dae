// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics defines the prometheus collectors of the analysis engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pdiddy/citation-engine/pkg/types"
)

const namespace = "citation_engine"

// Metrics holds the collectors registered for one engine.
type Metrics struct {
	// RunsTotal counts finished runs by status.
	RunsTotal *prometheus.CounterVec

	// RunDuration measures computed (uncached) runs.
	RunDuration prometheus.Histogram

	// PageRankIterations records the iterations PageRank took per run.
	PageRankIterations prometheus.Histogram

	// CacheLookups counts report cache lookups by result (hit, miss, shared).
	CacheLookups *prometheus.CounterVec

	// DroppedRecords counts records dropped by the graph builder by issue code.
	DroppedRecords *prometheus.CounterVec

	// GraphNodes is the node count of the most recent computed run.
	GraphNodes prometheus.Gauge
}

// New creates the collectors and registers them on reg. A nil reg leaves
// them unregistered, which suits tests and one-shot CLI runs.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Analysis runs by final status",
		}, []string{"status"}),

		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "run_duration_seconds",
			Help:      "Wall time of computed analysis runs",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}),

		PageRankIterations: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ranking",
			Name:      "pagerank_iterations",
			Help:      "Power iterations per PageRank computation",
			Buckets:   []float64{5, 10, 20, 40, 60, 80, 100, 200},
		}),

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Report cache lookups by result",
		}, []string{"result"}),

		DroppedRecords: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "dropped_records_total",
			Help:      "Records dropped while building the graph, by issue code",
		}, []string{"code"}),

		GraphNodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "nodes",
			Help:      "Nodes in the most recently built graph",
		}),
	}
}

// ObserveRun records a finished run. The duration is observed only when the
// report was computed by this call (lookup is CacheMiss).
func (m *Metrics) ObserveRun(status types.RunStatus, lookup string, elapsed time.Duration) {
	m.RunsTotal.WithLabelValues(string(status)).Inc()
	if lookup == CacheMiss && status != types.StatusCancelled {
		m.RunDuration.Observe(elapsed.Seconds())
	}
}

// Cache lookup results.
const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheShared = "shared"
)

// ObserveCache records one cache lookup.
func (m *Metrics) ObserveCache(result string) {
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveDrop records n dropped records of one issue code.
func (m *Metrics) ObserveDrop(code string, n int) {
	m.DroppedRecords.WithLabelValues(code).Add(float64(n))
}
