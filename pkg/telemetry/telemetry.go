// Package telemetry exposes the engine's run metrics as
// github.com/prometheus/client_golang collectors: items completed,
// decode-cache hits/misses, bytes in flight against the memory budget, and
// solver backtrack-restart counts. These are pure side-channel
// instrumentation; nothing in the engine's control flow reads them back.
package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles one run's collectors, registered against a private
// registry so concurrent runs (e.g. in tests) never collide on metric
// names with a shared global registry.
type Metrics struct {
	Registry *prometheus.Registry

	ItemsCompleted    prometheus.Counter
	DecodeCacheHits   prometheus.Counter
	DecodeCacheMisses prometheus.Counter
	BytesInFlight     prometheus.Gauge
	SolverRestarts    prometheus.Counter
	LedgerCollisions  prometheus.Counter
}

// New builds and registers a fresh set of collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		ItemsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "traitforge_items_completed_total",
			Help: "Number of items successfully rendered and committed.",
		}),
		DecodeCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "traitforge_decode_cache_hits_total",
			Help: "Number of trait decode-cache hits.",
		}),
		DecodeCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "traitforge_decode_cache_misses_total",
			Help: "Number of trait decode-cache misses.",
		}),
		BytesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "traitforge_bytes_in_flight",
			Help: "Composited bytes currently held in the outbound queue, against the memory budget.",
		}),
		SolverRestarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "traitforge_solver_restarts_total",
			Help: "Number of full backtrack restarts across all solve() calls.",
		}),
		LedgerCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "traitforge_ledger_collisions_total",
			Help: "Number of ledger reserve races (Reserve rejected a solved assignment).",
		}),
	}

	reg.MustRegister(
		m.ItemsCompleted,
		m.DecodeCacheHits,
		m.DecodeCacheMisses,
		m.BytesInFlight,
		m.SolverRestarts,
		m.LedgerCollisions,
	)
	return m
}
