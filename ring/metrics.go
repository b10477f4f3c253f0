package ring

import "github.com/prometheus/client_golang/prometheus"

// metrics follows the same shape as internal/health.metrics in the
// reference implementation: a handful of counters/gauges created together
// and registered once against an optional Registerer.
type metrics struct {
	electionsStarted    prometheus.Counter
	coordinatorsEmitted prometheus.Counter
	repairsPerformed    prometheus.Counter
	collapses           prometheus.Counter
	heartbeatMisses     prometheus.Counter
	membershipSize      prometheus.Gauge
}

func newMetrics(r prometheus.Registerer) *metrics {
	m := &metrics{
		electionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chfsd_ring_elections_started_total",
			Help: "Total number of Chang-Roberts elections initiated by this node.",
		}),
		coordinatorsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chfsd_ring_coordinators_emitted_total",
			Help: "Total number of coordinator messages emitted by this node as winner.",
		}),
		repairsPerformed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chfsd_ring_repairs_total",
			Help: "Total number of times the repair loop replaced a dead next pointer.",
		}),
		collapses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chfsd_ring_collapses_total",
			Help: "Total number of times repair ran out of standby neighbours.",
		}),
		heartbeatMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chfsd_ring_heartbeat_misses_total",
			Help: "Total number of heartbeat probes that failed to reach next.",
		}),
		membershipSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chfsd_ring_membership_size",
			Help: "Size of the most recently published membership list.",
		}),
	}

	if r != nil {
		r.MustRegister(
			m.electionsStarted,
			m.coordinatorsEmitted,
			m.repairsPerformed,
			m.collapses,
			m.heartbeatMisses,
			m.membershipSize,
		)
	}

	return m
}
