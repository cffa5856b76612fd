// Package metrics records per-run counters and can write them in the
// Prometheus textfile format for node_exporter's textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
)

// Run holds the counters for one collection pass.
type Run struct {
	registry *prometheus.Registry

	Queries          *prometheus.CounterVec
	MatchesInspected prometheus.Counter
	RecordsKept      prometheus.Counter
	UniqueCameras    prometheus.Gauge
	LastRun          prometheus.Gauge
}

// NewRun registers a fresh set of counters on a private registry.
func NewRun() *Run {
	r := &Run{
		registry: prometheus.NewRegistry(),
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ipcammap_queries_total",
			Help: "Search queries issued, by outcome.",
		}, []string{"outcome"}),
		MatchesInspected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ipcammap_matches_inspected_total",
			Help: "Raw search matches inspected.",
		}),
		RecordsKept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ipcammap_records_kept_total",
			Help: "Geolocated records kept before deduplication.",
		}),
		UniqueCameras: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ipcammap_unique_cameras",
			Help: "Unique camera addresses after deduplication.",
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ipcammap_last_run_timestamp_seconds",
			Help: "Unix time the run finished.",
		}),
	}
	r.registry.MustRegister(r.Queries, r.MatchesInspected, r.RecordsKept, r.UniqueCameras, r.LastRun)
	return r
}

// ObserveQuery records a single query outcome.
func (r *Run) ObserveQuery(matches, kept int, err error) {
	if err != nil {
		r.Queries.WithLabelValues("error").Inc()
		return
	}
	r.Queries.WithLabelValues("ok").Inc()
	r.MatchesInspected.Add(float64(matches))
	r.RecordsKept.Add(float64(kept))
}

// WriteTextfile writes all counters to path.
func (r *Run) WriteTextfile(path string) error {
	r.LastRun.SetToCurrentTime()
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return eris.Wrapf(err, "metrics: write %s", path)
	}
	return nil
}
