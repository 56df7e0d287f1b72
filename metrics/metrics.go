// Package metrics holds the Prometheus instruments updated by the engine.
// They register with the default registry; binaries expose them with Serve.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	Runs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pregel_runs_total",
		Help: "Finished runs by queue strategy, execution mode and outcome",
	}, []string{"queue", "mode", "outcome"})

	Supersteps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pregel_supersteps_total",
		Help: "Supersteps executed",
	})

	ComputedVertices = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pregel_computed_vertices_total",
		Help: "Compute calls made",
	})

	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pregel_messages_sent_total",
		Help: "Messages pushed into inboxes",
	})

	ActiveVertices = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pregel_active_vertices",
		Help: "Vertices that received a message in the last superstep",
	})

	SuperstepSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pregel_superstep_duration_seconds",
		Help:    "Wall time of one superstep, barrier insertion and reduction included",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
	})

	BarrierSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pregel_barrier_duration_seconds",
		Help:    "Wall time spent inserting barrier markers",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 12),
	})

	ReduceSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pregel_reduce_duration_seconds",
		Help:    "Wall time spent merging activity bitsets",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 12),
	})
)

// Serves /metrics on addr in the background.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Info().Msg("Metrics serving on " + addr + "/metrics")
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error().Err(err).Msg("Metrics server failed.")
		}
	}()
}
