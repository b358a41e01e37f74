package pathing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pathRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathgrid_path_requests_total",
			Help: "Path requests by final outcome",
		},
		[]string{"result"},
	)

	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathgrid_searches_total",
			Help: "Searches run per tier by outcome",
		},
		[]string{"tier", "result"},
	)

	searchNodes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pathgrid_search_nodes",
			Help:    "Nodes expanded per search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
		[]string{"tier"},
	)

	refinementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathgrid_refinements_total",
			Help: "Lazy tier refinements by kind",
		},
		[]string{"kind"},
	)

	activePaths = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pathgrid_active_paths",
			Help: "Paths currently held in the registry",
		},
	)

	estimatorPendingBlocks = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pathgrid_estimator_pending_blocks",
			Help: "Blocks queued for rebuild after terrain changes",
		},
		[]string{"tier"},
	)
)

func observeSearch(tier string, result SearchResult, expanded int) {
	searchesTotal.WithLabelValues(tier, result.String()).Inc()
	searchNodes.WithLabelValues(tier).Observe(float64(expanded))
}
