package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Package-level metrics registered through promauto, so importing packages
// can record without any initialization ceremony.

var (
	// 1. Walks extracted (Counter)
	// Counts walks emitted into the corpus, labeled by walker strategy.
	WalksExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgwalk_walks_extracted_total",
			Help: "Total number of walks extracted",
		},
		[]string{"walker"},
	)

	// 2. Extraction duration (Histogram)
	// Per-walker wall time of one Extract invocation over all roots.
	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "kgwalk_extraction_duration_seconds",
			Help: "Duration of walker extraction runs in seconds",
			// From trivial in-memory graphs to endpoint-backed extractions.
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"walker"},
	)

	// 3. Resolver requests (Counter)
	// Remote entity resolutions, labeled by outcome: hit (served from
	// cache), miss (fetched), error.
	ResolverRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgwalk_resolver_requests_total",
			Help: "Total number of remote entity resolutions",
		},
		[]string{"status"},
	)

	// 4. Graph size (Gauge)
	// Vertices known to the graph, updated after load and after resolution
	// merges.
	GraphVertices = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kgwalk_graph_vertices",
			Help: "Number of vertices currently materialized in the graph",
		},
	)
)
