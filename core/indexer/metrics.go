package indexer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	indexedHeight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gaze_indexer_indexed_height",
			Help: "Latest block height committed by the indexer",
		},
		[]string{"processor"},
	)

	latestHeight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gaze_indexer_datasource_height",
			Help: "Latest block height known by the datasource",
		},
		[]string{"processor"},
	)

	consecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gaze_indexer_consecutive_failures",
			Help: "Number of consecutive failed attempts to process the next block",
		},
		[]string{"processor"},
	)

	processFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gaze_indexer_process_failures_total",
			Help: "Total number of failed attempts to process a block",
		},
		[]string{"processor"},
	)

	processDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gaze_indexer_block_process_duration_seconds",
			Help:    "Time spent processing and committing one block",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
		},
		[]string{"processor"},
	)

	reorgsDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gaze_indexer_reorgs_detected_total",
			Help: "Total number of chain reorganizations detected",
		},
		[]string{"processor"},
	)

	reorgDepth = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gaze_indexer_reorg_depth_blocks",
			Help:    "Depth of chain reorganizations in blocks",
			Buckets: []float64{1, 2, 3, 5, 8, 10},
		},
		[]string{"processor"},
	)
)
