package grc20

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gaze_grc20",
		Name:      "mints_total",
		Help:      "Total number of accepted mint operations",
	})

	operationsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gaze_grc20",
		Name:      "rejected_operations_total",
		Help:      "Total number of skipped grc20 operations by reason",
	}, []string{"reason"})

	tickersCached = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gaze_grc20",
		Name:      "supply_cache_tickers",
		Help:      "Number of deployed (tick, code) held by the supply cache",
	})
)
