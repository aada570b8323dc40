package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sourceFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "officeboard",
			Name:      "source_fetch_total",
			Help:      "Source reads by source and result.",
		},
		[]string{"source", "result"},
	)

	sourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "officeboard",
			Name:      "source_fetch_duration_seconds",
			Help:      "Duration of source reads including retries.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	brokerLookupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "officeboard",
			Name:      "broker_task_lookup_failures_total",
			Help:      "Per-broker task lookups that failed and were reported as unknown.",
		},
	)

	boardRecomputeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "officeboard",
			Name:      "board_recompute_total",
			Help:      "Live board state publications by trigger.",
		},
		[]string{"trigger"},
	)
)
