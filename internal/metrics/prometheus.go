// Package metrics declares the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// UnknownTask labels requests naming a task type that does not exist, so
// arbitrary path values cannot mint new series.
const UnknownTask = "unknown"

var (
	// AssignmentsTotal counts AssignNext outcomes: "assigned", "complete" or "error".
	AssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tofix_assignments_total",
			Help: "Total number of lease assignment requests by outcome.",
		},
		[]string{"task", "outcome"},
	)

	// EventsRecordedTotal counts event log appends.
	EventsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tofix_events_recorded_total",
			Help: "Total number of recorded events.",
		},
		[]string{"task"},
	)

	// ResolutionsTotal counts items marked fixed or not-an-error.
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tofix_resolutions_total",
			Help: "Total number of resolved items by kind.",
		},
		[]string{"task", "kind"},
	)

	// IngestionsTotal counts finished ingestions by result: "ok" or the failed stage.
	IngestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tofix_ingestions_total",
			Help: "Total number of dataset ingestions by result.",
		},
		[]string{"result"},
	)

	// IngestStageDurationSeconds observes the duration of each ingestion stage.
	IngestStageDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tofix_ingest_stage_duration_seconds",
			Help:    "Duration of ingestion stages in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 4, 10),
		},
		[]string{"stage"},
	)

	// IngestedRowsTotal counts items materialized by successful ingestions.
	IngestedRowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tofix_ingested_rows_total",
			Help: "Total number of items created by ingestion.",
		},
	)

	// HTTPRequestDurationSeconds observes HTTP handler latency.
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tofix_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)
)
