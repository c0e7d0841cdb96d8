// filename: internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Разбор NDJSON выгрузок
	RecordsParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeydash_records_parsed_total",
			Help: "Total number of raw sensor records parsed from NDJSON",
		},
		[]string{"source"},
	)

	RecordsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeydash_records_dropped_total",
			Help: "Total number of malformed NDJSON lines dropped",
		},
		[]string{"source"},
	)

	// Развертывание записей в события
	EventsExpanded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeydash_events_expanded_total",
			Help: "Total number of canonical events produced, by record kind",
		},
		[]string{"kind"},
	)

	EstimatedTimestamps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "honeydash_estimated_timestamps_total",
			Help: "Total number of events whose timestamp was unparseable and defaulted to load time",
		},
	)

	// Кэш датасета
	DatasetReloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "honeydash_dataset_reloads_total",
			Help: "Total number of dataset reloads after cache expiry or invalidation",
		},
	)

	SyntheticFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "honeydash_synthetic_fallbacks_total",
			Help: "Total number of loads that fell back to the synthetic placeholder dataset",
		},
	)

	DatasetEvents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "honeydash_dataset_events",
			Help: "Number of events in the currently cached dataset",
		},
	)

	LoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "honeydash_dataset_load_duration_seconds",
			Help:    "Duration of a full dataset load (parse, expand, sort)",
			Buckets: prometheus.DefBuckets,
		},
	)

	// HTTP API
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeydash_http_requests_total",
			Help: "Total number of dashboard API requests",
		},
		[]string{"route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "honeydash_http_request_duration_seconds",
			Help:    "Duration of dashboard API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "honeydash_http_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)
