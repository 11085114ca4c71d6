package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// archive ingest service.
type Metrics struct {
	// Retrieval metrics.
	ArchivesListed  prometheus.Counter
	ArchivesFetched prometheus.Counter
	FetchErrors     prometheus.Counter
	FetchDuration   prometheus.Histogram
	ArchiveCache    *prometheus.CounterVec // label: result={hit,miss}

	// Decode metrics.
	DecodeSuccesses prometheus.Counter
	DecodeFailures  *prometheus.CounterVec // label: kind={truncated,overflow,unhandled_product,decompression,other}
	RadialsDecoded  prometheus.Counter

	// Publish metrics.
	SummariesPublished prometheus.Counter
	PublishErrors      prometheus.Counter

	// Pipeline metrics.
	PipelineRunning prometheus.Gauge
	CycleDuration   prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ArchivesListed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nexrad",
			Name:      "archives_listed_total",
			Help:      "Total archive objects discovered by bucket listings.",
		}),
		ArchivesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nexrad",
			Name:      "archives_fetched_total",
			Help:      "Total archive objects downloaded.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nexrad",
			Name:      "fetch_errors_total",
			Help:      "Total failed bucket list or download requests.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nexrad",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of one archive download.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ArchiveCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexrad",
			Name:      "archive_cache_total",
			Help:      "Archive cache lookups by result.",
		}, []string{"result"}),
		DecodeSuccesses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nexrad",
			Name:      "decode_successes_total",
			Help:      "Total archive volumes decoded.",
		}),
		DecodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexrad",
			Name:      "decode_failures_total",
			Help:      "Archive decode failures by error kind.",
		}, []string{"kind"}),
		RadialsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nexrad",
			Name:      "radials_decoded_total",
			Help:      "Total message 31 radials decoded across all volumes.",
		}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nexrad",
			Name:      "summaries_published_total",
			Help:      "Total sweep summaries written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nexrad",
			Name:      "publish_errors_total",
			Help:      "Total failed summary publishes.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nexrad",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nexrad",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of one complete poll-decode-publish cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120},
		}),
	}

	prometheus.MustRegister(
		m.ArchivesListed,
		m.ArchivesFetched,
		m.FetchErrors,
		m.FetchDuration,
		m.ArchiveCache,
		m.DecodeSuccesses,
		m.DecodeFailures,
		m.RadialsDecoded,
		m.SummariesPublished,
		m.PublishErrors,
		m.PipelineRunning,
		m.CycleDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with nothing registered to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ArchivesListed:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "nexrad", Name: "archives_listed_total"}),
		ArchivesFetched:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "nexrad", Name: "archives_fetched_total"}),
		FetchErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "nexrad", Name: "fetch_errors_total"}),
		FetchDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "nexrad", Name: "fetch_duration_seconds"}),
		ArchiveCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "nexrad", Name: "archive_cache_total"}, []string{"result"}),
		DecodeSuccesses:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "nexrad", Name: "decode_successes_total"}),
		DecodeFailures:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "nexrad", Name: "decode_failures_total"}, []string{"kind"}),
		RadialsDecoded:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "nexrad", Name: "radials_decoded_total"}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "nexrad", Name: "summaries_published_total"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "nexrad", Name: "publish_errors_total"}),
		PipelineRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "nexrad", Name: "pipeline_running"}),
		CycleDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "nexrad", Name: "cycle_duration_seconds"}),
	}
}
