package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRecorder receives per-call pipeline statistics.
type MetricsRecorder interface {
	RecordSummary(duration time.Duration, sentenceCount, selected int)
	RecordFailure(stage string)
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) RecordSummary(time.Duration, int, int) {}
func (NoopMetrics) RecordFailure(string) {}

// PrometheusMetrics records pipeline metrics in the default registry.
type PrometheusMetrics struct {
	duration  prometheus.Histogram
	sentences prometheus.Histogram
	selected  prometheus.Histogram
	failures  *prometheus.CounterVec
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// NewPrometheusMetrics returns the process-wide recorder, registering its
// collectors on first use.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			duration: register(prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "digest_summarize_duration_seconds",
				Help:    "Time taken to summarize one document",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			})),
			sentences: register(prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "digest_document_sentences",
				Help:    "Number of sentences segmented per document",
				Buckets: []float64{1, 3, 5, 10, 25, 50, 100, 250, 500, 1000},
			})),
			selected: register(prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "digest_summary_sentences",
				Help:    "Number of sentences selected per summary",
				Buckets: []float64{0, 1, 2, 3, 4, 5, 7, 10, 15, 20},
			})),
			failures: register(prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "digest_summarize_failures_total",
				Help: "Summarization failures by pipeline stage",
			}, []string{"stage"})),
		}
	})
	return prometheusMetricsInstance
}

// register adds c to the default registry, reusing an existing collector
// registered under the same descriptor.
func register[C prometheus.Collector](c C) C {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (p *PrometheusMetrics) RecordSummary(duration time.Duration, sentenceCount, selected int) {
	p.duration.Observe(duration.Seconds())
	p.sentences.Observe(float64(sentenceCount))
	p.selected.Observe(float64(selected))
}

func (p *PrometheusMetrics) RecordFailure(stage string) {
	p.failures.WithLabelValues(stage).Inc()
}
