package summarizer

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	m := NewPrometheusMetrics()
	assert.Same(t, m, NewPrometheusMetrics())

	m.RecordSummary(20*time.Millisecond, 12, 3)
	m.RecordFailure("similarity")

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
	}
	for _, name := range []string{
		"digest_summarize_duration_seconds",
		"digest_document_sentences",
		"digest_summary_sentences",
		"digest_summarize_failures_total",
	} {
		assert.True(t, found[name], name)
	}
}
