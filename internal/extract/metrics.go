package extract

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for extraction.
// A nil *Metrics records nothing.
type Metrics struct {
	ExtractionsTotal   *prometheus.CounterVec
	ExtractionDuration prometheus.Histogram
	TokensTotal        *prometheus.CounterVec
	IndicatorsTotal    *prometheus.CounterVec
	AllowlistedTotal   *prometheus.CounterVec
	MatchTimeoutsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers Prometheus metrics for extraction.
//
// Registration happens once per process; later calls return the same value.
//
// Metrics:
//   - iocx_extractions_total{result} - extractions by outcome (found, empty, canceled)
//   - iocx_extraction_duration_seconds - extraction latency
//   - iocx_tokens_total{stream} - tokens examined per stream
//   - iocx_indicators_total{category} - indicators recorded before dedup
//   - iocx_allowlisted_total{category} - indicators dropped by the allowlist
//   - iocx_match_timeouts_total{pattern} - backtracking matches that timed out
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			ExtractionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "iocx_extractions_total",
					Help: "Total number of extractions by result",
				},
				[]string{"result"},
			),

			ExtractionDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "iocx_extraction_duration_seconds",
					Help:    "Duration of a single extraction in seconds",
					Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
				},
			),

			TokensTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "iocx_tokens_total",
					Help: "Total number of candidate tokens examined",
				},
				[]string{"stream"},
			),

			IndicatorsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "iocx_indicators_total",
					Help: "Total number of indicators recorded, before deduplication",
				},
				[]string{"category"},
			),

			AllowlistedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "iocx_allowlisted_total",
					Help: "Total number of classified tokens dropped by the allowlist",
				},
				[]string{"category"},
			),

			MatchTimeoutsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "iocx_match_timeouts_total",
					Help: "Total number of pattern matches abandoned after the match timeout",
				},
				[]string{"pattern"},
			),
		}
	})

	return globalMetrics
}

// RecordExtraction records one extraction outcome and its duration.
func (m *Metrics) RecordExtraction(result string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.WithLabelValues(result).Inc()
	m.ExtractionDuration.Observe(durationSeconds)
}

// RecordTokens records n tokens examined on stream.
func (m *Metrics) RecordTokens(stream Stream, n int) {
	if m == nil {
		return
	}
	m.TokensTotal.WithLabelValues(stream.String()).Add(float64(n))
}

// RecordIndicator records one accepted indicator.
func (m *Metrics) RecordIndicator(category string) {
	if m == nil {
		return
	}
	m.IndicatorsTotal.WithLabelValues(category).Inc()
}

// RecordAllowlisted records one indicator dropped by the allowlist.
func (m *Metrics) RecordAllowlisted(category string) {
	if m == nil {
		return
	}
	m.AllowlistedTotal.WithLabelValues(category).Inc()
}

// RecordTimeout records a match timeout. Its signature fits
// validate.Config.OnTimeout.
func (m *Metrics) RecordTimeout(pattern string) {
	if m == nil {
		return
	}
	m.MatchTimeoutsTotal.WithLabelValues(pattern).Inc()
}
