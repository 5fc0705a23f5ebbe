package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RevenueMetrics records revenue aggregation runs.
type RevenueMetrics struct {
	duration *prometheus.HistogramVec
	skipped  prometheus.Counter
	cache    *prometheus.CounterVec
}

// NewRevenueMetrics registers the revenue metrics on the provided registerer.
func NewRevenueMetrics(reg prometheus.Registerer) *RevenueMetrics {
	if reg == nil {
		return &RevenueMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "revenue_aggregation_duration_seconds",
		Help:    "Duration of revenue series aggregation in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"granularity"})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "revenue_orders_skipped_total",
		Help: "Orders skipped by the aggregator because their date could not be parsed.",
	})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revenue_series_cache_total",
		Help: "Revenue series cache lookups by result.",
	}, []string{"result"})
	reg.MustRegister(duration, skipped, cache)
	return &RevenueMetrics{
		duration: duration,
		skipped:  skipped,
		cache:    cache,
	}
}

// ObserveAggregation records how long one aggregation took.
func (m *RevenueMetrics) ObserveAggregation(granularity string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(granularity)).Observe(duration.Seconds())
}

// AddSkipped counts orders ignored because of unusable dates.
func (m *RevenueMetrics) AddSkipped(n int) {
	if m == nil || m.skipped == nil || n <= 0 {
		return
	}
	m.skipped.Add(float64(n))
}

// IncCache counts a cache lookup, result is "hit", "miss" or "error".
func (m *RevenueMetrics) IncCache(result string) {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
