package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ImportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tradejournal_imports_total", Help: "Imports processed, by platform and outcome"},
		[]string{"platform", "outcome"},
	)
	TradesProduced = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tradejournal_trades_produced_total", Help: "Rows produced by the normalization engine"},
		[]string{"platform"},
	)
	RowsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tradejournal_rows_skipped_total", Help: "Unparseable rows dropped during normalization"},
		[]string{"platform"},
	)
	FallbackUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tradejournal_fill_fallback_total", Help: "Imports that degraded to one record per fill"},
		[]string{"platform"},
	)
	ImportDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tradejournal_import_duration_seconds",
			Help:    "Time spent normalizing one upload",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"platform"},
	)
	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "tradejournal_result_cache_hits_total", Help: "Uploads answered from the result cache"},
	)
)

func init() {
	prometheus.MustRegister(ImportsTotal, TradesProduced, RowsSkipped, FallbackUsed, ImportDuration, CacheHits)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
