package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMetricsAreRegistered(t *testing.T) {
	ImportsTotal.WithLabelValues("sierra", "ok").Inc()
	ImportDuration.WithLabelValues("sierra").Observe(0.2)

	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	found := map[string]bool{}
	for _, mf := range mfs {
		found[mf.GetName()] = true
	}
	for _, name := range []string{"tradejournal_imports_total", "tradejournal_import_duration_seconds"} {
		if !found[name] {
			t.Fatalf("%s metric not found", name)
		}
	}
}

func TestHandlerServesText(t *testing.T) {
	CacheHits.Inc()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), "tradejournal_result_cache_hits_total") {
		t.Fatalf("unexpected /metrics response %d", rec.Code)
	}
}
