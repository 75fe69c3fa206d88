package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.FramesTotal.WithLabelValues("Heartbeat").Inc()
	if got := testutil.ToFloat64(b.FramesTotal.WithLabelValues("Heartbeat")); got != 0 {
		t.Fatalf("second registry saw %v frames, want 0", got)
	}
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New()
	m.BytesTotal.Add(42)
	m.DecodeFailuresTotal.WithLabelValues("malformed").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"cockpit_received_bytes_total 42",
		`cockpit_decode_failures_total{reason="malformed"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
