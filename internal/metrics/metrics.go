package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the ingestor collectors on a private registry so several
// sessions (and tests) never collide on the global one.
type Metrics struct {
	Registry *prometheus.Registry

	// FramesTotal counts decoded frames by kind.
	FramesTotal *prometheus.CounterVec

	// DecodeFailuresTotal counts dropped frames by reason
	// (malformed, unknown_kind, unsupported_version).
	DecodeFailuresTotal *prometheus.CounterVec

	// BytesTotal counts raw frame bytes, including dropped frames.
	BytesTotal prometheus.Counter

	// LinkUp is 1 while the session is streaming.
	LinkUp prometheus.Gauge
}

// New registers a fresh set of collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FramesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cockpit_frames_total",
				Help: "Telemetry frames decoded and applied, by message kind.",
			},
			[]string{"kind"},
		),
		DecodeFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cockpit_decode_failures_total",
				Help: "Telemetry frames dropped at the decode boundary, by reason.",
			},
			[]string{"reason"},
		),
		BytesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cockpit_received_bytes_total",
				Help: "Raw bytes received from the telemetry stream.",
			},
		),
		LinkUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "cockpit_link_up",
				Help: "Telemetry link status (1=streaming, 0=otherwise).",
			},
		),
	}

	m.Registry.MustRegister(
		m.FramesTotal,
		m.DecodeFailuresTotal,
		m.BytesTotal,
		m.LinkUp,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
