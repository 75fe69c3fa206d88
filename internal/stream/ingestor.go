package stream

import (
	"errors"
	"unicode/utf8"

	"github.com/cloudrider/cockpit/internal/log"
	"github.com/cloudrider/cockpit/internal/metrics"
	"github.com/cloudrider/cockpit/internal/telemetry"
)

const framePreviewLimit = 120

// Sink receives every successfully decoded message with its frame size.
type Sink interface {
	Apply(msg telemetry.Message, byteLength int)
}

// Ingestor decodes frames and forwards them to a Sink. Frames that fail to
// decode are logged and dropped.
type Ingestor struct {
	sink    Sink
	logger  log.Logger
	metrics *metrics.Metrics
}

// NewIngestor builds an Ingestor. A nil logger discards diagnostics and nil
// metrics get a private registry.
func NewIngestor(sink Sink, logger log.Logger, m *metrics.Metrics) *Ingestor {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if m == nil {
		m = metrics.New()
	}
	// Export a zero series per kind before the first frame arrives.
	for _, k := range telemetry.Kinds() {
		m.FramesTotal.WithLabelValues(k.String())
	}
	return &Ingestor{sink: sink, logger: logger, metrics: m}
}

// Handle decodes one frame. It reports whether the frame reached the sink.
func (in *Ingestor) Handle(frame []byte) bool {
	in.metrics.BytesTotal.Add(float64(len(frame)))

	msg, err := telemetry.Decode(frame)
	if err != nil {
		reason := failureReason(err)
		in.metrics.DecodeFailuresTotal.WithLabelValues(reason).Inc()
		in.logger.Warn("dropping telemetry frame",
			"reason", reason,
			"bytes", len(frame),
			"error", err.Error(),
			"frame", preview(frame),
		)
		return false
	}

	in.metrics.FramesTotal.WithLabelValues(msg.Kind.String()).Inc()
	in.sink.Apply(msg, len(frame))
	return true
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, telemetry.ErrUnknownKind):
		return "unknown_kind"
	case errors.Is(err, telemetry.ErrUnsupportedVersion):
		return "unsupported_version"
	default:
		return "malformed"
	}
}

func preview(frame []byte) string {
	if !utf8.Valid(frame) {
		return "<binary>"
	}
	runes := []rune(string(frame))
	if len(runes) <= framePreviewLimit {
		return string(runes)
	}
	return string(runes[:framePreviewLimit-3]) + "..."
}
