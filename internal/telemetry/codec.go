package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Schema versions carried in the optional "v" envelope field.
const (
	SchemaAuto   = 0 // detect from field names
	SchemaLegacy = 1 // battery_remaining / temperature / current_battery
	SchemaV2     = 2 // remaining_percent / temperature_c / current_battery_ma
)

var (
	// ErrMalformedFrame reports a frame that is not a valid envelope or payload.
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrUnknownKind reports an envelope whose type tag is not recognised.
	ErrUnknownKind = errors.New("unknown message type")
	// ErrUnsupportedVersion reports an envelope schema version this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported schema version")
)

type envelope struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Version int             `json:"v,omitempty"`
}

type wirePosition struct {
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	Alt         float64  `json:"alt"`
	RelativeAlt float64  `json:"relative_alt"`
	VX          float64  `json:"vx"`
	VY          float64  `json:"vy"`
	VZ          float64  `json:"vz"`
}

// wireBattery accepts both battery schemas. Numbers are read as float64 because
// some producers emit f32 values for integer quantities.
type wireBattery struct {
	RemainingPercent *float64 `json:"remaining_percent"`
	TemperatureC     *float64 `json:"temperature_c"`
	CurrentMA        *float64 `json:"current_battery_ma"`

	BatteryRemaining *float64 `json:"battery_remaining"`
	Temperature      *float64 `json:"temperature"`
	CurrentBattery   *float64 `json:"current_battery"`

	CurrentConsumed float64   `json:"current_consumed"`
	EnergyConsumed  float64   `json:"energy_consumed"`
	Voltages        []float64 `json:"voltages"`
	ID              float64   `json:"id"`
	Function        float64   `json:"battery_function"`
	Type            float64   `json:"mavtype"`
}

func (w wireBattery) hasV2Fields() bool {
	return w.RemainingPercent != nil || w.TemperatureC != nil || w.CurrentMA != nil
}

type wireHeartbeat struct {
	Timestamp string `json:"timestamp"`
}

// Decode parses one frame into a Message. Field-name variants are normalised
// here so nothing downstream depends on the producer's schema version.
func Decode(frame []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if env.Type == "" {
		return Message{}, fmt.Errorf("%w: missing type", ErrMalformedFrame)
	}
	kind, ok := ParseKind(env.Type)
	if !ok {
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownKind, env.Type)
	}
	if env.Version < SchemaAuto || env.Version > SchemaV2 {
		return Message{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Message{}, fmt.Errorf("%w: %s without data", ErrMalformedFrame, env.Type)
	}

	switch kind {
	case KindPosition:
		return decodePosition(data)
	case KindBattery:
		return decodeBattery(data, env.Version)
	case KindHeartbeat:
		return decodeHeartbeat(data)
	}
	return Message{}, fmt.Errorf("%w: %q", ErrUnknownKind, env.Type)
}

func decodePosition(data []byte) (Message, error) {
	var w wirePosition
	if err := json.Unmarshal(data, &w); err != nil {
		return Message{}, fmt.Errorf("%w: position: %v", ErrMalformedFrame, err)
	}
	if w.Lat == nil || w.Lon == nil {
		return Message{}, fmt.Errorf("%w: position without lat/lon", ErrMalformedFrame)
	}
	return PositionMessage(GlobalPosition{
		Lat:         *w.Lat,
		Lon:         *w.Lon,
		Alt:         w.Alt,
		RelativeAlt: w.RelativeAlt,
		VX:          w.VX,
		VY:          w.VY,
		VZ:          w.VZ,
	}), nil
}

func decodeBattery(data []byte, version int) (Message, error) {
	var w wireBattery
	if err := json.Unmarshal(data, &w); err != nil {
		return Message{}, fmt.Errorf("%w: battery: %v", ErrMalformedFrame, err)
	}
	if version == SchemaAuto {
		version = SchemaLegacy
		if w.hasV2Fields() {
			version = SchemaV2
		}
	}

	remaining, temperature, current := w.BatteryRemaining, w.Temperature, w.CurrentBattery
	if version == SchemaV2 {
		remaining, temperature, current = w.RemainingPercent, w.TemperatureC, w.CurrentMA
	}

	var conv intConverter
	status := BatteryStatus{
		RemainingPercent: -1,
		Temperature:      conv.optional("temperature", temperature),
		Current:          conv.optional("current", current),
		CurrentConsumed:  conv.value("current_consumed", w.CurrentConsumed),
		EnergyConsumed:   conv.value("energy_consumed", w.EnergyConsumed),
		ID:               conv.value("id", w.ID),
		Function:         conv.value("battery_function", w.Function),
		Type:             conv.value("mavtype", w.Type),
	}
	if remaining != nil {
		status.RemainingPercent = conv.value("remaining", *remaining)
	}
	if len(w.Voltages) > 0 {
		status.Voltages = make([]int, len(w.Voltages))
		for i, mv := range w.Voltages {
			status.Voltages[i] = conv.value("voltages", mv)
		}
	}
	if conv.err != nil {
		return Message{}, fmt.Errorf("%w: battery: %v", ErrMalformedFrame, conv.err)
	}
	return Message{Kind: KindBattery, Battery: &status}, nil
}

func decodeHeartbeat(data []byte) (Message, error) {
	var w wireHeartbeat
	if err := json.Unmarshal(data, &w); err != nil {
		return Message{}, fmt.Errorf("%w: heartbeat: %v", ErrMalformedFrame, err)
	}
	if w.Timestamp == "" {
		return Message{}, fmt.Errorf("%w: heartbeat without timestamp", ErrMalformedFrame)
	}
	return HeartbeatMessage(Heartbeat{Timestamp: w.Timestamp}), nil
}

// intConverter rounds wire numbers into int fields and keeps the first
// value that does not fit in an int32.
type intConverter struct {
	err error
}

func (c *intConverter) optional(field string, v *float64) int {
	if v == nil {
		return 0
	}
	return c.value(field, *v)
}

func (c *intConverter) value(field string, v float64) int {
	r := math.Round(v)
	if math.IsNaN(r) || r < math.MinInt32 || r > math.MaxInt32 {
		if c.err == nil {
			c.err = fmt.Errorf("%s %g out of range", field, v)
		}
		return 0
	}
	return int(r)
}

type legacyBattery struct {
	BatteryRemaining int   `json:"battery_remaining"`
	Temperature      int   `json:"temperature"`
	CurrentBattery   int   `json:"current_battery"`
	CurrentConsumed  int   `json:"current_consumed"`
	EnergyConsumed   int   `json:"energy_consumed"`
	Voltages         []int `json:"voltages"`
	ID               int   `json:"id"`
	Function         int   `json:"battery_function"`
	Type             int   `json:"mavtype"`
}

// Encode renders msg as an envelope in the requested schema version. The
// version only changes the battery field names; SchemaAuto omits the "v" field
// and uses canonical names.
func Encode(msg Message, version int) ([]byte, error) {
	if !msg.Valid() {
		return nil, fmt.Errorf("encode %s: payload does not match kind", msg.Kind)
	}
	if version < SchemaAuto || version > SchemaV2 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	var payload any
	switch msg.Kind {
	case KindPosition:
		payload = msg.Position
	case KindHeartbeat:
		payload = msg.Heartbeat
	case KindBattery:
		b := msg.Battery
		if version == SchemaLegacy {
			payload = legacyBattery{
				BatteryRemaining: b.RemainingPercent,
				Temperature:      b.Temperature,
				CurrentBattery:   b.Current,
				CurrentConsumed:  b.CurrentConsumed,
				EnergyConsumed:   b.EnergyConsumed,
				Voltages:         b.Voltages,
				ID:               b.ID,
				Function:         b.Function,
				Type:             b.Type,
			}
		} else {
			payload = b
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msg.Kind, err)
	}
	return json.Marshal(envelope{Type: msg.Kind.String(), Data: data, Version: version})
}
