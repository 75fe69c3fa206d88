package telemetry

import (
	"math"
	"time"
)

// GlobalPosition is the vehicle's most recent pose fix.
type GlobalPosition struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Alt         float64 `json:"alt"`
	RelativeAlt float64 `json:"relative_alt"`
	VX          float64 `json:"vx"`
	VY          float64 `json:"vy"`
	VZ          float64 `json:"vz"`
}

// GroundSpeed returns the horizontal speed in m/s.
func (p GlobalPosition) GroundSpeed() float64 {
	return math.Hypot(p.VX, p.VY)
}

// BatteryStatus is the most recent power-system sample in canonical units.
type BatteryStatus struct {
	RemainingPercent int   `json:"remaining_percent"`  // -1 when unknown
	Temperature      int   `json:"temperature_c"`      // centidegrees Celsius
	Current          int   `json:"current_battery_ma"` // centiamperes
	CurrentConsumed  int   `json:"current_consumed"`   // mAh
	EnergyConsumed   int   `json:"energy_consumed"`    // hJ
	Voltages         []int `json:"voltages"`           // mV per cell
	ID               int   `json:"id"`
	Function         int   `json:"battery_function"`
	Type             int   `json:"mavtype"`
}

// unusedCell marks a cell slot the autopilot does not populate.
const unusedCell = math.MaxUint16

// Percent returns the remaining charge and whether it is known.
func (b BatteryStatus) Percent() (int, bool) {
	if b.RemainingPercent < 0 {
		return 0, false
	}
	return b.RemainingPercent, true
}

// TemperatureC converts the pack temperature to degrees Celsius.
func (b BatteryStatus) TemperatureC() float64 {
	return float64(b.Temperature) / 100
}

// CurrentMA converts the battery current to milliamperes.
func (b BatteryStatus) CurrentMA() int {
	return b.Current * 10
}

// PackVoltage sums the populated cell voltages in millivolts.
func (b BatteryStatus) PackVoltage() (int, bool) {
	total, cells := 0, 0
	for _, mv := range b.Voltages {
		if mv <= 0 || mv >= unusedCell {
			continue
		}
		total += mv
		cells++
	}
	return total, cells > 0
}

// Cells returns the number of populated cells.
func (b BatteryStatus) Cells() int {
	n := 0
	for _, mv := range b.Voltages {
		if mv > 0 && mv < unusedCell {
			n++
		}
	}
	return n
}

// Clone returns a copy that shares no memory with b.
func (b BatteryStatus) Clone() BatteryStatus {
	dup := b
	if b.Voltages != nil {
		dup.Voltages = make([]int, len(b.Voltages))
		copy(dup.Voltages, b.Voltages)
	}
	return dup
}

// Heartbeat marks the last liveness signal from the vehicle link.
type Heartbeat struct {
	Timestamp string `json:"timestamp"`
}

// ParsedTime returns the timestamp as time.Time when possible.
func (h Heartbeat) ParsedTime() time.Time {
	return parseTime(h.Timestamp)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
