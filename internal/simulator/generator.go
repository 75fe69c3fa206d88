package simulator

import (
	"math"
	"time"

	"github.com/cloudrider/cockpit/internal/telemetry"
)

const (
	fullCellMV  = 4200
	emptyCellMV = 3500
)

// Generator derives telemetry from a plan and the time since takeoff. It is
// deterministic so the same elapsed time always yields the same message.
type Generator struct {
	plan    Plan
	legs    []float64
	loop    float64
	takeoff time.Time
}

// NewGenerator prepares a generator for plan with takeoff at start.
func NewGenerator(plan Plan, start time.Time) *Generator {
	g := &Generator{plan: plan, takeoff: start}
	n := len(plan.Waypoints)
	g.legs = make([]float64, n)
	for i := 0; i < n; i++ {
		a := plan.Waypoints[i]
		b := plan.Waypoints[(i+1)%n]
		g.legs[i] = distance(a.Lat, a.Lon, b.Lat, b.Lon)
		g.loop += g.legs[i]
	}
	return g
}

// Plan returns the plan being flown.
func (g *Generator) Plan() Plan {
	return g.plan
}

// Position interpolates the fix at time now.
func (g *Generator) Position(now time.Time) telemetry.GlobalPosition {
	wps := g.plan.Waypoints
	if len(wps) == 0 || g.loop == 0 {
		home := g.plan.Home
		return telemetry.GlobalPosition{Lat: home.Lat, Lon: home.Lon, Alt: home.Alt}
	}

	travelled := math.Mod(g.elapsed(now).Seconds()*g.plan.SpeedMS, g.loop)
	leg := 0
	for travelled > g.legs[leg] && leg < len(g.legs)-1 {
		travelled -= g.legs[leg]
		leg++
	}
	a := wps[leg]
	b := wps[(leg+1)%len(wps)]
	frac := 0.0
	if g.legs[leg] > 0 {
		frac = travelled / g.legs[leg]
	}

	lat := a.Lat + (b.Lat-a.Lat)*frac
	lon := a.Lon + (b.Lon-a.Lon)*frac
	alt := a.Alt + (b.Alt-a.Alt)*frac

	// NED velocity along the current leg.
	var vx, vy, vz float64
	if g.legs[leg] > 0 {
		north := distance(a.Lat, a.Lon, b.Lat, a.Lon)
		if b.Lat < a.Lat {
			north = -north
		}
		east := distance(a.Lat, a.Lon, a.Lat, b.Lon)
		if b.Lon < a.Lon {
			east = -east
		}
		legTime := g.legs[leg] / g.plan.SpeedMS
		vx = north / legTime
		vy = east / legTime
		vz = -(b.Alt - a.Alt) / legTime
	}

	return telemetry.GlobalPosition{
		Lat:         lat,
		Lon:         lon,
		Alt:         alt,
		RelativeAlt: alt - g.plan.Home.Alt,
		VX:          round2(vx),
		VY:          round2(vy),
		VZ:          round2(vz),
	}
}

// Battery models a linear discharge with a little current ripple.
func (g *Generator) Battery(now time.Time) telemetry.BatteryStatus {
	bp := g.plan.Battery
	minutes := g.elapsed(now).Minutes()

	remaining := 100 - bp.DrainPerMinute*minutes
	if remaining < 0 {
		remaining = 0
	}

	cellMV := emptyCellMV + int(float64(fullCellMV-emptyCellMV)*remaining/100)
	voltages := make([]int, maxBatteryCells)
	for i := range voltages {
		if i < bp.Cells {
			voltages[i] = cellMV - i*3
		} else {
			voltages[i] = math.MaxUint16
		}
	}

	currentA := bp.CurrentA * (1 + 0.08*math.Sin(minutes*2*math.Pi))
	if remaining == 0 {
		currentA = 0
	}
	consumedMAh := bp.CurrentA * 1000 * minutes / 60
	packV := float64(cellMV*bp.Cells) / 1000
	energyHJ := packV * bp.CurrentA * minutes * 60 / 100

	return telemetry.BatteryStatus{
		RemainingPercent: int(math.Round(remaining)),
		Temperature:      int(math.Round((bp.TemperatureC + 0.4*minutes) * 100)),
		Current:          int(math.Round(currentA * 100)),
		CurrentConsumed:  int(math.Round(consumedMAh)),
		EnergyConsumed:   int(math.Round(energyHJ)),
		Voltages:         voltages,
		Function:         1, // MAV_BATTERY_FUNCTION_ALL
		Type:             1, // MAV_BATTERY_TYPE_LIPO
	}
}

// Heartbeat stamps now in RFC 3339.
func (g *Generator) Heartbeat(now time.Time) telemetry.Heartbeat {
	return telemetry.Heartbeat{Timestamp: now.UTC().Format(time.RFC3339Nano)}
}

func (g *Generator) elapsed(now time.Time) time.Duration {
	d := now.Sub(g.takeoff)
	if d < 0 {
		return 0
	}
	return d
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
