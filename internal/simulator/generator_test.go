package simulator

import (
	"math"
	"testing"
	"time"
)

func squarePlan() Plan {
	p := DefaultPlan()
	p.Home = Waypoint{Lat: 0, Lon: 0, Alt: 100}
	p.Waypoints = []Waypoint{
		{Lat: 0, Lon: 0, Alt: 110},
		{Lat: 0.001, Lon: 0, Alt: 110},
		{Lat: 0.001, Lon: 0.001, Alt: 110},
		{Lat: 0, Lon: 0.001, Alt: 110},
	}
	p.SpeedMS = 10
	return p
}

func TestGenerator_PositionFollowsRoute(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := squarePlan()
	g := NewGenerator(p, start)

	first := g.Position(start)
	if first.Lat != 0 || first.Lon != 0 {
		t.Fatalf("takeoff fix = %+v, want first waypoint", first)
	}
	if first.RelativeAlt != 10 {
		t.Fatalf("relative alt = %v, want 10", first.RelativeAlt)
	}
	if first.VX <= 0 || math.Abs(first.VY) > 0.01 {
		t.Fatalf("first leg should head north, got vx=%v vy=%v", first.VX, first.VY)
	}
	if math.Abs(first.GroundSpeed()-p.SpeedMS) > 0.05 {
		t.Fatalf("ground speed = %v, want %v", first.GroundSpeed(), p.SpeedMS)
	}

	leg := distance(0, 0, 0.001, 0)
	mid := g.Position(start.Add(time.Duration(leg / 2 / p.SpeedMS * float64(time.Second))))
	if math.Abs(mid.Lat-0.0005) > 1e-6 || mid.Lon != 0 {
		t.Fatalf("mid-leg fix = %+v", mid)
	}

	lap := p.LapTime()
	again := g.Position(start.Add(lap))
	if math.Abs(again.Lat) > 1e-6 || math.Abs(again.Lon) > 1e-6 {
		t.Fatalf("after one lap fix = %+v, want back at start", again)
	}
}

func TestGenerator_BatteryDrains(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(DefaultPlan(), start)

	full := g.Battery(start)
	if pct, ok := full.Percent(); !ok || pct != 100 {
		t.Fatalf("percent at takeoff = %d, %v", pct, ok)
	}
	if full.Cells() != DefaultPlan().Battery.Cells {
		t.Fatalf("cells = %d", full.Cells())
	}
	if len(full.Voltages) != maxBatteryCells || full.Voltages[maxBatteryCells-1] != math.MaxUint16 {
		t.Fatalf("unused slots should be 65535: %v", full.Voltages)
	}
	if full.TemperatureC() != 25 {
		t.Fatalf("temperature = %v", full.TemperatureC())
	}

	later := g.Battery(start.Add(10 * time.Minute))
	if later.RemainingPercent != 75 {
		t.Fatalf("percent after 10m = %d, want 75", later.RemainingPercent)
	}
	fullV, _ := full.PackVoltage()
	laterV, _ := later.PackVoltage()
	if laterV >= fullV {
		t.Fatalf("pack voltage should fall: %d -> %d", fullV, laterV)
	}
	if later.CurrentConsumed <= 0 || later.EnergyConsumed <= 0 {
		t.Fatalf("consumption should accumulate: %+v", later)
	}

	empty := g.Battery(start.Add(2 * time.Hour))
	if empty.RemainingPercent != 0 || empty.Current != 0 {
		t.Fatalf("drained battery = %+v", empty)
	}
}

func TestGenerator_HeartbeatIsRFC3339(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(DefaultPlan(), now)
	hb := g.Heartbeat(now)
	if !hb.ParsedTime().Equal(now) {
		t.Fatalf("heartbeat %q does not parse back to %v", hb.Timestamp, now)
	}
}
