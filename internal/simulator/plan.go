package simulator

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Waypoint is one corner of the simulated route.
type Waypoint struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
	Alt float64 `yaml:"alt"`
}

// BatteryPlan shapes the simulated power system.
type BatteryPlan struct {
	Cells int `yaml:"cells"`
	// DrainPerMinute is the percentage lost per minute of flight.
	DrainPerMinute float64 `yaml:"drain_per_minute"`
	// CurrentA is the nominal draw in amperes.
	CurrentA float64 `yaml:"current_a"`
	// TemperatureC is the pack temperature at takeoff.
	TemperatureC float64 `yaml:"temperature_c"`
}

// Plan describes a synthetic flight. Routes are flown as a closed loop.
type Plan struct {
	Name      string      `yaml:"name"`
	Home      Waypoint    `yaml:"home"`
	Waypoints []Waypoint  `yaml:"waypoints"`
	SpeedMS   float64     `yaml:"speed_ms"`
	Battery   BatteryPlan `yaml:"battery"`
}

const (
	defaultHomeLat  = 47.397742
	defaultHomeLon  = 8.545594
	defaultHomeAlt  = 488.0
	defaultRadiusM  = 150.0
	defaultCruiseM  = 40.0
	defaultSpeedMS  = 8.0
	circleSegments  = 24
	earthRadiusM    = 6371000.0
	maxBatteryCells = 10
)

// DefaultPlan circles the home point at cruise altitude.
func DefaultPlan() Plan {
	home := Waypoint{Lat: defaultHomeLat, Lon: defaultHomeLon, Alt: defaultHomeAlt}
	wps := make([]Waypoint, 0, circleSegments)
	for i := 0; i < circleSegments; i++ {
		bearing := 2 * math.Pi * float64(i) / circleSegments
		lat, lon := offset(home.Lat, home.Lon, defaultRadiusM*math.Cos(bearing), defaultRadiusM*math.Sin(bearing))
		wps = append(wps, Waypoint{Lat: lat, Lon: lon, Alt: home.Alt + defaultCruiseM})
	}
	return Plan{
		Name:      "default-circle",
		Home:      home,
		Waypoints: wps,
		SpeedMS:   defaultSpeedMS,
		Battery: BatteryPlan{
			Cells:          4,
			DrainPerMinute: 2.5,
			CurrentA:       14,
			TemperatureC:   25,
		},
	}
}

// LoadPlan reads a YAML flight plan. Missing fields take the default plan's
// values.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read flight plan: %w", err)
	}
	plan := DefaultPlan()
	plan.Name = ""
	plan.Waypoints = nil
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return Plan{}, fmt.Errorf("parse flight plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return Plan{}, fmt.Errorf("flight plan %s: %w", path, err)
	}
	return plan, nil
}

// Validate checks the plan can be flown.
func (p Plan) Validate() error {
	var errs []error
	if len(p.Waypoints) < 2 {
		errs = append(errs, errors.New("need at least two waypoints"))
	}
	for i, wp := range p.Waypoints {
		if wp.Lat < -90 || wp.Lat > 90 || wp.Lon < -180 || wp.Lon > 180 {
			errs = append(errs, fmt.Errorf("waypoint %d out of range", i))
		}
	}
	if p.SpeedMS <= 0 {
		errs = append(errs, errors.New("speed_ms must be positive"))
	}
	if p.Battery.Cells < 1 || p.Battery.Cells > maxBatteryCells {
		errs = append(errs, fmt.Errorf("battery cells must be between 1 and %d", maxBatteryCells))
	}
	if p.Battery.DrainPerMinute < 0 {
		errs = append(errs, errors.New("drain_per_minute must not be negative"))
	}
	return errors.Join(errs...)
}

// LoopLength returns the route length in metres.
func (p Plan) LoopLength() float64 {
	var total float64
	for i := range p.Waypoints {
		a := p.Waypoints[i]
		b := p.Waypoints[(i+1)%len(p.Waypoints)]
		total += distance(a.Lat, a.Lon, b.Lat, b.Lon)
	}
	return total
}

// LapTime is how long one loop takes at SpeedMS.
func (p Plan) LapTime() time.Duration {
	if p.SpeedMS <= 0 {
		return 0
	}
	return time.Duration(p.LoopLength() / p.SpeedMS * float64(time.Second))
}

// distance is the haversine distance in metres.
func distance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := lat1 * math.Pi / 180
	p2 := lat2 * math.Pi / 180
	dp := (lat2 - lat1) * math.Pi / 180
	dl := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dp/2)*math.Sin(dp/2) + math.Cos(p1)*math.Cos(p2)*math.Sin(dl/2)*math.Sin(dl/2)
	return 2 * earthRadiusM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// offset moves a point north and east by the given metres.
func offset(lat, lon, northM, eastM float64) (float64, float64) {
	dLat := northM / earthRadiusM * 180 / math.Pi
	dLon := eastM / (earthRadiusM * math.Cos(lat*math.Pi/180)) * 180 / math.Pi
	return lat + dLat, lon + dLon
}
