package ui

import (
	"math"
	"strings"

	"github.com/cloudrider/cockpit/internal/prefs"
	"github.com/cloudrider/cockpit/internal/telemetry"
)

const (
	trackLimit     = 512
	metersPerDeg   = 111320.0
	baseCellMeters = 400.0

	markerVehicle = '@'
	markerTrail   = '.'
	markerOrigin  = 'H'
	markerCenter  = '+'
)

type geoPoint struct {
	Lat float64
	Lon float64
}

// trackView is the terminal stand-in for a map: recent fixes projected onto
// a character grid. It is view state only and never feeds back into the
// live state.
type trackView struct {
	points []geoPoint
	center geoPoint
	placed bool
	follow bool
	zoom   int
}

func newTrackView(follow bool, zoom int) trackView {
	return trackView{follow: follow, zoom: prefs.ClampZoom(zoom)}
}

// observe records p if it differs from the last fix. With follow on the view
// recentres on every new fix; the first fix always places the view.
func (t *trackView) observe(p *telemetry.GlobalPosition) {
	if p == nil {
		return
	}
	pt := geoPoint{Lat: p.Lat, Lon: p.Lon}
	if n := len(t.points); n > 0 && t.points[n-1] == pt {
		return
	}
	t.points = append(t.points, pt)
	if len(t.points) > trackLimit {
		t.points = append(t.points[:0], t.points[len(t.points)-trackLimit:]...)
	}
	if t.follow || !t.placed {
		t.center = pt
		t.placed = true
	}
}

// setFollow toggles following. Turning it off leaves the view anchored where
// it is; turning it on snaps back to the latest fix.
func (t *trackView) setFollow(on bool) {
	t.follow = on
	if on {
		if last, ok := t.latest(); ok {
			t.center = last
			t.placed = true
		}
	}
}

func (t *trackView) zoomIn() {
	t.zoom = prefs.ClampZoom(t.zoom + 1)
}

func (t *trackView) zoomOut() {
	t.zoom = prefs.ClampZoom(t.zoom - 1)
}

func (t trackView) latest() (geoPoint, bool) {
	if len(t.points) == 0 {
		return geoPoint{}, false
	}
	return t.points[len(t.points)-1], true
}

// cellMeters is the ground distance covered by one row. Each zoom level
// halves it; columns cover half as much because terminal cells are tall.
func (t trackView) cellMeters() float64 {
	return baseCellMeters / math.Pow(2, float64(t.zoom-1))
}

// project maps p to a grid cell. ok is false when p falls outside.
func (t trackView) project(p geoPoint, width, height int) (col, row int, ok bool) {
	cell := t.cellMeters()
	north := (p.Lat - t.center.Lat) * metersPerDeg
	east := (p.Lon - t.center.Lon) * metersPerDeg * math.Cos(t.center.Lat*math.Pi/180)

	col = width/2 + int(math.Round(east/(cell/2)))
	row = height/2 - int(math.Round(north/cell))
	ok = col >= 0 && col < width && row >= 0 && row < height
	return col, row, ok
}

// render draws the grid as plain lines of exactly width runes.
func (t trackView) render(width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	grid[height/2][width/2] = markerCenter

	if !t.placed {
		return gridLines(grid)
	}

	for _, p := range t.points {
		if c, r, ok := t.project(p, width, height); ok {
			grid[r][c] = markerTrail
		}
	}
	if c, r, ok := t.project(t.points[0], width, height); ok {
		grid[r][c] = markerOrigin
	}
	if last, ok := t.latest(); ok {
		if c, r, ok := t.project(last, width, height); ok {
			grid[r][c] = markerVehicle
		}
	}
	return gridLines(grid)
}

// scaleLabel describes the width of the grid on the ground.
func (t trackView) scaleLabel(width int) string {
	meters := float64(width) * t.cellMeters() / 2
	if meters >= 1000 {
		return formatKilometers(meters / 1000)
	}
	return formatWholeMeters(meters)
}

func gridLines(grid [][]rune) []string {
	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = string(row)
	}
	return lines
}
