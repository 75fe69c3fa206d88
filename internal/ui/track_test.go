package ui

import (
	"strings"
	"testing"

	"github.com/cloudrider/cockpit/internal/prefs"
	"github.com/cloudrider/cockpit/internal/telemetry"
)

func fix(lat, lon float64) *telemetry.GlobalPosition {
	return &telemetry.GlobalPosition{Lat: lat, Lon: lon}
}

func TestTrackView_FollowRecentres(t *testing.T) {
	tv := newTrackView(true, 6)
	tv.observe(fix(47.0, 8.0))
	tv.observe(fix(47.001, 8.0))

	if tv.center != (geoPoint{Lat: 47.001, Lon: 8.0}) {
		t.Fatalf("center = %+v, want latest fix", tv.center)
	}
	if len(tv.points) != 2 {
		t.Fatalf("points = %d, want 2", len(tv.points))
	}
}

func TestTrackView_AnchoredWhenFollowOff(t *testing.T) {
	tv := newTrackView(true, 6)
	tv.observe(fix(47.0, 8.0))
	tv.setFollow(false)
	tv.observe(fix(47.002, 8.0))

	if tv.center != (geoPoint{Lat: 47.0, Lon: 8.0}) {
		t.Fatalf("center moved to %+v while anchored", tv.center)
	}

	tv.setFollow(true)
	if tv.center != (geoPoint{Lat: 47.002, Lon: 8.0}) {
		t.Fatalf("re-enabling follow should snap to latest, got %+v", tv.center)
	}
}

func TestTrackView_FirstFixPlacesAnchoredView(t *testing.T) {
	tv := newTrackView(false, 6)
	if tv.placed {
		t.Fatalf("view should start unplaced")
	}
	tv.observe(fix(10, 20))
	if !tv.placed || tv.center != (geoPoint{Lat: 10, Lon: 20}) {
		t.Fatalf("first fix should place the view: %+v", tv)
	}
}

func TestTrackView_IgnoresDuplicatesAndNil(t *testing.T) {
	tv := newTrackView(true, 6)
	tv.observe(nil)
	tv.observe(fix(1, 1))
	tv.observe(fix(1, 1))
	if len(tv.points) != 1 {
		t.Fatalf("points = %d, want 1", len(tv.points))
	}
}

func TestTrackView_CapsTrail(t *testing.T) {
	tv := newTrackView(true, 6)
	for i := 0; i < trackLimit+10; i++ {
		tv.observe(fix(float64(i)*1e-5, 0))
	}
	if len(tv.points) != trackLimit {
		t.Fatalf("points = %d, want %d", len(tv.points), trackLimit)
	}
	first := 10
	if want := float64(first) * 1e-5; tv.points[0].Lat != want {
		t.Fatalf("oldest kept point = %v", tv.points[0].Lat)
	}
}

func TestTrackView_Zoom(t *testing.T) {
	tv := newTrackView(true, prefs.MaxZoom)
	tv.zoomIn()
	if tv.zoom != prefs.MaxZoom {
		t.Fatalf("zoom above max: %d", tv.zoom)
	}
	before := tv.cellMeters()
	tv.zoomOut()
	if tv.cellMeters() != before*2 {
		t.Fatalf("zooming out should double the cell size")
	}
	for i := 0; i < 20; i++ {
		tv.zoomOut()
	}
	if tv.zoom != prefs.MinZoom {
		t.Fatalf("zoom below min: %d", tv.zoom)
	}
}

func TestTrackView_Render(t *testing.T) {
	tv := newTrackView(false, 6)
	tv.observe(fix(0, 0))
	// One row north at zoom 6.
	tv.observe(fix(tv.cellMeters()/metersPerDeg, 0))

	lines := tv.render(21, 11)
	if len(lines) != 11 {
		t.Fatalf("rows = %d", len(lines))
	}
	for i, line := range lines {
		if len([]rune(line)) != 21 {
			t.Fatalf("row %d width = %d", i, len([]rune(line)))
		}
	}
	if got := []rune(lines[5])[10]; got != markerOrigin {
		t.Fatalf("origin cell = %q, want %q", got, markerOrigin)
	}
	if got := []rune(lines[4])[10]; got != markerVehicle {
		t.Fatalf("vehicle cell = %q, want %q", got, markerVehicle)
	}
}

func TestTrackView_RenderEmpty(t *testing.T) {
	tv := newTrackView(true, 6)
	lines := tv.render(5, 3)
	if strings.Join(lines, "\n") != "     \n  +  \n     " {
		t.Fatalf("empty render = %q", lines)
	}
	if tv.render(0, 3) != nil {
		t.Fatalf("zero width should render nothing")
	}
}

func TestTrackView_OffScreen(t *testing.T) {
	tv := newTrackView(false, prefs.MaxZoom)
	tv.observe(fix(0, 0))
	tv.observe(fix(1, 1))
	last, _ := tv.latest()
	if _, _, ok := tv.project(last, 20, 10); ok {
		t.Fatalf("a fix 100km away should fall outside the grid at max zoom")
	}
}
