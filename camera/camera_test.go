package camera

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestNewFitsWorld(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected camera at (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 0.5 || cam.MinZoom != 0.5 {
		t.Errorf("expected fit zoom 0.5, got zoom=%f min=%f", cam.Zoom, cam.MinZoom)
	}

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	if !near(minX, 0) || !near(minY, 0) || !near(maxX, 2560) || !near(maxY, 1440) {
		t.Errorf("visible bounds = (%f,%f)-(%f,%f), want whole world", minX, minY, maxX, maxY)
	}
}

func TestScreenSizedWorldIsIdentity(t *testing.T) {
	cam := New(800, 600, 800, 600)

	for _, p := range [][2]float64{{0, 0}, {400, 300}, {123.5, 456.25}} {
		sx, sy := cam.WorldToScreen(p[0], p[1])
		if !near(sx, p[0]) || !near(sy, p[1]) {
			t.Errorf("WorldToScreen(%v) = (%f, %f)", p, sx, sy)
		}
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(2)
	cam.Pan(300, -120)

	for _, tc := range []struct{ sx, sy float64 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	} {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)", tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestZoomClamped(t *testing.T) {
	cam := New(1280, 720, 1280, 720)

	cam.SetZoom(100)
	if cam.Zoom != DefaultMaxZoom {
		t.Errorf("expected zoom clamped to %v, got %v", DefaultMaxZoom, cam.Zoom)
	}
	cam.SetZoom(0.01)
	if cam.Zoom != 1 {
		t.Errorf("expected zoom clamped to fit (1), got %v", cam.Zoom)
	}
}

func TestPanStaysInWorld(t *testing.T) {
	cam := New(1280, 720, 1280, 720)

	// At fit zoom the view cannot move.
	cam.Pan(500, 500)
	if cam.X != 640 || cam.Y != 360 {
		t.Errorf("pan at fit zoom moved camera to (%f, %f)", cam.X, cam.Y)
	}

	cam.SetZoom(2)
	cam.Pan(10000, -10000)
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	if !near(maxX, 1280) || !near(minY, 0) {
		t.Errorf("view escaped world: (%f,%f)-(%f,%f)", minX, minY, maxX, maxY)
	}
}

func TestZoomAtKeepsCursorPoint(t *testing.T) {
	cam := New(1280, 720, 1280, 720)

	wx, wy := cam.ScreenToWorld(900, 200)
	cam.ZoomAt(2, 900, 200)
	ax, ay := cam.ScreenToWorld(900, 200)
	if !near(wx, ax) || !near(wy, ay) {
		t.Errorf("point under cursor moved: (%f,%f) -> (%f,%f)", wx, wy, ax, ay)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 1280, 720)
	cam.ZoomAt(4, 0, 0)

	if !cam.IsVisible(10, 10, 1) {
		t.Error("point near zoom anchor should be visible")
	}
	if cam.IsVisible(1200, 700, 1) {
		t.Error("far corner should be culled at 4x zoom")
	}
}

func TestResizeKeepsZoomValid(t *testing.T) {
	cam := New(1280, 720, 1280, 720)
	cam.Resize(640, 360, 1280, 720)
	if cam.MinZoom != 0.5 {
		t.Errorf("MinZoom = %v, want 0.5", cam.MinZoom)
	}
	cam.Resize(1920, 1080, 1920, 1080)
	if cam.Zoom < cam.MinZoom {
		t.Errorf("zoom %v below min %v after resize", cam.Zoom, cam.MinZoom)
	}
}
