package ui

import (
	"strings"
	"testing"

	"github.com/kestrelhq/kestrel/internal/catalog"
	"github.com/kestrelhq/kestrel/internal/geo"
)

func TestMapPaneReadyAfterSize(t *testing.T) {
	p := NewMapPane()
	if p.Ready() {
		t.Fatal("pane ready before it has a size")
	}
	p.SetSize(80, 24)
	if !p.Ready() {
		t.Fatal("pane not ready after SetSize")
	}
}

func TestMapPaneSetCenterClamps(t *testing.T) {
	p := NewMapPane()
	p.SetCenter(120, 200)
	lat, lng := p.Center()
	if lat != 90 {
		t.Errorf("lat = %v, want clamped to 90", lat)
	}
	if lng != -160 {
		t.Errorf("lng = %v, want wrapped to -160", lng)
	}
}

func TestMapPaneSetZoomClamps(t *testing.T) {
	p := NewMapPane()
	p.SetZoom(99)
	if got := p.Zoom(); got != maxZoom {
		t.Errorf("Zoom() = %v, want %v", got, maxZoom)
	}
	p.SetZoom(-3)
	if got := p.Zoom(); got != minZoom {
		t.Errorf("Zoom() = %v, want %v", got, minZoom)
	}
}

func TestMapPaneFitBounds(t *testing.T) {
	p := NewMapPane()
	p.SetSize(80, 24)
	p.FitBounds(geo.BBox{West: -10, South: 35, East: 5, North: 45})

	lat, lng := p.Center()
	if lat != 40 || lng != -2.5 {
		t.Errorf("center = (%v, %v), want (40, -2.5)", lat, lng)
	}
	// A 20 degree effective span fits at zoom 4 (22.5 degrees visible) but
	// not zoom 5.
	if got := p.Zoom(); got != 4 {
		t.Errorf("Zoom() = %v, want 4", got)
	}
}

func TestMapPanePanMovesEast(t *testing.T) {
	p := NewMapPane()
	p.SetSize(80, 24)
	p.SetCenter(0, 0)
	p.SetZoom(2)

	p.Pan(8, 0)
	_, lng := p.Center()
	// Zoom 2 shows 90 degrees across 80 cells; 8 cells is 9 degrees.
	if lng != 9 {
		t.Errorf("lng after pan = %v, want 9", lng)
	}
}

func TestMapPaneRenderMarksItems(t *testing.T) {
	p := NewMapPane()
	p.SetSize(40, 12)
	p.SetCenter(40, -2.5)
	p.SetZoom(4)

	items := []catalog.Item{
		{ID: "hit", BBox: []float64{-3, 39.5, -2, 40.5}},
		{ID: "offscreen", BBox: []float64{170, -40, 171, -39}},
	}
	out := NewMapPane().Render(Styles{}, items, "")
	if out != "" {
		t.Fatal("unready pane rendered output")
	}

	out = p.Render(GetTheme("Dracula").Styles(), items, "")
	if !strings.Contains(out, "●") {
		t.Error("render missing marker for on-screen item")
	}
	if lines := strings.Count(out, "\n"); lines != 11 {
		t.Errorf("render has %d newlines, want 11", lines)
	}
}

func TestLngDelta(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0, 10, 10},
		{10, 0, -10},
		{170, -170, 20},
		{-170, 170, -20},
	}
	for _, tt := range tests {
		if got := lngDelta(tt.a, tt.b); got != tt.want {
			t.Errorf("lngDelta(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
