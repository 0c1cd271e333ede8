package ui

import (
	"math"
	"strings"
	"sync"

	"github.com/kestrelhq/kestrel/internal/catalog"
	"github.com/kestrelhq/kestrel/internal/geo"
	"github.com/kestrelhq/kestrel/internal/state"
)

const (
	minZoom = 0.0
	maxZoom = 22.0
)

// MapPane is the character-grid world map. It owns the viewport position and
// is shared between the Bubble Tea model, which renders it, and the restore
// sequence, which positions it from another goroutine, so every access goes
// through the mutex. The pane becomes ready with the first terminal size.
type MapPane struct {
	mu        sync.Mutex
	ready     bool
	width     int
	height    int
	centerLat float64
	centerLng float64
	zoom      float64
}

// NewMapPane creates a pane at the default viewport.
func NewMapPane() *MapPane {
	return &MapPane{
		centerLat: state.DefaultCenterLat,
		centerLng: state.DefaultCenterLng,
		zoom:      state.DefaultZoom,
	}
}

// Ready reports whether the pane has a terminal size to draw into.
func (p *MapPane) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// SetSize records the drawable cell grid and marks the pane ready.
func (p *MapPane) SetSize(width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	p.width = width
	p.height = height
	p.ready = true
}

// SetCenter moves the viewport center.
func (p *MapPane) SetCenter(lat, lng float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.centerLat = clamp(lat, -90, 90)
	p.centerLng = wrapLng(lng)
}

// SetZoom sets the zoom level, clamped to the supported range.
func (p *MapPane) SetZoom(zoom float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.zoom = clamp(zoom, minZoom, maxZoom)
}

// FitBounds centers the viewport on the box and picks the closest zoom level
// that shows all of it.
func (p *MapPane) FitBounds(b geo.BBox) {
	lat, lng := b.Center()
	span := math.Max(b.East-b.West, (b.North-b.South)*2)
	if span <= 0 {
		span = 0.01
	}
	zoom := math.Floor(math.Log2(360 / span))
	p.mu.Lock()
	defer p.mu.Unlock()
	p.centerLat = clamp(lat, -90, 90)
	p.centerLng = wrapLng(lng)
	p.zoom = clamp(zoom, minZoom, maxZoom)
}

// Center returns the viewport center.
func (p *MapPane) Center() (lat, lng float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.centerLat, p.centerLng
}

// Zoom returns the zoom level.
func (p *MapPane) Zoom() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.zoom
}

// Pan shifts the viewport by a fraction of its current span. dx and dy are
// in cells, positive meaning east and south.
func (p *MapPane) Pan(dx, dy int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.width == 0 || p.height == 0 {
		return
	}
	lngPerCell, latPerCell := p.cellSpan()
	p.centerLng = wrapLng(p.centerLng + float64(dx)*lngPerCell)
	p.centerLat = clamp(p.centerLat-float64(dy)*latPerCell, -90, 90)
}

// ZoomBy adjusts the zoom level by delta.
func (p *MapPane) ZoomBy(delta float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.zoom = clamp(p.zoom+delta, minZoom, maxZoom)
}

// cellSpan returns degrees per cell at the current zoom. Terminal cells are
// roughly twice as tall as wide, so a cell covers twice as many degrees of
// latitude. Callers hold the mutex.
func (p *MapPane) cellSpan() (lngPerCell, latPerCell float64) {
	visible := 360 / math.Pow(2, p.zoom)
	lngPerCell = visible / float64(p.width)
	latPerCell = lngPerCell * 2
	return lngPerCell, latPerCell
}

// project maps a coordinate to a cell, with ok=false when off-screen.
// Callers hold the mutex.
func (p *MapPane) project(lat, lng float64) (x, y int, ok bool) {
	lngPerCell, latPerCell := p.cellSpan()
	dx := lngDelta(p.centerLng, lng) / lngPerCell
	dy := (p.centerLat - lat) / latPerCell
	x = p.width/2 + int(math.Round(dx))
	y = p.height/2 + int(math.Round(dy))
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0, 0, false
	}
	return x, y, true
}

// Render draws the grid with a graticule, one marker per locatable item and
// a crosshair at the center.
func (p *MapPane) Render(styles Styles, items []catalog.Item, selectedID string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return ""
	}

	grid := make([][]rune, p.height)
	for y := range grid {
		grid[y] = make([]rune, p.width)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	lngPerCell, latPerCell := p.cellSpan()
	for y := 0; y < p.height; y++ {
		lat := p.centerLat - float64(y-p.height/2)*latPerCell
		for x := 0; x < p.width; x++ {
			lng := wrapLng(p.centerLng + float64(x-p.width/2)*lngPerCell)
			if onGraticule(lat, latPerCell) || onGraticule(lng, lngPerCell) {
				grid[y][x] = '·'
			}
		}
	}

	type mark struct {
		x, y     int
		selected bool
	}
	var marks []mark
	for _, item := range items {
		lat, lng, ok := itemCenter(item)
		if !ok {
			continue
		}
		x, y, visible := p.project(lat, lng)
		if !visible {
			continue
		}
		marks = append(marks, mark{x: x, y: y, selected: item.ID == selectedID})
		grid[y][x] = '●'
	}
	if cy, cx := p.height/2, p.width/2; grid[cy][cx] == ' ' || grid[cy][cx] == '·' {
		grid[cy][cx] = '+'
	}

	selected := map[[2]int]bool{}
	for _, m := range marks {
		if m.selected {
			selected[[2]int{m.x, m.y}] = true
		}
	}

	var b strings.Builder
	for y, row := range grid {
		for x, r := range row {
			switch {
			case r == '●' && selected[[2]int{x, y}]:
				b.WriteString(styles.AccentText.Render("◉"))
			case r == '●':
				b.WriteString(styles.Marker.Render("●"))
			case r == '·':
				b.WriteString(styles.Water.Render("·"))
			default:
				b.WriteRune(r)
			}
		}
		if y < len(grid)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// itemCenter locates an item, preferring its bbox over its geometry.
func itemCenter(item catalog.Item) (lat, lng float64, ok bool) {
	if len(item.BBox) == 4 {
		return (item.BBox[1] + item.BBox[3]) / 2, (item.BBox[0] + item.BBox[2]) / 2, true
	}
	if item.Geometry != nil {
		if b, err := item.Geometry.Bounds(); err == nil {
			lat, lng = b.Center()
			return lat, lng, true
		}
	}
	return 0, 0, false
}

// onGraticule reports whether v sits within half a cell of a 30 degree line.
func onGraticule(v, perCell float64) bool {
	nearest := math.Round(v/30) * 30
	return math.Abs(v-nearest) <= perCell/2
}

// lngDelta is the signed shortest longitudinal distance from a to b.
func lngDelta(a, b float64) float64 {
	d := b - a
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	return d
}

func wrapLng(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
