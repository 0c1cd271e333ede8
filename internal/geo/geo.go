// Package geo provides the small set of geographic primitives kestrel needs:
// bounding boxes, GeoJSON geometries, and the compact textual forms used by
// share links.
package geo

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BBox is a geographic bounding box in west,south,east,north order
// (GeoJSON / STAC convention: minx, miny, maxx, maxy).
type BBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// IsZero reports whether the box is the zero value.
func (b BBox) IsZero() bool {
	return b.West == 0 && b.South == 0 && b.East == 0 && b.North == 0
}

// Center returns the midpoint of the box as (lat, lng).
func (b BBox) Center() (lat, lng float64) {
	return (b.South + b.North) / 2, (b.West + b.East) / 2
}

// Slice returns the box as a 4-element slice in west,south,east,north order.
func (b BBox) Slice() []float64 {
	return []float64{b.West, b.South, b.East, b.North}
}

// String renders the box as four comma-joined coordinates, each truncated to
// six decimal places. This is the share-link form.
func (b BBox) String() string {
	parts := []string{
		FormatCoord(b.West),
		FormatCoord(b.South),
		FormatCoord(b.East),
		FormatCoord(b.North),
	}
	return strings.Join(parts, ",")
}

// ParseBBox parses the comma-joined form produced by String. The order is
// west,south,east,north.
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 4 {
		return BBox{}, fmt.Errorf("bbox needs 4 coordinates, got %d", len(parts))
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("parse bbox coordinate %q: %w", p, err)
		}
		vals[i] = v
	}
	box := BBox{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}
	if box.West > box.East || box.South > box.North {
		return BBox{}, fmt.Errorf("bbox %q is inverted", s)
	}
	if box.South < -90 || box.North > 90 || box.West < -180 || box.East > 180 {
		return BBox{}, fmt.Errorf("bbox %q is out of range", s)
	}
	return box, nil
}

// FormatCoord renders a coordinate truncated (not rounded) to six decimal
// places, without trailing zeros.
func FormatCoord(v float64) string {
	truncated := math.Trunc(v*1e6) / 1e6
	return strconv.FormatFloat(truncated, 'f', -1, 64)
}

// Geometry is a GeoJSON geometry. Coordinates stay raw until a caller needs
// the bounds; malformed coordinate arrays surface as errors from Bounds, not
// as decode failures.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// ParseGeometry decodes a GeoJSON geometry object from its textual form.
func ParseGeometry(s string) (*Geometry, error) {
	var g Geometry
	if err := json.Unmarshal([]byte(s), &g); err != nil {
		return nil, fmt.Errorf("parse geometry: %w", err)
	}
	if strings.TrimSpace(g.Type) == "" {
		return nil, fmt.Errorf("geometry has no type")
	}
	if len(g.Coordinates) == 0 {
		return nil, fmt.Errorf("geometry %q has no coordinates", g.Type)
	}
	if _, err := g.Bounds(); err != nil {
		return nil, err
	}
	return &g, nil
}

// Encode renders the geometry back to compact JSON.
func (g *Geometry) Encode() (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("encode geometry: %w", err)
	}
	return string(data), nil
}

// Clone returns a deep copy.
func (g *Geometry) Clone() *Geometry {
	if g == nil {
		return nil
	}
	dup := Geometry{Type: g.Type}
	if len(g.Coordinates) > 0 {
		dup.Coordinates = make(json.RawMessage, len(g.Coordinates))
		copy(dup.Coordinates, g.Coordinates)
	}
	return &dup
}

// Bounds computes the bounding box enclosing every position in the geometry.
// GeoJSON positions are [lng, lat] pairs at arbitrary nesting depth, so the
// walk recurses until it hits numbers.
func (g *Geometry) Bounds() (BBox, error) {
	var coords any
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
		return BBox{}, fmt.Errorf("parse %s coordinates: %w", g.Type, err)
	}
	acc := boundsAccumulator{
		minLng: math.Inf(1), minLat: math.Inf(1),
		maxLng: math.Inf(-1), maxLat: math.Inf(-1),
	}
	if err := acc.walk(coords); err != nil {
		return BBox{}, err
	}
	if acc.count == 0 {
		return BBox{}, fmt.Errorf("%s geometry has no positions", g.Type)
	}
	return BBox{West: acc.minLng, South: acc.minLat, East: acc.maxLng, North: acc.maxLat}, nil
}

type boundsAccumulator struct {
	minLng, minLat float64
	maxLng, maxLat float64
	count          int
}

func (a *boundsAccumulator) walk(node any) error {
	arr, ok := node.([]any)
	if !ok {
		return fmt.Errorf("unexpected coordinate node %T", node)
	}
	if len(arr) == 0 {
		return nil
	}
	// A position is an array whose first element is a number.
	if _, isNum := arr[0].(float64); isNum {
		if len(arr) < 2 {
			return fmt.Errorf("position with %d components", len(arr))
		}
		lng, ok1 := arr[0].(float64)
		lat, ok2 := arr[1].(float64)
		if !ok1 || !ok2 {
			return fmt.Errorf("non-numeric position components")
		}
		a.add(lng, lat)
		return nil
	}
	for _, child := range arr {
		if err := a.walk(child); err != nil {
			return err
		}
	}
	return nil
}

func (a *boundsAccumulator) add(lng, lat float64) {
	a.minLng = math.Min(a.minLng, lng)
	a.maxLng = math.Max(a.maxLng, lng)
	a.minLat = math.Min(a.minLat, lat)
	a.maxLat = math.Max(a.maxLat, lat)
	a.count++
}
