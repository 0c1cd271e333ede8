package state

import (
	"github.com/kestrelhq/kestrel/internal/geo"
)

// Default viewport used before any restore or user interaction.
const (
	DefaultCenterLat = 20.0
	DefaultCenterLng = 0.0
	DefaultZoom      = 3.0
)

// AppState is the single session-state object for the browser screen. One
// instance is created at startup (inside a Store), mutated in place by user
// interaction and by the restore sequence, and encoded into the share link.
type AppState struct {
	// Active catalog source and filters.
	SourceID     string
	CollectionID string
	Query        string
	DateStart    string // YYYY-MM-DD, empty when unset
	DateEnd      string // YYYY-MM-DD, empty when unset

	// Spatial filter. BBox and Geometry are mutually exclusive; use SetBBox
	// and SetGeometry so the last write wins.
	BBox     *geo.BBox
	Geometry *geo.Geometry

	// CloudCoverMax is a 0-100 percentage, nil when the filter is disabled.
	CloudCoverMax *int

	// Viewport.
	CenterLat float64
	CenterLng float64
	Zoom      float64

	// Selection. SelectedAssetKey is meaningful only with a selected item.
	SelectedItemID   string
	SelectedAssetKey string
}

// Defaults returns the initial state for the given default source.
func Defaults(sourceID string) AppState {
	return AppState{
		SourceID:  sourceID,
		CenterLat: DefaultCenterLat,
		CenterLng: DefaultCenterLng,
		Zoom:      DefaultZoom,
	}
}

// SetBBox installs a bounding-box spatial filter, clearing any geometry.
func (s *AppState) SetBBox(b geo.BBox) {
	box := b
	s.BBox = &box
	s.Geometry = nil
}

// SetGeometry installs a geometry spatial filter, clearing any bbox. A nil
// geometry clears the spatial filter entirely.
func (s *AppState) SetGeometry(g *geo.Geometry) {
	s.Geometry = g.Clone()
	s.BBox = nil
}

// ClearSpatial removes the spatial filter.
func (s *AppState) ClearSpatial() {
	s.BBox = nil
	s.Geometry = nil
}

// SetCloudCoverMax enables the cloud-cover filter. Values outside 0-100 are
// clamped.
func (s *AppState) SetCloudCoverMax(v int) {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	s.CloudCoverMax = &v
}

// Select records the open result and shown asset. Clearing the item clears
// the asset with it.
func (s *AppState) Select(itemID, assetKey string) {
	s.SelectedItemID = itemID
	if itemID == "" {
		assetKey = ""
	}
	s.SelectedAssetKey = assetKey
}

// Clone returns a deep copy, so snapshots cannot alias the live state.
func (s AppState) Clone() AppState {
	dup := s
	if s.BBox != nil {
		box := *s.BBox
		dup.BBox = &box
	}
	dup.Geometry = s.Geometry.Clone()
	if s.CloudCoverMax != nil {
		cc := *s.CloudCoverMax
		dup.CloudCoverMax = &cc
	}
	return dup
}

// Equal reports whether two states hold the same values. Geometry compares
// by encoded form.
func Equal(a, b AppState) bool {
	if a.SourceID != b.SourceID ||
		a.CollectionID != b.CollectionID ||
		a.Query != b.Query ||
		a.DateStart != b.DateStart ||
		a.DateEnd != b.DateEnd ||
		a.CenterLat != b.CenterLat ||
		a.CenterLng != b.CenterLng ||
		a.Zoom != b.Zoom ||
		a.SelectedItemID != b.SelectedItemID ||
		a.SelectedAssetKey != b.SelectedAssetKey {
		return false
	}
	if (a.BBox == nil) != (b.BBox == nil) {
		return false
	}
	if a.BBox != nil && *a.BBox != *b.BBox {
		return false
	}
	if (a.CloudCoverMax == nil) != (b.CloudCoverMax == nil) {
		return false
	}
	if a.CloudCoverMax != nil && *a.CloudCoverMax != *b.CloudCoverMax {
		return false
	}
	if (a.Geometry == nil) != (b.Geometry == nil) {
		return false
	}
	if a.Geometry != nil {
		ae, aerr := a.Geometry.Encode()
		be, berr := b.Geometry.Encode()
		if aerr != nil || berr != nil || ae != be {
			return false
		}
	}
	return true
}
