package deeplink

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kestrelhq/kestrel/internal/geo"
	"github.com/kestrelhq/kestrel/internal/state"
)

// Short alias keys. These are wire format: renaming one breaks every link in
// the wild.
const (
	KeySource     = "cs"
	KeyCollection = "cn"
	KeyQuery      = "q"
	KeyDateStart  = "ds"
	KeyDateEnd    = "de"
	KeyBBox       = "bbox"
	KeyGeometry   = "geom"
	KeyCloudCover = "cc"
	KeyCenter     = "c"
	KeyZoom       = "z"
	KeyItem       = "item_id"
	KeyAsset      = "asset_key"
)

const dateLayout = "2006-01-02"

var knownKeys = map[string]struct{}{
	KeySource: {}, KeyCollection: {}, KeyQuery: {}, KeyDateStart: {},
	KeyDateEnd: {}, KeyBBox: {}, KeyGeometry: {}, KeyCloudCover: {},
	KeyCenter: {}, KeyZoom: {}, KeyItem: {}, KeyAsset: {},
}

// Codec translates between AppState and the share-link query string.
type Codec struct {
	defaults state.AppState
}

// New builds a codec around the default state used for omission and as the
// base for decoding.
func New(defaults state.AppState) *Codec {
	return &Codec{defaults: defaults.Clone()}
}

// Encode renders s as a query string (no leading "?"). Keys the codec does
// not own, present in prior, are carried over untouched so out-of-band
// parameters survive rewrites.
func (c *Codec) Encode(s state.AppState, prior string) string {
	values := foreignValues(prior)

	if s.SourceID != "" && s.SourceID != c.defaults.SourceID {
		values.Set(KeySource, s.SourceID)
	}
	if s.CollectionID != "" {
		values.Set(KeyCollection, s.CollectionID)
	}
	if s.Query != "" {
		values.Set(KeyQuery, s.Query)
	}
	if s.DateStart != "" {
		values.Set(KeyDateStart, s.DateStart)
	}
	if s.DateEnd != "" {
		values.Set(KeyDateEnd, s.DateEnd)
	}
	switch {
	case s.BBox != nil:
		values.Set(KeyBBox, s.BBox.String())
	case s.Geometry != nil:
		if encoded, err := s.Geometry.Encode(); err == nil {
			values.Set(KeyGeometry, encoded)
		}
	}
	if s.CloudCoverMax != nil {
		values.Set(KeyCloudCover, strconv.Itoa(*s.CloudCoverMax))
	}
	if s.CenterLat != c.defaults.CenterLat || s.CenterLng != c.defaults.CenterLng {
		values.Set(KeyCenter, geo.FormatCoord(s.CenterLat)+","+geo.FormatCoord(s.CenterLng))
	}
	if s.Zoom != c.defaults.Zoom {
		values.Set(KeyZoom, strconv.FormatFloat(s.Zoom, 'f', -1, 64))
	}
	if s.SelectedItemID != "" {
		values.Set(KeyItem, s.SelectedItemID)
		if s.SelectedAssetKey != "" {
			values.Set(KeyAsset, s.SelectedAssetKey)
		}
	}

	if len(values) == 0 {
		return ""
	}
	return values.Encode()
}

// Decode reconstructs an AppState from a query string. A malformed value
// leaves its field at the default; Decode itself never fails.
func (c *Codec) Decode(raw string) state.AppState {
	s := c.defaults.Clone()

	raw = strings.TrimPrefix(strings.TrimSpace(raw), "?")
	if raw == "" {
		return s
	}
	// ParseQuery keeps the pairs it managed to parse even on error.
	values, _ := url.ParseQuery(raw)

	if v := values.Get(KeySource); v != "" {
		s.SourceID = v
	}
	if v := values.Get(KeyCollection); v != "" {
		s.CollectionID = v
	}
	if v := values.Get(KeyQuery); v != "" {
		s.Query = v
	}
	if v := values.Get(KeyDateStart); v != "" {
		if _, err := time.Parse(dateLayout, v); err == nil {
			s.DateStart = v
		}
	}
	if v := values.Get(KeyDateEnd); v != "" {
		if _, err := time.Parse(dateLayout, v); err == nil {
			s.DateEnd = v
		}
	}
	if v := values.Get(KeyBBox); v != "" {
		if box, err := geo.ParseBBox(v); err == nil {
			s.SetBBox(box)
		}
	}
	if v := values.Get(KeyGeometry); v != "" {
		// Geometry wins when a link carries both spatial forms.
		if g, err := geo.ParseGeometry(v); err == nil {
			s.SetGeometry(g)
		}
	}
	if v := values.Get(KeyCloudCover); v != "" {
		if cc, err := strconv.Atoi(v); err == nil && cc >= 0 && cc <= 100 {
			s.CloudCoverMax = &cc
		}
	}
	if v := values.Get(KeyCenter); v != "" {
		if lat, lng, ok := parseCenter(v); ok {
			s.CenterLat = lat
			s.CenterLng = lng
		}
	}
	if v := values.Get(KeyZoom); v != "" {
		if z, err := strconv.ParseFloat(v, 64); err == nil && z >= 0 && z <= 22 {
			s.Zoom = z
		}
	}
	s.SelectedItemID = values.Get(KeyItem)
	if s.SelectedItemID != "" {
		s.SelectedAssetKey = values.Get(KeyAsset)
	}

	return s
}

// IsDefault reports whether s carries nothing worth restoring.
func (c *Codec) IsDefault(s state.AppState) bool {
	return state.Equal(s, c.defaults)
}

func parseCenter(v string) (lat, lng float64, ok bool) {
	parts := strings.Split(v, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	return lat, lng, true
}

func foreignValues(prior string) url.Values {
	prior = strings.TrimPrefix(strings.TrimSpace(prior), "?")
	parsed, _ := url.ParseQuery(prior)
	for key := range parsed {
		if _, known := knownKeys[key]; known {
			delete(parsed, key)
		}
	}
	return parsed
}
