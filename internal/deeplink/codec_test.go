package deeplink

import (
	"net/url"
	"strings"
	"testing"

	"github.com/kestrelhq/kestrel/internal/geo"
	"github.com/kestrelhq/kestrel/internal/state"
)

func newTestCodec() *Codec {
	return New(state.Defaults("earth-search"))
}

func TestEncodeDefaultStateIsEmpty(t *testing.T) {
	c := newTestCodec()
	if got := c.Encode(state.Defaults("earth-search"), ""); got != "" {
		t.Fatalf("Encode(defaults) = %q, want empty", got)
	}
}

func TestRoundTripNonDefaultState(t *testing.T) {
	c := newTestCodec()

	s := state.Defaults("earth-search")
	s.SourceID = "planetary"
	s.CollectionID = "sentinel-2-l2a"
	s.Query = "flood aftermath"
	s.DateStart = "2024-01-01"
	s.DateEnd = "2024-02-01"
	s.SetBBox(geo.BBox{West: -10.5, South: 40.25, East: 2.125, North: 50})
	s.SetCloudCoverMax(20)
	s.CenterLat = 45.123456
	s.CenterLng = -4.5
	s.Zoom = 8.5
	s.Select("S2B_MSIL2A_X1", "thumbnail")

	decoded := c.Decode(c.Encode(s, ""))
	if !state.Equal(s, decoded) {
		t.Fatalf("round trip lost data:\n in: %+v\nout: %+v", s, decoded)
	}
}

func TestRoundTripGeometry(t *testing.T) {
	c := newTestCodec()

	g, err := geo.ParseGeometry(`{"type":"Polygon","coordinates":[[[-10,40],[2,40],[2,50],[-10,40]]]}`)
	if err != nil {
		t.Fatalf("ParseGeometry returned error: %v", err)
	}
	s := state.Defaults("earth-search")
	s.SetGeometry(g)

	encoded := c.Encode(s, "")
	if !strings.Contains(encoded, KeyGeometry+"=") {
		t.Fatalf("encoded link missing geometry key: %q", encoded)
	}
	decoded := c.Decode(encoded)
	if decoded.Geometry == nil || decoded.BBox != nil {
		t.Fatalf("decoded spatial filter = bbox:%v geom:%v, want geometry only", decoded.BBox, decoded.Geometry)
	}
	wantBounds, _ := g.Bounds()
	gotBounds, err := decoded.Geometry.Bounds()
	if err != nil {
		t.Fatalf("Bounds returned error: %v", err)
	}
	if gotBounds != wantBounds {
		t.Fatalf("geometry bounds = %v, want %v", gotBounds, wantBounds)
	}
}

func TestDecodeRepresentativeLink(t *testing.T) {
	c := newTestCodec()
	s := c.Decode("?cs=planetary&cn=collectionX&ds=2024-01-01&de=2024-02-01&bbox=-10.0,40.0,2.0,50.0&item_id=ABC123&asset_key=thumbnail")

	if s.SourceID != "planetary" {
		t.Fatalf("SourceID = %q", s.SourceID)
	}
	if s.CollectionID != "collectionX" {
		t.Fatalf("CollectionID = %q", s.CollectionID)
	}
	if s.DateStart != "2024-01-01" || s.DateEnd != "2024-02-01" {
		t.Fatalf("dates = %q..%q", s.DateStart, s.DateEnd)
	}
	if s.BBox == nil || *s.BBox != (geo.BBox{West: -10, South: 40, East: 2, North: 50}) {
		t.Fatalf("BBox = %v", s.BBox)
	}
	if s.SelectedItemID != "ABC123" || s.SelectedAssetKey != "thumbnail" {
		t.Fatalf("selection = (%q, %q)", s.SelectedItemID, s.SelectedAssetKey)
	}
}

func TestDecodeDropsMalformedFieldsIndividually(t *testing.T) {
	c := newTestCodec()
	s := c.Decode("cn=sentinel-2&ds=not-a-date&bbox=1,2,3&cc=250&z=99&c=91,0")

	if s.CollectionID != "sentinel-2" {
		t.Fatalf("CollectionID = %q, want the well-formed field kept", s.CollectionID)
	}
	if s.DateStart != "" {
		t.Fatalf("DateStart = %q, want malformed date dropped", s.DateStart)
	}
	if s.BBox != nil {
		t.Fatalf("BBox = %v, want malformed bbox dropped", s.BBox)
	}
	if s.CloudCoverMax != nil {
		t.Fatalf("CloudCoverMax = %v, want out-of-range value dropped", s.CloudCoverMax)
	}
	def := state.Defaults("earth-search")
	if s.Zoom != def.Zoom || s.CenterLat != def.CenterLat {
		t.Fatal("out-of-range viewport values must revert to defaults")
	}
}

func TestDecodeAssetKeyRequiresItem(t *testing.T) {
	c := newTestCodec()
	s := c.Decode("asset_key=thumbnail")
	if s.SelectedAssetKey != "" {
		t.Fatalf("SelectedAssetKey = %q, want dropped without item_id", s.SelectedAssetKey)
	}
}

func TestDecodeNeverPanicsOnGarbage(t *testing.T) {
	c := newTestCodec()
	inputs := []string{
		"", "?", "%zz", ";;;", "geom=%7Bbroken", "bbox=a,b,c,d&geom=42",
		"c=1,2,3", "z=abc", "cc=-1",
	}
	for _, input := range inputs {
		s := c.Decode(input)
		if !c.IsDefault(s) {
			t.Fatalf("Decode(%q) produced non-default state %+v", input, s)
		}
	}
}

func TestEncodePreservesForeignKeys(t *testing.T) {
	c := newTestCodec()

	s := state.Defaults("earth-search")
	s.CollectionID = "x"

	encoded := c.Encode(s, "?foo=bar&cn=stale&utm_source=mail")
	values, err := url.ParseQuery(encoded)
	if err != nil {
		t.Fatalf("ParseQuery returned error: %v", err)
	}
	if values.Get("foo") != "bar" || values.Get("utm_source") != "mail" {
		t.Fatalf("foreign keys lost: %q", encoded)
	}
	if values.Get(KeyCollection) != "x" {
		t.Fatalf("cn = %q, want the live value, not the stale prior one", values.Get(KeyCollection))
	}
}

func TestEncodeOmitsDefaultSource(t *testing.T) {
	c := newTestCodec()
	s := state.Defaults("earth-search")
	s.Query = "port"
	encoded := c.Encode(s, "")
	if strings.Contains(encoded, KeySource+"=") {
		t.Fatalf("default source must be omitted: %q", encoded)
	}
}

func TestGeometryWinsOverBBoxWhenBothPresent(t *testing.T) {
	c := newTestCodec()
	s := c.Decode(`bbox=-10,40,2,50&geom=%7B%22type%22%3A%22Point%22%2C%22coordinates%22%3A%5B1%2C2%5D%7D`)
	if s.Geometry == nil || s.BBox != nil {
		t.Fatalf("spatial = bbox:%v geom:%v, want geometry to win", s.BBox, s.Geometry)
	}
}
