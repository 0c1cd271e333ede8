package state

import (
	"testing"

	"github.com/kestrelhq/kestrel/internal/geo"
)

func TestDefaults(t *testing.T) {
	s := Defaults("earth-search")
	if s.SourceID != "earth-search" {
		t.Fatalf("SourceID = %q, want earth-search", s.SourceID)
	}
	if s.CenterLat != DefaultCenterLat || s.CenterLng != DefaultCenterLng || s.Zoom != DefaultZoom {
		t.Fatalf("viewport = (%v,%v) z%v, want defaults", s.CenterLat, s.CenterLng, s.Zoom)
	}
	if s.BBox != nil || s.Geometry != nil || s.CloudCoverMax != nil {
		t.Fatal("optional filters should start unset")
	}
}

func TestSpatialLastWriteWins(t *testing.T) {
	var s AppState

	s.SetBBox(geo.BBox{West: -10, South: 40, East: 2, North: 50})
	if s.BBox == nil || s.Geometry != nil {
		t.Fatal("SetBBox should set bbox and clear geometry")
	}

	g, err := geo.ParseGeometry(`{"type":"Point","coordinates":[1,2]}`)
	if err != nil {
		t.Fatalf("ParseGeometry returned error: %v", err)
	}
	s.SetGeometry(g)
	if s.Geometry == nil || s.BBox != nil {
		t.Fatal("SetGeometry should set geometry and clear bbox")
	}

	s.SetBBox(geo.BBox{West: 0, South: 0, East: 1, North: 1})
	if s.BBox == nil || s.Geometry != nil {
		t.Fatal("second SetBBox should clear geometry again")
	}

	s.ClearSpatial()
	if s.BBox != nil || s.Geometry != nil {
		t.Fatal("ClearSpatial should drop both forms")
	}
}

func TestSelectClearsAssetWithoutItem(t *testing.T) {
	var s AppState
	s.Select("ABC", "thumbnail")
	if s.SelectedItemID != "ABC" || s.SelectedAssetKey != "thumbnail" {
		t.Fatalf("selection = (%q, %q)", s.SelectedItemID, s.SelectedAssetKey)
	}
	s.Select("", "thumbnail")
	if s.SelectedItemID != "" || s.SelectedAssetKey != "" {
		t.Fatal("clearing the item must clear the asset key")
	}
}

func TestSetCloudCoverMaxClamps(t *testing.T) {
	var s AppState
	s.SetCloudCoverMax(150)
	if s.CloudCoverMax == nil || *s.CloudCoverMax != 100 {
		t.Fatalf("CloudCoverMax = %v, want 100", s.CloudCoverMax)
	}
	s.SetCloudCoverMax(-5)
	if *s.CloudCoverMax != 0 {
		t.Fatalf("CloudCoverMax = %d, want 0", *s.CloudCoverMax)
	}
}

func TestCloneIsDeep(t *testing.T) {
	var s AppState
	s.SetBBox(geo.BBox{West: 1, South: 2, East: 3, North: 4})
	s.SetCloudCoverMax(30)

	dup := s.Clone()
	dup.BBox.West = 99
	*dup.CloudCoverMax = 99

	if s.BBox.West != 1 || *s.CloudCoverMax != 30 {
		t.Fatal("Clone shares pointer fields with the original")
	}
}

func TestEqual(t *testing.T) {
	base := Defaults("a")
	same := Defaults("a")
	if !Equal(base, same) {
		t.Fatal("identical defaults should compare equal")
	}

	withBox := base.Clone()
	withBox.SetBBox(geo.BBox{West: 1, South: 2, East: 3, North: 4})
	if Equal(base, withBox) {
		t.Fatal("states differing in bbox should not compare equal")
	}

	other := withBox.Clone()
	if !Equal(withBox, other) {
		t.Fatal("clone should compare equal to its source")
	}
}

func TestStoreSnapshotIsolation(t *testing.T) {
	store := NewStore(Defaults("src"))

	store.Mutate(func(s *AppState) {
		s.Query = "flood"
		s.SetBBox(geo.BBox{West: 1, South: 2, East: 3, North: 4})
	})

	snap := store.Snapshot()
	snap.Query = "changed"
	snap.BBox.West = 99

	cur := store.Snapshot()
	if cur.Query != "flood" || cur.BBox.West != 1 {
		t.Fatal("snapshot mutation leaked into the store")
	}

	if store.Defaults().Query != "" {
		t.Fatal("defaults must not follow mutations")
	}
}

func TestStoreReplace(t *testing.T) {
	store := NewStore(Defaults("src"))
	next := Defaults("src")
	next.CollectionID = "sentinel-2"
	store.Replace(next)
	if store.Snapshot().CollectionID != "sentinel-2" {
		t.Fatal("Replace did not install the new state")
	}
}
