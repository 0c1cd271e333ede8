package restore

import (
	"context"

	"github.com/kestrelhq/kestrel/internal/catalog"
	"github.com/kestrelhq/kestrel/internal/geo"
	"github.com/kestrelhq/kestrel/internal/state"
)

// Viewport is the map pane capability.
type Viewport interface {
	// Ready reports whether the pane can accept positioning calls.
	Ready() bool
	SetCenter(lat, lng float64)
	SetZoom(zoom float64)
	// FitBounds positions the viewport to enclose the box.
	FitBounds(b geo.BBox)
}

// Catalog is the remote-source capability.
type Catalog interface {
	ActiveSource() string
	// SwitchSource activates a source; it may retry internally and returns
	// the final error for surfacing, never for halting.
	SwitchSource(ctx context.Context, id string) error
	// CollectionsReady reports whether the active source's collection list
	// is populated.
	CollectionsReady() bool
}

// Searcher executes catalog searches and exposes the latest result set.
type Searcher interface {
	Run(ctx context.Context, filters catalog.Filters)
	Results() []catalog.Item
}

// SelectionDisplay shows one result item. Show is best-effort: it degrades
// internally (named asset, any asset, geometry outline) and reports only
// overall success.
type SelectionDisplay interface {
	Show(item catalog.Item, assetKey string) bool
}

// LinkSink receives rewritten share links. Replacing the link must not raise
// any state-change events, or the observer would feed on its own writes.
type LinkSink interface {
	Replace(link string)
}

// Notifier surfaces a non-blocking notice to the user.
type Notifier interface {
	Notify(text string)
}

// SearchFilters projects session state onto a catalog search request.
func SearchFilters(s state.AppState) catalog.Filters {
	return catalog.Filters{
		Collection:    s.CollectionID,
		Query:         s.Query,
		DateStart:     s.DateStart,
		DateEnd:       s.DateEnd,
		BBox:          s.BBox,
		Geometry:      s.Geometry,
		CloudCoverMax: s.CloudCoverMax,
	}
}
