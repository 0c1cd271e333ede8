package catalog

import (
	"github.com/kestrelhq/kestrel/internal/geo"
)

// Collection describes one queryable dataset of a source.
type Collection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// collectionsResponse mirrors GET /collections.
type collectionsResponse struct {
	Collections []Collection `json:"collections"`
}

// Item is one search result feature.
type Item struct {
	ID         string           `json:"id"`
	Collection string           `json:"collection"`
	Geometry   *geo.Geometry    `json:"geometry"`
	BBox       []float64        `json:"bbox"`
	Properties ItemProperties   `json:"properties"`
	Assets     map[string]Asset `json:"assets"`
}

// ItemProperties carries the metadata kestrel cares about.
type ItemProperties struct {
	Datetime   string   `json:"datetime"`
	Platform   string   `json:"platform"`
	CloudCover *float64 `json:"eo:cloud_cover"`
}

// Asset is one renderable or downloadable payload of an item.
type Asset struct {
	Href  string `json:"href"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// itemCollection mirrors POST /search.
type itemCollection struct {
	Features []Item `json:"features"`
}

// Filters is the search request in domain form. Zero values mean "no
// constraint"; BBox and Geometry are mutually exclusive.
type Filters struct {
	Collection    string
	Query         string
	DateStart     string
	DateEnd       string
	BBox          *geo.BBox
	Geometry      *geo.Geometry
	CloudCoverMax *int
}

// searchRequest mirrors the POST /search body.
type searchRequest struct {
	Collections []string       `json:"collections,omitempty"`
	BBox        []float64      `json:"bbox,omitempty"`
	Intersects  *geo.Geometry  `json:"intersects,omitempty"`
	Datetime    string         `json:"datetime,omitempty"`
	Query       map[string]any `json:"query,omitempty"`
	FreeText    string         `json:"q,omitempty"`
	Limit       int            `json:"limit,omitempty"`
}

const searchLimit = 100

func (f Filters) request() searchRequest {
	req := searchRequest{Limit: searchLimit, FreeText: f.Query}
	if f.Collection != "" {
		req.Collections = []string{f.Collection}
	}
	if f.BBox != nil {
		req.BBox = f.BBox.Slice()
	}
	if f.Geometry != nil {
		req.Intersects = f.Geometry
	}
	// The datetime range is meaningful only with both bounds.
	if f.DateStart != "" && f.DateEnd != "" {
		req.Datetime = f.DateStart + "T00:00:00Z/" + f.DateEnd + "T23:59:59Z"
	}
	if f.CloudCoverMax != nil {
		req.Query = map[string]any{
			"eo:cloud_cover": map[string]any{"lte": *f.CloudCoverMax},
		}
	}
	return req
}
