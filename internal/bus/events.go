package bus

// Event payloads. These stay deliberately small: subscribers that need the
// full picture read a snapshot from the owning component instead of trusting
// a payload to stay current.

// FiltersChanged reports a user edit to one filter field.
type FiltersChanged struct {
	Field string `json:"field"`
}

// ViewportMoved reports the viewport position after a pan or zoom settles.
type ViewportMoved struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom float64 `json:"zoom"`
}

// SelectionChanged reports the currently open result, empty when closed.
type SelectionChanged struct {
	ItemID   string `json:"item_id"`
	AssetKey string `json:"asset_key,omitempty"`
}

// SearchResults reports a finished search run.
type SearchResults struct {
	RequestID string `json:"request_id"`
	Count     int    `json:"count"`
	TimedOut  bool   `json:"timed_out,omitempty"`
}

// CollectionsReady reports that a source's collection list is populated.
type CollectionsReady struct {
	SourceID string `json:"source_id"`
	Count    int    `json:"count"`
}

// StateChanged is a diagnostics-only notification that the share link was
// rewritten.
type StateChanged struct {
	Link string `json:"link"`
}
