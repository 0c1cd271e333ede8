// Package deeplink translates session state to and from the query-string
// form used by share links.
//
// # Overview
//
// A share link is a URL query string (no leading "?") whose keys are short
// aliases for session-state fields. The Codec owns both directions:
//
//	enc := deeplink.New(state.Defaults("earth-search"))
//	link := enc.Encode(snapshot, priorLink)
//	restored := enc.Decode(link)
//
// # Wire Format
//
// The keys are fixed wire format. Renaming one breaks every link already
// shared, so they never change:
//
//	cs         catalog source id
//	cn         collection id
//	q          free-text query
//	ds, de     date range, YYYY-MM-DD
//	bbox       west,south,east,north
//	geom       encoded geometry, wins over bbox when both appear
//	cc         maximum cloud cover percentage
//	c          viewport center, lat,lng
//	z          viewport zoom
//	item_id    selected item
//	asset_key  selected asset within the item
//
// # Default Omission
//
// Encode writes only fields that differ from the defaults the codec was
// built with. A fresh session therefore encodes to an empty string, and
// links stay short and stable across versions: a key absent from a link
// means "default", whatever the default is in the reading version.
//
// # Foreign Key Preservation
//
// Encode accepts the prior link and carries over any query parameters it
// does not own (tracking parameters, keys added by a newer version). Stale
// values of owned keys in the prior link are dropped, never duplicated.
//
// # Total Decoding
//
// Decode never fails. Each field parses independently; a malformed value
// leaves that one field at its default and the rest of the link still
// applies. An unparseable query string decodes to the defaults.
//
// # IsDefault
//
// IsDefault reports whether a decoded state carries nothing worth
// restoring. The restore sequence uses it to skip cold-start work when the
// saved link is empty or pure noise.
package deeplink
