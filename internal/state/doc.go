// Package state holds the session state for the browser screen and the
// thread-safe store that guards it.
//
// # Overview
//
// AppState is the single source of truth for what the user is looking at:
// the active catalog source, the search filters, the map viewport and the
// current selection. One instance lives inside a Store for the lifetime of
// the process. The share-link codec encodes it, the restore sequence
// replaces it, and the UI mutates it field by field.
//
// # Core Types
//
// AppState:
//   - Plain value type, copied freely.
//   - Clone performs a deep copy (BBox, Geometry and CloudCoverMax are
//     pointers).
//   - Equal compares by value, used to skip redundant link rewrites.
//
// Store:
//   - sync.RWMutex around the live AppState.
//   - Snapshot and Defaults return clones, never aliases.
//   - Mutate runs a function under the write lock for atomic multi-field
//     updates.
//   - Replace swaps the whole state when a decoded link is applied.
//
// # Spatial Filter Exclusivity
//
// BBox and Geometry are mutually exclusive spatial filters. SetBBox and
// SetGeometry clear the other one, so the last write wins and the two never
// coexist. Code that assigns the fields directly must maintain the same
// invariant.
//
// # Defaults
//
// Defaults builds the initial state for a given source: viewport centered
// at (20, 0) with zoom 3, everything else empty. The same values feed the
// codec's default omission, so the initial state encodes to an empty link.
//
// # Concurrency Model
//
// Writers are the UI event loop and the restore goroutine; readers are the
// UI render path and the link observer. Reads are frequent and cheap, so
// the store hands out clones instead of exposing the live value.
// The lock is held only for the copy, never across I/O.
package state
