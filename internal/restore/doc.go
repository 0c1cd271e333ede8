// Package restore implements deep-link session restoration for kestrel.
//
// # Overview
//
// This package owns two halves of the share-link lifecycle:
//
//  1. Orchestrator: after a cold start, decode a saved link into session
//     state and replay it onto the live application in a strict order.
//  2. Observer: after restoration, watch user-driven state changes and keep
//     the persisted link current.
//
// Both halves go through the same Codec, so a link written by the observer
// restores through the orchestrator without loss.
//
// # Restoration Sequence
//
// The orchestrator advances through a fixed series of phases:
//
//	decoding             parse the link into an AppState
//	awaiting viewport    wait for the map pane to accept positioning calls
//	restoring source     switch the catalog source if the link names one
//	awaiting catalog     wait for the source's collection list
//	restoring filters    replace the session state wholesale
//	restoring viewport   apply center/zoom, or fit the spatial filter
//	executing search     run the search the link describes
//	awaiting results     wait for the result set
//	locating selection   find the linked item among the results
//	displaying selection done
//
// Each waiting phase is bounded by a deadline from Timing. A phase that
// times out is skipped, not fatal: the sequence continues with whatever it
// has, and Run always reaches PhaseDone. Partial restoration beats no
// restoration.
//
// # Suppression
//
// While the sequence replays state, collaborators may raise the same bus
// events a user action would. The observer is suppressed for the duration
// so the link is not rewritten mid-restore with half-applied state. Run
// lifts suppression on every exit path.
//
// # Degradation Policy
//
// Failures shrink the restored scope rather than abort it:
//
//   - Viewport never ready: filters still apply, positioning is skipped.
//   - Source switch fails: the session stays on the active source and the
//     restored state records that source, so the rewritten link tells the
//     truth.
//   - Results never arrive: treated as an empty result set.
//   - Selected item missing from results: the search results still show,
//     the user is notified, and the selection stays in state for the next
//     attempt.
//
// Every degradation is logged and, where the user would otherwise be
// confused, surfaced through the Notifier.
//
// # Collaborator Interfaces
//
// The orchestrator touches the rest of the application only through the
// narrow capability interfaces in collab.go (Viewport, Catalog, Searcher,
// SelectionDisplay, LinkSink, Notifier). The concrete implementations live
// in the catalog and ui packages; tests substitute local doubles.
//
// # Observer Semantics
//
// The observer subscribes to filter, viewport and selection events on the
// bus. On each event it encodes the current state, carrying over query
// parameters it does not own, and writes the result through the LinkSink.
// Identical consecutive links are not rewritten. A StateChanged event is
// published after each write so other components can observe link updates.
//
// # Concurrency
//
// Run executes on its own goroutine, started by the app layer once the UI
// program is live. It is idempotent: a second call returns immediately.
// Phase is safe to read from other goroutines.
package restore
