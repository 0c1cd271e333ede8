// Package app provides the composition root for the kestrel application.
//
// # Overview
//
// This package wires together configuration, logging, the event bus, the
// catalog connector, the session store, the share-link machinery and the
// terminal UI. Nothing in here has behavior of its own beyond link-file
// persistence; it exists so every other package can stay ignorant of how
// its collaborators are built.
//
// # Startup Sequence
//
// Run initializes in dependency order:
//
//  1. Load the config file and open the log file
//  2. Load user preferences (theme, link footer)
//  3. Resolve the share link to restore: the explicit option wins,
//     otherwise the persisted link file is read
//  4. Build the state store, codec, bus, connector and executor
//  5. Start the link observer on its bus subscriptions
//  6. Build the restore orchestrator over the UI adapters
//  7. Kick off a background collection refresh for the default source
//  8. Start the UI and, once the program is live, launch the restore
//     goroutine
//
// The restore goroutine starts only inside the UI's onStart callback,
// after the program pointer has been attached to the ProgramSink.
// Starting it earlier would race selection messages against a program
// that cannot receive them yet.
//
// # Link File
//
// LinkFile persists the current share link at the path from the config,
// ~/.local/state/kestrel/link by default. It stands in for a browser's
// address bar: the observer rewrites it on every state change and the next
// cold start reads it back. Writes go through a temp file and rename so a
// crash never leaves a torn link. A failed read degrades to an empty link
// and a failed write is dropped; the link is a convenience, never a
// required resource.
//
// # Shutdown
//
// Run returns when the UI exits or the context is cancelled. The bus is
// closed on the way out, which unblocks every subscriber, and the logger
// is flushed.
package app
