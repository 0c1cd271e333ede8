// Package ui provides the Bubble Tea terminal interface for kestrel.
//
// # Architecture Overview
//
// The UI is a single Bubble Tea model composing a map pane, a result list,
// a filter form and a selection detail overlay, styled with lipgloss. All
// session state lives in the state.Store; the model keeps only view state
// (focus, scroll position, open overlays) and re-reads a snapshot on every
// render.
//
// # Package Structure
//
//   - app.go: the Model, key handling, layout and the Run function
//   - mappane.go: the shared map viewport and its character rendering
//   - results.go: result list rendering
//   - filters.go: the filter form and its validation
//   - detail.go: selection detail rendering and asset fallback
//   - msgs.go: Bubble Tea messages and the bus subscription commands
//   - adapters.go: restore-facing adapters over the running program
//   - theme.go: color themes and the derived style set
//
// # Event Flow
//
// The model never blocks in Update. Bus subscriptions are opened before the
// program starts; for each channel a tea.Cmd blocks on the next message,
// converts it to a typed tea.Msg and is re-issued after delivery. State
// mutations flow the other way: key handlers call Store.Mutate and publish
// the matching bus event, which the link observer consumes.
//
// The restore sequence runs on its own goroutine and reaches the UI through
// ProgramSink, which forwards messages via Program.Send once the program is
// live. MapPane is shared directly: it is mutex-guarded, so the restore
// goroutine positions it while the render loop reads it.
//
// # Key Bindings
//
//   - Tab: switch focus between results and map
//   - /: open the filter form
//   - s: run a search with the current filters
//   - S: cycle the catalog source
//   - Enter: open the selected item, a: cycle its asset, ESC: close
//   - h/j/k/l or arrows: pan the map (map focus)
//   - + and -: zoom
//   - w: force a share-link rewrite
//   - F: toggle the link footer, T: cycle the theme
//   - L: activity log, ?: help, q or Ctrl+C: exit
//
// # Usage Example
//
//	opts := ui.Options{
//		Context:   ctx,
//		Store:     store,
//		Connector: connector,
//		Executor:  executor,
//		Bus:       b,
//		MapPane:   pane,
//	}
//	err := ui.Run(opts, func(p *tea.Program) {
//		sink.Attach(p)
//		go orchestrator.Run(ctx)
//	})
//
// The onStart callback receives the program before Run blocks, which is the
// only safe place to hand it to components that call Send.
package ui
