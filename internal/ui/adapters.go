package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kestrelhq/kestrel/internal/catalog"
	"github.com/kestrelhq/kestrel/internal/restore"
)

// The restore sequence runs outside the Bubble Tea loop; these adapters turn
// its collaborator calls into program messages. The program is attached once
// it exists, and calls before that are dropped rather than blocked.

// ProgramSink fans messages into a Bubble Tea program.
type ProgramSink struct {
	mu      sync.Mutex
	program *tea.Program
}

// Attach sets the running program.
func (s *ProgramSink) Attach(p *tea.Program) {
	s.mu.Lock()
	s.program = p
	s.mu.Unlock()
}

func (s *ProgramSink) send(msg tea.Msg) bool {
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()
	if p == nil {
		return false
	}
	p.Send(msg)
	return true
}

// SelectionAdapter shows restored selections in the detail pane.
type SelectionAdapter struct {
	Sink *ProgramSink
}

// Show opens the detail pane for the item. It reports false only when the
// program is not running; a missing asset degrades inside the pane instead.
func (a *SelectionAdapter) Show(item catalog.Item, assetKey string) bool {
	return a.Sink.send(showSelectionMsg{item: item, assetKey: assetKey})
}

// NotifierAdapter surfaces restore notices on the status line.
type NotifierAdapter struct {
	Sink *ProgramSink
}

func (a *NotifierAdapter) Notify(text string) {
	a.Sink.send(statusMsg(text))
}

var (
	_ restore.Viewport         = (*MapPane)(nil)
	_ restore.SelectionDisplay = (*SelectionAdapter)(nil)
	_ restore.Notifier         = (*NotifierAdapter)(nil)
)
