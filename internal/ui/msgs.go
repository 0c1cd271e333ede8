package ui

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kestrelhq/kestrel/internal/bus"
	"github.com/kestrelhq/kestrel/internal/catalog"
)

// Messages

type tickMsg time.Time

// resultsMsg carries a fresh result set after a search completes.
type resultsMsg struct {
	items    []catalog.Item
	timedOut bool
}

// collectionsMsg carries the active source's collection list.
type collectionsMsg []catalog.Collection

// linkMsg carries the rewritten share link for the footer.
type linkMsg string

// statusMsg is a transient notice line.
type statusMsg string

// showSelectionMsg opens the detail pane for an item. Sent by the restore
// sequence from outside the program loop.
type showSelectionMsg struct {
	item     catalog.Item
	assetKey string
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// awaitResults blocks on the search results topic and converts the next
// publication into a resultsMsg. Update re-issues it after each receipt.
func awaitResults(ch <-chan *message.Message, results func() []catalog.Item) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		msg.Ack()
		var payload bus.SearchResults
		if err := bus.Decode(msg, &payload); err != nil {
			return nil
		}
		return resultsMsg{items: results(), timedOut: payload.TimedOut}
	}
}

// awaitCollections converts the next collections publication.
func awaitCollections(ch <-chan *message.Message, collections func() []catalog.Collection) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		msg.Ack()
		return collectionsMsg(collections())
	}
}

// awaitLink converts the next share-link rewrite.
func awaitLink(ch <-chan *message.Message) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		msg.Ack()
		var payload bus.StateChanged
		if err := bus.Decode(msg, &payload); err != nil {
			return nil
		}
		return linkMsg(payload.Link)
	}
}

// subscribe opens the model's bus subscriptions. It runs during New, before
// the program loop starts, so no publication is missed; a failed subscription
// leaves its channel nil and the corresponding updates off.
func (m *Model) subscribe(ctx context.Context) {
	if ch, err := m.bus.Subscribe(ctx, bus.TopicSearchResults); err == nil {
		m.resultsCh = ch
	}
	if ch, err := m.bus.Subscribe(ctx, bus.TopicCollectionsReady); err == nil {
		m.collectionsCh = ch
	}
	if ch, err := m.bus.Subscribe(ctx, bus.TopicStateChanged); err == nil {
		m.linkCh = ch
	}
}

// awaitCmds issues one await per live subscription.
func (m Model) awaitCmds() []tea.Cmd {
	var cmds []tea.Cmd
	if m.resultsCh != nil {
		cmds = append(cmds, awaitResults(m.resultsCh, m.executor.Results))
	}
	if m.collectionsCh != nil {
		cmds = append(cmds, awaitCollections(m.collectionsCh, m.connector.Collections))
	}
	if m.linkCh != nil {
		cmds = append(cmds, awaitLink(m.linkCh))
	}
	return cmds
}
