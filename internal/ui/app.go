package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kestrelhq/kestrel/internal/applog"
	"github.com/kestrelhq/kestrel/internal/bus"
	"github.com/kestrelhq/kestrel/internal/catalog"
	"github.com/kestrelhq/kestrel/internal/config"
	"github.com/kestrelhq/kestrel/internal/prefs"
	"github.com/kestrelhq/kestrel/internal/restore"
	"github.com/kestrelhq/kestrel/internal/state"
)

// focusedPane values.
const (
	paneResults = iota
	paneMap
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Connector *catalog.Connector
	Executor  *catalog.Executor
	Bus       *bus.Bus
	Config    *config.Config
	MapPane   *MapPane
	ThemeName string
	PrefsPath string
	LogPath   string
	ShowLink  bool
	PollTick  time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	store     *state.Store
	connector *catalog.Connector
	executor  *catalog.Executor
	bus       *bus.Bus
	config    *config.Config
	prefsPath string
	logPath   string
	pollTick  time.Duration

	// UI state
	theme       Theme
	styles      Styles
	width       int
	height      int
	ready       bool
	focusedPane int
	showHelp    bool
	showDetail  bool
	showLog     bool
	showLink    bool
	logLines    []string

	// Map state, shared with the restore sequence.
	mapPane *MapPane

	// Data state
	results     []catalog.Item
	collections []catalog.Collection
	selectedRow int
	detailItem  *catalog.Item
	detailAsset string
	shareLink   string
	searching   bool
	timedOut    bool

	// Status line
	status      string
	statusUntil time.Time

	// Filter editing
	filterForm filterForm

	// Bus subscriptions
	resultsCh     <-chan *message.Message
	collectionsCh <-chan *message.Message
	linkCh        <-chan *message.Message
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	mapPane := opts.MapPane
	if mapPane == nil {
		mapPane = NewMapPane()
	}

	theme := GetTheme(themeName)
	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		connector: opts.Connector,
		executor:  opts.Executor,
		bus:       opts.Bus,
		config:    opts.Config,
		prefsPath: prefsPath,
		logPath:   opts.LogPath,
		pollTick:  pollTick,
		theme:     theme,
		styles:    theme.Styles(),
		mapPane:   mapPane,
		showLink:  opts.ShowLink,
	}
	m.subscribe(ctx)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	cmds = append(cmds, m.awaitCmds()...)
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.mapPane.SetSize(m.mapWidth(), m.contentHeight())
		if !m.ready {
			m.filterForm = newFilterForm()
		}
		m.ready = true
		return m, nil

	case tickMsg:
		if !m.statusUntil.IsZero() && time.Now().After(m.statusUntil) {
			m.status = ""
			m.statusUntil = time.Time{}
		}
		return m, tickCmd(m.pollTick)

	case resultsMsg:
		m.results = msg.items
		m.timedOut = msg.timedOut
		m.searching = false
		if m.selectedRow >= len(m.results) {
			m.selectedRow = 0
		}
		return m, awaitResults(m.resultsCh, m.executor.Results)

	case collectionsMsg:
		m.collections = msg
		return m, awaitCollections(m.collectionsCh, m.connector.Collections)

	case linkMsg:
		m.shareLink = string(msg)
		return m, awaitLink(m.linkCh)

	case statusMsg:
		m.setStatus(string(msg))
		return m, nil

	case showSelectionMsg:
		item := msg.item
		m.detailItem = &item
		m.detailAsset = msg.assetKey
		m.showDetail = true
		for i := range m.results {
			if m.results[i].ID == item.ID {
				m.selectedRow = i
				break
			}
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLog {
		return m.renderLog()
	}
	if m.filterForm.active {
		return m.renderFilterForm()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.showLog {
		m.showLog = false
		m.logLines = nil
		return m, nil
	}
	if m.filterForm.active {
		return m.handleFilterKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "L":
		lines, err := applog.Tail(m.logPath, m.contentHeight())
		if err != nil {
			m.setStatus("read log: " + err.Error())
			return m, nil
		}
		m.logLines = lines
		m.showLog = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.styles = m.theme.Styles()
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, ShowLink: m.showLink})
		}
		return m, nil

	case "F":
		m.showLink = !m.showLink
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, ShowLink: m.showLink})
		}
		return m, nil

	case "w":
		// Force a link rewrite from the current state.
		if err := m.bus.Publish(bus.TopicFiltersChanged, bus.FiltersChanged{Field: "manual"}); err != nil {
			m.setStatus("rewrite failed: " + err.Error())
		} else {
			m.setStatus("link rewritten")
		}
		return m, nil

	case "tab":
		if m.focusedPane == paneResults {
			m.focusedPane = paneMap
		} else {
			m.focusedPane = paneResults
		}
		return m, nil

	case "/":
		m.filterForm.open(m.store.Snapshot())
		return m, nil

	case "s":
		return m, m.runSearch()

	case "S":
		return m, m.cycleSource()

	case "a":
		m.cycleAsset()
		return m, nil

	case "enter":
		m.openSelection()
		return m, nil

	case "esc":
		if m.showDetail {
			m.closeSelection()
			return m, nil
		}
		return m, nil

	case "+", "=":
		m.zoomBy(1)
		return m, nil

	case "-":
		m.zoomBy(-1)
		return m, nil
	}

	if m.focusedPane == paneMap {
		return m.handleMapKey(msg)
	}
	return m.handleResultsKey(msg)
}

func (m *Model) handleMapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		m.panBy(-4, 0)
	case "l", "right":
		m.panBy(4, 0)
	case "k", "up":
		m.panBy(0, -2)
	case "j", "down":
		m.panBy(0, 2)
	}
	return *m, nil
}

func (m *Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.results)
	if count == 0 {
		return *m, nil
	}
	switch msg.String() {
	case "j", "down":
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
	case "k", "up":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "g", "home":
		m.selectedRow = 0
	case "G", "end":
		m.selectedRow = count - 1
	}
	return *m, nil
}

// panBy moves the map and records the settled viewport in the state.
func (m *Model) panBy(dx, dy int) {
	m.mapPane.Pan(dx, dy)
	m.publishViewport()
}

func (m *Model) zoomBy(delta float64) {
	m.mapPane.ZoomBy(delta)
	m.publishViewport()
}

func (m *Model) publishViewport() {
	lat, lng := m.mapPane.Center()
	zoom := m.mapPane.Zoom()
	m.store.Mutate(func(s *state.AppState) {
		s.CenterLat = lat
		s.CenterLng = lng
		s.Zoom = zoom
	})
	if err := m.bus.Publish(bus.TopicViewportMoved, bus.ViewportMoved{Lat: lat, Lng: lng, Zoom: zoom}); err != nil {
		m.setStatus("viewport event lost: " + err.Error())
	}
}

// runSearch kicks off a search with the current filters.
func (m *Model) runSearch() tea.Cmd {
	m.searching = true
	m.timedOut = false
	m.executor.Run(m.ctx, restore.SearchFilters(m.store.Snapshot()))
	return nil
}

// cycleSource switches to the next configured source.
func (m *Model) cycleSource() tea.Cmd {
	sources := m.config.Sources
	if len(sources) < 2 {
		return nil
	}
	active := m.connector.ActiveSource()
	next := sources[0].ID
	for i, src := range sources {
		if src.ID == active {
			next = sources[(i+1)%len(sources)].ID
			break
		}
	}
	connector, b, store := m.connector, m.bus, m.store
	m.setStatus("switching to " + next)
	return func() tea.Msg {
		if err := connector.SwitchSource(context.Background(), next); err != nil {
			return statusMsg(fmt.Sprintf("switch to %s failed: %v", next, err))
		}
		store.Mutate(func(s *state.AppState) {
			s.SourceID = next
			s.CollectionID = ""
		})
		if err := b.Publish(bus.TopicFiltersChanged, bus.FiltersChanged{Field: "source"}); err != nil {
			return statusMsg("filter event lost: " + err.Error())
		}
		return statusMsg("source: " + next)
	}
}

// openSelection opens the detail pane for the highlighted result.
func (m *Model) openSelection() {
	if m.selectedRow >= len(m.results) {
		return
	}
	item := m.results[m.selectedRow]
	m.detailItem = &item
	m.detailAsset = ""
	m.showDetail = true
	m.store.Mutate(func(s *state.AppState) {
		s.Select(item.ID, "")
	})
	m.publishSelection(item.ID, "")
}

// cycleAsset steps through the open item's assets and pins the choice.
func (m *Model) cycleAsset() {
	if !m.showDetail || m.detailItem == nil || len(m.detailItem.Assets) == 0 {
		return
	}
	keys := assetKeys(*m.detailItem)
	current := pickAsset(*m.detailItem, m.detailAsset)
	next := keys[0]
	for i, key := range keys {
		if key == current {
			next = keys[(i+1)%len(keys)]
			break
		}
	}
	m.detailAsset = next
	itemID := m.detailItem.ID
	m.store.Mutate(func(s *state.AppState) {
		s.Select(itemID, next)
	})
	m.publishSelection(itemID, next)
}

func (m *Model) closeSelection() {
	m.showDetail = false
	m.detailItem = nil
	m.detailAsset = ""
	m.store.Mutate(func(s *state.AppState) {
		s.Select("", "")
	})
	m.publishSelection("", "")
}

func (m *Model) publishSelection(itemID, assetKey string) {
	if err := m.bus.Publish(bus.TopicSelectionChanged, bus.SelectionChanged{ItemID: itemID, AssetKey: assetKey}); err != nil {
		m.setStatus("selection event lost: " + err.Error())
	}
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusUntil = time.Now().Add(5 * time.Second)
}

// Layout

func (m Model) contentHeight() int {
	// Header, footer and the pane borders.
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) mapWidth() int {
	w := m.width*3/5 - 2
	if w < 10 {
		w = 10
	}
	return w
}

func (m Model) sideWidth() int {
	w := m.width - m.mapWidth() - 4
	if w < 10 {
		w = 10
	}
	return w
}

func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	selectedID := ""
	if snap := m.store.Snapshot(); snap.SelectedItemID != "" {
		selectedID = snap.SelectedItemID
	}

	mapBorder := m.styles.PaneBorder
	sideBorder := m.styles.PaneBorderFocus
	if m.focusedPane == paneMap {
		mapBorder, sideBorder = m.styles.PaneBorderFocus, m.styles.PaneBorder
	}

	mapView := mapBorder.Render(m.mapPane.Render(m.styles, m.results, selectedID))

	var side string
	if m.showDetail && m.detailItem != nil {
		side = renderDetail(m.styles, *m.detailItem, m.detailAsset, m.sideWidth())
	} else {
		side = m.renderResults()
	}
	sideView := sideBorder.
		Width(m.sideWidth()).
		Height(m.contentHeight()).
		Render(side)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, mapView, sideView))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	snap := m.store.Snapshot()
	left := m.styles.Logo.Render(" kestrel ")
	source := snap.SourceID
	if source == "" {
		source = m.connector.ActiveSource()
	}
	parts := []string{source}
	if snap.CollectionID != "" {
		parts = append(parts, snap.CollectionID)
	}
	if snap.Query != "" {
		parts = append(parts, "q="+snap.Query)
	}
	lat, lng := m.mapPane.Center()
	parts = append(parts, fmt.Sprintf("%.3f,%.3f z%.0f", lat, lng, m.mapPane.Zoom()))
	right := m.styles.MutedText.Render(strings.Join(parts, "  "))
	return m.styles.Header.Width(m.width).Render(left + " " + right)
}

func (m Model) renderFooter() string {
	if m.status != "" {
		return m.styles.Footer.Width(m.width).Render(m.styles.WarningText.Render(m.status))
	}
	if !m.showLink {
		return m.styles.Footer.Width(m.width).Render("")
	}
	link := m.shareLink
	if link == "" {
		link = m.styles.FaintText.Render("no link yet")
	}
	return m.styles.Footer.Width(m.width).Render("link: " + truncate(link, m.width-8))
}

func (m Model) renderLog() string {
	var b strings.Builder
	b.WriteString(m.styles.AccentText.Render("activity log"))
	b.WriteString("  ")
	b.WriteString(m.styles.FaintText.Render(m.logPath))
	b.WriteString("\n\n")
	if len(m.logLines) == 0 {
		b.WriteString(m.styles.MutedText.Render("log is empty"))
	}
	for _, line := range m.logLines {
		b.WriteString(truncate(line, m.width-2))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderHelp() string {
	rows := []string{
		m.styles.AccentText.Render("kestrel keys"),
		"",
		"  tab        switch pane           /    edit filters",
		"  h j k l    pan map               s    run search",
		"  + -        zoom                  S    next source",
		"  enter      open result           a    cycle asset",
		"  esc        close detail          T    cycle theme",
		"  g G        first / last result   L    activity log",
		"  w          rewrite link          F    toggle link footer",
		"  q          quit",
		"",
		m.styles.MutedText.Render("any key to close"),
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		strings.Join(rows, "\n"),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)))
}

// Run starts the Bubble Tea program and blocks until it exits. The program
// is handed to onStart before Run blocks, so adapters can Send into the
// loop once it is live.
func Run(opts Options, onStart func(*tea.Program)) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if onStart != nil {
		onStart(p)
	}
	_, err := p.Run()
	return err
}
