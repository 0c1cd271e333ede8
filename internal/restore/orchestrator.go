package restore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kestrelhq/kestrel/internal/bus"
	"github.com/kestrelhq/kestrel/internal/catalog"
	"github.com/kestrelhq/kestrel/internal/deeplink"
	"github.com/kestrelhq/kestrel/internal/state"
	"github.com/kestrelhq/kestrel/internal/wait"
)

// Phase identifies where the restoration sequence currently stands.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDecoding
	PhaseAwaitingViewport
	PhaseRestoringSource
	PhaseAwaitingCatalog
	PhaseRestoringFilters
	PhaseRestoringViewport
	PhaseExecutingSearch
	PhaseAwaitingResults
	PhaseLocatingSelection
	PhaseDisplayingSelection
	PhaseDone
)

var phaseNames = map[Phase]string{
	PhaseIdle:                "idle",
	PhaseDecoding:            "decoding",
	PhaseAwaitingViewport:    "awaiting viewport",
	PhaseRestoringSource:     "restoring source",
	PhaseAwaitingCatalog:     "awaiting catalog",
	PhaseRestoringFilters:    "restoring filters",
	PhaseRestoringViewport:   "restoring viewport",
	PhaseExecutingSearch:     "executing search",
	PhaseAwaitingResults:     "awaiting results",
	PhaseLocatingSelection:   "locating selection",
	PhaseDisplayingSelection: "displaying selection",
	PhaseDone:                "done",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Timing bounds the gated steps of a restoration run.
type Timing struct {
	PollInterval     time.Duration
	ViewportDeadline time.Duration
	CatalogDeadline  time.Duration
	ResultsDeadline  time.Duration
}

// DefaultTiming returns the stock deadlines.
func DefaultTiming() Timing {
	return Timing{
		PollInterval:     100 * time.Millisecond,
		ViewportDeadline: 10 * time.Second,
		CatalogDeadline:  10 * time.Second,
		ResultsDeadline:  15 * time.Second,
	}
}

// Options collects everything an Orchestrator needs. Notifier and Logger may
// be nil.
type Options struct {
	Link     string
	Timing   Timing
	Codec    *deeplink.Codec
	Store    *state.Store
	Observer *Observer
	Viewport Viewport
	Catalog  Catalog
	Searcher Searcher
	Display  SelectionDisplay
	Notifier Notifier
	Bus      *bus.Bus
	Logger   *zap.Logger
}

// Orchestrator replays a decoded link onto the live session, step by step.
// Every gate is bounded by a deadline and every failure degrades: a run
// always reaches PhaseDone with as much of the link applied as the
// collaborators allowed.
type Orchestrator struct {
	link     string
	timing   Timing
	codec    *deeplink.Codec
	store    *state.Store
	observer *Observer
	viewport Viewport
	catalog  Catalog
	searcher Searcher
	display  SelectionDisplay
	notifier Notifier
	bus      *bus.Bus
	log      *zap.Logger

	mu    sync.Mutex
	phase Phase
	ran   bool
}

// New creates an orchestrator for a single restoration run.
func New(opts Options) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Timing == (Timing{}) {
		opts.Timing = DefaultTiming()
	}
	return &Orchestrator{
		link:     opts.Link,
		timing:   opts.Timing,
		codec:    opts.Codec,
		store:    opts.Store,
		observer: opts.Observer,
		viewport: opts.Viewport,
		catalog:  opts.Catalog,
		searcher: opts.Searcher,
		display:  opts.Display,
		notifier: opts.Notifier,
		bus:      opts.Bus,
		log:      opts.Logger,
	}
}

// Phase returns the current phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

func (o *Orchestrator) setPhase(p Phase) {
	o.mu.Lock()
	o.phase = p
	o.mu.Unlock()
	o.log.Debug("restore phase", zap.Stringer("phase", p))
}

func (o *Orchestrator) notify(text string) {
	if o.notifier != nil {
		o.notifier.Notify(text)
	}
}

// Run executes the restoration sequence once. A second call is a no-op; a
// fresh link needs a fresh orchestrator. Run never fails outright: partial
// restoration is the designed outcome of slow or broken collaborators.
func (o *Orchestrator) Run(ctx context.Context) {
	o.mu.Lock()
	if o.ran {
		o.mu.Unlock()
		return
	}
	o.ran = true
	o.mu.Unlock()

	o.setPhase(PhaseDecoding)
	decoded := o.codec.Decode(o.link)
	if o.codec.IsDefault(decoded) {
		o.log.Info("link carries no state, defaults stand")
		o.finish()
		return
	}

	o.observer.SetSuppressed(true)
	o.log.Info("restoring session", zap.String("link", o.link))

	o.setPhase(PhaseAwaitingViewport)
	vp := wait.For(ctx, o.viewport.Ready, o.timing.PollInterval, o.timing.ViewportDeadline)
	if !vp.OK {
		o.log.Warn("viewport not ready in time, skipping positioning", zap.String("reason", vp.Reason))
	}

	o.setPhase(PhaseRestoringSource)
	if decoded.SourceID != "" && decoded.SourceID != o.catalog.ActiveSource() {
		if err := o.catalog.SwitchSource(ctx, decoded.SourceID); err != nil {
			o.log.Warn("source switch failed, staying on current source",
				zap.String("source", decoded.SourceID), zap.Error(err))
			o.notify(fmt.Sprintf("Could not switch to source %q; continuing with %q.",
				decoded.SourceID, o.catalog.ActiveSource()))
			// The state must describe the session as it is, not as the
			// link wished it to be.
			decoded.SourceID = o.catalog.ActiveSource()
		}
	}

	o.setPhase(PhaseAwaitingCatalog)
	cat := wait.For(ctx, o.catalog.CollectionsReady, o.timing.PollInterval, o.timing.CatalogDeadline)
	if !cat.OK {
		o.log.Warn("collections not ready in time, applying filters anyway", zap.String("reason", cat.Reason))
	}

	o.setPhase(PhaseRestoringFilters)
	o.store.Replace(decoded)

	o.setPhase(PhaseRestoringViewport)
	if vp.OK {
		o.applyViewport(decoded)
	}

	if decoded.SelectedItemID == "" {
		o.finish()
		return
	}

	o.setPhase(PhaseExecutingSearch)
	// Subscription lifetime is bounded to this run; results after the
	// deadline belong to the interactive session, not to restoration.
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	resultsCh, err := o.bus.Subscribe(subCtx, bus.TopicSearchResults)
	if err != nil {
		o.log.Warn("subscribe to search results", zap.Error(err))
		o.finish()
		return
	}
	o.searcher.Run(ctx, SearchFilters(decoded))

	o.setPhase(PhaseAwaitingResults)
	res := wait.ForSignal(ctx, resultsCh, o.timing.ResultsDeadline)
	if !res.OK {
		o.log.Warn("search did not complete in time, treating results as empty", zap.String("reason", res.Reason))
	}

	o.setPhase(PhaseLocatingSelection)
	items := o.searcher.Results()
	idx := -1
	for i := range items {
		if items[i].ID == decoded.SelectedItemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		o.log.Info("selected item absent from results, restoration is partial",
			zap.String("item", decoded.SelectedItemID), zap.Int("results", len(items)))
		o.notify(fmt.Sprintf("Item %q was not found in the current results.", decoded.SelectedItemID))
		o.finish()
		return
	}

	o.setPhase(PhaseDisplayingSelection)
	if !o.display.Show(items[idx], decoded.SelectedAssetKey) {
		o.log.Warn("selection could not be displayed", zap.String("item", decoded.SelectedItemID))
	}

	o.finish()
}

// applyViewport prefers an explicit center and zoom from the link. When the
// link left the viewport at defaults but carries a spatial filter, the
// viewport is fitted to the filter's bounds instead.
func (o *Orchestrator) applyViewport(decoded state.AppState) {
	explicit := decoded.CenterLat != state.DefaultCenterLat ||
		decoded.CenterLng != state.DefaultCenterLng ||
		decoded.Zoom != state.DefaultZoom
	if explicit {
		o.viewport.SetCenter(decoded.CenterLat, decoded.CenterLng)
		o.viewport.SetZoom(decoded.Zoom)
		return
	}
	if decoded.Geometry != nil {
		if b, err := decoded.Geometry.Bounds(); err == nil {
			o.viewport.FitBounds(b)
		}
		return
	}
	if decoded.BBox != nil {
		o.viewport.FitBounds(*decoded.BBox)
	}
}

func (o *Orchestrator) finish() {
	o.observer.SetSuppressed(false)
	o.setPhase(PhaseDone)
	o.log.Info("restore complete")
}

var (
	_ Catalog  = (*catalog.Connector)(nil)
	_ Searcher = (*catalog.Executor)(nil)
)
