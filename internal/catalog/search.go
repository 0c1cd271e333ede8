package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kestrelhq/kestrel/internal/bus"
)

// Executor runs catalog searches asynchronously. Restoration and user
// actions go through the same Run path, so a restored session produces the
// same result set a fresh search would. Results land in a snapshot readable
// at any time plus a search.results publication on the bus.
type Executor struct {
	mu        sync.RWMutex
	results   []Item
	hasRun    bool
	lastReqID string

	connector *Connector
	bus       *bus.Bus
	log       *zap.Logger
	timeout   time.Duration
}

// NewExecutor builds an executor over the connector's active client.
func NewExecutor(connector *Connector, b *bus.Bus, logger *zap.Logger, timeout time.Duration) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Executor{
		connector: connector,
		bus:       b,
		log:       logger,
		timeout:   timeout,
	}
}

// Run launches the search in the background and returns immediately. A
// failed or timed-out search publishes an empty result set; it never
// surfaces an error to the caller.
func (e *Executor) Run(ctx context.Context, filters Filters) {
	reqID := uuid.NewString()

	e.mu.Lock()
	e.lastReqID = reqID
	e.mu.Unlock()

	go e.run(ctx, reqID, filters)
}

func (e *Executor) run(ctx context.Context, reqID string, filters Filters) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var items []Item
	timedOut := false

	client := e.connector.Client()
	if client == nil {
		e.log.Warn("search skipped, no active catalog client",
			zap.String("request_id", reqID))
	} else {
		fetched, err := client.Search(ctx, filters)
		if err != nil {
			timedOut = ctx.Err() != nil
			e.log.Warn("search failed",
				zap.String("request_id", reqID),
				zap.Bool("timed_out", timedOut),
				zap.Error(err))
		} else {
			items = fetched
		}
	}

	e.mu.Lock()
	// A newer Run supersedes this one; drop stale results.
	if e.lastReqID != reqID {
		e.mu.Unlock()
		return
	}
	e.results = items
	e.hasRun = true
	e.mu.Unlock()

	e.log.Info("search finished",
		zap.String("request_id", reqID),
		zap.Int("count", len(items)))

	if e.bus != nil {
		_ = e.bus.Publish(bus.TopicSearchResults, bus.SearchResults{
			RequestID: reqID,
			Count:     len(items),
			TimedOut:  timedOut,
		})
	}
}

// Results returns a copy of the latest result set. Empty until a run has
// finished.
func (e *Executor) Results() []Item {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.results) == 0 {
		return nil
	}
	dup := make([]Item, len(e.results))
	copy(dup, e.results)
	return dup
}

// HasRun reports whether at least one search has completed.
func (e *Executor) HasRun() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hasRun
}
