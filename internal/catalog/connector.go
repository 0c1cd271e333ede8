package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/kestrelhq/kestrel/internal/bus"
	"github.com/kestrelhq/kestrel/internal/config"
)

// ClientFactory builds the API client for a source endpoint. Tests inject
// doubles here.
type ClientFactory func(endpoint string) (API, error)

// ConnectorOptions configure a Connector.
type ConnectorOptions struct {
	Sources       []config.Source
	DefaultSource string
	Bus           *bus.Bus
	Logger        *zap.Logger
	Factory       ClientFactory // nil uses NewClient
	Retries       int           // attempts per switch, minimum 1
	RetryDelay    time.Duration // fixed delay between attempts
	CacheTTL      time.Duration // collection list lifetime, zero means 10m
}

// Connector manages the active catalog source and its collection list. A
// source switch is asynchronous from the caller's point of view and retries
// a not-yet-configured endpoint a fixed number of times before giving up.
type Connector struct {
	mu          sync.RWMutex
	sources     map[string]config.Source
	active      string
	client      API
	collections *gocache.Cache

	factory    ClientFactory
	bus        *bus.Bus
	log        *zap.Logger
	retries    int
	retryDelay time.Duration
}

// NewConnector builds a connector over the configured sources. The default
// source's client is constructed lazily on the first switch or refresh, so a
// bad endpoint shows up as a switch failure, not a startup failure.
func NewConnector(opts ConnectorOptions) *Connector {
	factory := opts.Factory
	if factory == nil {
		factory = func(endpoint string) (API, error) { return NewClient(endpoint) }
	}
	retries := opts.Retries
	if retries < 1 {
		retries = 1
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sources := make(map[string]config.Source, len(opts.Sources))
	for _, src := range opts.Sources {
		sources[src.ID] = src
	}

	return &Connector{
		sources:     sources,
		active:      opts.DefaultSource,
		collections: gocache.New(ttl, 2*ttl),
		factory:     factory,
		bus:         opts.Bus,
		log:         logger,
		retries:     retries,
		retryDelay:  opts.RetryDelay,
	}
}

// ActiveSource returns the id of the currently active source.
func (c *Connector) ActiveSource() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// SwitchSource activates the source with the given id, connecting to its
// endpoint and loading its collection list. A source whose endpoint is not
// ready yet is retried with a fixed delay; the final error is surfaced to
// the caller as a notice, never as a halt.
func (c *Connector) SwitchSource(ctx context.Context, id string) error {
	src, ok := c.sourceByID(id)
	if !ok {
		return fmt.Errorf("unknown source %q", id)
	}

	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		client, err := c.connect(ctx, src)
		if err == nil {
			c.mu.Lock()
			c.active = id
			c.client = client
			c.mu.Unlock()
			return nil
		}
		lastErr = err
		c.log.Warn("source switch attempt failed",
			zap.String("source", id),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt == c.retries {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("switch source %q: %w", id, ctx.Err())
		case <-time.After(c.retryDelay):
		}
	}
	return fmt.Errorf("switch source %q: %w", id, lastErr)
}

// connect builds the client and proves the endpoint is usable by loading its
// collections.
func (c *Connector) connect(ctx context.Context, src config.Source) (API, error) {
	client, err := c.factory(src.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("configure source %q: %w", src.ID, err)
	}
	if err := c.loadCollections(ctx, src.ID, client); err != nil {
		return nil, err
	}
	return client, nil
}

// RefreshCollections loads the active source's collection list if it is not
// cached yet. It is how the default source becomes ready without an explicit
// switch.
func (c *Connector) RefreshCollections(ctx context.Context) error {
	c.mu.RLock()
	id := c.active
	client := c.client
	c.mu.RUnlock()

	if _, cached := c.collections.Get(id); cached {
		return nil
	}

	if client == nil {
		src, ok := c.sourceByID(id)
		if !ok {
			return fmt.Errorf("unknown source %q", id)
		}
		built, err := c.factory(src.Endpoint)
		if err != nil {
			return fmt.Errorf("configure source %q: %w", id, err)
		}
		c.mu.Lock()
		c.client = built
		c.mu.Unlock()
		client = built
	}
	return c.loadCollections(ctx, id, client)
}

func (c *Connector) loadCollections(ctx context.Context, id string, client API) error {
	list, err := client.FetchCollections(ctx)
	if err != nil {
		return fmt.Errorf("load collections for %q: %w", id, err)
	}
	c.collections.Set(id, list, gocache.DefaultExpiration)
	c.log.Info("collections loaded",
		zap.String("source", id),
		zap.Int("count", len(list)))
	if c.bus != nil {
		_ = c.bus.Publish(bus.TopicCollectionsReady, bus.CollectionsReady{
			SourceID: id,
			Count:    len(list),
		})
	}
	return nil
}

// Collections returns the active source's collection list, or nil when it
// has not been loaded yet.
func (c *Connector) Collections() []Collection {
	c.mu.RLock()
	id := c.active
	c.mu.RUnlock()

	cached, ok := c.collections.Get(id)
	if !ok {
		return nil
	}
	list, ok := cached.([]Collection)
	if !ok {
		return nil
	}
	dup := make([]Collection, len(list))
	copy(dup, list)
	return dup
}

// CollectionsReady reports whether the active source's collection list is
// populated. This is the readiness predicate the restore sequence polls.
func (c *Connector) CollectionsReady() bool {
	return len(c.Collections()) > 0
}

// Client returns the active source's API client, or nil before the first
// successful connect.
func (c *Connector) Client() API {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

func (c *Connector) sourceByID(id string) (config.Source, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	src, ok := c.sources[id]
	return src, ok
}
