package restore

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"

	"github.com/kestrelhq/kestrel/internal/bus"
	"github.com/kestrelhq/kestrel/internal/deeplink"
	"github.com/kestrelhq/kestrel/internal/state"
)

// Observer keeps the share link in step with session state. It listens for
// filter, viewport and selection changes on the bus, re-encodes the current
// state and hands the link to the sink. While the orchestrator replays a
// link the observer is suppressed, so programmatic restoration never writes
// back the very link it is replaying.
type Observer struct {
	codec *deeplink.Codec
	store *state.Store
	sink  LinkSink
	bus   *bus.Bus
	log   *zap.Logger

	mu         sync.Mutex
	suppressed bool
	lastLink   string
}

// NewObserver creates an observer seeded with the link the session started
// from. Seeding matters: unknown query keys in the initial link survive every
// rewrite because each encode merges over the previous link.
func NewObserver(codec *deeplink.Codec, store *state.Store, sink LinkSink, b *bus.Bus, logger *zap.Logger, initialLink string) *Observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Observer{
		codec:    codec,
		store:    store,
		sink:     sink,
		bus:      b,
		log:      logger,
		lastLink: initialLink,
	}
}

// Start subscribes to the change topics and reacts until ctx is cancelled.
func (o *Observer) Start(ctx context.Context) error {
	topics := []string{
		bus.TopicFiltersChanged,
		bus.TopicViewportMoved,
		bus.TopicSelectionChanged,
	}
	channels := make([]<-chan *message.Message, 0, len(topics))
	for _, topic := range topics {
		ch, err := o.bus.Subscribe(ctx, topic)
		if err != nil {
			return err
		}
		channels = append(channels, ch)
	}
	for _, ch := range channels {
		go o.consume(ctx, ch)
	}
	return nil
}

func (o *Observer) consume(ctx context.Context, ch <-chan *message.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			msg.Ack()
			o.Persist()
		}
	}
}

// SetSuppressed toggles reaction to change events. While suppressed the
// observer ignores events entirely; it does not queue them.
func (o *Observer) SetSuppressed(v bool) {
	o.mu.Lock()
	o.suppressed = v
	o.mu.Unlock()
}

// Suppressed reports the current suppression flag.
func (o *Observer) Suppressed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.suppressed
}

// Link returns the most recently written link.
func (o *Observer) Link() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastLink
}

// Persist re-encodes the current state and replaces the stored link. It is a
// no-op while suppressed or when the encoded link has not changed.
func (o *Observer) Persist() {
	o.mu.Lock()
	if o.suppressed {
		o.mu.Unlock()
		return
	}
	snap := o.store.Snapshot()
	link := o.codec.Encode(snap, o.lastLink)
	if link == o.lastLink {
		o.mu.Unlock()
		return
	}
	o.lastLink = link
	// The sink write stays under the lock so concurrent persists land in the
	// same order as lastLink updates; a write outside it could leave a stale
	// link in the sink while lastLink holds the newer one.
	o.sink.Replace(link)
	o.mu.Unlock()

	if err := o.bus.Publish(bus.TopicStateChanged, bus.StateChanged{Link: link}); err != nil {
		o.log.Warn("publish state change", zap.Error(err))
	}
}
