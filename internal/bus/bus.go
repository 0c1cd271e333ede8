// Package bus is the in-process event spine of the application. Components
// publish small JSON payloads to named topics; subscribers receive them on
// channels. The restore sequence races these notifications against deadlines
// instead of polling where a publication exists.
package bus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Topics carried on the bus.
const (
	TopicFiltersChanged   = "filters.changed"
	TopicViewportMoved    = "viewport.moveend"
	TopicSelectionChanged = "selection.changed"
	TopicSearchResults    = "search.results"
	TopicCollectionsReady = "catalog.collections"
	TopicStateChanged     = "state.changed"
)

// Bus wraps a watermill gochannel pub/sub.
type Bus struct {
	pubSub *gochannel.GoChannel
}

// New creates an in-process bus.
func New() *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{}),
	}
}

// Publish marshals payload to JSON and publishes it on topic.
func (b *Bus) Publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := b.pubSub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe returns a channel of messages for topic. The subscription ends
// when ctx is cancelled. Consumers must Ack each message.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch, err := b.pubSub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return ch, nil
}

// Close shuts the pub/sub down, closing all subscriber channels.
func (b *Bus) Close() error {
	return b.pubSub.Close()
}

// Decode unmarshals a message payload into dest.
func Decode(msg *message.Message, dest any) error {
	if err := json.Unmarshal(msg.Payload, dest); err != nil {
		return fmt.Errorf("decode event payload: %w", err)
	}
	return nil
}
