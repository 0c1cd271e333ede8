package bus

import (
	"context"
	"testing"
	"time"
)

func TestPublishSubscribeRoundTrip(t *testing.T) {
	b := New()
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ch, err := b.Subscribe(ctx, TopicSearchResults)
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	want := SearchResults{RequestID: "req-1", Count: 7}
	if err := b.Publish(TopicSearchResults, want); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	select {
	case msg := <-ch:
		var got SearchResults
		if err := Decode(msg, &got); err != nil {
			t.Fatalf("Decode returned error: %v", err)
		}
		msg.Ack()
		if got != want {
			t.Fatalf("payload = %+v, want %+v", got, want)
		}
	case <-time.After(time.Second):
		t.Fatal("no message received within 1s")
	}
}

func TestSubscribersAreIndependentPerTopic(t *testing.T) {
	b := New()
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	moved, err := b.Subscribe(ctx, TopicViewportMoved)
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	if err := b.Publish(TopicFiltersChanged, FiltersChanged{Field: "query"}); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	select {
	case msg := <-moved:
		t.Fatalf("viewport subscriber received foreign topic message: %s", msg.Payload)
	case <-time.After(50 * time.Millisecond):
	}
}
