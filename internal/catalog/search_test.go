package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/kestrelhq/kestrel/internal/bus"
)

func readyConnector(t *testing.T, api *fakeAPI) *Connector {
	t.Helper()
	c := newTestConnector(api, nil)
	if err := c.RefreshCollections(context.Background()); err != nil {
		t.Fatalf("RefreshCollections returned error: %v", err)
	}
	return c
}

func TestExecutor_RunPublishesResults(t *testing.T) {
	b := bus.New()
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ch, err := b.Subscribe(ctx, bus.TopicSearchResults)
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	api := &fakeAPI{
		collections: []Collection{{ID: "c1"}},
		items:       []Item{{ID: "X1"}, {ID: "X2"}},
	}
	conn := readyConnector(t, api)

	e := NewExecutor(conn, b, nil, time.Second)
	e.Run(ctx, Filters{Collection: "c1"})

	select {
	case msg := <-ch:
		var evt bus.SearchResults
		if err := bus.Decode(msg, &evt); err != nil {
			t.Fatalf("Decode returned error: %v", err)
		}
		msg.Ack()
		if evt.Count != 2 || evt.TimedOut {
			t.Fatalf("event = %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("no results event within 1s")
	}

	if got := e.Results(); len(got) != 2 || got[0].ID != "X1" {
		t.Fatalf("Results = %+v", got)
	}
	if !e.HasRun() {
		t.Fatal("HasRun = false after a completed run")
	}
}

func TestExecutor_TimeoutYieldsEmptyResults(t *testing.T) {
	b := bus.New()
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ch, err := b.Subscribe(ctx, bus.TopicSearchResults)
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	api := &fakeAPI{
		collections: []Collection{{ID: "c1"}},
		items:       []Item{{ID: "X1"}},
		searchDelay: 500 * time.Millisecond,
	}
	conn := readyConnector(t, api)

	e := NewExecutor(conn, b, nil, 20*time.Millisecond)
	e.Run(ctx, Filters{})

	select {
	case msg := <-ch:
		var evt bus.SearchResults
		if err := bus.Decode(msg, &evt); err != nil {
			t.Fatalf("Decode returned error: %v", err)
		}
		msg.Ack()
		if evt.Count != 0 || !evt.TimedOut {
			t.Fatalf("event = %+v, want empty timed-out result", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("no results event within 1s")
	}

	if got := e.Results(); got != nil {
		t.Fatalf("Results = %+v, want nil after timeout", got)
	}
}

func TestExecutor_NoClientIsNonFatal(t *testing.T) {
	b := bus.New()
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ch, err := b.Subscribe(ctx, bus.TopicSearchResults)
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	// Connector that never connected: Client() is nil.
	conn := newTestConnector(&fakeAPI{}, nil)
	e := NewExecutor(conn, b, nil, time.Second)
	e.Run(ctx, Filters{})

	select {
	case msg := <-ch:
		var evt bus.SearchResults
		_ = bus.Decode(msg, &evt)
		msg.Ack()
		if evt.Count != 0 {
			t.Fatalf("event = %+v, want empty", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("no results event within 1s")
	}
}
