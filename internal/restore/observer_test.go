package restore

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kestrelhq/kestrel/internal/bus"
	"github.com/kestrelhq/kestrel/internal/deeplink"
	"github.com/kestrelhq/kestrel/internal/state"
)

// recordingSink collects replaced links and signals each write.
type recordingSink struct {
	mu    sync.Mutex
	links []string
	wrote chan string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{wrote: make(chan string, 16)}
}

func (s *recordingSink) Replace(link string) {
	s.mu.Lock()
	s.links = append(s.links, link)
	s.mu.Unlock()
	s.wrote <- link
}

func (s *recordingSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.links...)
}

func (s *recordingSink) waitWrite(t *testing.T) string {
	t.Helper()
	select {
	case link := <-s.wrote:
		return link
	case <-time.After(2 * time.Second):
		t.Fatal("sink saw no write")
		return ""
	}
}

func observerFixture(t *testing.T, initialLink string) (*Observer, *state.Store, *bus.Bus, *recordingSink) {
	t.Helper()
	defaults := state.Defaults("earth-search")
	store := state.NewStore(defaults)
	codec := deeplink.New(defaults)
	b := bus.New()
	t.Cleanup(func() { b.Close() })
	sink := newRecordingSink()
	obs := NewObserver(codec, store, sink, b, nil, initialLink)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := obs.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	return obs, store, b, sink
}

func TestObserverWritesLinkOnFilterChange(t *testing.T) {
	_, store, b, sink := observerFixture(t, "")

	store.Mutate(func(s *state.AppState) { s.Query = "flood" })
	if err := b.Publish(bus.TopicFiltersChanged, bus.FiltersChanged{Field: "query"}); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	link := sink.waitWrite(t)
	if !strings.Contains(link, "q=flood") {
		t.Errorf("link = %q, want q=flood in it", link)
	}
}

func TestObserverIgnoresEventsWhileSuppressed(t *testing.T) {
	obs, store, b, sink := observerFixture(t, "")

	obs.SetSuppressed(true)
	store.Mutate(func(s *state.AppState) { s.Query = "flood" })
	if err := b.Publish(bus.TopicFiltersChanged, bus.FiltersChanged{Field: "query"}); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	select {
	case link := <-sink.wrote:
		t.Fatalf("sink wrote %q while suppressed", link)
	case <-time.After(200 * time.Millisecond):
	}

	// Suppression drops events instead of queueing them: the next event
	// after re-enabling carries the full current state anyway.
	obs.SetSuppressed(false)
	if err := b.Publish(bus.TopicSelectionChanged, bus.SelectionChanged{}); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	link := sink.waitWrite(t)
	if !strings.Contains(link, "q=flood") {
		t.Errorf("link after unsuppress = %q, want q=flood in it", link)
	}
}

func TestObserverSkipsUnchangedLink(t *testing.T) {
	_, store, b, sink := observerFixture(t, "")

	store.Mutate(func(s *state.AppState) { s.Query = "flood" })
	for i := 0; i < 3; i++ {
		if err := b.Publish(bus.TopicFiltersChanged, bus.FiltersChanged{Field: "query"}); err != nil {
			t.Fatalf("Publish() error: %v", err)
		}
	}
	sink.waitWrite(t)
	time.Sleep(200 * time.Millisecond)

	if got := sink.all(); len(got) != 1 {
		t.Errorf("sink writes = %v, want exactly one", got)
	}
}

func TestObserverPreservesForeignKeys(t *testing.T) {
	_, store, b, sink := observerFixture(t, "q=old&utm_campaign=demo")

	store.Mutate(func(s *state.AppState) { s.Query = "burn-scar" })
	if err := b.Publish(bus.TopicFiltersChanged, bus.FiltersChanged{Field: "query"}); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	link := sink.waitWrite(t)
	if !strings.Contains(link, "utm_campaign=demo") {
		t.Errorf("link = %q, want foreign key utm_campaign preserved", link)
	}
	if strings.Contains(link, "q=old") {
		t.Errorf("link = %q, stale query survived", link)
	}
}

func TestObserverConcurrentPersistsKeepSinkCurrent(t *testing.T) {
	obs, store, _, sink := observerFixture(t, "")
	go func() {
		for range sink.wrote {
		}
	}()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				zoom := float64(g*50 + i)
				store.Mutate(func(s *state.AppState) { s.Zoom = zoom })
				obs.Persist()
			}
		}(g)
	}
	wg.Wait()

	writes := sink.all()
	if len(writes) == 0 {
		t.Fatal("sink saw no writes")
	}
	if last := writes[len(writes)-1]; last != obs.Link() {
		t.Errorf("last sink write = %q, want %q", last, obs.Link())
	}
}

func TestObserverPublishesStateChanged(t *testing.T) {
	_, store, b, sink := observerFixture(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stateCh, err := b.Subscribe(ctx, bus.TopicStateChanged)
	if err != nil {
		t.Fatalf("Subscribe() error: %v", err)
	}

	store.Mutate(func(s *state.AppState) { s.Zoom = 8 })
	if err := b.Publish(bus.TopicViewportMoved, bus.ViewportMoved{Zoom: 8}); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	sink.waitWrite(t)

	select {
	case msg := <-stateCh:
		msg.Ack()
		var payload bus.StateChanged
		if err := bus.Decode(msg, &payload); err != nil {
			t.Fatalf("Decode() error: %v", err)
		}
		if !strings.Contains(payload.Link, "z=8") {
			t.Errorf("state change link = %q, want z=8 in it", payload.Link)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no state change event")
	}
}
