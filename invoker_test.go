package hoverlate_test

import (
	"context"
	"testing"
	"time"

	"github.com/ZaguanLabs/hoverlate"
	"github.com/ZaguanLabs/hoverlate/backend"
	"github.com/ZaguanLabs/hoverlate/cache"
)

// newInvokerFixture builds an invoker with an hour-long debounce so
// cycles only run when the test drives them.
func newInvokerFixture(mock *backend.MockBackend) (*hoverlate.Invoker, *hoverlate.Scheduler, *cache.LRUStore, *staticLocator, *testSink) {
	sched := hoverlate.NewScheduler(time.Hour, nil)
	store := cache.NewLRUStore(100)
	loc := newStaticLocator()
	sink := newTestSink()
	inv := hoverlate.NewInvoker(sched, store, mock, loc, sink, "ja_JP", "en", 20)
	return inv, sched, store, loc, sink
}

func TestInvoker_MissTranslatesAndCaches(t *testing.T) {
	mock := backend.NewMockBackend()
	inv, sched, store, loc, sink := newInvokerFixture(mock)
	loc.set(1, hoverlate.Span{Text: "hello", Kind: hoverlate.KindComment, Line: 3})

	tok := sched.StartNow(1)
	res := inv.Run(context.Background(), 1, hoverlate.Position{Line: 3}, tok, false)

	if res.Status != hoverlate.StatusApplied {
		t.Fatalf("Status = %s, want applied", res.Status)
	}
	if res.Text != "こんにちは" {
		t.Errorf("Text = %q, want こんにちは", res.Text)
	}
	if popups := sink.popupTexts(); len(popups) != 1 || popups[0] != "こんにちは" {
		t.Errorf("popups = %v", popups)
	}
	if mock.CallCount != 1 {
		t.Errorf("backend called %d times, want 1", mock.CallCount)
	}

	key := hoverlate.Key("hello", "ja_JP", "en")
	if val, ok := store.Get(key); !ok || val != "こんにちは" {
		t.Errorf("cache entry = (%q, %v), want hit", val, ok)
	}

	if sched.Active(1) {
		t.Error("cycle should have completed back to idle")
	}
}

func TestInvoker_CacheHitSkipsBackend(t *testing.T) {
	mock := backend.NewMockBackend()
	inv, sched, store, loc, sink := newInvokerFixture(mock)
	loc.set(1, hoverlate.Span{Text: "hello", Kind: hoverlate.KindComment, Line: 3})

	store.Set(hoverlate.Key("hello", "ja_JP", "en"), "cached!")

	tok := sched.StartNow(1)
	res := inv.Run(context.Background(), 1, hoverlate.Position{Line: 3}, tok, false)

	if res.Status != hoverlate.StatusCached {
		t.Fatalf("Status = %s, want cached", res.Status)
	}
	if mock.CallCount != 0 {
		t.Errorf("backend called %d times on a cache hit", mock.CallCount)
	}
	if popups := sink.popupTexts(); len(popups) != 1 || popups[0] != "cached!" {
		t.Errorf("popups = %v", popups)
	}
}

func TestInvoker_StaleResultDroppedButCached(t *testing.T) {
	mock := backend.NewMockBackend()
	mock.Gate = make(chan struct{})
	mock.Started = make(chan struct{}, 1)
	inv, sched, store, loc, sink := newInvokerFixture(mock)
	loc.set(1, hoverlate.Span{Text: "hello", Kind: hoverlate.KindComment, Line: 3})

	tok := sched.StartNow(1)
	done := make(chan hoverlate.Result, 1)
	go func() {
		done <- inv.Run(context.Background(), 1, hoverlate.Position{Line: 3}, tok, false)
	}()

	<-mock.Started // backend call is in flight

	// A new cycle supersedes the in-flight one.
	fresh := sched.StartNow(1)
	close(mock.Gate)

	res := <-done
	if res.Status != hoverlate.StatusStale {
		t.Fatalf("Status = %s, want stale", res.Status)
	}

	// The stale result never reaches the UI...
	if popups := sink.popupTexts(); len(popups) != 0 {
		t.Errorf("stale result reached the UI: %v", popups)
	}

	// ...but the translation is still cached.
	key := hoverlate.Key("hello", "ja_JP", "en")
	if val, ok := store.Get(key); !ok || val != "こんにちは" {
		t.Errorf("stale result should still be cached, got (%q, %v)", val, ok)
	}

	// The newer cycle's token is untouched.
	if !sched.IsCurrent(1, fresh) {
		t.Error("superseding token should remain current")
	}
}

func TestInvoker_FailureClosesPopupSilently(t *testing.T) {
	mock := backend.NewMockBackend()
	mock.Err = &hoverlate.BackendError{Message: "boom"}
	inv, sched, store, loc, sink := newInvokerFixture(mock)
	loc.set(1, hoverlate.Span{Text: "hello", Line: 3})

	tok := sched.StartNow(1)
	res := inv.Run(context.Background(), 1, hoverlate.Position{Line: 3}, tok, false)

	if res.Status != hoverlate.StatusFailed {
		t.Fatalf("Status = %s, want failed", res.Status)
	}
	if res.Err == nil {
		t.Error("failed result should carry the error")
	}
	// Debounced failures clean up the loading state without a warning.
	if sink.closeCount() != 1 {
		t.Errorf("closes = %d, want 1", sink.closeCount())
	}
	if notes := sink.notifications(); len(notes) != 0 {
		t.Errorf("automatic failure should be silent, got %v", notes)
	}
	if store.Len() != 0 {
		t.Error("nothing may be cached on failure")
	}
}

func TestInvoker_UserTriggeredFailureNotifies(t *testing.T) {
	mock := backend.NewMockBackend()
	mock.Err = &hoverlate.BackendError{Message: "boom"}
	inv, sched, _, loc, sink := newInvokerFixture(mock)
	loc.set(1, hoverlate.Span{Text: "hello", Line: 3})

	tok := sched.StartNow(1)
	inv.Run(context.Background(), 1, hoverlate.Position{Line: 3}, tok, true)

	if notes := sink.notifications(); len(notes) != 1 {
		t.Errorf("explicit failure should notify once, got %v", notes)
	}
}

func TestInvoker_StaleFailureFullySilent(t *testing.T) {
	mock := backend.NewMockBackend()
	mock.Err = &hoverlate.BackendError{Message: "boom"}
	mock.Gate = make(chan struct{})
	mock.Started = make(chan struct{}, 1)
	inv, sched, _, loc, sink := newInvokerFixture(mock)
	loc.set(1, hoverlate.Span{Text: "hello", Line: 3})

	tok := sched.StartNow(1)
	done := make(chan hoverlate.Result, 1)
	go func() {
		done <- inv.Run(context.Background(), 1, hoverlate.Position{Line: 3}, tok, true)
	}()

	<-mock.Started
	sched.StartNow(1) // supersede
	close(mock.Gate)

	res := <-done
	if res.Status != hoverlate.StatusStale {
		t.Fatalf("Status = %s, want stale", res.Status)
	}
	if sink.closeCount() != 0 || len(sink.notifications()) != 0 {
		t.Error("stale failure must take no UI action at all")
	}
}

func TestInvoker_UnavailableBackendNotifiedOnce(t *testing.T) {
	mock := backend.NewMockBackend()
	mock.Err = &hoverlate.BackendError{Message: "no such binary", Unavailable: true}
	inv, sched, _, loc, sink := newInvokerFixture(mock)
	loc.set(1, hoverlate.Span{Text: "hello", Line: 3})

	for i := 0; i < 3; i++ {
		tok := sched.StartNow(1)
		inv.Run(context.Background(), 1, hoverlate.Position{Line: 3}, tok, false)
	}

	if notes := sink.notifications(); len(notes) != 1 {
		t.Errorf("unavailable backend should be surfaced once, got %d notices", len(notes))
	}
}

func TestInvoker_NoSpanClearsPopup(t *testing.T) {
	mock := backend.NewMockBackend()
	inv, sched, _, _, sink := newInvokerFixture(mock)

	tok := sched.StartNow(1)
	res := inv.Run(context.Background(), 1, hoverlate.Position{Line: 9}, tok, false)

	if res.Status != hoverlate.StatusNoSpan {
		t.Fatalf("Status = %s, want no-span", res.Status)
	}
	if sink.closeCount() != 1 {
		t.Errorf("closes = %d, want 1 (clear stale display)", sink.closeCount())
	}
	if mock.CallCount != 0 {
		t.Error("backend must not be contacted without a span")
	}
}

func TestInvoker_EmptySpanShortCircuits(t *testing.T) {
	mock := backend.NewMockBackend()
	inv, sched, store, loc, _ := newInvokerFixture(mock)
	loc.set(1, hoverlate.Span{Text: "", Line: 3})

	tok := sched.StartNow(1)
	res := inv.Run(context.Background(), 1, hoverlate.Position{Line: 3}, tok, false)

	if res.Status != hoverlate.StatusEmpty {
		t.Fatalf("Status = %s, want empty", res.Status)
	}
	if res.Text != "" {
		t.Errorf("empty input must resolve to an explicit empty string, got %q", res.Text)
	}
	if mock.CallCount != 0 || store.Len() != 0 {
		t.Error("empty input must not contact cache or backend")
	}
}

func TestInvoker_OversizeSpanShortCircuits(t *testing.T) {
	mock := backend.NewMockBackend()
	inv, sched, store, loc, _ := newInvokerFixture(mock) // maxTextLen 20
	loc.set(1, hoverlate.Span{Text: "this comment is far longer than twenty bytes", Line: 3})

	tok := sched.StartNow(1)
	res := inv.Run(context.Background(), 1, hoverlate.Position{Line: 3}, tok, false)

	if res.Status != hoverlate.StatusOversize {
		t.Fatalf("Status = %s, want oversize", res.Status)
	}
	if mock.CallCount != 0 || store.Len() != 0 {
		t.Error("oversize input must not contact cache or backend")
	}
}

func TestInvoker_SameLanguageEchoes(t *testing.T) {
	mock := backend.NewMockBackend()
	sched := hoverlate.NewScheduler(time.Hour, nil)
	store := cache.NewLRUStore(100)
	loc := newStaticLocator()
	sink := newTestSink()
	inv := hoverlate.NewInvoker(sched, store, mock, loc, sink, "en_US", "en", 0)
	loc.set(1, hoverlate.Span{Text: "already english", Line: 3})

	tok := sched.StartNow(1)
	res := inv.Run(context.Background(), 1, hoverlate.Position{Line: 3}, tok, false)

	if res.Status != hoverlate.StatusCached || res.Text != "already english" {
		t.Errorf("got (%s, %q), want the original text echoed", res.Status, res.Text)
	}
	if mock.CallCount != 0 {
		t.Error("backend must not be contacted when source matches target")
	}
}
