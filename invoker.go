package hoverlate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ZaguanLabs/hoverlate/cache"
)

// Invoker runs one fired hover cycle: locate the span under the
// cursor, consult the cache, call the backend on a miss, and apply the
// result only if the cycle's token is still current.
//
// A completed backend result is written to the cache even when the
// token has gone stale: a correct translation is worth keeping, only
// its UI application is dropped.
type Invoker struct {
	sched   *Scheduler
	store   cache.Store
	backend Backend
	locator Locator
	sink    UISink

	targetLang string
	sourceLang string // empty = auto-detect
	maxTextLen int    // 0 = unlimited

	mu                  sync.Mutex
	notifiedUnavailable bool
}

// NewInvoker creates an Invoker. All collaborators are required except
// sourceLang and maxTextLen.
func NewInvoker(sched *Scheduler, store cache.Store, b Backend, loc Locator, sink UISink, targetLang, sourceLang string, maxTextLen int) *Invoker {
	return &Invoker{
		sched:      sched,
		store:      store,
		backend:    b,
		locator:    loc,
		sink:       sink,
		targetLang: targetLang,
		sourceLang: sourceLang,
		maxTextLen: maxTextLen,
	}
}

// Run executes one cycle tagged with (buf, tok). pos is the cursor
// position the cycle was scheduled for. userTriggered selects the
// failure surfacing policy: explicit requests get a visible warning,
// debounced ones only get their loading state cleaned up.
//
// Run blocks on the backend call; callers run it from the scheduler's
// fire goroutine. Every path resolves to a Result.
func (inv *Invoker) Run(ctx context.Context, buf BufferID, pos Position, tok Token, userTriggered bool) Result {
	span, found := inv.locator.Locate(buf, pos)
	if !found {
		// Nothing under the cursor: clear whatever is shown.
		if inv.sched.IsCurrent(buf, tok) {
			inv.sink.ClosePopup()
		}
		inv.sched.Complete(buf, tok)
		return Result{Status: StatusNoSpan}
	}

	if span.Text == "" {
		inv.sched.Complete(buf, tok)
		return Result{Status: StatusEmpty, Text: ""}
	}

	if inv.maxTextLen > 0 && len(span.Text) > inv.maxTextLen {
		inv.sched.Complete(buf, tok)
		return Result{Status: StatusOversize}
	}

	// Source already in the target language: echo without translating.
	if SameLanguage(inv.targetLang, inv.sourceLang) {
		return inv.apply(buf, tok, span.Text, StatusCached)
	}

	key := Key(span.Text, inv.targetLang, inv.sourceLang)
	if cached, ok := inv.store.Get(key); ok {
		return inv.apply(buf, tok, cached, StatusCached)
	}

	results, err := inv.backend.Translate(ctx, Request{
		Texts:      []string{span.Text},
		TargetLang: inv.targetLang,
		SourceLang: inv.sourceLang,
		Kinds:      []SpanKind{span.Kind},
	})
	if err == nil && len(results) != 1 {
		err = &CountMismatchError{Expected: 1, Got: len(results)}
	}
	if err != nil {
		return inv.fail(buf, tok, err, userTriggered)
	}

	// Cache write happens regardless of staleness.
	_ = inv.store.Set(key, results[0])

	return inv.apply(buf, tok, results[0], StatusApplied)
}

// apply hands value to the UI sink iff tok is still current; a stale
// result is dropped silently.
func (inv *Invoker) apply(buf BufferID, tok Token, value string, status Status) Result {
	if !inv.sched.IsCurrent(buf, tok) {
		return Result{Status: StatusStale, Text: value}
	}
	inv.sink.ShowPopup(value)
	inv.sched.Complete(buf, tok)
	return Result{Status: status, Text: value}
}

// fail resolves a cycle whose backend call errored. Nothing is cached.
// A stale failure takes no action at all; a current one cleans up the
// loading state, and surfaces a warning when the request was explicit
// or the backend is unavailable (the latter only once per process).
func (inv *Invoker) fail(buf BufferID, tok Token, err error, userTriggered bool) Result {
	if !inv.sched.IsCurrent(buf, tok) {
		return Result{Status: StatusStale, Err: err}
	}

	inv.sink.ClosePopup()

	var backendErr *BackendError
	unavailable := errors.As(err, &backendErr) && backendErr.Unavailable

	if userTriggered {
		inv.sink.Notify(fmt.Sprintf("translation failed: %v", err))
	} else if unavailable && inv.markUnavailableNotified() {
		inv.sink.Notify(fmt.Sprintf("translation backend unavailable: %v", err))
	}

	inv.sched.Complete(buf, tok)
	return Result{Status: StatusFailed, Err: err}
}

// markUnavailableNotified reports whether this is the first
// unavailable-backend failure, flipping the once-flag.
func (inv *Invoker) markUnavailableNotified() bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if inv.notifiedUnavailable {
		return false
	}
	inv.notifiedUnavailable = true
	return true
}
