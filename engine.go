package hoverlate

import (
	"context"
	"fmt"
	"time"

	"github.com/ZaguanLabs/hoverlate/cache"
)

// Defaults for engine configuration.
const (
	DefaultDebounce      = 500 * time.Millisecond
	DefaultMaxTextLen    = 5000
	DefaultCacheCapacity = 512
)

// Engine wires the scheduler, invoker, immersive orchestrator and
// cache together and exposes the surface the host command layer calls.
// Construct one per editor session and share it by reference.
type Engine struct {
	targetLang string
	sourceLang string
	debounce   time.Duration
	maxTextLen int
	capacity   int
	enabled    bool

	backend  Backend
	locator  Locator
	sink     UISink
	onResult func(BufferID, Result)

	store *cache.Policy
	lru   *cache.LRUStore // nil when a custom store was supplied
	sched *Scheduler
	inv   *Invoker
	imm   *Immersive

	custom cache.Store

	positions positionMap
}

// Option is a functional option for configuring the Engine.
type Option func(*Engine)

// WithSourceLang sets the source language. Empty means auto-detect.
func WithSourceLang(lang string) Option {
	return func(e *Engine) {
		e.sourceLang = lang
	}
}

// WithCache replaces the default in-memory LRU store (e.g., with a
// redis store). The store is still wrapped by the enabled/disabled
// policy, but capacity configuration only applies to the default LRU.
func WithCache(store cache.Store) Option {
	return func(e *Engine) {
		e.custom = store
	}
}

// WithCacheCapacity sets the default LRU store's capacity. Values
// below 1 are clamped to 1.
func WithCacheCapacity(n int) Option {
	return func(e *Engine) {
		e.capacity = n
	}
}

// WithCacheEnabled sets the initial cache policy.
func WithCacheEnabled(enabled bool) Option {
	return func(e *Engine) {
		e.enabled = enabled
	}
}

// WithLocator sets the span locator.
func WithLocator(loc Locator) Option {
	return func(e *Engine) {
		e.locator = loc
	}
}

// WithSink sets the UI sink.
func WithSink(sink UISink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithDebounce sets the hover debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		e.debounce = d
	}
}

// WithMaxTextLen sets the maximum span length sent for translation;
// longer spans resolve to StatusOversize. 0 means unlimited.
func WithMaxTextLen(n int) Option {
	return func(e *Engine) {
		e.maxTextLen = n
	}
}

// WithResultFunc registers a callback invoked with every resolved
// hover cycle result. Useful for host diagnostics and tests.
func WithResultFunc(fn func(BufferID, Result)) Option {
	return func(e *Engine) {
		e.onResult = fn
	}
}

// NewEngine creates an Engine translating to targetLang via b.
func NewEngine(targetLang string, b Backend, opts ...Option) *Engine {
	e := &Engine{
		targetLang: targetLang,
		debounce:   DefaultDebounce,
		maxTextLen: DefaultMaxTextLen,
		capacity:   DefaultCacheCapacity,
		enabled:    true,
		backend:    b,
		locator:    nopLocator{},
		sink:       nopSink{},
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.custom != nil {
		e.store = cache.NewPolicy(e.custom)
	} else {
		e.lru = cache.NewLRUStore(e.capacity)
		e.store = cache.NewPolicy(e.lru)
	}
	e.store.SetEnabled(e.enabled)

	e.positions.init()
	e.sched = NewScheduler(e.debounce, e.fire)
	e.inv = NewInvoker(e.sched, e.store, e.backend, e.locator, e.sink,
		e.targetLang, e.sourceLang, e.maxTextLen)
	e.imm = NewImmersive(e.store, e.backend, e.locator, e.sink,
		e.targetLang, e.sourceLang)

	return e
}

// fire runs a debounced cycle when its timer expires.
func (e *Engine) fire(buf BufferID, tok Token) {
	pos, _ := e.positions.get(buf)
	res := e.inv.Run(context.Background(), buf, pos, tok, false)
	if e.onResult != nil {
		e.onResult(buf, res)
	}
}

// ScheduleHover starts (or restarts) a debounced hover cycle for the
// span at pos. A second call before the first fires supersedes it.
func (e *Engine) ScheduleHover(buf BufferID, pos Position) Token {
	e.positions.set(buf, pos)
	return e.sched.Start(buf)
}

// CancelHover cancels buf's pending or in-flight hover cycle. Safe to
// call when none is active.
func (e *Engine) CancelHover(buf BufferID) {
	e.sched.Cancel(buf)
}

// TriggerHoverNow runs a hover cycle immediately, bypassing the
// debounce delay. Failures are surfaced as a visible notification,
// unlike debounced cycles.
func (e *Engine) TriggerHoverNow(ctx context.Context, buf BufferID, pos Position) Result {
	e.positions.set(buf, pos)
	tok := e.sched.StartNow(buf)
	res := e.inv.Run(ctx, buf, pos, tok, true)
	if e.onResult != nil {
		e.onResult(buf, res)
	}
	return res
}

// EnableImmersive turns immersive mode on globally.
func (e *Engine) EnableImmersive() {
	e.imm.Enable()
}

// DisableImmersive turns immersive mode off globally and clears all
// inline annotations.
func (e *Engine) DisableImmersive() {
	e.imm.Disable()
}

// IsImmersiveEnabled reports the immersive state: with no argument,
// the global flag; with a buffer, that buffer's effective state.
func (e *Engine) IsImmersiveEnabled(buf ...BufferID) bool {
	if len(buf) == 0 {
		return e.imm.GloballyEnabled()
	}
	return e.imm.Enabled(buf[0])
}

// DisableImmersiveBuffer opts a single buffer out of immersive mode
// while the global flag stays on.
func (e *Engine) DisableImmersiveBuffer(buf BufferID) {
	e.imm.DisableBuffer(buf)
}

// EnableImmersiveBuffer clears a buffer's immersive opt-out.
func (e *Engine) EnableImmersiveBuffer(buf BufferID) {
	e.imm.EnableBuffer(buf)
}

// UpdateImmersive re-annotates buf now. This is the explicit path, so
// failures surface a visible notification.
func (e *Engine) UpdateImmersive(ctx context.Context, buf BufferID) error {
	err := e.imm.Update(ctx, buf)
	if err != nil {
		e.sink.Notify(fmt.Sprintf("immersive update failed: %v", err))
	}
	return err
}

// Cache returns the policy-wrapped cache store for get/set/clear/size.
func (e *Engine) Cache() cache.Store {
	return e.store
}

// ConfigureCache reconfigures the cache at runtime. maxEntries applies
// to the default LRU store only and is clamped to >=1; enabled toggles
// the policy (disabling clears the store).
func (e *Engine) ConfigureCache(maxEntries int, enabled bool) {
	if e.lru != nil {
		e.lru.SetCapacity(maxEntries)
	}
	e.store.SetEnabled(enabled)
}

// CursorIdle handles the idle-at-cursor host event.
func (e *Engine) CursorIdle(buf BufferID, pos Position) {
	e.ScheduleHover(buf, pos)
}

// CursorMoved handles the cursor-moved host event: the pending cycle
// is superseded and any visible popup dismissed.
func (e *Engine) CursorMoved(buf BufferID) {
	e.CancelHover(buf)
	e.sink.ClosePopup()
}

// BufferEntered handles the buffer-entered host event. Immersive
// annotation runs in the background; this is an automatic trigger, so
// failures stay silent.
func (e *Engine) BufferEntered(buf BufferID) {
	if e.imm.Enabled(buf) {
		go func() {
			_ = e.imm.Update(context.Background(), buf)
		}()
	}
}

// BufferLeft handles the buffer-left host event.
func (e *Engine) BufferLeft(buf BufferID) {
	e.CancelHover(buf)
}

// BufferSaved handles the buffer-saved host event; immersive
// annotations refresh after a successful save.
func (e *Engine) BufferSaved(buf BufferID) {
	if e.imm.Enabled(buf) {
		go func() {
			_ = e.imm.Update(context.Background(), buf)
		}()
	}
}

// BufferDestroyed handles the buffer-destroyed host event: all state
// for the buffer is released.
func (e *Engine) BufferDestroyed(buf BufferID) {
	e.sched.Cancel(buf)
	e.imm.BufferDestroyed(buf)
	e.positions.delete(buf)
}

// Shutdown cancels every pending cycle and clears the cache. Call on
// process shutdown; the engine must not be used afterwards.
func (e *Engine) Shutdown() {
	e.sched.CancelAll()
	e.store.Clear()
}

// Immersive returns the immersive orchestrator for direct use.
func (e *Engine) Immersive() *Immersive {
	return e.imm
}

// Scheduler returns the request scheduler for direct use.
func (e *Engine) Scheduler() *Scheduler {
	return e.sched
}

// TargetLang returns the target language.
func (e *Engine) TargetLang() string {
	return e.targetLang
}

// SourceLang returns the source language ("" = auto-detect).
func (e *Engine) SourceLang() string {
	return e.sourceLang
}
