package hoverlate

import (
	"context"
	"sync"

	"github.com/ZaguanLabs/hoverlate/cache"
)

// parallelThreshold is the minimum number of distinct texts before
// cache lookups fan out to goroutines.
const parallelThreshold = 5

// immersiveBuffer tracks one buffer's annotation state: whether the
// buffer opted out, which annotation each line currently shows (to
// skip redundant re-renders and to know what to clear), and an update
// generation so a superseded update never applies.
type immersiveBuffer struct {
	enabled bool
	lines   map[int]string
	gen     uint64
}

// Immersive keeps whole buffers annotated inline, driven by buffer
// lifecycle events (enter, save) rather than cursor idling. It shares
// the hover path's cache and backend but targets per-line annotations
// instead of a popup.
type Immersive struct {
	mu      sync.Mutex
	enabled bool
	buffers map[BufferID]*immersiveBuffer

	store   cache.Store
	backend Backend
	locator Locator
	sink    UISink

	targetLang string
	sourceLang string
}

// NewImmersive creates an Immersive orchestrator. It starts disabled.
func NewImmersive(store cache.Store, b Backend, loc Locator, sink UISink, targetLang, sourceLang string) *Immersive {
	return &Immersive{
		buffers:    make(map[BufferID]*immersiveBuffer),
		store:      store,
		backend:    b,
		locator:    loc,
		sink:       sink,
		targetLang: targetLang,
		sourceLang: sourceLang,
	}
}

// Enable turns immersive mode on globally. Buffers entered afterwards
// start enabled unless they carry an explicit opt-out.
func (im *Immersive) Enable() {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.enabled = true
}

// Disable turns immersive mode off globally: every tracked buffer's
// annotations are cleared and all per-buffer state is dropped, so a
// later Enable starts clean.
func (im *Immersive) Disable() {
	im.mu.Lock()
	bufs := make([]BufferID, 0, len(im.buffers))
	for buf := range im.buffers {
		bufs = append(bufs, buf)
	}
	im.enabled = false
	im.buffers = make(map[BufferID]*immersiveBuffer)
	im.mu.Unlock()

	for _, buf := range bufs {
		im.sink.ClearAnnotations(buf)
	}
}

// EnableBuffer clears a buffer's opt-out.
func (im *Immersive) EnableBuffer(buf BufferID) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.stateLocked(buf).enabled = true
}

// DisableBuffer opts a single buffer out while the global flag stays
// on, clearing its annotations.
func (im *Immersive) DisableBuffer(buf BufferID) {
	im.mu.Lock()
	st := im.stateLocked(buf)
	st.enabled = false
	st.lines = make(map[int]string)
	st.gen++ // invalidate any in-flight update
	im.mu.Unlock()

	im.sink.ClearAnnotations(buf)
}

// Enabled reports whether immersive mode is active for buf (global
// flag plus per-buffer opt-out).
func (im *Immersive) Enabled(buf BufferID) bool {
	im.mu.Lock()
	defer im.mu.Unlock()
	if !im.enabled {
		return false
	}
	st, ok := im.buffers[buf]
	return !ok || st.enabled
}

// GloballyEnabled reports the global flag alone.
func (im *Immersive) GloballyEnabled() bool {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.enabled
}

// BufferDestroyed drops all state for buf. The buffer is gone, so no
// sink calls are made.
func (im *Immersive) BufferDestroyed(buf BufferID) {
	im.mu.Lock()
	defer im.mu.Unlock()
	delete(im.buffers, buf)
}

// stateLocked returns buf's state, creating it on first use.
func (im *Immersive) stateLocked(buf BufferID) *immersiveBuffer {
	st, ok := im.buffers[buf]
	if !ok {
		st = &immersiveBuffer{enabled: true, lines: make(map[int]string)}
		im.buffers[buf] = st
	}
	return st
}

// Update re-annotates every comment/string line of buf: locate all
// spans, deduplicate by text, resolve each distinct text through the
// cache or one batch backend call, then apply per-line annotations,
// skipping lines whose annotation is unchanged. A later Update for the
// same buffer supersedes this one at the apply step.
func (im *Immersive) Update(ctx context.Context, buf BufferID) error {
	im.mu.Lock()
	if !im.enabled {
		im.mu.Unlock()
		return nil
	}
	st := im.stateLocked(buf)
	if !st.enabled {
		im.mu.Unlock()
		return nil
	}
	st.gen++
	gen := st.gen
	im.mu.Unlock()

	spans, err := im.locator.LocateAll(buf)
	if err != nil {
		return err
	}

	// Deduplicate by text, preserving first-seen order.
	var distinct []Span
	seen := make(map[string]bool)
	for _, s := range spans {
		if s.Text == "" || seen[s.Text] {
			continue
		}
		seen[s.Text] = true
		distinct = append(distinct, s)
	}

	translations, misses := im.lookupCached(distinct)

	if len(misses) > 0 {
		texts := make([]string, len(misses))
		kinds := make([]SpanKind, len(misses))
		for i, s := range misses {
			texts[i] = s.Text
			kinds[i] = s.Kind
		}

		results, err := im.backend.Translate(ctx, Request{
			Texts:      texts,
			TargetLang: im.targetLang,
			SourceLang: im.sourceLang,
			Kinds:      kinds,
		})
		if err != nil {
			return err
		}
		if len(results) != len(texts) {
			return &CountMismatchError{Expected: len(texts), Got: len(results)}
		}

		for i, s := range misses {
			translations[s.Text] = results[i]
			key := Key(s.Text, im.targetLang, im.sourceLang)
			_ = im.store.Set(key, results[i]) // Ignore cache set errors
		}
	}

	im.applyLines(buf, gen, spans, translations)
	return nil
}

// lookupCached resolves distinct texts against the cache, fanning out
// to goroutines for larger batches. Returns the hits keyed by text and
// the missed spans in their original order.
func (im *Immersive) lookupCached(distinct []Span) (map[string]string, []Span) {
	translations := make(map[string]string)

	// When source matches target, every span "translates" to itself.
	if SameLanguage(im.targetLang, im.sourceLang) {
		for _, s := range distinct {
			translations[s.Text] = s.Text
		}
		return translations, nil
	}

	if len(distinct) < parallelThreshold {
		var misses []Span
		for _, s := range distinct {
			key := Key(s.Text, im.targetLang, im.sourceLang)
			if val, ok := im.store.Get(key); ok {
				translations[s.Text] = val
			} else {
				misses = append(misses, s)
			}
		}
		return translations, misses
	}

	type lookupResult struct {
		text  string
		value string
		found bool
	}

	results := make(chan lookupResult, len(distinct))
	var wg sync.WaitGroup

	for _, s := range distinct {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			key := Key(text, im.targetLang, im.sourceLang)
			if val, ok := im.store.Get(key); ok {
				results <- lookupResult{text: text, value: val, found: true}
			} else {
				results <- lookupResult{text: text}
			}
		}(s.Text)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	missed := make(map[string]bool)
	for result := range results {
		if result.found {
			translations[result.text] = result.value
		} else {
			missed[result.text] = true
		}
	}

	// Rebuild misses preserving original order.
	var misses []Span
	for _, s := range distinct {
		if missed[s.Text] {
			misses = append(misses, s)
		}
	}

	return translations, misses
}

// applyLines renders the annotations, provided generation gen is still
// the buffer's latest update. Lines whose annotation is unchanged are
// skipped; lines that no longer carry a span are cleared.
func (im *Immersive) applyLines(buf BufferID, gen uint64, spans []Span, translations map[string]string) {
	im.mu.Lock()
	st, ok := im.buffers[buf]
	if !ok || !st.enabled || st.gen != gen {
		im.mu.Unlock()
		return
	}

	type lineChange struct {
		line int
		text string
	}
	var changes []lineChange

	current := make(map[int]string, len(spans))
	for _, s := range spans {
		translated, ok := translations[s.Text]
		if !ok {
			continue
		}
		current[s.Line] = translated
	}

	for line, text := range current {
		if st.lines[line] != text {
			changes = append(changes, lineChange{line: line, text: text})
		}
	}
	for line := range st.lines {
		if _, still := current[line]; !still {
			changes = append(changes, lineChange{line: line})
		}
	}
	st.lines = current
	im.mu.Unlock()

	for _, c := range changes {
		im.sink.SetLineAnnotation(buf, c.line, c.text)
	}
}

// Lines returns a copy of the annotations currently applied to buf,
// keyed by line. Useful for hosts that need to redraw.
func (im *Immersive) Lines(buf BufferID) map[int]string {
	im.mu.Lock()
	defer im.mu.Unlock()
	st, ok := im.buffers[buf]
	if !ok {
		return nil
	}
	out := make(map[int]string, len(st.lines))
	for line, text := range st.lines {
		out[line] = text
	}
	return out
}
