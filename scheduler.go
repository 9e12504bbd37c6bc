package hoverlate

import (
	"sync"
	"time"
)

// Token identifies one scheduled hover cycle for a buffer. A buffer has
// at most one current token at any instant; starting a new cycle
// invalidates the previous token, so any in-flight work tagged with it
// becomes stale. Staleness checks are plain equality against the
// buffer's current token.
type Token uint64

// NoToken is the zero Token. A Scheduler never issues it.
const NoToken Token = 0

// FireFunc is invoked when a buffer's debounce timer expires, tagged
// with the cycle's token.
type FireFunc func(buf BufferID, tok Token)

// Scheduler owns the per-buffer debounce timers and cycle tokens. It
// guarantees at most one live cycle per buffer: a second Start before
// the first fires supersedes it, and exactly one fire occurs.
//
// Construct with NewScheduler and share by reference; per-buffer state
// lives on the Scheduler, not in package globals.
type Scheduler struct {
	mu     sync.Mutex
	delay  time.Duration
	seq    uint64
	cycles map[BufferID]*cycle
	fire   FireFunc
}

// cycle is a buffer's live debounce state. timer is nil once the timer
// has fired (or for immediate cycles); the token stays current until
// the cycle is superseded, cancelled, or completed.
type cycle struct {
	token Token
	timer *time.Timer
}

// NewScheduler creates a Scheduler that fires fn after delay.
func NewScheduler(delay time.Duration, fn FireFunc) *Scheduler {
	return &Scheduler{
		delay:  delay,
		cycles: make(map[BufferID]*cycle),
		fire:   fn,
	}
}

// Start begins a debounce cycle for buf, superseding any pending or
// in-flight cycle. It returns the fresh token.
func (s *Scheduler) Start(buf BufferID) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.supersedeLocked(buf)

	s.seq++
	tok := Token(s.seq)
	c := &cycle{token: tok}
	c.timer = time.AfterFunc(s.delay, func() {
		s.fired(buf, tok)
	})
	s.cycles[buf] = c
	return tok
}

// StartNow registers an immediate cycle for buf, bypassing the
// debounce delay, and returns its token. Any pending cycle is
// superseded first. The fire callback is not invoked; the caller runs
// the cycle itself with the returned token.
func (s *Scheduler) StartNow(buf BufferID) Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersedeLocked(buf)
	s.seq++
	tok := Token(s.seq)
	s.cycles[buf] = &cycle{token: tok}
	return tok
}

// fired transitions a cycle from Scheduled to Fired. A cycle whose
// token is no longer current was superseded between timer expiry and
// this call; it must not fire.
func (s *Scheduler) fired(buf BufferID, tok Token) {
	s.mu.Lock()
	c, ok := s.cycles[buf]
	if !ok || c.token != tok {
		s.mu.Unlock()
		return
	}
	c.timer = nil
	s.mu.Unlock()

	if s.fire != nil {
		s.fire(buf, tok)
	}
}

// Cancel stops and discards the timer and token for buf. It is a safe
// no-op when no cycle is active.
func (s *Scheduler) Cancel(buf BufferID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersedeLocked(buf)
}

// CancelAll cancels every tracked buffer's cycle. Used on shutdown and
// when the host loses focus.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for buf := range s.cycles {
		s.supersedeLocked(buf)
	}
}

// supersedeLocked releases buf's timer immediately and drops its token.
func (s *Scheduler) supersedeLocked(buf BufferID) {
	c, ok := s.cycles[buf]
	if !ok {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	delete(s.cycles, buf)
}

// IsCurrent reports whether tok is still buf's current token. A result
// computed under a non-current token is stale and must not reach the
// UI.
func (s *Scheduler) IsCurrent(buf BufferID, tok Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cycles[buf]
	return ok && c.token == tok
}

// Complete returns buf to idle if tok is still its current token. A
// stale token is a no-op: the newer cycle owns the buffer's state.
func (s *Scheduler) Complete(buf BufferID, tok Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cycles[buf]
	if ok && c.token == tok {
		delete(s.cycles, buf)
	}
}

// Active reports whether buf has a live cycle (pending or in flight).
func (s *Scheduler) Active(buf BufferID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.cycles[buf]
	return ok
}

// Delay returns the configured debounce delay.
func (s *Scheduler) Delay() time.Duration {
	return s.delay
}
