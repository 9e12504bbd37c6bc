package cache

import "sync"

// Policy wraps a Store with an enabled flag checked at the boundary.
// When disabled, Get always misses, Set is a no-op, and the wrapped
// store is cleared so no entry is retained while caching is off. The
// wrapped store's own structure is never bypassed.
type Policy struct {
	mu      sync.Mutex
	store   Store
	enabled bool
}

// NewPolicy wraps store. The cache starts enabled.
func NewPolicy(store Store) *Policy {
	return &Policy{store: store, enabled: true}
}

// Get retrieves a value from the wrapped store, or reports a miss when
// caching is disabled.
func (p *Policy) Get(key string) (string, bool) {
	p.mu.Lock()
	enabled := p.enabled
	p.mu.Unlock()
	if !enabled {
		return "", false
	}
	return p.store.Get(key)
}

// Set stores a value in the wrapped store, or does nothing when
// caching is disabled.
func (p *Policy) Set(key string, value string) error {
	p.mu.Lock()
	enabled := p.enabled
	p.mu.Unlock()
	if !enabled {
		return nil
	}
	return p.store.Set(key, value)
}

// Clear removes all entries from the wrapped store.
func (p *Policy) Clear() {
	p.store.Clear()
}

// Len returns the wrapped store's size; 0 when disabled.
func (p *Policy) Len() int {
	p.mu.Lock()
	enabled := p.enabled
	p.mu.Unlock()
	if !enabled {
		return 0
	}
	return p.store.Len()
}

// SetEnabled turns caching on or off. Disabling clears the wrapped
// store so entries never outlive the disable.
func (p *Policy) SetEnabled(enabled bool) {
	p.mu.Lock()
	was := p.enabled
	p.enabled = enabled
	p.mu.Unlock()
	if was && !enabled {
		p.store.Clear()
	}
}

// Enabled reports whether caching is on.
func (p *Policy) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Unwrap returns the wrapped store.
func (p *Policy) Unwrap() Store {
	return p.store
}

// Verify Policy implements Store
var _ Store = (*Policy)(nil)
