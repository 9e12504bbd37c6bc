package cache

import (
	"container/list"
	"sync"
)

// lruEntry holds a cached value with its key, stored in the recency
// list so eviction can find the map entry.
type lruEntry struct {
	key   string
	value string
}

// LRUStore is a thread-safe bounded cache with least-recently-used
// eviction. Get and Set on an existing key refresh recency; Set on a
// new key evicts the least recently used entry when the store is full.
//
// The structure is a hash index over a doubly linked list, so Get, Set
// and eviction are all O(1).
type LRUStore struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recently used
	index    map[string]*list.Element
}

// NewLRUStore creates an LRUStore holding at most capacity entries.
// A capacity below 1 is clamped to 1.
func NewLRUStore(capacity int) *LRUStore {
	if capacity < 1 {
		capacity = 1
	}
	return &LRUStore{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[string]*list.Element),
	}
}

// Get retrieves a value and marks the key most recently used.
func (s *LRUStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.index[key]
	if !ok {
		return "", false
	}
	s.order.MoveToFront(el)
	return el.Value.(*lruEntry).value, true
}

// Set stores a value. An existing key is updated in place and marked
// most recently used; a new key evicts the least recently used entry
// first when the store is at capacity.
func (s *LRUStore) Set(key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.index[key]; ok {
		el.Value.(*lruEntry).value = value
		s.order.MoveToFront(el)
		return nil
	}

	if s.order.Len() >= s.capacity {
		s.evictLocked()
	}
	s.index[key] = s.order.PushFront(&lruEntry{key: key, value: value})
	return nil
}

// evictLocked removes the least recently used entry. Must be called
// with the lock held and a non-empty list.
func (s *LRUStore) evictLocked() {
	el := s.order.Back()
	if el == nil {
		return
	}
	s.order.Remove(el)
	delete(s.index, el.Value.(*lruEntry).key)
}

// Clear removes all entries.
func (s *LRUStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order.Init()
	s.index = make(map[string]*list.Element)
}

// Len returns the number of entries.
func (s *LRUStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// Capacity returns the current capacity.
func (s *LRUStore) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capacity
}

// SetCapacity changes the capacity, clamping values below 1 to 1 and
// evicting least recently used entries until the store fits.
func (s *LRUStore) SetCapacity(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capacity = capacity
	for s.order.Len() > s.capacity {
		s.evictLocked()
	}
}

// Entries returns all entries as key-value pairs, most recently used
// first. Used for cache export.
func (s *LRUStore) Entries() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string]string, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		e := el.Value.(*lruEntry)
		result[e.key] = e.value
	}
	return result
}

// Verify LRUStore implements Store
var _ Store = (*LRUStore)(nil)
