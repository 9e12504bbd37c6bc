package hoverlate

import "sync"

// positionMap records the last scheduled cursor position per buffer so
// the debounce fire can locate the right span.
type positionMap struct {
	mu  sync.Mutex
	pos map[BufferID]Position
}

func (m *positionMap) init() {
	m.pos = make(map[BufferID]Position)
}

func (m *positionMap) set(buf BufferID, pos Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos[buf] = pos
}

func (m *positionMap) get(buf BufferID) (Position, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pos, ok := m.pos[buf]
	return pos, ok
}

func (m *positionMap) delete(buf BufferID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pos, buf)
}

// nopSink is the default UISink; hosts override it with WithSink.
type nopSink struct{}

func (nopSink) ShowPopup(string)                        {}
func (nopSink) ClosePopup()                             {}
func (nopSink) SetLineAnnotation(BufferID, int, string) {}
func (nopSink) ClearAnnotations(BufferID)               {}
func (nopSink) Notify(string)                           {}

// nopLocator is the default Locator; it never finds a span.
type nopLocator struct{}

func (nopLocator) Locate(BufferID, Position) (Span, bool) { return Span{}, false }
func (nopLocator) LocateAll(BufferID) ([]Span, error)     { return nil, nil }
