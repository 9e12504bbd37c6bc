package hoverlate_test

import (
	"sync"

	"github.com/ZaguanLabs/hoverlate"
)

// testSink records every UI call for assertions.
type testSink struct {
	mu          sync.Mutex
	popups      []string
	closes      int
	notes       []string
	annotations map[hoverlate.BufferID]map[int]string
	lineCalls   int
	cleared     []hoverlate.BufferID
}

func newTestSink() *testSink {
	return &testSink{
		annotations: make(map[hoverlate.BufferID]map[int]string),
	}
}

func (s *testSink) ShowPopup(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.popups = append(s.popups, text)
}

func (s *testSink) ClosePopup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
}

func (s *testSink) SetLineAnnotation(buf hoverlate.BufferID, line int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lineCalls++
	lines, ok := s.annotations[buf]
	if !ok {
		lines = make(map[int]string)
		s.annotations[buf] = lines
	}
	if text == "" {
		delete(lines, line)
		return
	}
	lines[line] = text
}

func (s *testSink) ClearAnnotations(buf hoverlate.BufferID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared = append(s.cleared, buf)
	delete(s.annotations, buf)
}

func (s *testSink) Notify(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, message)
}

func (s *testSink) popupTexts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.popups))
	copy(out, s.popups)
	return out
}

func (s *testSink) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

func (s *testSink) notifications() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.notes))
	copy(out, s.notes)
	return out
}

func (s *testSink) annotation(buf hoverlate.BufferID, line int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, ok := s.annotations[buf]
	if !ok {
		return "", false
	}
	text, ok := lines[line]
	return text, ok
}

func (s *testSink) annotationCount(buf hoverlate.BufferID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.annotations[buf])
}

func (s *testSink) lineCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lineCalls
}

func (s *testSink) clearedBuffers() []hoverlate.BufferID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]hoverlate.BufferID, len(s.cleared))
	copy(out, s.cleared)
	return out
}

// staticLocator serves a fixed span list per buffer.
type staticLocator struct {
	spans map[hoverlate.BufferID][]hoverlate.Span
}

func newStaticLocator() *staticLocator {
	return &staticLocator{spans: make(map[hoverlate.BufferID][]hoverlate.Span)}
}

func (l *staticLocator) set(buf hoverlate.BufferID, spans ...hoverlate.Span) {
	l.spans[buf] = spans
}

func (l *staticLocator) Locate(buf hoverlate.BufferID, pos hoverlate.Position) (hoverlate.Span, bool) {
	for _, s := range l.spans[buf] {
		if s.Line == pos.Line {
			return s, true
		}
	}
	return hoverlate.Span{}, false
}

func (l *staticLocator) LocateAll(buf hoverlate.BufferID) ([]hoverlate.Span, error) {
	return l.spans[buf], nil
}
