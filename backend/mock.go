package backend

import (
	"context"
	"fmt"
)

// MockBackend is a scriptable backend for testing.
type MockBackend struct {
	Translations map[string]string // Map of source text to translation
	Err          error             // Error returned by every call, when set
	CallCount    int               // Number of times Translate was called
	LastRequest  *Request          // Last request received

	// Gate, when set, is received from before each call completes. It
	// lets tests hold a call in flight to exercise staleness paths.
	Gate chan struct{}

	// Started, when set, receives a signal as each call begins, so
	// tests can tell when a gated call is in flight.
	Started chan struct{}
}

// NewMockBackend creates a mock backend with default translations.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		Translations: map[string]string{
			"Hello":       "Hola",
			"World":       "Mundo",
			"Hello World": "Hola Mundo",
			"hello":       "こんにちは",
		},
	}
}

// Translate returns scripted translations, or bracketed source text for
// unknown inputs.
func (m *MockBackend) Translate(ctx context.Context, req Request) ([]string, error) {
	m.CallCount++
	m.LastRequest = &req

	if m.Started != nil {
		m.Started <- struct{}{}
	}

	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.Err != nil {
		return nil, m.Err
	}

	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		if translation, ok := m.Translations[text]; ok {
			results[i] = translation
		} else {
			results[i] = fmt.Sprintf("[%s]", text)
		}
	}

	return results, nil
}

// Reset resets the call count and last request.
func (m *MockBackend) Reset() {
	m.CallCount = 0
	m.LastRequest = nil
}

// Verify MockBackend implements Backend
var _ Backend = (*MockBackend)(nil)
