// Package locator provides syntax-aware span locators.
package locator

import "github.com/ZaguanLabs/hoverlate"

// Locator is an alias to the main package interface for convenience.
type Locator = hoverlate.Locator

// Span is an alias to the main package type.
type Span = hoverlate.Span

// ContentFunc supplies the current text of a buffer. The host editor
// integration provides it; a false return means the buffer is gone.
type ContentFunc func(buf hoverlate.BufferID) (string, bool)

// StaticContent builds a ContentFunc over a fixed buffer map, useful
// for tests and one-shot CLI runs.
func StaticContent(buffers map[hoverlate.BufferID]string) ContentFunc {
	return func(buf hoverlate.BufferID) (string, bool) {
		content, ok := buffers[buf]
		return content, ok
	}
}
