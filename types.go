package hoverlate

import "context"

// BufferID identifies a document buffer in the host editor.
type BufferID int

// SpanKind classifies a located text span.
type SpanKind string

const (
	// KindComment is a source code comment.
	KindComment SpanKind = "comment"
	// KindString is a string literal.
	KindString SpanKind = "string"
	// KindText is plain document text (HTML text nodes, etc.).
	KindText SpanKind = "text"
)

// Span is an identified range of source text with its classification.
type Span struct {
	Text string   // Span content (trimmed)
	Kind SpanKind // Classification
	Line int      // 1-based line number in the buffer
}

// Position is a cursor location within a buffer.
type Position struct {
	Line int // 1-based line
	Col  int // 0-based column
}

// Request contains the parameters for a backend translation call.
type Request struct {
	Texts      []string   // Texts to translate, one result expected per text
	TargetLang string     // Target language code (e.g., "es_ES", "ja_JP")
	SourceLang string     // Source language code; empty means auto-detect
	Kinds      []SpanKind // Kind of each text, parallel to Texts (optional)
	Context    string     // Optional disambiguation context for the backend
}

// Backend is the interface for translation backends.
// Translate completes exactly once: either all results or an error.
type Backend interface {
	Translate(ctx context.Context, req Request) ([]string, error)
}

// Locator finds translatable spans in a buffer. Implementations are
// syntax-aware (comment/string classification, consecutive-comment
// merging) and live in the locator subpackage.
type Locator interface {
	// Locate returns the span at pos, if any.
	Locate(buf BufferID, pos Position) (Span, bool)
	// LocateAll returns every span in the buffer, ordered by line.
	LocateAll(buf BufferID) ([]Span, error)
}

// UISink receives translation results for display. Implementations are
// provided by the host editor integration.
type UISink interface {
	// ShowPopup displays a hover translation.
	ShowPopup(text string)
	// ClosePopup dismisses the hover popup and any loading indicator.
	ClosePopup()
	// SetLineAnnotation applies an inline annotation at a line,
	// replacing any prior annotation there.
	SetLineAnnotation(buf BufferID, line int, text string)
	// ClearAnnotations removes all inline annotations for a buffer.
	ClearAnnotations(buf BufferID)
	// Notify surfaces a user-visible warning.
	Notify(message string)
}

// Status describes how a hover cycle resolved.
type Status int

const (
	// StatusApplied means a fresh translation was handed to the UI sink.
	StatusApplied Status = iota
	// StatusCached is StatusApplied via a cache hit (no backend call).
	StatusCached
	// StatusStale means the result arrived after the cycle was
	// superseded; it was dropped from the UI (but may still be cached).
	StatusStale
	// StatusFailed means the backend reported an error.
	StatusFailed
	// StatusNoSpan means no translatable span was found at the cursor.
	StatusNoSpan
	// StatusEmpty means the span text was empty.
	StatusEmpty
	// StatusOversize means the span text exceeded the configured maximum.
	StatusOversize
)

// String returns a short name for the status.
func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusCached:
		return "cached"
	case StatusStale:
		return "stale"
	case StatusFailed:
		return "failed"
	case StatusNoSpan:
		return "no-span"
	case StatusEmpty:
		return "empty"
	case StatusOversize:
		return "oversize"
	}
	return "unknown"
}

// Result is the resolved outcome of one hover cycle. Every cycle
// resolves to exactly one Result; no path leaves UI state pending.
type Result struct {
	Status Status
	Text   string // Translation when Status is Applied or Cached
	Err    error  // Cause when Status is Failed
}
