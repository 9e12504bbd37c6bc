package hoverlate

import "fmt"

// BackendError indicates a translation backend failure (API error,
// non-zero exit, empty output, etc.).
type BackendError struct {
	Message     string
	Cause       error
	Retryable   bool // Whether the operation can be retried
	Unavailable bool // Whether the backend itself is missing/unreachable
}

func (e *BackendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("backend error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("backend error: %s", e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// LocatorError indicates a span location failure (parse error, etc.).
type LocatorError struct {
	Message     string
	Cause       error
	ContentType string // The type of content that failed to parse
}

func (e *LocatorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("locator error (%s): %s: %v", e.ContentType, e.Message, e.Cause)
	}
	return fmt.Sprintf("locator error (%s): %s", e.ContentType, e.Message)
}

func (e *LocatorError) Unwrap() error {
	return e.Cause
}

// CountMismatchError indicates the backend returned a different number
// of translations than requested.
type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("translation count mismatch: expected %d, got %d", e.Expected, e.Got)
}
