// Package backend defines the translation backend interface and
// implementations.
package backend

import "github.com/ZaguanLabs/hoverlate"

// Backend is the interface for translation backends.
// This is an alias to the main package interface for convenience.
type Backend = hoverlate.Backend

// Request is an alias to the main package type.
type Request = hoverlate.Request
