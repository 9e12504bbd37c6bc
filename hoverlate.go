// Package hoverlate provides the request-scheduling and bounded-cache
// core for editor extensions that show translated comments and strings
// on hover or inline.
//
// The engine debounces per-buffer hover requests, caches translations
// in a bounded LRU store, and guarantees that a late-arriving result
// from a superseded request is never displayed.
//
// Basic usage:
//
//	import (
//	    "github.com/ZaguanLabs/hoverlate"
//	    "github.com/ZaguanLabs/hoverlate/backend"
//	    "github.com/ZaguanLabs/hoverlate/locator"
//	)
//
//	func main() {
//	    b := backend.NewOpenAIBackend(backend.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//
//	    e := hoverlate.NewEngine("ja_JP", b,
//	        hoverlate.WithLocator(loc),
//	        hoverlate.WithSink(sink),
//	    )
//	    defer e.Shutdown()
//
//	    // Wire host events:
//	    //   cursor idle   -> e.CursorIdle(buf, pos)
//	    //   cursor moved  -> e.CursorMoved(buf)
//	    //   buffer saved  -> e.BufferSaved(buf)
//	}
package hoverlate
