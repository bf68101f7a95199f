// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks; the application decides
// at startup what, if anything, listens. The defaults are no-ops, so the core
// packages carry no dependency on a particular backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetHTTPHooks(&requestLogger{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnRunStart(ctx, 5)
//	// ... fetch articles, resolve images ...
//	observability.Pipeline().OnRunComplete(ctx, rendered, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from collage runs.
type PipelineHooks interface {
	// OnRunStart fires when a run enters the Loading state.
	OnRunStart(ctx context.Context, articleCount int)

	// OnArticleDone fires after an article's image resolutions have joined.
	// err is non-nil if the image listing failed.
	OnArticleDone(ctx context.Context, title string, attempted, rendered int, err error)

	// OnImageRendered fires for every image appended to a display.
	OnImageRendered(ctx context.Context, article, url string)

	// OnRunComplete fires when a run returns to Idle.
	OnRunComplete(ctx context.Context, rendered int, duration time.Duration, err error)
}

// =============================================================================
// Board Hooks
// =============================================================================

// BoardHooks receives events from display containers.
type BoardHooks interface {
	// OnAppend records an item appended to a board.
	OnAppend(ctx context.Context, backend string)

	// OnClear records a board being emptied.
	OnClear(ctx context.Context, backend string, removed int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRunStart(context.Context, int)                               {}
func (NoopPipelineHooks) OnArticleDone(context.Context, string, int, int, error)        {}
func (NoopPipelineHooks) OnImageRendered(context.Context, string, string)               {}
func (NoopPipelineHooks) OnRunComplete(context.Context, int, time.Duration, error)      {}

// NoopBoardHooks is a no-op implementation of BoardHooks.
type NoopBoardHooks struct{}

func (NoopBoardHooks) OnAppend(context.Context, string)     {}
func (NoopBoardHooks) OnClear(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	boardHooks    BoardHooks    = NoopBoardHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any run starts.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetBoardHooks registers custom board hooks.
func SetBoardHooks(h BoardHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		boardHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Board returns the registered board hooks.
func Board() BoardHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return boardHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	boardHooks = NoopBoardHooks{}
	httpHooks = NoopHTTPHooks{}
}
