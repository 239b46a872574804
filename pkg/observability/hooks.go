// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events from the deck engine, the render sinks, the artifact cache and
// the HTTP server.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Deck hooks are invoked from the engine's single thread, inside the
// operation that produced the event, so implementations must return quickly
// and must not call back into the deck.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDeckHooks(&myDeckHooks{})
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Deck().OnFling(velocity, armed)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Deck Hooks
// =============================================================================

// DeckHooks receives events from the card deck engine.
type DeckHooks interface {
	// OnLayout records a layout pass and how many items ended up visible.
	OnLayout(visible, total int)

	// OnGestureClaimed records a drag that crossed the touch slop.
	OnGestureClaimed(pos float64)

	// OnFling records a fling request and whether a trajectory was armed.
	OnFling(velocity float64, armed bool)

	// OnFlingEnd records the scroll position a fling came to rest at.
	OnFlingEnd(position int)

	// OnOverscrollReset records the start of an overscroll settle animation.
	OnOverscrollReset(progress float64, duration time.Duration)

	// OnItemRemoved records a removal and the remaining item count.
	OnItemRemoved(handle string, remaining int)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from render sinks.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, format string, frames int)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDeckHooks is a no-op implementation of DeckHooks.
type NoopDeckHooks struct{}

func (NoopDeckHooks) OnLayout(int, int)                        {}
func (NoopDeckHooks) OnGestureClaimed(float64)                 {}
func (NoopDeckHooks) OnFling(float64, bool)                    {}
func (NoopDeckHooks) OnFlingEnd(int)                           {}
func (NoopDeckHooks) OnOverscrollReset(float64, time.Duration) {}
func (NoopDeckHooks) OnItemRemoved(string, int)                {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, int) {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	deckHooks   DeckHooks   = NoopDeckHooks{}
	renderHooks RenderHooks = NoopRenderHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetDeckHooks registers custom deck hooks.
// This should be called once at application startup before any deck is created.
func SetDeckHooks(h DeckHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		deckHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Deck returns the registered deck hooks.
func Deck() DeckHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return deckHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
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
	deckHooks = NoopDeckHooks{}
	renderHooks = NoopRenderHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
