// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup
// to receive events about rendering, pointer interaction and blink timers.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    // ... run application
//	}
//
// The engine calls hooks to emit events:
//
//	observability.Render().OnRenderStart(ctx, nodeCount, linkCount)
//	// ... draw ...
//	observability.Render().OnRenderComplete(ctx, scale, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from full redraws.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, nodes, links int)
	OnRenderComplete(ctx context.Context, scale float64, duration time.Duration)
	// OnDanglingLink records a link drawn empty because an endpoint is missing.
	OnDanglingLink(ctx context.Context, linkID string)
}

// =============================================================================
// Interaction Hooks
// =============================================================================

// InteractionHooks receives events from the interaction controller.
type InteractionHooks interface {
	// OnEvent records a delivered pointer event; handlers is the number of
	// registered handlers invoked (0 when suppressed).
	OnEvent(ctx context.Context, kind, entityID string, handlers int)
	// OnClickSuppressed records a click swallowed because a drag just ended.
	OnClickSuppressed(ctx context.Context, kind, entityID string)
}

// =============================================================================
// Blink Hooks
// =============================================================================

// BlinkHooks receives events from the blink manager.
type BlinkHooks interface {
	OnBlinkStart(ctx context.Context, nodeID string)
	OnBlinkStopAll(ctx context.Context, stopped int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, int, int)                  {}
func (NoopRenderHooks) OnRenderComplete(context.Context, float64, time.Duration) {}
func (NoopRenderHooks) OnDanglingLink(context.Context, string)                   {}

// NoopInteractionHooks is a no-op implementation of InteractionHooks.
type NoopInteractionHooks struct{}

func (NoopInteractionHooks) OnEvent(context.Context, string, string, int)      {}
func (NoopInteractionHooks) OnClickSuppressed(context.Context, string, string) {}

// NoopBlinkHooks is a no-op implementation of BlinkHooks.
type NoopBlinkHooks struct{}

func (NoopBlinkHooks) OnBlinkStart(context.Context, string) {}
func (NoopBlinkHooks) OnBlinkStopAll(context.Context, int)  {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks      RenderHooks      = NoopRenderHooks{}
	interactionHooks InteractionHooks = NoopInteractionHooks{}
	blinkHooks       BlinkHooks       = NoopBlinkHooks{}
	hooksMu          sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetInteractionHooks registers custom interaction hooks.
// This should be called once at application startup.
func SetInteractionHooks(h InteractionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		interactionHooks = h
	}
}

// SetBlinkHooks registers custom blink hooks.
// This should be called once at application startup.
func SetBlinkHooks(h BlinkHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		blinkHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Interaction returns the registered interaction hooks.
func Interaction() InteractionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return interactionHooks
}

// Blink returns the registered blink hooks.
func Blink() BlinkHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return blinkHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	interactionHooks = NoopInteractionHooks{}
	blinkHooks = NoopBlinkHooks{}
}
