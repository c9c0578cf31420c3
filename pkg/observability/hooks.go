// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional: libraries emit events through hook
// interfaces with no-op defaults, and the application registers real
// implementations at startup. The core stays free of any observability
// backend while still supporting OpenTelemetry, Prometheus, or plain
// structured logging in main.
//
// Register hooks once at startup:
//
//	observability.SetPipelineHooks(&myPipelineHooks{})
//	observability.SetCacheHooks(&myCacheHooks{})
//
// Libraries emit events around each stage:
//
//	observability.Pipeline().OnComposeStart(ctx, pattern, len(intents))
//	// ... compose ...
//	observability.Pipeline().OnComposeComplete(ctx, pattern, nodes, edges, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the composition pipeline.
type PipelineHooks interface {
	// Resolution events cover dependency expansion of the manifest.
	OnResolveStart(ctx context.Context, intentCount int)
	OnResolveComplete(ctx context.Context, intentCount, resolvedCount int, duration time.Duration, err error)

	// Composition events cover pattern application.
	OnComposeStart(ctx context.Context, pattern string, intentCount int)
	OnComposeComplete(ctx context.Context, pattern string, nodeCount, edgeCount int, duration time.Duration, err error)

	// Render events cover artifact generation.
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// AdvisorHooks receives events from advisor consultations.
type AdvisorHooks interface {
	// OnAdvisorCall records one advisor method invocation.
	OnAdvisorCall(ctx context.Context, method string, duration time.Duration)

	// OnAdvisorDeclined records an advisor falling back to builtin
	// behavior, with the reason (error, timeout, panic, declined).
	OnAdvisorDeclined(ctx context.Context, method, reason string)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnResolveStart(context.Context, int)                                  {}
func (NoopPipelineHooks) OnResolveComplete(context.Context, int, int, time.Duration, error)    {}
func (NoopPipelineHooks) OnComposeStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnComposeComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopAdvisorHooks is a no-op implementation of AdvisorHooks.
type NoopAdvisorHooks struct{}

func (NoopAdvisorHooks) OnAdvisorCall(context.Context, string, time.Duration) {}
func (NoopAdvisorHooks) OnAdvisorDeclined(context.Context, string, string)    {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	advisorHooks  AdvisorHooks  = NoopAdvisorHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. Call once at
// application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Call once at application
// startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetAdvisorHooks registers custom advisor hooks. Call once at
// application startup before any advisor consultations.
func SetAdvisorHooks(h AdvisorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		advisorHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Advisor returns the registered advisor hooks.
func Advisor() AdvisorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return advisorHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	advisorHooks = NoopAdvisorHooks{}
}
