package advisor

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stackplan/stackplan/pkg/catalog"
	"github.com/stackplan/stackplan/pkg/manifest"
)

// DefaultTimeout bounds a single advisor call. Composition itself takes
// microseconds; an advisor slower than this is not worth waiting for.
const DefaultTimeout = 2 * time.Second

// Bounded wraps an Advisor with a per-call timeout and full failure
// absorption. Errors, timeouts and panics all degrade to the declined
// answer and a debug log line; they never reach the caller.
type Bounded struct {
	inner   Advisor
	timeout time.Duration
	logger  *log.Logger
}

// NewBounded wraps inner. A nil inner or non-positive timeout fall back
// to Noop and DefaultTimeout.
func NewBounded(inner Advisor, timeout time.Duration, logger *log.Logger) *Bounded {
	if inner == nil {
		inner = Noop{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Bounded{inner: inner, timeout: timeout, logger: logger}
}

// RecommendPattern asks the wrapped advisor, declining on any failure.
func (b *Bounded) RecommendPattern(ctx context.Context, req manifest.Requirements) (string, error) {
	out := call(b, "RecommendPattern", func(ctx context.Context) (string, error) {
		return b.inner.RecommendPattern(ctx, req)
	})
	return out, nil
}

// InferDependencies asks the wrapped advisor, declining on any failure.
func (b *Bounded) InferDependencies(ctx context.Context, intents []manifest.ServiceIntent) ([]manifest.ServiceIntent, error) {
	out := call(b, "InferDependencies", func(ctx context.Context) ([]manifest.ServiceIntent, error) {
		return b.inner.InferDependencies(ctx, intents)
	})
	return out, nil
}

// SuggestGrouping asks the wrapped advisor, declining on any failure.
func (b *Bounded) SuggestGrouping(ctx context.Context, intents []manifest.ServiceIntent, req manifest.Requirements) (map[catalog.Group][]manifest.ServiceIntent, error) {
	out := call(b, "SuggestGrouping", func(ctx context.Context) (map[catalog.Group][]manifest.ServiceIntent, error) {
		return b.inner.SuggestGrouping(ctx, intents, req)
	})
	return out, nil
}

var _ Advisor = (*Bounded)(nil)

// call runs one advisor method in its own goroutine under the timeout.
// The goroutine owns the panic recovery; a late result after timeout is
// discarded through the buffered channel.
func call[T any](b *Bounded, method string, fn func(context.Context) (T, error)) (out T) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	ch := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Debug("advisor panicked, using builtin behavior", "method", method, "panic", r)
				ch <- result{}
			}
		}()
		v, err := fn(ctx)
		ch <- result{value: v, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			b.logger.Debug("advisor failed, using builtin behavior", "method", method, "err", res.err)
			return out
		}
		return res.value
	case <-ctx.Done():
		b.logger.Debug("advisor timed out, using builtin behavior", "method", method, "timeout", b.timeout)
		return out
	}
}
