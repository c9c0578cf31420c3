package resolve

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/stackplan/stackplan/pkg/catalog"
	"github.com/stackplan/stackplan/pkg/errors"
	"github.com/stackplan/stackplan/pkg/manifest"
)

// DefaultMaxVisited bounds the breadth-first expansion. The builtin
// catalog is a DAG, so the walk visits each kind at most once; hitting
// the bound means the catalog itself is corrupt, not that the input is
// too large.
const DefaultMaxVisited = 1000

// Options configures dependency expansion.
type Options struct {
	// IncludeOptional controls whether optional catalog dependencies
	// are synthesized. The default policy is inclusive; callers that
	// want a minimal design set this to false.
	IncludeOptional bool

	// MaxVisited overrides the expansion safety bound. Zero means
	// DefaultMaxVisited.
	MaxVisited int

	// Logger receives a warning per unknown kind. Nil means log.Default.
	Logger *log.Logger
}

// DefaultOptions returns the default-inclusive expansion policy.
func DefaultOptions() Options {
	return Options{IncludeOptional: true}
}

// Expand returns the input intents plus every transitively required
// dependency from the catalog.
//
// The walk is breadth-first, seeded by the explicit intents in order.
// Explicit intents are always kept, including duplicates of the same
// kind; synthesized dependencies are collapsed to at most one intent
// per kind. Kinds outside the catalog pass through opaquely with a
// warning. Expansion is idempotent: expanding an already-expanded list
// adds nothing.
func Expand(ctx context.Context, intents []manifest.ServiceIntent, opts Options) ([]manifest.ServiceIntent, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	maxVisited := opts.MaxVisited
	if maxVisited <= 0 {
		maxVisited = DefaultMaxVisited
	}

	out := make([]manifest.ServiceIntent, 0, len(intents))
	seen := make(map[catalog.Kind]bool)
	var queue []catalog.Kind

	enqueue := func(k catalog.Kind) {
		if seen[k] {
			return
		}
		seen[k] = true
		queue = append(queue, k)
	}

	for _, intent := range intents {
		out = append(out, intent)
		if !catalog.Known(intent.Kind) {
			if !seen[intent.Kind] {
				logger.Warn("unknown service kind, passing through", "kind", intent.Kind)
			}
			seen[intent.Kind] = true
			continue
		}
		enqueue(intent.Kind)
	}

	visited := 0
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		k := queue[0]
		queue = queue[1:]

		visited++
		if visited > maxVisited {
			return nil, errors.New(errors.ErrCodeResolutionLimit,
				"dependency expansion exceeded %d visited kinds; catalog is likely cyclic", maxVisited)
		}

		for _, dep := range catalog.Dependencies(k) {
			if !dep.Required && !opts.IncludeOptional {
				continue
			}
			if seen[dep.Kind] {
				continue
			}
			out = append(out, synthesize(dep))
			enqueue(dep.Kind)
		}
	}

	return out, nil
}

// synthesize builds an intent for a catalog dependency, carrying the
// dependency's default properties.
func synthesize(dep catalog.Dependency) manifest.ServiceIntent {
	intent := manifest.ServiceIntent{Kind: dep.Kind}
	if len(dep.Defaults) > 0 {
		intent.Properties = make(map[string]any, len(dep.Defaults))
		for k, v := range dep.Defaults {
			intent.Properties[k] = v
		}
	}
	return intent
}
