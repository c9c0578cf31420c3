// Package advisor defines the optional advisory interface consulted
// during composition.
//
// An [Advisor] may recommend a pattern, infer missing dependencies or
// suggest a grouping. Advice is strictly additive: the pipeline always
// has a deterministic builtin answer, and every advisor call goes
// through [Bounded], which enforces a timeout and absorbs errors and
// panics so a slow or broken advisor can never stall or fail a
// composition. AI-backed implementations plug in from outside; this
// package only ships the deterministic [Noop] and [Heuristic]
// advisors.
package advisor

import (
	"context"

	"github.com/stackplan/stackplan/pkg/catalog"
	"github.com/stackplan/stackplan/pkg/manifest"
)

// Advisor suggests composition choices. Implementations may be slow or
// unreliable; callers must wrap them with Bounded. Every method may
// return its zero value to decline.
type Advisor interface {
	// RecommendPattern suggests a composition pattern for the
	// requirements. Empty means no recommendation.
	RecommendPattern(ctx context.Context, req manifest.Requirements) (string, error)

	// InferDependencies suggests extra intents missing from the list.
	InferDependencies(ctx context.Context, intents []manifest.ServiceIntent) ([]manifest.ServiceIntent, error)

	// SuggestGrouping proposes an assignment of intents to semantic
	// groups, overriding the catalog default where present.
	SuggestGrouping(ctx context.Context, intents []manifest.ServiceIntent, req manifest.Requirements) (map[catalog.Group][]manifest.ServiceIntent, error)
}

// Noop is the deterministic default advisor: it declines every
// question, leaving all decisions to the builtin behavior.
type Noop struct{}

// RecommendPattern declines.
func (Noop) RecommendPattern(context.Context, manifest.Requirements) (string, error) {
	return "", nil
}

// InferDependencies declines.
func (Noop) InferDependencies(context.Context, []manifest.ServiceIntent) ([]manifest.ServiceIntent, error) {
	return nil, nil
}

// SuggestGrouping declines.
func (Noop) SuggestGrouping(context.Context, []manifest.ServiceIntent, manifest.Requirements) (map[catalog.Group][]manifest.ServiceIntent, error) {
	return nil, nil
}

var _ Advisor = Noop{}
