package advisor

import (
	"context"

	"github.com/stackplan/stackplan/pkg/catalog"
	"github.com/stackplan/stackplan/pkg/manifest"
)

// Heuristic is a deterministic local advisor. It encodes a few
// conventions production designs tend to follow; because it is pure
// and fast it doubles as the reference implementation for exercising
// the Advisor seam without any AI backend.
type Heuristic struct{}

// RecommendPattern always picks the reference pattern: it covers every
// availability mode.
func (Heuristic) RecommendPattern(ctx context.Context, req manifest.Requirements) (string, error) {
	return "ha-multiregion", nil
}

// InferDependencies suggests services a production design is expected
// to carry: monitoring whenever anything emits telemetry, and a key
// vault for production environments holding a database.
func (Heuristic) InferDependencies(ctx context.Context, intents []manifest.ServiceIntent) ([]manifest.ServiceIntent, error) {
	present := make(map[catalog.Kind]bool, len(intents))
	for _, intent := range intents {
		present[intent.Kind] = true
	}

	var out []manifest.ServiceIntent
	if !present[catalog.KindMonitoring] {
		for _, intent := range intents {
			if catalog.GroupFor(intent.Kind) == catalog.GroupCompute {
				out = append(out, manifest.ServiceIntent{Kind: catalog.KindMonitoring})
				break
			}
		}
	}
	if !present[catalog.KindKeyVault] {
		for _, intent := range intents {
			if g := catalog.GroupFor(intent.Kind); g == catalog.GroupData {
				out = append(out, manifest.ServiceIntent{Kind: catalog.KindKeyVault})
				break
			}
		}
	}
	return out, nil
}

// SuggestGrouping reproduces the catalog grouping; the builtin mapping
// is already total, so there is nothing to override.
func (Heuristic) SuggestGrouping(ctx context.Context, intents []manifest.ServiceIntent, req manifest.Requirements) (map[catalog.Group][]manifest.ServiceIntent, error) {
	out := make(map[catalog.Group][]manifest.ServiceIntent)
	for _, intent := range intents {
		g := catalog.GroupFor(intent.Kind)
		out[g] = append(out[g], intent)
	}
	return out, nil
}

var _ Advisor = Heuristic{}
