package compose

import (
	"fmt"
	"sort"

	"github.com/stackplan/stackplan/pkg/catalog"
	"github.com/stackplan/stackplan/pkg/errors"
	"github.com/stackplan/stackplan/pkg/layout"
	"github.com/stackplan/stackplan/pkg/manifest"
)

// PatternHAMultiRegion is the reference composition pattern. It handles
// every availability mode: single-region designs simply get one active
// region and no replication edges.
const PatternHAMultiRegion = "ha-multiregion"

// DefaultPattern is used when the caller does not pick a pattern.
const DefaultPattern = PatternHAMultiRegion

// patternFunc composes resolved intents into a layout graph.
type patternFunc func(*run) error

// patterns is the pattern registry, fixed at init.
var patterns = map[string]patternFunc{
	PatternHAMultiRegion: composeHAMultiRegion,
}

// Patterns returns the registered pattern names, sorted.
func Patterns() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether a pattern name is registered.
func Known(pattern string) bool {
	_, ok := patterns[pattern]
	return ok
}

// Compose builds a layout graph from validated requirements and
// resolved intents using the named pattern. An empty pattern name
// selects DefaultPattern.
//
// Composition is deterministic: identical inputs produce an identical
// graph, including list ordering. All run state (node ids, the
// primary-flow step counter) lives in a fresh run value, so concurrent
// calls never interfere.
func Compose(req manifest.Requirements, intents []manifest.ServiceIntent, pattern string) (*layout.Graph, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if err := errors.ValidatePatternName(pattern); err != nil {
		return nil, err
	}
	fn, ok := patterns[pattern]
	if !ok {
		return nil, errors.New(errors.ErrCodePatternNotFound, "unknown pattern %q (available: %v)", pattern, Patterns())
	}

	r := newRun(req, intents, pattern)
	if err := fn(r); err != nil {
		return nil, err
	}

	// Integrity check before the graph crosses the render boundary.
	if err := r.graph.Verify(); err != nil {
		return nil, err
	}
	return r.graph, nil
}

// run carries the mutable state of one composition: the graph under
// construction, the node id allocator and the primary-flow step
// counter. A run is created per Compose call and never shared.
type run struct {
	req     manifest.Requirements
	intents []manifest.ServiceIntent
	graph   *layout.Graph

	activeRegions []string
	standbyRegion string

	step    int            // primary-flow ordinal, incremented per primary edge
	idSeen  map[string]int // collision counter per base id
	placed  map[catalog.Kind][]layout.Node
	edgeSet map[string]bool // dedupe guard: source->target->label
}

func newRun(req manifest.Requirements, intents []manifest.ServiceIntent, pattern string) *run {
	return &run{
		req:     req,
		intents: intents,
		graph:   layout.New(pattern),
		idSeen:  make(map[string]int),
		placed:  make(map[catalog.Kind][]layout.Node),
		edgeSet: make(map[string]bool),
	}
}

// allocateID returns a unique node id for the base string. Explicit
// duplicate intents of one kind get a numeric suffix in placement
// order, keeping ids stable across runs.
func (r *run) allocateID(base string) string {
	r.idSeen[base]++
	if n := r.idSeen[base]; n > 1 {
		return fmt.Sprintf("%s-%d", base, n)
	}
	return base
}

// nextStep advances the primary-flow counter and returns the ordinal.
func (r *run) nextStep() int {
	r.step++
	return r.step
}

// addNode places a node and records it for edge synthesis.
func (r *run) addNode(n layout.Node) {
	r.graph.Nodes = append(r.graph.Nodes, n)
	r.placed[n.Kind] = append(r.placed[n.Kind], n)
}

// addEdge appends an edge unless an identical (source, target, label)
// edge already exists. Overlapping kind sets in the rule table must not
// produce duplicate edges.
func (r *run) addEdge(e layout.Edge) {
	key := e.Source + "\x00" + e.Target + "\x00" + e.Label
	if r.edgeSet[key] {
		return
	}
	r.edgeSet[key] = true
	r.graph.Edges = append(r.graph.Edges, e)
}

// ensureCluster registers a cluster once.
func (r *run) ensureCluster(name string, c layout.Cluster) {
	if _, ok := r.graph.Clusters[name]; !ok {
		r.graph.Clusters[name] = c
	}
}
