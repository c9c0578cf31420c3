// Package compose turns validated requirements and resolved intents
// into a clustered, ranked, styled [layout.Graph].
//
// # Patterns
//
// Composition strategies are registered by name; the reference pattern
// is "ha-multiregion", which also handles single-region designs. A
// pattern runs in fixed steps: select active regions, place one node
// per intent per applicable region into region-nested clusters,
// synthesize edges from the ordered connection rule table, then
// annotate the graph for crossing reduction.
//
// # Determinism
//
// Identical (requirements, intents, pattern) inputs always produce an
// identical graph, including list ordering. All per-run state, in
// particular the primary-flow step counter, lives in a run value
// created inside [Compose]; nothing mutable is shared between calls,
// so arbitrarily many compositions may run concurrently.
//
// # Rules
//
// Connection rules are static data validated against the closed kind
// set at init. A rule fires for every present (source, target) instance
// pair within its scope, excluding self-pairs. Primary-flow rules fire
// first and number their edges 1, 2, 3, ... in creation order.
package compose
