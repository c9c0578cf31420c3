// Package layout defines the render contract: the clustered, ranked,
// styled graph produced by composition and consumed by render backends.
//
// A [Graph] owns its nodes, edges and named clusters. Node membership
// in a cluster is implicit through [Node.Cluster]; cluster nesting is
// expressed through [Cluster.Parent]. Once composed, a graph is treated
// as immutable.
//
// [Graph.Verify] checks referential integrity before the graph crosses
// the render boundary: a dangling edge endpoint, cluster reference or
// parent link is a composer bug and surfaces as a RENDER_CONTRACT
// error rather than a broken diagram.
//
// Graphs serialize to JSON with [MarshalGraph] for out-of-process
// renderers and for content-addressed caching.
package layout
