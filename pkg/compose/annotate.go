package compose

import (
	"sort"
	"strings"

	"github.com/stackplan/stackplan/pkg/catalog"
	"github.com/stackplan/stackplan/pkg/layout"
)

// clusterRankHints steers layered render backends: the edge group pins
// to the top of the diagram, data and monitoring sink to the bottom.
var clusterRankHints = map[catalog.Group]string{
	catalog.GroupEdge:       layout.RankHintMin,
	catalog.GroupData:       layout.RankHintMax,
	catalog.GroupMonitoring: layout.RankHintMax,
}

// annotate is the crossing-reduction step. It stable-sorts nodes by
// rank (preserving placement order within a rank) and tags group
// clusters with rank hints. It only reorders the node list and adds
// metadata; node, edge and cluster identity never change here.
//
// The heuristic is deliberately simple: primary-flow edges already
// carry heavier weights from the rule table, so a layered backend
// keeps the request path straight and pushes light telemetry edges
// aside. A stronger ordering algorithm could replace this step without
// touching the graph contract.
func (r *run) annotate() {
	sort.SliceStable(r.graph.Nodes, func(i, j int) bool {
		return r.graph.Nodes[i].Rank < r.graph.Nodes[j].Rank
	})

	for name, c := range r.graph.Clusters {
		group, ok := clusterGroup(name)
		if !ok {
			continue
		}
		if hint, ok := clusterRankHints[group]; ok {
			c.RankHint = hint
			r.graph.Clusters[name] = c
		}
	}
}

// clusterGroup recovers the semantic group from a cluster name.
// Group clusters are named "<group>" or "<group>-<region>"; region
// containers ("region-<name>") carry no group.
func clusterGroup(name string) (catalog.Group, bool) {
	if strings.HasPrefix(name, "region-") {
		return "", false
	}
	base, _, _ := strings.Cut(name, "-")
	for _, g := range catalog.Groups() {
		if string(g) == base {
			return g, true
		}
	}
	return "", false
}
