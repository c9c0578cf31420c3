package layout

import (
	"github.com/stackplan/stackplan/pkg/errors"
)

// Verify checks the referential integrity of the graph: every edge
// endpoint must be a placed node, every node's cluster must be
// registered, and cluster nesting must be acyclic.
//
// A failure indicates a composer bug, not bad user input; the composer
// runs Verify before handing the graph to any render backend.
func (g *Graph) Verify() error {
	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeRenderContract, "node of kind %q has empty id", n.Kind)
		}
		if ids[n.ID] {
			return errors.New(errors.ErrCodeRenderContract, "duplicate node id %q", n.ID)
		}
		ids[n.ID] = true
	}

	for _, n := range g.Nodes {
		if n.Cluster == "" {
			continue
		}
		if _, ok := g.Clusters[n.Cluster]; !ok {
			return errors.New(errors.ErrCodeRenderContract, "node %q references missing cluster %q", n.ID, n.Cluster)
		}
	}

	for _, e := range g.Edges {
		if !ids[e.Source] {
			return errors.New(errors.ErrCodeRenderContract, "edge references missing source node %q", e.Source)
		}
		if !ids[e.Target] {
			return errors.New(errors.ErrCodeRenderContract, "edge references missing target node %q", e.Target)
		}
		if e.Style != "" && !ValidStyles[e.Style] {
			return errors.New(errors.ErrCodeRenderContract, "edge %s -> %s has invalid style %q", e.Source, e.Target, e.Style)
		}
	}

	for name, c := range g.Clusters {
		if c.Parent == "" {
			continue
		}
		if _, ok := g.Clusters[c.Parent]; !ok {
			return errors.New(errors.ErrCodeRenderContract, "cluster %q references missing parent %q", name, c.Parent)
		}
	}

	return g.verifyClusterNesting()
}

// verifyClusterNesting walks parent chains and rejects cycles. Chains
// are bounded by the cluster count, so a longer walk means a loop.
func (g *Graph) verifyClusterNesting() error {
	for name := range g.Clusters {
		current := name
		for depth := 0; ; depth++ {
			parent := g.Clusters[current].Parent
			if parent == "" {
				break
			}
			if depth > len(g.Clusters) {
				return errors.New(errors.ErrCodeRenderContract, "cluster nesting cycle involving %q", name)
			}
			current = parent
		}
	}
	return nil
}
