package layout

import (
	"github.com/stackplan/stackplan/pkg/catalog"
)

// Edge styles understood by render backends.
const (
	StyleSolid  = "solid"
	StyleDashed = "dashed"
	StyleDotted = "dotted"
)

// ValidStyles is the set of supported edge styles.
var ValidStyles = map[string]bool{
	StyleSolid:  true,
	StyleDashed: true,
	StyleDotted: true,
}

// Rank hints attached to clusters, steering layered layout engines.
const (
	RankHintMin = "min"
	RankHintMax = "max"
)

// Node is a single placed service instance. Nodes are created once
// during composition and never modified afterwards.
type Node struct {
	ID         string         `json:"id" bson:"id"`
	Kind       catalog.Kind   `json:"kind" bson:"kind"`
	Name       string         `json:"name" bson:"name"`
	Cluster    string         `json:"cluster,omitempty" bson:"cluster,omitempty"`
	Rank       int            `json:"rank" bson:"rank"`
	Region     string         `json:"region,omitempty" bson:"region,omitempty"`
	Properties map[string]any `json:"properties,omitempty" bson:"properties,omitempty"`
}

// Edge connects two placed nodes. Step is the primary-flow ordinal
// (1-based, in creation order); it is zero for all other edges.
type Edge struct {
	Source        string `json:"source" bson:"source"`
	Target        string `json:"target" bson:"target"`
	Label         string `json:"label,omitempty" bson:"label,omitempty"`
	Style         string `json:"style" bson:"style"`
	Color         string `json:"color,omitempty" bson:"color,omitempty"`
	Weight        int    `json:"weight,omitempty" bson:"weight,omitempty"`
	Step          int    `json:"step,omitempty" bson:"step,omitempty"`
	Bidirectional bool   `json:"bidirectional,omitempty" bson:"bidirectional,omitempty"`
}

// Cluster is a named visual grouping. Membership is implicit through
// Node.Cluster; nesting is expressed through Parent.
type Cluster struct {
	Label       string `json:"label" bson:"label"`
	Background  string `json:"background,omitempty" bson:"background,omitempty"`
	Border      string `json:"border,omitempty" bson:"border,omitempty"`
	BorderStyle string `json:"border_style,omitempty" bson:"border_style,omitempty"`
	RankHint    string `json:"rank_hint,omitempty" bson:"rank_hint,omitempty"`
	Parent      string `json:"parent,omitempty" bson:"parent,omitempty"`
}

// Graph is the complete output of a composition run and the sole
// artifact handed to render backends.
type Graph struct {
	Pattern  string             `json:"pattern,omitempty" bson:"pattern,omitempty"`
	Nodes    []Node             `json:"nodes" bson:"nodes"`
	Edges    []Edge             `json:"edges" bson:"edges"`
	Clusters map[string]Cluster `json:"clusters" bson:"clusters"`
}

// New creates an empty graph for the given pattern.
func New(pattern string) *Graph {
	return &Graph{
		Pattern:  pattern,
		Clusters: make(map[string]Cluster),
	}
}

// NodeCount returns the number of placed nodes.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.Edges)
}

// Node returns the node with the given id, if present.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// NodesIn returns the nodes assigned to the given cluster, in list order.
func (g *Graph) NodesIn(cluster string) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Cluster == cluster {
			out = append(out, n)
		}
	}
	return out
}

// NodesOfKind returns the nodes of the given kind, in list order.
func (g *Graph) NodesOfKind(k catalog.Kind) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Kind == k {
			out = append(out, n)
		}
	}
	return out
}
