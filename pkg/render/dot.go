package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/stackplan/stackplan/pkg/layout"
)

// ToDOT converts a layout graph to Graphviz DOT. Clusters become
// nested cluster subgraphs; rank hints and styles carry over as
// attributes. The output is deterministic: clusters are emitted in
// sorted name order, nodes and edges in graph list order.
//
// The resulting DOT renders with [SVG] or [PNG], or with any external
// Graphviz toolchain.
func ToDOT(g *layout.Graph) (string, error) {
	if err := g.Verify(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("digraph stackplan {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  newrank=true;\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	children := make(map[string][]string)
	var roots []string
	for name, c := range g.Clusters {
		if c.Parent == "" {
			roots = append(roots, name)
		} else {
			children[c.Parent] = append(children[c.Parent], name)
		}
	}
	sort.Strings(roots)
	for _, kids := range children {
		sort.Strings(kids)
	}

	for _, name := range roots {
		writeCluster(&buf, g, name, children, 1)
	}

	// Nodes outside any cluster.
	for _, n := range g.Nodes {
		if n.Cluster == "" {
			fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, n.Name)
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func writeCluster(buf *bytes.Buffer, g *layout.Graph, name string, children map[string][]string, depth int) {
	indent := strings.Repeat("  ", depth)
	c := g.Clusters[name]

	fmt.Fprintf(buf, "%ssubgraph \"cluster_%s\" {\n", indent, name)
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, c.Label)
	if c.Background != "" {
		fmt.Fprintf(buf, "%s  style=filled;\n", indent)
		fmt.Fprintf(buf, "%s  fillcolor=%q;\n", indent, c.Background)
	}
	if c.Border != "" {
		fmt.Fprintf(buf, "%s  color=%q;\n", indent, c.Border)
	}
	if c.BorderStyle == layout.StyleDashed {
		fmt.Fprintf(buf, "%s  style=\"filled,dashed\";\n", indent)
	}
	if c.RankHint != "" {
		fmt.Fprintf(buf, "%s  rank=%s;\n", indent, c.RankHint)
	}

	for _, child := range children[name] {
		writeCluster(buf, g, child, children, depth+1)
	}

	for _, n := range g.Nodes {
		if n.Cluster == name {
			fmt.Fprintf(buf, "%s  %q [label=%q];\n", indent, n.ID, n.Name)
		}
	}

	fmt.Fprintf(buf, "%s}\n", indent)
}

func edgeAttrs(e layout.Edge) []string {
	attrs := []string{}
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	style := e.Style
	if style == "" {
		style = layout.StyleSolid
	}
	attrs = append(attrs, fmt.Sprintf("style=%s", style))
	if e.Color != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", e.Color))
	}
	if e.Weight > 0 {
		attrs = append(attrs, fmt.Sprintf("weight=%d", e.Weight))
	}
	if e.Bidirectional {
		attrs = append(attrs, "dir=both")
	}
	return attrs
}
