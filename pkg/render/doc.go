// Package render turns a composed [layout.Graph] into visual output.
//
// [ToDOT] emits Graphviz DOT: regions and groups become nested cluster
// subgraphs, rank hints pin edge services to the top and data stores to
// the bottom, and edge styling (dashes, colors, weights, direction)
// carries over as attributes. The emission is fully deterministic so
// identical graphs always produce identical DOT text.
//
// [SVG] and [PNG] rasterize that DOT in-process through go-graphviz; no
// external binaries are required.
//
//	dot, err := render.ToDOT(g)
//	svg, err := render.SVG(ctx, g)
//
// Every entry point verifies graph integrity first and refuses to
// render a malformed graph. Positioning itself is delegated entirely to
// Graphviz; this package only decides structure and style.
package render
