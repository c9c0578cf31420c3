package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/stackplan/stackplan/pkg/layout"
)

// SVG renders a layout graph to SVG via Graphviz.
func SVG(ctx context.Context, g *layout.Graph) ([]byte, error) {
	return renderFormat(ctx, g, graphviz.SVG)
}

// PNG renders a layout graph to PNG via Graphviz.
func PNG(ctx context.Context, g *layout.Graph) ([]byte, error) {
	return renderFormat(ctx, g, graphviz.PNG)
}

func renderFormat(ctx context.Context, g *layout.Graph, format graphviz.Format) ([]byte, error) {
	dot, err := ToDOT(g)
	if err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
