package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackplan/stackplan/pkg/layout"
	"github.com/stackplan/stackplan/pkg/pipeline"
	"github.com/stackplan/stackplan/pkg/render"
)

// renderCommand creates the render command: re-render a previously
// composed graph (the json artifact) without recomposing.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a composed graph to DOT, SVG, or PNG",
		Long: `Render a composed graph to DOT, SVG, or PNG.

The input is the JSON graph artifact produced by "compose --format json".
Rendering verifies the graph's integrity first, so hand-edited graphs
with dangling edges or unknown clusters are rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := layout.ReadGraphFile(args[0])
			if err != nil {
				return fmt.Errorf("read graph: %w", err)
			}

			formats := parseFormats(formatsStr)
			artifacts := make(map[string][]byte, len(formats))
			for _, format := range formats {
				var data []byte
				var err error
				switch format {
				case pipeline.FormatDOT:
					var dot string
					dot, err = render.ToDOT(g)
					data = []byte(dot)
				case pipeline.FormatSVG:
					data, err = render.SVG(cmd.Context(), g)
				case pipeline.FormatPNG:
					data, err = render.PNG(cmd.Context(), g)
				case pipeline.FormatJSON:
					data, err = layout.MarshalGraph(g)
				default:
					err = fmt.Errorf("unsupported format %q", format)
				}
				if err != nil {
					return err
				}
				artifacts[format] = data
			}

			return writeArtifacts(artifacts, formats, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")

	return cmd
}
