package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackplan/stackplan/pkg/advisor"
	"github.com/stackplan/stackplan/pkg/compose"
	"github.com/stackplan/stackplan/pkg/pipeline"
)

// composeCommand creates the compose command, the main entry point:
// manifest in, rendered architecture diagram out.
func (c *CLI) composeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		pattern    string
		includeOpt bool
		noCache    bool
		refresh    bool
		useAdvisor bool
	)

	cmd := &cobra.Command{
		Use:   "compose [manifest]",
		Short: "Compile a manifest into an architecture diagram",
		Long: `Compile a manifest into an architecture diagram.

The manifest declares regions, an availability mode and the services the
application needs (JSON, YAML, TOML, or HCL; detected from the file
extension). Compose expands catalog dependencies, validates the result,
applies an architecture pattern and renders the diagram.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				ManifestPath:    args[0],
				Pattern:         pattern,
				Formats:         parseFormats(formatsStr),
				IncludeOptional: includeOpt,
				Refresh:         refresh,
				Logger:          c.Logger,
			}
			if useAdvisor {
				opts.Advisor = advisor.Heuristic{}
			}
			return c.runCompose(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", fmt.Sprintf("architecture pattern (default %q)", compose.DefaultPattern))
	cmd.Flags().BoolVar(&includeOpt, "include-optional", false, "expand recommended dependencies too")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and recompute")
	cmd.Flags().BoolVar(&useAdvisor, "advise", false, "let the builtin advisor add conventional services")

	return cmd
}

// runCompose executes the pipeline and writes the artifacts.
func (c *CLI) runCompose(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Composing architecture...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Composition failed")
		return err
	}
	spinner.Stop()

	if len(result.ValidationErrors) > 0 {
		printError("Manifest failed validation")
		for _, v := range result.ValidationErrors {
			printDetail("%s: %s", v.Field, v.Message)
		}
		return fmt.Errorf("%d validation finding(s)", len(result.ValidationErrors))
	}

	prog.done(fmt.Sprintf("Composed %d services with pattern %s", result.Stats.IntentCount, result.Pattern))

	if err := writeArtifacts(result.Artifacts, opts.Formats, input, output); err != nil {
		return err
	}

	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.GraphHit)
	return nil
}
