package cli

import (
	"github.com/spf13/cobra"

	"github.com/stackplan/stackplan/pkg/manifest"
)

// validateCommand creates the validate command: load and check a
// manifest without composing anything.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [manifest]",
		Short: "Check a manifest for problems",
		Long: `Check a manifest for problems without composing a diagram.

Validation reports every finding at once: missing regions, availability
modes that need more regions than declared, malformed service kinds,
and edge or identity services listed under the wrong role.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := manifest.LoadFile(args[0])
			if err != nil {
				return err
			}

			findings := manifest.Validate(*req)
			if len(findings) == 0 {
				printSuccess("Manifest is valid")
				printDetail("%d region(s), %d service(s)", len(req.Regions), len(req.AllIntents()))
				return nil
			}

			printError("%d finding(s)", len(findings))
			for _, v := range findings {
				printDetail("%s: %s", v.Field, v.Message)
			}
			cmd.SilenceErrors = true
			return errValidationFailed
		},
	}
}

// errValidationFailed signals a non-zero exit after findings were
// already printed.
var errValidationFailed = &exitError{msg: "manifest failed validation"}

type exitError struct{ msg string }

func (e *exitError) Error() string { return e.msg }
