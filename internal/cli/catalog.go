package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stackplan/stackplan/pkg/catalog"
)

// catalogCommand creates the catalog command for browsing builtin
// service kinds.
func (c *CLI) catalogCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "catalog [kind]",
		Short: "Browse the builtin service catalog",
		Long: `Browse the builtin service catalog.

Without arguments the catalog is printed grouped by architectural role.
Pass a kind name to see its details, or use --interactive for a
browsable list.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return printKind(catalog.Kind(args[0]))
			}
			if interactive {
				model := newCatalogModel()
				_, err := tea.NewProgram(model).Run()
				return err
			}
			printCatalog()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the catalog interactively")

	return cmd
}

// printCatalog prints every kind grouped by role.
func printCatalog() {
	categories := catalog.Categories()
	for _, group := range catalog.Groups() {
		kinds := categories[group]
		if len(kinds) == 0 {
			continue
		}
		fmt.Println(StyleTitle.Render(group.Label()))
		for _, k := range kinds {
			def, _ := catalog.Get(k)
			fmt.Println("  " + StyleHighlight.Render(string(k)) + "  " + StyleDim.Render(def.Description))
		}
		printNewline()
	}
}

// printKind prints one kind in detail.
func printKind(k catalog.Kind) error {
	def, ok := catalog.Get(k)
	if !ok {
		return fmt.Errorf("unknown kind %q (run 'stackplan catalog' for the full list)", k)
	}

	fmt.Println(StyleTitle.Render(def.DisplayName))
	printKeyValue("kind", string(def.Kind))
	printKeyValue("group", def.Group.String())
	printKeyValue("description", def.Description)

	var requires, recommends []string
	for _, dep := range def.Dependencies {
		if dep.Required {
			requires = append(requires, string(dep.Kind))
		} else {
			recommends = append(recommends, string(dep.Kind))
		}
	}
	if len(requires) > 0 {
		printKeyValue("requires", strings.Join(requires, ", "))
	}
	if len(recommends) > 0 {
		printKeyValue("recommends", strings.Join(recommends, ", "))
	}
	return nil
}
