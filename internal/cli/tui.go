package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stackplan/stackplan/pkg/catalog"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// catalogModel is the bubbletea model for interactive catalog browsing.
// The left column lists every kind; the detail pane shows the selected
// kind's role and dependencies.
type catalogModel struct {
	kinds  []catalog.Kind
	cursor int
	height int
	offset int
}

func newCatalogModel() catalogModel {
	return catalogModel{
		kinds:  catalog.Kinds(),
		height: 15,
	}
}

func (m catalogModel) Init() tea.Cmd {
	return nil
}

func (m catalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.kinds)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		if msg.Height > 6 {
			m.height = msg.Height - 6
		}
	}
	return m, nil
}

func (m catalogModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Service Catalog") + "\n\n")

	end := m.offset + m.height
	if end > len(m.kinds) {
		end = len(m.kinds)
	}
	for i := m.offset; i < end; i++ {
		k := m.kinds[i]
		def, _ := catalog.Get(k)
		line := fmt.Sprintf("%-18s %s", k, def.Group.Label())
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(listNormalStyle.Render("  "+line) + "\n")
		}
	}

	if def, ok := catalog.Get(m.kinds[m.cursor]); ok {
		b.WriteString("\n" + listDimStyle.Render(def.Description) + "\n")
		if len(def.Dependencies) > 0 {
			var deps []string
			for _, dep := range def.Dependencies {
				name := string(dep.Kind)
				if !dep.Required {
					name += "?"
				}
				deps = append(deps, name)
			}
			b.WriteString(listDimStyle.Render("depends on: "+strings.Join(deps, ", ")) + "\n")
		}
	}

	b.WriteString("\n" + listDimStyle.Render("↑/↓ navigate · q quit") + "\n")
	return b.String()
}
