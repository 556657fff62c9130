package app

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/Gaurav-Gosain/toroid/internal/config"
	"github.com/Gaurav-Gosain/toroid/internal/theme"
)

// renderHelp renders the keybinding overlay from the registry.
func (m *Model) renderHelp() string {
	return RenderKeybindingsTable(config.GetKeybindings(m.registry))
}

// RenderKeybindingsTable renders keybinding sections as a two column table.
// Section titles become rows of their own.
func RenderKeybindingsTable(sections []config.KeybindingSection) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Accent()).
		Padding(0, 1)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Muted()).
		Padding(0, 1)
	cellStyle := lipgloss.NewStyle().
		Padding(0, 1)

	titleRows := make(map[int]bool)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Accent())).
		Headers("KEY", "ACTION")

	row := 0
	for _, section := range sections {
		if section.Title != "" {
			t.Row(section.Title, "")
			titleRows[row] = true
			row++
		}
		for _, b := range section.Bindings {
			t.Row(b.Key, b.Description)
			row++
		}
	}

	t.StyleFunc(func(r, c int) lipgloss.Style {
		switch {
		case r == table.HeaderRow:
			return headerStyle
		case titleRows[r]:
			return titleStyle
		default:
			return cellStyle
		}
	})

	return t.Render()
}
