package config

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// GetKeybindings returns all keybinding sections for the help overlay.
// If registry is nil, it falls back to hard-coded defaults.
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	if registry == nil {
		return getDefaultKeybindings()
	}

	sections := []KeybindingSection{}

	movement := KeybindingSection{Title: "MOVEMENT"}
	addBinding(&movement, registry, "move_up", "Move up")
	addBinding(&movement, registry, "move_down", "Move down")
	addBinding(&movement, registry, "move_left", "Move left")
	addBinding(&movement, registry, "move_right", "Move right")
	if len(movement.Bindings) > 0 {
		sections = append(sections, movement)
	}

	general := KeybindingSection{Title: "GENERAL"}
	addBinding(&general, registry, "reload", "Reload from source")
	addBinding(&general, registry, "toggle_help", "Toggle help")
	addBinding(&general, registry, "quit", "Quit")
	if len(general.Bindings) > 0 {
		sections = append(sections, general)
	}

	sections = append(sections, getStaticHelpSections()...)
	return sections
}

// addBinding adds a keybinding to a section if the action has keys configured
func addBinding(section *KeybindingSection, registry *KeybindRegistry, action, description string) {
	keys := registry.GetKeysForDisplay(action)
	if keys != "" {
		section.Bindings = append(section.Bindings, Keybinding{
			Key:         keys,
			Description: description,
		})
	}
}

// getDefaultKeybindings returns the hard-coded keybindings (used as fallback)
func getDefaultKeybindings() []KeybindingSection {
	sections := []KeybindingSection{
		{
			Title: "MOVEMENT",
			Bindings: []Keybinding{
				{"↑, k, w", "Move up"},
				{"↓, j, s", "Move down"},
				{"←, h, a", "Move left"},
				{"→, l, d", "Move right"},
			},
		},
		{
			Title: "GENERAL",
			Bindings: []Keybinding{
				{"r, Ctrl+r", "Reload from source"},
				{"?", "Toggle help"},
				{"q, Ctrl+c", "Quit"},
			},
		},
	}
	sections = append(sections, getStaticHelpSections()...)
	return sections
}

// getStaticHelpSections returns help sections that don't depend on bindings
func getStaticHelpSections() []KeybindingSection {
	return []KeybindingSection{
		{
			Title: "EDITING:",
			Bindings: []Keybinding{
				{"Paste", "Replace the whole grid and save it"},
			},
		},
	}
}
