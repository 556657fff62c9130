package config

import (
	"slices"
	"strings"
)

// ActionDescriptions holds the human readable name of every action.
var ActionDescriptions = map[string]string{
	"move_up":     "Move up",
	"move_down":   "Move down",
	"move_left":   "Move left",
	"move_right":  "Move right",
	"reload":      "Reload from source",
	"toggle_help": "Toggle help",
	"quit":        "Quit",
}

// KeybindRegistry resolves keys to actions and back.
type KeybindRegistry struct {
	actionToKeys map[string][]string
	keyToAction  map[string]string
	normalizer   *KeyNormalizer
}

// NewKeybindRegistry builds a registry from cfg. When two actions claim the
// same key, the action that sorts first wins.
func NewKeybindRegistry(cfg *UserConfig) *KeybindRegistry {
	r := &KeybindRegistry{
		actionToKeys: make(map[string][]string),
		keyToAction:  make(map[string]string),
		normalizer:   NewKeyNormalizer(),
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	actions := make([]string, 0, len(cfg.Keybindings))
	for action := range cfg.Keybindings {
		actions = append(actions, action)
	}
	slices.Sort(actions)

	for _, action := range actions {
		for _, key := range cfg.Keybindings[action] {
			if ok, _ := r.normalizer.ValidateKey(key); !ok {
				continue
			}
			r.actionToKeys[action] = append(r.actionToKeys[action], key)
			for _, variant := range r.normalizer.NormalizeKey(key) {
				if _, taken := r.keyToAction[variant]; !taken {
					r.keyToAction[variant] = action
				}
			}
		}
	}
	return r
}

// GetKeys returns the keys bound to action.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return r.actionToKeys[action]
}

// GetAction returns the action bound to key, or "" if none.
func (r *KeybindRegistry) GetAction(key string) string {
	if action, ok := r.keyToAction[key]; ok {
		return action
	}
	for _, variant := range r.normalizer.NormalizeKey(key) {
		if action, ok := r.keyToAction[variant]; ok {
			return action
		}
	}
	return ""
}

// GetKeysForDisplay returns the keys bound to action formatted for help text.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	keys := r.actionToKeys[action]
	if len(keys) == 0 {
		return ""
	}
	pretty := make([]string, len(keys))
	for i, k := range keys {
		pretty[i] = displayKey(k)
	}
	return strings.Join(pretty, ", ")
}

var keySymbols = map[string]string{
	"up":    "↑",
	"down":  "↓",
	"left":  "←",
	"right": "→",
}

func displayKey(key string) string {
	if sym, ok := keySymbols[key]; ok {
		return sym
	}
	parts := strings.Split(key, "+")
	for i, p := range parts[:len(parts)-1] {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "+")
}

// KeyNormalizer maps key spellings onto the names bubbletea reports.
type KeyNormalizer struct {
	aliases map[string][]string
}

// NewKeyNormalizer creates a normalizer with the common aliases.
func NewKeyNormalizer() *KeyNormalizer {
	return &KeyNormalizer{
		aliases: map[string][]string{
			"return":  {"enter"},
			"enter":   {"return"},
			"escape":  {"esc"},
			"esc":     {"escape"},
			"space":   {" "},
			"arrowup": {"up"},
			"arrowdn": {"down"},
		},
	}
}

// NormalizeKey returns the canonical form of key followed by its aliases.
// Modifiers and named keys are lowercased; a bare single character keeps
// its case since "K" and "k" are different keys.
func (n *KeyNormalizer) NormalizeKey(key string) []string {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}

	canonical := key
	if len([]rune(key)) > 1 {
		canonical = strings.ToLower(key)
	}

	out := []string{canonical}
	out = append(out, n.aliases[canonical]...)
	return out
}

// ValidateKey reports whether key can be bound, with a reason when it cannot.
func (n *KeyNormalizer) ValidateKey(key string) (bool, string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, "empty key"
	}
	if key != "+" && (strings.HasPrefix(key, "+") || strings.HasSuffix(key, "+")) {
		return false, "dangling modifier separator"
	}
	return true, ""
}
