package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/toroid/internal/config"
)

// =============================================================================
// Default Configuration Tests
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if cfg.Appearance.Radius != 1 {
		t.Errorf("Expected default radius 1, got %d", cfg.Appearance.Radius)
	}
	if cfg.Sync.StartRow != config.StartRowRandom {
		t.Errorf("Expected random start row, got %q", cfg.Sync.StartRow)
	}
	if cfg.Sync.SettleDelay() != 75*time.Millisecond {
		t.Errorf("Expected 75ms settle delay, got %v", cfg.Sync.SettleDelay())
	}
	if len(cfg.Palette) == 0 {
		t.Error("Expected a default palette")
	}
	if warnings := cfg.Validate(); len(warnings) != 0 {
		t.Errorf("Defaults should validate cleanly, got %v", warnings)
	}
}

func TestDefaultKeybindings(t *testing.T) {
	cfg := config.DefaultConfig()

	requiredActions := []string{
		"move_up",
		"move_down",
		"move_left",
		"move_right",
		"quit",
	}

	for _, action := range requiredActions {
		keys, ok := cfg.Keybindings[action]
		if !ok {
			t.Errorf("Expected %s keybinding to exist", action)
			continue
		}
		if len(keys) == 0 {
			t.Errorf("Expected %s to have at least one key bound", action)
		}
	}
}

// =============================================================================
// Loading Tests
// =============================================================================

func TestParse_MergesOverDefaults(t *testing.T) {
	data := []byte(`
[appearance]
radius = 2

[palette]
"@" = "#ff00ff"

[keybindings]
quit = ["x"]
`)

	cfg, err := config.Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Appearance.Radius != 2 {
		t.Errorf("Expected radius 2, got %d", cfg.Appearance.Radius)
	}
	if cfg.Appearance.CellWidth != 4 {
		t.Errorf("Expected default cell width to survive, got %d", cfg.Appearance.CellWidth)
	}
	if cfg.Palette["@"] != "#ff00ff" {
		t.Errorf("Expected user palette entry, got %q", cfg.Palette["@"])
	}
	if cfg.Palette["R"] == "" {
		t.Error("Expected default palette entries to survive")
	}
	if got := cfg.Keybindings["quit"]; len(got) != 1 || got[0] != "x" {
		t.Errorf("Expected quit = [x], got %v", got)
	}
	if len(cfg.Keybindings["move_up"]) == 0 {
		t.Error("Expected default move_up binding to survive")
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := config.Parse([]byte("[appearance\nradius = ")); err == nil {
		t.Error("Expected error for malformed TOML")
	}
}

func TestParse_KeepsWarnings(t *testing.T) {
	data := []byte(`
[appearance]
radius = 99

[sync]
start_row = "sideways"
`)

	cfg, err := config.Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cfg.Warnings) != 2 {
		t.Errorf("Expected 2 warnings, got %d: %v", len(cfg.Warnings), cfg.Warnings)
	}

	clean, err := config.Parse([]byte("[appearance]\nradius = 2\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(clean.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", clean.Warnings)
	}
}

func TestParse_UserKeyBeatsDefault(t *testing.T) {
	cfg, err := config.Parse([]byte(`
[keybindings]
quit = ["k"]
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	registry := config.NewKeybindRegistry(cfg)
	if got := registry.GetAction("k"); got != "quit" {
		t.Errorf("GetAction(k) = %q, want quit", got)
	}
	if got := registry.GetAction("up"); got != "move_up" {
		t.Errorf("GetAction(up) = %q, want move_up", got)
	}
	for _, key := range cfg.Keybindings["move_up"] {
		if key == "k" {
			t.Error("k should be removed from move_up")
		}
	}

	found := false
	for _, w := range cfg.Warnings {
		if strings.Contains(w, `"k"`) && strings.Contains(w, "move_up") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a warning about k leaving move_up, got %v", cfg.Warnings)
	}
}

func TestValidate_Clamps(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Appearance.Radius = 99
	cfg.Appearance.CellWidth = 0
	cfg.Sync.SettleDelayMS = -5
	cfg.Sync.StartRow = "sideways"
	cfg.Palette["ab"] = "red"

	warnings := cfg.Validate()
	if len(warnings) != 5 {
		t.Errorf("Expected 5 warnings, got %d: %v", len(warnings), warnings)
	}
	if cfg.Appearance.Radius != config.MaxRadius {
		t.Errorf("radius = %d, want %d", cfg.Appearance.Radius, config.MaxRadius)
	}
	if cfg.Appearance.CellWidth != 1 {
		t.Errorf("cell width = %d, want 1", cfg.Appearance.CellWidth)
	}
	if cfg.Sync.SettleDelayMS != 0 {
		t.Errorf("settle = %d, want 0", cfg.Sync.SettleDelayMS)
	}
	if cfg.Sync.StartRow != config.StartRowRandom {
		t.Errorf("start row = %q, want random", cfg.Sync.StartRow)
	}
	if _, ok := cfg.Palette["ab"]; ok {
		t.Error("multi-symbol palette key should be dropped")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Expected defaults for missing file, got %v", err)
	}
	if cfg.Appearance.Radius != 1 {
		t.Errorf("Expected default radius, got %d", cfg.Appearance.Radius)
	}
}

func TestWriteDefault_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toroid", "config.toml")
	if err := config.WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# toroid configuration file") {
		t.Error("Expected header comment")
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	def := config.DefaultConfig()
	if cfg.Appearance != def.Appearance || cfg.Sync != def.Sync {
		t.Errorf("round trip mismatch: %+v / %+v", cfg.Appearance, cfg.Sync)
	}
	if len(cfg.Palette) != len(def.Palette) {
		t.Errorf("palette size %d, want %d", len(cfg.Palette), len(def.Palette))
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	config.ApplyOverrides(config.Overrides{
		ThemeName:   "dracula",
		Radius:      3,
		StartRow:    "FIRST",
		SettleDelay: 200 * time.Millisecond,
		HideCoords:  true,
	}, cfg)

	if cfg.Appearance.Theme != "dracula" {
		t.Errorf("theme = %q", cfg.Appearance.Theme)
	}
	if cfg.Appearance.Radius != 3 {
		t.Errorf("radius = %d", cfg.Appearance.Radius)
	}
	if cfg.Sync.StartRow != config.StartRowFirst {
		t.Errorf("start row = %q", cfg.Sync.StartRow)
	}
	if cfg.Sync.SettleDelayMS != 200 {
		t.Errorf("settle = %d", cfg.Sync.SettleDelayMS)
	}
	if cfg.Appearance.ShowCoords {
		t.Error("coords should be hidden")
	}

	if len(cfg.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", cfg.Warnings)
	}

	config.ApplyOverrides(config.Overrides{Radius: 99}, cfg)
	if cfg.Appearance.Radius != config.MaxRadius || len(cfg.Warnings) != 1 {
		t.Errorf("radius %d, warnings %v", cfg.Appearance.Radius, cfg.Warnings)
	}

	// nil config must not panic
	config.ApplyOverrides(config.Overrides{Radius: 2}, nil)
}

// =============================================================================
// KeybindRegistry Tests
// =============================================================================

func TestKeybindRegistry_GetKeys(t *testing.T) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())

	keys := registry.GetKeys("move_up")
	if len(keys) == 0 {
		t.Error("Expected move_up to have keys")
	}
}

func TestKeybindRegistry_GetAction(t *testing.T) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())

	tests := []struct {
		key    string
		action string
	}{
		{"up", "move_up"},
		{"k", "move_up"},
		{"left", "move_left"},
		{"ctrl+c", "quit"},
		{"Ctrl+C", "quit"},
		{"?", "toggle_help"},
		{"K", ""},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			if got := registry.GetAction(tc.key); got != tc.action {
				t.Errorf("GetAction(%q) = %q, want %q", tc.key, got, tc.action)
			}
		})
	}
}

func TestKeybindRegistry_Conflict(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybindings["reload"] = []string{"q"}

	registry := config.NewKeybindRegistry(cfg)
	// Actions are registered in sorted order, so quit claims "q" first.
	if got := registry.GetAction("q"); got != "quit" {
		t.Errorf("GetAction(q) = %q, want quit", got)
	}
}

func TestKeybindRegistry_GetKeysForDisplay(t *testing.T) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())

	display := registry.GetKeysForDisplay("move_up")
	if !strings.HasPrefix(display, "↑") {
		t.Errorf("Expected arrow glyph first, got %q", display)
	}
	if got := registry.GetKeysForDisplay("quit"); got != "q, Ctrl+c" {
		t.Errorf("quit display = %q", got)
	}
}

func TestKeybindRegistry_UnknownAction(t *testing.T) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())

	keys := registry.GetKeys("nonexistent_action")
	if len(keys) != 0 {
		t.Errorf("Expected empty keys for nonexistent action, got %v", keys)
	}
}

func TestKeybindRegistry_NilConfig(t *testing.T) {
	registry := config.NewKeybindRegistry(nil)
	if registry.GetAction("q") != "quit" {
		t.Error("nil config should fall back to defaults")
	}
}

func TestGetKeybindings(t *testing.T) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())

	sections := config.GetKeybindings(registry)
	if len(sections) < 2 {
		t.Fatalf("Expected at least 2 sections, got %d", len(sections))
	}
	if sections[0].Title != "MOVEMENT" || len(sections[0].Bindings) != 4 {
		t.Errorf("unexpected movement section: %+v", sections[0])
	}

	if fallback := config.GetKeybindings(nil); len(fallback) == 0 {
		t.Error("Expected static fallback sections")
	}
}

// =============================================================================
// Key Normalizer Tests
// =============================================================================

func TestKeyNormalizer(t *testing.T) {
	normalizer := config.NewKeyNormalizer()

	tests := []struct {
		input    string
		expected string
	}{
		{"ctrl+a", "ctrl+a"},
		{"Ctrl+A", "ctrl+a"},
		{"CTRL+A", "ctrl+a"},
		{"return", "enter"},
		{"escape", "esc"},
		{"enter", "enter"},
		{"K", "K"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := normalizer.NormalizeKey(tc.input)
			if len(got) == 0 {
				t.Errorf("NormalizeKey(%q) returned empty slice", tc.input)
				return
			}
			found := false
			for _, k := range got {
				if k == tc.expected {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("NormalizeKey(%q) = %v, want to contain %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestKeyNormalizer_ValidateKey(t *testing.T) {
	normalizer := config.NewKeyNormalizer()

	tests := []struct {
		input   string
		isValid bool
	}{
		{"ctrl+a", true},
		{"n", true},
		{"+", true},
		{"enter", true},
		{"ctrl+", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			valid, _ := normalizer.ValidateKey(tc.input)
			if valid != tc.isValid {
				t.Errorf("ValidateKey(%q) = %v, want %v", tc.input, valid, tc.isValid)
			}
		})
	}
}

// =============================================================================
// Action Descriptions Tests
// =============================================================================

func TestActionDescriptions(t *testing.T) {
	for action := range config.DefaultConfig().Keybindings {
		desc, ok := config.ActionDescriptions[action]
		if !ok {
			t.Errorf("Expected description for action %q", action)
			continue
		}
		if desc == "" {
			t.Errorf("Description for %q should not be empty", action)
		}
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkKeybindRegistry_GetAction(b *testing.B) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = registry.GetAction("k")
	}
}

func BenchmarkNormalizeKey(b *testing.B) {
	normalizer := config.NewKeyNormalizer()
	keys := []string{"ctrl+a", "Ctrl+Shift+B", "alt+1", "return"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = normalizer.NormalizeKey(keys[i%len(keys)])
	}
}
