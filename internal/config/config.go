// Package config loads and validates the toroid configuration file.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// Frame and timing constants
const (
	NormalFPS            = 30
	ErrorDisplayDuration = 5 * time.Second
	MaxRadius            = 4
	MaxCellWidth         = 8
	MaxSettleDelayMS     = 2000
)

// Start row policies accepted in [sync].start_row
const (
	StartRowRandom = "random"
	StartRowFirst  = "first"
	StartRowMiddle = "middle"
)

// UserConfig is the on-disk configuration.
type UserConfig struct {
	Appearance  AppearanceConfig    `toml:"appearance"`
	Sync        SyncConfig          `toml:"sync"`
	Palette     map[string]string   `toml:"palette"`
	Keybindings map[string][]string `toml:"keybindings"`

	// Warnings lists every adjustment made while loading, for the caller to report.
	Warnings []string `toml:"-"`
}

// AppearanceConfig controls how the viewport is drawn.
type AppearanceConfig struct {
	Theme      string `toml:"theme"`
	Radius     int    `toml:"radius"`
	CellWidth  int    `toml:"cell_width"`
	ShowCoords bool   `toml:"show_coords"`
	ASCIIOnly  bool   `toml:"ascii_only"`
}

// SyncConfig controls reload behavior.
type SyncConfig struct {
	SettleDelayMS int    `toml:"settle_delay_ms"`
	StartRow      string `toml:"start_row"`
}

// SettleDelay returns the settle delay as a duration.
func (s SyncConfig) SettleDelay() time.Duration {
	return time.Duration(s.SettleDelayMS) * time.Millisecond
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Appearance: AppearanceConfig{
			Radius:     1,
			CellWidth:  4,
			ShowCoords: true,
		},
		Sync: SyncConfig{
			SettleDelayMS: 75,
			StartRow:      StartRowRandom,
		},
		Palette:     defaultPalette(),
		Keybindings: defaultKeybindings(),
	}
}

func defaultPalette() map[string]string {
	return map[string]string{
		"R": "red",
		"G": "green",
		"B": "blue",
		"Y": "yellow",
		"C": "cyan",
		"M": "purple",
		"W": "white",
		"K": "black",
		"#": "bright_black",
		"~": "#1e6fd9",
		"^": "#8b5a2b",
		"*": "#ffd700",
	}
}

func defaultKeybindings() map[string][]string {
	return map[string][]string{
		"move_up":     {"up", "k", "w"},
		"move_down":   {"down", "j", "s"},
		"move_left":   {"left", "h", "a"},
		"move_right":  {"right", "l", "d"},
		"reload":      {"r", "ctrl+r"},
		"toggle_help": {"?"},
		"quit":        {"q", "ctrl+c"},
	}
}

// GetConfigPath returns the config file location under the XDG config home.
func GetConfigPath() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join("toroid", "config.toml"))
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return path, nil
}

// GetLogPath returns the log file location under the XDG state home.
func GetLogPath() (string, error) {
	path, err := xdg.StateFile(filepath.Join("toroid", "toroid.log"))
	if err != nil {
		return "", fmt.Errorf("resolve log path: %w", err)
	}
	return path, nil
}

// LoadUserConfig loads the config file. A missing file yields the defaults.
func LoadUserConfig() (*UserConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile loads the config at path, merging it over the defaults.
func LoadFile(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults. Sections that are present replace
// the defaults field by field; palette and keybinding entries are merged.
func Parse(data []byte) (*UserConfig, error) {
	cfg := DefaultConfig()
	palette, keys := cfg.Palette, cfg.Keybindings
	cfg.Palette, cfg.Keybindings = nil, nil

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	warnings := claimKeys(keys, cfg.Keybindings)
	maps.Copy(palette, cfg.Palette)
	maps.Copy(keys, cfg.Keybindings)
	cfg.Palette, cfg.Keybindings = palette, keys

	cfg.Warnings = append(warnings, cfg.Validate()...)
	return cfg, nil
}

// claimKeys removes keys the user bound to an action from the default
// bindings of actions the user did not configure.
func claimKeys(defaults, user map[string][]string) []string {
	var warnings []string
	for action, keys := range user {
		for _, key := range keys {
			for owner, bound := range defaults {
				if owner == action {
					continue
				}
				if _, custom := user[owner]; custom {
					continue
				}
				if i := slices.Index(bound, key); i >= 0 {
					defaults[owner] = slices.Delete(bound, i, i+1)
					warnings = append(warnings, fmt.Sprintf("key %q moved from %s to %s", key, owner, action))
				}
			}
		}
	}
	slices.Sort(warnings)
	return warnings
}

// Validate clamps out-of-range values and drops malformed palette entries.
// It returns a description of every change made.
func (c *UserConfig) Validate() []string {
	var warnings []string

	clamp := func(name string, v *int, lo, hi int) {
		switch {
		case *v < lo:
			warnings = append(warnings, fmt.Sprintf("%s %d below %d, clamped", name, *v, lo))
			*v = lo
		case *v > hi:
			warnings = append(warnings, fmt.Sprintf("%s %d above %d, clamped", name, *v, hi))
			*v = hi
		}
	}
	clamp("radius", &c.Appearance.Radius, 0, MaxRadius)
	clamp("cell_width", &c.Appearance.CellWidth, 1, MaxCellWidth)
	clamp("settle_delay_ms", &c.Sync.SettleDelayMS, 0, MaxSettleDelayMS)

	switch strings.ToLower(c.Sync.StartRow) {
	case StartRowRandom, StartRowFirst, StartRowMiddle:
		c.Sync.StartRow = strings.ToLower(c.Sync.StartRow)
	default:
		warnings = append(warnings, fmt.Sprintf("unknown start_row %q, using %q", c.Sync.StartRow, StartRowRandom))
		c.Sync.StartRow = StartRowRandom
	}

	for sym := range c.Palette {
		if len([]rune(sym)) != 1 {
			warnings = append(warnings, fmt.Sprintf("palette key %q is not a single symbol, ignored", sym))
			delete(c.Palette, sym)
		}
	}

	return warnings
}

// WriteDefault writes the default configuration to path with a header.
func WriteDefault(path string) error {
	var sb strings.Builder
	sb.WriteString("# toroid configuration file\n")
	sb.WriteString("#\n")
	sb.WriteString("# [palette] maps a grid symbol to a color: a hex value or a theme\n")
	sb.WriteString("# color name (red, bright_blue, ...). Unmapped symbols are not drawn.\n")
	sb.WriteString("# [keybindings] maps an action to the keys that trigger it.\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + path + "\n\n")

	data, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	sb.Write(data)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Overrides holds command line values that take precedence over the file.
// Zero values leave the config untouched.
type Overrides struct {
	ThemeName   string
	Radius      int
	StartRow    string
	SettleDelay time.Duration
	ASCIIOnly   bool
	HideCoords  bool
}

// ApplyOverrides applies command line overrides to cfg and re-validates it.
func ApplyOverrides(o Overrides, cfg *UserConfig) {
	if cfg == nil {
		return
	}
	if o.ThemeName != "" {
		cfg.Appearance.Theme = o.ThemeName
	}
	if o.Radius > 0 {
		cfg.Appearance.Radius = o.Radius
	}
	if o.StartRow != "" {
		cfg.Sync.StartRow = o.StartRow
	}
	if o.SettleDelay > 0 {
		cfg.Sync.SettleDelayMS = int(o.SettleDelay / time.Millisecond)
	}
	if o.ASCIIOnly {
		cfg.Appearance.ASCIIOnly = true
	}
	if o.HideCoords {
		cfg.Appearance.ShowCoords = false
	}
	cfg.Warnings = append(cfg.Warnings, cfg.Validate()...)
}
