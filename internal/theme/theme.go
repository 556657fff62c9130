// Package theme provides the colors grid symbols are drawn with.
package theme

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize sets up the theme registry with the specified theme name.
// Call this once at application startup.
// If themeName is empty, theming is disabled and the built-in xterm colors are used.
// It reports whether the requested theme was found.
func Initialize(themeName string) bool {
	if themeName == "" {
		enabled = false
		return true
	}

	enabled = true
	tint.NewDefaultRegistry()

	if ok := tint.SetTintID(themeName); !ok {
		tint.SetTintID("default")
		return false
	}
	return true
}

// IsEnabled returns true if theming is enabled
func IsEnabled() bool {
	return enabled
}

// Current returns the currently active theme.
// Returns nil if theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// xterm defaults used when no theme is active.
var fallback = map[string]string{
	"black":         "#000000",
	"red":           "#cd0000",
	"green":         "#00cd00",
	"yellow":        "#cdcd00",
	"blue":          "#0000ee",
	"purple":        "#cd00cd",
	"cyan":          "#00cdcd",
	"white":         "#e5e5e5",
	"bright_black":  "#7f7f7f",
	"bright_red":    "#ff0000",
	"bright_green":  "#00ff00",
	"bright_yellow": "#ffff00",
	"bright_blue":   "#5c5cff",
	"bright_purple": "#ff00ff",
	"bright_cyan":   "#00ffff",
	"bright_white":  "#ffffff",
	"fg":            "#e5e5e5",
	"bg":            "#000000",
	"cursor":        "#00ff00",
}

// named returns the color called name in t.
func named(t *tint.Tint, name string) (color.Color, bool) {
	switch name {
	case "black":
		return t.Black, true
	case "red":
		return t.Red, true
	case "green":
		return t.Green, true
	case "yellow":
		return t.Yellow, true
	case "blue":
		return t.Blue, true
	case "purple":
		return t.Purple, true
	case "cyan":
		return t.Cyan, true
	case "white":
		return t.White, true
	case "bright_black":
		return t.BrightBlack, true
	case "bright_red":
		return t.BrightRed, true
	case "bright_green":
		return t.BrightGreen, true
	case "bright_yellow":
		return t.BrightYellow, true
	case "bright_blue":
		return t.BrightBlue, true
	case "bright_purple":
		return t.BrightPurple, true
	case "bright_cyan":
		return t.BrightCyan, true
	case "bright_white":
		return t.BrightWhite, true
	case "fg":
		return t.Fg, true
	case "bg":
		return t.Bg, true
	case "cursor":
		return t.Cursor, true
	}
	return nil, false
}

// Resolve turns a palette value into a color. Hex values ("#rrggbb") and
// ANSI indexes ("12") are used as is; names are looked up in the current
// theme, or the xterm defaults when theming is disabled.
func Resolve(value string) (color.Color, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return nil, false
	}
	if strings.HasPrefix(value, "#") || isDigits(value) {
		return lipgloss.Color(value), true
	}

	if t := Current(); t != nil {
		if c, ok := named(t, value); ok && c != nil {
			return c, true
		}
	}
	if hex, ok := fallback[value]; ok {
		return lipgloss.Color(hex), true
	}
	return nil, false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Palette maps grid symbols to swatch colors.
type Palette struct {
	colors map[rune]color.Color
}

// NewPalette resolves entries (symbol -> color value) into a Palette.
// Entries whose key is not a single symbol or whose value does not resolve
// are returned as skipped.
func NewPalette(entries map[string]string) (*Palette, []string) {
	p := &Palette{colors: make(map[rune]color.Color, len(entries))}
	var skipped []string

	for sym, value := range entries {
		runes := []rune(sym)
		if len(runes) != 1 {
			skipped = append(skipped, sym)
			continue
		}
		c, ok := Resolve(value)
		if !ok {
			skipped = append(skipped, sym)
			continue
		}
		p.colors[runes[0]] = c
	}
	return p, skipped
}

// Swatch returns the color for symbol. Unmapped symbols report false and
// are not drawn.
func (p *Palette) Swatch(symbol rune) (color.Color, bool) {
	if p == nil {
		return nil, false
	}
	c, ok := p.colors[symbol]
	return c, ok
}

// Len returns the number of mapped symbols.
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.colors)
}

// Accent is the color used for the viewport frame and the center marker.
func Accent() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#AFFFFF")
	}
	return t.BrightCyan
}

// Muted is used for status text.
func Muted() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#7f7f7f")
	}
	return t.BrightBlack
}

// ErrorColor is used for error notices on the status line.
func ErrorColor() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#ff5f5f")
	}
	return t.BrightRed
}
