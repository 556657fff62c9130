// Package app implements the interactive toroid viewer: a bubbletea model
// that owns one viewport controller, turns key presses into moves, and
// serializes change notifications, reloads and pasted edits on the update
// loop.
package app

import (
	"io"
	"os"
	"time"

	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/toroid/internal/config"
	"github.com/Gaurav-Gosain/toroid/internal/source"
	"github.com/Gaurav-Gosain/toroid/internal/tape"
	"github.com/Gaurav-Gosain/toroid/internal/theme"
	"github.com/Gaurav-Gosain/toroid/internal/viewport"
)

// Package-level logger
var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "app",
	})
}

// SetLogLevel sets the logging level for the app package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// SetOutput redirects the package logger.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Options configures a Model.
type Options struct {
	Controller *viewport.Controller
	Notifier   source.Notifier // nil disables live reload
	Config     *config.UserConfig
	Registry   *config.KeybindRegistry
	Palette    *theme.Palette
	SourceName string
	ReadOnly   bool           // pasted edits are refused
	Recorder   *tape.Recorder // records viewer actions when set
}

// Model is the bubbletea model for the viewer.
type Model struct {
	ctrl     *viewport.Controller
	notifier source.Notifier
	registry *config.KeybindRegistry
	palette  *theme.Palette
	recorder *tape.Recorder

	name       string
	readOnly   bool
	cellWidth  int
	showCoords bool
	asciiOnly  bool
	settle     time.Duration

	visible       viewport.Visible
	pendingReload bool
	showHelp      bool

	lastErr  error
	errSeq   int
	notice   string
	syncs    int
	reloads  int
	width    int
	height   int
	quitting bool
}

// New builds a model around an initialized controller.
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	registry := opts.Registry
	if registry == nil {
		registry = config.NewKeybindRegistry(cfg)
	}
	palette := opts.Palette
	if palette == nil {
		var skipped []string
		palette, skipped = theme.NewPalette(cfg.Palette)
		for _, sym := range skipped {
			logger.Warn("palette entry ignored", "symbol", sym)
		}
	}

	m := &Model{
		ctrl:       opts.Controller,
		notifier:   opts.Notifier,
		registry:   registry,
		palette:    palette,
		recorder:   opts.Recorder,
		name:       opts.SourceName,
		readOnly:   opts.ReadOnly,
		cellWidth:  cfg.Appearance.CellWidth,
		showCoords: cfg.Appearance.ShowCoords,
		asciiOnly:  cfg.Appearance.ASCIIOnly,
		settle:     cfg.Sync.SettleDelay(),
	}
	m.visible = m.ctrl.ComputeVisible()
	return m
}

// Visible returns the cells currently shown.
func (m *Model) Visible() viewport.Visible {
	return m.visible
}

// PendingReload reports whether a change notification is waiting to be applied.
func (m *Model) PendingReload() bool {
	return m.pendingReload
}

// LastError returns the error shown on the status line, if any.
func (m *Model) LastError() error {
	return m.lastErr
}
