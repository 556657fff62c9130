package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/toroid/internal/app"
	"github.com/Gaurav-Gosain/toroid/internal/config"
	"github.com/Gaurav-Gosain/toroid/internal/server"
	"github.com/Gaurav-Gosain/toroid/internal/source"
	"github.com/Gaurav-Gosain/toroid/internal/tape"
	"github.com/Gaurav-Gosain/toroid/internal/theme"
	"github.com/Gaurav-Gosain/toroid/internal/viewport"
	"github.com/charmbracelet/colorprofile"
	"github.com/google/uuid"
	"golang.org/x/term"
)

// loadConfig loads the user config with command line overrides applied.
func loadConfig() *config.UserConfig {
	cfg, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config, using defaults: %v\n", err)
		cfg = config.DefaultConfig()
	}

	config.ApplyOverrides(config.Overrides{
		ThemeName:   themeName,
		Radius:      radius,
		StartRow:    startRow,
		SettleDelay: settleDelay,
		ASCIIOnly:   asciiOnly,
		HideCoords:  hideCoords,
	}, cfg)

	for _, w := range cfg.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: config: %s\n", w)
	}
	if !theme.Initialize(cfg.Appearance.Theme) && cfg.Appearance.Theme != "" {
		fmt.Fprintf(os.Stderr, "Warning: unknown theme %q, using built-in colors\n", cfg.Appearance.Theme)
	}
	return cfg
}

// setupLogging points every package logger at w and returns a logger
// tagged with this run's id.
func setupLogging(w io.Writer) *log.Logger {
	level := log.InfoLevel
	if debugMode {
		level = log.DebugLevel
	}

	viewport.SetOutput(w)
	viewport.SetLogLevel(level)
	source.SetOutput(w)
	source.SetLogLevel(level)
	app.SetOutput(w)
	app.SetLogLevel(level)
	server.SetOutput(w)
	server.SetLogLevel(level)

	runLogger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "toroid",
		Level:           level,
	})
	return runLogger.With("run", uuid.NewString())
}

// openLogFile opens the log destination for the interactive viewer, which
// owns the terminal and cannot log to stderr.
func openLogFile() (*os.File, error) {
	path := logFile
	if path == "" {
		p, err := config.GetLogPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// newController builds and loads a controller over file.
func newController(file *source.File, cfg *config.UserConfig, l *log.Logger) (*viewport.Controller, error) {
	policy, err := viewport.ParseStartRow(cfg.Sync.StartRow)
	if err != nil {
		return nil, err
	}
	ctrl := viewport.New(file,
		viewport.WithRadius(cfg.Appearance.Radius),
		viewport.WithStartRow(policy),
		viewport.WithLogger(l.WithPrefix("viewport")),
	)
	if err := ctrl.Load(); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func runLocal(path string) error {
	cfg := loadConfig()

	lf, err := openLogFile()
	if err != nil {
		return err
	}
	defer func() {
		_ = lf.Close()
	}()
	l := setupLogging(lf)

	file, err := source.NewFile(path)
	if err != nil {
		return err
	}
	ctrl, err := newController(file, cfg, l)
	if err != nil {
		return err
	}
	row, col := ctrl.Center()
	l.Info("viewer started", "file", file.Path(), "rows", ctrl.Grid().RowCount(), "row", row, "col", col)

	if debugMode {
		configPath, _ := config.GetConfigPath()
		l.Debug("configuration", "path", configPath)
	}

	var notifier source.Notifier
	watcher, err := source.NewWatcher(file.Path(), cfg.Sync.SettleDelay())
	if err != nil {
		l.Warn("live reload disabled", "err", err)
	} else {
		defer func() {
			_ = watcher.Close()
		}()
		notifier = watcher
	}

	var recorder *tape.Recorder
	if recordPath != "" {
		recorder = tape.NewRecorder()
		recorder.Start()
		// Replays start from the same place.
		recorder.RecordGoto(row, col)
	}

	model := app.New(app.Options{
		Controller: ctrl,
		Notifier:   notifier,
		Config:     cfg,
		SourceName: filepath.Base(file.Path()),
		Recorder:   recorder,
	})

	p := tea.NewProgram(
		model,
		tea.WithFPS(config.NormalFPS),
		tea.WithoutSignalHandler(),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		p.Send(tea.QuitMsg{})
	}()

	_, runErr := p.Run()

	if recorder != nil {
		recorder.Stop()
		if err := recorder.WriteToFile(recordPath, "toroid session: "+file.Path()); err != nil {
			l.Error("failed to save recording", "path", recordPath, "err", err)
		} else {
			l.Info("recording saved", "path", recordPath, "commands", recorder.CommandCount())
		}
	}

	if runErr != nil {
		return fmt.Errorf("program error: %w", runErr)
	}
	l.Info("viewer stopped")
	return nil
}

func runPlay(ctx context.Context, path, scriptPath string, verbose bool) error {
	cfg := loadConfig()
	l := setupLogging(os.Stderr)

	content, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	commands, errs := tape.ParseFile(string(content))
	if len(errs) > 0 {
		for _, e := range errs {
			l.Error("script error", "script", scriptPath, "err", e)
		}
		return fmt.Errorf("%s: %d parse error(s)", scriptPath, len(errs))
	}

	file, err := source.NewFile(path)
	if err != nil {
		return err
	}
	if cfg.Sync.StartRow == config.StartRowRandom {
		// Scripts must be reproducible.
		cfg.Sync.StartRow = config.StartRowFirst
	}
	ctrl, err := newController(file, cfg, l)
	if err != nil {
		return err
	}

	runner := tape.NewHeadlessRunner(commands, ctrl, os.Stdout)
	runner.SetVerbose(verbose)
	runner.Render = func(v viewport.Visible) string {
		return app.RenderSymbols(v, ctrl.Radius())
	}

	err = runner.Run(ctx)
	stats := runner.Stats()
	l.Debug("script finished", "commands", stats.Commands, "moves", stats.Moves,
		"syncs", stats.Syncs, "reloads", stats.Reloads, "elapsed", stats.Elapsed)
	return err
}

func runPeek(path string, row, col int) error {
	cfg := loadConfig()
	l := setupLogging(os.Stderr)

	file, err := source.NewFile(path)
	if err != nil {
		return err
	}
	ctrl, err := newController(file, cfg, l)
	if err != nil {
		return err
	}
	visible, err := ctrl.MoveTo(row, col)
	if err != nil {
		return err
	}

	// Swatches need a terminal that can show color.
	profile := colorprofile.Detect(os.Stdout, os.Environ())
	if !term.IsTerminal(int(os.Stdout.Fd())) || profile == colorprofile.Ascii || profile == colorprofile.NoTTY {
		fmt.Println(app.RenderSymbols(visible, ctrl.Radius()))
		return nil
	}

	palette, skipped := theme.NewPalette(cfg.Palette)
	for _, sym := range skipped {
		l.Warn("palette entry ignored", "symbol", sym)
	}
	lipgloss.Println(app.RenderGrid(visible, ctrl.Radius(), palette, app.RenderOptions{
		CellWidth:  cfg.Appearance.CellWidth,
		ASCIIOnly:  cfg.Appearance.ASCIIOnly,
		MarkCenter: true,
	}))
	return nil
}

func runSync(path string) error {
	l := setupLogging(os.Stderr)

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	file, err := source.NewFile(path)
	if err != nil {
		return err
	}
	return syncGrid(file, string(data), l, os.Stdout)
}

// syncGrid replaces the grid in file with text. A missing or blank file is
// filled directly since there is no grid to sync against.
func syncGrid(file *source.File, text string, l *log.Logger, out io.Writer) error {
	cfg := config.DefaultConfig()
	cfg.Sync.StartRow = config.StartRowFirst

	ctrl, err := newController(file, cfg, l)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, viewport.ErrEmptySource) {
		return fillGrid(file, text, l, out)
	}
	if err != nil {
		return err
	}

	wrote, err := ctrl.SyncOut(text)
	if err != nil {
		if errors.Is(err, viewport.ErrEmptySource) {
			return fmt.Errorf("refusing to write: %w", err)
		}
		return err
	}
	if wrote {
		fmt.Fprintf(out, "Wrote %d rows to %s\n", ctrl.Grid().RowCount(), file.Path())
	} else {
		fmt.Fprintln(out, "Unchanged")
	}
	return nil
}

// fillGrid writes text to a file that is missing or holds no rows. The text
// must parse as a grid.
func fillGrid(file *source.File, text string, l *log.Logger, out io.Writer) error {
	ctrl := viewport.New(file, viewport.WithStartRow(viewport.StartFirst), viewport.WithLogger(l))
	if err := ctrl.Initialize(text); err != nil {
		return fmt.Errorf("refusing to write: %w", err)
	}
	if err := file.WriteAllText(text); err != nil {
		return &viewport.IOError{Op: "write", Err: err}
	}
	fmt.Fprintf(out, "Wrote %d rows to %s\n", ctrl.Grid().RowCount(), file.Path())
	return nil
}

func runSSHServer(path, host, port, keyPath string) error {
	cfg := loadConfig()
	l := setupLogging(os.Stderr)

	policy, err := viewport.ParseStartRow(cfg.Sync.StartRow)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l.Info("starting SSH server", "host", host, "port", port, "file", path)
	if err := server.StartSSHServer(ctx, &server.SSHServerConfig{
		Host:     host,
		Port:     port,
		KeyPath:  keyPath,
		Path:     path,
		Config:   cfg,
		StartRow: policy,
	}); err != nil {
		return fmt.Errorf("SSH server error: %w", err)
	}
	return nil
}
