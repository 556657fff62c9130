// Package server serves read-only toroid viewers over SSH.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/Gaurav-Gosain/toroid/internal/app"
	"github.com/Gaurav-Gosain/toroid/internal/config"
	"github.com/Gaurav-Gosain/toroid/internal/source"
	"github.com/Gaurav-Gosain/toroid/internal/viewport"
	"github.com/adrg/xdg"
	"github.com/charmbracelet/ssh"
)

var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "server",
	})
}

// SetOutput redirects the package logger.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetLogLevel sets the logging level for the server package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Host    string
	Port    string
	KeyPath string // generated under the XDG data dir when empty

	// Path is the grid file every session views.
	Path     string
	Config   *config.UserConfig
	StartRow viewport.StartRowPolicy
}

// StartSSHServer runs the server until ctx is cancelled.
func StartSSHServer(ctx context.Context, cfg *SSHServerConfig) error {
	if cfg.Config == nil {
		cfg.Config = config.DefaultConfig()
	}

	hostKeyPath := cfg.KeyPath
	if hostKeyPath == "" {
		p, err := xdg.DataFile("toroid/host_ed25519")
		if err != nil {
			return fmt.Errorf("failed to resolve host key path: %w", err)
		}
		hostKeyPath = p
	}

	// Fail early when the grid cannot be read at all.
	file, err := source.NewFile(cfg.Path)
	if err != nil {
		return err
	}
	if _, err := file.ReadAllText(); err != nil {
		return &viewport.IOError{Op: "read", Err: err}
	}

	srv, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(newTeaHandler(cfg, file)),
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "file", file.Path())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("SSH server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newTeaHandler returns a handler that gives each session its own
// controller and watcher over the shared file. Sessions never write.
func newTeaHandler(cfg *SSHServerConfig, file *source.File) bubbletea.Handler {
	return func(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, active := sess.Pty()
		if !active {
			wish.Fatalln(sess, "toroid requires a PTY")
			return nil, nil
		}

		ctrl := viewport.New(file,
			viewport.WithRadius(cfg.Config.Appearance.Radius),
			viewport.WithStartRow(cfg.StartRow),
			viewport.WithLogger(logger.With("user", sess.User())),
		)
		if err := ctrl.Load(); err != nil {
			logger.Error("session load failed", "user", sess.User(), "err", err)
			wish.Fatalln(sess, err.Error())
			return nil, nil
		}

		var notifier source.Notifier
		watcher, err := source.NewWatcher(file.Path(), cfg.Config.Sync.SettleDelay())
		if err != nil {
			logger.Warn("live reload disabled for session", "user", sess.User(), "err", err)
		} else {
			notifier = watcher
			go func() {
				<-sess.Context().Done()
				_ = watcher.Close()
			}()
		}

		m := app.New(app.Options{
			Controller: ctrl,
			Notifier:   notifier,
			Config:     cfg.Config,
			SourceName: file.Path(),
			ReadOnly:   true,
		})
		m.Update(tea.WindowSizeMsg{Width: pty.Window.Width, Height: pty.Window.Height})

		return m, []tea.ProgramOption{
			tea.WithFPS(config.NormalFPS),
		}
	}
}
