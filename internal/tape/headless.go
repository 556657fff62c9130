package tape

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Gaurav-Gosain/toroid/internal/viewport"
)

// Target is what a script drives. *viewport.Controller satisfies it.
type Target interface {
	Move(d viewport.Direction) (viewport.Visible, error)
	MoveTo(row, col int) (viewport.Visible, error)
	ReloadFromSource() (bool, error)
	SyncOut(text string) (bool, error)
	ComputeVisible() viewport.Visible
	Center() (row, col int)
}

// ScriptExecutionStats counts what a run did.
type ScriptExecutionStats struct {
	Commands  int
	Moves     int
	Reloads   int // reloads that changed the grid
	Syncs     int // syncs that wrote the source
	Snapshots int
	Elapsed   time.Duration
}

// HeadlessRunner plays a script against a Target without a TUI. Snapshot
// commands write the visible set to the output writer.
type HeadlessRunner struct {
	player *Player
	target Target
	out    io.Writer

	// Render formats a snapshot. Symbols are written row-major without
	// separators when nil.
	Render func(viewport.Visible) string

	verbose bool
	stats   ScriptExecutionStats
}

// NewHeadlessRunner creates a new headless script runner
func NewHeadlessRunner(commands []Command, target Target, out io.Writer) *HeadlessRunner {
	return &HeadlessRunner{
		player: NewPlayer(commands),
		target: target,
		out:    out,
	}
}

// SetVerbose echoes every command to the output before running it.
func (hr *HeadlessRunner) SetVerbose(verbose bool) {
	hr.verbose = verbose
}

// Run executes all commands in order. It stops at the first command that
// fails; the target keeps whatever state it had before that command.
func (hr *HeadlessRunner) Run(ctx context.Context) error {
	start := time.Now()
	defer func() {
		hr.stats.Elapsed = time.Since(start)
	}()

	for !hr.player.IsFinished() {
		if err := ctx.Err(); err != nil {
			return err
		}

		cmd := hr.player.NextCommand()
		if hr.verbose {
			fmt.Fprintf(hr.out, "# [%s] %s\n", hr.player, cmd)
		}
		if err := hr.execute(ctx, cmd); err != nil {
			return fmt.Errorf("line %d: %s: %w", cmd.Line, cmd.Type, err)
		}
		hr.stats.Commands++
		hr.player.Advance()
	}
	return nil
}

func (hr *HeadlessRunner) execute(ctx context.Context, cmd *Command) error {
	switch cmd.Type {
	case CommandType_Move:
		for range cmd.Count {
			if _, err := hr.target.Move(cmd.Direction); err != nil {
				return err
			}
		}
		hr.stats.Moves += cmd.Count

	case CommandType_Goto:
		if _, err := hr.target.MoveTo(cmd.Row, cmd.Col); err != nil {
			return err
		}
		hr.stats.Moves++

	case CommandType_Reload:
		changed, err := hr.target.ReloadFromSource()
		if err != nil {
			return err
		}
		if changed {
			hr.stats.Reloads++
		}

	case CommandType_Sync:
		wrote, err := hr.target.SyncOut(cmd.Text)
		if err != nil {
			return err
		}
		if wrote {
			hr.stats.Syncs++
		}

	case CommandType_Snapshot:
		return hr.snapshot()

	case CommandType_Sleep:
		timer := time.NewTimer(cmd.Duration)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

	default:
		return fmt.Errorf("unsupported command %q", cmd.Type)
	}
	return nil
}

func (hr *HeadlessRunner) snapshot() error {
	visible := hr.target.ComputeVisible()
	row, col := hr.target.Center()

	var body string
	if hr.Render != nil {
		body = hr.Render(visible)
	} else {
		symbols := make([]rune, len(visible))
		for i, c := range visible {
			symbols[i] = c.Symbol
		}
		body = string(symbols)
	}

	hr.stats.Snapshots++
	_, err := fmt.Fprintf(hr.out, "# row %d col %d\n%s\n", row, col, body)
	return err
}

// Stats returns what the last Run did.
func (hr *HeadlessRunner) Stats() ScriptExecutionStats {
	return hr.stats
}

// ValidateScript parses content and reports whether it is free of errors.
func ValidateScript(content string) (bool, []string) {
	_, errs := ParseFile(content)
	return len(errs) == 0, errs
}
