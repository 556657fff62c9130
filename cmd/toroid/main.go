// Package main implements toroid, a terminal viewer for wrap-around
// character grids. The grid is loaded from a text file, shown through a
// small window that wraps at every edge, and kept in sync with the file
// as it changes on disk.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode  bool
	logFile    string
	recordPath string
)

// Viewer flags shared by every command that shows the grid
var (
	themeName   string
	radius      int
	startRow    string
	settleDelay time.Duration
	asciiOnly   bool
	hideCoords  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "toroid <file>",
		Short: "View a wrap-around character grid",
		Long: `toroid - wrap-around grid viewer

Loads a text file as a grid of symbols and shows a small window onto it.
Moving past any edge wraps to the opposite side. Each row wraps against
its own length, so rows need not be the same width.

The file is watched: edits made elsewhere are picked up automatically.
Pasting text into the viewer replaces the whole file.`,
		Example: `  # View a grid
  toroid maze.txt

  # Larger window, start on the first row
  toroid maze.txt --radius 2 --start-row first

  # Use a bubbletint theme
  toroid maze.txt --theme dracula

  # Print the cells around row 3, column 7
  toroid peek maze.txt --row 3 --col 7

  # Replace the grid from another program
  generate-maze | toroid sync maze.txt

  # Record a session, then replay it without a terminal
  toroid maze.txt --record walk.tape
  toroid play maze.txt walk.tape`,
		Version:      version,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocal(args[0])
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file (default: XDG state dir)")
	rootCmd.Flags().StringVar(&recordPath, "record", "", "Record moves and edits to a tape file")
	addViewerFlags(rootCmd)

	var peekRow, peekCol int
	peekCmd := &cobra.Command{
		Use:   "peek <file>",
		Short: "Print the visible cells around a position",
		Long: `Print the visible cells around a position and exit

Output is colored swatches when stdout is a terminal and plain symbols,
one grid row per line, otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPeek(args[0], peekRow, peekCol)
		},
	}
	peekCmd.Flags().IntVar(&peekRow, "row", 0, "Center row (wraps)")
	peekCmd.Flags().IntVar(&peekCol, "col", 0, "Center column (wraps against the row length)")
	addViewerFlags(peekCmd)

	var verbose bool
	playCmd := &cobra.Command{
		Use:   "play <file> <script.tape>",
		Short: "Run a tape script against a grid",
		Long: `Run a tape script against a grid without a terminal

Scripts contain one command per line:

  Up | Down | Left | Right [count]
  Goto <row> <col>
  Reload
  Sync "text"
  Snapshot
  Sleep <duration>

Snapshot prints the visible cells. The run stops at the first failing
command. Sync writes to the grid file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), args[0], args[1], verbose)
		},
	}
	playCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Echo each command before running it")
	addViewerFlags(playCmd)

	syncCmd := &cobra.Command{
		Use:   "sync <file>",
		Short: "Replace the grid with text read from stdin",
		Long: `Replace the grid with text read from stdin

The file is only written when the text differs from its current
contents. Empty input is rejected and leaves the file untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(args[0])
		},
	}

	var sshPort, sshHost, sshKeyPath string
	sshCmd := &cobra.Command{
		Use:   "ssh <file>",
		Short: "Serve read-only viewers over SSH",
		Long: `Serve read-only viewers over SSH

Every connection gets its own window onto the same file. Changes to the
file are shown to all viewers. Pasted edits are refused.`,
		Example: `  # Start on the default port
  toroid ssh maze.txt

  # Listen on all interfaces
  toroid ssh maze.txt --host 0.0.0.0 --port 2323`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSSHServer(args[0], sshHost, sshPort, sshKeyPath)
		},
	}
	sshCmd.Flags().StringVar(&sshPort, "port", "2222", "SSH server port")
	sshCmd.Flags().StringVar(&sshHost, "host", "localhost", "SSH server host")
	sshCmd.Flags().StringVar(&sshKeyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")
	addViewerFlags(sshCmd)

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage toroid configuration",
		Long:  `Manage toroid configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfigPath()
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the toroid configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigFile()
		},
	}

	var force bool
	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the toroid configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigToDefaults(force)
		},
	}
	configResetCmd.Flags().BoolVarP(&force, "yes", "y", false, "Do not ask for confirmation")

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd)

	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
	}

	keybindsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all keybindings",
		Long:  `Display all configured keybindings in a formatted table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listKeybindings()
		},
	}
	keybindsCmd.AddCommand(keybindsListCmd)

	rootCmd.AddCommand(peekCmd, playCmd, syncCmd, sshCmd, configCmd, keybindsCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

func addViewerFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&themeName, "theme", "", "Color theme (bubbletint id)")
	cmd.Flags().IntVar(&radius, "radius", 0, "Cells shown on each side of the center")
	cmd.Flags().StringVar(&startRow, "start-row", "", "Initial row: random, first or middle")
	cmd.Flags().DurationVar(&settleDelay, "settle", 0, "Wait after a file change before reloading")
	cmd.Flags().BoolVar(&asciiOnly, "ascii", false, "Draw frames and markers with ASCII only")
	cmd.Flags().BoolVar(&hideCoords, "hide-coords", false, "Hide the row and column in the status line")
}
