package tape

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Gaurav-Gosain/toroid/internal/viewport"
)

// Recorder records viewer actions as tape commands. Consecutive moves in
// the same direction are folded into one command with a count.
type Recorder struct {
	commands      []Command
	startTime     time.Time
	lastEventTime time.Time
	enabled       bool
	minPause      time.Duration // pauses shorter than this are not recorded
}

// NewRecorder creates a stopped recorder.
func NewRecorder() *Recorder {
	now := time.Now()
	return &Recorder{
		startTime:     now,
		lastEventTime: now,
		minPause:      time.Second,
	}
}

// Start clears any recorded commands and begins recording.
func (r *Recorder) Start() {
	r.enabled = true
	r.startTime = time.Now()
	r.lastEventTime = r.startTime
	r.commands = nil
}

// Stop ends recording
func (r *Recorder) Stop() {
	r.enabled = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r != nil && r.enabled
}

// RecordMove records a single step.
func (r *Recorder) RecordMove(d viewport.Direction) {
	if !r.IsRecording() {
		return
	}
	paused := r.pause()
	if !paused && len(r.commands) > 0 {
		last := &r.commands[len(r.commands)-1]
		if last.Type == CommandType_Move && last.Direction == d && last.Count < MaxCount {
			last.Count++
			return
		}
	}
	r.add(Command{Type: CommandType_Move, Direction: d, Count: 1})
}

// RecordGoto records a jump to an absolute position.
func (r *Recorder) RecordGoto(row, col int) {
	if !r.IsRecording() {
		return
	}
	r.pause()
	r.add(Command{Type: CommandType_Goto, Row: row, Col: col})
}

// RecordReload records a manual reload.
func (r *Recorder) RecordReload() {
	if !r.IsRecording() {
		return
	}
	r.pause()
	r.add(Command{Type: CommandType_Reload})
}

// RecordSync records a full-buffer replacement.
func (r *Recorder) RecordSync(text string) {
	if !r.IsRecording() {
		return
	}
	r.pause()
	r.add(Command{Type: CommandType_Sync, Text: text})
}

// pause records a Sleep when the user idled long enough and reports
// whether it did.
func (r *Recorder) pause() bool {
	now := time.Now()
	idle := now.Sub(r.lastEventTime)
	r.lastEventTime = now
	if idle < r.minPause || len(r.commands) == 0 {
		return false
	}
	r.add(Command{Type: CommandType_Sleep, Duration: idle.Round(100 * time.Millisecond)})
	return true
}

func (r *Recorder) add(cmd Command) {
	cmd.Line = len(r.commands) + 1
	r.commands = append(r.commands, cmd)
}

// GetCommands returns all recorded commands
func (r *Recorder) GetCommands() []Command {
	return r.commands
}

// CommandCount returns the number of recorded commands
func (r *Recorder) CommandCount() int {
	return len(r.commands)
}

// String returns the tape content. A non-empty header is written as a
// comment block.
func (r *Recorder) String(header string) string {
	var sb strings.Builder

	if header != "" {
		fmt.Fprintf(&sb, "# %s\n", header)
		fmt.Fprintf(&sb, "# Recorded: %s\n\n", r.startTime.Format(time.RFC3339))
	}
	for i := range r.commands {
		sb.WriteString(r.commands[i].String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteToFile saves the recorded tape to a file
func (r *Recorder) WriteToFile(filename string, header string) error {
	if err := os.WriteFile(filename, []byte(r.String(header)), 0o644); err != nil {
		return fmt.Errorf("write tape: %w", err)
	}
	return nil
}
