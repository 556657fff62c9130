package app

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// ChangeMsg signals that the source reported a change. It carries no
// content; the model re-reads the source once the settle delay has passed.
type ChangeMsg struct{}

// ReloadMsg asks the model to reload from the source now.
type ReloadMsg struct{}

// ClearErrorMsg clears the status line error if it is still the one with Seq.
type ClearErrorMsg struct {
	Seq int
}

// WaitForChangeCmd creates a command that waits for the next change
// notification. It must be re-issued after every ChangeMsg.
func WaitForChangeCmd(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return ChangeMsg{}
	}
}

// ReloadAfterCmd returns a command that fires ReloadMsg after d. A zero
// delay reloads on the next update.
func ReloadAfterCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg {
			return ReloadMsg{}
		}
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ReloadMsg{}
	})
}

// ClearErrorAfterCmd returns a command that clears error seq after d.
func ClearErrorAfterCmd(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearErrorMsg{Seq: seq}
	})
}
