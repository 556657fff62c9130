package app

import (
	"errors"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/toroid/internal/config"
	"github.com/Gaurav-Gosain/toroid/internal/viewport"
)

var errReadOnly = errors.New("viewer is read-only, edit ignored")

var moveActions = map[string]viewport.Direction{
	"move_up":    viewport.Up,
	"move_down":  viewport.Down,
	"move_left":  viewport.Left,
	"move_right": viewport.Right,
}

// Init starts listening for change notifications.
func (m *Model) Init() tea.Cmd {
	if m.notifier == nil {
		return nil
	}
	return WaitForChangeCmd(m.notifier.Changes())
}

// Update handles all incoming messages. It is the only place the controller
// is mutated, which serializes moves, reloads and edits.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.PasteMsg:
		return m, m.handlePaste(msg.Content)

	case ChangeMsg:
		// Only raise the pending flag here; the read happens on ReloadMsg
		// once the writer has had time to finish.
		var cmds []tea.Cmd
		if m.notifier != nil {
			cmds = append(cmds, WaitForChangeCmd(m.notifier.Changes()))
		}
		if !m.pendingReload {
			m.pendingReload = true
			cmds = append(cmds, ReloadAfterCmd(m.settle))
		}
		return m, tea.Batch(cmds...)

	case ReloadMsg:
		m.pendingReload = false
		return m, m.reload()

	case ClearErrorMsg:
		if msg.Seq == m.errSeq {
			m.lastErr = nil
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	action := m.registry.GetAction(msg.String())

	if m.showHelp && action != "quit" {
		// Any key closes the help overlay.
		m.showHelp = false
		return m, nil
	}

	if dir, ok := moveActions[action]; ok {
		visible, err := m.ctrl.Move(dir)
		if err != nil {
			return m, m.setError(err)
		}
		m.visible = visible
		m.notice = ""
		m.recorder.RecordMove(dir)
		return m, nil
	}

	switch action {
	case "reload":
		m.recorder.RecordReload()
		return m, m.reload()
	case "toggle_help":
		m.showHelp = !m.showHelp
	case "quit":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// reload re-reads the source. Failures leave the last valid grid on screen.
func (m *Model) reload() tea.Cmd {
	changed, err := m.ctrl.ReloadFromSource()
	if err != nil {
		logger.Error("reload failed", "source", m.name, "err", err)
		return m.setError(err)
	}
	if changed {
		m.reloads++
		m.visible = m.ctrl.ComputeVisible()
		m.notice = "reloaded"
	}
	return nil
}

// handlePaste treats pasted text as a full-buffer replacement.
func (m *Model) handlePaste(text string) tea.Cmd {
	if m.readOnly {
		return m.setError(errReadOnly)
	}

	wrote, err := m.ctrl.SyncOut(text)
	if err != nil {
		logger.Error("sync failed", "source", m.name, "err", err)
		return m.setError(err)
	}
	if wrote {
		m.recorder.RecordSync(text)
		m.syncs++
		m.visible = m.ctrl.ComputeVisible()
		m.notice = "saved"
	}
	return nil
}

func (m *Model) setError(err error) tea.Cmd {
	m.lastErr = err
	m.errSeq++
	return ClearErrorAfterCmd(m.errSeq, config.ErrorDisplayDuration)
}
