package app

import (
	"errors"
	"io"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/toroid/internal/config"
	"github.com/Gaurav-Gosain/toroid/internal/source"
	"github.com/Gaurav-Gosain/toroid/internal/tape"
	"github.com/Gaurav-Gosain/toroid/internal/theme"
	"github.com/Gaurav-Gosain/toroid/internal/viewport"
	"github.com/charmbracelet/x/ansi"
)

func init() {
	SetOutput(io.Discard)
}

func newTestModel(t *testing.T, text string, readOnly bool) (*Model, *source.Memory) {
	t.Helper()
	theme.Initialize("")

	mem := source.NewMemory(text)
	ctrl := viewport.New(mem,
		viewport.WithStartRow(viewport.StartFirst),
		viewport.WithLogger(log.New(io.Discard)),
	)
	if err := ctrl.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	m := New(Options{
		Controller: ctrl,
		Notifier:   mem,
		Config:     config.DefaultConfig(),
		SourceName: "test",
		ReadOnly:   readOnly,
	})
	return m, mem
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func center(t *testing.T, m *Model) rune {
	t.Helper()
	cell, ok := m.Visible().At(0, 0)
	if !ok {
		t.Fatal("no center cell")
	}
	return cell.Symbol
}

// =============================================================================
// Input Tests
// =============================================================================

func TestUpdate_MoveKeys(t *testing.T) {
	m, _ := newTestModel(t, "abc\ndef\nghi", false)

	tests := []struct {
		key  string
		want rune
	}{
		{"l", 'b'},
		{"down", 'e'},
		{"h", 'd'},
		{"up", 'a'},
		{"k", 'g'},
	}

	for _, tc := range tests {
		m.Update(key(tc.key))
		if got := center(t, m); got != tc.want {
			t.Errorf("after %q: center %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestUpdate_Quit(t *testing.T) {
	m, _ := newTestModel(t, "ab", false)

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected QuitMsg")
	}
}

func TestUpdate_HelpToggle(t *testing.T) {
	m, _ := newTestModel(t, "ab", false)

	m.Update(key("?"))
	if !strings.Contains(ansi.Strip(m.Render()), "ACTION") {
		t.Error("Expected help table")
	}

	// any key closes help without moving
	m.Update(key("l"))
	if strings.Contains(ansi.Strip(m.Render()), "ACTION") {
		t.Error("Expected help to close")
	}
	if center(t, m) != 'a' {
		t.Error("closing help should not move")
	}
}

// =============================================================================
// Reload Tests
// =============================================================================

func TestUpdate_ChangeThenReload(t *testing.T) {
	m, mem := newTestModel(t, "abc\ndef", false)
	m.Update(key("l"))

	mem.Set("xyz\nuvw")
	m.Update(ChangeMsg{})
	if !m.PendingReload() {
		t.Fatal("ChangeMsg should set the pending flag")
	}
	if center(t, m) != 'b' {
		t.Error("grid must not change before the reload runs")
	}

	// A second notification while pending is coalesced.
	m.Update(ChangeMsg{})

	m.Update(ReloadMsg{})
	if m.PendingReload() {
		t.Error("pending flag should clear after reload")
	}
	if got := center(t, m); got != 'y' {
		t.Errorf("center after reload = %q, want 'y'", got)
	}
	if m.reloads != 1 {
		t.Errorf("reloads = %d, want 1", m.reloads)
	}
}

func TestUpdate_ReloadReadErrorKeepsGrid(t *testing.T) {
	m, mem := newTestModel(t, "abc\ndef", false)
	m.Update(key("l"))
	before := m.Visible()

	mem.FailReads(errors.New("device busy"))
	m.Update(ReloadMsg{})

	var ioErr *viewport.IOError
	if !errors.As(m.LastError(), &ioErr) {
		t.Fatalf("Expected IOError on status line, got %v", m.LastError())
	}
	if len(m.Visible()) != len(before) || center(t, m) != 'b' {
		t.Error("visible set changed after failed reload")
	}
	if !strings.Contains(ansi.Strip(m.Render()), "device busy") {
		t.Error("Expected error on status line")
	}
}

func TestUpdate_ReloadEmptyKeepsGrid(t *testing.T) {
	m, mem := newTestModel(t, "abc", false)

	mem.Set("\n\n")
	m.Update(ReloadMsg{})

	if !errors.Is(m.LastError(), viewport.ErrEmptySource) {
		t.Fatalf("Expected ErrEmptySource, got %v", m.LastError())
	}
	if center(t, m) != 'a' {
		t.Error("grid replaced by empty source")
	}
}

func TestUpdate_ClearError(t *testing.T) {
	m, mem := newTestModel(t, "abc", false)
	mem.FailReads(errors.New("boom"))
	m.Update(ReloadMsg{})

	m.Update(ClearErrorMsg{Seq: m.errSeq - 1})
	if m.LastError() == nil {
		t.Error("stale clear should not remove a newer error")
	}
	m.Update(ClearErrorMsg{Seq: m.errSeq})
	if m.LastError() != nil {
		t.Error("Expected error to clear")
	}
}

// =============================================================================
// Paste (SyncOut) Tests
// =============================================================================

func TestUpdate_PasteSyncsOnce(t *testing.T) {
	m, mem := newTestModel(t, "abc", false)

	m.Update(tea.PasteMsg{Content: "xyz\nuvw"})
	m.Update(tea.PasteMsg{Content: "xyz\nuvw"})

	if mem.Writes() != 1 {
		t.Errorf("writes = %d, want 1", mem.Writes())
	}
	if center(t, m) != 'x' {
		t.Errorf("center = %q, want 'x'", center(t, m))
	}

	// The write echoes back as a notification, which must not rebuild.
	m.Update(ChangeMsg{})
	m.Update(ReloadMsg{})
	if m.reloads != 0 {
		t.Errorf("echo caused %d reloads", m.reloads)
	}
	if mem.Writes() != 1 {
		t.Errorf("echo caused a write, writes = %d", mem.Writes())
	}
}

func TestUpdate_PasteReadOnly(t *testing.T) {
	m, mem := newTestModel(t, "abc", true)

	m.Update(tea.PasteMsg{Content: "xyz"})
	if !errors.Is(m.LastError(), errReadOnly) {
		t.Errorf("Expected read-only error, got %v", m.LastError())
	}
	if mem.Writes() != 0 {
		t.Errorf("writes = %d, want 0", mem.Writes())
	}
}

func TestUpdate_PasteWriteError(t *testing.T) {
	m, mem := newTestModel(t, "abc", false)
	mem.FailWrites(errors.New("disk full"))

	m.Update(tea.PasteMsg{Content: "xyz"})

	var ioErr *viewport.IOError
	if !errors.As(m.LastError(), &ioErr) || ioErr.Op != "write" {
		t.Fatalf("Expected write IOError, got %v", m.LastError())
	}
	if center(t, m) != 'a' {
		t.Error("grid changed after failed write")
	}
}

func TestUpdate_Recording(t *testing.T) {
	m, _ := newTestModel(t, "abc\ndef", false)
	rec := tape.NewRecorder()
	rec.Start()
	m.recorder = rec

	m.Update(key("l"))
	m.Update(key("l"))
	m.Update(key("j"))
	m.Update(key("r"))
	m.Update(tea.PasteMsg{Content: "xy"})
	m.Update(tea.PasteMsg{Content: "xy"})

	want := "Right 2\nDown\nReload\nSync \"xy\"\n"
	if got := rec.String(""); got != want {
		t.Errorf("recorded =\n%s\nwant\n%s", got, want)
	}
}

// =============================================================================
// Render Tests
// =============================================================================

func TestRenderSymbols(t *testing.T) {
	m, _ := newTestModel(t, "12\n34", false)

	got := RenderSymbols(m.Visible(), 1)
	want := "4 3 4\n2 1 2\n4 3 4"
	if got != want {
		t.Errorf("RenderSymbols =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderGrid_Dimensions(t *testing.T) {
	m, _ := newTestModel(t, "RGB\n.#.\nB~R", false)
	p, _ := theme.NewPalette(config.DefaultConfig().Palette)

	out := RenderGrid(m.Visible(), 1, p, RenderOptions{CellWidth: 4, MarkCenter: true})
	lines := strings.Split(ansi.Strip(out), "\n")

	// 3 cells of height 2, plus top and bottom border
	if len(lines) != 8 {
		t.Fatalf("Expected 8 lines, got %d:\n%s", len(lines), ansi.Strip(out))
	}
	for i, line := range lines {
		if w := ansi.StringWidth(line); w != 14 {
			t.Errorf("line %d width %d, want 14", i, w)
		}
	}
	if !strings.Contains(ansi.Strip(out), "◆") {
		t.Error("Expected center marker")
	}
}

func TestRenderGrid_ASCII(t *testing.T) {
	m, _ := newTestModel(t, "ab", false)

	out := ansi.Strip(RenderGrid(m.Visible(), 1, nil, RenderOptions{CellWidth: 2, ASCIIOnly: true, MarkCenter: true}))
	if strings.ContainsAny(out, "◆╭╮╰╯") {
		t.Errorf("Expected ASCII output, got:\n%s", out)
	}
	if !strings.Contains(out, "+") {
		t.Error("Expected ASCII center marker")
	}
}

func TestRenderGrid_UnmappedIsBlank(t *testing.T) {
	m, _ := newTestModel(t, "?", false)
	p, _ := theme.NewPalette(map[string]string{"R": "red"})

	out := RenderGrid(m.Visible(), 1, p, RenderOptions{CellWidth: 2})
	stripped := ansi.Strip(out)
	if strings.Contains(stripped, "?") {
		t.Error("Unmapped symbols must not be drawn")
	}
	if out != stripped && strings.Contains(out, "\x1b[4") {
		t.Error("Unmapped symbols must not get a background")
	}
}

func TestRenderGrid_WrongSize(t *testing.T) {
	if out := RenderGrid(viewport.Visible{{Symbol: 'a'}}, 1, nil, RenderOptions{}); out != "" {
		t.Errorf("Expected empty output, got %q", out)
	}
	if out := RenderSymbols(nil, 1); out != "" {
		t.Errorf("Expected empty output, got %q", out)
	}
}

func TestRender_StatusLine(t *testing.T) {
	m, _ := newTestModel(t, "abc\nde", true)
	m.Update(key("j"))

	status := ansi.Strip(m.Render())
	for _, want := range []string{"test", "row 2/2", "col 1/2", "read-only"} {
		if !strings.Contains(status, want) {
			t.Errorf("status missing %q:\n%s", want, status)
		}
	}
}
