package app

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/toroid/internal/pool"
	"github.com/Gaurav-Gosain/toroid/internal/theme"
	"github.com/Gaurav-Gosain/toroid/internal/viewport"
	"github.com/charmbracelet/x/ansi"
)

// RenderOptions controls how swatches are drawn.
type RenderOptions struct {
	CellWidth  int
	ASCIIOnly  bool
	MarkCenter bool
}

var asciiBorder = lipgloss.Border{
	Top:         "-",
	Bottom:      "-",
	Left:        "|",
	Right:       "|",
	TopLeft:     "+",
	TopRight:    "+",
	BottomLeft:  "+",
	BottomRight: "+",
}

// RenderGrid draws the visible cells as colored swatches inside a frame.
// Symbols without a palette entry are left blank. It returns "" when
// visible does not hold exactly (2*radius+1)^2 cells.
func RenderGrid(visible viewport.Visible, radius int, palette *theme.Palette, opts RenderOptions) string {
	side := 2*radius + 1
	if radius < 0 || len(visible) != side*side {
		return ""
	}

	cw := max(opts.CellWidth, 1)
	ch := max(cw/2, 1)

	rows := make([]string, 0, side)
	for r := 0; r < side; r++ {
		blocks := make([]string, 0, side)
		for c := 0; c < side; c++ {
			blocks = append(blocks, renderCell(visible[r*side+c], palette, cw, ch, opts))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, blocks...))
	}

	border := lipgloss.RoundedBorder()
	if opts.ASCIIOnly {
		border = asciiBorder
	}
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(theme.Accent()).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderCell(cell viewport.Cell, palette *theme.Palette, width, height int, opts RenderOptions) string {
	style := lipgloss.NewStyle()
	if c, ok := palette.Swatch(cell.Symbol); ok {
		style = style.Background(c)
	}

	blank := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = blank
	}

	if opts.MarkCenter && cell.DX == 0 && cell.DY == 0 {
		marker := "◆"
		if opts.ASCIIOnly {
			marker = "+"
		}
		left := (width - 1) / 2
		lines[height/2] = strings.Repeat(" ", left) + marker + strings.Repeat(" ", width-1-left)
		style = style.Foreground(theme.Accent()).Bold(true)
	}

	for i := range lines {
		lines[i] = style.Render(lines[i])
	}
	return strings.Join(lines, "\n")
}

// RenderSymbols writes the visible cells as plain text, one grid row per
// line with symbols separated by spaces.
func RenderSymbols(visible viewport.Visible, radius int) string {
	side := 2*radius + 1
	if radius < 0 || len(visible) != side*side {
		return ""
	}

	sb := pool.GetStringBuilder()
	defer pool.PutStringBuilder(sb)

	for i, cell := range visible {
		switch {
		case i == 0:
		case i%side == 0:
			sb.WriteByte('\n')
		default:
			sb.WriteByte(' ')
		}
		sb.WriteRune(cell.Symbol)
	}
	return sb.String()
}

// Render returns the full screen contents.
func (m *Model) Render() string {
	if m.quitting {
		return ""
	}

	var body string
	if m.showHelp {
		body = m.renderHelp()
	} else {
		body = RenderGrid(m.visible, m.ctrl.Radius(), m.palette, RenderOptions{
			CellWidth:  m.cellWidth,
			ASCIIOnly:  m.asciiOnly,
			MarkCenter: true,
		})
	}

	content := lipgloss.JoinVertical(lipgloss.Center, body, "", m.statusLine())
	if m.width > 0 && m.height > 0 {
		content = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

// View returns the rendered view.
func (m *Model) View() tea.View {
	var view tea.View
	view.SetContent(m.Render())
	view.AltScreen = true
	return view
}

func (m *Model) statusLine() string {
	sep := "  ·  "
	if m.asciiOnly {
		sep = "  |  "
	}

	var parts []string
	if m.name != "" {
		parts = append(parts, m.name)
	}
	if g := m.ctrl.Grid(); g != nil && m.showCoords {
		row, col := m.ctrl.Center()
		parts = append(parts, fmt.Sprintf("row %d/%d  col %d/%d",
			row+1, g.RowCount(), col+1, g.RowLength(row)))
	}
	if m.readOnly {
		parts = append(parts, "read-only")
	}
	if m.pendingReload {
		parts = append(parts, "reload pending")
	} else if m.notice != "" {
		parts = append(parts, m.notice)
	}

	status := lipgloss.NewStyle().Foreground(theme.Muted()).Render(strings.Join(parts, sep))
	if m.lastErr != nil {
		status += sep + lipgloss.NewStyle().Foreground(theme.ErrorColor()).Render(m.lastErr.Error())
	}
	if m.width > 0 {
		status = ansi.Truncate(status, m.width, "…")
	}
	return status
}
