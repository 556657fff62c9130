// Package viewport owns the movable window into a toroidal grid and the
// protocol that keeps the grid in step with its external text source.
package viewport

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/toroid/internal/grid"
)

// Package-level logger
var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "viewport",
	})
}

// SetLogLevel sets the logging level for the viewport package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// SetOutput redirects the package logger, e.g. to a file while a TUI owns the screen.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// DefaultRadius gives the classic 3x3 viewport.
const DefaultRadius = 1

// Source is the text medium the grid is loaded from and saved to.
type Source interface {
	ReadAllText() (string, error)
	WriteAllText(text string) error
}

// Cell is one visible position relative to the viewport center.
type Cell struct {
	DX, DY int
	Symbol rune
}

// Visible is the viewport contents in row-major order (DY outer, DX inner).
type Visible []Cell

// At returns the cell at the relative offset, if present.
func (v Visible) At(dx, dy int) (Cell, bool) {
	for _, c := range v {
		if c.DX == dx && c.DY == dy {
			return c, true
		}
	}
	return Cell{}, false
}

// StartRowPolicy chooses the center row on Initialize.
type StartRowPolicy int

const (
	// StartRandom picks uniformly over all rows.
	StartRandom StartRowPolicy = iota
	StartFirst
	StartMiddle
)

// ParseStartRow maps "random", "first" or "middle" to a policy.
func ParseStartRow(s string) (StartRowPolicy, error) {
	switch strings.ToLower(s) {
	case "", "random":
		return StartRandom, nil
	case "first":
		return StartFirst, nil
	case "middle":
		return StartMiddle, nil
	}
	return StartRandom, fmt.Errorf("unknown start row policy %q", s)
}

// Option configures a Controller.
type Option func(*Controller)

// WithRadius sets the default radius used by ComputeVisible and Move.
func WithRadius(r int) Option {
	return func(c *Controller) {
		if r >= 0 {
			c.radius = r
		}
	}
}

// WithStartRow sets the start row policy.
func WithStartRow(p StartRowPolicy) Option {
	return func(c *Controller) {
		c.startRow = p
	}
}

// WithRand injects the random source used by StartRandom.
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) {
		c.rng = r
	}
}

// WithLogger replaces the package logger for this controller.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// Controller holds the grid, the viewport center and the last text known to
// match the source. It is not safe for concurrent use: a single owner must
// serialize Move, Reload and SyncOut.
type Controller struct {
	src      Source
	radius   int
	startRow StartRowPolicy
	rng      *rand.Rand
	logger   *log.Logger

	grid       *grid.Grid
	centerRow  int
	centerCol  int
	lastSynced string
}

// New creates a controller bound to src. It is unusable until Initialize or
// Load succeeds.
func New(src Source, opts ...Option) *Controller {
	c := &Controller{
		src:    src,
		radius: DefaultRadius,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ready reports whether a grid has been loaded.
func (c *Controller) Ready() bool {
	return c.grid != nil
}

// Grid returns the current grid, or nil before initialization.
func (c *Controller) Grid() *grid.Grid {
	return c.grid
}

// Center returns the current center coordinate.
func (c *Controller) Center() (row, col int) {
	return c.centerRow, c.centerCol
}

// Radius returns the default viewport radius.
func (c *Controller) Radius() int {
	return c.radius
}

// LastSynced returns the last text known to match the source.
func (c *Controller) LastSynced() string {
	return c.lastSynced
}

// Load reads the source and initializes from it.
func (c *Controller) Load() error {
	text, err := c.src.ReadAllText()
	if err != nil {
		c.logger.Error("initial read failed", "err", err)
		return &IOError{Op: "read", Err: err}
	}
	return c.Initialize(text)
}

// Initialize replaces all state with a grid built from raw. On failure any
// previous state is kept.
func (c *Controller) Initialize(raw string) error {
	g, err := grid.Parse(raw)
	if err != nil {
		c.logger.Warn("initialize rejected", "err", err)
		return err
	}

	c.grid = g
	c.centerRow = c.pickStartRow(g.RowCount())
	c.centerCol = 0
	c.lastSynced = raw

	c.logger.Info("initialized",
		"rows", g.RowCount(),
		"center_row", c.centerRow,
	)
	return nil
}

func (c *Controller) pickStartRow(rows int) int {
	switch c.startRow {
	case StartFirst:
		return 0
	case StartMiddle:
		return rows / 2
	}
	if c.rng != nil {
		return c.rng.IntN(rows)
	}
	return rand.IntN(rows)
}

// Move steps the center one cell and returns the new visible set.
func (c *Controller) Move(d Direction) (Visible, error) {
	if c.grid == nil {
		return nil, ErrNotInitialized
	}

	dRow, dCol := d.delta()
	if dRow != 0 {
		c.setRow(c.centerRow + dRow)
	}
	if dCol != 0 {
		c.centerCol = WrapIndex(c.centerCol+dCol, c.grid.RowLength(c.centerRow))
	}

	c.logger.Debug("move", "dir", d, "row", c.centerRow, "col", c.centerCol)
	return c.ComputeVisible(), nil
}

// MoveTo places the center at (row, col), wrapping both coordinates.
func (c *Controller) MoveTo(row, col int) (Visible, error) {
	if c.grid == nil {
		return nil, ErrNotInitialized
	}
	c.centerCol = col
	c.setRow(row)
	return c.ComputeVisible(), nil
}

// setRow wraps row into range and re-wraps the column against the new row,
// since rows may have different lengths.
func (c *Controller) setRow(row int) {
	c.centerRow = WrapIndex(row, c.grid.RowCount())
	c.centerCol = WrapIndex(c.centerCol, c.grid.RowLength(c.centerRow))
}

// ComputeVisible returns the cells within the default radius.
func (c *Controller) ComputeVisible() Visible {
	return c.ComputeVisibleRadius(c.radius)
}

// ComputeVisibleRadius returns the (2r+1)x(2r+1) cells around the center.
// Each row offset is wrapped first and its column is then wrapped against
// that row's own length.
func (c *Controller) ComputeVisibleRadius(radius int) Visible {
	if c.grid == nil {
		return nil
	}
	if radius < 0 {
		radius = 0
	}

	side := 2*radius + 1
	cells := make(Visible, 0, side*side)
	for dy := -radius; dy <= radius; dy++ {
		row := WrapIndex(c.centerRow+dy, c.grid.RowCount())
		for dx := -radius; dx <= radius; dx++ {
			col := WrapIndex(c.centerCol+dx, c.grid.RowLength(row))
			cells = append(cells, Cell{DX: dx, DY: dy, Symbol: c.grid.CellAt(row, col)})
		}
	}
	return cells
}

// Reload rebuilds the grid from raw, keeping the center re-wrapped into the
// new dimensions. Reload is all-or-nothing.
func (c *Controller) Reload(raw string) error {
	if c.grid == nil {
		return ErrNotInitialized
	}

	g, err := grid.Parse(raw)
	if err != nil {
		c.logger.Warn("reload rejected, keeping previous grid", "err", err)
		return err
	}

	c.install(g, raw)
	c.logger.Info("reloaded",
		"rows", g.RowCount(),
		"row", c.centerRow,
		"col", c.centerCol,
	)
	return nil
}

func (c *Controller) install(g *grid.Grid, raw string) {
	c.grid = g
	c.setRow(c.centerRow)
	c.lastSynced = raw
}

// ReloadFromSource re-reads the source after a change notification. It
// returns false without touching the grid when the contents equal the last
// synced text, which is what breaks write-notify-reload cycles.
func (c *Controller) ReloadFromSource() (bool, error) {
	if c.grid == nil {
		return false, ErrNotInitialized
	}

	text, err := c.src.ReadAllText()
	if err != nil {
		c.logger.Error("reload read failed", "err", err)
		return false, &IOError{Op: "read", Err: err}
	}
	if text == c.lastSynced {
		c.logger.Debug("source unchanged, skipping reload")
		return false, nil
	}
	if err := c.Reload(text); err != nil {
		return false, err
	}
	return true, nil
}

// SyncOut pushes an in-memory edit to the source. Text equal to the last
// synced text is not written. Text that would not parse is rejected before
// any write so the source never receives a buffer the grid cannot load.
func (c *Controller) SyncOut(newText string) (bool, error) {
	if c.grid == nil {
		return false, ErrNotInitialized
	}
	if newText == c.lastSynced {
		return false, nil
	}

	g, err := grid.Parse(newText)
	if err != nil {
		c.logger.Warn("sync rejected", "err", err)
		return false, err
	}

	if err := c.src.WriteAllText(newText); err != nil {
		c.logger.Error("sync write failed", "err", err)
		return false, &IOError{Op: "write", Err: err}
	}

	c.install(g, newText)
	c.logger.Info("synced out",
		"rows", g.RowCount(),
		"row", c.centerRow,
		"col", c.centerCol,
	)
	return true, nil
}
