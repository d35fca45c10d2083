package surface

import (
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-riskgraph/pkg/draw"
	"github.com/dd0wney/cluso-riskgraph/pkg/layout"
	"github.com/dd0wney/cluso-riskgraph/pkg/riskcolor"
)

type cell struct {
	r     rune
	color riskcolor.Color
	set   bool
}

// Terminal rasterizes frames onto a cols x rows rune grid. Canvas pixels
// are mapped onto cells proportionally, so a frame always fills the grid.
type Terminal struct {
	mu     sync.Mutex
	cols   int
	rows   int
	grid   [][]cell
	sx, sy float64
	open   bool
	view   string
	plain  []string
}

var _ draw.Surface = (*Terminal)(nil)

// NewTerminal returns a terminal surface of the given size in cells.
func NewTerminal(cols, rows int) *Terminal {
	t := &Terminal{}
	t.Resize(cols, rows)
	return t
}

// Resize changes the grid size for subsequent frames.
func (t *Terminal) Resize(cols, rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cols = max(cols, 1)
	t.rows = max(rows, 1)
}

// View returns the last flushed frame with ANSI styling.
func (t *Terminal) View() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view
}

// Lines returns the last flushed frame without styling.
func (t *Terminal) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.plain...)
}

func (t *Terminal) Clear(canvas layout.Canvas) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.grid = make([][]cell, t.rows)
	for y := range t.grid {
		t.grid[y] = make([]cell, t.cols)
	}
	t.sx = float64(t.cols) / math.Max(canvas.Width, 1)
	t.sy = float64(t.rows) / math.Max(canvas.Height, 1)
	t.open = true
	return nil
}

func (t *Terminal) Circle(c draw.Circle) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open {
		return ErrNoFrame
	}

	cx, cy := t.cellOf(c.Center)
	rx := int(math.Round(c.Radius * t.sx))
	ry := int(math.Round(c.Radius * t.sy))
	if rx == 0 || ry == 0 {
		t.put(cx, cy, '●', c.Fill)
		return nil
	}
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			nx, ny := float64(dx)/float64(rx), float64(dy)/float64(ry)
			if nx*nx+ny*ny <= 1 {
				t.put(cx+dx, cy+dy, '█', c.Fill)
			}
		}
	}
	return nil
}

func (t *Terminal) Line(l draw.Line) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open {
		return ErrNoFrame
	}

	x0, y0 := t.cellOf(l.P1)
	x1, y1 := t.cellOf(l.P2)
	r := lineRune(x1-x0, y1-y0)
	steps := max(abs(x1-x0), abs(y1-y0))
	for i := 0; i <= steps; i++ {
		f := 0.0
		if steps > 0 {
			f = float64(i) / float64(steps)
		}
		x := x0 + int(math.Round(f*float64(x1-x0)))
		y := y0 + int(math.Round(f*float64(y1-y0)))
		t.putIfEmpty(x, y, r, l.Color)
	}
	return nil
}

func (t *Terminal) Arrow(a draw.Arrow) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open {
		return ErrNoFrame
	}

	// The tip touches the node rim, which the node fill covers at this
	// resolution; draw the head at its base instead.
	base := layout.Point{X: a.Tip.X - a.Direction.X*a.Length, Y: a.Tip.Y - a.Direction.Y*a.Length}
	x, y := t.cellOf(base)
	t.put(x, y, arrowRune(a.Direction), a.Color)
	return nil
}

func (t *Terminal) Text(tx draw.Text) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open {
		return ErrNoFrame
	}

	x, y := t.cellOf(tx.Position)
	runes := []rune(tx.Content)
	if tx.Align == draw.AlignCenter {
		x -= len(runes) / 2
	}
	for i, r := range runes {
		t.put(x+i, y, r, tx.Color)
	}
	return nil
}

func (t *Terminal) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open {
		return ErrNoFrame
	}

	var view strings.Builder
	plain := make([]string, 0, t.rows)
	for y, row := range t.grid {
		if y > 0 {
			view.WriteByte('\n')
		}
		var line strings.Builder
		runStart := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && sameStyle(row[x], row[runStart]) {
				continue
			}
			view.WriteString(renderRun(row[runStart:x]))
			runStart = x
		}
		for _, c := range row {
			line.WriteRune(runeOf(c))
		}
		plain = append(plain, line.String())
	}
	t.view = view.String()
	t.plain = plain
	t.open = false
	return nil
}

func (t *Terminal) cellOf(p layout.Point) (int, int) {
	return int(math.Floor(p.X * t.sx)), int(math.Floor(p.Y * t.sy))
}

func (t *Terminal) put(x, y int, r rune, c riskcolor.Color) {
	if y < 0 || y >= len(t.grid) || x < 0 || x >= len(t.grid[y]) {
		return
	}
	t.grid[y][x] = cell{r: r, color: c, set: true}
}

func (t *Terminal) putIfEmpty(x, y int, r rune, c riskcolor.Color) {
	if y < 0 || y >= len(t.grid) || x < 0 || x >= len(t.grid[y]) {
		return
	}
	if t.grid[y][x].set {
		return
	}
	t.put(x, y, r, c)
}

func sameStyle(a, b cell) bool {
	return a.set == b.set && (!a.set || a.color == b.color)
}

func renderRun(cells []cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteRune(runeOf(c))
	}
	if len(cells) == 0 || !cells[0].set {
		return b.String()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(cells[0].color.Hex())).Render(b.String())
}

func runeOf(c cell) rune {
	if !c.set {
		return ' '
	}
	return c.r
}

func lineRune(dx, dy int) rune {
	switch {
	case dy == 0:
		return '─'
	case dx == 0:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func arrowRune(d layout.Point) rune {
	if math.Abs(d.X) >= math.Abs(d.Y) {
		if d.X >= 0 {
			return '▶'
		}
		return '◀'
	}
	if d.Y >= 0 {
		return '▼'
	}
	return '▲'
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
