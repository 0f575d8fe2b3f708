// pkg/render/terminal.go
package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-physics2d/pkg/physics"
)

var terminalGlyphs = [styleCount]rune{
	StyleBody:     '#',
	StyleStatic:   '=',
	StyleSelected: '@',
	StyleSoft:     '+',
	StyleContact:  'x',
	StyleIndex:    '.',
	StyleWall:     '%',
}

var terminalStyles = [styleCount]tcell.Style{
	StyleBody:     tcell.StyleDefault.Foreground(tcell.ColorWhite),
	StyleStatic:   tcell.StyleDefault.Foreground(tcell.ColorGray),
	StyleSelected: tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
	StyleSoft:     tcell.StyleDefault.Foreground(tcell.ColorGreen),
	StyleContact:  tcell.StyleDefault.Foreground(tcell.ColorRed),
	StyleIndex:    tcell.StyleDefault.Foreground(tcell.ColorNavy),
	StyleWall:     tcell.StyleDefault.Foreground(tcell.ColorSilver),
}

// TerminalRenderer draws onto a tcell screen. The view rectangle is
// stretched over every row but the last, which holds the status line.
type TerminalRenderer struct {
	screen tcell.Screen
	view   physics.Rect
	status string

	width  int
	height int
}

// NewTerminalRenderer creates a renderer showing view on screen
func NewTerminalRenderer(screen tcell.Screen, view physics.Rect) *TerminalRenderer {
	r := &TerminalRenderer{screen: screen, view: view}
	r.resize()
	return r
}

// SetView changes the visible world rectangle
func (r *TerminalRenderer) SetView(view physics.Rect) {
	r.view = view
}

// View returns the visible world rectangle
func (r *TerminalRenderer) View() physics.Rect {
	return r.view
}

// SetStatus sets the text shown on the bottom row
func (r *TerminalRenderer) SetStatus(status string) {
	r.status = status
}

func (r *TerminalRenderer) resize() {
	w, h := r.screen.Size()
	r.width = w
	r.height = h - 1
	if r.height < 0 {
		r.height = 0
	}
}

// cellScale returns cells per world unit on each axis. The view's edges
// land on the first and last drawable cells.
func (r *TerminalRenderer) cellScale() (float64, float64) {
	if r.view.Size.X <= 0 || r.view.Size.Y <= 0 || r.width < 2 || r.height < 2 {
		return 0, 0
	}
	return float64(r.width-1) / r.view.Size.X, float64(r.height-1) / r.view.Size.Y
}

// WorldToScreen maps a world position to a cell
func (r *TerminalRenderer) WorldToScreen(p physics.Vector2D) (int, int) {
	kx, ky := r.cellScale()
	x := (p.X - r.view.Pos.X) * kx
	y := (p.Y - r.view.Pos.Y) * ky
	return int(math.Round(x)), int(math.Round(y))
}

func (r *TerminalRenderer) plotter(style Style) func(x, y int) {
	glyph, st := terminalGlyphs[style], terminalStyles[style]
	return func(x, y int) {
		if x < 0 || y < 0 || x >= r.width || y >= r.height {
			return
		}
		r.screen.SetContent(x, y, glyph, nil, st)
	}
}

// Clear implements Renderer.
func (r *TerminalRenderer) Clear() {
	r.resize()
	r.screen.Clear()
}

// DrawCircle implements Renderer.
func (r *TerminalRenderer) DrawCircle(center physics.Vector2D, radius float64, style Style) {
	cx, cy := r.WorldToScreen(center)
	kx, ky := r.cellScale()
	Ellipse(cx, cy, radius*kx, radius*ky, r.plotter(style))
}

// DrawPolygon implements Renderer.
func (r *TerminalRenderer) DrawPolygon(vertices []physics.Vector2D, style Style) {
	if len(vertices) == 0 {
		return
	}
	plot := r.plotter(style)
	px, py := r.WorldToScreen(vertices[len(vertices)-1])
	for _, v := range vertices {
		x, y := r.WorldToScreen(v)
		Line(px, py, x, y, plot)
		px, py = x, y
	}
}

// DrawSegment implements Renderer.
func (r *TerminalRenderer) DrawSegment(a, b physics.Vector2D, style Style) {
	x0, y0 := r.WorldToScreen(a)
	x1, y1 := r.WorldToScreen(b)
	Line(x0, y0, x1, y1, r.plotter(style))
}

// DrawRect implements Renderer.
func (r *TerminalRenderer) DrawRect(rect physics.Rect, style Style) {
	lo, hi := rect.Pos, rect.Max()
	r.DrawPolygon([]physics.Vector2D{
		lo, {X: hi.X, Y: lo.Y}, hi, {X: lo.X, Y: hi.Y},
	}, style)
}

// Present implements Renderer.
func (r *TerminalRenderer) Present() {
	x := 0
	for _, ch := range r.status {
		if x >= r.width {
			break
		}
		r.screen.SetContent(x, r.height, ch, nil, tcell.StyleDefault.Reverse(true))
		x++
	}
	r.screen.Show()
}

var _ Renderer = (*TerminalRenderer)(nil)
