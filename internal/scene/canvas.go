package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	// Each terminal cell covers CellWidth×CellHeight surface pixels.
	CellWidth  = 8.0
	CellHeight = 16.0

	// Smallest terminal area worth drawing a sky into.
	MinCols = 20
	MinRows = 8

	// Weight of glyphs that always win over stars and lines.
	overlayWeight = 10.0
)

var black = colorful.Color{}

type cell struct {
	glyph  rune
	fg     colorful.Color
	bg     colorful.Color
	weight float64
}

// Canvas is a terminal cell grid implementing Surface. Surface pixels are
// folded into cells: light accumulates in cell backgrounds, points and lines
// become glyphs.
type Canvas struct {
	cols, rows int
	cells      []cell
	colors     map[string]colorful.Color
}

// NewCanvas creates a canvas of cols×rows terminal cells.
func NewCanvas(cols, rows int) (*Canvas, error) {
	if cols < MinCols || rows < MinRows {
		return nil, fmt.Errorf("%dx%d cells, need at least %dx%d: %w",
			cols, rows, MinCols, MinRows, ErrSurfaceUnavailable)
	}
	c := &Canvas{
		cols:   cols,
		rows:   rows,
		cells:  make([]cell, cols*rows),
		colors: make(map[string]colorful.Color),
	}
	for i := range c.cells {
		c.cells[i] = cell{glyph: ' '}
	}
	return c, nil
}

// NewCanvasSurface is a SurfaceFactory backed by NewCanvas.
func NewCanvasSurface(cols, rows int) (Surface, error) {
	c, err := NewCanvas(cols, rows)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Cells returns the canvas dimensions in terminal cells.
func (c *Canvas) Cells() (cols, rows int) {
	return c.cols, c.rows
}

// Size implements Surface.
func (c *Canvas) Size() (width, height float64) {
	return float64(c.cols) * CellWidth, float64(c.rows) * CellHeight
}

// Background implements Surface.
func (c *Canvas) Background(stops []Stop) {
	w, h := c.Size()
	cx, cy := w/2, h/2
	span := math.Max(w, h)

	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			px, py := cellCenter(col, row)
			t := math.Hypot(px-cx, py-cy) / span
			color, alpha := c.gradientAt(stops, t)
			bg := black.BlendRgb(color, alpha)
			c.cells[row*c.cols+col] = cell{glyph: ' ', fg: bg, bg: bg}
		}
	}
}

// RadialGlow implements Surface.
func (c *Canvas) RadialGlow(x, y, radius float64, stops []Stop) {
	if radius <= 0 {
		return
	}
	// Glows smaller than a cell only tint it partially.
	coverage := math.Min(1, math.Pi*radius*radius/(CellWidth*CellHeight))

	minCol, minRow := c.cellOf(x-radius, y-radius)
	maxCol, maxRow := c.cellOf(x+radius, y+radius)
	for row := max(minRow, 0); row <= min(maxRow, c.rows-1); row++ {
		for col := max(minCol, 0); col <= min(maxCol, c.cols-1); col++ {
			d := distToCell(x, y, col, row)
			if d > radius {
				continue
			}
			color, alpha := c.gradientAt(stops, d/radius)
			alpha *= coverage
			if alpha <= 0 {
				continue
			}
			cl := &c.cells[row*c.cols+col]
			cl.bg = cl.bg.BlendRgb(color, alpha).Clamped()
			if cl.glyph == ' ' {
				cl.fg = cl.bg
			}
		}
	}
}

// Line implements Surface.
func (c *Canvas) Line(x1, y1, x2, y2 float64, p Paint, dashed bool) {
	glyph := slopeGlyph(x2-x1, y2-y1)
	if dashed {
		glyph = '·'
	}
	color := c.parse(p.Color)
	c.walk(x1, y1, x2, y2, func(i int, t float64, col, row int) {
		if dashed && i%2 == 1 {
			return
		}
		c.set(col, row, glyph, color, p.Alpha, p.Alpha)
	})
}

// GradientLine implements Surface.
func (c *Canvas) GradientLine(x1, y1, x2, y2 float64, stops []Stop) {
	body := slopeGlyph(x2-x1, y2-y1)
	c.walk(x1, y1, x2, y2, func(i int, t float64, col, row int) {
		color, alpha := c.gradientAt(stops, t)
		if alpha < 0.02 {
			return
		}
		glyph := body
		if i == 0 {
			glyph = '✧'
		}
		c.set(col, row, glyph, color, alpha, overlayWeight+alpha)
	})
}

// Disc implements Surface.
func (c *Canvas) Disc(x, y, radius float64, p Paint) {
	col, row := c.cellOf(x, y)
	c.set(col, row, discGlyph(radius), c.parse(p.Color), p.Alpha, p.Alpha+radius)
}

// Text implements Surface.
func (c *Canvas) Text(x, y float64, s string, p Paint) {
	runes := []rune(s)
	row := int(math.Floor(y / CellHeight))
	start := int(math.Round(x/CellWidth - float64(len(runes))/2))
	color := c.parse(p.Color)
	for i, r := range runes {
		c.set(start+i, row, r, color, p.Alpha, overlayWeight)
	}
}

// Render returns the canvas as styled terminal lines. Adjacent cells with the
// same colours share one style to keep the escape-sequence count down.
func (c *Canvas) Render() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		var run []rune
		var runFg, runBg string
		flush := func() {
			if len(run) == 0 {
				return
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(runFg)).
				Background(lipgloss.Color(runBg))
			b.WriteString(style.Render(string(run)))
			run = run[:0]
		}
		for col := 0; col < c.cols; col++ {
			cl := c.cells[row*c.cols+col]
			fg, bg := cl.fg.Hex(), cl.bg.Hex()
			if fg != runFg || bg != runBg {
				flush()
				runFg, runBg = fg, bg
			}
			run = append(run, cl.glyph)
		}
		flush()
		if row < c.rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Plain returns the canvas glyphs without styling.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			b.WriteRune(c.cells[row*c.cols+col].glyph)
		}
		if row < c.rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (c *Canvas) glyphAt(col, row int) rune {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return 0
	}
	return c.cells[row*c.cols+col].glyph
}

// set writes a glyph if it outweighs what the cell already shows.
func (c *Canvas) set(col, row int, glyph rune, color colorful.Color, alpha, weight float64) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	cl := &c.cells[row*c.cols+col]
	if weight < cl.weight {
		return
	}
	cl.glyph = glyph
	cl.fg = cl.bg.BlendRgb(color, inkAlpha(alpha)).Clamped()
	cl.weight = weight
}

// walk visits each cell along a pixel-space segment, with t running 0..1.
func (c *Canvas) walk(x1, y1, x2, y2 float64, visit func(i int, t float64, col, row int)) {
	dc := math.Abs(x2-x1) / CellWidth
	dr := math.Abs(y2-y1) / CellHeight
	steps := int(math.Ceil(math.Max(dc, dr)))
	if steps == 0 {
		col, row := c.cellOf(x1, y1)
		visit(0, 0, col, row)
		return
	}
	lastCol, lastRow := math.MinInt, math.MinInt
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		col, row := c.cellOf(x1+(x2-x1)*t, y1+(y2-y1)*t)
		if col == lastCol && row == lastRow {
			continue
		}
		lastCol, lastRow = col, row
		visit(i, t, col, row)
	}
}

func (c *Canvas) cellOf(x, y float64) (col, row int) {
	return int(math.Floor(x / CellWidth)), int(math.Floor(y / CellHeight))
}

// gradientAt interpolates colour and alpha along stops at t.
func (c *Canvas) gradientAt(stops []Stop, t float64) (colorful.Color, float64) {
	if len(stops) == 0 {
		return black, 0
	}
	if t <= stops[0].Offset {
		return c.parse(stops[0].Color), stops[0].Alpha
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t > b.Offset {
			continue
		}
		span := b.Offset - a.Offset
		if span <= 0 {
			return c.parse(b.Color), b.Alpha
		}
		u := (t - a.Offset) / span
		ca, cb := c.parse(a.Color), c.parse(b.Color)
		// Fading to transparent keeps the hue of the opaque side.
		if b.Alpha == 0 {
			cb = ca
		}
		return ca.BlendRgb(cb, u), a.Alpha + (b.Alpha-a.Alpha)*u
	}
	last := stops[len(stops)-1]
	return c.parse(last.Color), last.Alpha
}

func (c *Canvas) parse(hex string) colorful.Color {
	if col, ok := c.colors[hex]; ok {
		return col
	}
	col, err := colorful.Hex(hex)
	if err != nil {
		col = colorful.Color{R: 1, G: 1, B: 1}
	}
	c.colors[hex] = col
	return col
}

func cellCenter(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * CellWidth, (float64(row) + 0.5) * CellHeight
}

// distToCell is the distance from (x,y) to the nearest point of a cell.
func distToCell(x, y float64, col, row int) float64 {
	left, top := float64(col)*CellWidth, float64(row)*CellHeight
	dx := math.Max(0, math.Max(left-x, x-(left+CellWidth)))
	dy := math.Max(0, math.Max(top-y, y-(top+CellHeight)))
	return math.Hypot(dx, dy)
}

// inkAlpha keeps faint glyphs legible against a black sky.
func inkAlpha(a float64) float64 {
	return math.Min(1, 0.15+a)
}

func discGlyph(radius float64) rune {
	switch {
	case radius >= 3:
		return '✶'
	case radius >= 2:
		return '✸'
	case radius >= 1.2:
		return '•'
	case radius >= 0.8:
		return '∙'
	default:
		return '·'
	}
}

func slopeGlyph(dx, dy float64) rune {
	// Compare in cell units so the glyph matches what the terminal shows.
	cx, cy := dx/CellWidth, dy/CellHeight
	switch {
	case math.Abs(cy) < 0.4*math.Abs(cx):
		return '─'
	case math.Abs(cx) < 0.4*math.Abs(cy):
		return '│'
	case (cx > 0) == (cy > 0):
		return '╲'
	default:
		return '╱'
	}
}
