package scene

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCanvas_TooSmall(t *testing.T) {
	tests := []struct {
		cols, rows int
	}{
		{0, 0},
		{MinCols - 1, 24},
		{80, MinRows - 1},
	}
	for _, tt := range tests {
		_, err := NewCanvas(tt.cols, tt.rows)
		assert.ErrorIs(t, err, ErrSurfaceUnavailable, "%dx%d", tt.cols, tt.rows)

		s, err := NewCanvasSurface(tt.cols, tt.rows)
		assert.Error(t, err)
		assert.Nil(t, s)
	}
}

func TestCanvas_Size(t *testing.T) {
	c, err := NewCanvas(80, 24)
	require.NoError(t, err)

	w, h := c.Size()
	assert.Equal(t, 640.0, w)
	assert.Equal(t, 384.0, h)
	cols, rows := c.Cells()
	assert.Equal(t, 80, cols)
	assert.Equal(t, 24, rows)
}

func TestCanvas_DiscGlyphs(t *testing.T) {
	tests := []struct {
		radius float64
		want   rune
	}{
		{4, '✶'},
		{2.5, '✸'},
		{1.5, '•'},
		{1, '∙'},
		{0.5, '·'},
	}
	for _, tt := range tests {
		c, err := NewCanvas(20, 8)
		require.NoError(t, err)
		c.Disc(44, 40, tt.radius, Paint{Color: "#ffffff", Alpha: 1})
		assert.Equal(t, tt.want, c.glyphAt(5, 2), "radius %v", tt.radius)
	}
}

func TestCanvas_HeavierGlyphWins(t *testing.T) {
	c, err := NewCanvas(20, 8)
	require.NoError(t, err)

	c.Disc(44, 40, 3, Paint{Color: "#ffffff", Alpha: 1})
	c.Disc(44, 40, 0.5, Paint{Color: "#ffffff", Alpha: 0.2})
	assert.Equal(t, '✶', c.glyphAt(5, 2))

	c.Text(44, 40, "X", Paint{Color: "#ffffff", Alpha: 0.1})
	assert.Equal(t, 'X', c.glyphAt(5, 2), "text overlays stars")
}

func TestCanvas_BackgroundClears(t *testing.T) {
	c, err := NewCanvas(20, 8)
	require.NoError(t, err)
	c.Disc(44, 40, 3, Paint{Color: "#ffffff", Alpha: 1})

	c.Background([]Stop{{Offset: 0, Paint: Paint{Color: "#0a0a0a", Alpha: 1}}})
	assert.Equal(t, strings.Repeat(strings.Repeat(" ", 20)+"\n", 7)+strings.Repeat(" ", 20), c.Plain())

	// Cleared cells accept faint glyphs again.
	c.Disc(44, 40, 0.5, Paint{Color: "#ffffff", Alpha: 0.1})
	assert.Equal(t, '·', c.glyphAt(5, 2))
}

func TestCanvas_TextCentred(t *testing.T) {
	c, err := NewCanvas(20, 8)
	require.NoError(t, err)

	c.Text(80, 20, "Lyra", Paint{Color: "#fafafa", Alpha: 1})
	row := strings.Split(c.Plain(), "\n")[1]
	assert.Equal(t, "        Lyra        ", row)
}

func TestCanvas_Lines(t *testing.T) {
	c, err := NewCanvas(20, 8)
	require.NoError(t, err)

	c.Line(4, 8, 156, 8, Paint{Color: "#ffffff", Alpha: 1}, false)
	assert.Equal(t, strings.Repeat("─", 20), strings.Split(c.Plain(), "\n")[0])

	c.Line(4, 40, 156, 40, Paint{Color: "#ffffff", Alpha: 1}, true)
	assert.Equal(t, strings.Repeat("· ", 10), strings.Split(c.Plain(), "\n")[2])

	c.Line(4, 56, 4, 120, Paint{Color: "#ffffff", Alpha: 1}, false)
	assert.Equal(t, '│', c.glyphAt(0, 5))
}

func TestCanvas_GradientLineFades(t *testing.T) {
	c, err := NewCanvas(20, 8)
	require.NoError(t, err)

	stops := []Stop{
		{Offset: 0, Paint: Paint{Color: "#ffffff", Alpha: 1}},
		{Offset: 1, Paint: Transparent},
	}
	c.GradientLine(156, 8, 4, 8, stops)

	assert.Equal(t, '✧', c.glyphAt(19, 0), "head")
	assert.Equal(t, '─', c.glyphAt(10, 0))
	assert.Equal(t, ' ', c.glyphAt(0, 0), "fully faded tail is not drawn")
}

func TestCanvas_GlowTintsBackground(t *testing.T) {
	c, err := NewCanvas(20, 8)
	require.NoError(t, err)
	c.Background([]Stop{{Offset: 0, Paint: Paint{Color: "#000000", Alpha: 1}}})

	c.RadialGlow(80, 64, 40, []Stop{
		{Offset: 0, Paint: Paint{Color: "#ff0000", Alpha: 1}},
		{Offset: 1, Paint: Transparent},
	})
	centre := c.cells[4*20+10]
	corner := c.cells[0]
	assert.Greater(t, centre.bg.R, 0.5)
	assert.Equal(t, 0.0, corner.bg.R)
	assert.Equal(t, ' ', centre.glyph)
}

func TestCanvas_Render(t *testing.T) {
	c, err := NewCanvas(20, 8)
	require.NoError(t, err)
	c.Background([]Stop{{Offset: 0, Paint: Paint{Color: "#000000", Alpha: 1}}})
	c.Text(80, 20, "Vega", Paint{Color: "#ffffff", Alpha: 1})

	out := c.Render()
	assert.Contains(t, out, "Vega")
	assert.Len(t, strings.Split(out, "\n"), 8)
}

func TestCanvas_UnparseableColourFallsBackToWhite(t *testing.T) {
	c, err := NewCanvas(20, 8)
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.parse("not-a-colour").R)
}

func TestSlopeGlyph(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   rune
	}{
		{10, 0, '─'},
		{0, 10, '│'},
		{8, 16, '╲'},
		{-8, -16, '╲'},
		{-8, 16, '╱'},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slopeGlyph(tt.dx, tt.dy), "%v,%v", tt.dx, tt.dy)
	}
}
