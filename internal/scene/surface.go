package scene

import "errors"

// ErrSurfaceUnavailable is returned by a SurfaceFactory that cannot provide a
// drawable surface, e.g. a terminal too small to draw into.
var ErrSurfaceUnavailable = errors.New("drawable surface unavailable")

// Paint is a colour with an alpha in [0,1].
type Paint struct {
	Color string // hex, e.g. "#ffad51"
	Alpha float64
}

// Stop is one colour stop of a gradient. Offset is in [0,1].
type Stop struct {
	Offset float64
	Paint
}

// Transparent is a fully transparent stop colour.
var Transparent = Paint{Color: "#000000", Alpha: 0}

// Surface is the drawing target the animator paints each frame.
// Coordinates are in surface pixels, origin top-left.
type Surface interface {
	// Size returns the drawable size in pixels.
	Size() (width, height float64)

	// Background repaints the whole surface with a radial gradient centred on it.
	Background(stops []Stop)

	// RadialGlow blends a radial gradient disc over what is already drawn.
	RadialGlow(x, y, radius float64, stops []Stop)

	// Line strokes a straight line, optionally dashed.
	Line(x1, y1, x2, y2 float64, p Paint, dashed bool)

	// GradientLine strokes a line whose colour runs along the stops from (x1,y1) to (x2,y2).
	GradientLine(x1, y1, x2, y2 float64, stops []Stop)

	// Disc fills a solid disc.
	Disc(x, y, radius float64, p Paint)

	// Text draws a string horizontally centred on x.
	Text(x, y float64, s string, p Paint)
}

// SurfaceFactory acquires a surface for a host viewport measured in host units
// (terminal cells for the TUI).
type SurfaceFactory func(width, height int) (Surface, error)
