package scene

import (
	"errors"
	"math"
	"time"

	"github.com/litescript/ls-arcana/internal/astro"
	"github.com/litescript/ls-arcana/internal/theme"
)

// DefaultFrameInterval is the nominal time between frames, used to turn the
// frame counter into seconds for time-based motion.
const DefaultFrameInterval = time.Second / 30

// Drawing constants.
const (
	edgeAlpha      = 0x25 / 255.0
	labelAlpha     = 0x40 / 255.0
	mythAlpha      = 0x30 / 255.0
	pulseAlpha     = 0x20 / 255.0
	nebulaMidAlpha = 0x08 / 255.0
	planetAlpha    = 0.3

	// Labels sit above the centroid; the subtitle is one cell row lower.
	LabelOffset     = 20.0
	MythologyOffset = 4.0

	pulseRadius = 300.0
	pulsePeriod = 8 * time.Second

	trailColor = "#ffffff"
	trailTint  = "#add8e6"
)

var backgroundStops = []Stop{
	{Offset: 0, Paint: Paint{Color: "#0a0a0a", Alpha: 1}},
	{Offset: 0.5, Paint: Paint{Color: "#050505", Alpha: 1}},
	{Offset: 1, Paint: Paint{Color: "#000000", Alpha: 1}},
}

// ErrNilField is returned when an animator is built without a field.
var ErrNilField = errors.New("scene: nil field")

// State is the mutable state of one running scene. Nothing is kept in package
// globals, so several scenes can animate independently.
type State struct {
	Frame uint64
	Field *Field
}

// Animator draws the scene one frame at a time.
type Animator struct {
	state         State
	theme         theme.ColorTheme
	planets       bool
	frameInterval time.Duration
}

// AnimatorOption configures an Animator.
type AnimatorOption func(*Animator)

// WithTheme sets the initial colour theme.
func WithTheme(t theme.ColorTheme) AnimatorOption {
	return func(a *Animator) {
		a.theme = t
	}
}

// WithPlanets toggles the drifting planet glyphs.
func WithPlanets(on bool) AnimatorOption {
	return func(a *Animator) {
		a.planets = on
	}
}

// WithFrameInterval sets the nominal frame interval.
func WithFrameInterval(d time.Duration) AnimatorOption {
	return func(a *Animator) {
		if d > 0 {
			a.frameInterval = d
		}
	}
}

// NewAnimator creates an animator over field.
func NewAnimator(field *Field, opts ...AnimatorOption) (*Animator, error) {
	if field == nil {
		return nil, ErrNilField
	}
	a := &Animator{
		state:         State{Field: field},
		theme:         theme.Default,
		planets:       true,
		frameInterval: DefaultFrameInterval,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// State returns a copy of the scene state.
func (a *Animator) State() State {
	return a.state
}

// Theme returns the active theme.
func (a *Animator) Theme() theme.ColorTheme {
	return a.theme
}

// SetTheme switches the tint colours. Star positions are theme independent,
// so the field is not reseeded.
func (a *Animator) SetTheme(t theme.ColorTheme) {
	a.theme = t
}

// Resize reseeds the field for a new surface size.
func (a *Animator) Resize(width, height float64) {
	a.state.Field.Reseed(width, height)
}

// Elapsed converts the frame counter to scene time.
func (a *Animator) Elapsed() time.Duration {
	return time.Duration(a.state.Frame) * a.frameInterval
}

// Frame draws one frame onto s and advances the scene.
func (a *Animator) Frame(s Surface) {
	f := a.state.Field
	w, h := s.Size()
	if fw, fh := f.Size(); !f.Seeded() || fw != w || fh != h {
		f.Reseed(w, h)
	}
	frame := a.state.Frame
	elapsed := a.Elapsed()

	// 1. Background and the theme pulse.
	s.Background(backgroundStops)
	pulse := 0.6 + 0.4*math.Sin(2*math.Pi*elapsed.Seconds()/pulsePeriod.Seconds())
	s.RadialGlow(w/2, h/2, pulseRadius, []Stop{
		{Offset: 0, Paint: Paint{Color: a.theme.Glow, Alpha: pulseAlpha * pulse}},
		{Offset: 1, Paint: Transparent},
	})

	// 2. Nebulae.
	for _, n := range f.Nebulae() {
		s.RadialGlow(n.X, n.Y, n.Radius, []Stop{
			{Offset: 0, Paint: Paint{Color: n.Tint, Alpha: n.Opacity}},
			{Offset: 0.5, Paint: Paint{Color: n.Tint, Alpha: nebulaMidAlpha}},
			{Offset: 1, Paint: Transparent},
		})
	}

	// 3. Constellation edges.
	cat := f.Catalog()
	edgePaint := Paint{Color: a.theme.Glow, Alpha: edgeAlpha}
	for ci, con := range cat.Constellations {
		for _, e := range con.Edges {
			from := f.ConstellationStar(ci, e.From)
			to := f.ConstellationStar(ci, e.To)
			s.Line(from.X, from.Y, to.X, to.Y, edgePaint, true)
		}
	}

	// 4. Stars.
	for _, st := range f.Stars() {
		drawStar(s, st, Twinkle(frame, st.TwinkleRate))
	}

	// 5. Labels.
	for ci, con := range cat.Constellations {
		if len(con.Stars) == 0 {
			continue
		}
		var cx, cy float64
		for i := range con.Stars {
			st := f.ConstellationStar(ci, i)
			cx += st.X
			cy += st.Y
		}
		n := float64(len(con.Stars))
		cx, cy = cx/n, cy/n
		s.Text(cx, cy-LabelOffset, con.Name, Paint{Color: a.theme.Text, Alpha: labelAlpha})
		if con.Mythology != "" {
			s.Text(cx, cy-MythologyOffset, `"`+con.Mythology+`"`,
				Paint{Color: a.theme.TextSecondary, Alpha: mythAlpha})
		}
	}

	// 6. Spawn.
	f.TrySpawnShootingStar()

	// 7. Advance, then draw survivors.
	f.AdvanceShootingStars(1)
	for _, ss := range f.ShootingStars() {
		drawShootingStar(s, ss)
	}

	if a.planets {
		for i := range planets {
			if x, y, ok := PlanetPosition(i, elapsed, w, h); ok {
				p := planets[i]
				s.Text(x, y, p.Symbol, Paint{Color: p.Color, Alpha: planetAlpha})
			}
		}
	}

	// 8.
	a.state.Frame++
}

// Twinkle returns the brightness multiplier of a star with the given rate at
// frame. It depends only on its arguments and stays within [0.4, 1].
func Twinkle(frame uint64, rate float64) float64 {
	return math.Sin(float64(frame)*rate)*0.3 + 0.7
}

func drawStar(s Surface, st Star, twinkle float64) {
	b := st.Brightness * twinkle
	color := astro.ColorForClass(st.Class)

	if st.Size > 2 {
		spike := st.Size * 3
		p := Paint{Color: color, Alpha: b * 100 / 255}
		s.Line(st.X-spike, st.Y, st.X+spike, st.Y, p, false)
		s.Line(st.X, st.Y-spike, st.X, st.Y+spike, p, false)
	}

	s.RadialGlow(st.X, st.Y, st.Size*6, []Stop{
		{Offset: 0, Paint: Paint{Color: color, Alpha: b * 180 / 255}},
		{Offset: 0.3, Paint: Paint{Color: color, Alpha: b * 60 / 255}},
		{Offset: 1, Paint: Transparent},
	})
	s.Disc(st.X, st.Y, st.Size*twinkle, Paint{Color: color, Alpha: math.Min(1, b)})
}

// drawShootingStar draws the head at the current position with the trail
// stretching back against the direction of travel.
func drawShootingStar(s Surface, ss ShootingStar) {
	speed := math.Hypot(ss.VX, ss.VY)
	if speed == 0 {
		return
	}
	tx := ss.X - ss.VX/speed*ss.TrailLength
	ty := ss.Y - ss.VY/speed*ss.TrailLength
	s.GradientLine(ss.X, ss.Y, tx, ty, []Stop{
		{Offset: 0, Paint: Paint{Color: trailColor, Alpha: ss.Opacity}},
		{Offset: 0.3, Paint: Paint{Color: trailTint, Alpha: ss.Opacity * 0.6}},
		{Offset: 1, Paint: Transparent},
	})
}

// Planet is a glyph drifting up the sky.
type Planet struct {
	Symbol string
	Name   string
	Color  string
	Period time.Duration
}

var planets = []Planet{
	{"♃", "Jupiter", "#D2691E", 45 * time.Second},
	{"♂", "Mars", "#CD5C5C", 35 * time.Second},
	{"♀", "Venus", "#FFC649", 25 * time.Second},
	{"☿", "Mercury", "#C0C0C0", 15 * time.Second},
	{"♄", "Saturn", "#FAD5A5", 55 * time.Second},
	{"⛢", "Uranus", "#4FD0E7", 85 * time.Second},
	{"♆", "Neptune", "#4169E1", 75 * time.Second},
}

const (
	planetStagger = 3 * time.Second
	planetTop     = -50.0
)

// Planets returns the drifting planets in draw order.
func Planets() []Planet {
	out := make([]Planet, len(planets))
	copy(out, planets)
	return out
}

// PlanetPosition returns where planet i is after elapsed scene time. Each
// planet starts i×3s late, then rises from the bottom edge to just above the
// top once per period. ok is false before the planet has started.
func PlanetPosition(i int, elapsed time.Duration, width, height float64) (x, y float64, ok bool) {
	if i < 0 || i >= len(planets) {
		return 0, 0, false
	}
	t := elapsed - time.Duration(i)*planetStagger
	if t < 0 {
		return 0, 0, false
	}
	p := planets[i]
	phase := float64(t%p.Period) / float64(p.Period)
	x = width * (5 + float64(i%7)*13) / 100
	y = height + (planetTop-height)*phase
	return x, y, true
}
