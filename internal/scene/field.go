// Package scene holds the animated night-sky particle field and the frame
// animator that draws it onto a Surface.
package scene

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/litescript/ls-arcana/internal/astro"
)

// Field defaults.
const (
	DefaultFieldStars       = 300
	DefaultMaxShootingStars = 2
	DefaultSpawnChance      = 0.008

	// Shooting star lifecycle.
	ShootingStarSpawnY = -50.0
	ShootingStarDecay  = 0.985
	ShootingStarFloor  = 0.01
	ShootingStarMargin = 50.0
)

// fieldStarClasses is the reduced palette for unnamed background stars.
var fieldStarClasses = []astro.SpectralClass{
	astro.ClassA, astro.ClassF, astro.ClassG, astro.ClassK, astro.ClassM,
}

// RNG is the randomness source for the field. *rand.Rand satisfies it.
type RNG interface {
	Float64() float64
	IntN(n int) int
}

// NewRNG returns a PCG-backed RNG seeded from seed.
func NewRNG(seed uint64) RNG {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Star is a renderable star: either a projected catalog star or a random field star.
type Star struct {
	X, Y        float64
	Size        float64
	Brightness  float64
	TwinkleRate float64
	Class       astro.SpectralClass
	Catalog     bool
}

// ShootingStar is a transient streak in the shooting-star pool.
type ShootingStar struct {
	X, Y        float64
	VX, VY      float64
	TrailLength float64
	Opacity     float64
	Alive       bool
}

// Nebula is a static tinted glow.
type Nebula struct {
	X, Y    float64
	Radius  float64
	Opacity float64
	Tint    string
}

// nebulaLayout positions nebulae as fractions of the viewport.
var nebulaLayout = []struct {
	fx, fy  float64
	radius  float64
	opacity float64
	tint    string
}{
	{0.3, 0.2, 80, 0.10, "#ff6b6b"},
	{0.7, 0.6, 60, 0.08, "#4ecdc4"},
	{0.1, 0.8, 100, 0.06, "#ffe66d"},
}

// Field owns every renderable entity for one viewport size.
type Field struct {
	catalog astro.Catalog
	rng     RNG

	fieldStarCount   int
	maxShootingStars int
	spawnChance      float64

	width, height float64
	seeded        bool

	stars    []Star
	offsets  []int // index of each constellation's first star in stars
	nebulae  []Nebula
	shooting []ShootingStar
}

// FieldOption configures a Field.
type FieldOption func(*Field)

// WithRNG sets the randomness source.
func WithRNG(rng RNG) FieldOption {
	return func(f *Field) {
		f.rng = rng
	}
}

// WithFieldStars sets the number of random background stars.
func WithFieldStars(n int) FieldOption {
	return func(f *Field) {
		f.fieldStarCount = n
	}
}

// WithMaxShootingStars caps the shooting-star pool.
func WithMaxShootingStars(n int) FieldOption {
	return func(f *Field) {
		f.maxShootingStars = n
	}
}

// WithSpawnChance sets the per-call shooting-star spawn probability.
func WithSpawnChance(p float64) FieldOption {
	return func(f *Field) {
		f.spawnChance = p
	}
}

// NewField creates an empty field for the catalog. The catalog is validated
// here so a bad edge never reaches the draw loop. Call Reseed before drawing.
func NewField(cat astro.Catalog, opts ...FieldOption) (*Field, error) {
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid star catalog: %w", err)
	}

	f := &Field{
		catalog:          cat,
		fieldStarCount:   DefaultFieldStars,
		maxShootingStars: DefaultMaxShootingStars,
		spawnChance:      DefaultSpawnChance,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = NewRNG(uint64(time.Now().UnixNano()))
	}
	if f.fieldStarCount < 0 {
		f.fieldStarCount = 0
	}
	if f.maxShootingStars < 0 {
		f.maxShootingStars = 0
	}
	return f, nil
}

// Reseed rebuilds stars and nebulae for a new viewport size. Catalog stars are
// projected, field stars are freshly randomized, nebulae scale with the
// viewport. Existing slices are replaced, never edited.
func (f *Field) Reseed(width, height float64) {
	f.width = width
	f.height = height

	stars := make([]Star, 0, f.catalog.StarCount()+f.fieldStarCount)
	offsets := make([]int, len(f.catalog.Constellations))

	for i, con := range f.catalog.Constellations {
		offsets[i] = len(stars)
		for _, cs := range con.Stars {
			x, y := astro.ProjectStar(cs, width, height)
			stars = append(stars, Star{
				X:           x,
				Y:           y,
				Size:        astro.SizeForMagnitude(cs.Magnitude),
				Brightness:  astro.BrightnessForMagnitude(cs.Magnitude),
				TwinkleRate: 0.01 + f.rng.Float64()*0.02,
				Class:       cs.Class(),
				Catalog:     true,
			})
		}
	}

	for i := 0; i < f.fieldStarCount; i++ {
		stars = append(stars, Star{
			X:           f.rng.Float64() * width,
			Y:           f.rng.Float64() * height,
			Size:        f.rng.Float64()*1.5 + 0.5,
			Brightness:  f.rng.Float64()*0.3 + 0.1,
			TwinkleRate: 0.005 + f.rng.Float64()*0.015,
			Class:       fieldStarClasses[f.rng.IntN(len(fieldStarClasses))],
		})
	}

	nebulae := make([]Nebula, len(nebulaLayout))
	for i, n := range nebulaLayout {
		nebulae[i] = Nebula{
			X:       width * n.fx,
			Y:       height * n.fy,
			Radius:  n.radius,
			Opacity: n.opacity,
			Tint:    n.tint,
		}
	}

	f.stars = stars
	f.offsets = offsets
	f.nebulae = nebulae
	f.seeded = true
}

// TrySpawnShootingStar adds a shooting star with the configured probability,
// unless the pool is full. It reports whether a star was added.
func (f *Field) TrySpawnShootingStar() bool {
	if len(f.shooting) >= f.maxShootingStars {
		return false
	}
	if f.rng.Float64() >= f.spawnChance {
		return false
	}
	f.shooting = append(f.shooting, f.newShootingStar())
	return true
}

func (f *Field) newShootingStar() ShootingStar {
	return ShootingStar{
		X:           f.rng.Float64() * f.width,
		Y:           ShootingStarSpawnY,
		VX:          -2 - f.rng.Float64()*3,
		VY:          3 + f.rng.Float64()*4,
		TrailLength: 60 + f.rng.Float64()*80,
		Opacity:     0.8 + f.rng.Float64()*0.2,
		Alive:       true,
	}
}

// AdvanceShootingStars moves every pool member by deltaFrames steps, fades it,
// and drops the ones that are too faint or below the viewport.
func (f *Field) AdvanceShootingStars(deltaFrames int) {
	if deltaFrames <= 0 {
		return
	}
	dt := float64(deltaFrames)
	decay := math.Pow(ShootingStarDecay, dt)

	alive := f.shooting[:0]
	for _, s := range f.shooting {
		s.X += s.VX * dt
		s.Y += s.VY * dt
		s.Opacity *= decay
		if s.Opacity < ShootingStarFloor || s.Y > f.height+ShootingStarMargin {
			s.Alive = false
			continue
		}
		alive = append(alive, s)
	}
	// Clear the tail so retired stars don't linger in the backing array.
	for i := len(alive); i < len(f.shooting); i++ {
		f.shooting[i] = ShootingStar{}
	}
	f.shooting = alive
}

// Seeded reports whether Reseed has run at least once.
func (f *Field) Seeded() bool {
	return f.seeded
}

// Size returns the viewport size of the last Reseed.
func (f *Field) Size() (width, height float64) {
	return f.width, f.height
}

// Catalog returns the catalog the field was built from.
func (f *Field) Catalog() astro.Catalog {
	return f.catalog
}

// Stars returns catalog stars (in catalog order) followed by field stars.
// The slice is owned by the field and must not be modified.
func (f *Field) Stars() []Star {
	return f.stars
}

// CatalogStarCount returns how many entries of Stars are projected catalog stars.
func (f *Field) CatalogStarCount() int {
	return f.catalog.StarCount()
}

// ConstellationStar returns the projected star at index idx of constellation con.
func (f *Field) ConstellationStar(con, idx int) Star {
	return f.stars[f.offsets[con]+idx]
}

// Nebulae returns the nebula set for the current viewport.
func (f *Field) Nebulae() []Nebula {
	return f.nebulae
}

// ShootingStars returns the live shooting-star pool.
func (f *Field) ShootingStars() []ShootingStar {
	return f.shooting
}

// MaxShootingStars returns the pool cap.
func (f *Field) MaxShootingStars() int {
	return f.maxShootingStars
}
