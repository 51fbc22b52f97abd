package astro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProject_Betelgeuse(t *testing.T) {
	x, y := Project(5.92, 7.41, 1000, 1000)

	assert.InDelta(t, 246.67, x, 0.01)
	assert.InDelta(t, 458.83, y, 0.01)
}

func TestProject_Corners(t *testing.T) {
	tests := []struct {
		ra, dec float64
		x, y    float64
	}{
		{0, -90, 0, 500},
		{0, 90, 0, 0},
		{12, 0, 400, 250},
		{23.999, -90, 799.97, 500},
	}
	for _, tt := range tests {
		x, y := Project(tt.ra, tt.dec, 800, 500)
		assert.InDelta(t, tt.x, x, 0.01, "x for ra=%v dec=%v", tt.ra, tt.dec)
		assert.InDelta(t, tt.y, y, 0.01, "y for ra=%v dec=%v", tt.ra, tt.dec)
	}
}

func TestProject_CatalogStarsInsideViewport(t *testing.T) {
	sizes := [][2]float64{{1000, 1000}, {1920, 1080}, {80, 24}, {1, 1}}
	for _, sz := range sizes {
		for _, s := range DefaultCatalog().Stars() {
			x, y := ProjectStar(s, sz[0], sz[1])
			if x < 0 || x > sz[0] || y < 0 || y > sz[1] {
				t.Errorf("%s projected to (%v,%v) outside %vx%v", s.DisplayName, x, y, sz[0], sz[1])
			}
		}
	}
}

func TestSizeForMagnitude_Monotonic(t *testing.T) {
	prev := SizeForMagnitude(-1.5)
	assert.InDelta(t, 4.0, prev, 1e-9)

	for mag := -1.5; mag <= 8; mag += 0.05 {
		size := SizeForMagnitude(mag)
		if size > prev+1e-12 {
			t.Fatalf("SizeForMagnitude(%v) = %v increased from %v", mag, size, prev)
		}
		if size < 0.5 {
			t.Fatalf("SizeForMagnitude(%v) = %v below minimum", mag, size)
		}
		prev = size
	}
}

func TestSizeForMagnitude_Clamped(t *testing.T) {
	assert.Equal(t, SizeForMagnitude(-1.5), SizeForMagnitude(-5))
	assert.InDelta(t, 0.8, SizeForMagnitude(20), 1e-9)
	assert.Equal(t, SizeForMagnitude(6.5), SizeForMagnitude(9.5))
	assert.Equal(t, SizeForMagnitude(9.5), SizeForMagnitude(20))
}

func TestBrightnessForMagnitude(t *testing.T) {
	assert.InDelta(t, 0.925, BrightnessForMagnitude(0.45), 1e-9)
	assert.Equal(t, 0.1, BrightnessForMagnitude(6))
	assert.Equal(t, 0.1, BrightnessForMagnitude(9))
	assert.Equal(t, 1.0, BrightnessForMagnitude(-1))
}

func TestColorForSpectralClass(t *testing.T) {
	tests := map[string]string{
		"O9": "#9bb0ff",
		"B8": "#aabfff",
		"A0": "#cad7ff",
		"F3": "#f8f7ff",
		"G2": "#fff4ea",
		"K2": "#ffd2a1",
		"M1": "#ffad51",
		"":   NeutralColor,
		"Q7": NeutralColor,
		"é":  NeutralColor,
	}
	for in, want := range tests {
		assert.Equal(t, want, ColorForSpectralClass(in), "ColorForSpectralClass(%q)", in)
	}
}

func TestCentroid(t *testing.T) {
	c := Constellation{Stars: []CatalogStar{
		{RAHours: 0, DecDeg: 0},
		{RAHours: 12, DecDeg: 90},
	}}
	x, y, ok := Centroid(c, 240, 180)
	assert.True(t, ok)
	assert.InDelta(t, 60, x, 1e-9)
	assert.InDelta(t, 45, y, 1e-9)

	_, _, ok = Centroid(Constellation{}, 240, 180)
	assert.False(t, ok)
}
