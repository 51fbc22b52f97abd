package astro

import "math"

const (
	// Magnitude range mapped onto render size.
	brightestMag = -1.5
	magSpan      = 8.0

	maxStarSize = 4.0
	minStarSize = 0.5
	sizePerMag  = 0.4

	minBrightness = 0.1

	// NeutralColor is used for unknown spectral classes.
	NeutralColor = "#ffffff"
)

var spectralColors = map[SpectralClass]string{
	ClassO: "#9bb0ff", // blue
	ClassB: "#aabfff", // blue-white
	ClassA: "#cad7ff", // white
	ClassF: "#f8f7ff", // yellow-white
	ClassG: "#fff4ea", // yellow
	ClassK: "#ffd2a1", // orange
	ClassM: "#ffad51", // red
}

// Project maps equatorial coordinates onto a width×height viewport.
//
// This is a flat equirectangular mapping: RA covers the full 24h across the
// width and declination -90..+90 runs bottom to top. There is no observer,
// horizon, or spherical correction, so constellations sit at fixed relative
// positions regardless of time or place.
func Project(raHours, decDeg, width, height float64) (x, y float64) {
	x = (raHours / 24) * width
	y = height - ((decDeg+90)/180)*height
	return x, y
}

// ProjectStar projects a catalog star.
func ProjectStar(s CatalogStar, width, height float64) (x, y float64) {
	return Project(s.RAHours, s.DecDeg, width, height)
}

// SizeForMagnitude returns the render radius for an apparent magnitude.
// Brighter (lower magnitude) stars are larger; the result never drops below
// the minimum visible size.
func SizeForMagnitude(mag float64) float64 {
	n := math.Max(0, math.Min(magSpan, mag-brightestMag))
	return math.Max(minStarSize, maxStarSize-n*sizePerMag)
}

// BrightnessForMagnitude converts a magnitude to a base brightness in [0.1, 1].
func BrightnessForMagnitude(mag float64) float64 {
	return math.Min(1, math.Max(minBrightness, 1-mag/6))
}

// ColorForClass returns the display color for a spectral class.
func ColorForClass(c SpectralClass) string {
	if col, ok := spectralColors[c]; ok {
		return col
	}
	return NeutralColor
}

// ColorForSpectralClass returns the display color for a spectral type string.
// Malformed or empty strings fall back to neutral white.
func ColorForSpectralClass(s string) string {
	return ColorForClass(ParseSpectralClass(s))
}

// Centroid returns the mean projected position of a constellation's stars.
// ok is false for a constellation without stars.
func Centroid(c Constellation, width, height float64) (x, y float64, ok bool) {
	if len(c.Stars) == 0 {
		return 0, 0, false
	}
	for _, s := range c.Stars {
		sx, sy := ProjectStar(s, width, height)
		x += sx
		y += sy
	}
	n := float64(len(c.Stars))
	return x / n, y / n, true
}
