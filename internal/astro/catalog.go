// Package astro holds the star catalog and the flat sky projection used by the scene.
package astro

import (
	"errors"
	"fmt"
)

// ErrInvalidEdge is returned when a constellation edge references a star
// index outside the constellation's star list.
var ErrInvalidEdge = errors.New("constellation edge index out of range")

// SpectralClass is the single-letter stellar classification.
type SpectralClass byte

const (
	ClassUnknown SpectralClass = 0
	ClassO       SpectralClass = 'O'
	ClassB       SpectralClass = 'B'
	ClassA       SpectralClass = 'A'
	ClassF       SpectralClass = 'F'
	ClassG       SpectralClass = 'G'
	ClassK       SpectralClass = 'K'
	ClassM       SpectralClass = 'M'
)

// ParseSpectralClass extracts the class letter from a spectral type such as "M1".
// Anything not starting with one of OBAFGKM yields ClassUnknown.
func ParseSpectralClass(s string) SpectralClass {
	if s == "" {
		return ClassUnknown
	}
	switch c := SpectralClass(s[0]); c {
	case ClassO, ClassB, ClassA, ClassF, ClassG, ClassK, ClassM:
		return c
	default:
		return ClassUnknown
	}
}

func (c SpectralClass) String() string {
	if c == ClassUnknown {
		return "?"
	}
	return string(rune(c))
}

// CatalogStar is a named star with fixed equatorial coordinates.
type CatalogStar struct {
	CatalogID       string  // Bayer designation, e.g. "α Ori"
	DisplayName     string  // Common name, may be empty
	ConstellationID string  // Key of the owning constellation
	RAHours         float64 // Right ascension in hours [0, 24)
	DecDeg          float64 // Declination in degrees [-90, 90]
	Magnitude       float64 // Apparent visual magnitude (lower = brighter)
	SpectralType    string  // Full spectral type, e.g. "B8"
}

// Class returns the star's spectral class letter.
func (s CatalogStar) Class() SpectralClass {
	return ParseSpectralClass(s.SpectralType)
}

// Edge joins two stars of a constellation by their index in Stars.
type Edge struct {
	From int
	To   int
}

// Constellation is a named group of catalog stars with stick-figure edges.
type Constellation struct {
	ID           string
	Name         string
	Abbreviation string
	Mythology    string // Optional subtitle, e.g. "The Hunter"
	Season       string // When best visible
	Stars        []CatalogStar
	Edges        []Edge
}

// Validate checks that every edge references a valid star index.
func (c Constellation) Validate() error {
	for _, e := range c.Edges {
		if e.From < 0 || e.From >= len(c.Stars) || e.To < 0 || e.To >= len(c.Stars) {
			return fmt.Errorf("%s edge [%d,%d] with %d stars: %w",
				c.ID, e.From, e.To, len(c.Stars), ErrInvalidEdge)
		}
	}
	return nil
}

// Catalog is an ordered collection of constellations.
type Catalog struct {
	Constellations []Constellation
}

// Validate checks every constellation in the catalog.
func (c Catalog) Validate() error {
	for _, con := range c.Constellations {
		if err := con.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// StarCount returns the total number of stars across all constellations.
func (c Catalog) StarCount() int {
	n := 0
	for _, con := range c.Constellations {
		n += len(con.Stars)
	}
	return n
}

// Stars returns every catalog star in constellation order.
func (c Catalog) Stars() []CatalogStar {
	stars := make([]CatalogStar, 0, c.StarCount())
	for _, con := range c.Constellations {
		stars = append(stars, con.Stars...)
	}
	return stars
}

// MustCatalog panics if the catalog fails validation. Only meant for static tables.
func MustCatalog(c Catalog) Catalog {
	if err := c.Validate(); err != nil {
		panic(err)
	}
	return c
}

// DefaultCatalog returns the built-in constellations.
func DefaultCatalog() Catalog {
	return defaultCatalog
}

var defaultCatalog = MustCatalog(Catalog{
	Constellations: []Constellation{
		constellation("orion", "Orion", "Ori", "The Hunter", "Winter",
			[]CatalogStar{
				{"α Ori", "Betelgeuse", "", 5.92, 7.41, 0.45, "M1"},
				{"γ Ori", "Bellatrix", "", 5.42, 6.35, 1.64, "B2"},
				{"δ Ori", "Mintaka", "", 5.53, -0.30, 2.23, "O9"},
				{"ε Ori", "Alnilam", "", 5.60, -1.20, 1.69, "O9"},
				{"ζ Ori", "Alnitak", "", 5.68, -1.94, 1.74, "O9"},
				{"κ Ori", "Saiph", "", 5.80, -9.67, 2.07, "B0"},
				{"β Ori", "Rigel", "", 5.24, -8.20, 0.18, "B8"},
				{"π³ Ori", "Tabit", "", 4.83, 6.96, 3.39, "K2"},
			},
			[]Edge{{0, 1}, {1, 3}, {3, 2}, {2, 4}, {4, 3}, {3, 6}, {6, 5}, {5, 0}, {0, 7}},
		),
		constellation("ursaMajor", "Ursa Major", "UMa", "The Great Bear", "Spring",
			[]CatalogStar{
				{"α UMa", "Dubhe", "", 11.06, 61.75, 1.85, "K0"},
				{"β UMa", "Merak", "", 11.03, 56.38, 2.34, "A0"},
				{"γ UMa", "Phecda", "", 11.90, 53.69, 2.41, "A0"},
				{"δ UMa", "Megrez", "", 12.26, 57.03, 3.32, "A3"},
				{"ε UMa", "Alioth", "", 12.90, 55.96, 1.76, "B3"},
				{"ζ UMa", "Mizar", "", 13.42, 54.93, 2.23, "A0"},
				{"η UMa", "Alkaid", "", 13.79, 49.31, 1.85, "B3"},
			},
			[]Edge{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}},
		),
		constellation("scorpius", "Scorpius", "Sco", "The Scorpion", "Summer",
			[]CatalogStar{
				{"α Sco", "Antares", "", 16.49, -26.43, 1.06, "M1"},
				{"β¹ Sco", "Graffias", "", 16.09, -19.81, 2.56, "B1"},
				{"δ Sco", "Dschubba", "", 16.00, -22.62, 2.29, "B2"},
				{"θ Sco", "Sargas", "", 17.62, -42.99, 2.89, "K2"},
				{"λ Sco", "Shaula", "", 17.56, -37.10, 1.86, "B0"},
				{"υ Sco", "Lesath", "", 17.51, -37.30, 2.70, "B2"},
				{"π Sco", "Fang", "", 15.98, -26.11, 3.21, "F3"},
			},
			[]Edge{{6, 2}, {2, 1}, {1, 0}, {0, 3}, {3, 4}, {4, 5}},
		),
		constellation("cassiopeia", "Cassiopeia", "Cas", "The Queen", "Autumn",
			[]CatalogStar{
				{"α Cas", "Schedar", "", 0.67, 56.54, 2.24, "K0"},
				{"β Cas", "Caph", "", 0.15, 59.15, 2.28, "F2"},
				{"γ Cas", "Navi", "", 0.95, 60.72, 2.47, "B0"},
				{"δ Cas", "Ruchbah", "", 1.43, 60.24, 2.68, "A5"},
				{"ε Cas", "Segin", "", 1.91, 63.67, 3.35, "B3"},
			},
			[]Edge{{0, 1}, {1, 2}, {2, 3}, {3, 4}},
		),
		constellation("cygnus", "Cygnus", "Cyg", "The Swan", "Summer",
			[]CatalogStar{
				{"α Cyg", "Deneb", "", 20.69, 45.28, 1.25, "A2"},
				{"β Cyg", "Albireo", "", 19.51, 27.96, 3.05, "K3"},
				{"γ Cyg", "Sadr", "", 20.37, 40.26, 2.23, "F8"},
				{"ε Cyg", "Gienah", "", 20.77, 33.97, 2.86, "A0"},
				{"δ Cyg", "Delta Cygni", "", 19.75, 45.13, 2.49, "B9"},
			},
			[]Edge{{4, 2}, {2, 0}, {2, 3}, {2, 1}},
		),
		constellation("lyra", "Lyra", "Lyr", "The Lyre", "Summer",
			[]CatalogStar{
				{"α Lyr", "Vega", "", 18.62, 38.78, 0.03, "A0"},
				{"γ Lyr", "Sulafat", "", 18.98, 32.69, 3.52, "M4"},
				{"β Lyr", "Sheliak", "", 18.83, 33.36, 4.30, "B7"},
				{"δ¹ Lyr", "Delta1 Lyrae", "", 18.88, 36.90, 4.94, "A8"},
			},
			[]Edge{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
		),
	},
})

// constellation fills in ConstellationID on each star so the table above stays compact.
func constellation(id, name, abbr, myth, season string, stars []CatalogStar, edges []Edge) Constellation {
	for i := range stars {
		stars[i].ConstellationID = id
	}
	return Constellation{
		ID:           id,
		Name:         name,
		Abbreviation: abbr,
		Mythology:    myth,
		Season:       season,
		Stars:        stars,
		Edges:        edges,
	}
}
