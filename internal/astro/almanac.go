package astro

import (
	"math"
	"time"
)

// SynodicMonth is the mean length of a lunar cycle in days.
const SynodicMonth = 29.530588853

// A new moon fell at JD 2451550.1 (6 January 2000).
const referenceNewMoonJD = 2451550.1

// LunarPhase is one of the eight named phases of the moon.
type LunarPhase struct {
	Name  string
	Glyph string
}

var lunarPhases = [8]LunarPhase{
	{"NEW", "●"},
	{"WAXING CRESCENT", "◖"},
	{"FIRST QUARTER", "◑"},
	{"WAXING GIBBOUS", "◕"},
	{"FULL", "○"},
	{"WANING GIBBOUS", "◔"},
	{"WANING", "◐"},
	{"WANING CRESCENT", "◗"},
}

// ZodiacSign is a 30° slice of the ecliptic.
type ZodiacSign struct {
	Name  string
	Glyph string
}

var zodiac = [12]ZodiacSign{
	{"ARIES", "♈"}, {"TAURUS", "♉"}, {"GEMINI", "♊"}, {"CANCER", "♋"},
	{"LEO", "♌"}, {"VIRGO", "♍"}, {"LIBRA", "♎"}, {"SCORPIO", "♏"},
	{"SAGITTARIUS", "♐"}, {"CAPRICORN", "♑"}, {"AQUARIUS", "♒"}, {"PISCES", "♓"},
}

// MoonAge returns the days elapsed since the last mean new moon.
func MoonAge(t time.Time) float64 {
	age := math.Mod(julianDate(t)-referenceNewMoonJD, SynodicMonth)
	if age < 0 {
		age += SynodicMonth
	}
	return age
}

// MoonPhase returns the named phase nearest to the moon's age at t.
func MoonPhase(t time.Time) LunarPhase {
	i := int(math.Floor(MoonAge(t)/SynodicMonth*8+0.5)) % 8
	return lunarPhases[i]
}

// SunLongitude returns the Sun's apparent ecliptic longitude in degrees.
// Uses a simplified solar ephemeris based on the Astronomical Almanac,
// good to about 0.01°.
func SunLongitude(t time.Time) float64 {
	// Julian centuries from J2000.0
	T := (julianDate(t) - 2451545.0) / 36525.0

	L0 := normalizeAngle360(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := degToRad(normalizeAngle360(357.52911 + 35999.05029*T - 0.0001537*T*T))

	// Equation of centre
	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(M) +
		(0.019993-0.000101*T)*math.Sin(2*M) +
		0.000289*math.Sin(3*M)

	// Aberration and nutation
	omega := 125.04 - 1934.136*T
	return normalizeAngle360(L0 + C - 0.00569 - 0.00478*math.Sin(degToRad(omega)))
}

// SunSign returns the tropical zodiac sign the Sun is in at t.
func SunSign(t time.Time) ZodiacSign {
	return zodiac[int(SunLongitude(t)/30)%12]
}

// julianDate calculates the Julian Date for a given time.
func julianDate(t time.Time) float64 {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	dayFrac := (float64(t.Hour()) +
		float64(t.Minute())/60 +
		float64(t.Second())/3600 +
		float64(t.Nanosecond())/3600e9) / 24.0

	// January and February count as months 13 and 14 of the previous year
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// normalizeAngle360 normalizes an angle to 0-360 degrees.
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
