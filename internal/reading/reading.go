package reading

import (
	"time"

	"github.com/google/uuid"
)

// TrendSignal is the symbolic direction of a market.
type TrendSignal string

const (
	Rising   TrendSignal = "RISING"
	Falling  TrendSignal = "FALLING"
	Volatile TrendSignal = "VOLATILE"
	Stagnant TrendSignal = "STAGNANT"
)

// Signals lists every trend signal in display order.
var Signals = []TrendSignal{Rising, Falling, Volatile, Stagnant}

var signalColors = map[TrendSignal]string{
	Rising:   "#10B981",
	Falling:  "#EF4444",
	Volatile: "#F59E0B",
	Stagnant: "#6B7280",
}

// Valid reports whether s is a known signal.
func (s TrendSignal) Valid() bool {
	_, ok := signalColors[s]
	return ok
}

// Color returns the display colour of the signal.
func (s TrendSignal) Color() string {
	if c, ok := signalColors[s]; ok {
		return c
	}
	return signalColors[Stagnant]
}

// Confidence is how strongly a reading is held.
type Confidence string

const (
	Weak     Confidence = "WEAK"
	Moderate Confidence = "MODERATE"
	Strong   Confidence = "STRONG"
	Absolute Confidence = "ABSOLUTE"
)

// Confidences lists every confidence level from weakest to strongest.
var Confidences = []Confidence{Weak, Moderate, Strong, Absolute}

// Valid reports whether c is a known confidence level.
func (c Confidence) Valid() bool {
	return c.Intensity() > 0
}

// Intensity maps the level onto (0,1] for meters. Unknown levels are 0.
func (c Confidence) Intensity() float64 {
	switch c {
	case Weak:
		return 0.25
	case Moderate:
		return 0.5
	case Strong:
		return 0.75
	case Absolute:
		return 1
	}
	return 0
}

// Weekday labels a trading day.
type Weekday string

// Weekdays are the five trading days in order.
var Weekdays = []Weekday{"MON", "TUE", "WED", "THU", "FRI"}

// MarketReading is the symbolic state of one market.
type MarketReading struct {
	Theme      Card             `json:"theme" msgpack:"theme"`
	Signal     TrendSignal      `json:"signal" msgpack:"signal"`
	Confidence Confidence       `json:"confidence" msgpack:"confidence"`
	Days       map[Weekday]Card `json:"days" msgpack:"days"`
}

// DayCard pairs a weekday with its card.
type DayCard struct {
	Day  Weekday
	Card Card
}

// DayCards returns the daily cards in weekday order.
func (r MarketReading) DayCards() []DayCard {
	out := make([]DayCard, 0, len(Weekdays))
	for _, d := range Weekdays {
		if c, ok := r.Days[d]; ok {
			out = append(out, DayCard{Day: d, Card: c})
		}
	}
	return out
}

// Set is the pair of readings produced by one trigger.
type Set struct {
	ID          uuid.UUID     `json:"id" msgpack:"id"`
	GeneratedAt time.Time     `json:"generated_at" msgpack:"generated_at"`
	Equities    MarketReading `json:"equities" msgpack:"equities"`
	Crypto      MarketReading `json:"crypto" msgpack:"crypto"`
}

// Confluence reports whether both markets share a signal.
func (s Set) Confluence() bool {
	return s.Equities.Signal == s.Crypto.Signal
}
