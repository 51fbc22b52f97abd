package reading

import (
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Tally counts how often each value shows up across many readings.
type Tally struct {
	Readings    int
	Signals     map[TrendSignal]int
	Confidences map[Confidence]int
	Cards       map[string]int // by card name, theme and daily draws alike
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{
		Signals:     make(map[TrendSignal]int, len(Signals)),
		Confidences: make(map[Confidence]int, len(Confidences)),
		Cards:       make(map[string]int, DeckSize),
	}
}

// Add counts one reading.
func (t *Tally) Add(r MarketReading) {
	t.Readings++
	t.Signals[r.Signal]++
	t.Confidences[r.Confidence]++
	t.Cards[r.Theme.Name]++
	for _, c := range r.Days {
		t.Cards[c.Name]++
	}
}

// Sample draws n readings from e and tallies them.
func Sample(e *Engine, n int) *Tally {
	t := NewTally()
	for i := 0; i < n; i++ {
		t.Add(e.GenerateReading())
	}
	return t
}

// Spread summarizes a set of counts.
type Spread struct {
	Mean   float64
	StdDev float64
	// ChiSquare is the distance from a uniform distribution.
	ChiSquare float64
}

func spreadOf(counts []float64) Spread {
	if len(counts) == 0 {
		return Spread{}
	}
	mean, std := stat.MeanStdDev(counts, nil)
	expected := make([]float64, len(counts))
	for i := range expected {
		expected[i] = mean
	}
	var chi float64
	if mean > 0 {
		chi = stat.ChiSquare(counts, expected)
	}
	return Spread{Mean: mean, StdDev: std, ChiSquare: chi}
}

// SignalSpread summarizes the signal counts.
func (t *Tally) SignalSpread() Spread {
	counts := make([]float64, len(Signals))
	for i, s := range Signals {
		counts[i] = float64(t.Signals[s])
	}
	return spreadOf(counts)
}

// ConfidenceSpread summarizes the confidence counts.
func (t *Tally) ConfidenceSpread() Spread {
	counts := make([]float64, len(Confidences))
	for i, c := range Confidences {
		counts[i] = float64(t.Confidences[c])
	}
	return spreadOf(counts)
}

// CardSpread summarizes the card counts over the whole deck.
func (t *Tally) CardSpread() Spread {
	counts := make([]float64, DeckSize)
	for i, c := range deck {
		counts[i] = float64(t.Cards[c.Name])
	}
	return spreadOf(counts)
}

// Unseen lists the signals, confidence levels and cards never drawn.
func (t *Tally) Unseen() []string {
	var out []string
	for _, s := range Signals {
		if t.Signals[s] == 0 {
			out = append(out, string(s))
		}
	}
	for _, c := range Confidences {
		if t.Confidences[c] == 0 {
			out = append(out, string(c))
		}
	}
	for _, c := range deck {
		if t.Cards[c.Name] == 0 {
			out = append(out, c.Name)
		}
	}
	return out
}

// WriteReport writes the tally as a text table.
func (t *Tally) WriteReport(w io.Writer) {
	fmt.Fprintf(w, "Reading distribution over %d readings\n", t.Readings)
	fmt.Fprintln(w, strings.Repeat("─", 48))

	fmt.Fprintf(w, "%-12s %8s %8s\n", "Signal", "Count", "Share")
	for _, s := range Signals {
		fmt.Fprintf(w, "%-12s %8d %7.1f%%\n", s, t.Signals[s], share(t.Signals[s], t.Readings))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-12s %8s %8s\n", "Confidence", "Count", "Share")
	for _, c := range Confidences {
		fmt.Fprintf(w, "%-12s %8d %7.1f%%\n", c, t.Confidences[c], share(t.Confidences[c], t.Readings))
	}
	fmt.Fprintln(w, strings.Repeat("─", 48))

	for _, row := range []struct {
		name string
		s    Spread
	}{
		{"signals", t.SignalSpread()},
		{"confidence", t.ConfidenceSpread()},
		{"cards", t.CardSpread()},
	} {
		fmt.Fprintf(w, "%-12s mean %8.1f  sd %7.2f  χ² %7.2f\n", row.name, row.s.Mean, row.s.StdDev, row.s.ChiSquare)
	}

	if unseen := t.Unseen(); len(unseen) > 0 {
		fmt.Fprintf(w, "\nNever drawn: %s\n", strings.Join(unseen, ", "))
	}
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
