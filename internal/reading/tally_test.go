package reading

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSample_CoversEverything(t *testing.T) {
	tally := Sample(NewEngine(WithRNG(NewRNG(2024))), 4000)

	assert.Equal(t, 4000, tally.Readings)
	assert.Empty(t, tally.Unseen())

	total := 0
	for _, n := range tally.Signals {
		total += n
	}
	assert.Equal(t, 4000, total)

	s := tally.SignalSpread()
	assert.InDelta(t, 1000, s.Mean, 1e-9)
	assert.Less(t, s.StdDev, 100.0)

	cards := tally.CardSpread()
	assert.InDelta(t, 4000*6/float64(DeckSize), cards.Mean, 1e-9)
}

func TestTally_Unseen(t *testing.T) {
	tally := NewTally()
	tally.Add(newTestEngine(0).GenerateReading())

	unseen := tally.Unseen()
	assert.NotContains(t, unseen, "RISING")
	assert.NotContains(t, unseen, "WEAK")
	assert.NotContains(t, unseen, "THE FOOL")
	assert.Contains(t, unseen, "STAGNANT")
	assert.Contains(t, unseen, "ABSOLUTE")
	assert.Contains(t, unseen, "THE WORLD")
	assert.Len(t, unseen, 3+3+DeckSize-1)
}

func TestTally_Spread(t *testing.T) {
	tally := NewTally()
	for i := 0; i < 4; i++ {
		tally.Add(MarketReading{Signal: Signals[i], Confidence: Weak})
	}

	s := tally.SignalSpread()
	assert.Equal(t, 1.0, s.Mean)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 0.0, s.ChiSquare)

	c := tally.ConfidenceSpread()
	assert.Equal(t, 1.0, c.Mean)
	assert.Greater(t, c.ChiSquare, 0.0)
}

func TestTally_WriteReport(t *testing.T) {
	tally := Sample(NewEngine(WithRNG(NewRNG(5))), 100)

	var buf bytes.Buffer
	tally.WriteReport(&buf)
	out := buf.String()

	require.Contains(t, out, "over 100 readings")
	for _, s := range Signals {
		assert.Contains(t, out, string(s))
	}
	assert.Contains(t, out, "cards")
}
