package reading

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	figure "github.com/common-nighthawk/go-figure"
	"github.com/vmihailenco/msgpack/v5"
)

// Banner lines used by text summaries and the panel header.
const (
	Title    = "TAROT TRADER"
	Subtitle = "MARKET DOMINION PROTOCOL"
)

// SetExport is the serializable form of a Set.
type SetExport struct {
	ID          string          `json:"id" msgpack:"id"`
	GeneratedAt time.Time       `json:"generated_at" msgpack:"generated_at"`
	Confluence  bool            `json:"confluence" msgpack:"confluence"`
	Markets     []ReadingExport `json:"markets" msgpack:"markets"`
}

// ReadingExport is one market's reading with its days in weekday order.
type ReadingExport struct {
	Market     string      `json:"market" msgpack:"market"`
	Theme      Card        `json:"theme" msgpack:"theme"`
	Signal     TrendSignal `json:"signal" msgpack:"signal"`
	Color      string      `json:"color" msgpack:"color"`
	Confidence Confidence  `json:"confidence" msgpack:"confidence"`
	Intensity  float64     `json:"intensity" msgpack:"intensity"`
	Days       []DayExport `json:"days" msgpack:"days"`
}

// DayExport is one weekday card.
type DayExport struct {
	Day  Weekday `json:"day" msgpack:"day"`
	Card Card    `json:"card" msgpack:"card"`
}

// ExportSet converts a set to its exportable form.
func ExportSet(s Set) *SetExport {
	return &SetExport{
		ID:          s.ID.String(),
		GeneratedAt: s.GeneratedAt,
		Confluence:  s.Confluence(),
		Markets: []ReadingExport{
			exportReading("EQUITIES", s.Equities),
			exportReading("CRYPTO", s.Crypto),
		},
	}
}

func exportReading(market string, r MarketReading) ReadingExport {
	days := make([]DayExport, 0, len(Weekdays))
	for _, dc := range r.DayCards() {
		days = append(days, DayExport{Day: dc.Day, Card: dc.Card})
	}
	return ReadingExport{
		Market:     market,
		Theme:      r.Theme,
		Signal:     r.Signal,
		Color:      r.Signal.Color(),
		Confidence: r.Confidence,
		Intensity:  r.Confidence.Intensity(),
		Days:       days,
	}
}

// WriteJSON writes the export as indented JSON.
func (e *SetExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// WriteMsgpack writes the export as MessagePack.
func (e *SetExport) WriteMsgpack(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(e)
}

// Banner renders the title in figlet letters.
func Banner() string {
	fig := figure.NewFigure(Title, "small", false)
	return strings.TrimRight(strings.Join(fig.Slicify(), "\n"), "\n ")
}

// WriteSummary writes a text rendition of the set.
func (e *SetExport) WriteSummary(w io.Writer) {
	fmt.Fprintln(w, Banner())
	fmt.Fprintln(w, Subtitle)
	fmt.Fprintf(w, "Reading %s @ %s\n", shortID(e.ID), e.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 60))

	for _, m := range e.Markets {
		fmt.Fprintf(w, "%-9s %s %-16s %-9s %-9s %s\n",
			m.Market, m.Theme.Glyph, m.Theme.Name, m.Signal, m.Confidence, Meter(m.Intensity, 8))
		fmt.Fprintf(w, "%-9s %s · %s\n", "", m.Theme.Aspect, m.Theme.Power)
		for _, d := range m.Days {
			fmt.Fprintf(w, "  %-4s %s %s\n", d.Day, d.Card.Glyph, d.Card.Name)
		}
		fmt.Fprintln(w, strings.Repeat("─", 60))
	}

	if e.Confluence && len(e.Markets) > 0 {
		fmt.Fprintf(w, "CONFLUENCE: both markets %s\n", e.Markets[0].Signal)
	} else {
		fmt.Fprintln(w, "CONFLUENCE: none")
	}
}

// Meter draws a bar of width cells filled to intensity.
func Meter(intensity float64, width int) string {
	filled := int(intensity*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
