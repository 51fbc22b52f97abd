package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-arcana/internal/astro"
	"github.com/litescript/ls-arcana/internal/reading"
	"github.com/litescript/ls-arcana/internal/theme"
	"github.com/litescript/ls-arcana/internal/version"
)

const (
	meterWidth = 10

	// Below this width the two market cards stack.
	sideBySideWidth = 64

	// Terminals at least this tall get the figlet banner.
	bannerHeight = 40
)

var signalGlyphs = map[reading.TrendSignal]string{
	reading.Rising:   "▲",
	reading.Falling:  "▼",
	reading.Volatile: "◆",
	reading.Stagnant: "■",
}

func renderHeader(t theme.ColorTheme, tall bool) string {
	var b strings.Builder
	if tall {
		b.WriteString(gradientBlock(strings.Split(reading.Banner(), "\n"), t.Primary, t.Accent))
	} else {
		b.WriteString(gradientBlock([]string{"✦ " + reading.Title + " ✦"}, t.Primary, t.Accent))
	}
	b.WriteString("\n")

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(t.TextSecondary))
	b.WriteString(muted.Render(reading.Subtitle + " · v" + version.Version))
	return b.String()
}

// gradientBlock colours each line left to right from one hex colour to
// another, using the widest line as the span.
func gradientBlock(lines []string, from, to string) string {
	c1, err := colorful.Hex(from)
	if err != nil {
		c1 = colorful.Color{R: 1, G: 1, B: 1}
	}
	c2, err := colorful.Hex(to)
	if err != nil {
		c2 = c1
	}

	span := 1
	for _, l := range lines {
		if n := len([]rune(l)); n > span {
			span = n
		}
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var b strings.Builder
		for col, r := range []rune(line) {
			if r == ' ' {
				b.WriteRune(r)
				continue
			}
			c := c1.BlendLuv(c2, float64(col)/float64(span)).Clamped()
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
		}
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

// renderReadings lays out both market cards, side by side when there is room.
func renderReadings(set reading.Set, t theme.ColorTheme, width int) string {
	if width >= sideBySideWidth {
		inner := (width-1)/2 - 2
		return lipgloss.JoinHorizontal(lipgloss.Top,
			renderMarket("EQUITIES", set.Equities, t.Primary, t, inner),
			" ",
			renderMarket("CRYPTO", set.Crypto, t.Accent, t, inner),
		)
	}
	inner := width - 2
	if inner < 20 {
		inner = 20
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		renderMarket("EQUITIES", set.Equities, t.Primary, t, inner),
		renderMarket("CRYPTO", set.Crypto, t.Accent, t, inner),
	)
}

// renderMarket draws one market's card. width excludes the border.
func renderMarket(label string, r reading.MarketReading, accent string, t theme.ColorTheme, width int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Border)).
		Padding(0, 1).
		Width(width)
	head := lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Bold(true)
	text := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(t.TextSecondary))
	signal := lipgloss.NewStyle().Foreground(lipgloss.Color(r.Signal.Color())).Bold(true)

	lines := []string{
		head.Render(label),
		text.Bold(true).Render(r.Theme.String()),
		dim.Render(r.Theme.Aspect + " · " + r.Theme.Power),
		signal.Render(signalGlyph(r.Signal) + " " + string(r.Signal)),
		head.UnsetBold().Render(reading.Meter(r.Confidence.Intensity(), meterWidth)) + " " + dim.Render(string(r.Confidence)),
		"",
		dim.Render("WEEKLY SPREAD"),
	}
	for _, dc := range r.DayCards() {
		lines = append(lines, dim.Render(string(dc.Day))+" "+text.Render(dc.Card.String()))
	}
	return box.Render(strings.Join(lines, "\n"))
}

func signalGlyph(s reading.TrendSignal) string {
	if g, ok := signalGlyphs[s]; ok {
		return g
	}
	return signalGlyphs[reading.Stagnant]
}

func renderConfluence(set reading.Set, t theme.ColorTheme) string {
	if set.Confluence() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(set.Equities.Signal.Color())).Bold(true)
		return style.Render("✦ CONFLUENCE · BOTH MARKETS " + string(set.Equities.Signal))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.TextSecondary)).Render("◇ NO CONFLUENCE")
}

func renderTemporal(now time.Time, t theme.ColorTheme) string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(t.TextSecondary))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text))
	phase := astro.MoonPhase(now)
	sign := astro.SunSign(now)
	parts := []string{
		label.Render("CYCLE ") + value.Render(now.Format("2006.01.02")),
		label.Render("PHASE ") + value.Render(phase.Name+" "+phase.Glyph),
		label.Render("SIGN ") + value.Render(sign.Name+" "+sign.Glyph),
	}
	return strings.Join(parts, label.Render("  ·  "))
}
