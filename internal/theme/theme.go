// Package theme defines the colour themes shared by the sky scene and the reading panel.
package theme

import (
	"fmt"
	"strings"
)

// ColorTheme is a semantic palette. Every value is a hex colour string.
type ColorTheme struct {
	Name          string
	Primary       string
	Secondary     string
	Accent        string
	Background    string
	Surface       string
	Card          string
	Text          string
	TextSecondary string
	Border        string
	Glow          string
}

// Built-in themes.
var (
	Obsidian = ColorTheme{
		Name:          "obsidian",
		Primary:       "#DC2626",
		Secondary:     "#991B1B",
		Accent:        "#F59E0B",
		Background:    "#0A0A0A",
		Surface:       "#1C1C1C",
		Card:          "#262626",
		Text:          "#FAFAFA",
		TextSecondary: "#A3A3A3",
		Border:        "#404040",
		Glow:          "#DC2626",
	}

	Voidsteel = ColorTheme{
		Name:          "voidsteel",
		Primary:       "#1E40AF",
		Secondary:     "#1E3A8A",
		Accent:        "#3B82F6",
		Background:    "#050B1A",
		Surface:       "#0F1729",
		Card:          "#1E293B",
		Text:          "#F1F5F9",
		TextSecondary: "#94A3B8",
		Border:        "#334155",
		Glow:          "#1E40AF",
	}

	Nethergold = ColorTheme{
		Name:          "nethergold",
		Primary:       "#D97706",
		Secondary:     "#B45309",
		Accent:        "#F59E0B",
		Background:    "#0C0A06",
		Surface:       "#1C1917",
		Card:          "#292524",
		Text:          "#FAFAF9",
		TextSecondary: "#A8A29E",
		Border:        "#44403C",
		Glow:          "#D97706",
	}

	Shadowmage = ColorTheme{
		Name:          "shadowmage",
		Primary:       "#7C3AED",
		Secondary:     "#6D28D9",
		Accent:        "#A855F7",
		Background:    "#0F0A1A",
		Surface:       "#1F1629",
		Card:          "#2D1B3D",
		Text:          "#FAF7FF",
		TextSecondary: "#C4B5FD",
		Border:        "#4C1D95",
		Glow:          "#7C3AED",
	}
)

// Default is the theme used when none is configured.
var Default = Obsidian

// all is in cycling order.
var all = []ColorTheme{Obsidian, Voidsteel, Nethergold, Shadowmage}

// All returns the built-in themes in cycling order.
func All() []ColorTheme {
	out := make([]ColorTheme, len(all))
	copy(out, all)
	return out
}

// Names returns the built-in theme names.
func Names() []string {
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = t.Name
	}
	return names
}

// Lookup finds a theme by name, case-insensitively.
func Lookup(name string) (ColorTheme, error) {
	for _, t := range all {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return ColorTheme{}, fmt.Errorf("unknown theme %q (want one of %s)", name, strings.Join(Names(), ", "))
}

// Next returns the theme after t in cycling order, wrapping around.
func Next(t ColorTheme) ColorTheme {
	for i, candidate := range all {
		if candidate.Name == t.Name {
			return all[(i+1)%len(all)]
		}
	}
	return Default
}
