// Package reading generates randomized symbolic market readings from a fixed
// deck of 22 arcana cards.
package reading

import (
	"errors"
	"fmt"
)

// ErrCardIndex is returned for a card index outside the deck.
var ErrCardIndex = errors.New("card index out of range")

// Card is one entry of the arcana deck.
type Card struct {
	Name   string `json:"name" msgpack:"name"`
	Glyph  string `json:"glyph" msgpack:"glyph"`
	Aspect string `json:"aspect" msgpack:"aspect"`
	Power  string `json:"power" msgpack:"power"`
}

// String returns the glyph and name, e.g. "✦ THE STAR".
func (c Card) String() string {
	return c.Glyph + " " + c.Name
}

// DeckSize is the number of cards in the deck.
const DeckSize = 22

// Indexes of cards used by the initial readings.
const (
	TheTower = 16
	TheMoon  = 18
)

var deck = [DeckSize]Card{
	{"THE FOOL", "◈", "RISK", "CHAOS"},
	{"THE MAGICIAN", "⟐", "CONTROL", "MANIPULATION"},
	{"HIGH PRIESTESS", "◉", "HIDDEN", "KNOWLEDGE"},
	{"THE EMPRESS", "♦", "GROWTH", "ABUNDANCE"},
	{"THE EMPEROR", "▲", "ORDER", "DOMINION"},
	{"HIEROPHANT", "⟐", "SYSTEM", "STRUCTURE"},
	{"THE LOVERS", "◈", "CHOICE", "UNITY"},
	{"THE CHARIOT", "▣", "DRIVE", "VICTORY"},
	{"STRENGTH", "◐", "FORCE", "WILL"},
	{"THE HERMIT", "◯", "SEARCH", "WISDOM"},
	{"WHEEL FORTUNE", "◎", "FATE", "CYCLES"},
	{"JUSTICE", "⟐", "BALANCE", "LAW"},
	{"HANGED MAN", "◈", "SACRIFICE", "INSIGHT"},
	{"DEATH", "◆", "END", "REBIRTH"},
	{"TEMPERANCE", "◉", "MERGE", "ALCHEMY"},
	{"THE DEVIL", "▼", "BIND", "TEMPTATION"},
	{"THE TOWER", "⟐", "DESTROY", "REVELATION"},
	{"THE STAR", "✦", "HOPE", "GUIDANCE"},
	{"THE MOON", "◐", "ILLUSION", "MYSTERY"},
	{"THE SUN", "◉", "TRUTH", "VITALITY"},
	{"JUDGEMENT", "▲", "VERDICT", "AWAKENING"},
	{"THE WORLD", "◎", "COMPLETE", "MASTERY"},
}

// Deck returns a copy of the full deck in order.
func Deck() []Card {
	out := make([]Card, DeckSize)
	copy(out, deck[:])
	return out
}

// CardAt returns the card at index i.
func CardAt(i int) (Card, error) {
	if i < 0 || i >= DeckSize {
		return Card{}, fmt.Errorf("%w: %d (deck has %d cards)", ErrCardIndex, i, DeckSize)
	}
	return deck[i], nil
}
