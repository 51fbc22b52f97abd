// Package state provides thread-safe state management for the application.
package state

import (
	"errors"
	"sync"
	"time"

	"github.com/litescript/ls-arcana/internal/reading"
)

// ErrChanneling is returned when a reveal starts while another is pending.
var ErrChanneling = errors.New("already channeling")

// EventType represents the type of state change event.
type EventType string

const (
	EventInitial     EventType = "INITIAL"
	EventChanneling  EventType = "CHANNELING"
	EventRevealed    EventType = "REVEALED"
	EventAbandoned   EventType = "ABANDONED"
	EventSignalShift EventType = "SIGNAL_SHIFT"
	EventConfluence  EventType = "CONFLUENCE"
	EventTheme       EventType = "THEME"
)

// Event represents a change in the session.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	ReadingID string    `json:"reading_id,omitempty"`
	Market    string    `json:"market,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Manager holds the current readings and session history.
type Manager struct {
	mu sync.RWMutex

	current    reading.Set
	hasCurrent bool
	revealed   int

	generating     bool
	channelStarted time.Time
	lastError      error

	history       []reading.Set
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	themeName string
	now       func() time.Time
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen int
	MaxEvents     int
	Theme         string
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen: 20,
		MaxEvents:     50,
		Theme:         "obsidian",
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxHistoryLen: cfg.MaxHistoryLen,
		maxEvents:     maxEvents,
		events:        make([]Event, 0, maxEvents),
		themeName:     cfg.Theme,
		now:           time.Now,
	}
}

// SetInitial installs the set shown before any reveal.
func (m *Manager) SetInitial(s reading.Set) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = s
	m.hasCurrent = true
	m.addEvent(Event{Type: EventInitial, Timestamp: m.now(), ReadingID: s.ID.String()})
}

// BeginChanneling marks a reveal as pending.
func (m *Manager) BeginChanneling() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generating {
		return ErrChanneling
	}
	m.generating = true
	m.channelStarted = m.now()
	m.addEvent(Event{Type: EventChanneling, Timestamp: m.channelStarted})
	return nil
}

// Reveal replaces the current set wholesale and ends any pending channel.
func (m *Manager) Reveal(s reading.Set) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.hasCurrent {
		m.detectShifts(m.current, s, now)
		m.history = append(m.history, m.current)
		if len(m.history) > m.maxHistoryLen {
			m.history = m.history[len(m.history)-m.maxHistoryLen:]
		}
	}

	m.current = s
	m.hasCurrent = true
	m.revealed++
	m.generating = false
	m.lastError = nil

	id := s.ID.String()
	m.addEvent(Event{Type: EventRevealed, Timestamp: now, ReadingID: id})
	if s.Confluence() {
		m.addEvent(Event{
			Type:      EventConfluence,
			Timestamp: now,
			ReadingID: id,
			Detail:    string(s.Equities.Signal),
		})
	}
}

// Abandon ends a pending channel without a new set.
func (m *Manager) Abandon(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.generating {
		return
	}
	m.generating = false
	m.lastError = err
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	m.addEvent(Event{Type: EventAbandoned, Timestamp: m.now(), Detail: detail})
}

// SetTheme records the active theme name.
func (m *Manager) SetTheme(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == m.themeName {
		return
	}
	m.themeName = name
	m.addEvent(Event{Type: EventTheme, Timestamp: m.now(), Detail: name})
}

// detectShifts emits an event for each market whose signal changed.
func (m *Manager) detectShifts(prev, next reading.Set, now time.Time) {
	pairs := []struct {
		market   string
		old, new reading.TrendSignal
	}{
		{"EQUITIES", prev.Equities.Signal, next.Equities.Signal},
		{"CRYPTO", prev.Crypto.Signal, next.Crypto.Signal},
	}
	for _, p := range pairs {
		if p.old == p.new {
			continue
		}
		m.addEvent(Event{
			Type:      EventSignalShift,
			Timestamp: now,
			ReadingID: next.ID.String(),
			Market:    p.market,
			Detail:    string(p.old) + " → " + string(p.new),
		})
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Current        reading.Set
	HasCurrent     bool
	Revealed       int
	Generating     bool
	ChannelStarted time.Time
	LastError      error
	Theme          string
	History        []reading.Set
	Events         []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hist := make([]reading.Set, len(m.history))
	copy(hist, m.history)

	return Snapshot{
		Current:        m.current,
		HasCurrent:     m.hasCurrent,
		Revealed:       m.revealed,
		Generating:     m.generating,
		ChannelStarted: m.channelStarted,
		LastError:      m.lastError,
		Theme:          m.themeName,
		History:        hist,
		Events:         m.getEventsOrdered(),
	}
}

// Current returns the current set.
func (m *Manager) Current() (reading.Set, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.hasCurrent
}

// Generating reports whether a channel is pending.
func (m *Manager) Generating() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generating
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}
