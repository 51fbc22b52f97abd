package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-arcana/internal/astro"
	"github.com/litescript/ls-arcana/internal/logging"
	"github.com/litescript/ls-arcana/internal/reading"
	"github.com/litescript/ls-arcana/internal/scene"
	"github.com/litescript/ls-arcana/internal/state"
	"github.com/litescript/ls-arcana/internal/theme"
)

var fixedNow = time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, delay time.Duration, cfg Config) (Model, *state.Manager) {
	t.Helper()

	if cfg.Field == nil && cfg.FieldErr == nil {
		field, err := scene.NewField(astro.DefaultCatalog(),
			scene.WithRNG(scene.NewRNG(7)),
			scene.WithFieldStars(50),
		)
		require.NoError(t, err)
		cfg.Field = field
	}
	if cfg.Theme.Name == "" {
		cfg.Theme = theme.Default
	}

	engine := reading.NewEngine(reading.WithRNG(reading.NewRNG(1)))
	initial, err := engine.InitialSet()
	require.NoError(t, err)

	mgr := state.NewManager(state.DefaultConfig())
	mgr.SetInitial(initial)

	m := New(context.Background(), mgr, reading.NewChanneler(engine, delay), logging.Discard(), cfg)
	m.now = func() time.Time { return fixedNow }
	m.snapshot = mgr.Snapshot()
	return m, mgr
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	um, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return um, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_InitializingUntilSized(t *testing.T) {
	m, _ := newTestModel(t, 0, Config{})
	assert.Equal(t, "Initializing...", m.View())
	assert.NotNil(t, m.Init())
	assert.False(t, m.sky.Running())
}

func TestModel_ResizeMountsSky(t *testing.T) {
	m, _ := newTestModel(t, 0, Config{Planets: true})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 70})
	require.True(t, m.sky.Running())

	m, cmd := update(t, m, FrameMsg(fixedNow))
	assert.NotNil(t, cmd, "frame ticks keep coming")
	assert.Equal(t, uint64(1), m.sky.Frames())
	assert.Positive(t, m.sky.StarCount())

	view := m.View()
	for _, want := range []string{"EQUITIES", "CRYPTO", "THE TOWER", "THE MOON", "CYCLE", "SCORPIO", reading.Subtitle} {
		assert.Contains(t, view, want)
	}
	assert.NotContains(t, view, "requires larger terminal")
}

func TestModel_ShortTerminalKeepsPanel(t *testing.T) {
	m, _ := newTestModel(t, 0, Config{})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 20})
	assert.False(t, m.sky.Running())
	assert.ErrorIs(t, m.sky.Err(), scene.ErrSurfaceUnavailable)

	view := m.View()
	assert.Contains(t, view, "EQUITIES")
	assert.Contains(t, view, "GENERATE NEW READING")
}

func TestModel_NarrowTerminalShowsNote(t *testing.T) {
	m, _ := newTestModel(t, 0, Config{})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 15, Height: 120})
	assert.False(t, m.sky.Running())
	assert.Contains(t, m.View(), "Sky view requires larger terminal")

	// Growing the window brings the sky back.
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 120})
	assert.True(t, m.sky.Running())
}

func TestModel_DisabledSky(t *testing.T) {
	m, _ := newTestModel(t, 0, Config{FieldErr: errors.New("bad edge")})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 70})
	assert.False(t, m.sky.Running())
	assert.Contains(t, m.View(), "Sky unavailable: bad edge")

	// The panel keeps working without a sky.
	m, cmd := update(t, m, keyRunes("g"))
	assert.NotNil(t, cmd)
	assert.True(t, m.snapshot.Generating)
	m.shutdown()
}

func TestModel_GenerateRevealsReading(t *testing.T) {
	m, mgr := newTestModel(t, 0, Config{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 70})
	initial, _ := mgr.Current()

	m, cmd := update(t, m, keyRunes("g"))
	require.NotNil(t, cmd)
	require.NotNil(t, m.ticket)
	assert.True(t, m.snapshot.Generating)
	assert.Contains(t, m.View(), "CHANNELING...")

	msg := waitForReading(m.ticket)()
	m, _ = update(t, m, msg)

	assert.Nil(t, m.ticket)
	assert.False(t, m.snapshot.Generating)
	assert.Equal(t, 1, m.snapshot.Revealed)
	assert.NotEqual(t, initial.ID, m.snapshot.Current.ID)
	assert.Contains(t, m.View(), "reading #2")
}

func TestModel_GenerateWhileChannelingIsRefused(t *testing.T) {
	m, _ := newTestModel(t, time.Hour, Config{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 70})

	m, _ = update(t, m, keyRunes("g"))
	ticket := m.ticket
	require.NotNil(t, ticket)

	m, cmd := update(t, m, keyRunes("g"))
	assert.Nil(t, cmd)
	assert.Same(t, ticket, m.ticket)

	channeling := 0
	for _, e := range m.snapshot.Events {
		if e.Type == state.EventChanneling {
			channeling++
		}
	}
	assert.Equal(t, 1, channeling)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	msg := waitForReading(ticket)()
	rm, ok := msg.(ReadingMsg)
	require.True(t, ok)
	assert.ErrorIs(t, rm.Err, context.Canceled)

	m, _ = update(t, m, msg)
	assert.False(t, m.snapshot.Generating)
	assert.ErrorIs(t, m.snapshot.LastError, context.Canceled)
	assert.Equal(t, 0, m.snapshot.Revealed)
	assert.Contains(t, m.View(), "channel abandoned")
}

func TestModel_ThemeCycles(t *testing.T) {
	m, mgr := newTestModel(t, 0, Config{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 70})

	want := theme.Next(theme.Default)
	m, _ = update(t, m, keyRunes("t"))

	assert.Equal(t, want.Name, m.Theme().Name)
	assert.Equal(t, want.Name, mgr.Snapshot().Theme)
	assert.Equal(t, want.Name, m.sky.loop.Animator().Theme().Name)
	assert.True(t, m.sky.Running(), "theme change does not restart the sky")
}

func TestModel_HelpToggle(t *testing.T) {
	m, _ := newTestModel(t, 0, Config{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 70})

	assert.NotContains(t, m.View(), "abandon")
	m, _ = update(t, m, keyRunes("?"))
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "abandon")
}

func TestModel_QuitStopsEverything(t *testing.T) {
	m, _ := newTestModel(t, time.Hour, Config{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 70})
	m, _ = update(t, m, keyRunes("g"))
	ticket := m.ticket

	m, cmd := update(t, m, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, m.sky.Running())
	assert.Error(t, m.ctx.Err())

	_, err := ticket.Wait()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestModel_FramesStopAfterUnmount(t *testing.T) {
	m, _ := newTestModel(t, 0, Config{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 70})
	m, _ = update(t, m, FrameMsg(fixedNow))
	m, _ = update(t, m, FrameMsg(fixedNow))
	require.Equal(t, uint64(2), m.sky.Frames())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 18})
	m, _ = update(t, m, FrameMsg(fixedNow))
	assert.Equal(t, uint64(2), m.sky.Frames())
}

func TestLastEvent(t *testing.T) {
	tests := []struct {
		name   string
		events []state.Event
		want   string
	}{
		{"none", nil, ""},
		{
			"shift after reveal",
			[]state.Event{
				{Type: state.EventChanneling},
				{Type: state.EventSignalShift, Market: "CRYPTO", Detail: "FALLING → RISING"},
				{Type: state.EventRevealed},
			},
			"CRYPTO FALLING → RISING",
		},
		{
			"confluence wins",
			[]state.Event{
				{Type: state.EventRevealed},
				{Type: state.EventConfluence, Detail: "RISING"},
				{Type: state.EventTheme, Detail: "voidsteel"},
			},
			"confluence RISING",
		},
		{
			"older reveal is not repeated",
			[]state.Event{
				{Type: state.EventSignalShift, Market: "EQUITIES", Detail: "RISING → FALLING"},
				{Type: state.EventRevealed},
				{Type: state.EventChanneling},
				{Type: state.EventAbandoned},
			},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Model{snapshot: state.Snapshot{Events: tt.events}}
			assert.Equal(t, tt.want, m.lastEvent())
		})
	}
}

func TestRenderFooter_Counts(t *testing.T) {
	m, _ := newTestModel(t, 0, Config{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 160, Height: 70})
	for i := 0; i < 3; i++ {
		m, _ = update(t, m, FrameMsg(fixedNow))
	}

	footer := m.renderFooter()
	assert.Contains(t, footer, "frame 3")
	assert.Contains(t, footer, "stars")
	assert.Equal(t, 2, strings.Count(footer, "\n")+1)
}
