// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/litescript/ls-arcana/internal/logging"
	"github.com/litescript/ls-arcana/internal/reading"
	"github.com/litescript/ls-arcana/internal/scene"
	"github.com/litescript/ls-arcana/internal/state"
	"github.com/litescript/ls-arcana/internal/theme"
)

// Msg types for Bubble Tea
type (
	// FrameMsg steps the sky by one frame.
	FrameMsg time.Time

	// ReadingMsg carries the outcome of a channel.
	ReadingMsg struct {
		Set reading.Set
		Err error
	}
)

// Config holds what the root model needs besides its collaborators.
type Config struct {
	Theme         theme.ColorTheme
	FrameInterval time.Duration
	Planets       bool

	// Field is the sky's particle field. When FieldErr is set the sky is
	// disabled and the panel runs alone.
	Field    *scene.Field
	FieldErr error
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state     *state.Manager
	channeler *reading.Channeler
	log       *logging.Logger

	// UI state
	theme         theme.ColorTheme
	frameInterval time.Duration
	width         int
	height        int
	ready         bool

	// Sub-models
	sky     SkyModel
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	// Pending channel, cancelled on quit
	ctx    context.Context
	cancel context.CancelFunc
	ticket *reading.Ticket

	snapshot state.Snapshot
	now      func() time.Time
}

// New creates a new root UI model. ctx bounds any channel started from the
// panel.
func New(ctx context.Context, stateMgr *state.Manager, ch *reading.Channeler, log *logging.Logger, cfg Config) Model {
	if log == nil {
		log = logging.Discard()
	}
	log = log.With("component", "ui")

	interval := cfg.FrameInterval
	if interval <= 0 {
		interval = scene.DefaultFrameInterval
	}

	var sky SkyModel
	if cfg.FieldErr != nil {
		log.Warn("Sky disabled: %v", cfg.FieldErr)
		sky = DisabledSky(cfg.FieldErr)
	} else {
		var err error
		sky, err = NewSkyModel(cfg.Field, cfg.Theme, interval, cfg.Planets)
		if err != nil {
			log.Warn("Sky disabled: %v", err)
			sky = DisabledSky(err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)

	m := Model{
		state:         stateMgr,
		channeler:     ch,
		log:           log,
		theme:         cfg.Theme,
		frameInterval: interval,
		sky:           sky,
		help:          help.New(),
		keys:          defaultKeyMap(),
		ctx:           ctx,
		cancel:        cancel,
		snapshot:      stateMgr.Snapshot(),
		now:           time.Now,
	}
	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(m.accentStyle()))
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return frameCmd(m.frameInterval)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.shutdown()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Generate):
			if cmd := m.beginChanneling(); cmd != nil {
				cmds = append(cmds, cmd)
			}

		case key.Matches(msg, m.keys.Cancel):
			if m.ticket != nil {
				m.ticket.Cancel()
			}

		case key.Matches(msg, m.keys.Theme):
			m.cycleTheme()

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.layout()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.layout()

	case FrameMsg:
		m.sky.Step()
		cmds = append(cmds, frameCmd(m.frameInterval))

	case ReadingMsg:
		m.ticket = nil
		if msg.Err != nil {
			m.state.Abandon(msg.Err)
			m.log.Info("Reading abandoned: %v", msg.Err)
		} else {
			m.state.Reveal(msg.Set)
			m.log.Debug("Revealed reading %s", msg.Set.ID)
		}
		m.snapshot = m.state.Snapshot()

	case spinner.TickMsg:
		// Let the spinner chain lapse once the channel resolves.
		if m.snapshot.Generating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// beginChanneling starts a channel unless one is already pending.
func (m *Model) beginChanneling() tea.Cmd {
	if err := m.state.BeginChanneling(); err != nil {
		return nil
	}
	t, err := m.channeler.Begin(m.ctx)
	if err != nil {
		m.state.Abandon(err)
		m.snapshot = m.state.Snapshot()
		return nil
	}
	m.ticket = t
	m.snapshot = m.state.Snapshot()
	return tea.Batch(waitForReading(t), m.spinner.Tick)
}

func (m *Model) cycleTheme() {
	m.theme = theme.Next(m.theme)
	m.sky.SetTheme(m.theme)
	m.state.SetTheme(m.theme.Name)
	m.spinner.Style = m.accentStyle()
	m.snapshot = m.state.Snapshot()
}

func (m *Model) shutdown() {
	m.cancel()
	m.sky.Stop()
}

// layout gives the sky whatever rows the header, panel and footer leave.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	used := lipgloss.Height(m.renderHeader()) +
		lipgloss.Height(m.renderPanel()) +
		lipgloss.Height(m.renderFooter())
	rows := m.height - used
	if rows < 0 {
		rows = 0
	}

	wasRunning := m.sky.Running()
	m.sky = m.sky.SetSize(m.width, rows)
	if err := m.sky.Err(); err != nil && wasRunning {
		m.log.Info("Sky stopped: %v", err)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	parts := []string{m.renderHeader()}
	if sky := m.sky.View(); sky != "" {
		parts = append(parts, sky)
	}
	parts = append(parts, m.renderPanel(), m.renderFooter())
	return strings.Join(parts, "\n")
}

func (m Model) renderHeader() string {
	return renderHeader(m.theme, m.height >= bannerHeight)
}

func (m Model) renderPanel() string {
	if !m.snapshot.HasCurrent {
		dim := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.TextSecondary))
		return dim.Render("The cards are face down. Press g to draw.") + "\n" + renderTemporal(m.now(), m.theme)
	}
	set := m.snapshot.Current
	return renderReadings(set, m.theme, m.width) + "\n" +
		renderConfluence(set, m.theme) + "\n" +
		renderTemporal(m.now(), m.theme)
}

func (m Model) renderFooter() string {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.TextSecondary))
	accent := m.accentStyle()

	var status string
	if m.snapshot.Generating {
		status = m.spinner.View() + " " + accent.Render("CHANNELING...")
	} else {
		status = accent.Render("[g] GENERATE NEW READING")
	}

	var details []string
	if m.snapshot.HasCurrent {
		details = append(details, fmt.Sprintf("reading #%d · %s",
			m.snapshot.Revealed+1, humanize.Time(m.snapshot.Current.GeneratedAt)))
	}
	if m.sky.Running() {
		details = append(details, fmt.Sprintf("%s stars · frame %s",
			humanize.Comma(int64(m.sky.StarCount())), humanize.Comma(int64(m.sky.Frames()))))
	}
	if err := m.snapshot.LastError; err != nil {
		if errors.Is(err, context.Canceled) {
			details = append(details, "channel abandoned")
		} else {
			details = append(details, "error: "+err.Error())
		}
	}
	if ev := m.lastEvent(); ev != "" {
		details = append(details, ev)
	}

	line := "  " + status
	if len(details) > 0 {
		line += "  " + dim.Render(strings.Join(details, "  |  "))
	}
	return line + "\n  " + m.help.View(m.keys)
}

// lastEvent describes the signal shift or confluence of the latest reveal.
func (m Model) lastEvent() string {
	events := m.snapshot.Events
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		switch e.Type {
		case state.EventSignalShift:
			return e.Market + " " + e.Detail
		case state.EventConfluence:
			return "confluence " + e.Detail
		case state.EventChanneling, state.EventInitial:
			return ""
		}
	}
	return ""
}

func (m Model) accentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
}

// Theme returns the active theme.
func (m Model) Theme() theme.ColorTheme {
	return m.theme
}

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// waitForReading blocks on t off the update goroutine.
func waitForReading(t *reading.Ticket) tea.Cmd {
	return func() tea.Msg {
		set, err := t.Wait()
		return ReadingMsg{Set: set, Err: err}
	}
}
