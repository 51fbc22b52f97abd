package ui

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-arcana/internal/scene"
	"github.com/litescript/ls-arcana/internal/theme"
)

// SkyModel hosts the animated sky behind the reading panel. Frames are
// driven from Update: each frame tick steps the queue once.
type SkyModel struct {
	loop  *scene.Loop
	queue *scene.FrameQueue
	err   error

	width  int
	height int
}

// NewSkyModel wraps field in an animator and an unmounted loop.
func NewSkyModel(field *scene.Field, t theme.ColorTheme, interval time.Duration, planets bool) (SkyModel, error) {
	animator, err := scene.NewAnimator(field,
		scene.WithTheme(t),
		scene.WithPlanets(planets),
		scene.WithFrameInterval(interval),
	)
	if err != nil {
		return SkyModel{}, err
	}
	queue := &scene.FrameQueue{}
	loop, err := scene.NewLoop(animator, queue, scene.NewCanvasSurface)
	if err != nil {
		return SkyModel{}, err
	}
	return SkyModel{loop: loop, queue: queue}, nil
}

// DisabledSky returns a sky that never mounts and reports err instead.
func DisabledSky(err error) SkyModel {
	return SkyModel{err: err}
}

// SetSize mounts, resizes or stops the loop for a width×height cell area.
func (s SkyModel) SetSize(width, height int) SkyModel {
	s.width = width
	s.height = height
	if s.loop == nil {
		return s
	}
	s.err = s.loop.Resize(width, height)
	return s
}

// Step draws the pending frame, if any.
func (s SkyModel) Step() bool {
	if s.queue == nil {
		return false
	}
	return s.queue.Step()
}

// SetTheme recolours the sky without reseeding it.
func (s SkyModel) SetTheme(t theme.ColorTheme) {
	if s.loop != nil {
		s.loop.Animator().SetTheme(t)
	}
}

// Stop unmounts the loop; the next queued frame is dropped.
func (s SkyModel) Stop() {
	if s.loop != nil {
		s.loop.Unmount()
	}
}

// Running reports whether frames are being drawn.
func (s SkyModel) Running() bool {
	return s.loop != nil && s.loop.Mounted()
}

// Err returns why the sky is not running, if it is not.
func (s SkyModel) Err() error {
	return s.err
}

// Frames returns the number of frames drawn so far.
func (s SkyModel) Frames() uint64 {
	if s.loop == nil {
		return 0
	}
	return s.loop.Frames()
}

// StarCount returns the number of stars in the current field.
func (s SkyModel) StarCount() int {
	if s.loop == nil {
		return 0
	}
	f := s.loop.Animator().State().Field
	if f == nil {
		return 0
	}
	return len(f.Stars())
}

// View renders the sky, or a note when it cannot be drawn.
func (s SkyModel) View() string {
	if s.width <= 0 || s.height <= 0 {
		return ""
	}
	if s.Running() {
		if c, ok := s.loop.Surface().(*scene.Canvas); ok {
			return c.Render()
		}
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	msg := "Sky view requires larger terminal"
	if s.loop == nil && s.err != nil {
		msg = "Sky unavailable: " + s.err.Error()
	}
	return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, dim.Render(msg))
}
