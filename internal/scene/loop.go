package scene

import (
	"errors"
	"fmt"
)

// Scheduler runs a callback at the next display refresh.
type Scheduler interface {
	RequestNextFrame(fn func())
}

// FrameQueue is a Scheduler that holds at most one pending callback and runs
// it when the host calls Step. A later request replaces an earlier one.
type FrameQueue struct {
	pending func()
}

// RequestNextFrame implements Scheduler.
func (q *FrameQueue) RequestNextFrame(fn func()) {
	q.pending = fn
}

// Step runs the pending callback, if any, and reports whether one ran.
func (q *FrameQueue) Step() bool {
	fn := q.pending
	if fn == nil {
		return false
	}
	q.pending = nil
	fn()
	return true
}

// Pending reports whether a callback is waiting.
func (q *FrameQueue) Pending() bool {
	return q.pending != nil
}

// Errors returned by NewLoop.
var (
	ErrNilAnimator       = errors.New("scene: nil animator")
	ErrNilSurfaceFactory = errors.New("scene: nil surface factory")
)

// Loop ties an Animator to a Scheduler. While mounted, every frame draws and
// then requests the next one; after Unmount the chain simply stops.
type Loop struct {
	animator  *Animator
	scheduler Scheduler
	factory   SurfaceFactory

	surface Surface
	mounted bool
	gen     uint64 // bumped on every mount so stale callbacks retire
	frames  uint64
}

// NewLoop creates an unmounted loop.
func NewLoop(a *Animator, sched Scheduler, factory SurfaceFactory) (*Loop, error) {
	if a == nil {
		return nil, ErrNilAnimator
	}
	if factory == nil {
		return nil, ErrNilSurfaceFactory
	}
	if sched == nil {
		sched = &FrameQueue{}
	}
	return &Loop{animator: a, scheduler: sched, factory: factory}, nil
}

// Mount acquires a surface of width×height host units, reseeds the field and
// requests the first frame. If no surface can be acquired the loop does not
// start and the error is returned.
func (l *Loop) Mount(width, height int) error {
	s, err := l.factory(width, height)
	if err != nil {
		l.unmount()
		return fmt.Errorf("mount scene: %w", err)
	}
	l.surface = s
	l.animator.Resize(s.Size())

	if l.mounted {
		// Already running; the pending callback keeps the chain going.
		return nil
	}
	l.mounted = true
	l.gen++
	gen := l.gen
	var tick func()
	tick = func() {
		if !l.mounted || gen != l.gen {
			return
		}
		l.animator.Frame(l.surface)
		l.frames++
		if l.mounted && gen == l.gen {
			l.scheduler.RequestNextFrame(tick)
		}
	}
	l.scheduler.RequestNextFrame(tick)
	return nil
}

// Resize swaps in a surface for the new size and reseeds before the next
// frame. An unmounted loop is mounted. If the new size cannot be drawn into
// the loop stops.
func (l *Loop) Resize(width, height int) error {
	return l.Mount(width, height)
}

// Unmount stops the loop after the current frame.
func (l *Loop) Unmount() {
	l.unmount()
}

func (l *Loop) unmount() {
	l.mounted = false
	l.surface = nil
}

// Mounted reports whether the loop is running.
func (l *Loop) Mounted() bool {
	return l.mounted
}

// Surface returns the current surface, nil while unmounted.
func (l *Loop) Surface() Surface {
	return l.surface
}

// Animator returns the driven animator.
func (l *Loop) Animator() *Animator {
	return l.animator
}

// Frames returns how many frames the loop has drawn.
func (l *Loop) Frames() uint64 {
	return l.frames
}
