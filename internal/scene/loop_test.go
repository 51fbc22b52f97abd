package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingFactory(created *[]*recordingSurface) SurfaceFactory {
	return func(w, h int) (Surface, error) {
		if w < MinCols || h < MinRows {
			return nil, ErrSurfaceUnavailable
		}
		s := &recordingSurface{w: float64(w) * CellWidth, h: float64(h) * CellHeight}
		*created = append(*created, s)
		return s, nil
	}
}

func newTestLoop(t *testing.T) (*Loop, *FrameQueue, *[]*recordingSurface) {
	t.Helper()
	var created []*recordingSurface
	q := &FrameQueue{}
	l, err := NewLoop(newTestAnimator(t, nil), q, recordingFactory(&created))
	require.NoError(t, err)
	return l, q, &created
}

func TestFrameQueue(t *testing.T) {
	q := &FrameQueue{}
	assert.False(t, q.Step())

	calls := 0
	q.RequestNextFrame(func() { calls++ })
	q.RequestNextFrame(func() { calls += 10 })
	assert.True(t, q.Pending())
	assert.True(t, q.Step())
	assert.Equal(t, 10, calls, "later request replaces earlier one")
	assert.False(t, q.Pending())
	assert.False(t, q.Step())
}

func TestNewLoop_Validates(t *testing.T) {
	_, err := NewLoop(nil, nil, NewCanvasSurface)
	assert.ErrorIs(t, err, ErrNilAnimator)

	_, err = NewLoop(newTestAnimator(t, nil), nil, nil)
	assert.ErrorIs(t, err, ErrNilSurfaceFactory)
}

func TestLoop_MountFailureNeverStarts(t *testing.T) {
	l, q, created := newTestLoop(t)

	err := l.Mount(10, 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSurfaceUnavailable)
	assert.False(t, l.Mounted())
	assert.False(t, q.Pending())
	assert.Nil(t, l.Surface())
	assert.Empty(t, *created)
	assert.Equal(t, uint64(0), l.Animator().State().Frame)
}

func TestLoop_RunsWhileMounted(t *testing.T) {
	l, q, created := newTestLoop(t)
	require.NoError(t, l.Mount(80, 24))

	w, h := l.Animator().State().Field.Size()
	assert.Equal(t, 640.0, w)
	assert.Equal(t, 384.0, h)
	assert.Equal(t, uint64(0), l.Frames(), "mount only schedules")

	for i := 0; i < 3; i++ {
		require.True(t, q.Step())
	}
	assert.Equal(t, uint64(3), l.Frames())
	assert.Equal(t, uint64(3), l.Animator().State().Frame)
	assert.True(t, q.Pending())
	require.Len(t, *created, 1)
	assert.NotEmpty(t, (*created)[0].ops)
}

func TestLoop_UnmountStopsRescheduling(t *testing.T) {
	l, q, _ := newTestLoop(t)
	require.NoError(t, l.Mount(80, 24))
	require.True(t, q.Step())

	l.Unmount()
	assert.False(t, l.Mounted())

	// The already-queued callback runs once, draws nothing and stops.
	assert.True(t, q.Step())
	assert.False(t, q.Pending())
	assert.Equal(t, uint64(1), l.Frames())
}

func TestLoop_RemountRunsSingleChain(t *testing.T) {
	l, q, _ := newTestLoop(t)
	require.NoError(t, l.Mount(80, 24))
	l.Unmount()
	require.NoError(t, l.Mount(80, 24))

	for i := 0; i < 4; i++ {
		require.True(t, q.Step())
	}
	assert.Equal(t, uint64(4), l.Frames())
}

func TestLoop_ResizeReseeds(t *testing.T) {
	l, q, created := newTestLoop(t)
	require.NoError(t, l.Mount(80, 24))
	require.True(t, q.Step())

	require.NoError(t, l.Resize(100, 30))
	w, h := l.Animator().State().Field.Size()
	assert.Equal(t, 800.0, w)
	assert.Equal(t, 480.0, h)
	assert.Len(t, *created, 2)
	assert.True(t, q.Pending(), "resize keeps the running chain")

	require.True(t, q.Step())
	assert.Equal(t, uint64(2), l.Frames())
}

func TestLoop_ResizeTooSmallStops(t *testing.T) {
	l, q, _ := newTestLoop(t)
	require.NoError(t, l.Mount(80, 24))

	err := l.Resize(10, 4)
	assert.ErrorIs(t, err, ErrSurfaceUnavailable)
	assert.False(t, l.Mounted())

	q.Step()
	assert.Equal(t, uint64(0), l.Frames())

	require.NoError(t, l.Resize(80, 24))
	assert.True(t, l.Mounted())
}
