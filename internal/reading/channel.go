package reading

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultChannelDelay is the pause before a new set is revealed.
const DefaultChannelDelay = 2500 * time.Millisecond

// ErrBusy is returned by Begin while an earlier channel is still pending.
var ErrBusy = errors.New("reading: already channeling")

// Channeler wraps set generation in a cosmetic delay. At most one channel runs
// at a time, and a pending channel can be abandoned through its context.
type Channeler struct {
	engine *Engine
	delay  time.Duration

	mu   sync.Mutex
	busy bool
}

// NewChanneler creates a channeler. A non-positive delay generates at once.
func NewChanneler(e *Engine, delay time.Duration) *Channeler {
	return &Channeler{engine: e, delay: delay}
}

// Delay returns the configured delay.
func (c *Channeler) Delay() time.Duration {
	return c.delay
}

// Busy reports whether a channel is pending.
func (c *Channeler) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Ticket is a pending channel.
type Ticket struct {
	done   chan struct{}
	cancel context.CancelFunc
	set    Set
	err    error
}

// Begin starts a channel. The set is generated once the delay elapses; if ctx
// ends first nothing is generated and Wait reports the context error.
func (c *Channeler) Begin(ctx context.Context) (*Ticket, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.busy = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t := &Ticket{done: make(chan struct{}), cancel: cancel}

	go func() {
		defer func() {
			cancel()
			c.mu.Lock()
			c.busy = false
			c.mu.Unlock()
			close(t.done)
		}()

		if c.delay > 0 {
			timer := time.NewTimer(c.delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				t.err = ctx.Err()
				return
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			t.err = err
			return
		}
		t.set = c.engine.GenerateSet()
	}()

	return t, nil
}

// Done is closed when the channel resolves.
func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Cancel abandons the channel. It is a no-op once resolved.
func (t *Ticket) Cancel() {
	t.cancel()
}

// Wait blocks until the channel resolves.
func (t *Ticket) Wait() (Set, error) {
	<-t.done
	return t.set, t.err
}
