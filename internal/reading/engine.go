package reading

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Errors returned when building a reading from caller-supplied values.
var (
	ErrUnknownSignal     = errors.New("unknown trend signal")
	ErrUnknownConfidence = errors.New("unknown confidence level")
)

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

type pcgRNG struct {
	r *rand.Rand
}

func (p pcgRNG) Intn(n int) int { return p.r.IntN(n) }

// NewRNG returns a PCG-backed RNG seeded from seed.
func NewRNG(seed uint64) RNG {
	return pcgRNG{r: rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb))}
}

// Engine draws readings. Its only state is the randomness source, so it is
// safe for concurrent use.
type Engine struct {
	mu  sync.Mutex
	rng RNG

	now   func() time.Time
	newID func() uuid.UUID
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRNG sets the randomness source.
func WithRNG(rng RNG) EngineOption {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithClock sets the clock used to stamp sets.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine. Without options it uses a time-seeded RNG and
// the wall clock.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		now:   time.Now,
		newID: uuid.New,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewRNG(uint64(time.Now().UnixNano()))
	}
	return e
}

// InitialReading builds a reading with a caller-chosen theme card, signal and
// confidence, and random daily cards.
func (e *Engine) InitialReading(themeIndex int, signal TrendSignal, confidence Confidence) (MarketReading, error) {
	theme, err := CardAt(themeIndex)
	if err != nil {
		return MarketReading{}, fmt.Errorf("initial reading theme: %w", err)
	}
	if !signal.Valid() {
		return MarketReading{}, fmt.Errorf("%w: %q", ErrUnknownSignal, signal)
	}
	if !confidence.Valid() {
		return MarketReading{}, fmt.Errorf("%w: %q", ErrUnknownConfidence, confidence)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return MarketReading{
		Theme:      theme,
		Signal:     signal,
		Confidence: confidence,
		Days:       e.drawDays(),
	}, nil
}

// GenerateReading draws a whole reading. Every field is drawn independently
// and uniformly, with replacement.
func (e *Engine) GenerateReading() MarketReading {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generate()
}

// GenerateSet draws one reading per market.
func (e *Engine) GenerateSet() Set {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Set{
		ID:          e.newID(),
		GeneratedAt: e.now(),
		Equities:    e.generate(),
		Crypto:      e.generate(),
	}
}

// InitialSet is the set shown before the first trigger: equities under THE
// TOWER rising strongly, crypto under THE MOON falling weakly.
func (e *Engine) InitialSet() (Set, error) {
	equities, err := e.InitialReading(TheTower, Rising, Strong)
	if err != nil {
		return Set{}, err
	}
	crypto, err := e.InitialReading(TheMoon, Falling, Weak)
	if err != nil {
		return Set{}, err
	}
	return Set{
		ID:          e.newID(),
		GeneratedAt: e.now(),
		Equities:    equities,
		Crypto:      crypto,
	}, nil
}

func (e *Engine) generate() MarketReading {
	return MarketReading{
		Theme:      deck[e.rng.Intn(DeckSize)],
		Signal:     Signals[e.rng.Intn(len(Signals))],
		Confidence: Confidences[e.rng.Intn(len(Confidences))],
		Days:       e.drawDays(),
	}
}

func (e *Engine) drawDays() map[Weekday]Card {
	days := make(map[Weekday]Card, len(Weekdays))
	for _, d := range Weekdays {
		days[d] = deck[e.rng.Intn(DeckSize)]
	}
	return days
}
