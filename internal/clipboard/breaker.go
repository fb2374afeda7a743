package clipboard

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is the breaker state of a guarded strategy.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Guard wraps a strategy with a circuit breaker. After Trips consecutive
// failures the strategy reports itself unavailable for Cooldown, then gets
// one trial write. Unavailable errors do not count as failures.
//
// Interactive sessions use it so a clipboard that keeps timing out does not
// stall every later click.
type Guard struct {
	Strategy

	trips    int
	cooldown time.Duration
	onChange func(name string, from, to State)
	now      func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	until    time.Time
}

// NewGuard wraps s. Non-positive trips or cooldown get defaults of 3 and
// 30 seconds.
func NewGuard(s Strategy, trips int, cooldown time.Duration) *Guard {
	if trips <= 0 {
		trips = 3
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Guard{Strategy: s, trips: trips, cooldown: cooldown, now: time.Now}
}

// OnStateChange registers a callback for breaker transitions.
func (g *Guard) OnStateChange(fn func(name string, from, to State)) *Guard {
	g.onChange = fn
	return g
}

// State returns the current breaker state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current()
}

// Available is false while the breaker is open.
func (g *Guard) Available() bool {
	g.mu.Lock()
	open := g.current() == StateOpen
	g.mu.Unlock()
	if open {
		return false
	}
	return g.Strategy.Available()
}

func (g *Guard) Write(ctx context.Context, text string) error {
	err := g.Strategy.Write(ctx, text)

	g.mu.Lock()
	defer g.mu.Unlock()
	state := g.current()
	switch {
	case err == nil:
		g.failures = 0
		g.setState(StateClosed)
	case errors.Is(err, ErrUnavailable):
	case state == StateHalfOpen:
		g.setState(StateOpen)
	default:
		g.failures++
		if g.failures >= g.trips {
			g.setState(StateOpen)
		}
	}
	return err
}

// current must be called with mu held.
func (g *Guard) current() State {
	if g.state == StateOpen && !g.now().Before(g.until) {
		g.setState(StateHalfOpen)
	}
	return g.state
}

// setState must be called with mu held.
func (g *Guard) setState(state State) {
	if g.state == state {
		return
	}
	prev := g.state
	g.state = state
	if state == StateOpen {
		g.until = g.now().Add(g.cooldown)
		g.failures = 0
	}
	if g.onChange != nil {
		g.onChange(g.Name(), prev, state)
	}
}

// Guarded wraps every strategy in its own Guard.
func Guarded(strategies []Strategy, trips int, cooldown time.Duration, onChange func(name string, from, to State)) []Strategy {
	out := make([]Strategy, 0, len(strategies))
	for _, s := range strategies {
		out = append(out, NewGuard(s, trips, cooldown).OnStateChange(onChange))
	}
	return out
}
