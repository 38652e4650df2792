// Package gate implements the debouncer and processing gate: a per-path
// Idle/InFlight flag and a 200ms cancellable debounce timer that
// together break the feedback loop between writing a derived file and
// observing its own change notification.
package gate

import (
	"sync"
	"time"
)

// DebounceDelay is the fixed coalescing window for change events.
const DebounceDelay = 200 * time.Millisecond

type pathState int

const (
	stateIdle pathState = iota
	stateInFlight
)

// Gate coordinates per-path debounce timers and the Idle/InFlight
// processing-gate flag: one timer per path, stored in a map keyed by
// path; a new event cancels the old timer before arming the new one.
type Gate struct {
	mu     sync.Mutex
	states map[string]pathState
	timers map[string]*time.Timer
}

// New constructs an empty Gate.
func New() *Gate {
	return &Gate{
		states: make(map[string]pathState),
		timers: make(map[string]*time.Timer),
	}
}

// OnChange registers a change event for path. If the path is currently
// InFlight, the event is dropped. Otherwise it cancels
// any existing timer and starts a new DebounceDelay timer; on expiry, fire
// is invoked with the path now marked InFlight.
func (g *Gate) OnChange(path string, fire func(path string)) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.states[path] == stateInFlight {
		return
	}
	if t, ok := g.timers[path]; ok {
		t.Stop()
	}
	g.timers[path] = time.AfterFunc(DebounceDelay, func() {
		g.mu.Lock()
		g.states[path] = stateInFlight
		delete(g.timers, path)
		g.mu.Unlock()
		fire(path)
	})
}

// Release returns path to the Idle state once the corresponding
// FileTransformed event has been observed.
func (g *Gate) Release(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.states[path] = stateIdle
}

// IsInFlight reports path's current gate state, primarily for tests.
func (g *Gate) IsInFlight(path string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.states[path] == stateInFlight
}

// CancelPending stops path's pending debounce timer without affecting its
// Idle/InFlight state, used when a file is removed mid-debounce.
func (g *Gate) CancelPending(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t, ok := g.timers[path]; ok {
		t.Stop()
		delete(g.timers, path)
	}
}
