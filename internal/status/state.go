package status

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/matheus3301/securechat/internal/bus"
)

// State represents a daemon runtime state.
type State string

const (
	Booting  State = "BOOTING"
	Seeding  State = "SEEDING"
	Ready    State = "READY"
	Stopping State = "STOPPING"
	Error    State = "ERROR"
)

// validTransitions defines allowed state transitions.
var validTransitions = map[State][]State{
	Booting:  {Seeding, Stopping, Error},
	Seeding:  {Ready, Stopping, Error},
	Ready:    {Stopping, Error},
	Stopping: {Error},
	Error:    {Booting},
}

// Machine tracks and enforces daemon runtime state transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	since   time.Time
	bus     *bus.Bus
}

// NewMachine creates a new state machine starting in Booting state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Booting,
		since:   time.Now(),
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Since returns when the current state was entered.
func (m *Machine) Since() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.since
}

// Transition attempts to move to a new state. Returns error if transition is invalid.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		from := m.current
		m.mu.Unlock()
		return fmt.Errorf("invalid transition from %s to %s", from, to)
	}
	from := m.current
	m.current = to
	m.since = time.Now()
	m.mu.Unlock()

	m.bus.Publish(bus.Event{
		Kind:      bus.KindSessionStatusChanged,
		Timestamp: time.Now(),
		Payload:   StatusChange{From: from, To: to},
	})
	return nil
}

// Fail moves to Error from any state except Error itself.
func (m *Machine) Fail() {
	if m.Current() == Error {
		return
	}
	_ = m.Transition(Error)
}

// StatusChange is the payload for status change events.
type StatusChange struct {
	From State
	To   State
}
