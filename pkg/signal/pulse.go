package signal

import (
	"sync"
	"time"
)

// Pulse is an edge-triggered flag. Trigger sets it active and schedules a
// reset after the hold duration; triggering again while active does nothing
// (no extension, no second edge). It drives transient UI markers such as a
// busy indicator.
type Pulse struct {
	hold time.Duration

	mu     sync.Mutex
	active bool
}

// NewPulse creates a pulse that stays active for hold after a trigger.
func NewPulse(hold time.Duration) *Pulse {
	return &Pulse{hold: hold}
}

// Trigger activates the pulse. The reset always happens hold later,
// whatever else goes on in between.
func (p *Pulse) Trigger() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active {
		return
	}
	p.active = true

	time.AfterFunc(p.hold, func() {
		p.mu.Lock()
		p.active = false
		p.mu.Unlock()
	})
}

// Active reports whether the pulse is currently set.
func (p *Pulse) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}
