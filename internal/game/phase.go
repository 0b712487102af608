package game

import (
	"sync"
	"time"
)

// Phase is one stage of the game loop. A game runs
// open → night → day → vote → night → … until end.
type Phase string

const (
	PhaseOpen  Phase = "open"
	PhaseNight Phase = "night"
	PhaseDay   Phase = "day"
	PhaseVote  Phase = "vote"
	PhaseEnd   Phase = "end"
)

// Korean display names for announcements.
func (p Phase) Display() string {
	switch p {
	case PhaseOpen:
		return "모집"
	case PhaseNight:
		return "밤"
	case PhaseDay:
		return "낮"
	case PhaseVote:
		return "투표"
	case PhaseEnd:
		return "종료"
	}
	return string(p)
}

// PhaseClock tracks the current phase and fires a callback when its
// timer runs out. The callback runs outside the lock, on the timer
// goroutine, and receives the phase that just expired.
type PhaseClock struct {
	mu       sync.Mutex
	current  Phase
	dayCount int
	deadline time.Time
	timer    *time.Timer
	onExpire func(expired Phase)
}

func NewPhaseClock(onExpire func(expired Phase)) *PhaseClock {
	return &PhaseClock{current: PhaseEnd, onExpire: onExpire}
}

// Set switches to the given phase and arms the expiry timer. A zero or
// negative duration leaves the phase untimed. Entering the day phase
// advances the day counter.
func (c *PhaseClock) Set(phase Phase, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	if phase == PhaseDay && c.current != PhaseDay {
		c.dayCount++
	}
	c.current = phase
	c.deadline = time.Time{}

	if phase == PhaseEnd || duration <= 0 {
		return
	}

	c.deadline = time.Now().Add(duration)
	c.timer = time.AfterFunc(duration, func() {
		c.mu.Lock()
		// A manual advance may have moved the clock on already.
		stale := c.current != phase
		c.mu.Unlock()
		if stale || c.onExpire == nil {
			return
		}
		c.onExpire(phase)
	})
}

// Stop halts the timer and parks the clock in the end phase.
func (c *PhaseClock) Stop() {
	c.Set(PhaseEnd, 0)
}

func (c *PhaseClock) Current() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *PhaseClock) DayCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dayCount
}

// Remaining is the time left in the current phase, zero when untimed.
func (c *PhaseClock) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deadline.IsZero() {
		return 0
	}
	left := time.Until(c.deadline)
	if left < 0 {
		return 0
	}
	return left
}
