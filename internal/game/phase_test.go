package game

import (
	"testing"
	"time"
)

func TestPhaseClockDayCount(t *testing.T) {
	c := NewPhaseClock(nil)

	if c.Current() != PhaseEnd {
		t.Fatalf("initial phase = %s, want end", c.Current())
	}
	if c.DayCount() != 0 {
		t.Fatalf("initial day count = %d, want 0", c.DayCount())
	}

	c.Set(PhaseNight, 0)
	c.Set(PhaseDay, 0)
	c.Set(PhaseVote, 0)
	c.Set(PhaseNight, 0)
	c.Set(PhaseDay, 0)

	if c.DayCount() != 2 {
		t.Errorf("day count = %d, want 2", c.DayCount())
	}

	// Re-setting the same phase must not advance the counter.
	c.Set(PhaseDay, 0)
	if c.DayCount() != 2 {
		t.Errorf("day count after repeat = %d, want 2", c.DayCount())
	}
}

func TestPhaseClockRemaining(t *testing.T) {
	c := NewPhaseClock(nil)

	c.Set(PhaseNight, 0)
	if c.Remaining() != 0 {
		t.Errorf("untimed remaining = %v, want 0", c.Remaining())
	}

	c.Set(PhaseDay, time.Minute)
	left := c.Remaining()
	if left <= 0 || left > time.Minute {
		t.Errorf("remaining = %v, want within (0, 1m]", left)
	}

	c.Stop()
	if c.Current() != PhaseEnd {
		t.Errorf("phase after stop = %s, want end", c.Current())
	}
	if c.Remaining() != 0 {
		t.Errorf("remaining after stop = %v, want 0", c.Remaining())
	}
}

func TestPhaseClockStaleTimerIgnored(t *testing.T) {
	fired := make(chan Phase, 1)
	c := NewPhaseClock(func(expired Phase) { fired <- expired })

	c.Set(PhaseNight, 10*time.Millisecond)
	// Manual advance before the timer fires makes it stale.
	c.Set(PhaseDay, 0)

	select {
	case expired := <-fired:
		t.Fatalf("stale timer fired for phase %s", expired)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPhaseDisplay(t *testing.T) {
	cases := map[Phase]string{
		PhaseOpen:  "모집",
		PhaseNight: "밤",
		PhaseDay:   "낮",
		PhaseVote:  "투표",
		PhaseEnd:   "종료",
	}
	for phase, want := range cases {
		if got := phase.Display(); got != want {
			t.Errorf("Display(%s) = %s, want %s", phase, got, want)
		}
	}
}
