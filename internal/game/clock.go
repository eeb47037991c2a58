package game

import "time"

type Phase int

const (
	PhaseCountdown Phase = iota
	PhasePlaying
	PhasePaused
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseCountdown:
		return "countdown"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Clock produces the authoritative song time for one session. Song time runs
// negative through the countdown, then advances as wall time plus the
// configured latency offset, minus time spent paused. Pausing freezes the
// value exactly; resuming continues from the frozen point.
type Clock struct {
	now func() time.Time

	phase     Phase
	countdown time.Duration
	offset    time.Duration

	countdownStart time.Time
	sessionStart   time.Time
	pauseStart     time.Time
	pausedFor      time.Duration
	frozen         time.Duration
}

func NewClock(countdown, offset time.Duration) *Clock {
	return &Clock{
		now:       time.Now,
		phase:     PhaseCountdown,
		countdown: countdown,
		offset:    offset,
	}
}

func (c *Clock) Phase() Phase {
	return c.phase
}

// Start begins the countdown. The session start tick is latched later, by
// the Advance call that crosses into the playing phase.
func (c *Clock) Start() {
	c.countdownStart = c.now()
}

// Advance moves the countdown into the playing phase once the countdown has
// elapsed. It returns true on exactly the tick the transition fires, which
// is the host's cue to start media playback.
func (c *Clock) Advance() bool {
	if c.phase != PhaseCountdown {
		return false
	}
	if c.now().Sub(c.countdownStart) < c.countdown {
		return false
	}
	// Latch the scheduled start, not the tick that observed it, so a slow
	// tick does not shift every note.
	c.sessionStart = c.countdownStart.Add(c.countdown)
	c.phase = PhasePlaying
	return true
}

// SongTime is negative during the countdown, frozen while paused, and
// otherwise elapsed wall time since the session start adjusted by the
// latency offset and accumulated pause time.
func (c *Clock) SongTime() time.Duration {
	switch c.phase {
	case PhaseCountdown:
		return c.now().Sub(c.countdownStart) - c.countdown + c.offset
	case PhasePaused, PhaseEnded:
		return c.frozen
	default:
		return c.now().Sub(c.sessionStart) + c.offset - c.pausedFor
	}
}

// Remaining is the countdown time left, zero once playing.
func (c *Clock) Remaining() time.Duration {
	if c.phase != PhaseCountdown {
		return 0
	}
	left := c.countdown - c.now().Sub(c.countdownStart)
	if left < 0 {
		return 0
	}
	return left
}

func (c *Clock) Pause() bool {
	if c.phase != PhasePlaying {
		return false
	}
	c.frozen = c.SongTime()
	c.pauseStart = c.now()
	c.phase = PhasePaused
	return true
}

func (c *Clock) Resume() bool {
	if c.phase != PhasePaused {
		return false
	}
	c.pausedFor += c.now().Sub(c.pauseStart)
	c.phase = PhasePlaying
	return true
}

func (c *Clock) End() {
	if c.phase != PhaseEnded {
		c.frozen = c.SongTime()
		c.phase = PhaseEnded
	}
}
