package game

import (
	"time"

	"github.com/beatfall/beatfall/internal/chart"
)

// Input is one key-down event stamped with the song time it arrived at.
type Input struct {
	Lane int
	Time time.Duration
}

// ScoreState holds every judgment-owned counter. Sessions hand out copies;
// nothing outside the session mutates one.
type ScoreState struct {
	Score         int
	Combo         int
	MaxCombo      int
	Multiplier    int
	PerfectStreak int
	Perfects      int
	Goods         int
	Missed        int
	Accuracy      float64
}

// Hit describes one resolved note, for rendering.
type Hit struct {
	Note      chart.Note
	Judgement Judgement
	Delta     time.Duration // note time minus press time, positive when early
}

type EventKind int

const (
	EventStarted EventKind = iota
	EventPaused
	EventResumed
	EventEnded
	EventAbandoned
)

// Event is a lifecycle signal for the host. Ended and Abandoned carry the
// final counters.
type Event struct {
	Kind     EventKind
	Score    int
	MaxCombo int
	Accuracy float64
}

// Session drives one play-through. It owns a dense copy of the chart's notes
// with a parallel resolved set, so resolving a note during iteration is a
// single flag write. All mutation happens through Tick on one goroutine.
type Session struct {
	clock *Clock

	notes    []chart.Note
	resolved []bool
	lanes    [][]int // note indices per lane, ascending time
	cursor   []int   // per lane, first possibly-unresolved position
	sweep    int     // global index, first possibly-unresolved note

	remaining int
	length    time.Duration
	state     ScoreState
	events    chan Event
}

func NewSession(c *chart.Chart, clock *Clock) *Session {
	s := &Session{
		clock:     clock,
		notes:     append([]chart.Note(nil), c.Notes...),
		resolved:  make([]bool, len(c.Notes)),
		lanes:     make([][]int, c.Lanes),
		cursor:    make([]int, c.Lanes),
		remaining: len(c.Notes),
		length:    c.Duration,
		state:     ScoreState{Multiplier: 1, Accuracy: 100},
		events:    make(chan Event, 8),
	}
	for i, n := range s.notes {
		if n.Lane >= 0 && n.Lane < len(s.lanes) {
			s.lanes[n.Lane] = append(s.lanes[n.Lane], i)
		}
	}
	return s
}

func (s *Session) Events() <-chan Event {
	return s.events
}

// Start begins the countdown.
func (s *Session) Start() {
	s.clock.Start()
}

func (s *Session) Phase() Phase {
	return s.clock.Phase()
}

func (s *Session) SongTime() time.Duration {
	return s.clock.SongTime()
}

func (s *Session) CountdownRemaining() time.Duration {
	return s.clock.Remaining()
}

func (s *Session) State() ScoreState {
	return s.state
}

func (s *Session) Remaining() int {
	return s.remaining
}

func (s *Session) Total() int {
	return len(s.notes)
}

func (s *Session) Length() time.Duration {
	return s.length
}

// TickResult is what one update produced, for rendering.
type TickResult struct {
	Phase   Phase
	Now     time.Duration
	Started bool
	Hits    []Hit
	Missed  []chart.Note
	Whiffs  []Input
}

// Tick advances the clock, applies queued inputs in arrival order, then
// sweeps for timed-out notes. The session ends once every note is resolved
// and the song time has passed the track length.
func (s *Session) Tick(inputs []Input) TickResult {
	var res TickResult
	if s.clock.Advance() {
		res.Started = true
		s.emit(Event{Kind: EventStarted})
	}
	res.Phase = s.clock.Phase()
	res.Now = s.clock.SongTime()
	if res.Phase != PhasePlaying {
		return res
	}
	for _, in := range inputs {
		if hit, ok := s.apply(in); ok {
			res.Hits = append(res.Hits, hit)
		} else {
			res.Whiffs = append(res.Whiffs, in)
		}
	}
	res.Missed = s.sweepMisses(res.Now)
	if s.remaining == 0 && res.Now >= s.length {
		s.clock.End()
		res.Phase = PhaseEnded
		s.emit(Event{Kind: EventEnded, Score: s.state.Score, MaxCombo: s.state.MaxCombo, Accuracy: s.state.Accuracy})
	}
	return res
}

// apply resolves the unresolved note in the pressed lane nearest to the
// press by absolute time distance. A press with nothing inside the hit
// window is a whiff: combo and multiplier reset, but it is not a miss.
func (s *Session) apply(in Input) (Hit, bool) {
	best := -1
	bestAbs := 24 * time.Hour
	if in.Lane >= 0 && in.Lane < len(s.lanes) {
		idxs := s.lanes[in.Lane]
		for _, ni := range idxs[s.cursor[in.Lane]:] {
			if s.resolved[ni] {
				continue
			}
			d := abs(s.notes[ni].Time - in.Time)
			if d < bestAbs {
				bestAbs = d
				best = ni
			} else if best >= 0 {
				// notes are in time order, distances only grow from here
				break
			}
		}
	}
	if best < 0 || bestAbs > HitWindow {
		s.state.Combo = 0
		s.state.Multiplier = 1
		s.state.PerfectStreak = 0
		return Hit{}, false
	}
	s.resolve(best)
	s.state.Combo++
	if s.state.Combo > s.state.MaxCombo {
		s.state.MaxCombo = s.state.Combo
	}
	s.state.Score += BaseScore * s.state.Multiplier
	j := JudgementGood
	if bestAbs <= PerfectWindow {
		j = JudgementPerfect
		s.state.Perfects++
		s.state.PerfectStreak++
		if s.state.PerfectStreak >= PerfectsPerMultiplier {
			s.state.PerfectStreak = 0
			if s.state.Multiplier < MaxMultiplier {
				s.state.Multiplier++
			}
		}
	} else {
		s.state.Goods++
	}
	return Hit{Note: s.notes[best], Judgement: j, Delta: s.notes[best].Time - in.Time}, true
}

// sweepMisses resolves every note the clock has passed by more than the miss
// threshold. Notes are in time order, so the scan stops at the first one
// still in reach.
func (s *Session) sweepMisses(now time.Duration) []chart.Note {
	var missed []chart.Note
	for i := s.sweep; i < len(s.notes); i++ {
		if now <= s.notes[i].Time+MissThreshold {
			break
		}
		if s.resolved[i] {
			continue
		}
		s.resolve(i)
		s.state.Missed++
		s.state.Combo = 0
		s.state.Multiplier = 1
		s.state.PerfectStreak = 0
		missed = append(missed, s.notes[i])
	}
	for s.sweep < len(s.notes) && s.resolved[s.sweep] {
		s.sweep++
	}
	if len(missed) > 0 {
		s.state.Accuracy = s.accuracy()
	}
	return missed
}

// Pause freezes the clock; the host stops playback alongside.
func (s *Session) Pause() bool {
	if !s.clock.Pause() {
		return false
	}
	s.emit(Event{Kind: EventPaused})
	return true
}

func (s *Session) Resume() bool {
	if !s.clock.Resume() {
		return false
	}
	s.emit(Event{Kind: EventResumed})
	return true
}

// Abandon ends the session early, from any phase.
func (s *Session) Abandon() {
	if s.clock.Phase() == PhaseEnded {
		return
	}
	s.clock.End()
	s.emit(Event{Kind: EventAbandoned, Score: s.state.Score, MaxCombo: s.state.MaxCombo, Accuracy: s.state.Accuracy})
}

// Active calls fn for each unresolved note with time in [from, to],
// ascending. This is the read view rendering works from.
func (s *Session) Active(from, to time.Duration, fn func(chart.Note)) {
	for i := s.sweep; i < len(s.notes); i++ {
		n := s.notes[i]
		if n.Time > to {
			break
		}
		if s.resolved[i] || n.Time < from {
			continue
		}
		fn(n)
	}
}

// emit delivers a lifecycle signal without blocking the tick loop; a host
// that stops draining loses signals rather than stalling the game.
func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
	}
}

func (s *Session) accuracy() float64 {
	total := len(s.notes)
	if total == 0 {
		return 100
	}
	return float64(total-s.state.Missed) / float64(total) * 100
}

func (s *Session) resolve(i int) {
	s.resolved[i] = true
	s.remaining--
	lane := s.notes[i].Lane
	if lane < 0 || lane >= len(s.lanes) {
		return
	}
	idxs := s.lanes[lane]
	for s.cursor[lane] < len(idxs) && s.resolved[idxs[s.cursor[lane]]] {
		s.cursor[lane]++
	}
}

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}
