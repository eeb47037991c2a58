package game

import "time"

type Judgement int

const (
	JudgementPerfect Judgement = iota
	JudgementGood
	JudgementMiss
)

func (j Judgement) String() string {
	switch j {
	case JudgementPerfect:
		return "Perfect"
	case JudgementGood:
		return "Good"
	case JudgementMiss:
		return "Miss"
	default:
		return "?"
	}
}

const (
	// HitWindow is the tolerance either side of a note's time within which a
	// key press counts as a hit; PerfectWindow is the tight band inside it.
	HitWindow     = 150 * time.Millisecond
	PerfectWindow = 50 * time.Millisecond

	// MissThreshold is how far past a note's time the sweep waits before
	// resolving it as missed.
	MissThreshold = 200 * time.Millisecond

	BaseScore             = 100
	PerfectsPerMultiplier = 5
	MaxMultiplier         = 7
)
