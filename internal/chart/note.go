package chart

import "time"

// Note is the durable artifact of generation: one key press the player owes
// at Time on Lane.
type Note struct {
	Time time.Duration
	Lane int
}

// Chart is the ordered note sequence generated for one track, along with the
// parameters that produced it. Notes are sorted ascending by time and, apart
// from the synthetic coverage notes, spaced at least Difficulty seconds.
type Chart struct {
	Notes      []Note
	Duration   time.Duration
	Difficulty float64
	Lanes      int
}

// Candidate is a transient event produced by extraction, in seconds.
// Onset-derived candidates carry zero energy; RMS peaks carry their RMS.
type Candidate struct {
	Time   float64
	Energy float64
}
