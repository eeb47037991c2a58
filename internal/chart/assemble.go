package chart

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
)

// dedupBucket clusters near-coincident candidates so a rhythmic onset and an
// energy peak at the same instant produce one note, not two.
const dedupBucket = 0.05 // seconds

// assemble merges the candidate streams into the final note sequence: bucket
// deduplication (strongest energy wins, ties to the earliest seen), time
// ordering, linear energy normalization, a single greedy spacing and lane
// pass, and the start/end coverage guarantee.
func assemble(cands []Candidate, duration float64, p Params) []Note {
	var notes []Note
	if len(cands) > 0 {
		best := make(map[int]int, len(cands))
		for i, c := range cands {
			b := bucket(c.Time)
			j, ok := best[b]
			if !ok || c.Energy > cands[j].Energy {
				best[b] = i
			}
		}
		merged := make([]Candidate, 0, len(best))
		for i, c := range cands {
			if best[bucket(c.Time)] == i {
				merged = append(merged, c)
			}
		}
		sort.Slice(merged, func(i, j int) bool { return merged[i].Time < merged[j].Time })

		energies := make([]float64, len(merged))
		for i, c := range merged {
			energies[i] = c.Energy
		}
		lo, hi := floats.Min(energies), floats.Max(energies)

		lastTime := math.Inf(-1)
		lastLane := -1
		for i, c := range merged {
			if c.Time-lastTime < p.Difficulty {
				continue
			}
			norm := 0.0
			if hi > lo {
				norm = (energies[i] - lo) / (hi - lo)
			}
			lane := int(norm * float64(p.Lanes))
			if lane > p.Lanes-1 {
				lane = p.Lanes - 1
			}
			if lastLane >= 0 && lane == lastLane {
				lane = (lane + 1) % p.Lanes
			}
			notes = append(notes, Note{Time: toDuration(c.Time), Lane: lane})
			lastTime = c.Time
			lastLane = lane
		}
	}

	// A playable chart always has something near the start and the end. A
	// synthetic note sits on lane 0 or the last lane, shifted inward by one
	// when its neighbor already holds that lane.
	if len(notes) == 0 {
		return []Note{
			{Time: 100 * time.Millisecond, Lane: 0},
			{Time: toDuration(math.Max(0.2, duration-0.05)), Lane: p.Lanes - 1},
		}
	}
	if notes[0].Time > 250*time.Millisecond {
		lane := 0
		if notes[0].Lane == lane {
			lane = 1
		}
		notes = append([]Note{{Time: 100 * time.Millisecond, Lane: lane}}, notes...)
	}
	if notes[len(notes)-1].Time < toDuration(duration-0.25) {
		lane := p.Lanes - 1
		if notes[len(notes)-1].Lane == lane {
			lane = p.Lanes - 2
		}
		notes = append(notes, Note{Time: toDuration(math.Max(0.05, duration-0.05)), Lane: lane})
	}
	return notes
}

func bucket(t float64) int {
	return int(math.Floor(t / dedupBucket))
}
