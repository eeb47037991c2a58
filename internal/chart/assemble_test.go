package chart

import (
	"math"
	"reflect"
	"testing"
	"time"
)

var defaultParams = Params{Difficulty: 0.2, Lanes: 4}

// within sidesteps the float-to-duration rounding at bucket edges.
func within(d time.Duration, sec float64) bool {
	return math.Abs(d.Seconds()-sec) < 0.001
}

func TestAssembleEmptyCoverage(t *testing.T) {
	notes := assemble(nil, 10, defaultParams)
	if len(notes) != 2 {
		t.Fatalf("got %v notes, expected 2: %+v", len(notes), notes)
	}
	if !within(notes[0].Time, 0.1) || notes[0].Lane != 0 {
		t.Errorf("start note %+v, expected 0.1s on lane 0", notes[0])
	}
	if !within(notes[1].Time, 9.95) || notes[1].Lane != 3 {
		t.Errorf("end note %+v, expected 9.95s on lane 3", notes[1])
	}
}

func TestAssembleDedupKeepsStrongest(t *testing.T) {
	cands := []Candidate{
		{Time: 0.21, Energy: 1},
		{Time: 0.22, Energy: 5},
		{Time: 0.24, Energy: 2},
	}
	notes := assemble(cands, 0.4, defaultParams)
	if len(notes) != 1 {
		t.Fatalf("got %v notes, expected the bucket to merge into 1: %+v", len(notes), notes)
	}
	if !within(notes[0].Time, 0.22) {
		t.Errorf("kept %v, expected the strongest candidate at 0.22s", notes[0].Time)
	}
}

func TestAssembleDedupTieKeepsFirstSeen(t *testing.T) {
	cands := []Candidate{
		{Time: 0.24, Energy: 2},
		{Time: 0.21, Energy: 2},
	}
	notes := assemble(cands, 0.4, defaultParams)
	if len(notes) != 1 {
		t.Fatalf("got %v notes, expected 1: %+v", len(notes), notes)
	}
	if !within(notes[0].Time, 0.24) {
		t.Errorf("kept %v, expected the first seen at 0.24s", notes[0].Time)
	}
}

func TestAssembleSpacing(t *testing.T) {
	cands := []Candidate{
		{Time: 0.12}, {Time: 0.26}, {Time: 0.52}, {Time: 0.63}, {Time: 0.91},
	}
	notes := assemble(cands, 1.0, Params{Difficulty: 0.25, Lanes: 4})
	if len(notes) != 3 {
		t.Fatalf("got %v notes, expected 3: %+v", len(notes), notes)
	}
	for i, sec := range []float64{0.12, 0.52, 0.91} {
		if !within(notes[i].Time, sec) {
			t.Errorf("note %v at %v, expected %vs", i, notes[i].Time, sec)
		}
	}
	for i := 1; i < len(notes); i++ {
		if gap := notes[i].Time - notes[i-1].Time; gap < 250*time.Millisecond {
			t.Errorf("gap %v at %v below the difficulty spacing", gap, i)
		}
	}
}

func TestAssembleLaneMapping(t *testing.T) {
	cands := []Candidate{
		{Time: 0.11, Energy: 1},
		{Time: 0.41, Energy: 2},
		{Time: 0.71, Energy: 3},
	}
	notes := assemble(cands, 0.9, defaultParams)
	if len(notes) != 3 {
		t.Fatalf("got %v notes, expected 3: %+v", len(notes), notes)
	}
	for i, lane := range []int{0, 2, 3} {
		if notes[i].Lane != lane {
			t.Errorf("note %v on lane %v, expected %v", i, notes[i].Lane, lane)
		}
	}
}

func TestAssembleRotatesRepeatedLane(t *testing.T) {
	cands := []Candidate{{Time: 0.11}, {Time: 0.41}, {Time: 0.71}}
	notes := assemble(cands, 0.9, defaultParams)
	if len(notes) != 3 {
		t.Fatalf("got %v notes, expected 3: %+v", len(notes), notes)
	}
	for i, lane := range []int{0, 1, 0} {
		if notes[i].Lane != lane {
			t.Errorf("note %v on lane %v, expected %v", i, notes[i].Lane, lane)
		}
	}
}

func TestAssembleCoverageInsertion(t *testing.T) {
	cands := []Candidate{{Time: 0.62, Energy: 2}, {Time: 1.01, Energy: 1}}
	notes := assemble(cands, 3, defaultParams)
	if len(notes) != 4 {
		t.Fatalf("got %v notes, expected coverage on both ends: %+v", len(notes), notes)
	}
	if !within(notes[0].Time, 0.1) || notes[0].Lane != 0 {
		t.Errorf("start note %+v, expected 0.1s on lane 0", notes[0])
	}
	if !within(notes[3].Time, 2.95) || notes[3].Lane != 3 {
		t.Errorf("end note %+v, expected 2.95s on lane 3", notes[3])
	}
}

func TestAssembleCoverageAvoidsLaneRepeat(t *testing.T) {
	// The core notes land on lane 0 first and lane 3 last, forcing both
	// synthetic notes to shift inward.
	cands := []Candidate{{Time: 0.62, Energy: 1}, {Time: 1.01, Energy: 2}}
	notes := assemble(cands, 3, defaultParams)
	if len(notes) != 4 {
		t.Fatalf("got %v notes, expected 4: %+v", len(notes), notes)
	}
	if notes[0].Lane != 1 {
		t.Errorf("start note on lane %v, expected the shift to lane 1", notes[0].Lane)
	}
	if notes[3].Lane != 2 {
		t.Errorf("end note on lane %v, expected the shift to lane 2", notes[3].Lane)
	}
	for i := 1; i < len(notes); i++ {
		if notes[i].Lane == notes[i-1].Lane {
			t.Errorf("notes %v and %v share lane %v", i-1, i, notes[i].Lane)
		}
	}
}

func TestAssembleDeterministic(t *testing.T) {
	cands := []Candidate{
		{Time: 0.31, Energy: 0.4},
		{Time: 0.33, Energy: 0.9},
		{Time: 0.61, Energy: 0.2},
		{Time: 1.22, Energy: 0.7},
		{Time: 1.29, Energy: 0.1},
		{Time: 2.41, Energy: 1.5},
		{Time: 3.82, Energy: 0.3},
		{Time: 4.52, Energy: 0.8},
	}
	first := assemble(cands, 5, defaultParams)
	second := assemble(cands, 5, defaultParams)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two runs over the same candidates differ:\n%+v\n%+v", first, second)
	}
	for i := 1; i < len(first); i++ {
		if first[i].Time < first[i-1].Time {
			t.Fatalf("notes out of order at %v: %+v", i, first)
		}
	}
}
