package chart

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/beatfall/beatfall/internal/dsp"
)

var (
	ErrDifficulty = errors.New("difficulty must be greater than zero")
	ErrLanes      = errors.New("lane count must be at least 2")
	ErrRate       = errors.New("sample rate must be positive")
)

// Params bound one generation run. Difficulty is the minimum spacing between
// consecutive notes in seconds; smaller is harder.
type Params struct {
	Difficulty float64
	Lanes      int
}

func (p Params) Validate() error {
	if p.Difficulty <= 0 {
		return ErrDifficulty
	}
	if p.Lanes < 2 {
		return ErrLanes
	}
	return nil
}

// Generator turns a decoded mono sample buffer into a Chart. One instance per
// run; the sample buffer is owned by the call for its duration.
type Generator struct {
	Params Params
}

// Generate runs the full pipeline: envelopes, candidate extraction, assembly.
// The context is checked between stages so an abandoned session cancels the
// work without ever exposing a partial chart. An empty buffer yields an empty
// chart rather than an error.
func (g *Generator) Generate(ctx context.Context, samples []float64, rate int) (*Chart, error) {
	if err := g.Params.Validate(); nil != err {
		return nil, err
	}
	if rate <= 0 {
		return nil, ErrRate
	}
	ch := &Chart{Difficulty: g.Params.Difficulty, Lanes: g.Params.Lanes}
	if len(samples) == 0 {
		return ch, nil
	}
	duration := float64(len(samples)) / float64(rate)
	ch.Duration = toDuration(duration)

	onsetEnv := dsp.OnsetStrength(samples, rate)
	if err := ctx.Err(); nil != err {
		return nil, err
	}
	rmsEnv := dsp.RMS(samples, rate)
	if err := ctx.Err(); nil != err {
		return nil, err
	}

	cands := onsetEvents(onsetEnv, duration, g.Params.Difficulty)
	cands = append(cands, peakEvents(rmsEnv, duration)...)
	if err := ctx.Err(); nil != err {
		return nil, err
	}

	ch.Notes = assemble(cands, duration, g.Params)
	return ch, nil
}

// onsetEvents is the rhythmic candidate stream: beat times from the tempo
// grid, or an evenly spaced fallback grid when fewer than two beats were
// found in audio that still carries energy. Silence yields nothing and the
// coverage pass deals with it.
func onsetEvents(env dsp.Envelope, duration, difficulty float64) []Candidate {
	beats := dsp.Beats(env)
	if len(beats) < 2 {
		if !env.HasEnergy() {
			return nil
		}
		step := math.Max(0.125, difficulty)
		beats = beats[:0]
		for t := 0.0; t < duration; t += step {
			beats = append(beats, t)
		}
	}
	events := make([]Candidate, len(beats))
	for i, t := range beats {
		events[i] = Candidate{Time: t}
	}
	return events
}

// peakEvents is the loudness candidate stream: local RMS maxima at or above
// the 75th percentile of the non-zero frames, excluding the first and last
// 50ms of the track.
func peakEvents(env dsp.Envelope, duration float64) []Candidate {
	if env.Len() == 0 {
		return nil
	}
	thresh := dsp.PositivePercentile(env.Values, 75)
	var events []Candidate
	for _, i := range dsp.PeakIndices(env.Values) {
		if env.Values[i] < thresh {
			continue
		}
		t := env.Time(i)
		if t <= 0.05 || t >= duration-0.05 {
			continue
		}
		events = append(events, Candidate{Time: t, Energy: env.Values[i]})
	}
	return events
}

func toDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
