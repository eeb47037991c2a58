// Package spectrum drives the cosmetic frequency bars. It shares the FFT
// primitive with chart generation but owns an independent copy of the track's
// samples and never touches gameplay state.
package spectrum

import (
	"math"
	"time"

	"github.com/beatfall/beatfall/internal/dsp"
)

// Band edges in Hz. Each bar covers the range from the previous edge up to
// its own; the first starts at 0.
var bandEdges = [...]float64{
	60, 100, 150, 220, 330, 480, 700, 1000,
	1450, 2100, 3000, 4300, 6200, 9000, 13000, 20000,
}

const (
	chunk = 1024

	// Magnitudes map to bar levels through log10 with this gain, clamped
	// to [0,1]. minAmplitude keeps silence out of the log domain.
	gain         = 0.4
	minAmplitude = 1e-6

	// Per-band smoothing: rising levels keep this much of the old value,
	// falling levels decay by the release factor each frame.
	attack  = 0.30
	release = 0.82
)

// Analyzer computes smoothed bar levels at a playhead position. The
// smoothing state lives on the instance, one value per band.
type Analyzer struct {
	samples []float64
	rate    int
	fft     *dsp.FFT
	mags    []float64
	raw     []float64
	levels  []float64
}

func NewAnalyzer(samples []float64, rate int) *Analyzer {
	fft := dsp.NewFFT(chunk)
	return &Analyzer{
		samples: samples,
		rate:    rate,
		fft:     fft,
		mags:    make([]float64, fft.Bins()),
		raw:     make([]float64, len(bandEdges)),
		levels:  make([]float64, len(bandEdges)),
	}
}

func (a *Analyzer) Bands() int {
	return len(bandEdges)
}

// Levels returns the bar levels in [0,1] for the chunk starting at the
// playhead. Positions before the start or past the end read as silence, so
// the bars decay through the countdown and after the track ends. The
// returned slice is reused between calls.
func (a *Analyzer) Levels(at time.Duration) []float64 {
	a.measure(at)
	for i, target := range a.raw {
		a.levels[i] = envelope(a.levels[i], target, attack, release)
	}
	return a.levels
}

func (a *Analyzer) measure(at time.Duration) {
	var frame []float64
	start := int(at.Seconds() * float64(a.rate))
	if start >= 0 && start < len(a.samples) {
		end := start + chunk
		if end > len(a.samples) {
			end = len(a.samples)
		}
		frame = a.samples[start:end]
	}
	a.fft.Magnitudes(frame, a.mags)

	resolution := float64(a.rate) / chunk
	for i, edge := range bandEdges {
		a.raw[i] = 0
		startBin := 0
		if i > 0 {
			startBin = int(bandEdges[i-1] / resolution)
		}
		endBin := int(edge / resolution)
		if endBin <= startBin || endBin >= len(a.mags) {
			continue
		}
		sum := 0.0
		for _, m := range a.mags[startBin:endBin] {
			sum += m
		}
		avg := sum / float64(endBin-startBin)
		if avg < minAmplitude {
			avg = minAmplitude
		}
		level := math.Log10(avg) * gain
		if level < 0 {
			level = 0
		} else if level > 1 {
			level = 1
		}
		a.raw[i] = level
	}
}

// envelope smooths one band: a weighted step toward rising targets, a plain
// decay toward falling ones.
func envelope(current, target, attack, release float64) float64 {
	if target > current {
		return current*attack + target*(1-attack)
	}
	return current * release
}
