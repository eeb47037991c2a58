package spectrum

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sine(freq float64, rate int, seconds float64, amp float64) []float64 {
	samples := make([]float64, int(seconds*float64(rate)))
	for i := range samples {
		samples[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return samples
}

func TestLevelsPickOutTone(t *testing.T) {
	a := NewAnalyzer(sine(400, 44100, 1, 0.8), 44100)

	// Converge the smoothing on a steady frame.
	var levels []float64
	for i := 0; i < 20; i++ {
		levels = a.Levels(200 * time.Millisecond)
	}

	best := 0
	for i, l := range levels {
		assert.GreaterOrEqual(t, l, 0.0)
		assert.LessOrEqual(t, l, 1.0)
		if l > levels[best] {
			best = i
		}
	}
	// 400 Hz falls in the 330-480 band.
	assert.Equal(t, 5, best)
	assert.Greater(t, levels[5], 0.3)
}

func TestLevelsSilence(t *testing.T) {
	a := NewAnalyzer(make([]float64, 44100), 44100)
	for i := 0; i < 5; i++ {
		for _, l := range a.Levels(100 * time.Millisecond) {
			assert.Zero(t, l)
		}
	}
}

func TestLevelsDecayPastEnd(t *testing.T) {
	a := NewAnalyzer(sine(400, 44100, 1, 0.8), 44100)
	for i := 0; i < 20; i++ {
		a.Levels(200 * time.Millisecond)
	}
	prev := a.Levels(200 * time.Millisecond)[5]
	assert.Greater(t, prev, 0.3)

	// The playhead ran past the end of the track: bars fall away.
	for i := 0; i < 30; i++ {
		cur := a.Levels(5 * time.Second)[5]
		assert.LessOrEqual(t, cur, prev)
		prev = cur
	}
	assert.Less(t, prev, 0.05)
}

func TestLevelsBeforeStartAreSilent(t *testing.T) {
	a := NewAnalyzer(sine(400, 44100, 1, 0.8), 44100)
	for _, l := range a.Levels(-2 * time.Second) {
		assert.Zero(t, l)
	}
}

func TestLevelsBandPastNyquistStaysIdle(t *testing.T) {
	// At 8 kHz the top bands sit beyond the spectrum; they must stay 0
	// rather than read out of range.
	a := NewAnalyzer(sine(400, 8000, 1, 0.8), 8000)
	for i := 0; i < 10; i++ {
		a.Levels(200 * time.Millisecond)
	}
	levels := a.Levels(200 * time.Millisecond)
	assert.Zero(t, levels[len(levels)-1])
}
