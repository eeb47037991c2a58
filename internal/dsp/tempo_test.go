package dsp

import (
	"math"
	"testing"
)

// impulseEnvelope lays count unit impulses every period frames starting at
// offset, followed by quiet tail frames. The tail matters: without it the
// normalization slightly favors the double-period lag.
func impulseEnvelope(n, period, offset, count int) Envelope {
	env := Envelope{Values: make([]float64, n), Hop: 512, Rate: 44100}
	for k := 0; k < count; k++ {
		env.Values[offset+k*period] = 1
	}
	return env
}

func TestEstimateTempoImpulseTrain(t *testing.T) {
	env := impulseEnvelope(600, 43, 0, 10)
	got := EstimateTempo(env)
	want := 60 / (43 * 512.0 / 44100)
	if math.Abs(got-want) > 0.5 {
		t.Fatalf("got %.2f BPM, expected %.2f", got, want)
	}
}

func TestEstimateTempoSilence(t *testing.T) {
	env := Envelope{Values: make([]float64, 600), Hop: 512, Rate: 44100}
	if got := EstimateTempo(env); got != 0 {
		t.Fatalf("got %.2f BPM from silence, expected 0", got)
	}
}

func TestEstimateTempoTooShort(t *testing.T) {
	env := impulseEnvelope(20, 5, 0, 4)
	if got := EstimateTempo(env); got != 0 {
		t.Fatalf("got %.2f BPM from %v frames, expected 0", got, env.Len())
	}
}

func TestBeatsGrid(t *testing.T) {
	env := impulseEnvelope(600, 43, 0, 10)
	beats := Beats(env)
	if len(beats) != 14 {
		t.Fatalf("got %v beats, expected 14", len(beats))
	}
	if beats[0] != 0 {
		t.Errorf("first beat at %v, expected the grid to lock onto the impulses at 0", beats[0])
	}
	period := 60 / EstimateTempo(env)
	for i := 1; i < len(beats); i++ {
		if d := beats[i] - beats[i-1]; math.Abs(d-period) > 1e-9 {
			t.Fatalf("beat spacing %v at %v, expected %v", d, i, period)
		}
	}
}

func TestBeatsPhase(t *testing.T) {
	env := impulseEnvelope(600, 43, 10, 10)
	beats := Beats(env)
	if len(beats) == 0 {
		t.Fatal("no beats")
	}
	if want := env.Time(10); math.Abs(beats[0]-want) > 1e-9 {
		t.Fatalf("first beat at %v, expected the offset impulse at %v", beats[0], want)
	}
}

func TestBeatsSilence(t *testing.T) {
	env := Envelope{Values: make([]float64, 600), Hop: 512, Rate: 44100}
	if beats := Beats(env); beats != nil {
		t.Fatalf("got %v beats from silence, expected none", len(beats))
	}
}

var benchBPM float64

func BenchmarkEstimateTempo(b *testing.B) {
	env := impulseEnvelope(600, 43, 0, 10)
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		benchBPM = EstimateTempo(env)
	}
}
