package dsp

import (
	"math"
	"testing"
)

func TestRMSConstantSignal(t *testing.T) {
	samples := make([]float64, 8192)
	for i := range samples {
		samples[i] = 1
	}
	env := RMS(samples, 44100)

	if want := 1 + len(samples)/rmsHop; env.Len() != want {
		t.Fatalf("got %v frames, expected %v", env.Len(), want)
	}
	// An interior frame sees a full window of ones.
	if got := env.Values[16]; math.Abs(got-1) > 1e-12 {
		t.Errorf("interior frame %v, expected 1", got)
	}
	// The first frame is centered on sample 0, so half the window is zero
	// padding.
	if got, want := env.Values[0], math.Sqrt(0.5); math.Abs(got-want) > 1e-12 {
		t.Errorf("edge frame %v, expected %v", got, want)
	}
}

func TestRMSEmpty(t *testing.T) {
	env := RMS(nil, 44100)
	if env.Len() != 0 {
		t.Fatalf("got %v frames, expected none", env.Len())
	}
	if env.HasEnergy() {
		t.Error("empty envelope reports energy")
	}
}

func TestEnvelopeTime(t *testing.T) {
	env := Envelope{Hop: 256, Rate: 44100}
	if got := env.Time(0); got != 0 {
		t.Errorf("Time(0) = %v, expected 0", got)
	}
	if got, want := env.Time(172), float64(172*256)/44100; got != want {
		t.Errorf("Time(172) = %v, expected %v", got, want)
	}
}

func TestOnsetStrengthFindsAttack(t *testing.T) {
	const rate = 44100
	samples := make([]float64, 12288)
	for i := 4096; i < len(samples); i++ {
		samples[i] = 0.8 * math.Sin(2*math.Pi*440*float64(i)/rate)
	}
	env := OnsetStrength(samples, rate)

	if env.Len() == 0 {
		t.Fatal("no frames")
	}
	if env.Values[0] != 0 {
		t.Errorf("silent frame has flux %v", env.Values[0])
	}
	best := 0
	for i, v := range env.Values {
		if v > env.Values[best] {
			best = i
		}
	}
	// The attack at sample 4096 falls inside frames 5 through 8.
	if best < 5 || best > 8 {
		t.Errorf("strongest flux at frame %v (%.2fs), expected the attack region", best, env.Time(best))
	}
	if !env.HasEnergy() {
		t.Error("envelope reports no energy")
	}
}

func TestOnsetStrengthShortInput(t *testing.T) {
	env := OnsetStrength(make([]float64, onsetFrame-1), 44100)
	if env.Len() != 0 {
		t.Fatalf("got %v frames for input shorter than one frame", env.Len())
	}
}

var benchEnv Envelope

func BenchmarkOnsetStrength(b *testing.B) {
	samples := make([]float64, 44100)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 220 * float64(i) / 44100)
	}
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		benchEnv = OnsetStrength(samples, 44100)
	}
}

func BenchmarkRMS(b *testing.B) {
	samples := make([]float64, 44100)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 220 * float64(i) / 44100)
	}
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		benchEnv = RMS(samples, 44100)
	}
}
