// Package dsp holds the signal-analysis primitives behind chart generation:
// framed envelopes, magnitude spectra, peak picking and tempo estimation.
// Everything here is a pure function of its input samples.
package dsp

import "math"

const (
	onsetFrame = 2048
	onsetHop   = 512

	rmsFrame = 1024
	rmsHop   = 256
)

// Envelope is one value per analysis frame at a fixed hop.
type Envelope struct {
	Values []float64
	Hop    int
	Rate   int
}

func (e Envelope) Len() int {
	return len(e.Values)
}

// Time is the position of frame i in seconds.
func (e Envelope) Time(i int) float64 {
	return float64(i*e.Hop) / float64(e.Rate)
}

func (e Envelope) HasEnergy() bool {
	for _, v := range e.Values {
		if v > 0 {
			return true
		}
	}
	return false
}

// OnsetStrength measures spectral flux frame to frame: the sum of positive
// magnitude differences against the previous frame's spectrum. Sudden energy
// arrivals show up as peaks in the returned envelope.
func OnsetStrength(samples []float64, rate int) Envelope {
	env := Envelope{Hop: onsetHop, Rate: rate}
	if len(samples) < onsetFrame {
		return env
	}
	fft := NewFFT(onsetFrame)
	mags := make([]float64, fft.Bins())
	prev := make([]float64, fft.Bins())
	n := (len(samples)-onsetFrame)/onsetHop + 1
	env.Values = make([]float64, n)
	for i := 0; i < n; i++ {
		start := i * onsetHop
		fft.Magnitudes(samples[start:start+onsetFrame], mags)
		flux := 0.0
		for j, m := range mags {
			if d := m - prev[j]; d > 0 {
				flux += d
			}
		}
		env.Values[i] = flux
		copy(prev, mags)
	}
	return env
}

// RMS is the frame-wise root-mean-square energy with centered framing:
// frame i spans [i*hop - frame/2, i*hop + frame/2) with zero padding past
// either end, so Time(i) lands on the frame center.
func RMS(samples []float64, rate int) Envelope {
	env := Envelope{Hop: rmsHop, Rate: rate}
	if len(samples) == 0 {
		return env
	}
	half := rmsFrame / 2
	n := 1 + len(samples)/rmsHop
	env.Values = make([]float64, n)
	for i := 0; i < n; i++ {
		lo := i*rmsHop - half
		hi := lo + rmsFrame
		if lo < 0 {
			lo = 0
		}
		if hi > len(samples) {
			hi = len(samples)
		}
		sum := 0.0
		for _, v := range samples[lo:hi] {
			sum += v * v
		}
		env.Values[i] = math.Sqrt(sum / rmsFrame)
	}
	return env
}
