package dsp

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// FFT computes Hann-windowed magnitude spectra over fixed-size frames.
// One instance is reused across the frames of a single analysis run; it is
// not safe for concurrent use.
type FFT struct {
	fft    *fourier.FFT
	window []float64
	buf    []float64
	coeffs []complex128
}

func NewFFT(size int) *FFT {
	return &FFT{
		fft:    fourier.NewFFT(size),
		window: hannWindow(size),
		buf:    make([]float64, size),
		coeffs: make([]complex128, size/2+1),
	}
}

// Bins is the number of magnitude values produced per frame.
func (f *FFT) Bins() int {
	return len(f.coeffs)
}

// Magnitudes fills dst with the magnitude spectrum of one frame. Frames
// shorter than the transform size are zero padded.
func (f *FFT) Magnitudes(frame []float64, dst []float64) {
	for i := range f.buf {
		if i < len(frame) {
			f.buf[i] = frame[i] * f.window[i]
		} else {
			f.buf[i] = 0
		}
	}
	f.coeffs = f.fft.Coefficients(f.coeffs, f.buf)
	for i, c := range f.coeffs {
		dst[i] = cmplx.Abs(c)
	}
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}
