package dsp

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// PeakIndices returns the indices of local maxima: values strictly greater
// than both neighbors, with out-of-range neighbors treated as negative
// infinity so the first and last frames can still qualify.
func PeakIndices(values []float64) []int {
	var peaks []int
	for i, v := range values {
		if i > 0 && v <= values[i-1] {
			continue
		}
		if i < len(values)-1 && v <= values[i+1] {
			continue
		}
		peaks = append(peaks, i)
	}
	return peaks
}

// PositivePercentile is the p-th percentile (0-100, linearly interpolated)
// of the strictly positive values, or 0 when there are none.
func PositivePercentile(values []float64, p float64) float64 {
	positive := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			positive = append(positive, v)
		}
	}
	if len(positive) == 0 {
		return 0
	}
	sort.Float64s(positive)
	return stat.Quantile(p/100, stat.LinInterp, positive, nil)
}
