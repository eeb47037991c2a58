package dsp

import "testing"

var peakTests = []struct {
	name     string
	values   []float64
	expected []int
}{
	{"empty", nil, nil},
	{"single", []float64{5}, []int{0}},
	{"ascending", []float64{1, 2, 3}, []int{2}},
	{"descending", []float64{3, 2, 1}, []int{0}},
	{"valley", []float64{3, 1, 2}, []int{0, 2}},
	{"plateau is not a peak", []float64{1, 2, 2, 1}, nil},
	{"two peaks", []float64{0, 1, 0, 2, 0}, []int{1, 3}},
}

func TestPeakIndices(t *testing.T) {
	equal := func(p, q []int) bool {
		if len(p) != len(q) {
			return false
		}
		for i := range p {
			if p[i] != q[i] {
				return false
			}
		}
		return true
	}

	for _, test := range peakTests {
		if got := PeakIndices(test.values); !equal(got, test.expected) {
			t.Logf("%v: got %v, expected %v", test.name, got, test.expected)
			t.Fail()
		}
	}
}

func TestPositivePercentileIgnoresZeros(t *testing.T) {
	values := []float64{0, 0, 0, 4, 4, 0, 4}
	if got := PositivePercentile(values, 50); got != 4 {
		t.Errorf("got %v, expected 4", got)
	}
}

func TestPositivePercentileEmpty(t *testing.T) {
	if got := PositivePercentile(nil, 75); got != 0 {
		t.Errorf("got %v for no values, expected 0", got)
	}
	if got := PositivePercentile([]float64{0, 0}, 75); got != 0 {
		t.Errorf("got %v for all-zero values, expected 0", got)
	}
}

func TestPositivePercentileBounds(t *testing.T) {
	values := []float64{0.5, 3, 1, 2, 8}
	lo := PositivePercentile(values, 25)
	hi := PositivePercentile(values, 75)
	if lo > hi {
		t.Errorf("quantiles not monotonic: p25 %v > p75 %v", lo, hi)
	}
	if lo < 0.5 || hi > 8 {
		t.Errorf("quantiles outside the value range: %v, %v", lo, hi)
	}
}
