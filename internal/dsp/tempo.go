package dsp

import "math"

const (
	minBPM = 60
	maxBPM = 200
)

// EstimateTempo returns beats per minute from an onset-strength envelope,
// picking the autocorrelation lag with the strongest self-similarity in the
// 60-200 BPM range and folding octave errors back into range. Returns 0 when
// the envelope is too short or carries no energy.
func EstimateTempo(env Envelope) float64 {
	minLag := env.Rate * 60 / (maxBPM * env.Hop)
	maxLag := env.Rate * 60 / (minBPM * env.Hop)
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= env.Len() {
		maxLag = env.Len() - 1
	}
	if maxLag <= minLag || !env.HasEnergy() {
		return 0
	}
	bestLag := 0
	bestCorr := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		corr := 0.0
		for i := 0; i+lag < len(env.Values); i++ {
			corr += env.Values[i] * env.Values[i+lag]
		}
		corr /= float64(len(env.Values) - lag)
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}
	if bestLag == 0 {
		return 0
	}
	bpm := 60 / (float64(bestLag) * float64(env.Hop) / float64(env.Rate))
	for bpm > maxBPM {
		bpm /= 2
	}
	for bpm < minBPM {
		bpm *= 2
	}
	return bpm
}

// Beats lays a beat grid over the envelope: tempo from EstimateTempo, phase
// chosen to maximize the onset energy sampled under the grid. Returns nil
// when no tempo is detectable.
func Beats(env Envelope) []float64 {
	bpm := EstimateTempo(env)
	if bpm == 0 {
		return nil
	}
	period := 60 / bpm
	pf := int(math.Round(period * float64(env.Rate) / float64(env.Hop)))
	if pf < 1 {
		return nil
	}
	bestOffset := 0
	bestScore := -1.0
	for off := 0; off < pf; off++ {
		score := 0.0
		for i := off; i < env.Len(); i += pf {
			score += env.Values[i]
		}
		if score > bestScore {
			bestScore = score
			bestOffset = off
		}
	}
	var beats []float64
	end := env.Time(env.Len() - 1)
	for t := env.Time(bestOffset); t <= end; t += period {
		beats = append(beats, t)
	}
	return beats
}
