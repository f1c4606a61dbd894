package psola

import (
	"math"

	"github.com/cwbudde/algo-psola/dsp/core"
)

const (
	// The first-peak search widens the first period estimate by 10% to
	// absorb the detector's phase ambiguity.
	firstPeakSearchFactor = 1.1

	// Subsequent marks may drift +/-2% from the local period estimate.
	// Wider risks octave errors; narrower loses lock on vibrato.
	minDriftRatio = 0.98
	maxDriftRatio = 1.02
)

// placeMarks walks the signal placing one mark per estimated period at the
// local extremum (maximum absolute value) of an expected-position window.
// The window for each mark derives from the previous mark and the period
// estimate of the analysis window containing it (index = mark / hopSize).
//
// The returned marks are strictly increasing. Tracking stops when the next
// expected window would exceed the signal or the period estimates run out.
func placeMarks(signal []float64, periods []int, hopSize int) []int {
	if len(signal) == 0 || len(periods) == 0 || hopSize <= 0 {
		return nil
	}

	searchRange := int(float64(periods[0]) * firstPeakSearchFactor)
	if searchRange > len(signal) {
		searchRange = len(signal)
	}

	if searchRange <= 0 {
		return nil
	}

	marks := []int{maxAbsIndex(signal, 0, searchRange)}

	for {
		prev := marks[len(marks)-1]

		periodIdx := prev / hopSize
		if periodIdx >= len(periods) {
			break
		}

		period := periods[periodIdx]
		lo := prev + int(float64(period)*minDriftRatio)
		hi := prev + int(float64(period)*maxDriftRatio)

		if hi >= len(signal) {
			break
		}

		if lo <= prev {
			// Degenerate period estimate; tracking cannot advance.
			break
		}

		marks = append(marks, maxAbsIndex(signal, lo, hi+1))
	}

	return marks
}

// maxAbsIndex returns the index of the maximum absolute value in
// signal[start:end). Ties resolve to the smallest index.
func maxAbsIndex(signal []float64, start, end int) int {
	best := start
	bestVal := math.Abs(signal[start])

	for i := start + 1; i < end; i++ {
		if v := math.Abs(signal[i]); v > bestVal {
			bestVal = v
			best = i
		}
	}

	return best
}

// interpolateMarks remaps the N analysis marks to round(N*ratio)
// synthesis-time positions by linear interpolation over a uniformly
// resampled index axis.
//
// Resampling the mark density, not the signal, is what encodes the pitch
// change: grains later placed at the new density carry unmodified contents
// from the original marks, preserving timbre and formants.
func interpolateMarks(marks []int, ratio float64) []float64 {
	if len(marks) == 0 {
		return nil
	}

	n := len(marks)

	m := int(math.Round(float64(n) * ratio))
	if m <= 0 {
		return nil
	}

	den := float64(m - 1)
	if den < 1 {
		den = 1
	}

	out := make([]float64, m)
	for i := range out {
		refIndex := float64(i) * float64(n-1) / den

		left := core.ClampInt(int(math.Floor(refIndex)), 0, n-1)
		right := core.ClampInt(int(math.Ceil(refIndex)), 0, n-1)
		weight := refIndex - float64(left)

		out[i] = float64(marks[left])*(1-weight) + float64(marks[right])*weight
	}

	return out
}
