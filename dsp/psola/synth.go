package psola

import (
	"math"

	"github.com/cwbudde/algo-psola/dsp/window"
)

const (
	tukeyAlphaUp   = 0.8
	tukeyAlphaDown = 0.6
)

// synthAlpha selects the Tukey taper for the shift direction. Downward
// shifts stretch grains apart, so a wider taper softens grain boundaries.
func synthAlpha(ratio float64) float64 {
	if ratio >= 1 {
		return tukeyAlphaUp
	}

	return tukeyAlphaDown
}

// synthesize overlap-adds Tukey-windowed grains into out, which must be
// zero-initialized and the same length as signal. For each synthesis mark
// the nearest analysis mark supplies the grain contents; grain extent is
// given by the distances to the neighboring marks, clipped at the signal
// edges. Accumulation is additive so overlapping grains sum into a
// continuous waveform.
//
// grains is an optional diagnostic accumulator; pass nil to skip recording.
func synthesize(signal []float64, analysisMarks []int, synthMarks []float64, ratio float64, out []float64, grains *GrainData) {
	if len(analysisMarks) == 0 {
		return
	}

	numSamples := len(signal)
	alpha := synthAlpha(ratio)

	for j, s := range synthMarks {
		closest := nearestMark(analysisMarks, s)
		mark := analysisMarks[closest]

		samplesToPrev := mark
		if closest > 0 {
			samplesToPrev = mark - analysisMarks[closest-1]
		}

		samplesToNext := numSamples - 1 - mark
		if closest < len(analysisMarks)-1 {
			samplesToNext = analysisMarks[closest+1] - mark
		}

		// Clip both extents so the source window stays inside the signal.
		if mark-samplesToPrev < 0 {
			samplesToPrev = mark
		}

		if mark+samplesToNext > numSamples-1 {
			samplesToNext = numSamples - 1 - mark
		}

		dstStart := int(s) - samplesToPrev
		if dstStart < 0 {
			dstStart = 0
		}

		dstEnd := int(s) + samplesToNext
		if dstEnd > numSamples {
			dstEnd = numSamples
		}

		if dstStart >= numSamples {
			break
		}

		windowLength := dstEnd - dstStart

		srcStart := mark - samplesToPrev
		if srcStart < 0 {
			srcStart = 0
		}

		srcEnd := mark + samplesToNext
		if srcEnd > numSamples {
			srcEnd = numSamples
		}

		// Re-clip the source to the destination length when edge clipping
		// truncated the two windows asymmetrically.
		if srcEnd-srcStart > windowLength {
			srcEnd = srcStart + windowLength
		}

		if windowLength > 0 {
			win := window.Generate(window.TypeTukey, windowLength, window.WithAlpha(alpha))

			for i := 0; i < windowLength && srcStart+i < srcEnd; i++ {
				dst := dstStart + i
				if dst >= numSamples {
					break
				}

				out[dst] += win[i] * signal[srcStart+i]
			}
		}

		if grains != nil {
			sourcePeriod := samplesToNext
			if closest < len(analysisMarks)-1 {
				sourcePeriod = analysisMarks[closest+1] - analysisMarks[closest]
			}

			synthesisPeriod := samplesToNext
			if j < len(synthMarks)-1 {
				synthesisPeriod = int(synthMarks[j+1] - synthMarks[j])
			}

			grains.Grains = append(grains.Grains, Grain{
				ID:               j,
				Center:           int(s),
				Start:            dstStart,
				End:              dstEnd,
				SourceAnalysisID: closest,
				SourceCenter:     mark,
				SourceStart:      srcStart,
				SourceEnd:        srcEnd,
				SourcePeriod:     sourcePeriod,
				SynthesisPeriod:  synthesisPeriod,
				WindowAlpha:      alpha,
				DurationSamples:  windowLength,
			})
		}
	}
}

// nearestMark returns the index of the analysis mark closest to pos by
// absolute distance. Ties resolve to the lower index.
func nearestMark(marks []int, pos float64) int {
	closest := 0
	minDist := math.Abs(float64(marks[0]) - pos)

	for i := 1; i < len(marks); i++ {
		if dist := math.Abs(float64(marks[i]) - pos); dist < minDist {
			minDist = dist
			closest = i
		}
	}

	return closest
}
