package psola

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-psola/dsp/core"
)

// periodEstimator computes one dominant pitch period per analysis window via
// frequency-domain autocorrelation. The FFT plan and scratch buffers persist
// across windows and calls; they are rebuilt only when the transform size
// changes.
type periodEstimator struct {
	fftSize int
	plan    *algofft.Plan[complex128]

	scratch []complex128
	freq    []complex128
	re      []float64
	im      []float64
	power   []float64
}

func (e *periodEstimator) ensurePlan(fftSize int) error {
	if e.plan != nil && e.fftSize == fftSize {
		return nil
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return fmt.Errorf("psola: failed to create FFT plan: %w", err)
	}

	e.plan = plan
	e.fftSize = fftSize
	e.scratch = core.EnsureLenComplex(e.scratch, fftSize)
	e.freq = core.EnsureLenComplex(e.freq, fftSize)
	e.re = core.EnsureLen(e.re, fftSize)
	e.im = core.EnsureLen(e.im, fftSize)
	e.power = core.EnsureLen(e.power, fftSize)

	return nil
}

// estimate runs the two-pass period estimation over one channel.
//
// The first pass searches the full config-derived period range. The second
// pass re-runs the estimate with bounds tightened to mean +/- k*std of the
// first-pass results, rejecting spurious harmonics and outliers.
func (e *periodEstimator) estimate(signal []float64, sampleRate float64, cfg Config) ([]int, error) {
	minPeriod := cfg.minPeriodSamples(sampleRate)
	maxPeriod := cfg.maxPeriodSamples(sampleRate)
	seqLen := cfg.analysisWindowSamples(sampleRate)

	periods, err := e.periodsPerWindow(signal, seqLen, minPeriod, maxPeriod)
	if err != nil {
		return nil, err
	}

	if len(periods) == 0 {
		return nil, fmt.Errorf("%w: signal shorter than one analysis window", ErrNoPeriodicity)
	}

	floats := make([]float64, len(periods))
	for i, p := range periods {
		floats[i] = float64(p)
	}

	mean, std := stat.PopMeanStdDev(floats, nil)

	if lo := int(mean - cfg.PeriodVarianceScalar*std); lo > minPeriod {
		minPeriod = lo
	}

	if hi := int(mean + cfg.PeriodVarianceScalar*std); hi < maxPeriod {
		maxPeriod = hi
	}

	return e.periodsPerWindow(signal, seqLen, minPeriod, maxPeriod)
}

// periodsPerWindow estimates one period per analysis window of length seqLen
// (the final window may be shorter). The autocorrelation is computed through
// the Wiener-Khinchin relation: inverse transform of the power spectrum.
func (e *periodEstimator) periodsPerWindow(signal []float64, seqLen, minPeriod, maxPeriod int) ([]int, error) {
	if len(signal) == 0 || seqLen <= 0 {
		return nil, nil
	}

	fftSize := core.NextPowerOfTwo(seqLen)
	if err := e.ensurePlan(fftSize); err != nil {
		return nil, err
	}

	periods := make([]int, 0, (len(signal)+seqLen-1)/seqLen)

	for offset := 0; offset < len(signal); offset += seqLen {
		current := seqLen
		if remaining := len(signal) - offset; remaining < current {
			current = remaining
		}

		core.ZeroComplex(e.scratch)
		for i := range current {
			e.scratch[i] = complex(signal[offset+i], 0)
		}

		if err := e.plan.Forward(e.freq, e.scratch); err != nil {
			return nil, fmt.Errorf("psola: forward FFT failed: %w", err)
		}

		// Zero the DC bin so a constant offset cannot dominate the lag peak.
		e.freq[0] = 0

		for i, c := range e.freq {
			e.re[i] = real(c)
			e.im[i] = imag(c)
		}

		vecmath.Power(e.power, e.re, e.im)

		for i, p := range e.power {
			e.scratch[i] = complex(p, 0)
		}

		if err := e.plan.Inverse(e.scratch, e.scratch); err != nil {
			return nil, fmt.Errorf("psola: inverse FFT failed: %w", err)
		}

		periods = append(periods, peakLag(e.scratch, minPeriod, maxPeriod, fftSize))
	}

	return periods, nil
}

// peakLag returns the lag with the largest autocorrelation value in
// [minPeriod, maxPeriod), limited to the first half of the transform.
// Ties resolve to the smallest lag; an empty range yields minPeriod.
func peakLag(acorr []complex128, minPeriod, maxPeriod, fftSize int) int {
	hi := maxPeriod
	if half := fftSize / 2; hi > half {
		hi = half
	}

	peakIndex := minPeriod
	if peakIndex >= len(acorr) {
		return peakIndex
	}

	peakValue := real(acorr[peakIndex])
	for i := minPeriod + 1; i < hi; i++ {
		if v := real(acorr[i]); v > peakValue {
			peakValue = v
			peakIndex = i
		}
	}

	return peakIndex
}
