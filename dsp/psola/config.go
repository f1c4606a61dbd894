package psola

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-psola/dsp/core"
)

// Voice-tuned defaults: the [75, 1700] Hz range covers spoken and sung
// fundamentals, and 40 ms fits several cycles of the lowest admissible
// pitch into each analysis window.
const (
	defaultMaxFundamentalHz     = 1700.0
	defaultMinFundamentalHz     = 75.0
	defaultAnalysisWindowMs     = 40.0
	defaultPeriodVarianceScalar = 2.2
)

// Config holds the analysis parameters for one run. Immutable during
// processing; derived sample counts depend on the run's sample rate.
type Config struct {
	// MaxFundamentalHz and MinFundamentalHz bound the admissible period
	// range. MaxFundamentalHz > MinFundamentalHz > 0 must hold.
	MaxFundamentalHz float64
	MinFundamentalHz float64

	// AnalysisWindowMs is the length of each period-estimation sequence.
	AnalysisWindowMs float64

	// PeriodVarianceScalar multiplies the standard deviation of the
	// first-pass period estimates when tightening the second-pass search
	// bounds.
	PeriodVarianceScalar float64
}

// DefaultConfig returns the voice-tuned default configuration.
func DefaultConfig() Config {
	return Config{
		MaxFundamentalHz:     defaultMaxFundamentalHz,
		MinFundamentalHz:     defaultMinFundamentalHz,
		AnalysisWindowMs:     defaultAnalysisWindowMs,
		PeriodVarianceScalar: defaultPeriodVarianceScalar,
	}
}

// Option mutates a Config.
type Option func(*Config)

// WithMaxFundamental sets the upper fundamental-frequency bound in Hz.
func WithMaxFundamental(hz float64) Option {
	return func(c *Config) {
		c.MaxFundamentalHz = hz
	}
}

// WithMinFundamental sets the lower fundamental-frequency bound in Hz.
func WithMinFundamental(hz float64) Option {
	return func(c *Config) {
		c.MinFundamentalHz = hz
	}
}

// WithAnalysisWindow sets the period-estimation window length in milliseconds.
func WithAnalysisWindow(ms float64) Option {
	return func(c *Config) {
		c.AnalysisWindowMs = ms
	}
}

// WithPeriodVarianceScalar sets the standard-deviation multiplier used to
// tighten the second estimation pass.
func WithPeriodVarianceScalar(k float64) Option {
	return func(c *Config) {
		c.PeriodVarianceScalar = k
	}
}

// minPeriodSamples converts the upper frequency bound to the shortest
// admissible period. Integer truncation matches the reference behavior.
func (c Config) minPeriodSamples(sampleRate float64) int {
	return int(sampleRate / c.MaxFundamentalHz)
}

// maxPeriodSamples converts the lower frequency bound to the longest
// admissible period.
func (c Config) maxPeriodSamples(sampleRate float64) int {
	return int(sampleRate / c.MinFundamentalHz)
}

// analysisWindowSamples returns the analysis sequence length, which doubles
// as the hop size for pitch-mark tracking.
func (c Config) analysisWindowSamples(sampleRate float64) int {
	return int(c.AnalysisWindowMs / 1000.0 * sampleRate)
}

func (c Config) validate(sampleRate float64) error {
	if !core.IsFinitePositive(c.MinFundamentalHz) || !core.IsFinitePositive(c.MaxFundamentalHz) ||
		c.MaxFundamentalHz <= c.MinFundamentalHz {
		return fmt.Errorf("psola: fundamental range must satisfy max > min > 0: [%f, %f]",
			c.MinFundamentalHz, c.MaxFundamentalHz)
	}

	if !core.IsFinitePositive(c.AnalysisWindowMs) {
		return fmt.Errorf("psola: analysis window must be positive and finite: %f ms", c.AnalysisWindowMs)
	}

	if !core.IsFinitePositive(c.PeriodVarianceScalar) {
		return fmt.Errorf("psola: period variance scalar must be positive and finite: %f", c.PeriodVarianceScalar)
	}

	if c.minPeriodSamples(sampleRate) < 1 {
		return fmt.Errorf("psola: max fundamental %f Hz leaves no whole sample period at %f Hz sample rate",
			c.MaxFundamentalHz, sampleRate)
	}

	if c.maxPeriodSamples(sampleRate) <= c.minPeriodSamples(sampleRate) {
		return fmt.Errorf("psola: period bounds collapse at %f Hz sample rate: [%d, %d]",
			sampleRate, c.minPeriodSamples(sampleRate), c.maxPeriodSamples(sampleRate))
	}

	if c.analysisWindowSamples(sampleRate) < 2 {
		return fmt.Errorf("psola: analysis window too short: %d samples", c.analysisWindowSamples(sampleRate))
	}

	return nil
}

// RatioFromSemitones converts a shift in semitones to a frequency ratio.
func RatioFromSemitones(semitones float64) float64 {
	return math.Pow(2, semitones/12.0)
}

// SemitonesFromRatio converts a frequency ratio to a shift in semitones.
func SemitonesFromRatio(ratio float64) float64 {
	return 12.0 * math.Log2(ratio)
}
