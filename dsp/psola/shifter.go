package psola

import (
	"fmt"

	"github.com/cwbudde/algo-psola/dsp/core"
)

// Transformer defines the shared API for interchangeable pitch-shift
// transforms. [Shifter] is the offline TD-PSOLA implementation; real-time
// granular shifters can satisfy the same interface.
type Transformer interface {
	SampleRate() float64
	SetSampleRate(sampleRate float64) error

	Process(input [][]float64, ratio float64) ([][]float64, error)
}

var _ Transformer = (*Shifter)(nil)

// Shifter performs whole-buffer TD-PSOLA pitch shifting.
//
// Shift ratio:
//   - 1.0 = unchanged
//   - 2.0 = one octave up
//   - 0.5 = one octave down
//
// Channels are processed independently and sequentially; the output always
// has the input's exact sample and channel counts. A Shifter keeps reusable
// FFT scratch buffers, so concurrent callers need one instance each.
type Shifter struct {
	sampleRate float64
	cfg        Config
	est        periodEstimator
}

// NewShifter constructs a TD-PSOLA shifter with voice-tuned defaults.
func NewShifter(sampleRate float64, opts ...Option) (*Shifter, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := cfg.validate(sampleRate); err != nil {
		return nil, err
	}

	return &Shifter{sampleRate: sampleRate, cfg: cfg}, nil
}

// SampleRate returns the current sample rate in Hz.
func (s *Shifter) SampleRate() float64 { return s.sampleRate }

// Config returns the analysis configuration.
func (s *Shifter) Config() Config { return s.cfg }

// SetSampleRate updates the sample rate. The configuration is re-validated
// against the new rate; on failure the shifter is left unchanged.
func (s *Shifter) SetSampleRate(sampleRate float64) error {
	if !core.IsFinitePositive(sampleRate) {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	if err := s.cfg.validate(sampleRate); err != nil {
		return err
	}

	s.sampleRate = sampleRate

	return nil
}

// Process pitch-shifts every channel of input by ratio and returns a new
// output of identical shape. The first channel to fail aborts the whole run;
// no partial output is returned.
func (s *Shifter) Process(input [][]float64, ratio float64) ([][]float64, error) {
	if err := validateRatio(ratio); err != nil {
		return nil, err
	}

	if err := validateLayout(input); err != nil {
		return nil, err
	}

	out := make([][]float64, len(input))

	for ch, in := range input {
		dst := make([]float64, len(in))
		if err := s.processChannel(in, dst, ratio, nil); err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}

		out[ch] = dst
	}

	return out, nil
}

// ProcessWithDiagnostics pitch-shifts a single channel and additionally
// returns the grain-by-grain trace of the synthesis stage.
func (s *Shifter) ProcessWithDiagnostics(input []float64, ratio float64) ([]float64, *GrainData, error) {
	if err := validateRatio(ratio); err != nil {
		return nil, nil, err
	}

	if len(input) == 0 {
		return nil, nil, ErrEmptySignal
	}

	grains := &GrainData{ShiftRatio: ratio, SignalLength: len(input)}

	out := make([]float64, len(input))
	if err := s.processChannel(input, out, ratio, grains); err != nil {
		return nil, nil, err
	}

	return out, grains, nil
}

// EstimatePeriods runs the two-pass period estimator on its own, one integer
// period per analysis window. Useful for measuring the pitch of arbitrary
// material with the engine's own detector.
func (s *Shifter) EstimatePeriods(signal []float64) ([]int, error) {
	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}

	return s.est.estimate(signal, s.sampleRate, s.cfg)
}

func (s *Shifter) processChannel(in, out []float64, ratio float64, grains *GrainData) error {
	periods, err := s.est.estimate(in, s.sampleRate, s.cfg)
	if err != nil {
		return err
	}

	hopSize := s.cfg.analysisWindowSamples(s.sampleRate)

	analysisMarks := placeMarks(in, periods, hopSize)
	if len(analysisMarks) == 0 {
		return fmt.Errorf("%w: no pitch marks placed", ErrNoPeriodicity)
	}

	synthMarks := interpolateMarks(analysisMarks, ratio)

	if grains != nil {
		grains.NumAnalysisGrains = len(analysisMarks)
		grains.NumSynthesisGrains = len(synthMarks)
	}

	synthesize(in, analysisMarks, synthMarks, ratio, out, grains)

	return nil
}

// Process is a one-shot convenience that constructs a [Shifter] and runs it.
func Process(input [][]float64, ratio, sampleRate float64, opts ...Option) ([][]float64, error) {
	s, err := NewShifter(sampleRate, opts...)
	if err != nil {
		return nil, err
	}

	return s.Process(input, ratio)
}

func validateRatio(ratio float64) error {
	if !core.IsFinitePositive(ratio) {
		return fmt.Errorf("%w: %f", ErrInvalidShiftRatio, ratio)
	}

	return nil
}

func validateLayout(input [][]float64) error {
	if len(input) == 0 {
		return ErrEmptySignal
	}

	n := len(input[0])
	if n == 0 {
		return ErrEmptySignal
	}

	for ch, c := range input {
		if len(c) != n {
			return fmt.Errorf("%w: channel %d has %d samples, want %d", ErrUnsupportedLayout, ch, len(c), n)
		}
	}

	return nil
}
