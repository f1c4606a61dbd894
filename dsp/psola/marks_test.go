package psola

import (
	"testing"

	"github.com/cwbudde/algo-psola/internal/testutil"
)

func TestPlaceMarksSine(t *testing.T) {
	const period = 100

	signal := testutil.SineWithPeriod(period, 1, 44100)

	s, err := NewShifter(44100)
	if err != nil {
		t.Fatalf("NewShifter() error = %v", err)
	}

	periods, err := s.EstimatePeriods(signal)
	if err != nil {
		t.Fatalf("EstimatePeriods() error = %v", err)
	}

	hopSize := s.Config().analysisWindowSamples(s.SampleRate())

	marks := placeMarks(signal, periods, hopSize)
	if len(marks) < 400 {
		t.Fatalf("len(marks) = %d, want at least 400 for one mark per period", len(marks))
	}

	testutil.RequireStrictlyIncreasing(t, marks, len(signal))

	// Mark-to-mark spacing stays within the +/-2% drift window of the
	// true period.
	for i := 1; i < len(marks); i++ {
		spacing := marks[i] - marks[i-1]
		if spacing < 98 || spacing > 102 {
			t.Fatalf("mark %d: spacing = %d, want 100 +/- 2", i, spacing)
		}
	}

	// The first mark sits on the first |max| within ~1.1 periods.
	if marks[0] != period/4 {
		t.Fatalf("marks[0] = %d, want %d (first sine extremum)", marks[0], period/4)
	}
}

func TestPlaceMarksDegenerateInputs(t *testing.T) {
	signal := testutil.SineWithPeriod(100, 1, 1000)

	if got := placeMarks(nil, []int{100}, 1764); got != nil {
		t.Fatalf("placeMarks(nil signal) = %v, want nil", got)
	}

	if got := placeMarks(signal, nil, 1764); got != nil {
		t.Fatalf("placeMarks(no periods) = %v, want nil", got)
	}

	if got := placeMarks(signal, []int{100}, 0); got != nil {
		t.Fatalf("placeMarks(zero hop) = %v, want nil", got)
	}

	// A zero period estimate must not loop forever; tracking stops after
	// the first mark.
	marks := placeMarks(signal, []int{0}, 1764)
	if len(marks) > 1 {
		t.Fatalf("len(marks) = %d with zero period, want at most 1", len(marks))
	}
}

func TestMaxAbsIndex(t *testing.T) {
	signal := []float64{0.1, -0.9, 0.5, 0.9, -0.2}

	// Ties resolve to the smallest index.
	if got := maxAbsIndex(signal, 0, len(signal)); got != 1 {
		t.Fatalf("maxAbsIndex = %d, want 1", got)
	}

	if got := maxAbsIndex(signal, 2, 5); got != 3 {
		t.Fatalf("maxAbsIndex = %d, want 3", got)
	}
}

func TestInterpolateMarks(t *testing.T) {
	tests := []struct {
		name  string
		marks []int
		ratio float64
		want  []float64
	}{
		{
			name:  "unity ratio is identity",
			marks: []int{0, 100, 200},
			ratio: 1,
			want:  []float64{0, 100, 200},
		},
		{
			name:  "octave up doubles mark density",
			marks: []int{0, 100, 200},
			ratio: 2,
			want:  []float64{0, 40, 80, 120, 160, 200},
		},
		{
			name:  "octave down halves mark density",
			marks: []int{0, 100, 200, 300},
			ratio: 0.5,
			want:  []float64{0, 300},
		},
		{
			name:  "single surviving mark",
			marks: []int{0, 100, 200},
			ratio: 0.34,
			want:  []float64{0},
		},
		{
			name:  "single input mark replicates",
			marks: []int{50},
			ratio: 2,
			want:  []float64{50, 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := interpolateMarks(tt.marks, tt.ratio)
			testutil.RequireSliceNearlyEqual(t, got, tt.want, 1e-9)
		})
	}
}

func TestInterpolateMarksEmpty(t *testing.T) {
	if got := interpolateMarks(nil, 2); got != nil {
		t.Fatalf("interpolateMarks(nil) = %v, want nil", got)
	}

	// Ratios small enough to round the mark count to zero yield nil.
	if got := interpolateMarks([]int{0, 100}, 0.1); got != nil {
		t.Fatalf("interpolateMarks(ratio 0.1) = %v, want nil", got)
	}
}

func TestInterpolateMarksCountMatchesRoundedRatio(t *testing.T) {
	marks := make([]int, 10)
	for i := range marks {
		marks[i] = i * 100
	}

	for _, ratio := range []float64{0.5, 0.75, 1, 1.25, 1.5, 2} {
		got := interpolateMarks(marks, ratio)

		want := int(float64(len(marks))*ratio + 0.5)
		if len(got) != want {
			t.Fatalf("ratio %g: len = %d, want %d", ratio, len(got), want)
		}
	}
}
