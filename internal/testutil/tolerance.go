package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireAllZero fails t if any element is non-zero.
func RequireAllZero(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if v != 0 {
			t.Fatalf("index %d: non-zero value %v", i, v)
		}
	}
}

// RequireStrictlyIncreasing fails t if marks are not strictly increasing or
// exceed the bound [0, limit).
func RequireStrictlyIncreasing(t *testing.T, marks []int, limit int) {
	t.Helper()
	for i, m := range marks {
		if m < 0 || m >= limit {
			t.Fatalf("mark %d out of bounds: %d (limit %d)", i, m, limit)
		}
		if i > 0 && m <= marks[i-1] {
			t.Fatalf("marks not strictly increasing at %d: %d <= %d", i, m, marks[i-1])
		}
	}
}
