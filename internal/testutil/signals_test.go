package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	a := DeterministicSine(440, 44100, 0.5, 1024)
	b := DeterministicSine(440, 44100, 0.5, 1024)

	if len(a) != 1024 {
		t.Fatalf("len = %d, want 1024", len(a))
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sine not deterministic at index %d", i)
		}
		if math.Abs(a[i]) > 0.5 {
			t.Fatalf("amplitude exceeded at index %d: %v", i, a[i])
		}
	}
}

func TestSineWithPeriod(t *testing.T) {
	const period = 100

	x := SineWithPeriod(period, 1, 1000)

	for i := 0; i+period < len(x); i++ {
		if math.Abs(x[i]-x[i+period]) > 1e-9 {
			t.Fatalf("signal not periodic with period %d at index %d", period, i)
		}
	}

	zero := SineWithPeriod(0, 1, 16)
	for i, v := range zero {
		if v != 0 {
			t.Fatalf("zero period should yield silence, index %d = %v", i, v)
		}
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(1, 0.25, 512)
	b := DeterministicNoise(1, 0.25, 512)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
		if math.Abs(a[i]) > 0.25 {
			t.Fatalf("amplitude exceeded at index %d: %v", i, a[i])
		}
	}
}
