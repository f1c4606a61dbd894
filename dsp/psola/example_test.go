package psola_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-psola/dsp/psola"
)

func ExampleProcess() {
	// One second of a 441 Hz tone at 44.1 kHz.
	input := make([]float64, 44100)
	for i := range input {
		input[i] = 0.8 * math.Sin(2*math.Pi*float64(i)/100)
	}

	out, err := psola.Process([][]float64{input}, 2.0, 44100)
	if err != nil {
		panic(err)
	}

	fmt.Println(len(out), len(out[0]))
	// Output:
	// 1 44100
}

func ExampleShifter_EstimatePeriods() {
	signal := make([]float64, 44100)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * float64(i) / 100)
	}

	s, err := psola.NewShifter(44100)
	if err != nil {
		panic(err)
	}

	periods, err := s.EstimatePeriods(signal)
	if err != nil {
		panic(err)
	}

	fmt.Println(len(periods), periods[0])
	// Output:
	// 25 100
}

func ExampleRatioFromSemitones() {
	fmt.Printf("%.4f\n", psola.RatioFromSemitones(12))
	fmt.Printf("%.4f\n", psola.RatioFromSemitones(-12))
	fmt.Printf("%.4f\n", psola.RatioFromSemitones(7))
	// Output:
	// 2.0000
	// 0.5000
	// 1.4983
}
