package psola

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Grain describes one synthesis grain: where its contents came from in the
// analysis signal and where it was placed in the output. Purely
// observational; recording grains has no effect on the produced audio.
type Grain struct {
	ID     int // sequential synthesis grain index
	Center int // synthesis mark position
	Start  int // start of the synthesis window
	End    int // end of the synthesis window

	SourceAnalysisID int // index of the analysis mark the grain maps to
	SourceCenter     int // analysis mark position
	SourceStart      int // start of the source extraction
	SourceEnd        int // end of the source extraction

	SourcePeriod    int // distance to the next analysis mark
	SynthesisPeriod int // distance to the next synthesis mark

	WindowAlpha     float64 // Tukey alpha used for the taper
	DurationSamples int     // total grain length
}

// GrainData accumulates the grain-by-grain diagnostic trace of one mono run.
type GrainData struct {
	ShiftRatio         float64
	SignalLength       int
	NumAnalysisGrains  int
	NumSynthesisGrains int
	Grains             []Grain
}

var grainCSVHeader = []string{
	"source_analysis_id", "source_start", "source_center", "source_end",
	"grain_id", "start_sample", "center_sample", "end_sample",
	"source_period", "synthesis_period", "duration_samples", "window_alpha",
}

// WriteCSV writes the per-grain trace as CSV. File handling is the caller's
// responsibility; the engine only produces the records.
func (g *GrainData) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(grainCSVHeader); err != nil {
		return fmt.Errorf("psola: failed to write grain CSV header: %w", err)
	}

	record := make([]string, len(grainCSVHeader))
	for _, grain := range g.Grains {
		record[0] = strconv.Itoa(grain.SourceAnalysisID)
		record[1] = strconv.Itoa(grain.SourceStart)
		record[2] = strconv.Itoa(grain.SourceCenter)
		record[3] = strconv.Itoa(grain.SourceEnd)
		record[4] = strconv.Itoa(grain.ID)
		record[5] = strconv.Itoa(grain.Start)
		record[6] = strconv.Itoa(grain.Center)
		record[7] = strconv.Itoa(grain.End)
		record[8] = strconv.Itoa(grain.SourcePeriod)
		record[9] = strconv.Itoa(grain.SynthesisPeriod)
		record[10] = strconv.Itoa(grain.DurationSamples)
		record[11] = strconv.FormatFloat(grain.WindowAlpha, 'g', -1, 64)

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("psola: failed to write grain record %d: %w", grain.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteSummary writes a short human-readable summary of the trace.
func (g *GrainData) WriteSummary(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"TD-PSOLA Grain Analysis Summary\n"+
			"==================================================\n\n"+
			"Pitch Shift Ratio: %g\n"+
			"Signal Length: %d samples\n"+
			"Number of Analysis Grains: %d\n"+
			"Number of Synthesis Grains: %d\n",
		g.ShiftRatio, g.SignalLength, g.NumAnalysisGrains, g.NumSynthesisGrains)

	return err
}
