// Package psola implements non-real-time TD-PSOLA (Time-Domain
// Pitch-Synchronous Overlap-Add) pitch shifting.
//
// The engine transforms one finite waveform into another of the same length
// at a different fundamental frequency while preserving timbre and duration.
// Processing runs in four sequential stages per channel:
//
//  1. Period estimation: frequency-domain autocorrelation per analysis
//     window, refined by a second pass with statistically tightened bounds.
//  2. Pitch marking: one mark per period at the local signal extremum,
//     tracked with a small drift tolerance.
//  3. Mark interpolation: the analysis marks are resampled to a new density
//     given by the shift ratio.
//  4. Overlap-add synthesis: Tukey-windowed grains extracted around analysis
//     marks are accumulated at the synthesis positions.
//
// The package is offline and whole-buffer by design: callers supply in-memory
// signals and receive in-memory results. A [Shifter] reuses FFT scratch
// buffers between calls and must not be shared between goroutines.
package psola
