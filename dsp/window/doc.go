// Package window generates taper functions for grain extraction and
// spectral analysis.
//
// The Tukey (tapered-cosine) window is the workhorse of the PSOLA
// synthesizer; the cosine-sum family (Hann, Hamming, Blackman) is kept for
// analysis use. Windows are generated in symmetric form by default, with a
// periodic form available for FFT framing.
package window
