// Package core provides shared numeric and buffer helpers used across the
// DSP packages: scratch-buffer sizing, clamping, power-of-two math, and
// level measurement.
package core
