// Package beat turns audio or chart metadata into beat timestamps.
package beat

import "errors"

var ErrNoTempo = errors.New("no usable tempo")

// Result is an ascending list of beat timestamps in seconds and the
// estimated tempo in beats per minute. Zero beats is a valid result.
type Result struct {
	Beats []float64
	Tempo float64
}

// Detector finds beats in decoded stereo samples.
type Detector interface {
	Detect(samples [][2]float64, rate int) (Result, error)
}
