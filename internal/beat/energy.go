package beat

import (
	"fmt"
	"sort"
)

// EnergyDetector marks a beat wherever the energy of a window jumps well
// above the average energy of the windows before it.
type EnergyDetector struct {
	Window      int     // samples per energy window
	History     float64 // seconds of preceding windows to average
	Sensitivity float64 // energy ratio over the average that counts as a beat
	MinGap      float64 // seconds between two beats
}

func NewEnergyDetector() *EnergyDetector {
	return &EnergyDetector{
		Window:      1024,
		History:     1.0,
		Sensitivity: 1.4,
		MinGap:      0.25,
	}
}

// silence is the per-sample energy below which nothing counts as a beat.
const silence = 1e-6

func (d *EnergyDetector) Detect(samples [][2]float64, rate int) (Result, error) {
	if rate <= 0 {
		return Result{}, fmt.Errorf("invalid sample rate %d", rate)
	}
	if d.Window <= 0 {
		return Result{}, fmt.Errorf("invalid window %d", d.Window)
	}

	energies := d.energies(samples)
	histLen := int(d.History * float64(rate) / float64(d.Window))
	if histLen < 1 {
		histLen = 1
	}

	var beats []float64
	last := -d.MinGap
	for i := 1; i < len(energies); i++ {
		e := energies[i]
		if e < silence*float64(d.Window) {
			continue
		}
		from := i - histLen
		if from < 0 {
			from = 0
		}
		avg := mean(energies[from:i])
		if e <= d.Sensitivity*avg {
			continue
		}
		at := float64(i*d.Window) / float64(rate)
		if at-last < d.MinGap {
			continue
		}
		beats = append(beats, at)
		last = at
	}

	return Result{Beats: beats, Tempo: tempo(beats)}, nil
}

func (d *EnergyDetector) energies(samples [][2]float64) []float64 {
	out := make([]float64, 0, len(samples)/d.Window+1)
	for start := 0; start < len(samples); start += d.Window {
		end := start + d.Window
		if end > len(samples) {
			end = len(samples)
		}
		e := 0.0
		for _, s := range samples[start:end] {
			e += (s[0]*s[0] + s[1]*s[1]) / 2
		}
		out = append(out, e)
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// tempo estimates beats per minute from the median gap between beats.
func tempo(beats []float64) float64 {
	if len(beats) < 2 {
		return 0
	}
	gaps := make([]float64, len(beats)-1)
	for i := 1; i < len(beats); i++ {
		gaps[i-1] = beats[i] - beats[i-1]
	}
	sort.Float64s(gaps)
	median := gaps[len(gaps)/2]
	if len(gaps)%2 == 0 {
		median = (gaps[len(gaps)/2-1] + median) / 2
	}
	if median <= 0 {
		return 0
	}
	return 60 / median
}
