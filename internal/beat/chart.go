package beat

import (
	"math"

	"git.lost.host/meutraa/beatfall/internal/parser"
)

// maxTempo is the fastest chart tempo laid out as a beat grid.
const maxTempo = 10000

// ChartBeats lays a beat grid over a track of length seconds using the
// chart's offset and tempo changes. Tempo changes take effect on the first
// whole beat at or after their starting beat. Beats before the start of the
// audio are dropped.
func ChartBeats(meta *parser.Meta, length float64) (Result, error) {
	if len(meta.BPMs) == 0 || meta.BPMs[0].Value <= 0 {
		return Result{}, ErrNoTempo
	}

	var beats []float64
	seconds := meta.Offset
	for beat := 0.0; seconds <= length; beat++ {
		bpm := meta.BPMAt(beat)
		if bpm <= 0 {
			bpm = meta.BPMs[0].Value
		}
		if math.IsNaN(bpm) || bpm > maxTempo {
			return Result{}, ErrNoTempo
		}
		if seconds >= 0 {
			beats = append(beats, seconds)
		}
		next := seconds + 60/bpm
		if !(next > seconds) {
			return Result{}, ErrNoTempo
		}
		seconds = next
	}

	tempo := meta.BPMAt(0)
	if tempo <= 0 {
		tempo = meta.BPMs[0].Value
	}
	return Result{Beats: beats, Tempo: tempo}, nil
}
