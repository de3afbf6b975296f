// Package replay records the inputs of a session and plays them back.
// Only inputs are kept: scores are always recomputed by re-simulation.
package replay

import (
	"time"

	"git.lost.host/meutraa/beatfall/internal/game"
)

// FrameInput is what one iteration of the loop fed into the game.
type FrameInput struct {
	Now    float64
	Dt     float64
	Events []game.Event
}

type Session struct {
	ID        int64
	Song      string
	Seed      int64
	Tuning    game.Tuning
	Beats     []float64
	Frames    []FrameInput
	CreatedAt time.Time
}

type Summary struct {
	ID        int64
	Song      string
	Sum       string
	Seed      int64
	Frames    int
	CreatedAt time.Time
}

// Recorder collects frames while a session is played.
type Recorder struct {
	session Session
}

func NewRecorder(song string, seed int64, tuning game.Tuning, beats []float64) *Recorder {
	return &Recorder{session: Session{
		Song:   song,
		Seed:   seed,
		Tuning: tuning,
		Beats:  append([]float64(nil), beats...),
	}}
}

func (r *Recorder) Record(events []game.Event, now, dt float64) {
	r.session.Frames = append(r.session.Frames, FrameInput{
		Now:    now,
		Dt:     dt,
		Events: append([]game.Event(nil), events...),
	})
}

func (r *Recorder) Session() *Session {
	return &r.session
}

// Run re-simulates a session from its seed and recorded frames.
func Run(s *Session) *game.State {
	state := game.NewState(s.Tuning, s.Beats, s.Seed)
	for _, f := range s.Frames {
		if state.Frame(f.Events, f.Now, f.Dt) {
			break
		}
	}
	return state
}
