package game

import (
	"math/rand"
)

// UndoResult describes what an undo did to the session.
type UndoResult uint8

const (
	UndoNone     UndoResult = iota // history was empty
	UndoMiss                       // a miss was discarded
	UndoHit                        // a hit was reverted and its target revived
	UndoDangling                   // a hit was reverted but its target was already gone
)

func (u UndoResult) String() string {
	switch u {
	case UndoNone:
		return "none"
	case UndoMiss:
		return "miss"
	case UndoHit:
		return "hit"
	case UndoDangling:
		return "dangling"
	}
	return "unknown"
}

// State is everything a session mutates between frames. It is driven by a
// single goroutine: events first, then the simulation step.
type State struct {
	Tuning   Tuning
	Schedule *Schedule
	Targets  *Registry
	History  History

	Score  int
	Hits   int
	Misses int

	// Optional callbacks for events applied through Frame.
	OnMove func(m Move)
	OnUndo func(r UndoResult)

	rng *rand.Rand
}

func NewState(tuning Tuning, beats []float64, seed int64) *State {
	return &State{
		Tuning:   tuning,
		Schedule: NewSchedule(beats, tuning.EffectiveLeadIn()),
		Targets:  NewRegistry(),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Frame applies the events queued since the last frame in order and then
// advances the simulation. A quit event ends the frame immediately.
func (s *State) Frame(events []Event, now, dt float64) bool {
	for _, ev := range events {
		switch ev.Kind {
		case EventQuit:
			return true
		case EventUndo:
			r := s.Undo()
			if s.OnUndo != nil {
				s.OnUndo(r)
			}
		case EventPress:
			m, ok := s.Press(ev.Column)
			if ok && s.OnMove != nil {
				s.OnMove(m)
			}
		}
	}
	s.Step(now, dt)
	return false
}

func (s *State) Step(now, dt float64) {
	s.SpawnDue(now)
	s.Advance(dt)
}

// SpawnDue moves every spawn time due at now into the registry, each at a
// uniformly random column on the spawn line. It returns the spawn count.
func (s *State) SpawnDue(now float64) int {
	n := 0
	for {
		if _, ok := s.Schedule.Peek(now); !ok {
			return n
		}
		s.Schedule.Pop()
		s.Targets.Spawn(s.rng.Intn(s.Tuning.Columns), s.Tuning.SpawnY)
		n++
	}
}

// Advance moves every target down by dt worth of fall, runs down linger
// timers and drops targets that left the field or finished lingering.
func (s *State) Advance(dt float64) {
	for t := range s.Targets.All() {
		t.Y += s.Tuning.FallSpeed * dt
		if t.Hit {
			t.Linger -= dt
		}
		if t.Y > s.Tuning.Height || (t.Hit && t.Linger <= 0) {
			s.Targets.Remove(t.ID)
		}
	}
}

// Press resolves a key press in column against the live targets. The first
// unhit target of the column inside the hit zone is struck; otherwise the
// press is a miss. Columns outside the field are ignored.
func (s *State) Press(column int) (Move, bool) {
	if column < 0 || column >= s.Tuning.Columns {
		return Move{}, false
	}

	var struck *Target
	for t := range s.Targets.All() {
		if t.Column == column && !t.Hit && s.Tuning.InHitZone(t.Y) {
			struck = t
			break
		}
	}

	if struck == nil {
		m := Move{Kind: MoveMiss, Column: column}
		s.Misses++
		s.History.Push(m)
		return m, true
	}

	struck.Hit = true
	struck.Linger = s.Tuning.Linger
	s.Score++
	s.Hits++
	m := Move{Kind: MoveHit, Column: column, Target: struck.ID}
	s.History.Push(m)
	return m, true
}

// Undo reverts the most recent move. A reverted hit always gives the point
// back, but the target is only revived when it is still live.
func (s *State) Undo() UndoResult {
	m, ok := s.History.Pop()
	if !ok {
		return UndoNone
	}
	if m.Kind == MoveMiss {
		return UndoMiss
	}

	s.Score--
	s.Hits--
	t, ok := s.Targets.Get(m.Target)
	if !ok {
		return UndoDangling
	}
	t.Hit = false
	t.Linger = 0
	return UndoHit
}

// Finished reports whether no target will ever be on screen again.
func (s *State) Finished() bool {
	return s.Schedule.Empty() && s.Targets.Len() == 0
}
