package game

import (
	"testing"
)

func newTestState(beats []float64) *State {
	return NewState(DefaultTuning(), beats, 7)
}

// place puts a target directly into the registry, bypassing the schedule.
func place(s *State, column int, y float64) *Target {
	id := s.Targets.Spawn(column, y)
	t, _ := s.Targets.Get(id)
	return t
}

func TestSpawnDueCreatesOnePerBeat(t *testing.T) {
	s := newTestState([]float64{1.0, 1.0, 1.0, 1.5, 9})

	if n := s.SpawnDue(0.5); n != 4 {
		t.Fatalf("expected 4 spawns, got %d", n)
	}
	if s.Targets.Len() != 4 {
		t.Fatalf("expected 4 live targets, got %d", s.Targets.Len())
	}
	for tg := range s.Targets.All() {
		if tg.Column < 0 || tg.Column >= s.Tuning.Columns {
			t.Errorf("column %d out of range", tg.Column)
		}
		if tg.Y != s.Tuning.SpawnY {
			t.Errorf("expected spawn at %v, got %v", s.Tuning.SpawnY, tg.Y)
		}
		if tg.Hit {
			t.Error("fresh target is already hit")
		}
	}
	if s.Schedule.Len() != 1 {
		t.Fatalf("expected 1 pending spawn, got %d", s.Schedule.Len())
	}
}

func TestUntouchedTargetLeavesField(t *testing.T) {
	s := newTestState(nil)
	tg := place(s, 1, s.Tuning.SpawnY)

	// 650 units at 37.5 per frame: ceil(17.33) = 18 frames.
	const dt = 0.125
	for i := 0; i < 17; i++ {
		s.Step(float64(i)*dt, dt)
	}
	if _, ok := s.Targets.Get(tg.ID); !ok {
		t.Fatal("target removed before crossing the bottom")
	}
	s.Step(17*dt, dt)
	if _, ok := s.Targets.Get(tg.ID); ok {
		t.Fatalf("target still live at y=%v", tg.Y)
	}
	if !s.Finished() {
		t.Fatal("state should be finished")
	}
}

func TestPositionsIncreaseEveryFrame(t *testing.T) {
	s := newTestState([]float64{0, 0.3, 0.6})
	last := map[TargetID]float64{}
	for f := 0; f < 60; f++ {
		s.Step(float64(f)/30, 1.0/30)
		for tg := range s.Targets.All() {
			if y, ok := last[tg.ID]; ok && tg.Y <= y {
				t.Fatalf("target %d went from %v to %v", tg.ID, y, tg.Y)
			}
			last[tg.ID] = tg.Y
		}
	}
}

func TestPressHit(t *testing.T) {
	s := newTestState(nil)
	tg := place(s, 2, s.Tuning.HitZoneY)

	m, ok := s.Press(2)
	if !ok || m.Kind != MoveHit || m.Target != tg.ID {
		t.Fatalf("expected hit on %d, got %+v", tg.ID, m)
	}
	if s.Score != 1 || !tg.Hit || tg.Linger != s.Tuning.Linger {
		t.Fatalf("score=%d hit=%v linger=%v", s.Score, tg.Hit, tg.Linger)
	}
	if s.History.Len() != 1 {
		t.Fatalf("expected one history entry, got %d", s.History.Len())
	}
}

var missTests = map[string]struct {
	column int
	y      float64
}{
	"empty column":    {column: 0, y: 500},
	"above window":    {column: 1, y: 300},
	"lower edge":      {column: 1, y: 450},
	"upper edge":      {column: 1, y: 550},
	"different lane":  {column: 3, y: 500},
	"below the field": {column: 1, y: 700},
}

func TestPressMiss(t *testing.T) {
	for name, test := range missTests {
		s := newTestState(nil)
		tg := place(s, test.column, test.y)
		press := 1
		if name == "empty column" {
			s.Targets.Remove(tg.ID)
			press = 0
		}

		m, ok := s.Press(press)
		if !ok || m.Kind != MoveMiss {
			t.Errorf("%s: expected miss, got %+v", name, m)
			continue
		}
		if s.Score != 0 || s.Misses != 1 || tg.Hit {
			t.Errorf("%s: score=%d misses=%d hit=%v", name, s.Score, s.Misses, tg.Hit)
		}
	}
}

func TestPressIgnoresOutOfRangeColumn(t *testing.T) {
	s := newTestState(nil)
	for _, c := range []int{-1, s.Tuning.Columns, 99} {
		if _, ok := s.Press(c); ok {
			t.Errorf("column %d was accepted", c)
		}
	}
	if s.History.Len() != 0 || s.Misses != 0 {
		t.Fatal("ignored press touched the history")
	}
}

func TestPressPrefersFirstInTraversal(t *testing.T) {
	s := newTestState(nil)
	first := place(s, 0, 480)
	second := place(s, 0, 510)

	m, _ := s.Press(0)
	if m.Target != first.ID {
		t.Fatalf("expected first target %d, got %d", first.ID, m.Target)
	}
	m, _ = s.Press(0)
	if m.Target != second.ID {
		t.Fatalf("expected second target %d, got %d", second.ID, m.Target)
	}
	if m, _ = s.Press(0); m.Kind != MoveMiss {
		t.Fatal("both targets were hit, third press should miss")
	}
}

func TestUndoHit(t *testing.T) {
	s := newTestState(nil)
	tg := place(s, 1, 500)
	s.Press(1)

	if r := s.Undo(); r != UndoHit {
		t.Fatalf("expected %v, got %v", UndoHit, r)
	}
	if s.Score != 0 || tg.Hit {
		t.Fatalf("score=%d hit=%v after undo", s.Score, tg.Hit)
	}
	if tg.Y != 500 {
		t.Fatalf("undo moved the target to %v", tg.Y)
	}

	// The revived target can be struck again.
	if m, _ := s.Press(1); m.Kind != MoveHit {
		t.Fatal("revived target could not be hit")
	}
}

func TestUndoEmptyIsNoop(t *testing.T) {
	s := newTestState(nil)
	tg := place(s, 1, 500)

	if r := s.Undo(); r != UndoNone {
		t.Fatalf("expected %v, got %v", UndoNone, r)
	}
	if s.Score != 0 || tg.Hit || s.Targets.Len() != 1 {
		t.Fatal("undo on empty history changed state")
	}

	s.Press(1)
	s.Undo()
	if r := s.Undo(); r != UndoNone {
		t.Fatalf("second undo should find nothing, got %v", r)
	}
	if s.Score != 0 {
		t.Fatalf("score went to %d", s.Score)
	}
}

func TestUndoMissConsumesEntry(t *testing.T) {
	s := newTestState(nil)
	s.Press(0)

	if r := s.Undo(); r != UndoMiss {
		t.Fatalf("expected %v, got %v", UndoMiss, r)
	}
	if s.History.Len() != 0 || s.Score != 0 || s.Misses != 1 {
		t.Fatalf("history=%d score=%d misses=%d", s.History.Len(), s.Score, s.Misses)
	}
}

func TestUndoAfterTargetExpired(t *testing.T) {
	s := newTestState(nil)
	tg := place(s, 3, 500)
	s.Press(3)

	s.Step(0, 0.25)
	if _, ok := s.Targets.Get(tg.ID); ok {
		t.Fatal("target should have finished lingering")
	}

	if r := s.Undo(); r != UndoDangling {
		t.Fatalf("expected %v, got %v", UndoDangling, r)
	}
	if s.Score != 0 {
		t.Fatalf("expected the point to be taken back, score=%d", s.Score)
	}
	if s.Targets.Len() != 0 {
		t.Fatal("dangling undo brought a target back")
	}
}

func TestHitWindowTiming(t *testing.T) {
	tuning := DefaultTuning()
	tuning.SpawnY = 0
	tuning.HitZoneY = 400
	tuning.Tolerance = 50
	tuning.FallSpeed = 300
	s := NewState(tuning, nil, 1)
	tg := place(s, 0, 0)

	s.Advance(1.0)
	if tuning.InHitZone(tg.Y) {
		t.Fatalf("y=%v at t=1.0 should be above the window", tg.Y)
	}
	s.Advance(0.25)
	if !tuning.InHitZone(tg.Y) {
		t.Fatalf("y=%v at t=1.25 should be inside the window", tg.Y)
	}
	s.Advance(0.25)
	if tuning.InHitZone(tg.Y) {
		t.Fatalf("y=%v at t=1.5 should have left the window", tg.Y)
	}
}

func TestFrameAppliesInputBeforeStep(t *testing.T) {
	s := newTestState(nil)
	tg := place(s, 2, 545)

	// The step alone would push the target out of the window.
	if quit := s.Frame([]Event{Press(2)}, 0, 0.1); quit {
		t.Fatal("unexpected quit")
	}
	if !tg.Hit || s.Score != 1 {
		t.Fatalf("press was not resolved before the step, hit=%v", tg.Hit)
	}
}

func TestFrameQuit(t *testing.T) {
	s := newTestState(nil)
	tg := place(s, 0, 100)

	if quit := s.Frame([]Event{Quit(), Press(0)}, 0, 1); !quit {
		t.Fatal("expected quit")
	}
	if tg.Y != 100 || s.History.Len() != 0 {
		t.Fatal("state advanced after quit")
	}
}

func TestFrameCallbacks(t *testing.T) {
	s := newTestState(nil)
	place(s, 0, 500)

	moves := []MoveKind{}
	undos := []UndoResult{}
	s.OnMove = func(m Move) { moves = append(moves, m.Kind) }
	s.OnUndo = func(r UndoResult) { undos = append(undos, r) }

	s.Frame([]Event{Press(0), Press(1), Undo(), Undo(), Undo()}, 0, 0)

	if len(moves) != 2 || moves[0] != MoveHit || moves[1] != MoveMiss {
		t.Fatalf("unexpected moves %v", moves)
	}
	if len(undos) != 3 || undos[0] != UndoMiss || undos[1] != UndoHit || undos[2] != UndoNone {
		t.Fatalf("unexpected undos %v", undos)
	}
}

func TestDeterminism(t *testing.T) {
	beats := []float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4}
	run := func() (*State, []int) {
		s := NewState(DefaultTuning(), beats, 12345)
		columns := []int{}
		for f := 0; f < 400; f++ {
			var events []Event
			if f%7 == 0 {
				events = append(events, Press(f%4))
			}
			if f%31 == 0 {
				events = append(events, Undo())
			}
			s.Frame(events, float64(f)/60, 1.0/60)
			for tg := range s.Targets.All() {
				columns = append(columns, tg.Column)
			}
		}
		return s, columns
	}

	s1, c1 := run()
	s2, c2 := run()
	if s1.Score != s2.Score || s1.Misses != s2.Misses || s1.Hits != s2.Hits {
		t.Fatalf("runs differ: %d/%d/%d vs %d/%d/%d",
			s1.Score, s1.Hits, s1.Misses, s2.Score, s2.Hits, s2.Misses)
	}
	if len(c1) != len(c2) {
		t.Fatalf("column traces differ in length: %d vs %d", len(c1), len(c2))
	}
	for i := range c1 {
		if c1[i] != c2[i] {
			t.Fatalf("column traces differ at %d", i)
		}
	}
}
