package game

// Schedule is a read-once queue of spawn times in seconds. Entries are
// consumed in the order the beats were given and are never refilled.
type Schedule struct {
	times []float64
	next  int
}

// NewSchedule shifts every beat timestamp back by leadIn. Beats are expected
// in ascending order, as produced by a beat detector; spawn times earlier
// than zero are due on the very first frame.
func NewSchedule(beats []float64, leadIn float64) *Schedule {
	times := make([]float64, len(beats))
	for i, b := range beats {
		times[i] = b - leadIn
	}
	return &Schedule{times: times}
}

// Peek returns the earliest remaining spawn time if it is due at now.
func (s *Schedule) Peek(now float64) (float64, bool) {
	if s.Empty() || s.times[s.next] > now {
		return 0, false
	}
	return s.times[s.next], true
}

// Pop removes and returns the earliest remaining spawn time. It panics on an
// empty schedule; callers check Peek or Empty first.
func (s *Schedule) Pop() float64 {
	t := s.times[s.next]
	s.next++
	return t
}

func (s *Schedule) Empty() bool {
	return s.next >= len(s.times)
}

// Len is the number of spawn times not yet consumed.
func (s *Schedule) Len() int {
	return len(s.times) - s.next
}
