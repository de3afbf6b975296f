package game

type MoveKind uint8

const (
	MoveMiss MoveKind = iota
	MoveHit
)

func (k MoveKind) String() string {
	switch k {
	case MoveHit:
		return "hit"
	case MoveMiss:
		return "miss"
	}
	return "unknown"
}

// Move is one entry of the player's history. Target is only set for hits
// and refers to the target without owning it.
type Move struct {
	Kind   MoveKind
	Column int
	Target TargetID
}

// History is the last-in-first-out record of player moves.
type History struct {
	moves []Move
}

func (h *History) Push(m Move) {
	h.moves = append(h.moves, m)
}

func (h *History) Pop() (Move, bool) {
	if len(h.moves) == 0 {
		return Move{}, false
	}
	m := h.moves[len(h.moves)-1]
	h.moves = h.moves[:len(h.moves)-1]
	return m, true
}

func (h *History) Peek() (Move, bool) {
	if len(h.moves) == 0 {
		return Move{}, false
	}
	return h.moves[len(h.moves)-1], true
}

func (h *History) Len() int {
	return len(h.moves)
}
