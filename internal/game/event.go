package game

type EventKind uint8

const (
	EventPress EventKind = iota
	EventUndo
	EventQuit
)

// Event is a discrete player input. Column is only meaningful for presses.
type Event struct {
	Kind   EventKind `json:"k"`
	Column int       `json:"c,omitempty"`
}

func Press(column int) Event { return Event{Kind: EventPress, Column: column} }

func Undo() Event { return Event{Kind: EventUndo} }

func Quit() Event { return Event{Kind: EventQuit} }
