package input

import (
	"unicode"

	"github.com/eiannone/keyboard"

	"git.lost.host/meutraa/beatfall/internal/config"
	"git.lost.host/meutraa/beatfall/internal/game"
)

// KeyMap translates key presses into game events. It is built from a
// validated tuning, so every column it yields is inside the field.
type KeyMap struct {
	Columns []rune
	Undo    rune
}

func NewKeyMap(t config.Tuning) KeyMap {
	return KeyMap{Columns: t.ColumnKeys(), Undo: t.UndoKey()}
}

func (m KeyMap) Resolve(ev keyboard.KeyEvent) (game.Event, bool) {
	switch ev.Key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return game.Quit(), true
	}
	if ev.Rune == 0 {
		return game.Event{}, false
	}

	r := unicode.ToLower(ev.Rune)
	if r == m.Undo {
		return game.Undo(), true
	}
	for i, c := range m.Columns {
		if r == c {
			return game.Press(i), true
		}
	}
	return game.Event{}, false
}
