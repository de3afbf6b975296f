// Package input turns raw keyboard events into game events.
package input

import (
	"fmt"

	"github.com/eiannone/keyboard"

	"git.lost.host/meutraa/beatfall/internal/game"
)

// Source buffers key events between frames.
type Source struct {
	keys   <-chan keyboard.KeyEvent
	keymap KeyMap
	err    error
	closer func() error
}

// Open takes over the terminal keyboard.
func Open(m KeyMap) (*Source, error) {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, fmt.Errorf("unable to open keyboard: %w", err)
	}
	s := newSource(keys, m)
	s.closer = keyboard.Close
	return s, nil
}

func newSource(keys <-chan keyboard.KeyEvent, m KeyMap) *Source {
	return &Source{keys: keys, keymap: m}
}

// Poll drains every key event queued since the previous call without
// blocking, in arrival order. A closed keyboard reads as a quit.
func (s *Source) Poll() []game.Event {
	var events []game.Event
	for {
		select {
		case ev, ok := <-s.keys:
			if !ok {
				return append(events, game.Quit())
			}
			if nil != ev.Err {
				s.err = ev.Err
				continue
			}
			if e, ok := s.keymap.Resolve(ev); ok {
				events = append(events, e)
			}
		default:
			return events
		}
	}
}

// Err returns the last error reported by the keyboard, if any.
func (s *Source) Err() error {
	return s.err
}

func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
