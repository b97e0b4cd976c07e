package input

import (
	"github.com/eiannone/keyboard"
	"github.com/pkg/errors"

	"git.lost.host/meutraa/arrows/internal/game"
)

// Bindings maps keys to lanes. Each lane answers to its arrow key and to a
// single rune.
type Bindings struct {
	Arrows [game.LaneCount]keyboard.Key
	Runes  [game.LaneCount]rune
}

func DefaultBindings() Bindings {
	return Bindings{
		Arrows: [game.LaneCount]keyboard.Key{
			keyboard.KeyArrowUp,
			keyboard.KeyArrowDown,
			keyboard.KeyArrowLeft,
			keyboard.KeyArrowRight,
		},
		Runes: [game.LaneCount]rune{'d', 'f', 'j', 'k'},
	}
}

// NewBindings uses the runes of keys, in lane order, in place of the
// default rune aliases.
func NewBindings(keys string) (Bindings, error) {
	b := DefaultBindings()
	if keys == "" {
		return b, nil
	}
	rs := []rune(keys)
	if len(rs) != game.LaneCount {
		return b, errors.Errorf("need exactly %d keys, got %q", game.LaneCount, keys)
	}
	seen := map[rune]bool{}
	for i, r := range rs {
		if seen[r] {
			return b, errors.Errorf("key %q bound twice", r)
		}
		seen[r] = true
		b.Runes[i] = r
	}
	return b, nil
}

func (b *Bindings) Lane(ev keyboard.KeyEvent) (game.Lane, bool) {
	for i := range game.Lanes {
		if (ev.Key != 0 && ev.Key == b.Arrows[i]) || (ev.Rune != 0 && ev.Rune == b.Runes[i]) {
			return game.Lane(i), true
		}
	}
	return 0, false
}

// Translate folds a frame's key events into Events.
func (b *Bindings) Translate(evs []keyboard.KeyEvent) Events {
	var out Events
	for _, ev := range evs {
		if nil != ev.Err {
			out.Err = ev.Err
			continue
		}
		switch ev.Key {
		case keyboard.KeyEsc:
			out.Quit = true
			continue
		case keyboard.KeyCtrlC:
			// raw mode swallows the signal, so this is the keyboard's SIGINT
			out.Exit = true
			continue
		}
		if lane, ok := b.Lane(ev); ok {
			out.Pressed = out.Pressed.With(lane)
			continue
		}
		if ev.Rune != 0 {
			out.Runes = append(out.Runes, ev.Rune)
		}
	}
	return out
}

// DefaultReader reads the terminal keyboard. The keyboard library only
// reports key downs, so every event is a fresh press.
type DefaultReader struct {
	bindings Bindings
	keys     <-chan keyboard.KeyEvent
	buffer   []keyboard.KeyEvent
}

func Open(bindings Bindings) (*DefaultReader, error) {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, errors.Wrap(err, "unable to open keyboard")
	}
	return &DefaultReader{bindings: bindings, keys: keys}, nil
}

// Poll drains the events that occured since the last call without blocking.
func (r *DefaultReader) Poll() Events {
	r.buffer = r.buffer[:0]
	for n := len(r.keys); n > 0; n-- {
		r.buffer = append(r.buffer, <-r.keys)
	}
	return r.bindings.Translate(r.buffer)
}

// Wait blocks for the next key, for menus.
func (r *DefaultReader) Wait() Events {
	ev := <-r.keys
	return r.bindings.Translate([]keyboard.KeyEvent{ev})
}

func (r *DefaultReader) Close() error {
	return keyboard.Close()
}
