package input

import "git.lost.host/meutraa/arrows/internal/game"

// Snapshot is the set of lanes whose key went down since the previous frame.
type Snapshot uint8

func Of(lanes ...game.Lane) Snapshot {
	var s Snapshot
	for _, l := range lanes {
		s = s.With(l)
	}
	return s
}

func (s Snapshot) Pressed(l game.Lane) bool {
	return s&(1<<l) != 0
}

func (s Snapshot) With(l game.Lane) Snapshot {
	return s | 1<<l
}

func (s Snapshot) Without(l game.Lane) Snapshot {
	return s &^ (1 << l)
}

func (s Snapshot) Empty() bool {
	return s == 0
}

// Lanes lists the pressed lanes in enumeration order.
func (s Snapshot) Lanes() []game.Lane {
	lanes := make([]game.Lane, 0, game.LaneCount)
	for _, l := range game.Lanes {
		if s.Pressed(l) {
			lanes = append(lanes, l)
		}
	}
	return lanes
}

// Events is everything read from the keyboard during one frame.
type Events struct {
	Pressed Snapshot
	Runes   []rune // Non lane keys, used for menu selection
	Quit    bool   // Leave the current screen
	Exit    bool   // Leave the game from any screen
	Err     error
}

type Reader interface {
	Poll() Events
	Close() error
}
