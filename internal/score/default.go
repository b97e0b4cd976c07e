package score

import (
	"math"

	"git.lost.host/meutraa/arrows/internal/game"
	"git.lost.host/meutraa/arrows/internal/input"
)

const (
	maxPoints = 100
	minPoints = 10
)

type DefaultScorer struct {
	state State
}

// Bonus is the points for a hit at distance d from the target: 100 on the
// target, falling linearly to a floor of 10 at the edge of the window.
func Bonus(d float64) int {
	d = math.Abs(d)
	points := maxPoints * (game.Threshold - d) / game.Threshold
	if points > maxPoints {
		points = maxPoints
	}
	if points < minPoints || math.IsNaN(points) {
		points = minPoints
	}
	return int(points)
}

// InWindow reports whether x is close enough to the target to be hit.
func InWindow(x float64) bool {
	return x >= game.TargetPosition-game.Threshold && x <= game.TargetPosition+game.Threshold
}

// Missed reports whether a note at x has scrolled past any chance of a hit.
func Missed(x float64) bool {
	return x >= game.MissPosition
}

func (s *DefaultScorer) Reset() {
	s.state = State{}
}

func (s *DefaultScorer) Sink() Sink {
	return &s.state
}

func (s *DefaultScorer) Judge(active []game.ActiveNote, pressed input.Snapshot) []game.Judgement {
	var judgements []game.Judgement
	for _, note := range active {
		// A press is consumed by the first note in spawn order that it hits
		if pressed.Pressed(note.Lane) && InWindow(note.X) {
			pressed = pressed.Without(note.Lane)
			d := math.Abs(note.Distance())
			judgements = append(judgements, game.Judgement{
				ID:       note.ID,
				Lane:     note.Lane,
				Verdict:  game.Hit,
				Distance: d,
				Points:   s.state.increaseCorrect(d),
			})
			continue
		}
		if Missed(note.X) {
			s.state.increaseFails()
			judgements = append(judgements, game.Judgement{
				ID:       note.ID,
				Lane:     note.Lane,
				Verdict:  game.Miss,
				Distance: math.Abs(note.Distance()),
			})
		}
	}
	return judgements
}
