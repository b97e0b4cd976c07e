package score

import (
	"git.lost.host/meutraa/arrows/internal/game"
	"git.lost.host/meutraa/arrows/internal/input"
)

type Scorer interface {
	// Reset clears the state at the start of a session
	Reset()

	// Judge resolves this frame's presses against the in-flight notes,
	// given in spawn order, and applies the outcome to the state
	Judge(active []game.ActiveNote, pressed input.Snapshot) []game.Judgement

	Sink() Sink
}

// Sink is the read only view of a session's score given to presentation.
type Sink interface {
	Score() int
	Corrects() int
	Fails() int
}

// State is owned by the scorer for the duration of a session.
type State struct {
	score    int
	corrects int
	fails    int
}

func (s *State) Score() int    { return s.score }
func (s *State) Corrects() int { return s.corrects }
func (s *State) Fails() int    { return s.fails }

func (s *State) increaseCorrect(distance float64) int {
	points := Bonus(distance)
	s.corrects++
	s.score += points
	return points
}

func (s *State) increaseFails() {
	s.fails++
}
