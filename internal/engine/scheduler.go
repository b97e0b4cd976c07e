package engine

import "git.lost.host/meutraa/arrows/internal/game"

// retireEarly drops the notes timed before the song starts. They never spawn.
func retireEarly(chart *game.Chart) int {
	n := 0
	for head, ok := chart.Head(); ok && head.SpawnTime < 0; head, ok = chart.Head() {
		chart.Pop()
		n++
	}
	return n
}

// schedule pops every pending note due by now. The chart is sorted, so the
// scan stops at the first note still in the future and each note is looked
// at once over the whole song. The upper bound is inclusive, and anything
// that a long frame jumped over is still due.
func schedule(chart *game.Chart, now float64, spawn func(game.Note)) {
	for head, ok := chart.Head(); ok && head.SpawnTime <= now; head, ok = chart.Head() {
		spawn(chart.Pop())
	}
}
