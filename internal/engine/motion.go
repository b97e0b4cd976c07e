package engine

import (
	"math"

	"git.lost.host/meutraa/arrows/internal/game"
)

// integrate advances a note by one frame. Past the hit window a missed note
// falls, shrinks and spins away from its target.
func integrate(n *game.ActiveNote, delta float64) {
	n.X += delta * n.Speed.Velocity()

	overshoot := n.X - (game.TargetPosition + game.Threshold)
	if overshoot <= 0 {
		return
	}
	n.Y -= delta * overshoot * game.DropRate
	n.Scale = math.Max((100-overshoot/3)/100, game.MinScale)
	n.Rotation -= overshoot * n.Speed.Multiplier() / game.RotationScale
}
