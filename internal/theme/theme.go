package theme

import (
	"image/color"

	"git.lost.host/meutraa/arrows/internal/game"
)

type Theme interface {
	// RenderNote draws an in-flight note, faded by its scale
	RenderNote(n game.ActiveNote) string
	// RenderMarker draws a lane target or indicator, lit while its lane is
	// pressed
	RenderMarker(lane game.Lane, lit bool) string
	// RenderJudgement is the splash shown on a lane marker after a hit or
	// a miss
	RenderJudgement(j game.Judgement) string
	SpeedColor(s game.Speed) color.RGBA
}
