package theme

import (
	"fmt"
	"image/color"

	"git.lost.host/meutraa/arrows/internal/game"
)

type DefaultTheme struct {
}

func (t *DefaultTheme) RenderNote(n game.ActiveNote) string {
	c := Fade(t.SpeedColor(n.Speed), n.Scale)
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, Arrow(n.Lane))
}

func (t *DefaultTheme) RenderMarker(lane game.Lane, lit bool) string {
	if lit {
		return fmt.Sprintf("\033[1m%v\033[0m", markerSyms[lane])
	}
	return fmt.Sprintf("\033[2m%v\033[0m", markerSyms[lane])
}

func (t *DefaultTheme) RenderJudgement(j game.Judgement) string {
	if j.Verdict == game.Hit {
		return fmt.Sprintf("\033[38;2;0;236;128m%v+%v\033[0m", hitSym, j.Points)
	}
	return fmt.Sprintf("\033[38;2;236;30;0m%v\033[0m", missSym)
}

func (t *DefaultTheme) SpeedColor(s game.Speed) color.RGBA {
	col, ok := speedColors[s]
	if !ok {
		return white
	}
	return col
}

// Arrow is the symbol of a lane, pointing the way the player presses.
func Arrow(l game.Lane) string {
	if !l.Valid() {
		return "?"
	}
	return syms[l]
}

// Fade scales a color towards black. Notes shrink as they decay past the
// target, so they also darken.
func Fade(c color.RGBA, scale float64) color.RGBA {
	if scale >= 1 {
		return c
	}
	if scale < game.MinScale {
		scale = game.MinScale
	}
	return color.RGBA{
		R: uint8(float64(c.R) * scale),
		G: uint8(float64(c.G) * scale),
		B: uint8(float64(c.B) * scale),
		A: c.A,
	}
}

const (
	hitSym  = "✦"
	missSym = "⨯"
)

var (
	syms       = [game.LaneCount]string{"↑", "↓", "←", "→"}
	markerSyms = [game.LaneCount]string{"⇧", "⇩", "⇦", "⇨"}
	white      = color.RGBA{255, 255, 255, 255}

	speedColors = map[game.Speed]color.RGBA{
		game.Slow:   {0, 118, 236, 255}, // blue
		game.Medium: {236, 195, 0, 255}, // yellow
		game.Fast:   {236, 30, 0, 255},  // red
	}
)
