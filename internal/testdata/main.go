package testdata

import (
	"strings"

	"git.lost.host/meutraa/arrows/internal/game"
	"git.lost.host/meutraa/arrows/internal/parser"
)

// Chart is a short hand-authored chart covering every lane and speed.
const Chart = `name: Warmup
audio: warmup.mp3
arrows:
  - click_time: 1.0
    speed: slow
    direction: up
  - click_time: 1.0
    speed: slow
    direction: down
  - click_time: 1.5
    speed: medium
    direction: left
  - click_time: 2.25
    speed: fast
    direction: right
  - click_time: 3.125
    speed: slow
    direction: up
`

func GetChart() (*game.Chart, error) {
	psr := parser.DefaultParser{}
	return psr.Decode(strings.NewReader(Chart))
}
