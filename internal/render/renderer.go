package render

import (
	"git.lost.host/meutraa/arrows/internal/engine"
	"git.lost.host/meutraa/arrows/internal/game"
)

type Renderer interface {
	Init() error
	Deinit() error
	Resize(cols, rows int)
	Menu(title string, items []engine.MenuItem)
	Field(markers []engine.Marker, active []game.ActiveNote, hud Hud)
	Judged(js []game.Judgement)
	Flush() error
}
