package parser

import (
	"io"

	"git.lost.host/meutraa/arrows/internal/game"
)

type Parser interface {
	Parse(file string) (*game.Chart, error)
	Decode(r io.Reader) (*game.Chart, error)
}

type Writer interface {
	Write(file string, chart *game.Chart) error
	Encode(w io.Writer, chart *game.Chart) error
}
