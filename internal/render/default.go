package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"git.lost.host/meutraa/arrows/internal/engine"
	"git.lost.host/meutraa/arrows/internal/game"
	"git.lost.host/meutraa/arrows/internal/input"
	"git.lost.host/meutraa/arrows/internal/score"
	"git.lost.host/meutraa/arrows/internal/theme"
)

// The visible world: X from the spawn point to the miss line, Y symmetric
// around the lanes.
const (
	worldLeft  = game.SpawnPosition
	worldRight = game.MissPosition
	worldTop   = 200.0
)

// Hud is the text drawn above the playfield.
type Hud struct {
	// SongTime is only shown once it is non negative
	SongTime float64
	Sink     score.Sink
	Status   string
	Pressed  input.Snapshot
}

type DefaultRenderer struct {
	out          io.Writer
	fd           int
	theme        theme.Theme
	buffer       strings.Builder
	restoreState *term.State
	cols, rows   int
	decorations  []*decoration
}

// decoration is a judgement splash drawn over a lane marker.
type decoration struct {
	Lane    game.Lane
	Content string
	Frames  int // remaining frames until removed
}

// FlashFrames is how long a judgement stays on screen.
const FlashFrames = 12

// New renders to the terminal on out.
func New(out *os.File, th theme.Theme) *DefaultRenderer {
	return &DefaultRenderer{out: out, fd: int(out.Fd()), theme: th, cols: 80, rows: 24}
}

// NewWriter renders to any writer, without terminal control.
func NewWriter(out io.Writer, th theme.Theme, cols, rows int) *DefaultRenderer {
	return &DefaultRenderer{out: out, fd: -1, theme: th, cols: cols, rows: rows}
}

func (r *DefaultRenderer) Init() error {
	if r.fd >= 0 {
		cols, rows, err := term.GetSize(r.fd)
		if nil != err {
			return errors.Wrap(err, "unable to get terminal size")
		}
		r.Resize(cols, rows)

		state, err := term.MakeRaw(r.fd)
		if nil != err {
			return errors.Wrap(err, "unable to enter raw mode")
		}
		r.restoreState = state
	}

	r.buffer.WriteString("\033[?1049h") // Enable alternate buffer
	r.buffer.WriteString("\033[?25l")   // Make the cursor invisible
	r.buffer.WriteString("\033[J")      // Clear the screen
	return r.Flush()
}

func (r *DefaultRenderer) Deinit() error {
	r.buffer.WriteString("\033[?1049l") // Disable alternate buffer
	r.buffer.WriteString("\033[?25h")   // Make the cursor visible
	if err := r.Flush(); nil != err {
		return err
	}
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(r.fd, r.restoreState)
}

func (r *DefaultRenderer) Resize(cols, rows int) {
	r.cols, r.rows = cols, rows
}

func (r *DefaultRenderer) clear() {
	r.buffer.WriteString("\033[H\033[2J")
}

// Judged flashes the marker of each judged lane for the next FlashFrames
// fields.
func (r *DefaultRenderer) Judged(js []game.Judgement) {
	for _, j := range js {
		r.decorations = append(r.decorations, &decoration{
			Lane:    j.Lane,
			Content: r.theme.RenderJudgement(j),
			Frames:  FlashFrames,
		})
	}
}

func (r *DefaultRenderer) tickDecorations() {
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		d.Frames--
		if d.Frames > 0 {
			nd = append(nd, d)
		}
	}
	r.decorations = nd
}

func (r *DefaultRenderer) Menu(title string, items []engine.MenuItem) {
	r.decorations = nil
	r.clear()
	r.Fill(1, 1, title)
	for i, item := range items {
		r.Fill(i+3, 3, fmt.Sprintf("%v) %v", i, item.Label))
	}
}

func (r *DefaultRenderer) Field(markers []engine.Marker, active []game.ActiveNote, hud Hud) {
	r.clear()

	header := make([]string, 0, 3)
	if hud.SongTime >= 0 {
		header = append(header, fmt.Sprintf("Time: %.2f", hud.SongTime))
	}
	if nil != hud.Sink {
		header = append(header, fmt.Sprintf("Score: %d. Corrects: %d. Fails: %d",
			hud.Sink.Score(), hud.Sink.Corrects(), hud.Sink.Fails()))
	}
	if hud.Status != "" {
		header = append(header, hud.Status)
	}
	r.Fill(1, 1, strings.Join(header, "   "))

	for _, m := range markers {
		if col, row, ok := Cell(m.X, m.Y, r.cols, r.rows); ok {
			r.Fill(row, col, r.theme.RenderMarker(m.Lane, hud.Pressed.Pressed(m.Lane)))
		}
	}
	for _, d := range r.decorations {
		for _, m := range markers {
			if m.Lane != d.Lane {
				continue
			}
			if col, row, ok := Cell(m.X, m.Y, r.cols, r.rows); ok {
				r.Fill(row, col, d.Content)
			}
		}
	}
	r.tickDecorations()
	// drawn after the markers so a note over its target stays visible
	for _, n := range active {
		if col, row, ok := Cell(n.X, n.Y, r.cols, r.rows); ok {
			r.Fill(row, col, r.theme.RenderNote(n))
		}
	}
}

// Cell maps a world position to a 1 based terminal cell. The first row is
// kept for the header. ok is false when the position is off screen.
func Cell(x, y float64, cols, rows int) (col, row int, ok bool) {
	if cols < 1 || rows < 2 {
		return 0, 0, false
	}
	fieldRows := rows - 1
	col = 1 + int(math.Round((x-worldLeft)/(worldRight-worldLeft)*float64(cols-1)))
	row = 2 + int(math.Round((worldTop-y)/(2*worldTop)*float64(fieldRows-1)))
	ok = col >= 1 && col <= cols && row >= 2 && row <= rows
	return col, row, ok
}

func (r *DefaultRenderer) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) Flush() error {
	_, err := io.WriteString(r.out, r.buffer.String())
	r.buffer.Reset()
	return err
}
