// Package engine runs a rhythm game session one frame at a time.
//
// An Engine owns the pending chart, the notes in flight, the score and the
// current mode. The host calls Tick once per frame with the frame delta and
// the lanes pressed since the previous frame; within a frame the scheduler
// runs first, then motion, then hit and miss detection, so a note can be hit
// on the frame it spawns. In Author mode the recorder replaces that pipeline.
package engine

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"git.lost.host/meutraa/arrows/internal/clock"
	"git.lost.host/meutraa/arrows/internal/game"
	"git.lost.host/meutraa/arrows/internal/input"
	"git.lost.host/meutraa/arrows/internal/logger"
	"git.lost.host/meutraa/arrows/internal/parser"
	"git.lost.host/meutraa/arrows/internal/score"
)

type Mode uint8

const (
	Menu Mode = iota
	Play
	Author
)

var Modes = []Mode{Menu, Play, Author}

func (m Mode) String() string {
	switch m {
	case Menu:
		return "menu"
	case Play:
		return "play"
	case Author:
		return "author"
	}
	return "unknown"
}

// ErrInvalidTransition is returned when a transition is not allowed from the
// current mode.
var ErrInvalidTransition = errors.New("invalid mode transition")

// MenuItem is a menu entry: a song to play, or authoring when Path is empty.
type MenuItem struct {
	Label string
	Path  string
}

func (i MenuItem) Author() bool {
	return i.Path == ""
}

// Marker is a static lane marker: the hit targets while playing, or the
// lane indicators while authoring.
type Marker struct {
	Lane     game.Lane
	X, Y     float64
	Rotation float64
}

// Spawn reports a note entering the playfield.
type Spawn struct {
	ID   game.NoteID
	Note game.Note
}

// FrameEvents is everything that happened during one Tick.
type FrameEvents struct {
	Mode     Mode
	Elapsed  float64
	SongTime float64
	Delta    float64

	Spawned  []Spawn
	Judged   []game.Judgement
	Recorded []game.Note

	// SongStarted is set on the frame song time reaches zero
	SongStarted bool
	// Finished is set on the frame the last note of the chart is judged
	Finished bool
}

type Engine struct {
	mode   Mode
	clock  *clock.Controlled
	leadIn float64
	log    logger.Logger
	ctx    context.Context

	parser   parser.Parser
	scorer   score.Scorer
	recorder *Recorder

	songs   []parser.Song
	menu    []MenuItem
	markers []Marker

	chart       *game.Chart
	active      arena
	songStarted bool
	finished    bool
	lastPressed input.Snapshot
}

type Option func(*Engine)

// WithLeadIn sets the seconds between session start and song time zero.
func WithLeadIn(seconds float64) Option {
	return func(e *Engine) {
		if seconds >= 0 {
			e.leadIn = seconds
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if nil != l {
			e.log = l
		}
	}
}

func WithParser(p parser.Parser) Option {
	return func(e *Engine) {
		if nil != p {
			e.parser = p
		}
	}
}

func WithScorer(s score.Scorer) Option {
	return func(e *Engine) {
		if nil != s {
			e.scorer = s
		}
	}
}

func WithRecorder(r *Recorder) Option {
	return func(e *Engine) {
		if nil != r {
			e.recorder = r
		}
	}
}

// New creates an Engine in Menu mode.
func New(opts ...Option) *Engine {
	p := &parser.DefaultParser{}
	e := &Engine{
		mode:     Menu,
		clock:    clock.New(0),
		leadIn:   game.DefaultLeadIn,
		log:      logger.Nop(),
		ctx:      context.Background(),
		parser:   p,
		scorer:   &score.DefaultScorer{},
		recorder: NewRecorder(p, "map.yaml", game.Slow),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Mode() Mode          { return e.mode }
func (e *Engine) Clock() clock.Clock  { return e.clock }
func (e *Engine) Score() score.Sink   { return e.scorer.Sink() }
func (e *Engine) Menu() []MenuItem    { return e.menu }
func (e *Engine) Markers() []Marker   { return e.markers }
func (e *Engine) Recorder() *Recorder { return e.recorder }
func (e *Engine) Finished() bool      { return e.finished }

// LastPressed is the snapshot given to the latest Tick.
func (e *Engine) LastPressed() input.Snapshot { return e.lastPressed }

// SongTime is the session time less the lead-in.
func (e *Engine) SongTime() float64 {
	return e.clock.Elapsed() - e.leadIn
}

// Chart is the chart being played, nil outside Play.
func (e *Engine) Chart() *game.Chart {
	return e.chart
}

// Active copies the notes in flight, in spawn order.
func (e *Engine) Active() []game.ActiveNote {
	return e.active.notes()
}

// Note looks up a note in flight.
func (e *Engine) Note(id game.NoteID) (game.ActiveNote, bool) {
	n, ok := e.active.get(id)
	if !ok {
		return game.ActiveNote{}, false
	}
	return *n, true
}

func (e *Engine) Pause()  { e.clock.Pause() }
func (e *Engine) Resume() { e.clock.Resume() }

func (e *Engine) transition(to Mode) {
	e.log.Info(e.ctx, "mode changed",
		logger.String("from", e.mode.String()),
		logger.String("to", to.String()),
	)
	e.mode = to
}

func (e *Engine) require(m Mode, action string) error {
	if e.mode != m {
		return errors.Wrapf(ErrInvalidTransition, "%v from %v", action, e.mode)
	}
	return nil
}

// SetMenu builds the menu from the songs directory listing: one entry per
// song followed by the authoring entry.
func (e *Engine) SetMenu(songs []parser.Song) {
	e.songs = songs
	e.menu = make([]MenuItem, 0, len(songs)+1)
	for _, s := range songs {
		e.menu = append(e.menu, MenuItem{Label: fmt.Sprintf("Play song: %v", s.Name), Path: s.Path})
	}
	e.menu = append(e.menu, MenuItem{Label: "Make map"})
}

// Select activates a menu entry. audio is the reference track used when the
// entry starts authoring.
func (e *Engine) Select(index int, audio string) error {
	if err := e.require(Menu, "select"); nil != err {
		return err
	}
	if index < 0 || index >= len(e.menu) {
		return errors.Errorf("no menu entry %d", index)
	}
	item := e.menu[index]
	if item.Author() {
		return e.StartAuthor(audio)
	}
	return e.Load(item.Path)
}

// Load parses a chart file and starts playing it.
func (e *Engine) Load(file string) error {
	if err := e.require(Menu, "load"); nil != err {
		return err
	}
	chart, err := e.parser.Parse(file)
	if nil != err {
		e.log.Error(e.ctx, "unable to load chart", logger.String("file", file), logger.Error(err))
		return err
	}
	return e.StartPlay(chart)
}

// StartPlay enters Play with a copy of chart. An unsorted chart is rejected
// and the engine stays in Menu.
func (e *Engine) StartPlay(chart *game.Chart) error {
	if err := e.require(Menu, "play"); nil != err {
		return err
	}
	if i, ok := chart.Sorted(); !ok {
		return errors.Wrapf(parser.ErrMalformedChart, "note %d is earlier than note %d", i, i-1)
	}

	e.teardownMenu()
	e.chart = chart.Clone()
	if n := retireEarly(e.chart); n > 0 {
		e.log.Warn(e.ctx, "notes before the song start are never spawned", logger.Int("count", n))
	}
	e.clock.Reset(0)
	e.clock.Resume()
	e.scorer.Reset()
	e.active.reset()
	e.songStarted = false
	e.finished = false
	e.markers = laneMarkers(game.TargetPosition)

	e.log.Info(e.ctx, "playing",
		logger.String("chart", e.chart.Name),
		logger.Int("notes", e.chart.Len()),
	)
	e.transition(Play)
	return nil
}

// StartAuthor enters Author with an empty recording.
func (e *Engine) StartAuthor(audio string) error {
	if err := e.require(Menu, "author"); nil != err {
		return err
	}
	e.teardownMenu()
	e.clock.Reset(0)
	e.clock.Resume()
	e.recorder.Start("", audio)
	e.markers = laneMarkers(0)

	e.log.Info(e.ctx, "recording", logger.String("dest", e.recorder.Dest()), logger.String("audio", audio))
	e.transition(Author)
	return nil
}

// ReturnToMenu leaves Play, dropping the notes in flight, or Author, saving
// the recording first. If saving fails the engine stays in Author.
func (e *Engine) ReturnToMenu() error {
	switch e.mode {
	case Play:
		e.active.reset()
		e.chart = nil
	case Author:
		if err := e.recorder.Flush(); nil != err {
			return err
		}
	default:
		return errors.Wrapf(ErrInvalidTransition, "menu from %v", e.mode)
	}
	e.markers = nil
	e.SetMenu(e.songs)
	e.transition(Menu)
	return nil
}

// Shutdown handles the process exit signal. An authoring session is saved;
// the error is fatal to the caller as the recording would be lost.
func (e *Engine) Shutdown() error {
	if e.mode != Author {
		return nil
	}
	if err := e.recorder.Flush(); nil != err {
		return err
	}
	e.log.Info(e.ctx, "recording saved",
		logger.String("dest", e.recorder.Dest()),
		logger.Int("notes", e.recorder.Chart().Len()),
	)
	return nil
}

func (e *Engine) teardownMenu() {
	e.menu = nil
}

func laneMarkers(x float64) []Marker {
	markers := make([]Marker, 0, game.LaneCount)
	for _, l := range game.Lanes {
		markers = append(markers, Marker{Lane: l, X: x, Y: l.Y(), Rotation: l.Rotation()})
	}
	return markers
}

// Tick advances the session by dt seconds with the lanes pressed since the
// previous frame.
func (e *Engine) Tick(dt float64, pressed input.Snapshot) FrameEvents {
	e.clock.Advance(dt)
	// the field is frozen while paused, presses would land on still notes
	if e.clock.Paused() {
		pressed = 0
	}
	e.lastPressed = pressed

	ev := FrameEvents{
		Mode:     e.mode,
		Elapsed:  e.clock.Elapsed(),
		SongTime: e.SongTime(),
		Delta:    e.clock.Delta(),
	}

	switch e.mode {
	case Play:
		e.play(&ev, pressed)
	case Author:
		ev.Recorded = e.recorder.Capture(e.clock.Elapsed(), pressed)
	}
	return ev
}

func (e *Engine) play(ev *FrameEvents, pressed input.Snapshot) {
	now := ev.SongTime

	if !e.songStarted && now >= 0 {
		e.songStarted = true
		ev.SongStarted = true
	}

	schedule(e.chart, now, func(n game.Note) {
		a := e.active.insert(n)
		ev.Spawned = append(ev.Spawned, Spawn{ID: a.ID, Note: n})
	})

	e.active.each(func(n *game.ActiveNote) {
		integrate(n, ev.Delta)
	})

	ev.Judged = e.scorer.Judge(e.active.notes(), pressed)
	if len(ev.Judged) > 0 {
		ids := make([]game.NoteID, len(ev.Judged))
		for i, j := range ev.Judged {
			ids[i] = j.ID
		}
		e.active.remove(ids...)
	}

	if !e.finished && len(e.chart.Pending()) == 0 && e.active.len() == 0 {
		e.finished = true
		ev.Finished = true
	}
}
