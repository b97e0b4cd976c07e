package engine

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"git.lost.host/meutraa/arrows/internal/game"
	"git.lost.host/meutraa/arrows/internal/input"
	"git.lost.host/meutraa/arrows/internal/parser"
)

// Recorder captures presses as chart notes while authoring and writes them
// out once when the session ends.
type Recorder struct {
	writer parser.Writer
	dest   string
	speed  game.Speed

	chart     game.Chart
	recording bool
	flushed   bool
}

func NewRecorder(w parser.Writer, dest string, speed game.Speed) *Recorder {
	return &Recorder{writer: w, dest: dest, speed: speed}
}

// Start begins a session with an empty buffer. An unnamed recording gets a
// random name so charts made in one directory never collide.
func (r *Recorder) Start(name, audio string) {
	if name == "" {
		name = "map-" + uuid.NewString()[:8]
	}
	r.chart = game.Chart{Name: name, Audio: audio, Notes: []game.Note{}}
	r.recording = true
	r.flushed = false
}

// Capture appends a note for every lane pressed at time at. Simultaneous
// presses are appended in lane order.
func (r *Recorder) Capture(at float64, pressed input.Snapshot) []game.Note {
	if !r.recording || pressed.Empty() {
		return nil
	}
	start := len(r.chart.Notes)
	for _, l := range pressed.Lanes() {
		r.chart.Notes = append(r.chart.Notes, game.Note{SpawnTime: at, Lane: l, Speed: r.speed})
	}
	end := len(r.chart.Notes)
	return r.chart.Notes[start:end:end]
}

// Chart is the notes captured so far.
func (r *Recorder) Chart() *game.Chart {
	return &r.chart
}

func (r *Recorder) Dest() string {
	return r.dest
}

// Flush writes the session to the destination. Only the first successful
// call per session writes; later calls are no-ops.
func (r *Recorder) Flush() error {
	if !r.recording || r.flushed {
		return nil
	}
	if err := r.writer.Write(r.dest, &r.chart); nil != err {
		return errors.Wrapf(err, "unable to save recording to %v", r.dest)
	}
	r.flushed = true
	r.recording = false
	return nil
}
