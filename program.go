package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"git.lost.host/meutraa/arrows/internal/audio"
	"git.lost.host/meutraa/arrows/internal/clock"
	"git.lost.host/meutraa/arrows/internal/engine"
	"git.lost.host/meutraa/arrows/internal/input"
	"git.lost.host/meutraa/arrows/internal/logger"
	"git.lost.host/meutraa/arrows/internal/metrics"
	"git.lost.host/meutraa/arrows/internal/parser"
	"git.lost.host/meutraa/arrows/internal/render"
)

// Program is the host loop: it owns the wall clock, the devices and the
// presentation, and drives the engine once per frame.
type Program struct {
	Engine   *engine.Engine
	Input    input.Reader
	Renderer render.Renderer
	Player   audio.Player
	Metrics  *metrics.Manager

	log         logger.Logger
	period      time.Duration
	authorAudio string
	title       string

	wall      *clock.Wall
	chartFile string
	status    string
	paused    bool
}

func modeNames() []string {
	names := make([]string, len(engine.Modes))
	for i, m := range engine.Modes {
		names[i] = m.String()
	}
	return names
}

func (p *Program) Run(ctx context.Context) error {
	p.wall = clock.NewWall()
	ticker := time.NewTicker(p.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info(ctx, "exit signal received")
			return p.shutdown(ctx)
		case <-ticker.C:
		}

		done, err := p.Step(ctx, p.wall.Lap().Seconds(), p.Input.Poll())
		if done || nil != err {
			return err
		}
		if err := p.Renderer.Flush(); nil != err {
			return err
		}
	}
}

// Step runs one frame. done is set once the game should exit, after any
// recording has been saved.
func (p *Program) Step(ctx context.Context, dt float64, events input.Events) (bool, error) {
	if nil != events.Err {
		p.log.Error(ctx, "keyboard error", logger.Error(events.Err))
	}
	if events.Exit || (p.Engine.Mode() == engine.Menu && events.Quit) {
		return true, p.shutdown(ctx)
	}

	p.Update(ctx, dt, events)
	p.Metrics.Mode(p.Engine.Mode().String(), modeNames())
	p.Draw()
	return false, nil
}

// Update applies one frame of input.
func (p *Program) Update(ctx context.Context, dt float64, events input.Events) {
	switch p.Engine.Mode() {
	case engine.Menu:
		for _, r := range events.Runes {
			if p.choose(ctx, r) {
				break
			}
		}
	case engine.Play, engine.Author:
		if events.Quit {
			p.leave(ctx)
			return
		}
		for _, r := range events.Runes {
			if r == pauseKey {
				p.togglePause()
			}
		}
		p.observe(ctx, p.Engine.Tick(dt, events.Pressed))
	}
}

const pauseKey = 'p'

func (p *Program) togglePause() {
	p.paused = !p.paused
	if p.paused {
		p.Engine.Pause()
	} else {
		p.Engine.Resume()
	}
	p.Player.SetPaused(p.paused)
}

// choose handles a menu key, a digit picks an entry and m starts authoring.
func (p *Program) choose(ctx context.Context, r rune) bool {
	menu := p.Engine.Menu()
	index := -1
	switch {
	case r >= '0' && r <= '9':
		index = int(r - '0')
	case r == 'm':
		index = len(menu) - 1
	}
	if index < 0 || index >= len(menu) {
		return false
	}

	item := menu[index]
	if err := p.Engine.Select(index, p.authorAudio); nil != err {
		p.status = fmt.Sprintf("Unable to open %v: %v", item.Label, err)
		return false
	}
	p.status = ""
	p.chartFile = item.Path

	if p.Engine.Mode() == engine.Author {
		p.play(ctx, p.authorAudio)
	}
	return true
}

func (p *Program) play(ctx context.Context, file string) {
	if err := p.Player.Play(file); nil != err {
		p.log.Warn(ctx, "unable to play audio", logger.String("file", file), logger.Error(err))
	}
}

func (p *Program) observe(ctx context.Context, ev engine.FrameEvents) {
	for _, s := range ev.Spawned {
		p.Metrics.NoteSpawned(s.Note)
	}
	p.Renderer.Judged(ev.Judged)
	for _, j := range ev.Judged {
		p.Metrics.NoteJudged(j)
		p.log.Debug(ctx, "judged",
			logger.Int("note", int(j.ID)),
			logger.String("verdict", j.Verdict.String()),
			logger.Float64("distance", j.Distance),
		)
	}
	for _, n := range ev.Recorded {
		p.Metrics.NoteRecorded(n.Lane)
	}

	if ev.Mode != engine.Play {
		return
	}
	p.Metrics.Frame(ev.Delta, len(p.Engine.Active()), p.Engine.Score())
	if ev.SongStarted {
		p.play(ctx, parser.AudioPath(p.chartFile, p.Engine.Chart()))
	}
	if ev.Finished {
		sink := p.Engine.Score()
		p.status = "Finished, press Esc"
		p.log.Info(ctx, "chart finished",
			logger.Int("score", sink.Score()),
			logger.Int("corrects", sink.Corrects()),
			logger.Int("fails", sink.Fails()),
		)
	}
}

// leave returns to the menu. A recording that cannot be saved keeps the
// engine in Author so the player can retry.
func (p *Program) leave(ctx context.Context) {
	if err := p.Engine.ReturnToMenu(); nil != err {
		p.status = fmt.Sprintf("Unable to save: %v, Ctrl+C exits", err)
		p.log.Error(ctx, "unable to save recording", logger.Error(err))
		return
	}
	p.Player.Stop()
	p.status = ""
	p.paused = false
}

func (p *Program) shutdown(ctx context.Context) error {
	p.Player.Stop()
	if err := p.Engine.Shutdown(); nil != err {
		// the terminal has to be usable again before exiting
		p.Renderer.Deinit()
		p.Input.Close()
		fmt.Fprintln(os.Stderr, err)
		p.log.Fatal(ctx, "recording lost", logger.Error(err))
		return err
	}
	return nil
}

func (p *Program) Draw() {
	switch p.Engine.Mode() {
	case engine.Menu:
		title := p.title
		if p.status != "" {
			title += "   " + p.status
		}
		p.Renderer.Menu(title, p.Engine.Menu())
	case engine.Play:
		p.Renderer.Field(p.Engine.Markers(), p.Engine.Active(), render.Hud{
			SongTime: p.Engine.SongTime(),
			Sink:     p.Engine.Score(),
			Status:   p.status,
			Pressed:  p.Engine.LastPressed(),
		})
	case engine.Author:
		rec := p.Engine.Recorder()
		status := fmt.Sprintf("Recording %d notes to %v", rec.Chart().Len(), rec.Dest())
		if p.status != "" {
			status = p.status
		}
		p.Renderer.Field(p.Engine.Markers(), nil, render.Hud{
			SongTime: p.Engine.Clock().Elapsed(),
			Status:   status,
			Pressed:  p.Engine.LastPressed(),
		})
	}
}
