package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"git.lost.host/meutraa/arrows/internal/audio"
	"git.lost.host/meutraa/arrows/internal/config"
	"git.lost.host/meutraa/arrows/internal/engine"
	"git.lost.host/meutraa/arrows/internal/input"
	"git.lost.host/meutraa/arrows/internal/logger"
	"git.lost.host/meutraa/arrows/internal/metrics"
	"git.lost.host/meutraa/arrows/internal/parser"
	"git.lost.host/meutraa/arrows/internal/render"
	"git.lost.host/meutraa/arrows/internal/score"
	"git.lost.host/meutraa/arrows/internal/theme"
)

func main() {
	if err := run(); nil != err {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if nil != err {
		return err
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if nil != err {
		return errors.Wrap(err, "unable to open log file")
	}
	defer logFile.Close()
	if err := logger.Init(logFile); nil != err {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); nil != err {
		return err
	}
	log := logger.Named("arrows").With(logger.String("session", uuid.NewString()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	songs, err := parser.List(cfg.Directory)
	if nil != err {
		return err
	}

	bindings := input.DefaultBindings()
	if cfg.Keys != "" {
		if bindings, err = input.NewBindings(cfg.Keys); nil != err {
			return err
		}
	}

	m := metrics.NewManager()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.MetricsAddr); nil != err {
				log.Error(ctx, "metrics server stopped", logger.Error(err))
			}
		}()
	}

	// Ensure our Default implementations are used as interfaces
	var psr parser.Parser = &parser.DefaultParser{}
	var scr score.Scorer = &score.DefaultScorer{}
	var th theme.Theme = &theme.DefaultTheme{}
	var r render.Renderer = render.New(os.Stdout, th)
	var player audio.Player = &audio.BeepPlayer{}
	if cfg.NoAudio {
		player = audio.Silent{}
	}

	eng := engine.New(
		engine.WithLeadIn(cfg.LeadIn.Seconds()),
		engine.WithLogger(log.Named("engine")),
		engine.WithParser(psr),
		engine.WithScorer(scr),
		engine.WithRecorder(engine.NewRecorder(&parser.DefaultParser{}, cfg.Output, cfg.Speed())),
	)
	eng.SetMenu(songs)

	keys, err := input.Open(bindings)
	if nil != err {
		return err
	}
	defer func() {
		if err := keys.Close(); nil != err {
			log.Warn(ctx, "unable to close keyboard", logger.Error(err))
		}
	}()

	if err := r.Init(); nil != err {
		return err
	}
	defer func() {
		// Restore the terminal state
		if err := r.Deinit(); nil != err {
			log.Warn(ctx, "unable to restore terminal", logger.Error(err))
		}
	}()

	// recorded charts refer to it from wherever they are written
	authorAudio, err := filepath.Abs(filepath.Join(cfg.Directory, cfg.AuthorAudio))
	if nil != err {
		return errors.Wrap(err, "unable to resolve author audio")
	}

	p := &Program{
		Engine:      eng,
		Input:       keys,
		Renderer:    r,
		Player:      player,
		Metrics:     m,
		log:         log,
		period:      cfg.FramePeriod(),
		authorAudio: authorAudio,
		title:       fmt.Sprintf("%v songs in %v", len(songs), cfg.Directory),
	}
	return p.Run(ctx)
}
