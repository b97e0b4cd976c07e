// Package config defines the game configuration and how it is layered from
// defaults, an optional YAML file, ARROWS_ environment variables and the
// command line.
package config

import (
	"time"

	"github.com/pkg/errors"

	"git.lost.host/meutraa/arrows/internal/game"
)

// Sentinel error kinds for this package.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

type Config struct {
	// Directory holds the song charts and their audio.
	Directory string `koanf:"directory"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile receives the logs, the terminal belongs to the game.
	LogFile string `koanf:"log_file"`

	// LeadIn is the time between the session start and the song start.
	LeadIn time.Duration `koanf:"lead_in"`

	// FPS is the target frame rate of the host loop.
	FPS float64 `koanf:"fps"`

	// Output is where an authoring session is saved.
	Output string `koanf:"output"`

	// AuthorAudio is the reference track played while authoring, relative
	// to Directory.
	AuthorAudio string `koanf:"author_audio"`

	// RecordSpeed is the speed tier given to recorded notes.
	RecordSpeed string `koanf:"record_speed"`

	// Keys replaces the rune bound to each lane, in up, down, left, right order.
	Keys string `koanf:"keys"`

	// MetricsAddr serves Prometheus metrics when set, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`

	// NoAudio disables playback.
	NoAudio bool `koanf:"no_audio"`
}

func New() *Config {
	return &Config{
		LogLevel:    "info",
		LogFile:     "arrows.log",
		LeadIn:      time.Duration(game.DefaultLeadIn * float64(time.Second)),
		FPS:         120,
		Output:      "map.yaml",
		AuthorAudio: "map_maker_song.mp3",
		RecordSpeed: game.Slow.String(),
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.Directory == "" {
		return errors.Wrap(ErrInvalidConfig, "directory must not be empty")
	}
	if c.LeadIn < 0 {
		return errors.Wrapf(ErrInvalidConfig, "lead_in must not be negative, got %v", c.LeadIn)
	}
	if c.FPS <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "fps must be positive, got %v", c.FPS)
	}
	if c.Output == "" {
		return errors.Wrap(ErrInvalidConfig, "output must not be empty")
	}
	if _, err := game.ParseSpeed(c.RecordSpeed); nil != err {
		return errors.Wrapf(ErrInvalidConfig, "record_speed: %v", err)
	}
	if c.Keys != "" && len([]rune(c.Keys)) != game.LaneCount {
		return errors.Wrapf(ErrInvalidConfig, "keys must name %d keys, got %q", game.LaneCount, c.Keys)
	}
	return nil
}

// Speed is the parsed RecordSpeed. Call Validate first.
func (c *Config) Speed() game.Speed {
	s, _ := game.ParseSpeed(c.RecordSpeed)
	return s
}

// FramePeriod is the target time between frames.
func (c *Config) FramePeriod() time.Duration {
	return time.Duration(float64(time.Second) / c.FPS)
}
