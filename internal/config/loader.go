package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	envPrefix = "ARROWS_"
	version   = "0.3.0"
)

// flags holds the command line. Zero values mean the flag was not given and
// the lower layers win.
type flags struct {
	directory   *string
	configFile  *string
	logLevel    *string
	logFile     *string
	leadIn      *string
	fps         *float64
	output      *string
	authorAudio *string
	recordSpeed *string
	keys        *string
	metricsAddr *string
	noAudio     *bool
}

func newApp() (*kingpin.Application, *flags) {
	app := kingpin.New("arrows", "Four lane rhythm game and chart recorder")
	app.Version(version)
	f := &flags{
		directory:   app.Arg("directory", "Song/chart directory").String(),
		configFile:  app.Flag("config", "YAML config file").Short('c').Envar(envPrefix + "CONFIG").String(),
		logLevel:    app.Flag("log-level", "debug, info, warn or error").Short('l').String(),
		logFile:     app.Flag("log-file", "Log destination").String(),
		leadIn:      app.Flag("lead-in", "Time before the song starts").Short('d').String(),
		fps:         app.Flag("fps", "Target frame rate").Short('R').Float64(),
		output:      app.Flag("output", "Where a recorded chart is saved").Short('o').String(),
		authorAudio: app.Flag("author-audio", "Reference track for recording").String(),
		recordSpeed: app.Flag("record-speed", "Speed of recorded notes").Enum("slow", "medium", "fast"),
		keys:        app.Flag("keys", "Keys for up, down, left and right").Short('k').String(),
		metricsAddr: app.Flag("metrics-addr", "Serve Prometheus metrics on this address").String(),
		noAudio:     app.Flag("no-audio", "Do not play audio").Bool(),
	}
	return app, f
}

// Load builds a Config from args, without the program name.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) from --config or ARROWS_CONFIG
//  3. env (prefix ARROWS_)
//  4. flags
func Load(args []string) (*Config, error) {
	app, f := newApp()
	if _, err := app.Parse(args); nil != err {
		return nil, errors.Wrap(ErrInvalidConfig, err.Error())
	}

	k := koanf.New(".")
	if *f.configFile != "" {
		if err := k.Load(file.Provider(*f.configFile), yaml.Parser()); nil != err {
			return nil, errors.Wrapf(ErrLoadConfig, "%v: %v", *f.configFile, err)
		}
	}

	// ARROWS_LEAD_IN -> lead_in
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); nil != err {
		return nil, errors.Wrapf(ErrLoadConfig, "env: %v", err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); nil != err {
		return nil, errors.Wrapf(ErrLoadConfig, "%v", err)
	}

	if err := f.apply(&cfg); nil != err {
		return nil, err
	}
	if err := cfg.Validate(); nil != err {
		return nil, err
	}
	return &cfg, nil
}

func (f *flags) apply(cfg *Config) error {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Directory, *f.directory)
	set(&cfg.LogLevel, *f.logLevel)
	set(&cfg.LogFile, *f.logFile)
	set(&cfg.Output, *f.output)
	set(&cfg.AuthorAudio, *f.authorAudio)
	set(&cfg.RecordSpeed, *f.recordSpeed)
	set(&cfg.Keys, *f.keys)
	set(&cfg.MetricsAddr, *f.metricsAddr)

	if *f.leadIn != "" {
		d, err := parseDuration(*f.leadIn)
		if nil != err {
			return errors.Wrapf(ErrInvalidConfig, "lead-in: %v", err)
		}
		cfg.LeadIn = d
	}
	if *f.fps != 0 {
		cfg.FPS = *f.fps
	}
	if *f.noAudio {
		cfg.NoAudio = true
	}

	if cfg.Directory != "" {
		info, err := os.Stat(cfg.Directory)
		if nil != err || !info.IsDir() {
			return errors.Wrapf(ErrInvalidConfig, "%q is not a directory", cfg.Directory)
		}
	}
	return nil
}
