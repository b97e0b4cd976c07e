package parser

import (
	"io"
	"math"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.lost.host/meutraa/arrows/internal/game"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrMalformedChart is the cause of every chart rejected at load time.
var ErrMalformedChart = errors.New("malformed chart")

type DefaultParser struct{}

type arrowRecord struct {
	ClickTime *float64 `yaml:"click_time,omitempty"`
	SpawnTime *float64 `yaml:"spawn_time,omitempty"`
	Speed     string   `yaml:"speed"`
	Direction string   `yaml:"direction"`
}

type chartFile struct {
	Name   string        `yaml:"name"`
	Audio  string        `yaml:"audio,omitempty"`
	Arrows []arrowRecord `yaml:"arrows"`
}

// Song is a chart found in the songs directory.
type Song struct {
	Name string
	Path string
}

func malformed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedChart, format, args...)
}

func (p *DefaultParser) Parse(file string) (*game.Chart, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, errors.Wrap(err, "unable to open chart")
	}
	defer f.Close()

	chart, err := p.Decode(f)
	if nil != err {
		return nil, errors.WithMessage(err, file)
	}
	if chart.Name == "" {
		chart.Name = strings.TrimSuffix(filepath.Base(file), path.Ext(file))
	}
	return chart, nil
}

func (p *DefaultParser) Decode(r io.Reader) (*game.Chart, error) {
	var cf chartFile
	if err := yaml.NewDecoder(r).Decode(&cf); nil != err && err != io.EOF {
		return nil, malformed("%v", err)
	}

	notes := make([]game.Note, 0, len(cf.Arrows))
	for i, a := range cf.Arrows {
		var t float64
		switch {
		case a.ClickTime != nil && a.SpawnTime != nil:
			return nil, malformed("arrow %d: both click_time and spawn_time set", i)
		case a.ClickTime != nil:
			t = *a.ClickTime
		case a.SpawnTime != nil:
			t = *a.SpawnTime
		default:
			return nil, malformed("arrow %d: missing time", i)
		}
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, malformed("arrow %d: time %v is not finite", i, t)
		}
		speed, err := game.ParseSpeed(a.Speed)
		if nil != err {
			return nil, malformed("arrow %d: %v", i, err)
		}
		lane, err := game.ParseLane(a.Direction)
		if nil != err {
			return nil, malformed("arrow %d: %v", i, err)
		}
		notes = append(notes, game.Note{SpawnTime: t, Lane: lane, Speed: speed})
	}

	chart := &game.Chart{Name: cf.Name, Audio: cf.Audio, Notes: notes}
	if i, ok := chart.Sorted(); !ok {
		return nil, malformed("arrow %d at %vs is earlier than arrow %d at %vs",
			i, notes[i].SpawnTime, i-1, notes[i-1].SpawnTime)
	}
	return chart, nil
}

func (p *DefaultParser) Encode(w io.Writer, chart *game.Chart) error {
	cf := chartFile{
		Name:   chart.Name,
		Audio:  chart.Audio,
		Arrows: make([]arrowRecord, len(chart.Notes)),
	}
	for i, n := range chart.Notes {
		t := n.SpawnTime
		cf.Arrows[i] = arrowRecord{
			ClickTime: &t,
			Speed:     n.Speed.String(),
			Direction: n.Lane.String(),
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&cf); nil != err {
		return errors.Wrap(err, "unable to encode chart")
	}
	return enc.Close()
}

// Write replaces file with the encoded chart.
func (p *DefaultParser) Write(file string, chart *game.Chart) error {
	f, err := os.Create(file)
	if nil != err {
		return errors.Wrapf(err, "unable to create %v", file)
	}
	if err := p.Encode(f, chart); nil != err {
		f.Close()
		return errors.Wrapf(err, "unable to write %v", file)
	}
	if err := f.Close(); nil != err {
		return errors.Wrapf(err, "unable to write %v", file)
	}
	return nil
}

// List finds the charts in a songs directory, sorted by name.
func List(dir string) ([]Song, error) {
	songs := []Song{}
	if err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch path.Ext(info.Name()) {
		case ".yaml", ".yml":
			songs = append(songs, Song{
				Name: strings.TrimSuffix(info.Name(), path.Ext(info.Name())),
				Path: p,
			})
		}
		return nil
	}); nil != err {
		return nil, errors.Wrap(err, "unable to walk song directory")
	}
	sort.Slice(songs, func(i, j int) bool { return songs[i].Name < songs[j].Name })
	return songs, nil
}

// AudioPath resolves the chart's audio reference against the chart file.
func AudioPath(file string, chart *game.Chart) string {
	if chart.Audio == "" || filepath.IsAbs(chart.Audio) {
		return chart.Audio
	}
	return filepath.Join(filepath.Dir(file), chart.Audio)
}
