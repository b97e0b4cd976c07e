package audio

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
)

// Player plays one track at a time.
type Player interface {
	Play(file string) error
	SetPaused(paused bool)
	Stop()
}

// ErrUnsupported is returned for audio files with no decoder.
var ErrUnsupported = errors.New("unsupported audio format")

type decoder func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

var decoders = map[string]decoder{
	".mp3": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) },
	".ogg": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) },
	".wav": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) },
}

// Supported reports whether file has a known audio extension.
func Supported(file string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(file))]
	return ok
}

// BeepPlayer plays through the system speaker. The speaker is initialised
// at the rate of the first track; later tracks are resampled to it.
type BeepPlayer struct {
	sampleRate beep.SampleRate
	streamer   beep.StreamSeekCloser
	ctrl       *beep.Ctrl
}

func (p *BeepPlayer) Play(file string) error {
	dec, ok := decoders[strings.ToLower(filepath.Ext(file))]
	if !ok {
		return errors.Wrap(ErrUnsupported, file)
	}
	f, err := os.Open(file)
	if nil != err {
		return errors.Wrap(err, "unable to open audio")
	}
	streamer, format, err := dec(f)
	if nil != err {
		f.Close()
		return errors.Wrapf(err, "unable to decode %v", file)
	}

	if p.sampleRate == 0 {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/60)); nil != err {
			streamer.Close()
			return errors.Wrap(err, "unable to open speaker")
		}
		p.sampleRate = format.SampleRate
	}
	p.Stop()

	var s beep.Streamer = streamer
	if format.SampleRate != p.sampleRate {
		s = beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	}
	p.streamer = streamer
	p.ctrl = &beep.Ctrl{Streamer: s}
	speaker.Play(p.ctrl)
	return nil
}

func (p *BeepPlayer) SetPaused(paused bool) {
	if nil == p.ctrl {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
}

func (p *BeepPlayer) Stop() {
	if nil == p.streamer {
		return
	}
	speaker.Lock()
	p.ctrl.Streamer = nil
	speaker.Unlock()
	p.streamer.Close()
	p.streamer = nil
	p.ctrl = nil
}

// Silent is used when audio is disabled.
type Silent struct{}

func (Silent) Play(string) error { return nil }
func (Silent) SetPaused(bool)    {}
func (Silent) Stop()             {}
