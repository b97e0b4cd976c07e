package engine

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"

	"git.lost.host/meutraa/arrows/internal/game"
	"git.lost.host/meutraa/arrows/internal/input"
	"git.lost.host/meutraa/arrows/internal/parser"
	"git.lost.host/meutraa/arrows/internal/testdata"
)

func playing(chart *game.Chart, opts ...Option) *Engine {
	e := New(append([]Option{WithLeadIn(0)}, opts...)...)
	So(e.StartPlay(chart), ShouldBeNil)
	return e
}

func spawnedTimes(evs ...FrameEvents) []float64 {
	var out []float64
	for _, ev := range evs {
		for _, s := range ev.Spawned {
			out = append(out, s.Note.SpawnTime)
		}
	}
	return out
}

func TestEmptyChart(t *testing.T) {
	Convey("Given an empty chart", t, func() {
		e := playing(&game.Chart{})

		Convey("Nothing spawns and the score stays at zero for the whole session", func() {
			r := rand.New(rand.NewSource(1))
			for i := 0; i < 600; i++ {
				ev := e.Tick(r.Float64()/10, input.Snapshot(r.Intn(16)))
				So(ev.Spawned, ShouldBeEmpty)
				So(ev.Judged, ShouldBeEmpty)
			}
			So(e.Score().Score(), ShouldEqual, 0)
			So(e.Score().Corrects(), ShouldEqual, 0)
			So(e.Score().Fails(), ShouldEqual, 0)
			So(e.Finished(), ShouldBeTrue)
		})
	})
}

func TestSimultaneousNotes(t *testing.T) {
	Convey("Given two slow notes at one second in different lanes", t, func() {
		e := playing(&game.Chart{Notes: []game.Note{
			{SpawnTime: 1.0, Lane: game.Up, Speed: game.Slow},
			{SpawnTime: 1.0, Lane: game.Down, Speed: game.Slow},
		}})

		Convey("Neither spawns before song time reaches one second", func() {
			ev := e.Tick(0.5, 0)
			So(ev.Spawned, ShouldBeEmpty)

			Convey("Both spawn on the frame that crosses it, in chart order", func() {
				ev := e.Tick(0.5, 0)
				So(ev.Spawned, ShouldHaveLength, 2)
				So(ev.Spawned[0].Note.Lane, ShouldEqual, game.Up)
				So(ev.Spawned[1].Note.Lane, ShouldEqual, game.Down)
				So(e.Active(), ShouldHaveLength, 2)

				Convey("And each is hit on its own press", func() {
					// spawned at -400, moved 100 on the spawn frame, 500 more lands on target
					ev := e.Tick(2.5, input.Of(game.Up))
					So(ev.Judged, ShouldHaveLength, 1)
					So(ev.Judged[0].Lane, ShouldEqual, game.Up)
					So(ev.Judged[0].Verdict, ShouldEqual, game.Hit)
					So(ev.Judged[0].Points, ShouldEqual, 100)
					So(e.Active(), ShouldHaveLength, 1)

					ev = e.Tick(0, input.Of(game.Down))
					So(ev.Judged, ShouldHaveLength, 1)
					So(ev.Judged[0].Lane, ShouldEqual, game.Down)
					So(ev.Finished, ShouldBeTrue)
					So(e.Score().Corrects(), ShouldEqual, 2)
					So(e.Score().Score(), ShouldEqual, 200)
				})
			})
		})
	})
}

func TestLongFrame(t *testing.T) {
	Convey("Given notes spread over a short span", t, func() {
		e := playing(&game.Chart{Notes: []game.Note{
			{SpawnTime: 0.1, Lane: game.Up},
			{SpawnTime: 0.2, Lane: game.Left},
			{SpawnTime: 0.3, Lane: game.Right},
		}})

		Convey("A stalled frame that jumps past all of them still spawns each once", func() {
			ev := e.Tick(10, 0)
			So(spawnedTimes(ev), ShouldResemble, []float64{0.1, 0.2, 0.3})

			Convey("And they have flown past the target, so each is missed once", func() {
				So(ev.Judged, ShouldHaveLength, 3)
				So(e.Score().Fails(), ShouldEqual, 3)
				So(e.Active(), ShouldBeEmpty)

				ev = e.Tick(10, 0)
				So(ev.Spawned, ShouldBeEmpty)
				So(e.Score().Fails(), ShouldEqual, 3)
			})
		})
	})
}

func TestMissOnce(t *testing.T) {
	Convey("Given a single note that is never pressed", t, func() {
		e := playing(&game.Chart{Notes: []game.Note{{SpawnTime: 0, Lane: game.Right, Speed: game.Fast}}})

		Convey("It is missed exactly once when it reaches twice the target", func() {
			misses := 0
			for i := 0; i < 600; i++ {
				ev := e.Tick(1.0/60, 0)
				for _, j := range ev.Judged {
					So(j.Verdict, ShouldEqual, game.Miss)
					misses++
				}
			}
			So(misses, ShouldEqual, 1)
			So(e.Score().Fails(), ShouldEqual, 1)
			So(e.Score().Corrects(), ShouldEqual, 0)
			So(e.Active(), ShouldBeEmpty)
		})

		Convey("A press in its lane far from the target does nothing", func() {
			ev := e.Tick(0.1, input.Of(game.Right))
			So(ev.Spawned, ShouldHaveLength, 1)
			So(ev.Judged, ShouldBeEmpty)
			So(e.Score().Score(), ShouldEqual, 0)
		})
	})
}

func TestActivationExactlyOnce(t *testing.T) {
	Convey("Given a long chart and irregular frames", t, func() {
		r := rand.New(rand.NewSource(7))
		chart := &game.Chart{}
		tm := -1.0
		for i := 0; i < 500; i++ {
			if r.Intn(3) > 0 {
				tm += r.Float64() / 4
			}
			chart.Notes = append(chart.Notes, game.Note{
				SpawnTime: tm,
				Lane:      game.Lanes[r.Intn(game.LaneCount)],
				Speed:     game.Speed(r.Intn(3)),
			})
		}
		due := 0
		for _, n := range chart.Notes {
			if n.SpawnTime >= 0 {
				due++
			}
		}
		e := New(WithLeadIn(0.5))
		So(e.StartPlay(chart), ShouldBeNil)

		Convey("Every note at or after song start spawns once, inside its frame window", func() {
			spawned := 0
			lastHead := -1.0
			for i := 0; i < 20000 && !e.Finished(); i++ {
				dt := r.Float64() / 20
				if r.Intn(50) == 0 {
					dt = 2
				}
				ev := e.Tick(dt, input.Snapshot(r.Intn(16)))
				prev := ev.SongTime - ev.Delta
				for _, s := range ev.Spawned {
					So(s.Note.SpawnTime, ShouldBeGreaterThan, prev)
					So(s.Note.SpawnTime, ShouldBeLessThanOrEqualTo, ev.SongTime)
					So(s.Note.SpawnTime, ShouldBeGreaterThanOrEqualTo, 0)
				}
				spawned += len(ev.Spawned)

				if head, ok := e.Chart().Head(); ok {
					So(head.SpawnTime, ShouldBeGreaterThanOrEqualTo, lastHead)
					lastHead = head.SpawnTime
				}
			}
			So(spawned, ShouldEqual, due)
			So(e.Score().Corrects()+e.Score().Fails(), ShouldEqual, due)
		})
	})
}

func TestDeterministicReplay(t *testing.T) {
	Convey("Given the same chart and the same frames twice", t, func() {
		chart, err := testdata.GetChart()
		So(err, ShouldBeNil)
		deltas := []float64{0.3, 0.016, 0.7, 0.016, 0.4, 1.1, 0.033, 0.25, 0.5}

		run := func() [][]game.ActiveNote {
			e := playing(chart)
			var frames [][]game.ActiveNote
			for _, d := range deltas {
				e.Tick(d, 0)
				frames = append(frames, e.Active())
			}
			return frames
		}

		Convey("Every note is in the same place on every frame", func() {
			So(run(), ShouldResemble, run())
		})
	})
}

func TestLeadIn(t *testing.T) {
	Convey("Given the default lead-in", t, func() {
		e := New()
		So(e.StartPlay(&game.Chart{Notes: []game.Note{
			{SpawnTime: -0.5, Lane: game.Up},
			{SpawnTime: 0, Lane: game.Down},
		}}), ShouldBeNil)

		Convey("Notes before the song start never spawn", func() {
			So(e.Chart().Pending(), ShouldHaveLength, 1)
		})

		Convey("The song starts once, when song time reaches zero", func() {
			started := 0
			var spawned []float64
			for i := 0; i < 40; i++ {
				ev := e.Tick(0.1, 0)
				if ev.SongStarted {
					started++
					So(ev.SongTime, ShouldBeGreaterThanOrEqualTo, 0)
				}
				spawned = append(spawned, spawnedTimes(ev)...)
			}
			So(started, ShouldEqual, 1)
			So(spawned, ShouldResemble, []float64{0})
		})
	})
}

type countingWriter struct {
	parser.DefaultParser
	writes int
}

func (w *countingWriter) Write(file string, chart *game.Chart) error {
	w.writes++
	return w.DefaultParser.Write(file, chart)
}

func TestRecorderRoundTrip(t *testing.T) {
	Convey("Given presses recorded at 0.5s and 1.2s", t, func() {
		dest := filepath.Join(t.TempDir(), "map.yaml")
		psr := &parser.DefaultParser{}
		rec := NewRecorder(psr, dest, game.Slow)
		rec.Start("recorded", "song.mp3")
		rec.Capture(0.5, input.Of(game.Up))
		rec.Capture(1.2, input.Of(game.Left, game.Down))
		So(rec.Flush(), ShouldBeNil)

		Convey("Playing the saved chart spawns the same notes at the same times, in order", func() {
			chart, err := psr.Parse(dest)
			So(err, ShouldBeNil)
			So(chart.Audio, ShouldEqual, "song.mp3")

			e := playing(chart)
			var spawned []game.Note
			for i := 0; i < 30; i++ {
				for _, s := range e.Tick(0.1, 0).Spawned {
					spawned = append(spawned, s.Note)
				}
			}
			So(spawned, ShouldResemble, []game.Note{
				{SpawnTime: 0.5, Lane: game.Up, Speed: game.Slow},
				{SpawnTime: 1.2, Lane: game.Down, Speed: game.Slow},
				{SpawnTime: 1.2, Lane: game.Left, Speed: game.Slow},
			})
		})
	})
}

func TestAuthorSession(t *testing.T) {
	Convey("Given an engine recording to a file", t, func() {
		dest := filepath.Join(t.TempDir(), "map.yaml")
		w := &countingWriter{}
		e := New(WithRecorder(NewRecorder(w, dest, game.Medium)))
		e.SetMenu(nil)
		So(e.Select(0, "ref.mp3"), ShouldBeNil)
		So(e.Mode(), ShouldEqual, Author)
		So(e.Menu(), ShouldBeEmpty)
		So(e.Markers(), ShouldHaveLength, game.LaneCount)

		ev := e.Tick(0.5, input.Of(game.Right))
		So(ev.Recorded, ShouldResemble, []game.Note{{SpawnTime: 0.5, Lane: game.Right, Speed: game.Medium}})
		e.Tick(0.25, 0)
		ev = e.Tick(0.5, input.Of(game.Right, game.Up))
		So(ev.Recorded, ShouldHaveLength, 2)
		So(ev.Recorded[0].Lane, ShouldEqual, game.Up)
		So(e.LastPressed(), ShouldEqual, input.Of(game.Right, game.Up))

		Convey("The exit signal saves it exactly once", func() {
			So(e.Shutdown(), ShouldBeNil)
			So(e.Shutdown(), ShouldBeNil)
			So(w.writes, ShouldEqual, 1)

			chart, err := w.Parse(dest)
			So(err, ShouldBeNil)
			So(chart.Audio, ShouldEqual, "ref.mp3")
			So(chart.Notes, ShouldResemble, []game.Note{
				{SpawnTime: 0.5, Lane: game.Right, Speed: game.Medium},
				{SpawnTime: 1.25, Lane: game.Up, Speed: game.Medium},
				{SpawnTime: 1.25, Lane: game.Right, Speed: game.Medium},
			})
		})

		Convey("Returning to the menu saves it too", func() {
			So(e.ReturnToMenu(), ShouldBeNil)
			So(e.Mode(), ShouldEqual, Menu)
			So(e.Shutdown(), ShouldBeNil)
			So(w.writes, ShouldEqual, 1)
		})
	})

	Convey("Given an engine recording to an unwritable destination", t, func() {
		dest := filepath.Join(t.TempDir(), "missing", "map.yaml")
		e := New(WithRecorder(NewRecorder(&parser.DefaultParser{}, dest, game.Slow)))
		So(e.StartAuthor(""), ShouldBeNil)
		e.Tick(0.5, input.Of(game.Up))

		Convey("Saving fails loudly and the session is kept", func() {
			err := e.Shutdown()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, dest)
			So(e.ReturnToMenu(), ShouldNotBeNil)
			So(e.Mode(), ShouldEqual, Author)
			So(e.Recorder().Chart().Notes, ShouldHaveLength, 1)
		})
	})
}

func TestTransitions(t *testing.T) {
	Convey("Given a new engine", t, func() {
		e := New(WithLeadIn(0))
		So(e.Mode(), ShouldEqual, Menu)

		Convey("It cannot go back to the menu", func() {
			So(errors.Cause(e.ReturnToMenu()), ShouldEqual, ErrInvalidTransition)
		})

		Convey("An unsorted chart is refused and the engine stays in the menu", func() {
			err := e.StartPlay(&game.Chart{Notes: []game.Note{{SpawnTime: 2}, {SpawnTime: 1}}})
			So(errors.Cause(err), ShouldEqual, parser.ErrMalformedChart)
			So(e.Mode(), ShouldEqual, Menu)
		})

		Convey("A chart file that does not parse is refused", func() {
			dir := t.TempDir()
			e.SetMenu([]parser.Song{{Name: "gone", Path: filepath.Join(dir, "gone.yaml")}})
			So(e.Menu()[0].Label, ShouldEqual, "Play song: gone")
			So(e.Menu()[1].Label, ShouldEqual, "Make map")
			So(e.Select(0, ""), ShouldNotBeNil)
			So(e.Mode(), ShouldEqual, Menu)
			So(e.Select(5, ""), ShouldNotBeNil)
		})

		Convey("Once playing", func() {
			chart, err := testdata.GetChart()
			So(err, ShouldBeNil)
			So(e.StartPlay(chart), ShouldBeNil)
			So(e.Mode(), ShouldEqual, Play)
			So(e.Markers(), ShouldHaveLength, game.LaneCount)
			So(e.Markers()[0].X, ShouldEqual, game.TargetPosition)

			Convey("It cannot start another session", func() {
				So(errors.Cause(e.StartPlay(chart)), ShouldEqual, ErrInvalidTransition)
				So(errors.Cause(e.StartAuthor("")), ShouldEqual, ErrInvalidTransition)
				So(errors.Cause(e.Select(0, "")), ShouldEqual, ErrInvalidTransition)
			})

			Convey("The played chart is a copy", func() {
				e.Tick(5, 0)
				So(chart.Pending(), ShouldHaveLength, chart.Len())
			})

			Convey("Returning to the menu drops the notes in flight and keeps the score", func() {
				e.Tick(1.5, 0)
				So(e.Active(), ShouldNotBeEmpty)
				e.Tick(10, 0)
				fails := e.Score().Fails()
				So(fails, ShouldBeGreaterThan, 0)

				So(e.ReturnToMenu(), ShouldBeNil)
				So(e.Mode(), ShouldEqual, Menu)
				So(e.Active(), ShouldBeEmpty)
				So(e.Score().Fails(), ShouldEqual, fails)
				So(e.Tick(1, input.Of(game.Up)).Spawned, ShouldBeEmpty)
			})
		})
	})
}

func TestReturnToMenuKeepsSongs(t *testing.T) {
	Convey("Given a menu with one song", t, func() {
		dir := t.TempDir()
		song := filepath.Join(dir, "warmup.yaml")
		chart, err := testdata.GetChart()
		So(err, ShouldBeNil)
		So((&parser.DefaultParser{}).Write(song, chart), ShouldBeNil)

		e := New(WithRecorder(NewRecorder(&parser.DefaultParser{}, filepath.Join(dir, "map.yaml"), game.Slow)))
		e.SetMenu([]parser.Song{{Name: "warmup", Path: song}})
		So(e.Menu(), ShouldHaveLength, 2)

		Convey("Every entry can be picked again after playing", func() {
			So(e.Select(0, ""), ShouldBeNil)
			So(e.ReturnToMenu(), ShouldBeNil)
			So(e.Menu(), ShouldHaveLength, 2)

			So(e.Select(0, ""), ShouldBeNil)
			So(e.Mode(), ShouldEqual, Play)
			So(e.ReturnToMenu(), ShouldBeNil)
			So(e.Select(1, ""), ShouldBeNil)
			So(e.Mode(), ShouldEqual, Author)
		})

		Convey("Every entry can be picked again after authoring", func() {
			So(e.Select(1, ""), ShouldBeNil)
			So(e.ReturnToMenu(), ShouldBeNil)
			So(e.Menu(), ShouldHaveLength, 2)
			So(e.Menu()[0].Label, ShouldEqual, "Play song: warmup")

			So(e.Select(0, ""), ShouldBeNil)
			So(e.Mode(), ShouldEqual, Play)
		})
	})
}

func TestPausedPressesAreIgnored(t *testing.T) {
	Convey("Given a note standing on its target", t, func() {
		e := playing(&game.Chart{Notes: []game.Note{{SpawnTime: 0, Lane: game.Up}}})
		e.Tick(3, 0)
		So(e.Active(), ShouldHaveLength, 1)
		So(e.Active()[0].X, ShouldEqual, game.TargetPosition)

		Convey("A press while paused does not hit it", func() {
			e.Pause()
			ev := e.Tick(0.1, input.Of(game.Up))
			So(ev.Judged, ShouldBeEmpty)
			So(e.LastPressed().Empty(), ShouldBeTrue)
			So(e.Active(), ShouldHaveLength, 1)
			So(e.Score().Corrects(), ShouldEqual, 0)

			Convey("The same press after resuming does", func() {
				e.Resume()
				ev := e.Tick(0, input.Of(game.Up))
				So(ev.Judged, ShouldHaveLength, 1)
				So(ev.Judged[0].Points, ShouldEqual, 100)
			})
		})
	})

	Convey("Given a paused recording", t, func() {
		e := New()
		So(e.StartAuthor(""), ShouldBeNil)
		e.Pause()

		Convey("Presses are not recorded", func() {
			ev := e.Tick(0.5, input.Of(game.Left))
			So(ev.Recorded, ShouldBeEmpty)
			So(e.Recorder().Chart().Notes, ShouldBeEmpty)
		})
	})
}

func TestNoteAtSessionStart(t *testing.T) {
	Convey("Given no lead-in and a note at time zero", t, func() {
		e := playing(&game.Chart{Notes: []game.Note{{SpawnTime: 0, Lane: game.Right}}})

		Convey("It spawns on the first frame and only then", func() {
			So(spawnedTimes(e.Tick(0.1, 0)), ShouldResemble, []float64{0})
			So(spawnedTimes(e.Tick(0.1, 0)), ShouldBeEmpty)
		})
	})
}

func TestCaptureDoesNotAlias(t *testing.T) {
	Convey("Given notes returned by a capture", t, func() {
		rec := NewRecorder(&parser.DefaultParser{}, "map.yaml", game.Slow)
		rec.Start("a", "")
		first := rec.Capture(0.5, input.Of(game.Up, game.Down))
		So(first, ShouldHaveLength, 2)
		So(cap(first), ShouldEqual, len(first))

		Convey("Appending to them leaves later captures alone", func() {
			rec.Capture(0.75, input.Of(game.Left))
			_ = append(first, game.Note{SpawnTime: 9, Lane: game.Right})
			So(rec.Chart().Notes[2], ShouldResemble, game.Note{SpawnTime: 0.75, Lane: game.Left, Speed: game.Slow})
		})
	})
}
