package player

import (
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEngineFactory(t *testing.T) {
	Convey("Given the configured engine name", t, func() {
		Convey("An empty name selects mpv", func() {
			engine, err := New("", EngineOptions{})
			So(err, ShouldBeNil)
			So(engine, ShouldHaveSameTypeAs, &MPV{})
		})

		Convey("The name is matched case-insensitively", func() {
			engine, err := New("MPV", EngineOptions{Videoless: true})
			So(err, ShouldBeNil)
			So(engine.(*MPV).videoless, ShouldBeTrue)
		})

		Convey("OnTop carries into the engine", func() {
			engine, err := New("mpv", EngineOptions{OnTop: true})
			So(err, ShouldBeNil)
			So(engine.(*MPV).ontop, ShouldBeTrue)
		})

		Convey("An unknown engine is rejected", func() {
			_, err := New("vlc", EngineOptions{})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "vlc")
		})
	})
}

func TestMPVSpawnArgs(t *testing.T) {
	Convey("Given an mpv engine about to spawn", t, func() {
		build := func(videoless, ontop bool) []string {
			m := NewMPV(videoless)
			m.ontop = ontop
			m.socketPath = "/tmp/pipetube-test.sock"
			return m.spawnArgs("https://example.invalid/v.m3u8", "Title", "")
		}

		Convey("A video session forces a window", func() {
			args := build(false, false)
			So(lo.Contains(args, "--force-window=yes"), ShouldBeTrue)
			So(lo.Contains(args, "--no-video"), ShouldBeFalse)
			So(lo.Contains(args, "--ontop"), ShouldBeFalse)
		})

		Convey("A videoless session disables video output", func() {
			args := build(true, false)
			So(lo.Contains(args, "--no-video"), ShouldBeTrue)
			So(lo.Contains(args, "--force-window=no"), ShouldBeTrue)
		})

		Convey("A detached session pins the window on top", func() {
			args := build(false, true)
			So(lo.Contains(args, "--ontop"), ShouldBeTrue)
		})

		Convey("The media URL is the final argument", func() {
			args := build(false, false)
			So(args[len(args)-1], ShouldEqual, "https://example.invalid/v.m3u8")
		})
	})
}

func TestMPVCloseIdempotent(t *testing.T) {
	Convey("Given an engine that never spawned", t, func() {
		m := NewMPV(false)

		Convey("Closing twice does not panic", func() {
			So(func() {
				_ = m.Close()
				_ = m.Close()
			}, ShouldNotPanic)

			_, open := <-m.events
			So(open, ShouldBeFalse)
		})
	})

	Convey("Given an engine whose process already exited", t, func() {
		m := NewMPV(false)
		m.socketPath = "/tmp/pipetube-gone.sock"
		close(m.exited)

		Convey("Closing twice does not panic", func() {
			So(func() {
				_ = m.Close()
				_ = m.Close()
			}, ShouldNotPanic)
		})
	})
}
