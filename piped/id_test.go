package piped

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestVideoID(t *testing.T) {
	Convey("VideoID", t, func() {
		Convey("Passes bare identifiers through", func() {
			So(VideoID("dQw4w9WgXcQ"), ShouldEqual, "dQw4w9WgXcQ")
		})

		Convey("Extracts the v query parameter", func() {
			So(VideoID("https://youtube.com/watch?v=dQw4w9WgXcQ"), ShouldEqual, "dQw4w9WgXcQ")
			So(VideoID("/watch?v=dQw4w9WgXcQ&t=42"), ShouldEqual, "dQw4w9WgXcQ")
		})

		Convey("Handles path-style references", func() {
			So(VideoID("/watch/dQw4w9WgXcQ"), ShouldEqual, "dQw4w9WgXcQ")
			So(VideoID("/v/dQw4w9WgXcQ"), ShouldEqual, "dQw4w9WgXcQ")
			So(VideoID("/shorts/dQw4w9WgXcQ"), ShouldEqual, "dQw4w9WgXcQ")
			So(VideoID("/embed/dQw4w9WgXcQ"), ShouldEqual, "dQw4w9WgXcQ")
		})

		Convey("All reference forms share one identity", func() {
			forms := []string{
				"dQw4w9WgXcQ",
				"https://youtube.com/watch?v=dQw4w9WgXcQ",
				"https://youtu.example/shorts/dQw4w9WgXcQ",
				"/watch?v=dQw4w9WgXcQ",
			}
			for _, form := range forms {
				So(VideoID(form), ShouldEqual, "dQw4w9WgXcQ")
			}
		})

		Convey("Handles whitespace and empty input", func() {
			So(VideoID("  abc  "), ShouldEqual, "abc")
			So(VideoID(""), ShouldEqual, "")
		})
	})
}

func TestChannelID(t *testing.T) {
	Convey("ChannelID", t, func() {
		So(ChannelID("/channel/UC123"), ShouldEqual, "UC123")
		So(ChannelID("UC123"), ShouldEqual, "UC123")
		So(ChannelID("/channel/UC123?foo=bar"), ShouldEqual, "UC123")
	})
}

func TestTimestampSec(t *testing.T) {
	Convey("TimestampSec", t, func() {
		So(TimestampSec("https://youtube.com/watch?v=abc&t=90"), ShouldEqual, int64(90))
		So(TimestampSec("https://youtube.com/watch?v=abc&t=90s"), ShouldEqual, int64(90))
		So(TimestampSec("https://youtube.com/watch?v=abc"), ShouldEqual, int64(0))
		So(TimestampSec("abc"), ShouldEqual, int64(0))
		So(TimestampSec("https://youtube.com/watch?v=abc&t=-5"), ShouldEqual, int64(0))
	})
}

func TestStreamsItem(t *testing.T) {
	Convey("Streams.Item", t, func() {
		streams := &Streams{
			Title:    "Some Video",
			Uploader: "someone",
			Duration: 120,
		}

		item := streams.Item("https://youtube.com/watch?v=abc")

		Convey("Preserves the canonical identity it was fetched by", func() {
			So(item.ID(), ShouldEqual, "abc")
			So(item.Title, ShouldEqual, "Some Video")
			So(item.UploaderName, ShouldEqual, "someone")
			So(item.Duration, ShouldEqual, int64(120))
		})
	})
}

func TestMediaURL(t *testing.T) {
	Convey("Streams.MediaURL", t, func() {
		Convey("Prefers the HLS manifest", func() {
			streams := &Streams{
				HLS:          "https://example.invalid/stream.m3u8",
				VideoStreams: []MediaTrack{{URL: "https://example.invalid/video.mp4", Bitrate: 100}},
			}
			So(streams.MediaURL(false), ShouldEqual, "https://example.invalid/stream.m3u8")
		})

		Convey("Falls back to the highest-bitrate track", func() {
			streams := &Streams{
				VideoStreams: []MediaTrack{
					{URL: "https://example.invalid/low.mp4", Bitrate: 100},
					{URL: "https://example.invalid/high.mp4", Bitrate: 900},
				},
			}
			So(streams.MediaURL(false), ShouldEqual, "https://example.invalid/high.mp4")
		})

		Convey("Uses audio tracks in audio-only mode", func() {
			streams := &Streams{
				HLS:          "https://example.invalid/stream.m3u8",
				AudioStreams: []MediaTrack{{URL: "https://example.invalid/audio.m4a", Bitrate: 128}},
			}
			So(streams.MediaURL(true), ShouldEqual, "https://example.invalid/audio.m4a")
		})
	})
}
