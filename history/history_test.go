package history

import (
	"testing"

	"github.com/pipetube-cli/pipetube/filesystem"
	"github.com/pipetube-cli/pipetube/piped"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given a watched stream item", t, func() {
		item := &piped.StreamItem{
			URL:          "https://youtube.com/watch?v=abc123",
			Title:        "Some Video",
			UploaderName: "someone",
			Duration:     120,
		}

		Convey("When recording it", func() {
			err := Add(item)
			So(err, ShouldBeNil)

			Convey("It is retrievable by canonical id", func() {
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved["abc123"], ShouldNotBeNil)
				So(saved["abc123"].Title, ShouldEqual, "Some Video")
				So(saved["abc123"].Uploader, ShouldEqual, "someone")
				So(saved["abc123"].WatchedAt, ShouldBeGreaterThan, 0)
			})

			Convey("Recording it again keeps a single record", func() {
				So(Add(item), ShouldBeNil)

				saved, err := Get()
				So(err, ShouldBeNil)

				count := 0
				for _, entry := range saved {
					if entry.VideoID == "abc123" {
						count++
					}
				}
				So(count, ShouldEqual, 1)
			})

			Convey("And it can be removed", func() {
				saved, err := Get()
				So(err, ShouldBeNil)

				So(Remove(saved["abc123"]), ShouldBeNil)

				saved, err = Get()
				So(err, ShouldBeNil)
				So(saved["abc123"], ShouldBeNil)
			})
		})
	})
}
