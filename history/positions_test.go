package history

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWatchPositions(t *testing.T) {
	Convey("Given the position store", t, func() {
		Convey("An unknown video has no position", func() {
			position, err := Position("never-watched")
			So(err, ShouldBeNil)
			So(position.IsAbsent(), ShouldBeTrue)
		})

		Convey("When saving a position", func() {
			So(SavePosition("abc123", 42_000), ShouldBeNil)

			Convey("It is returned on lookup", func() {
				position, err := Position("abc123")
				So(err, ShouldBeNil)
				So(position.MustGet(), ShouldEqual, int64(42_000))
			})

			Convey("A later save overwrites the snapshot", func() {
				So(SavePosition("abc123", 90_000), ShouldBeNil)

				position, err := Position("abc123")
				So(err, ShouldBeNil)
				So(position.MustGet(), ShouldEqual, int64(90_000))
			})

			Convey("And it can be removed", func() {
				So(RemovePosition("abc123"), ShouldBeNil)

				position, err := Position("abc123")
				So(err, ShouldBeNil)
				So(position.IsAbsent(), ShouldBeTrue)
			})
		})
	})
}
