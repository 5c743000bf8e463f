package player

import (
	"testing"

	"github.com/pipetube-cli/pipetube/sponsorblock"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSkipper(t *testing.T) {
	Convey("Given a skipper with one segment", t, func() {
		skipper := NewSkipper(false)
		skipper.Replace([]sponsorblock.Segment{
			{Start: 10, End: 20, Category: "sponsor"},
		})

		Convey("It reports having segments", func() {
			So(skipper.HasSegments(), ShouldBeTrue)
			So(skipper.Manual(), ShouldBeFalse)
		})

		Convey("A position inside the segment triggers a skip to its end", func() {
			target := skipper.Skip(15_000)
			So(target.MustGet(), ShouldEqual, int64(20_000))
		})

		Convey("The segment start is inside, the end is outside", func() {
			So(skipper.Skip(10_000).IsPresent(), ShouldBeTrue)

			skipper.Replace([]sponsorblock.Segment{{Start: 10, End: 20, Category: "sponsor"}})
			So(skipper.Skip(20_000).IsAbsent(), ShouldBeTrue)
		})

		Convey("A position outside the segment does nothing", func() {
			So(skipper.Skip(5_000).IsAbsent(), ShouldBeTrue)
			So(skipper.Skip(25_000).IsAbsent(), ShouldBeTrue)
		})

		Convey("Each segment instance is skipped at most once", func() {
			So(skipper.Skip(15_000).IsPresent(), ShouldBeTrue)

			Convey("Seeking back into it stays put", func() {
				So(skipper.Skip(15_000).IsAbsent(), ShouldBeTrue)
				So(skipper.Pending(15_000).IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("Replace resets all skip state", func() {
			So(skipper.Skip(15_000).IsPresent(), ShouldBeTrue)

			skipper.Replace([]sponsorblock.Segment{
				{Start: 10, End: 20, Category: "sponsor"},
			})
			So(skipper.Skip(15_000).IsPresent(), ShouldBeTrue)
		})

		Convey("Replacing with nothing leaves no segments", func() {
			skipper.Replace(nil)
			So(skipper.HasSegments(), ShouldBeFalse)
		})
	})

	Convey("Given overlapping segments", t, func() {
		skipper := NewSkipper(false)
		skipper.Replace([]sponsorblock.Segment{
			{Start: 10, End: 20, Category: "sponsor"},
			{Start: 15, End: 30, Category: "selfpromo"},
		})

		Convey("The first pending segment in list order wins", func() {
			So(skipper.Skip(16_000).MustGet(), ShouldEqual, int64(20_000))

			Convey("And the second one takes over afterwards", func() {
				So(skipper.Skip(16_000).MustGet(), ShouldEqual, int64(30_000))
			})
		})
	})

	Convey("Given a manual-mode skipper", t, func() {
		skipper := NewSkipper(true)
		skipper.Replace([]sponsorblock.Segment{
			{Start: 5, End: 8, Category: "interaction"},
		})

		Convey("Pending surfaces the affordance without consuming it", func() {
			So(skipper.Manual(), ShouldBeTrue)
			So(skipper.Pending(6_000).MustGet().Category, ShouldEqual, "interaction")
			So(skipper.Pending(6_000).IsPresent(), ShouldBeTrue)

			Convey("Until an explicit skip consumes it", func() {
				So(skipper.Skip(6_000).MustGet(), ShouldEqual, int64(8_000))
				So(skipper.Pending(6_000).IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("Outside any segment there is no affordance", func() {
			So(skipper.Pending(1_000).IsAbsent(), ShouldBeTrue)
		})
	})
}
