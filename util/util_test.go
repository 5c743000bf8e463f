package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "video", "videos"), ShouldEqual, "1 video")
		So(Quantify(2, "video", "videos"), ShouldEqual, "2 videos")
		So(Quantify(0, "video", "videos"), ShouldEqual, "0 videos")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize("Hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFormatDuration(t *testing.T) {
	Convey("FormatDuration", t, func() {
		Convey("Renders minutes and seconds", func() {
			So(FormatDuration(0), ShouldEqual, "0:00")
			So(FormatDuration(65_000), ShouldEqual, "1:05")
			So(FormatDuration(599_000), ShouldEqual, "9:59")
		})

		Convey("Includes hours past the hour mark", func() {
			So(FormatDuration(3_600_000), ShouldEqual, "1:00:00")
			So(FormatDuration(3_661_000), ShouldEqual, "1:01:01")
		})
	})
}

func TestStack(t *testing.T) {
	Convey("Stack", t, func() {
		var s Stack[int]
		s.Push(1)
		s.Push(2)
		So(s.Len(), ShouldEqual, 2)
		So(s.Peek(), ShouldEqual, 2)
		So(s.Pop(), ShouldEqual, 2)
		So(s.Pop(), ShouldEqual, 1)

		Convey("Popping an empty stack yields the zero value", func() {
			So(s.Pop(), ShouldEqual, 0)
		})

		Convey("Clear empties the stack", func() {
			s.Push(3)
			s.Clear()
			So(s.Len(), ShouldEqual, 0)
		})
	})
}
