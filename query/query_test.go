package query

import (
	"testing"

	"github.com/pipetube-cli/pipetube/filesystem"
	"github.com/pipetube-cli/pipetube/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given remembered queries", t, func() {
		So(Remember("cat videos", 1), ShouldBeNil)
		So(Remember("cat compilations", 10), ShouldBeNil)
		So(Remember("dog videos", 5), ShouldBeNil)

		// drop the per-prefix memo so ranks written above are visible
		suggestionCache = make(map[string][]*record)

		Convey("SuggestMany matches fuzzily and sorts by rank", func() {
			suggestions := SuggestMany("cat")
			So(len(suggestions), ShouldEqual, 2)
			So(suggestions[0], ShouldEqual, "cat compilations")
			So(suggestions[1], ShouldEqual, "cat videos")
		})

		Convey("Suggest returns the top suggestion", func() {
			So(Suggest("cat").MustGet(), ShouldEqual, "cat compilations")
		})

		Convey("No match yields no suggestion", func() {
			So(Suggest("zebra").IsAbsent(), ShouldBeTrue)
		})

		Convey("Remembering again bumps the rank", func() {
			So(Remember("cat videos", 100), ShouldBeNil)
			suggestionCache = make(map[string][]*record)

			suggestions := SuggestMany("cat")
			So(suggestions[0], ShouldEqual, "cat videos")
		})

		Convey("Input is sanitized before lookup", func() {
			So(sanitize("  CAT Videos  "), ShouldEqual, "cat videos")
			So(Suggest("  CAT  ").IsPresent(), ShouldBeTrue)
		})

		Convey("Disabled suggestions yield nothing", func() {
			viper.Set(key.SearchShowQuerySuggestions, false)
			defer viper.Set(key.SearchShowQuerySuggestions, true)

			So(SuggestMany("cat"), ShouldBeEmpty)
		})
	})
}
