package query

import (
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"

	"github.com/livesan-cli/livesan/filesystem"
	"github.com/livesan-cli/livesan/key"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given query history", t, func() {
		Convey("When remembering queries", func() {
			So(Remember("idol_hour", 1), ShouldBeNil)
			So(Remember("idol_morning", 10), ShouldBeNil)

			Convey("Then suggestions should be sorted by rank", func() {
				s := SuggestMany("idol")
				So(len(s), ShouldBeGreaterThanOrEqualTo, 2)
				So(s[0], ShouldEqual, "idol_morning")
			})

			Convey("And the best match is surfaced as an option", func() {
				So(Suggest("idol").MustGet(), ShouldEqual, "idol_morning")
				So(Suggest("zzz").IsAbsent(), ShouldBeTrue)
			})

			Convey("It sanitizes input", func() {
				So(sanitize("  IDOL_HOUR  "), ShouldEqual, "idol_hour")
			})
		})

		Convey("When history outgrows the suggestion cap", func() {
			for i := 0; i < maxSuggestions+2; i++ {
				So(Remember(fmt.Sprintf("live_show_%d", i), i+1), ShouldBeNil)
			}

			s := SuggestMany("live_show")
			So(len(s), ShouldEqual, maxSuggestions)
			So(s[0], ShouldEqual, fmt.Sprintf("live_show_%d", maxSuggestions+1))
		})

		Convey("When suggestions are disabled", func() {
			viper.Set(key.SearchShowQuerySuggestions, false)
			defer viper.Set(key.SearchShowQuerySuggestions, true)

			So(SuggestMany("idol"), ShouldBeEmpty)
		})
	})
}
