package cache

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/livesan-cli/livesan/filesystem"
)

func TestCache(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	Convey("Cache", t, func() {
		Convey("GenerateKey is deterministic and case-insensitive", func() {
			So(GenerateKey("Some Room", "showroom"), ShouldEqual, GenerateKey("someroom", "showroom"))
			So(GenerateKey("some room", "showroom"), ShouldNotEqual, GenerateKey("some room", "other"))
		})

		Convey("Read on a missing key reports a miss", func() {
			var out string
			So(Read(GenerateKey("missing", "showroom"), &out), ShouldBeFalse)
		})

		Convey("Write then Read round-trips", func() {
			key := GenerateKey("some room", "showroom")
			So(Write(key, "12345"), ShouldBeNil)

			var out string
			So(Read(key, &out), ShouldBeTrue)
			So(out, ShouldEqual, "12345")
		})
	})
}
