package provider

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/livesan-cli/livesan/provider/showroom"
)

func TestBuiltins(t *testing.T) {
	Convey("Builtins", t, func() {
		Convey("Every provider can create its source", func() {
			for _, p := range Builtins() {
				src, err := p.CreateSource()
				So(err, ShouldBeNil)
				So(src.ID(), ShouldEqual, p.ID)
			}
		})
	})
}

func TestGet(t *testing.T) {
	Convey("Get", t, func() {
		Convey("Finds a provider by id", func() {
			p, ok := Get(showroom.ID)
			So(ok, ShouldBeTrue)
			So(p.Name, ShouldEqual, showroom.Name)
		})

		Convey("Finds a provider by name", func() {
			_, ok := Get(showroom.Name)
			So(ok, ShouldBeTrue)
		})

		Convey("When trying to get an invalid provider", func() {
			_, ok := Get("kek")
			Convey("Then ok should be false", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestClosest(t *testing.T) {
	Convey("Closest", t, func() {
		Convey("Suggests the nearest provider for a typo", func() {
			So(Closest("showrom").ID, ShouldEqual, showroom.ID)
		})
	})
}
