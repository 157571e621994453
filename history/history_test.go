package history

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/livesan-cli/livesan/filesystem"
	"github.com/livesan-cli/livesan/source"
)

type testSource struct{}

func (testSource) Name() string {
	panic("")
}

func (testSource) ID() string {
	return "test source"
}

func (testSource) Search(_ string) ([]*source.Channel, error) {
	panic("")
}

func (testSource) RenditionsOf(_ *source.Channel) ([]*source.Rendition, error) {
	panic("")
}

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given a channel", t, func() {
		channel := source.Channel{
			Name:   "idol_hour",
			URL:    "https://live.example.com/idol_hour",
			ID:     "270117",
			Title:  "late night talk",
			Live:   true,
			Source: testSource{},
		}
		rendition := source.Rendition{Quality: "hls_2000"}

		Convey("When saving the channel", func() {
			err := Save(&channel, &rendition)
			Convey("Then the error should be nil", func() {
				So(err, ShouldBeNil)

				Convey("And the channel should be saved", func() {
					channels, err := Get()
					So(err, ShouldBeNil)
					So(len(channels), ShouldBeGreaterThan, 0)

					record := channels["idol_hour (test source)"]
					So(record, ShouldNotBeNil)
					So(record.Quality, ShouldEqual, "hls_2000")
					So(record.WatchCount, ShouldBeGreaterThanOrEqualTo, 1)
				})

				Convey("And saving again bumps the watch count", func() {
					So(Save(&channel, &rendition), ShouldBeNil)

					channels, err := Get()
					So(err, ShouldBeNil)
					So(channels["idol_hour (test source)"].WatchCount, ShouldBeGreaterThanOrEqualTo, 2)
				})

				Convey("And removing it leaves no record behind", func() {
					channels, err := Get()
					So(err, ShouldBeNil)

					So(Remove(channels["idol_hour (test source)"]), ShouldBeNil)

					channels, err = Get()
					So(err, ShouldBeNil)
					So(channels["idol_hour (test source)"], ShouldBeNil)
				})
			})
		})
	})
}
