package source

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestChannel(t *testing.T) {
	Convey("Channel", t, func() {
		ch := &Channel{
			Name:   "some_channel",
			Source: &testSource{},
		}

		Convey("String", func() {
			So(ch.String(), ShouldEqual, "some_channel")
			ch.Title = "Evening Broadcast"
			So(ch.String(), ShouldEqual, "some_channel: Evening Broadcast")
		})
	})
}

func TestRendition(t *testing.T) {
	Convey("Rendition", t, func() {
		r := &Rendition{
			URL:     "http://example.com/chunklist.m3u8",
			Quality: "hls_2000",
		}

		Convey("String representation", func() {
			So(r.String(), ShouldEqual, "hls_2000")
			r.Quality = ""
			So(r.String(), ShouldEqual, "http://example.com/chunklist.m3u8")
		})
	})
}

func TestError(t *testing.T) {
	Convey("Error", t, func() {
		inner := errors.New("connection reset")
		err := NewError("reload playlist", inner)

		Convey("Should render op and cause", func() {
			So(err.Error(), ShouldEqual, "reload playlist: connection reset")
		})

		Convey("Should unwrap to the cause", func() {
			So(errors.Is(err, inner), ShouldBeTrue)
		})

		Convey("Should be recoverable", func() {
			So(err.Recoverable(), ShouldBeTrue)
		})
	})
}

type testSource struct{}

func (testSource) Name() string                                   { return "Test Source" }
func (testSource) ID() string                                     { return "test" }
func (testSource) Search(query string) ([]*Channel, error)        { return nil, nil }
func (testSource) RenditionsOf(ch *Channel) ([]*Rendition, error) { return nil, nil }
