package stream

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/livesan-cli/livesan/poll"
	"github.com/livesan-cli/livesan/source"
)

type fakeSource struct {
	renditions []*source.Rendition
	err        error
}

func (f *fakeSource) Name() string { return "Fake" }
func (f *fakeSource) ID() string   { return "fake" }

func (f *fakeSource) Search(string) ([]*source.Channel, error) {
	return nil, nil
}

func (f *fakeSource) RenditionsOf(*source.Channel) ([]*source.Rendition, error) {
	return f.renditions, f.err
}

type hintedSource struct {
	fakeSource
	hint time.Duration
}

func (h *hintedSource) ReloadHint() (time.Duration, bool) {
	return h.hint, true
}

func fakeChannel(src source.Source) *source.Channel {
	return &source.Channel{
		ID:     "room-42",
		Name:   "Fake Room",
		URL:    "https://fake.example.com/room-42",
		Live:   true,
		Source: src,
	}
}

func TestNew(t *testing.T) {
	Convey("New", t, func() {
		channel := fakeChannel(&fakeSource{})

		Convey("Should build a stream from a tokenized rendition", func() {
			rendition := &source.Rendition{
				URL:     "https://edge.example.com/" + freshToken("abc") + "/chunklist.m3u8",
				Quality: "best",
			}

			s, err := New(channel, rendition, Options{})
			So(err, ShouldBeNil)
			So(s.Channel(), ShouldEqual, channel)
			So(s.Rendition(), ShouldEqual, rendition)

			current, err := s.CurrentURL()
			So(err, ShouldBeNil)
			So(current, ShouldEqual, rendition.URL)
		})

		Convey("Should reject a rendition whose URL carries no recognizable token", func() {
			rendition := &source.Rendition{URL: "https://edge.example.com/playlist/chunklist.m3u8"}

			_, err := New(channel, rendition, Options{})
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject a rendition with an empty path", func() {
			rendition := &source.Rendition{URL: "https://edge.example.com/"}

			_, err := New(channel, rendition, Options{})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestNewWorkerHint(t *testing.T) {
	Convey("newWorker", t, func() {
		reload := func() error { return nil }

		Convey("Should use the configured cadence for a plain source", func() {
			w := newWorker(fakeChannel(&fakeSource{}), 10*time.Second, reload)
			So(w.Interval(), ShouldEqual, 10*time.Second)
		})

		Convey("Should let the source override the cadence when it advertises one", func() {
			src := &hintedSource{hint: 2 * time.Second}
			w := newWorker(fakeChannel(src), 10*time.Second, reload)
			So(w.Interval(), ShouldEqual, 2*time.Second)
		})

		Convey("Should fall back to the default cadence for a negative interval", func() {
			w := newWorker(fakeChannel(&fakeSource{}), -1, reload)
			So(w.Interval(), ShouldEqual, poll.DefaultInterval)
		})
	})
}

func TestStreamLifecycle(t *testing.T) {
	Convey("Given a running stream", t, func() {
		channel := fakeChannel(&fakeSource{})
		rendition := &source.Rendition{
			URL: "https://edge.example.com/" + freshToken("abc") + "/chunklist.m3u8",
		}

		Convey("Reloads keep firing until the stream is stopped", func() {
			reloaded := make(chan struct{}, 1)
			s, err := New(channel, rendition, Options{
				Interval: time.Millisecond,
				Reload: func() error {
					select {
					case reloaded <- struct{}{}:
					default:
					}
					return nil
				},
			})
			So(err, ShouldBeNil)

			s.Start()

			select {
			case <-reloaded:
			case <-time.After(time.Second):
				t.Fatal("no reload fired")
			}

			s.Stop()
			<-s.Done()
			So(s.Err(), ShouldBeNil)

			Convey("And stopping again is harmless", func() {
				s.Stop()
			})
		})

		Convey("A fatal reload failure stops the stream and surfaces the error", func() {
			fatal := errors.New("playlist gone")
			s, err := New(channel, rendition, Options{
				Interval: time.Millisecond,
				Reload:   func() error { return fatal },
			})
			So(err, ShouldBeNil)

			s.Start()
			<-s.Done()
			So(s.Err(), ShouldEqual, fatal)
		})
	})
}
