package showroom

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/livesan-cli/livesan/filesystem"
)

type fakeService struct {
	server *httptest.Server

	liveStatus int32
	pageHits   int32
	restricted bool
}

func newFakeService() *fakeService {
	svc := &fakeService{liveStatus: liveStatusStreaming}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/live/live_info", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"live_status":%d,"room_name":"Idol Hour"}`, atomic.LoadInt32(&svc.liveStatus))
	})

	mux.HandleFunc("/api/live/streaming_url", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"streaming_url_list":[
			{"type":"hls","quality":1000,"url":"%[1]s/edge/exp=9999999999~low/chunklist.m3u8"},
			{"type":"hls","quality":2000,"url":"%[1]s/edge/exp=9999999999~high/chunklist.m3u8"}
		]}`, svc.server.URL)
	})

	mux.HandleFunc("/edge/", func(w http.ResponseWriter, r *http.Request) {
		if svc.restricted {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", playlistContentType)
		fmt.Fprint(w, "#EXTM3U")
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&svc.pageHits, 1)
		if r.URL.Path == "/not-a-room" {
			fmt.Fprint(w, "<html><body>landing page</body></html>")
			return
		}
		fmt.Fprint(w, `<html><script>var opts = {share_url:"https://www.showroom-live.com/room/profile?room_id=270117"};</script></html>`)
	})

	svc.server = httptest.NewServer(mux)
	return svc
}

func (svc *fakeService) source() *Showroom {
	return &Showroom{
		base:   svc.server.URL,
		client: svc.server.Client(),
	}
}

func TestSearch(t *testing.T) {
	Convey("Search", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		svc := newFakeService()
		defer svc.server.Close()
		src := svc.source()

		Convey("Should resolve a room key to a live channel", func() {
			channels, err := src.Search("idol_hour")
			So(err, ShouldBeNil)
			So(channels, ShouldHaveLength, 1)
			So(channels[0].ID, ShouldEqual, "270117")
			So(channels[0].Name, ShouldEqual, "idol_hour")
			So(channels[0].Title, ShouldEqual, "Idol Hour")
			So(channels[0].Live, ShouldBeTrue)
			So(channels[0].Source, ShouldEqual, src)
		})

		Convey("Should accept a full room page URL", func() {
			channels, err := src.Search(svc.server.URL + "/idol_hour")
			So(err, ShouldBeNil)
			So(channels, ShouldHaveLength, 1)
			So(channels[0].URL, ShouldEqual, svc.server.URL+"/idol_hour")
		})

		Convey("Should report an offline room as not live", func() {
			atomic.StoreInt32(&svc.liveStatus, 1)
			channels, err := src.Search("idol_hour")
			So(err, ShouldBeNil)
			So(channels, ShouldHaveLength, 1)
			So(channels[0].Live, ShouldBeFalse)
		})

		Convey("Should yield nothing for a page that is not a room", func() {
			channels, err := src.Search("not-a-room")
			So(err, ShouldBeNil)
			So(channels, ShouldBeEmpty)
		})

		Convey("Should reject an empty query", func() {
			_, err := src.Search("  ")
			So(err, ShouldNotBeNil)
		})

		Convey("Should reuse the cached room id on repeat lookups", func() {
			_, err := src.Search("idol_hour")
			So(err, ShouldBeNil)
			_, err = src.Search("idol_hour")
			So(err, ShouldBeNil)
			So(atomic.LoadInt32(&svc.pageHits), ShouldEqual, 1)
		})
	})
}

func TestRenditionsOf(t *testing.T) {
	Convey("RenditionsOf", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		svc := newFakeService()
		defer svc.server.Close()
		src := svc.source()

		channels, err := src.Search("idol_hour")
		So(err, ShouldBeNil)
		So(channels, ShouldHaveLength, 1)
		channel := channels[0]

		Convey("Should list renditions best quality first", func() {
			renditions, err := src.RenditionsOf(channel)
			So(err, ShouldBeNil)
			So(renditions, ShouldHaveLength, 2)
			So(renditions[0].Quality, ShouldEqual, "hls_2000")
			So(renditions[0].Bitrate, ShouldEqual, 2000)
			So(renditions[0].Kind, ShouldEqual, "hls")
			So(renditions[1].Quality, ShouldEqual, "hls_1000")
		})

		Convey("Should fail when the room has gone offline", func() {
			atomic.StoreInt32(&svc.liveStatus, 0)
			_, err := src.RenditionsOf(channel)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "offline")
		})

		Convey("Should detect a restricted stream", func() {
			svc.restricted = true
			_, err := src.RenditionsOf(channel)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "restricted")
		})
	})
}
