package network

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestResolveFinalURL(t *testing.T) {
	Convey("ResolveFinalURL", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/edge", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/exp=1700000000~hmac=cafe/chunklist.m3u8", http.StatusFound)
		})
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		Convey("Should follow redirects and report the final URL", func() {
			final, err := ResolveFinalURL(server.URL + "/edge")
			So(err, ShouldBeNil)
			So(final, ShouldEqual, server.URL+"/exp=1700000000~hmac=cafe/chunklist.m3u8")
		})

		Convey("Should pass through a URL that does not redirect", func() {
			final, err := ResolveFinalURL(server.URL + "/direct")
			So(err, ShouldBeNil)
			So(final, ShouldEqual, server.URL+"/direct")
		})
	})
}
