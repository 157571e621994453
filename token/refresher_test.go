package token

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// stubSource counts how many times the authoritative source is queried.
type stubSource struct {
	calls      int32
	candidates []string
	err        error
}

func (s *stubSource) RenditionCandidates() ([]string, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.candidates, s.err
}

func newTestRefresher(src CandidateSource, initial string) *Refresher {
	r, err := NewRefresher(src, initial, 0)
	So(err, ShouldBeNil)
	// Resolve candidates verbatim; redirect behavior is covered in the network package.
	r.resolve = func(rawURL string) (string, error) { return rawURL, nil }
	return r
}

func TestNewRefresher(t *testing.T) {
	Convey("NewRefresher", t, func() {
		Convey("Should seed the expiry from the initial token", func() {
			r, err := NewRefresher(&stubSource{}, "exp=1700000000~abc", 0)
			So(err, ShouldBeNil)
			So(r.Token(), ShouldEqual, "exp=1700000000~abc")
			So(r.expiry.Unix(), ShouldEqual, 1700000000-60)
		})

		Convey("Should reject a malformed initial token", func() {
			_, err := NewRefresher(&stubSource{}, "abc123", 0)
			So(errors.Is(err, ErrMalformedToken), ShouldBeTrue)
		})
	})
}

func TestExpired(t *testing.T) {
	Convey("Expired", t, func() {
		future := time.Now().Add(time.Hour).Unix()
		past := time.Now().Add(-time.Hour).Unix()

		Convey("A token expiring in an hour is not expired", func() {
			r := newTestRefresher(&stubSource{}, fmt.Sprintf("exp=%d~abc", future))
			So(r.Expired(), ShouldBeFalse)
		})

		Convey("A token that expired an hour ago is expired", func() {
			r := newTestRefresher(&stubSource{}, fmt.Sprintf("exp=%d~abc", past))
			So(r.Expired(), ShouldBeTrue)
		})

		Convey("The safety margin makes a token expire early", func() {
			soon := time.Now().Add(30 * time.Second).Unix()
			r := newTestRefresher(&stubSource{}, fmt.Sprintf("exp=%d~abc", soon))
			So(r.Expired(), ShouldBeTrue)
		})
	})
}

func TestRefresh(t *testing.T) {
	Convey("Refresh", t, func() {
		future := time.Now().Add(time.Hour).Unix()
		hint := "exp=1700000000~old"

		Convey("Should install the first candidate of the matching family", func() {
			src := &stubSource{candidates: []string{
				fmt.Sprintf("https://cdn-a.example.com/%d-other/playlist.m3u8", future),
				fmt.Sprintf("https://cdn-b.example.com/exp=%d~new/playlist.m3u8", future),
			}}
			r := newTestRefresher(src, hint)

			So(r.Refresh(hint), ShouldBeNil)
			So(r.Token(), ShouldEqual, fmt.Sprintf("exp=%d~new", future))
			So(r.Refreshing(), ShouldBeFalse)
			So(r.Expired(), ShouldBeFalse)
		})

		Convey("Should fail when no candidate matches the hint family", func() {
			src := &stubSource{candidates: []string{
				fmt.Sprintf("https://cdn.example.com/%d-other/playlist.m3u8", future),
			}}
			r := newTestRefresher(src, hint)

			err := r.Refresh(hint)
			So(errors.Is(err, ErrRefreshFailed), ShouldBeTrue)
		})

		Convey("Should fail when the source returns nothing at all", func() {
			r := newTestRefresher(&stubSource{}, hint)
			err := r.Refresh(hint)
			So(errors.Is(err, ErrNoData), ShouldBeTrue)
		})

		Convey("Should reject a malformed hint before touching the source", func() {
			src := &stubSource{}
			r := newTestRefresher(src, hint)
			err := r.Refresh("abc123")
			So(errors.Is(err, ErrMalformedToken), ShouldBeTrue)
			So(atomic.LoadInt32(&src.calls), ShouldEqual, 0)
		})

		Convey("Re-entry while a refresh is in flight is a no-op", func() {
			src := &stubSource{candidates: []string{
				fmt.Sprintf("https://cdn.example.com/exp=%d~new/playlist.m3u8", future),
			}}
			r := newTestRefresher(src, hint)

			// Pretend a refresh is already running.
			r.mu.Lock()
			r.refreshing = true
			r.mu.Unlock()

			So(r.Refresh(hint), ShouldBeNil)
			So(atomic.LoadInt32(&src.calls), ShouldEqual, 0)
		})

		Convey("Concurrent callers trigger exactly one refresh", func() {
			entered := make(chan struct{})
			release := make(chan struct{})
			src := &stubSource{candidates: []string{
				fmt.Sprintf("https://cdn.example.com/exp=%d~new/playlist.m3u8", future),
			}}
			r := newTestRefresher(src, hint)
			r.resolve = func(rawURL string) (string, error) {
				close(entered)
				<-release
				return rawURL, nil
			}

			// The winner parks inside resolve while the remaining callers
			// run Refresh against the held refreshing flag. Releasing the
			// winner only after the losers return guarantees every loser
			// raced an in-flight refresh.
			var wg sync.WaitGroup
			returned := make(chan struct{}, 4)
			for i := 0; i < 4; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_ = r.Refresh(hint)
					returned <- struct{}{}
				}()
			}

			<-entered
			for i := 0; i < 3; i++ {
				<-returned
			}
			close(release)
			wg.Wait()

			So(atomic.LoadInt32(&src.calls), ShouldEqual, 1)
			So(r.Token(), ShouldEqual, fmt.Sprintf("exp=%d~new", future))
		})
	})
}
