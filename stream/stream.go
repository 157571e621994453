// Package stream implements the live stream instance: a self-updating tokenized
// URL backed by a credential refresher and a periodic playlist reload worker.
package stream

import (
	"io"
	"net/http"
	"time"

	"github.com/samber/lo"

	"github.com/livesan-cli/livesan/constant"
	"github.com/livesan-cli/livesan/network"
	"github.com/livesan-cli/livesan/poll"
	"github.com/livesan-cli/livesan/source"
	"github.com/livesan-cli/livesan/token"
	"github.com/livesan-cli/livesan/util"
)

// Options configure a stream instance.
type Options struct {
	// Interval between playlist reloads. Negative means the default cadence,
	// zero means reload back to back.
	Interval time.Duration

	// Margin subtracted from the token's embedded expiry epoch.
	Margin time.Duration

	// Reload fetches and processes the live playlist once. When nil the
	// stream fetches its own current URL and discards the body, which keeps
	// the token lifecycle running for consumers that read segments
	// out of band.
	Reload func() error
}

// Stream ties a rendition's tokenized URL to its renewal machinery and the
// reload worker that keeps the live playlist current.
type Stream struct {
	channel   *source.Channel
	rendition *source.Rendition
	url       *URL
	refresher *token.Refresher
	worker    *poll.Worker
}

// renditionCandidates adapts a channel's source to the refresher's
// candidate query.
type renditionCandidates struct {
	channel *source.Channel
}

func (rc renditionCandidates) RenditionCandidates() ([]string, error) {
	renditions, err := rc.channel.Source.RenditionsOf(rc.channel)
	if err != nil {
		return nil, err
	}

	return lo.Map(renditions, func(r *source.Rendition, _ int) string {
		return r.URL
	}), nil
}

// New builds a stream instance for the given rendition of a channel. The
// rendition URL's leading path segment seeds the token refresher.
func New(channel *source.Channel, rendition *source.Rendition, opts Options) (*Stream, error) {
	seed, err := token.PathToken(rendition.URL)
	if err != nil {
		return nil, err
	}

	refresher, err := token.NewRefresher(renditionCandidates{channel}, seed, opts.Margin)
	if err != nil {
		return nil, err
	}

	u, err := NewURL(rendition.URL, refresher)
	if err != nil {
		return nil, err
	}

	s := &Stream{
		channel:   channel,
		rendition: rendition,
		url:       u,
		refresher: refresher,
	}

	reload := opts.Reload
	if reload == nil {
		reload = s.reloadPlaylist
	}

	s.worker = newWorker(channel, opts.Interval, reload)
	return s, nil
}

// newWorker builds the playlist reloader, letting the channel's source
// override the configured cadence when it advertises one.
func newWorker(channel *source.Channel, interval time.Duration, reload func() error) *poll.Worker {
	if hinter, ok := channel.Source.(source.ReloadHinter); ok {
		if hint, ok := hinter.ReloadHint(); ok {
			interval = hint
		}
	}

	return poll.NewWorker(interval, reload)
}

// Start launches the periodic playlist reloader.
func (s *Stream) Start() {
	s.worker.Start()
}

// Stop halts the reloader. It is safe to call more than once.
func (s *Stream) Stop() {
	s.worker.Stop()
}

// Done is closed once the reloader has exited, whether stopped or failed.
func (s *Stream) Done() <-chan struct{} {
	return s.worker.Done()
}

// Err reports the failure that stopped the reloader, if any.
func (s *Stream) Err() error {
	return s.worker.Err()
}

// CurrentURL returns the URL to fetch from right now, renewing the embedded
// token when it has expired.
func (s *Stream) CurrentURL() (string, error) {
	return s.url.Current()
}

// Channel returns the channel this stream was built from.
func (s *Stream) Channel() *source.Channel {
	return s.channel
}

// Rendition returns the rendition this stream plays.
func (s *Stream) Rendition() *source.Rendition {
	return s.rendition
}

// reloadPlaylist is the default reload action: fetch the stream's current URL
// and discard the body. Transport and server errors are reported as
// recoverable so a single flaky reload does not kill the stream.
func (s *Stream) reloadPlaylist() error {
	current, err := s.CurrentURL()
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodGet, current, nil)
	if err != nil {
		return err
	}

	req.Header.Set("User-Agent", constant.UserAgent)
	for name, value := range s.rendition.Headers {
		req.Header.Set(name, value)
	}

	resp, err := network.Client.Do(req)
	if err != nil {
		return source.NewError("reload playlist", err)
	}
	defer util.Ignore(resp.Body.Close)

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return source.NewError("reload playlist", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return source.Errorf("reload playlist", "unexpected status %s", resp.Status)
	}

	return nil
}
