// Package stream implements the live stream instance: a self-updating tokenized
// URL backed by a credential refresher and a periodic playlist reload worker.
package stream

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/livesan-cli/livesan/log"
	"github.com/livesan-cli/livesan/token"
)

// URL wraps a stream URL whose first path segment embeds an expiring
// authorization token. Each access decides whether to serve the current URL,
// trigger a renewal, or swap in a freshly renewed token.
//
// The string swap is deferred to the access immediately after a completed
// renewal, so no single access ever observes a torn URL: callers always get
// either the full old URL or the full new one.
type URL struct {
	mu        sync.Mutex
	refresher *token.Refresher
	parsed    *url.URL
	pathParts []string

	// needsUpdate marks that a renewal has run and the token segment still
	// has to be rewritten. The rewrite is deferred to a later access so the
	// access that triggered the renewal returns the URL it started with.
	needsUpdate bool
}

// NewURL wraps a tokenized stream URL.
func NewURL(rawURL string, refresher *token.Refresher) (*URL, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse stream url: %w", err)
	}

	parts := strings.Split(parsed.Path, "/")
	if len(parts) < 2 || parts[1] == "" {
		return nil, fmt.Errorf("no token segment in path %q", parsed.Path)
	}

	return &URL{
		refresher: refresher,
		parsed:    parsed,
		pathParts: parts,
	}, nil
}

// Current returns the URL to fetch from right now. It is called before every
// content fetch and is safe for concurrent use.
//
// While a renewal is in flight, or one started less than a safety margin ago,
// the current (possibly stale) URL is returned unchanged so the consumer
// proceeds rather than stalling. The only caller that blocks is the one that
// finds an expired token with no renewal running: that access performs the
// renewal synchronously and still returns the pre-renewal URL. The renewed
// token becomes visible on the access that follows.
func (u *URL) Current() (string, error) {
	u.mu.Lock()

	if u.needsUpdate && !u.refresher.Refreshing() {
		u.pathParts[1] = u.refresher.Token()
		u.parsed.Path = strings.Join(u.pathParts, "/")
		u.needsUpdate = false
		log.Debugf("Swapped renewed token into stream URL")
	}

	if u.refresher.Expired() {
		if u.refresher.Refreshing() || u.refresher.WithinMargin() {
			// A renewal is already underway or just started. Mark the swap
			// as pending and keep serving the stale URL.
			u.needsUpdate = true
		} else {
			hint := u.pathParts[1]
			current := u.parsed.String()
			u.mu.Unlock()

			log.Debugf("Stream token expired, renewing")
			if err := u.refresher.Refresh(hint); err != nil {
				return "", err
			}

			u.mu.Lock()
			u.needsUpdate = true
			u.mu.Unlock()
			return current, nil
		}
	}

	current := u.parsed.String()
	u.mu.Unlock()
	return current, nil
}
