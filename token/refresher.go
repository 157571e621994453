// Package token manages expiring stream authorization tokens embedded in CDN URLs.
package token

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/livesan-cli/livesan/log"
	"github.com/livesan-cli/livesan/network"
)

// CandidateSource supplies the current rendition candidate URLs from the
// authoritative source. Each stream provider implements it against its own API.
type CandidateSource interface {
	RenditionCandidates() ([]string, error)
}

// Refresher owns a single expiring authorization token and its renewal state.
// All mutable state is guarded by one mutex shared with every accessor, so a
// reader never observes a half-installed token. At most one refresh is in
// flight at any time; re-entry is a guarded no-op.
type Refresher struct {
	mu sync.Mutex

	src     CandidateSource
	resolve func(rawURL string) (string, error)
	margin  time.Duration
	now     func() time.Time

	token       string
	expiry      time.Time
	refreshing  bool
	lastRefresh time.Time
}

// NewRefresher constructs a refresher seeded with the token currently embedded
// in the stream URL. The initial expiry is parsed from that token immediately,
// so a malformed token fails the stream before the first fetch.
func NewRefresher(src CandidateSource, initial string, margin time.Duration) (*Refresher, error) {
	if margin <= 0 {
		margin = DefaultMargin
	}

	expiry, err := ParseExpiry(initial, margin)
	if err != nil {
		return nil, err
	}

	return &Refresher{
		src:     src,
		resolve: network.ResolveFinalURL,
		margin:  margin,
		now:     time.Now,
		token:   initial,
		expiry:  expiry,
	}, nil
}

// Token returns the currently installed token.
func (r *Refresher) Token() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token
}

// Refreshing reports whether a renewal is currently in flight.
func (r *Refresher) Refreshing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshing
}

// Expired reports whether the margin-adjusted expiry has passed.
func (r *Refresher) Expired() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.now().Before(r.expiry)
}

// WithinMargin reports whether the last renewal started less than one safety
// margin ago. Accesses inside that window keep serving the stale token instead
// of piling further renewals onto the source.
func (r *Refresher) WithinMargin() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now().Sub(r.lastRefresh) < r.margin
}

// Margin returns the configured safety margin.
func (r *Refresher) Margin() time.Duration {
	return r.margin
}

// Refresh renews the token by querying the authoritative source for rendition
// candidates, resolving each candidate's redirects, and installing the first
// token whose expiry encoding family matches the hint's family.
// Candidates of a different family are skipped: a cross-family swap would
// produce a URL the edge rejects.
//
// Concurrent calls while a renewal is in flight return immediately without
// starting a second one. On failure the refreshing flag stays set; the fault
// is fatal to the owning stream and is never retried.
func (r *Refresher) Refresh(hint string) error {
	hintFamily := DetectFamily(hint)
	if hintFamily == FamilyUnknown {
		return fmt.Errorf("refresh hint: %w", ErrMalformedToken)
	}

	r.mu.Lock()
	if r.refreshing {
		r.mu.Unlock()
		return nil
	}
	r.refreshing = true
	r.lastRefresh = r.now()
	r.mu.Unlock()

	log.Debugf("refreshing %s stream token", hintFamily)

	candidates, err := r.src.RenditionCandidates()
	if err != nil {
		return fatal(fmt.Errorf("fetch rendition candidates: %w", err))
	}
	if len(candidates) == 0 {
		return fmt.Errorf("refresh token: %w", ErrNoData)
	}

	for _, candidate := range candidates {
		final, err := r.resolve(candidate)
		if err != nil {
			log.Warnf("resolve candidate %s: %v", candidate, err)
			continue
		}

		tok, err := PathToken(final)
		if err != nil {
			continue
		}
		if DetectFamily(tok) != hintFamily {
			continue
		}

		expiry, err := ParseExpiry(tok, r.margin)
		if err != nil {
			continue
		}

		r.mu.Lock()
		r.token = tok
		r.expiry = expiry
		r.refreshing = false
		r.mu.Unlock()

		log.Debugf("installed renewed stream token, valid until %s", expiry.Format(time.RFC3339))
		return nil
	}

	return fmt.Errorf("refresh token: %w", ErrRefreshFailed)
}

// PathToken extracts the token-bearing path segment from a stream URL.
// CDN edges place the token in the first path segment.
func PathToken(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse stream url: %w", err)
	}

	parts := strings.Split(u.Path, "/")
	if len(parts) < 2 || parts[1] == "" {
		return "", fmt.Errorf("no token segment in path %q", u.Path)
	}
	return parts[1], nil
}
