// Package token manages expiring stream authorization tokens embedded in CDN URLs.
package token

import "errors"

// Fatal token faults. Each terminates the owning stream; none is retried.
var (
	// ErrMalformedToken indicates a token matching no recognized expiry encoding.
	ErrMalformedToken = errors.New("unrecognized token expiry encoding")

	// ErrRefreshFailed indicates that no rendition candidate carried a token
	// compatible with the one being renewed.
	ErrRefreshFailed = errors.New("no compatible rendition candidate")

	// ErrNoData indicates the authoritative source returned no candidates at all.
	ErrNoData = errors.New("no rendition data from source")
)

// fatalError pins a renewal failure as non-survivable even when the fault it
// wraps is a recoverable transport error. A stream that cannot renew its
// token has nothing left to fetch. The wrapped error stays reachable through
// Unwrap for inspection.
type fatalError struct {
	err error
}

func fatal(err error) error {
	return fatalError{err: err}
}

func (e fatalError) Error() string {
	return e.err.Error()
}

func (e fatalError) Unwrap() error {
	return e.err
}

func (e fatalError) Recoverable() bool {
	return false
}
