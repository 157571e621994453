// Package token manages expiring stream authorization tokens embedded in CDN URLs.
//
// Live CDN edges issue URLs whose first path segment carries a signed,
// expiring authorization token. Two encodings are recognized; a token matching
// neither is rejected rather than guessed at.
package token

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/livesan-cli/livesan/util"
)

// DefaultMargin is the safety margin subtracted from a token's literal expiry,
// so renewal starts before the edge actually rejects the token.
const DefaultMargin = 60 * time.Second

// Family identifies the encoding of a token's expiry timestamp.
type Family int

const (
	FamilyUnknown Family = iota
	// FamilyExpTilde matches tokens of the form "exp=<epoch>~...".
	FamilyExpTilde
	// FamilyEpochDash matches tokens of the form "<epoch>-...".
	FamilyEpochDash
)

func (f Family) String() string {
	switch f {
	case FamilyExpTilde:
		return "exp-tilde"
	case FamilyEpochDash:
		return "epoch-dash"
	default:
		return "unknown"
	}
}

// Expiry encodings, tried in order.
var (
	reExpTilde  = regexp.MustCompile(`^exp=(?P<epoch>\d+)~`)
	reEpochDash = regexp.MustCompile(`^(?P<epoch>\d+)-`)
)

// DetectFamily reports which expiry encoding the token uses.
func DetectFamily(tok string) Family {
	switch {
	case reExpTilde.MatchString(tok):
		return FamilyExpTilde
	case reEpochDash.MatchString(tok):
		return FamilyEpochDash
	default:
		return FamilyUnknown
	}
}

// ParseExpiry extracts the absolute expiry timestamp from a token and applies
// the safety margin. A non-positive margin falls back to DefaultMargin.
func ParseExpiry(tok string, margin time.Duration) (time.Time, error) {
	if margin <= 0 {
		margin = DefaultMargin
	}

	var groups map[string]string
	switch DetectFamily(tok) {
	case FamilyExpTilde:
		groups = util.ReGroups(reExpTilde, tok)
	case FamilyEpochDash:
		groups = util.ReGroups(reEpochDash, tok)
	default:
		return time.Time{}, fmt.Errorf("parse token expiry: %w", ErrMalformedToken)
	}

	epoch, err := strconv.ParseInt(groups["epoch"], 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse token epoch: %w", err)
	}

	return time.Unix(epoch, 0).Add(-margin), nil
}
