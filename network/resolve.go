// Package network provides a pre-configured, optimized HTTP client for concurrent provider communication.
package network

import (
	"fmt"
	"io"
	"net/http"

	"github.com/livesan-cli/livesan/constant"
	"github.com/livesan-cli/livesan/util"
)

// ResolveFinalURL performs a GET request against the specified URL and returns the
// URL of the final response after all redirects have been followed.
// CDN edges commonly hand out tokenized stream URLs only behind one or more redirects.
func ResolveFinalURL(rawURL string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", rawURL, err)
	}
	defer util.Ignore(resp.Body.Close)

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.Request.URL.String(), nil
}
