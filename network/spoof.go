// Package network provides a pre-configured, optimized HTTP client for concurrent provider communication.
//
// The spoofed client in this file leverages refraction-networking/utls to
// emulate Chrome's TLS Client Hello signature. Several live-streaming sites sit
// behind anti-bot challenges (Cloudflare, DDoS-Guard) that reject the standard
// Go TLS stack; providers opt in through the network.tls_spoof configuration key.
//
// Protocol negotiation: an HTTP/2 connection is attempted first, with a
// transparent fallback to a forced HTTP/1.1 transport when the handshake or
// request fails.
package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/livesan-cli/livesan/constant"
	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const spoofTimeout = 30 * time.Second

// h2Transport is a shared HTTP/2 transport for servers that negotiate h2.
var (
	h2Transport     *http2.Transport
	h2TransportOnce sync.Once
)

func getH2Transport() *http2.Transport {
	h2TransportOnce.Do(func() {
		h2Transport = &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr)
			},
		}
	})
	return h2Transport
}

// h1Transport is a shared HTTP/1.1 transport for servers that negotiate http/1.1.
var h1Transport = &http.Transport{
	DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialTLSH1(ctx, network, addr)
	},
}

// SpoofedGet performs a GET request with Chrome TLS fingerprint emulation.
// Returns the response body and status code.
func SpoofedGet(rawURL string, headers map[string]string) (string, int, error) {
	return doSpoofedRequest(http.MethodGet, rawURL, headers, "")
}

// doSpoofedRequest performs an HTTP request with Chrome TLS fingerprint spoofing.
// It automatically handles both H2 and HTTP/1.1 by attempting the H2 transport
// first, then falling back to the H1 transport.
// Returns (body, statusCode, error).
func doSpoofedRequest(method, rawURL string, headers map[string]string, body string) (string, int, error) {
	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, rawURL, reqBody)
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}

	// Default headers matching the advertised browser fingerprint
	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{
		Timeout:   spoofTimeout,
		Transport: getH2Transport(),
	}

	resp, err := client.Do(req)
	if err != nil {
		if body != "" {
			reqBody = strings.NewReader(body) // reset reader
		}
		req2, _ := http.NewRequest(method, rawURL, reqBody)
		req2.Header = req.Header

		h1Client := &http.Client{
			Timeout:   spoofTimeout,
			Transport: h1Transport,
		}
		resp, err = h1Client.Do(req2)
		if err != nil {
			return "", 0, fmt.Errorf("request failed: %w", err)
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	return string(respBody), resp.StatusCode, nil
}

// dialTLS creates a TLS connection mimicking Chrome 120's fingerprint.
// Advertises both h2 and http/1.1 (natural Chrome behavior).
func dialTLS(ctx context.Context, network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: spoofTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName:         host,
		InsecureSkipVerify: true,
		MinVersion:         tls.VersionTLS12,
	}, utls.HelloChrome_120)

	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}

// dialTLSH1 creates a TLS connection forcing HTTP/1.1 only (for fallback).
func dialTLSH1(ctx context.Context, network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: spoofTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName:         host,
		InsecureSkipVerify: false,
		MinVersion:         tls.VersionTLS12,
		NextProtos:         []string{"http/1.1"},
	}, utls.HelloChrome_120)

	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
