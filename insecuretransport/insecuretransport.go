// Package insecuretransport provides the http.Transport used to walk redirect
// chains: it accepts any TLS certificate and never reuses connections.
//
// Skipping certificate verification lets us report where a link goes even
// when the destination's certificate is expired, self-signed or issued for a
// different name. Nothing fetched through this transport should be trusted.
package insecuretransport

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

const (
	// dialer
	dialTimeout = 10 * time.Second

	// transport
	expectContinueTimeout = 1 * time.Second
	tlsHandshakeTimeout   = 10 * time.Second
)

// New creates a new http.Transport that skips TLS certificate verification
// and opens a fresh connection for every request.
func New() *http.Transport {
	dialer := &net.Dialer{
		Timeout: dialTimeout,
	}

	return &http.Transport{
		DialContext:           dialer.DialContext,
		DisableKeepAlives:     true,
		ExpectContinueTimeout: expectContinueTimeout,
		ForceAttemptHTTP2:     true,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec
		},
		TLSHandshakeTimeout: tlsHandshakeTimeout,
	}
}
