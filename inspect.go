package urlanalyzer

import (
	"fmt"
	"net"
	"net/url"

	"golang.org/x/net/publicsuffix"
)

// Domain is the breakdown of a URL into its components, as reported for the
// final URL of a resolution.
type Domain struct {
	Scheme string
	Host   string
	Path   string // "/" when the URL has no path

	Query    string
	HasQuery bool

	Fragment    string
	HasFragment bool

	// Secure is true iff the scheme is exactly https.
	Secure bool

	// RegisteredDomain is the public suffix plus one label (e.g. example.co.uk
	// for www.example.co.uk). It is empty for IP addresses and for hosts that
	// are themselves public suffixes.
	RegisteredDomain string

	// CanonicalURL is the URL with tracking params and fragment removed.
	CanonicalURL string
}

// Inspect breaks rawURL down into its components.
func Inspect(rawURL string) (Domain, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Domain{}, fmt.Errorf("invalid url: %w", err)
	}

	d := Domain{
		Scheme:       u.Scheme,
		Host:         u.Host,
		Path:         u.Path,
		Query:        u.RawQuery,
		HasQuery:     u.RawQuery != "",
		Fragment:     u.Fragment,
		HasFragment:  u.Fragment != "",
		Secure:       u.Scheme == "https",
		CanonicalURL: Canonicalize(u),
	}
	if d.Path == "" {
		d.Path = "/"
	}
	d.RegisteredDomain = registeredDomain(u.Hostname())
	return d, nil
}

func registeredDomain(hostname string) string {
	if hostname == "" || net.ParseIP(hostname) != nil {
		return ""
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(hostname)
	if err != nil {
		return ""
	}
	return domain
}
