package urlanalyzer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mccutchen/urlanalyzer/bufferpool"
	"github.com/mccutchen/urlanalyzer/fakebrowser"
	"github.com/mccutchen/urlanalyzer/insecuretransport"
)

const (
	// DefaultTimeout bounds every individual request made while resolving a
	// URL.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRedirects is the maximum number of redirects that will be
	// followed before the last response is treated as terminal. It exists
	// only to guarantee termination on redirect cycles.
	DefaultMaxRedirects = 20

	maxBodySize = 500 * 1024 // we'll read 500kb of body to find title

	instrumentationName = "github.com/mccutchen/urlanalyzer"
)

// Interface defines the interface for a URL resolver.
type Interface interface {
	Resolve(context.Context, string) (Result, error)
}

// Resolver resolves a URL by walking its redirect chain one header-only
// request at a time, recording each hop, and then fetching the final URL to
// extract its title.
//
// By default the value of each Location header is used verbatim as the next
// URL to request, so a relative Location (e.g. "/login") fails with a
// TransportError instead of being resolved against the current URL as HTTP
// semantics require. WithStrictLocation opts into RFC 7231 resolution.
type Resolver struct {
	transport      http.RoundTripper
	timeout        time.Duration
	maxRedirects   int
	strictLocation bool
	pool           *bufferpool.BufferPool
}

var _ Interface = &Resolver{} // Resolver implements Interface

// Option customizes a Resolver.
type Option func(*Resolver)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithMaxRedirects overrides DefaultMaxRedirects. Zero disables redirect
// following entirely.
func WithMaxRedirects(n int) Option {
	return func(r *Resolver) {
		if n >= 0 {
			r.maxRedirects = n
		}
	}
}

// WithStrictLocation resolves relative Location headers against the URL
// that produced them.
func WithStrictLocation() Option {
	return func(r *Resolver) {
		r.strictLocation = true
	}
}

// New creates a new Resolver that will use the given transport, or an
// insecuretransport if transport is nil.
func New(transport http.RoundTripper, opts ...Option) *Resolver {
	if transport == nil {
		transport = insecuretransport.New()
	}

	r := &Resolver{
		// Requests through this transport will masquerade as a real web
		// browser
		transport:    fakebrowser.New(transport),
		timeout:      DefaultTimeout,
		maxRedirects: DefaultMaxRedirects,
		pool:         bufferpool.New(4 * maxBodySize),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve follows the redirect chain starting at givenURL and attempts to
// extract the title of the page it ends on.
//
// The title is searched for in the first 500KiB of the final page's body
// only.
//
// A non-nil error is always a *TransportError, in which case the returned
// Result only carries OriginalURL and Error. Failing to fetch the title is
// not an error; see Result.TitleErr.
func (r *Resolver) Resolve(ctx context.Context, givenURL string) (Result, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "urlanalyzer.resolve")
	defer span.End()
	span.SetAttributes(attribute.String("urlanalyzer.given_url", givenURL))

	result, err := r.followRedirects(ctx, givenURL)
	if err != nil {
		span.SetAttributes(attribute.String("error", err.Error()))
		zerolog.Ctx(ctx).Debug().Err(err).Str("url", givenURL).Msg("resolve failed")
		return errorResult(givenURL, err), err
	}

	result.Title, result.TitleErr = r.fetchTitle(ctx, result.FinalURL)
	if result.TitleErr != nil {
		span.SetAttributes(attribute.String("urlanalyzer.title_error", result.TitleErr.Error()))
		zerolog.Ctx(ctx).Warn().Err(result.TitleErr).Str("url", result.FinalURL).Msg("could not retrieve title")
	}

	span.SetAttributes(
		attribute.String("urlanalyzer.final_url", result.FinalURL),
		attribute.Int("urlanalyzer.redirects", len(result.RedirectChain)-1),
		attribute.Bool("urlanalyzer.max_redirects_reached", result.MaxRedirectsReached),
	)
	return result, nil
}

func (r *Resolver) followRedirects(ctx context.Context, givenURL string) (Result, error) {
	client := r.headClient()

	var (
		chain    = []string{givenURL}
		codes    []int
		current  = givenURL
		capped   bool
		followed int
	)

	status, location, err := r.probe(ctx, client, current)
	if err != nil {
		return Result{}, err
	}

	for location != "" {
		if followed >= r.maxRedirects {
			capped = true
			zerolog.Ctx(ctx).Warn().
				Int("max_redirects", r.maxRedirects).
				Str("url", current).
				Msg("too many redirects, treating last response as final")
			break
		}

		next, err := r.nextURL(current, location)
		if err != nil {
			return Result{}, &TransportError{URL: location, Err: err}
		}

		chain = append(chain, next)
		codes = append(codes, status)
		current = next
		followed++

		status, location, err = r.probe(ctx, client, current)
		if err != nil {
			return Result{}, err
		}
	}
	codes = append(codes, status)

	return Result{
		OriginalURL:         givenURL,
		FinalURL:            current,
		RedirectChain:       chain,
		StatusCodes:         codes,
		IsRedirected:        len(chain) > 1,
		MaxRedirectsReached: capped,
	}, nil
}

// probe issues a single header-only request, returning the response's status
// code and, if the response is a redirect, its Location.
func (r *Resolver) probe(ctx context.Context, client *http.Client, target string) (int, string, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "urlanalyzer.hop", trace.WithAttributes(
		attribute.String("urlanalyzer.hop_url", target),
	))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return 0, "", &TransportError{URL: target, Err: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		span.SetAttributes(attribute.String("error", err.Error()))
		return 0, "", &TransportError{URL: target, Err: err}
	}
	resp.Body.Close()

	var location string
	if isRedirect(resp) {
		location = resp.Header.Get("Location")
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	zerolog.Ctx(ctx).Debug().
		Str("url", target).
		Int("status", resp.StatusCode).
		Str("location", location).
		Msg("hop")

	return resp.StatusCode, location, nil
}

func (r *Resolver) nextURL(current string, location string) (string, error) {
	if !r.strictLocation {
		return location, nil
	}
	base, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("invalid redirect base: %w", err)
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("invalid Location header: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

// isRedirect reports whether a response redirects elsewhere: one of the
// redirect status codes along with a Location to go to. A Location header
// that is present but empty counts as no Location, so the response is
// terminal.
func isRedirect(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return resp.Header.Get("Location") != ""
	}
	return false
}

func (r *Resolver) headClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
		Transport: r.transport,
		Timeout:   r.timeout,
	}
}

// The content fetch follows redirects on its own, using net/http's default
// policy.
func (r *Resolver) getClient() *http.Client {
	return &http.Client{
		Transport: r.transport,
		Timeout:   r.timeout,
	}
}
