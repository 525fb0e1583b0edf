// Package telemetry instruments outgoing HTTP requests with OpenTelemetry
// spans and configures where those spans go.
package telemetry

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"net/http/httptrace"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/semconv"
	"go.opentelemetry.io/otel/trace"
)

// WrapTransport returns a new transport that adds detailed instrumentation to
// all outgoing requests.
func WrapTransport(transport http.RoundTripper) http.RoundTripper {
	// otelhttp adds the baseline HTTP client span, our transport adds child
	// spans for each stage of the network connection.
	return otelhttp.NewTransport(&traceTransport{transport})
}

type traceTransport struct {
	transport http.RoundTripper
}

func (t *traceTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()
	ctx = httptrace.WithClientTrace(ctx, newClientTrace(ctx))
	return t.transport.RoundTrip(r.WithContext(ctx))
}

func newClientTrace(ctx context.Context) *httptrace.ClientTrace {
	tracer := &tracer{
		ctx: ctx,
	}
	return &httptrace.ClientTrace{
		DNSDone:              tracer.DNSDone,
		DNSStart:             tracer.DNSStart,
		GetConn:              tracer.GetConn,
		GotConn:              tracer.GotConn,
		GotFirstResponseByte: tracer.GotFirstResponseByte,
		TLSHandshakeDone:     tracer.TLSHandshakeDone,
		TLSHandshakeStart:    tracer.TLSHandshakeStart,
		WroteRequest:         tracer.WroteRequest,
	}
}

// tracer implements a subset of the *httptrace.ClientTrace callbacks, and
// maintains state in order to instrument the various stages of an HTTP
// request.
type tracer struct {
	ctx          context.Context
	connectSpan  trace.Span
	dnsSpan      trace.Span
	tlsSpan      trace.Span
	upstreamSpan trace.Span
}

func (t *tracer) start(name string) trace.Span {
	_, span := trace.SpanFromContext(t.ctx).Tracer().Start(t.ctx, name)
	return span
}

// GetConn is called before a connection is created or retrieved from an idle
// pool. The hostPort is the "host:port" of the target or proxy.
func (t *tracer) GetConn(hostPort string) {
	t.connectSpan = t.start("net.connect")
	if host, port, err := net.SplitHostPort(hostPort); err == nil {
		t.connectSpan.SetAttributes(
			attribute.String(string(semconv.NetHostNameKey), host),
			attribute.String(string(semconv.NetHostPortKey), port),
		)
	}
}

// GotConn is called after a successful connection is obtained. There is no
// hook for failure to obtain a connection; instead, use the error from
// Transport.RoundTrip.
func (t *tracer) GotConn(info httptrace.GotConnInfo) {
	if t.connectSpan == nil {
		return
	}
	t.connectSpan.SetAttributes(
		attribute.Bool("net.conn.reused", info.Reused),
		attribute.Bool("net.conn.was_idle", info.WasIdle),
	)
	t.connectSpan.End()
}

// DNSStart is called when a DNS lookup begins.
func (t *tracer) DNSStart(info httptrace.DNSStartInfo) {
	t.dnsSpan = t.start("net.dns_lookup")
	t.dnsSpan.SetAttributes(attribute.String(string(semconv.NetHostNameKey), info.Host))
}

// DNSDone is called when a DNS lookup ends.
func (t *tracer) DNSDone(info httptrace.DNSDoneInfo) {
	if t.dnsSpan == nil {
		return
	}
	if info.Err != nil {
		t.dnsSpan.SetAttributes(attribute.String("error", info.Err.Error()))
	}
	t.dnsSpan.End()
}

// TLSHandshakeStart is called when the TLS handshake is started.
func (t *tracer) TLSHandshakeStart() {
	t.tlsSpan = t.start("net.tls_handshake")
}

// TLSHandshakeDone is called after the TLS handshake with either the
// successful handshake's connection state, or a non-nil error on handshake
// failure.
func (t *tracer) TLSHandshakeDone(state tls.ConnectionState, err error) {
	if t.tlsSpan == nil {
		return
	}
	t.tlsSpan.SetAttributes(
		attribute.Bool("net.conn.tls_did_resume", state.DidResume),
		attribute.String("net.conn.tls_server_name", state.ServerName),
	)
	if err != nil {
		t.tlsSpan.SetAttributes(attribute.String("error", err.Error()))
	}
	t.tlsSpan.End()
}

// WroteRequest is called with the result of writing the request and any body.
// It may be called multiple times in the case of retried requests.
func (t *tracer) WroteRequest(info httptrace.WroteRequestInfo) {
	if t.upstreamSpan == nil {
		t.upstreamSpan = t.start("net.conn.time_to_first_byte")
		if info.Err != nil {
			t.upstreamSpan.SetAttributes(attribute.String("error", info.Err.Error()))
		}
	}
}

// GotFirstResponseByte is called when the first byte of the response headers
// is available.
func (t *tracer) GotFirstResponseByte() {
	if t.upstreamSpan != nil {
		t.upstreamSpan.End()
	}
}
