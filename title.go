package urlanalyzer

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
	"golang.org/x/net/html/charset"
)

var (
	titleOpen  = []byte("<title>")
	titleClose = []byte("</title>")
)

// FindTitle returns the text between the first <title> tag in body and the
// closing </title> tag that follows it, or the rest of the body if the tag
// is never closed. TitleNotFound is returned if there is no <title> tag.
//
// This is a plain, case-sensitive substring search rather than an HTML
// parser: attributes on the tag, comments and entities are not understood.
func FindTitle(body []byte) string {
	start := bytes.Index(body, titleOpen)
	if start < 0 {
		return TitleNotFound
	}
	rest := body[start+len(titleOpen):]
	if end := bytes.Index(rest, titleClose); end >= 0 {
		rest = rest[:end]
	}
	return string(rest)
}

// fetchTitle makes a full GET request for the given URL and extracts its
// title. Only the first maxBodySize bytes of the decoded body are searched,
// so a title that starts later is TitleNotFound and an unclosed or straddling
// one is cut off at the limit. Any failure is reported as a
// *ContentFetchError along with the TitleFetchFailed sentinel.
func (r *Resolver) fetchTitle(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return TitleFetchFailed, &ContentFetchError{URL: target, Err: err}
	}

	resp, err := r.getClient().Do(req)
	if err != nil {
		return TitleFetchFailed, &ContentFetchError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	title, err := r.readTitle(resp)
	if err != nil {
		return TitleFetchFailed, &ContentFetchError{URL: target, Err: err}
	}
	return title, nil
}

func (r *Resolver) readTitle(resp *http.Response) (string, error) {
	buf := r.pool.Get()
	defer r.pool.Put(buf)

	if err := peekBody(resp, buf); err != nil {
		return "", err
	}

	body, err := decodeBody(buf.Bytes(), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("error decoding response: %w", err)
	}

	// FindTitle copies the title out of body, which may alias buf
	return FindTitle(body), nil
}

// peekBody reads at most maxBodySize bytes of the response body into buf,
// undoing any content encoding along the way.
func peekBody(resp *http.Response, buf *bytes.Buffer) error {
	var rd io.Reader = resp.Body
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gr, err := gzip.NewReader(rd)
		if err != nil {
			return fmt.Errorf("error initializing gzip: %w", err)
		}
		defer gr.Close()
		rd = gr
	case "deflate":
		fr := flate.NewReader(rd)
		defer fr.Close()
		rd = fr
	case "br":
		rd = brotli.NewReader(rd)
	}

	if _, err := buf.ReadFrom(io.LimitReader(rd, maxBodySize)); err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}
	return nil
}

func decodeBody(body []byte, contentType string) ([]byte, error) {
	enc, encName, _ := charset.DetermineEncoding(body, contentType)
	if encName == "utf-8" {
		return body, nil
	}
	return enc.NewDecoder().Bytes(body)
}
