package urlanalyzer

// Sentinel titles reported when a title could not be extracted.
const (
	TitleNotFound    = "Not found"
	TitleFetchFailed = "Failed to retrieve title"
)

// Result is the result of resolving a URL.
//
// When Error is set, only OriginalURL is meaningful.
type Result struct {
	OriginalURL         string   `json:"original_url"`
	FinalURL            string   `json:"final_url,omitempty"`
	RedirectChain       []string `json:"redirect_chain,omitempty"`
	StatusCodes         []int    `json:"status_codes,omitempty"`
	IsRedirected        bool     `json:"is_redirected"`
	MaxRedirectsReached bool     `json:"max_redirects_reached,omitempty"`
	Title               string   `json:"title,omitempty"`
	Error               string   `json:"error,omitempty"`

	// TitleErr holds the *ContentFetchError that caused Title to be
	// TitleFetchFailed.
	TitleErr error `json:"-"`
}

// Hop is a single step in a redirect chain: the URL that was requested and
// the status code it answered with.
type Hop struct {
	Step       int
	URL        string
	StatusCode int
}

// Hops pairs each URL in the redirect chain with the status code of the
// response it produced.
func (r Result) Hops() []Hop {
	hops := make([]Hop, 0, len(r.RedirectChain))
	for i, u := range r.RedirectChain {
		hop := Hop{Step: i + 1, URL: u}
		if i < len(r.StatusCodes) {
			hop.StatusCode = r.StatusCodes[i]
		}
		hops = append(hops, hop)
	}
	return hops
}

func errorResult(originalURL string, err error) Result {
	return Result{
		OriginalURL: originalURL,
		Error:       err.Error(),
	}
}
