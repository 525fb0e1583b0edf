package urlanalyzer

import "fmt"

// TransportError is returned when one of the header-only requests used to
// walk the redirect chain fails. It aborts the whole resolution.
type TransportError struct {
	URL string
	Err error
}

// Error returns the underlying error's message, which already names the
// request that failed.
func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ContentFetchError is recorded when the final page could not be fetched to
// look for its title. The resolution still succeeds.
type ContentFetchError struct {
	URL string
	Err error
}

func (e *ContentFetchError) Error() string {
	return fmt.Sprintf("error fetching title: %s", e.Err)
}

func (e *ContentFetchError) Unwrap() error {
	return e.Err
}
