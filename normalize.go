package urlanalyzer

import "strings"

const defaultScheme = "http://"

// Normalize makes sure the given input looks like an absolute http(s) URL by
// prepending the http:// scheme when neither http:// nor https:// is
// present.
//
// No other validation is performed. Garbage in will surface as a request
// error during resolution.
func Normalize(input string) string {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return input
	}
	return defaultScheme + input
}
