package urlanalyzer

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/purell"
)

// NormalizationFlags defines the normalization flags the purell package will
// use during canonicalization.
//
// See https://godoc.org/github.com/PuerkitoBio/purell#NormalizationFlags
var NormalizationFlags = (purell.FlagsSafe |
	purell.FlagRemoveDotSegments |
	purell.FlagRemoveDuplicateSlashes |
	purell.FlagRemoveUnnecessaryHostDots |
	purell.FlagRemoveEmptyPortSeparator)

// Query parameters matching these patterns are stripped from canonical URLs.
// Most of them are click trackers appended by link shorteners and newsletter
// tools on the way to the final destination.
var trackingParamPattern = listToRegexp(`(?i)^(`, `)$`, []string{
	// Google Analytics & Ads
	`utm_.+`,
	`gclid`,
	`dclid`,

	// Adobe
	`icid`,

	// Facebook
	`fbclid`,

	// Hubspot
	`_hsenc`,
	`_hsmi`,

	// Marketo
	`mkt_.+`,

	// MailChimp
	`mc_.+`,

	// Microsoft
	`msclkid`,

	// Vero
	`vero_.+`,

	// misc
	`igshid`,
	`ncid`,
	`ocid`,
	`ref_src`,
	`s_(sub)?src`,
	`smid`,
	`wpsrc`,
})

// Canonicalize strips tracking query params and the fragment from a URL and
// then normalizes it, ensuring consistent case, encoding, sorting of params,
// etc.
//
// The given URL is not modified.
func Canonicalize(u *url.URL) string {
	clone := *u
	clone.RawQuery = filterParams(u.Query()).Encode()
	clone.ForceQuery = false
	clone.Fragment = ""
	clone.RawFragment = ""
	return purell.NormalizeURL(&clone, NormalizationFlags)
}

func filterParams(params url.Values) url.Values {
	filtered := url.Values{}
	for param, values := range params {
		if trackingParamPattern.MatchString(param) {
			continue
		}
		for _, v := range values {
			filtered.Add(param, v)
		}
	}
	return filtered
}

func listToRegexp(prefix string, suffix string, patterns []string) *regexp.Regexp {
	combinedPattern := fmt.Sprintf("%s%s%s", prefix, strings.Join(patterns, "|"), suffix)
	return regexp.MustCompile(combinedPattern)
}
