// Package render prints resolution results for humans.
//
// Every function here is a pure function of its arguments: it only writes the
// given Result to the given writer and never touches the network.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/mccutchen/urlanalyzer"
)

const ruleWidth = 60

var (
	accent  = color.New(color.FgBlue)
	heading = color.New(color.FgGreen, color.Bold)
	label   = color.New(color.FgYellow)
	bad     = color.New(color.FgRed)
	good    = color.New(color.FgGreen)
	status  = color.New(color.FgHiMagenta)
	banner  = color.New(color.FgCyan, color.Bold)
	prompt  = color.New(color.FgHiBlue)
)

// Banner writes the program banner.
func Banner(w io.Writer) {
	banner.Fprintln(w, "URL ANALYZER")
	rule(w)
	label.Fprintln(w, "Track short URL redirects and analyze final destination")
	rule(w)
	fmt.Fprintln(w)
}

// Result writes every field of a resolution result, followed by the domain
// and security breakdown of its final URL.
func Result(w io.Writer, result urlanalyzer.Result) {
	fmt.Fprintln(w)
	rule(w)
	heading.Fprintln(w, "ANALYSIS RESULTS")
	rule(w)

	fmt.Fprintln(w)
	field(w, "Original URL:", result.OriginalURL)

	if result.Error != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s %s\n", bad.Sprint("Error:"), result.Error)
		return
	}

	field(w, "Final URL:", result.FinalURL)
	field(w, "Was redirected?", yesNo(result.IsRedirected))

	if result.IsRedirected {
		fmt.Fprintln(w)
		label.Fprintln(w, "Redirect Path:")
		for _, hop := range result.Hops() {
			fmt.Fprintf(w, "  %s Step %d: %s %s\n",
				accent.Sprint("->"), hop.Step, hop.URL, status.Sprintf("[%d]", hop.StatusCode))
		}
	} else if n := len(result.StatusCodes); n > 0 {
		field(w, "Status:", status.Sprintf("[%d]", result.StatusCodes[n-1]))
	}
	if result.MaxRedirectsReached {
		fmt.Fprintf(w, "  %s\n", bad.Sprint("Stopped following redirects: too many redirects"))
	}

	fmt.Fprintln(w)
	field(w, "Page Title:", result.Title)

	Domain(w, result.FinalURL)

	fmt.Fprintln(w)
	rule(w)
}

// Domain writes the component and security breakdown of rawURL.
func Domain(w io.Writer, rawURL string) {
	d, err := urlanalyzer.Inspect(rawURL)
	if err != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s %s\n", bad.Sprint("Could not inspect final URL:"), err)
		return
	}

	fmt.Fprintln(w)
	label.Fprintln(w, "Domain Information:")
	bullet(w, "Domain", d.Host)
	if d.RegisteredDomain != "" {
		bullet(w, "Registered domain", d.RegisteredDomain)
	}
	bullet(w, "Path", d.Path)
	bullet(w, "Query", orNone(d.Query, d.HasQuery))
	bullet(w, "Fragment", orNone(d.Fragment, d.HasFragment))
	bullet(w, "Canonical URL", d.CanonicalURL)

	fmt.Fprintln(w)
	label.Fprintln(w, "Security:")
	protocol := bad.Sprint("HTTP")
	if d.Secure {
		protocol = good.Sprint("HTTPS")
	}
	bullet(w, "Protocol", protocol)
}

// Cancelled writes the message shown when the user interrupts a run.
func Cancelled(w io.Writer) {
	fmt.Fprintln(w)
	bad.Fprintln(w, "Operation cancelled by user")
}

// Failure writes the message shown for failures outside of resolution
// itself, like being unable to read input.
func Failure(w io.Writer, err error) {
	fmt.Fprintln(w)
	bad.Fprintf(w, "Error: %s\n", err)
}

func rule(w io.Writer) {
	accent.Fprintln(w, strings.Repeat("-", ruleWidth))
}

func field(w io.Writer, name string, value string) {
	fmt.Fprintf(w, "%s %s\n", label.Sprint(name), value)
}

func bullet(w io.Writer, name string, value string) {
	fmt.Fprintf(w, "  %s %s: %s\n", good.Sprint("*"), name, value)
}

func yesNo(b bool) string {
	if b {
		return good.Sprint("Yes")
	}
	return bad.Sprint("No")
}

func orNone(value string, present bool) string {
	if !present {
		return "None"
	}
	return value
}

// Prompt writes the prompt asking for a URL when none was given.
func Prompt(w io.Writer) {
	prompt.Fprint(w, "Enter short URL to analyze: ")
}
