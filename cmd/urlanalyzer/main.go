package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mccutchen/urlanalyzer"
	"github.com/mccutchen/urlanalyzer/insecuretransport"
	"github.com/mccutchen/urlanalyzer/render"
	"github.com/mccutchen/urlanalyzer/telemetry"
)

// Process exit codes
const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130 // 128 + SIGINT
)

type options struct {
	verbose        bool
	trace          bool
	strictLocation bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	var (
		opts options
		code = exitOK
	)

	// fatih/color only looks at os.Stdout, which may not be where we write
	color.NoColor = !isTerminal(stdout)

	cmd := &cobra.Command{
		Use:   "urlanalyzer [url]",
		Short: "Track short URL redirects and analyze the final destination",
		Long: `Follows the redirect chain of a URL one hop at a time, printing every
intermediate URL and its status code, then reports the title, components and
transport security of the page it ends on.

If no URL is given, it is read from stdin. URLs without a scheme are
requested over http://.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code = analyze(cmd.Context(), opts, args, stdin, stdout, stderr)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every request to stderr")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "write OpenTelemetry spans to stderr")
	cmd.Flags().BoolVar(&opts.strictLocation, "strict-location", false, "resolve relative Location headers against the current URL")

	// cobra falls back to os.Args when given nil args
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		render.Failure(stderr, err)
		return exitError
	}
	return code
}

func analyze(ctx context.Context, opts options, args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	logger := newLogger(stderr, opts.verbose)
	ctx = logger.WithContext(ctx)

	var transport http.RoundTripper = insecuretransport.New()
	if opts.trace {
		shutdown, err := telemetry.Init(stderr)
		if err != nil {
			render.Failure(stderr, err)
			return exitError
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("error shutting down tracer provider")
			}
		}()
		transport = telemetry.WrapTransport(transport)
	}

	render.Banner(stdout)

	input, err := readInput(ctx, args, stdin, stdout)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			render.Cancelled(stdout)
			return exitInterrupted
		}
		render.Failure(stderr, err)
		return exitError
	}

	var resolverOpts []urlanalyzer.Option
	if opts.strictLocation {
		resolverOpts = append(resolverOpts, urlanalyzer.WithStrictLocation())
	}
	resolver := urlanalyzer.New(transport, resolverOpts...)

	result, err := resolver.Resolve(ctx, urlanalyzer.Normalize(input))
	if ctx.Err() != nil {
		render.Cancelled(stdout)
		return exitInterrupted
	}

	render.Result(stdout, result)
	if err != nil {
		logger.Debug().Err(err).Msg("resolution failed")
		return exitError
	}
	return exitOK
}

type readResult struct {
	line string
	err  error
}

// readInput returns the URL given on the command line, or prompts for one on
// stdin. Waiting on the prompt is abandoned if ctx is cancelled.
func readInput(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	render.Prompt(stdout)

	resultCh := make(chan readResult, 1)
	go func() {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		resultCh <- readResult{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-resultCh:
		// a final line without a trailing newline is still a line
		if r.err != nil && !(errors.Is(r.err, io.EOF) && r.line != "") {
			return "", fmt.Errorf("error reading url: %w", r.err)
		}
		return strings.TrimSpace(r.line), nil
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
