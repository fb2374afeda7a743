package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/quizexport/internal/app"
	"github.com/GriffinCanCode/quizexport/internal/clipboard"
	"github.com/GriffinCanCode/quizexport/internal/config"
	"github.com/GriffinCanCode/quizexport/internal/logging"
	"github.com/GriffinCanCode/quizexport/internal/monitoring"
	"github.com/GriffinCanCode/quizexport/internal/page"
	"github.com/GriffinCanCode/quizexport/internal/quiz"
	"github.com/GriffinCanCode/quizexport/internal/toast"
)

// Exit codes.
const (
	exitCopied = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	interactive bool
	url         string
	force       bool
	print       bool
	config      string
	path        string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("quizexport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.interactive, "i", false, "Interactive mode (shorthand)")
	fs.BoolVar(&opts.interactive, "interactive", false, "Draw the export button and export on every Enter")
	fs.StringVar(&opts.url, "url", "", "Page URL, when the snapshot does not record one")
	fs.BoolVar(&opts.force, "force", false, "Export even when the page is outside the activation scope")
	fs.BoolVar(&opts.print, "print", false, "Also print the transcript to stdout")
	fs.StringVar(&opts.config, "config", "", "Config file (.toml, .yaml)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: quizexport [flags] [snapshot.html|-]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.path = fs.Arg(0)
	default:
		fs.Usage()
		return opts, errors.New("at most one snapshot path may be given")
	}
	if opts.interactive && (opts.path == "" || opts.path == "-") {
		return opts, errors.New("interactive mode needs a snapshot file to reread")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitCopied
	}
	if err != nil {
		fmt.Fprintf(stderr, "quizexport: %v\n", err)
		return exitUsage
	}

	cfg, err := config.Load(opts.config)
	if err != nil {
		fmt.Fprintf(stderr, "quizexport: %v\n", err)
		return exitUsage
	}

	logger, err := logging.New(logging.ConfigFor(cfg.Logging.Level, cfg.Logging.Development))
	if err != nil {
		fmt.Fprintf(stderr, "quizexport: invalid log level %q: %v\n", cfg.Logging.Level, err)
		return exitUsage
	}
	defer logger.Sync()

	scope, err := page.NewScope(cfg.Scope.Match)
	if err != nil {
		fmt.Fprintf(stderr, "quizexport: %v\n", err)
		return exitUsage
	}
	locator, err := quiz.NewLocatorFromSelectors(cfg.Extract.Selectors)
	if err != nil {
		fmt.Fprintf(stderr, "quizexport: %v\n", err)
		return exitUsage
	}

	var source app.Source
	if opts.path == "" || opts.path == "-" {
		source = app.NewReaderSource("stdin", stdin)
	} else {
		source = app.FileSource(opts.path)
	}

	clipLog := logger.Component("clipboard")
	strategies := clipboard.DefaultStrategies(cfg.Clipboard.Command, cfg.Clipboard.Timeout)
	if opts.interactive {
		strategies = clipboard.Guarded(strategies, cfg.Clipboard.Trips, cfg.Clipboard.Cooldown,
			func(name string, from, to clipboard.State) {
				clipLog.Warn("clipboard breaker changed state",
					zap.String("strategy", name),
					zap.Stringer("from", from),
					zap.Stringer("to", to))
			})
	}

	notifier := toast.New(stderr, cfg.Toast.Duration, cfg.Toast.Fade)
	defer notifier.Wait()

	appOpts := app.Options{
		Source:          source,
		URL:             opts.url,
		Force:           opts.force,
		Sanitize:        cfg.Extract.Sanitize,
		Scope:           scope,
		Builder:         quiz.NewBuilder(locator),
		Clipboard:       clipboard.NewWriter(clipLog, strategies...),
		Notifier:        notifier,
		Metrics:         monitoring.NewMetrics(),
		MetricsTextfile: cfg.Metrics.Textfile,
		Logger:          logger,
	}
	if opts.print {
		appOpts.Output = stdout
	}
	a := app.New(appOpts)

	logger.Debug("starting",
		zap.String("source", source.String()),
		zap.Bool("interactive", opts.interactive),
		zap.Strings("match", cfg.Scope.Match))

	if opts.interactive {
		if err := a.Run(ctx, stdin, stderr); err != nil {
			reportSkip(stderr, err)
			return exitFailed
		}
		return exitCopied
	}

	out := a.Export(ctx)
	if out.Copied() {
		return exitCopied
	}
	reportSkip(stderr, out.Err)
	return exitFailed
}

func reportSkip(w io.Writer, err error) {
	if errors.Is(err, page.ErrOutOfScope) {
		fmt.Fprintf(w, "quizexport: %v (use -force to export anyway)\n", err)
	}
}
