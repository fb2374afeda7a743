package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/quizexport/internal/clipboard"
	"github.com/GriffinCanCode/quizexport/internal/logging"
	"github.com/GriffinCanCode/quizexport/internal/monitoring"
	"github.com/GriffinCanCode/quizexport/internal/page"
	"github.com/GriffinCanCode/quizexport/internal/quiz"
	"github.com/GriffinCanCode/quizexport/internal/toast"
)

// Export outcomes used in logs and metrics.
const (
	OutcomeCopied  = "copied"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// DefaultPollInterval is how often a not-yet-ready page is reloaded.
const DefaultPollInterval = 250 * time.Millisecond

// Notifier shows transient status messages.
type Notifier interface {
	Show(msg string)
}

// waiter is implemented by notifiers whose messages outlive Show.
type waiter interface {
	Wait()
}

// Options wires an App together.
type Options struct {
	Source   Source
	URL      string
	Force    bool
	Sanitize bool
	// Output receives a copy of every transcript when set.
	Output io.Writer

	Scope     *page.Scope
	Builder   *quiz.Builder
	Clipboard *clipboard.Writer
	Notifier  Notifier
	Metrics   *monitoring.Metrics

	MetricsTextfile string
	PollInterval    time.Duration
	Logger          *logging.Logger
}

// Outcome describes one click.
type Outcome struct {
	ID         string
	Status     string
	Transcript string
	Summary    quiz.Summary
	Clipboard  clipboard.Result
	Err        error
}

// Copied reports whether the transcript reached the clipboard.
func (o Outcome) Copied() bool {
	return o.Status == OutcomeCopied
}

// App runs the export pipeline.
type App struct {
	opts   Options
	logger *logging.Logger
}

// New creates an app. Missing collaborators get working defaults.
func New(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Scope == nil {
		opts.Scope, _ = page.NewScope(nil)
	}
	if opts.Builder == nil {
		opts.Builder = quiz.NewBuilder(nil)
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.NewWriter(opts.Logger, clipboard.DefaultStrategies("", 2*time.Second)...)
	}
	if opts.Notifier == nil {
		opts.Notifier = toast.New(io.Discard, 0, 0)
	}
	if opts.Metrics == nil {
		opts.Metrics = monitoring.NewMetrics()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	opts.Clipboard.WithObserver(opts.Metrics.RecordClipboardAttempt)

	return &App{opts: opts, logger: opts.Logger.Component("app")}
}

// Export handles one click: load the page, build the transcript, copy it
// and report the result. It never panics. The toast is shown last, after
// logging, so nothing else writes onto the toast's line.
func (a *App) Export(ctx context.Context) (out Outcome) {
	start := time.Now()
	out.ID = uuid.NewString()
	log := a.logger.With(zap.String("export_id", out.ID), zap.String("source", a.sourceName()))

	defer func() {
		if r := recover(); r != nil {
			out.Status = OutcomeFailed
			out.Err = fmt.Errorf("export panicked: %v", r)
			log.Error("export panicked", zap.Any("panic", r))
		}
		a.record(log, out, time.Since(start))
		switch out.Status {
		case OutcomeCopied:
			a.opts.Notifier.Show(toast.Copied)
		case OutcomeFailed:
			a.opts.Notifier.Show(toast.Failed)
		}
	}()

	snap, err := a.snapshot(ctx)
	if err != nil {
		out.Err = err
		if errors.Is(err, page.ErrOutOfScope) {
			out.Status = OutcomeSkipped
			log.Warn("page outside activation scope", zap.Error(err))
			return out
		}
		out.Status = OutcomeFailed
		log.Error("failed to load page", zap.Error(err))
		return out
	}

	out.Transcript, out.Summary = a.opts.Builder.Build(snap.Doc)
	log.Debug("transcript built",
		zap.Int("problems", out.Summary.Problems),
		zap.Int("choices", out.Summary.Choices),
		zap.Int("open_response", out.Summary.OpenResponse),
		zap.String("strategy", out.Summary.Strategy))

	if a.opts.Output != nil {
		a.print(log, out.Transcript)
	}

	out.Clipboard = a.opts.Clipboard.Write(ctx, out.Transcript)
	out.Status = OutcomeFailed
	if out.Clipboard.OK {
		out.Status = OutcomeCopied
	}
	return out
}

// snapshot loads a fresh copy of the page and checks it may be exported.
func (a *App) snapshot(ctx context.Context) (*page.Snapshot, error) {
	if a.opts.Source == nil {
		return nil, errors.New("no page source configured")
	}
	rc, err := a.opts.Source.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", a.opts.Source, err)
	}
	defer rc.Close()

	snap, err := page.Load(ctx, rc, page.Options{URL: a.opts.URL, Sanitize: a.opts.Sanitize})
	if err != nil {
		return nil, err
	}
	if !a.opts.Force {
		if err := a.opts.Scope.Check(snap.URL); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

func (a *App) sourceName() string {
	if a.opts.Source == nil {
		return ""
	}
	return a.opts.Source.String()
}

func (a *App) print(log *logging.Logger, transcript string) {
	if !strings.HasSuffix(transcript, "\n") {
		transcript += "\n"
	}
	if _, err := io.WriteString(a.opts.Output, transcript); err != nil {
		log.Warn("failed to print transcript", zap.Error(err))
	}
}

func (a *App) record(log *logging.Logger, out Outcome, elapsed time.Duration) {
	a.opts.Metrics.RecordExport(out.Status, out.Summary.Problems, out.Summary.Choices, out.Summary.Strategy, elapsed)
	if err := a.opts.Metrics.WriteTextfile(a.opts.MetricsTextfile); err != nil {
		log.Warn("failed to write metrics textfile", zap.Error(err))
	}

	log.Info("export finished",
		zap.String("outcome", out.Status),
		zap.String("clipboard", out.Clipboard.Strategy),
		zap.Duration("elapsed", elapsed))
}

// settle blocks until the current toast has dismissed itself.
func (a *App) settle() {
	if w, ok := a.opts.Notifier.(waiter); ok {
		w.Wait()
	}
}
